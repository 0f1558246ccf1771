package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"runtime/pprof"

	"gioui.org/app"

	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/cmd"
	"github.com/nuottila/rulla/editor"
	"github.com/nuottila/rulla/editor/gioui"
	"github.com/nuottila/rulla/oto"
)

var cpuprofile = flag.String("cpuprofile", "", "write cpu profile to `file`")
var memprofile = flag.String("memprofile", "", "write memory profile to `file`")
var defaultMidiInput = flag.String("midi-input", "", "connect MIDI input to matching device name prefix")

func main() {
	flag.Parse()
	var f *os.File
	if *cpuprofile != "" {
		var err error
		f, err = os.Create(*cpuprofile)
		if err != nil {
			log.Fatal("could not create CPU profile: ", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.Fatal("could not start CPU profile: ", err)
		}
	}
	audioContext, err := oto.NewContext()
	if err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
	preferences := gioui.MakePreferences()
	recoveryFile := ""
	if configDir, err := os.UserConfigDir(); err == nil && preferences.Autosave {
		recoveryFile = filepath.Join(configDir, "rulla", "rulla-edit-recovery")
	}
	broker := editor.NewBroker()
	midiContext := cmd.NewMidiContext(broker)
	defer midiContext.Close()
	if isFlagPassed("midi-input") {
		input, ok := editor.FindMIDIDeviceByPrefix(midiContext, *defaultMidiInput)
		if ok {
			if err := input.Open(); err != nil {
				log.Printf("failed to open MIDI input '%s': %v", input, err)
			}
		} else {
			log.Printf("no MIDI input device found with prefix '%s'", *defaultMidiInput)
		}
	}
	model := editor.NewModel(broker, cmd.Synthers, midiContext, recoveryFile)
	player := editor.NewPlayer(broker, cmd.Synthers[0])

	if a := flag.Args(); len(a) > 0 {
		if f, err := os.Open(a[0]); err == nil {
			model.ReadSong(f)
		}
	}

	editorUi := gioui.NewEditor(model, preferences)
	// MIDI events reach the player through the process context, so they
	// land frame accurately inside the audio blocks
	processContext := editor.PlayerProcessContext(editor.NullPlayerProcessContext{})
	if pc, ok := midiContext.(editor.PlayerProcessContext); ok {
		processContext = pc
	}
	audioCloser := audioContext.Play(func(buf rulla.AudioBuffer) error {
		player.Process(buf, processContext)
		return nil
	})

	go func() {
		editorUi.Main()
		audioCloser.Close()
		model.Close()
		if *cpuprofile != "" {
			pprof.StopCPUProfile()
			f.Close()
		}
		if *memprofile != "" {
			f, err := os.Create(*memprofile)
			if err != nil {
				log.Fatal("could not create memory profile: ", err)
			}
			defer f.Close()
			runtime.GC()
			if err := pprof.WriteHeapProfile(f); err != nil {
				log.Fatal("could not write memory profile: ", err)
			}
		}
		os.Exit(0)
	}()
	app.Main()
}

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}
