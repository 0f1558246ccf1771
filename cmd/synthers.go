package cmd

import (
	"github.com/nuottila/rulla"
	"github.com/nuottila/rulla/synth"
)

// Synthers lists the synth engines available to the program. The first one
// is the default.
var Synthers = []rulla.Synther{
	synth.Sine(),
	synth.Saw(),
	synth.Triangle(),
}
