package main

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/spf13/cobra"

	"github.com/nuottila/rulla"
)

var serveAddr string

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "address to listen on")
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve [flags] song",
	Short: "Serve a song over HTTP as json",
	Long: `Serve a song over HTTP as json.

GET /song returns the song, GET /stats the same summary the inspect
command prints. Meant for piping the song into other tools and quick
visualisations; the server is read only.`,
	Args: cobra.ExactArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		song, err := readSong(args[0])
		if err != nil {
			return err
		}
		return serve(song)
	},
}

func serve(song rulla.Song) error {
	router := mux.NewRouter().StrictSlash(true)
	router.HandleFunc("/song", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(song)
	}).Methods("GET")
	router.HandleFunc("/stats", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(statsOf(song))
	}).Methods("GET")
	log.Printf("listening on %s", serveAddr)
	return http.ListenAndServe(serveAddr, cors.Default().Handler(router))
}
