package main

import (
	"flag"
	"log"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/psidex/simgraph/internal/config"
	"github.com/psidex/simgraph/internal/lib"
	"github.com/psidex/simgraph/internal/webserver"
)

func main() {
	_ = godotenv.Load()

	staticDir := flag.String("d", "public", "the directory to serve static files from")
	address := flag.String("b", "127.0.0.1:8080", "the ip:port to bind the webserver to")
	results := flag.String("results", "", "the folder holding one result set per subdirectory")
	truth := flag.String("truth", "", "the ground truth graph, needed for pair matrices")
	configPath := flag.String("config", "", "the TOML config file to use")

	flag.Parse()

	if *results == "" {
		log.Fatal("-results is required")
	}

	var cfg config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.Load(*configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		log.Fatal(err)
	}

	level, err := cfg.Level()
	if err != nil {
		log.Fatal(err)
	}
	logger := lib.NiceLogger(os.Stdout, level)

	s := webserver.NewServer(logger, cfg.Orchestrator(), *results, *truth)

	http.Handle("/", http.FileServer(http.Dir(*staticDir)))
	http.HandleFunc("/ws", s.Session)

	logger.Info("Listening", "address", *address, "results", *results)
	log.Fatal(http.ListenAndServe(*address, nil))
}
