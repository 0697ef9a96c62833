package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/vidgrab/vidgrab/internal"
)

// main is the entry point to the program. Configuration is read from
// the optional YAML file given with -config, with environment
// variables and built-in defaults filling any gaps.
func main() {
	configPath := flag.String("config", "", "path to a YAML configuration file (optional)")
	flag.Parse()

	config := internal.AppConfig{}
	if *configPath != "" {
		if err := config.LoadFromFile(*configPath); err != nil {
			log.Panicf("Failed to load configuration - %v\n", err.Error())
		}
	} else if err := config.LoadFromEnv(); err != nil {
		log.Panicf("Failed to load configuration - %v\n", err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := internal.New(config)
	if err != nil {
		log.Panicf("Failed to initialise vidgrab - %v\n", err.Error())
	}

	if err := app.Run(ctx); err != nil {
		log.Panicf("vidgrab stopped with error - %v\n", err.Error())
	}
}
