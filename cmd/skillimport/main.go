// Command skillimport parses skill documents into a profile and saves it to
// the configured profile store.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/samdwyer/bitacora/internal/config"
	"github.com/samdwyer/bitacora/internal/importer"
)

func main() {
	cfg, err := importer.ParseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		log.Fatalf("Error: %v", err)
	}

	env, err := config.Load()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	logger, closeLog, err := env.Logger()
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer closeLog()

	store, closeStore, err := env.OpenStore(logger)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	defer closeStore()

	p, err := importer.Run(context.Background(), cfg, store, os.Stdout)
	if err != nil {
		log.Fatalf("Error: %v", err)
	}
	logger.Info("profile imported", "profile", p.ID, "skills", len(p.Skills), "dry_run", cfg.DryRun)
}
