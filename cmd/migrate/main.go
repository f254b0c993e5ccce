// Package main migrates the job-state schema that persistent scheduler
// jobs record their last-fired times in.
//
// Usage:
//
//	migrate -config configs/dev.yaml up
//	migrate -config configs/dev.yaml down 1
//	migrate -config configs/dev.yaml status
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"

	"github.com/polishedworld/simcore/internal/config"
)

func main() {
	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	sourceDir := flag.String("migrations", "migrations", "path to migration files")
	flag.Parse()

	command := flag.Arg(0)
	if command == "" {
		command = "up"
	}
	steps := 0
	if arg := flag.Arg(1); arg != "" {
		n, err := strconv.Atoi(arg)
		if err != nil || n <= 0 {
			log.Fatalf("steps must be a positive integer, got %q", arg)
		}
		steps = n
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	m, err := migrate.New("file://"+*sourceDir, cfg.Database.DSN())
	if err != nil {
		log.Fatalf("creating migrator: %v", err)
	}
	defer m.Close()

	switch command {
	case "up":
		err = runUp(m, steps)
	case "down":
		err = runDown(m, steps)
	case "status":
		printStatus(m)
		return
	default:
		log.Fatalf("unknown command %q: want up, down, or status", command)
	}

	if err != nil && err != migrate.ErrNoChange {
		log.Fatalf("migration %s failed: %v", command, err)
	}
	if err == migrate.ErrNoChange {
		fmt.Println("schema already current")
	}
	printStatus(m)
}

func runUp(m *migrate.Migrate, steps int) error {
	if steps > 0 {
		return m.Steps(steps)
	}
	return m.Up()
}

func runDown(m *migrate.Migrate, steps int) error {
	if steps > 0 {
		return m.Steps(-steps)
	}
	return m.Down()
}

func printStatus(m *migrate.Migrate) {
	version, dirty, err := m.Version()
	switch {
	case err == migrate.ErrNilVersion:
		fmt.Println("schema version: none")
	case err != nil:
		fmt.Fprintf(os.Stderr, "reading schema version: %v\n", err)
	default:
		fmt.Printf("schema version: %d dirty: %v\n", version, dirty)
	}
}
