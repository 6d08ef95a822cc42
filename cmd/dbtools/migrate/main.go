// cmd/dbtools/migrate/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"

	"github.com/codr1/agentos-lite/internal/db"
)

func main() {
	var (
		dbPath  = flag.String("db", "", "Path to SQLite preference database")
		command = flag.String("command", "", "Command to run (up, down, version, dump)")
		profile = flag.String("profile", "default", "Preference profile for dump")
	)
	flag.Parse()

	if *dbPath == "" || *command == "" {
		flag.Usage()
		os.Exit(1)
	}

	if *command == "dump" {
		dump(*dbPath, *profile)
		return
	}

	migrations, dir := db.Migrations()
	source, err := iofs.New(migrations, dir)
	if err != nil {
		log.Fatalf("Migration source failed: %v", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", source, fmt.Sprintf("sqlite3://%s", *dbPath))
	if err != nil {
		log.Fatalf("Migration init failed: %v", err)
	}
	defer m.Close()

	switch *command {
	case "up":
		if err := m.Up(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("Migration up failed: %v", err)
		}
	case "down":
		if err := m.Down(); err != nil && err != migrate.ErrNoChange {
			log.Fatalf("Migration down failed: %v", err)
		}
	case "version":
		version, dirty, err := m.Version()
		if err != nil {
			log.Fatalf("Get version failed: %v", err)
		}
		fmt.Printf("Version: %d, Dirty: %v\n", version, dirty)
	default:
		log.Fatalf("Unknown command: %s", *command)
	}
}

// dump prints every stored preference of profile.
func dump(dbPath, profile string) {
	database, err := db.New(dbPath)
	if err != nil {
		log.Fatalf("Open database failed: %v", err)
	}
	defer database.Close()

	rows, err := database.Queries.ListPreferences(context.Background(), profile)
	if err != nil {
		log.Fatalf("List preferences failed: %v", err)
	}
	for _, p := range rows {
		fmt.Printf("%s\t%s\t%s\n", p.UpdatedAt.Format("2006-01-02 15:04:05"), p.Key, p.Value)
	}
}
