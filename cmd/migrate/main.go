// Command migrate applies or rolls back the embedded schema migrations.
//
//	migrate              apply everything pending
//	migrate -down        roll back every migration
//	migrate -to 2        move to version 2
//	migrate -version     print the current version
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/joho/godotenv"

	"myday-qr/internal/config"
	"myday-qr/internal/database"
	"myday-qr/internal/database/migrations"
	"myday-qr/internal/logger"
)

func main() {
	down := flag.Bool("down", false, "roll back all migrations")
	to := flag.Int("to", -1, "migrate to this version")
	version := flag.Bool("version", false, "print the current schema version")
	flag.Parse()

	godotenv.Load()
	cfg := config.Load()
	log := logger.NewLogger(cfg.Log.Dir)
	defer log.Close()

	bunDB, err := database.Open(context.Background(), cfg.Database, log)
	if err != nil {
		log.Fatal("DATABASE", err.Error())
	}

	runner := migrations.NewRunner(bunDB, log)
	defer runner.Close()

	switch {
	case *version:
		v, dirty, err := runner.Version()
		if err != nil {
			log.Fatal("MIGRATE", err.Error())
		}
		fmt.Printf("version %d (dirty: %t)\n", v, dirty)
	case *down:
		err = runner.MigrateDown()
	case *to >= 0:
		err = runner.MigrateTo(uint(*to))
	default:
		err = runner.RunMigrations()
	}
	if err != nil {
		log.Fatal("MIGRATE", err.Error())
	}
	log.Info("MIGRATE", "Done")
}
