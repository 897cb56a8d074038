package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/warehouse/backend/internal/infrastructure/config"
	"github.com/warehouse/backend/internal/infrastructure/logger"
	"github.com/warehouse/backend/internal/infrastructure/migration"
)

func main() {
	var (
		migrationsPath = flag.String("path", "migrations", "migrations directory")
		logLevel       = flag.String("log-level", "info", "debug, info, warn or error")
		confirmDrop    = flag.Bool("confirm", false, "confirm destructive commands")
	)
	flag.Usage = usage
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		usage()
		os.Exit(1)
	}
	command := args[0]

	log, err := logger.New(&logger.Config{Level: *logLevel, Format: "console", Output: "stdout"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	dir, err := filepath.Abs(*migrationsPath)
	if err != nil {
		log.Fatal("resolve migrations path", zap.Error(err))
	}

	// create and list only touch the filesystem
	switch command {
	case "create":
		if len(args) < 2 {
			log.Fatal("usage: migrate create <name> [description]")
		}
		description := ""
		if len(args) > 2 {
			description = args[2]
		}
		mf, err := migration.CreateMigration(dir, args[1], description)
		if err != nil {
			log.Fatal("create migration", zap.Error(err))
		}
		log.Info("migration created",
			zap.String("version", mf.Version),
			zap.String("up", mf.UpPath),
			zap.String("down", mf.DownPath),
		)
		return

	case "list":
		names, err := migration.ListMigrations(dir)
		if err != nil {
			log.Fatal("list migrations", zap.Error(err))
		}
		if len(names) == 0 {
			log.Info("no migrations found", zap.String("path", dir))
			return
		}
		for _, name := range names {
			fmt.Println(name)
		}
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("open database", zap.Error(err))
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal("ping database", zap.Error(err))
	}

	m, err := migration.New(db, dir, log)
	if err != nil {
		log.Fatal("init migrator", zap.Error(err))
	}
	defer m.Close()

	switch command {
	case "up":
		err = m.Up()
	case "down":
		err = m.Down()
	case "step":
		n, parseErr := intArg(args, "usage: migrate step <n>", log)
		if parseErr != nil {
			log.Fatal("invalid step count", zap.Error(parseErr))
		}
		err = m.Steps(n)
	case "goto":
		n, parseErr := intArg(args, "usage: migrate goto <version>", log)
		if parseErr != nil || n < 0 {
			log.Fatal("invalid version", zap.Strings("args", args[1:]))
		}
		err = m.GoTo(uint(n))
	case "force":
		n, parseErr := intArg(args, "usage: migrate force <version>", log)
		if parseErr != nil {
			log.Fatal("invalid version", zap.Error(parseErr))
		}
		err = m.Force(n)
	case "version":
		version, dirty, verr := m.Version()
		if verr != nil {
			log.Fatal("read version", zap.Error(verr))
		}
		if version == 0 {
			log.Info("no migrations applied")
		} else {
			log.Info("current version", zap.Uint("version", version), zap.Bool("dirty", dirty))
		}
	case "drop":
		if !*confirmDrop {
			log.Fatal("drop destroys all data; rerun with -confirm")
		}
		err = m.Drop()
	default:
		log.Error("unknown command", zap.String("command", command))
		usage()
		os.Exit(1)
	}

	if err != nil {
		log.Fatal("migration failed", zap.String("command", command), zap.Error(err))
	}
}

func intArg(args []string, usageMsg string, log *zap.Logger) (int, error) {
	if len(args) < 2 {
		log.Fatal(usageMsg)
	}
	return strconv.Atoi(args[1])
}

func usage() {
	fmt.Println(`warehouse schema migration tool

usage: migrate [flags] <command> [args]

commands:
  up                   apply all pending migrations
  down                 roll back everything
  step <n>             apply n migrations (negative rolls back)
  goto <version>       migrate to an exact version
  version              print the current version
  force <version>      overwrite the recorded version (recover dirty state)
  drop                 drop every database object (requires -confirm)
  create <name> [desc] scaffold an empty up/down pair
  list                 print migrations found in -path

flags:
  -path string       migrations directory (default "migrations")
  -log-level string  debug, info, warn or error (default "info")
  -confirm           confirm destructive commands

database settings come from config.toml or WMS_DATABASE_* environment
variables, the same sources the server reads.`)
}
