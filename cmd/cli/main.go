package main

import (
	"os"
	"strings"

	"github.com/nimasrn/bizledger/internal/config"
	"github.com/nimasrn/bizledger/pkg/logger"
	"github.com/nimasrn/bizledger/pkg/pg"
)

// main.go --env=.env --dir=./migrations
func main() {
	err := config.Load(getEnvPath())
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	pgConf := pg.Config{
		User:     config.Get().PostgresWriteUser,
		Host:     config.Get().PostgresWriteHost,
		Port:     config.Get().PostgresWritePort,
		Password: config.Get().PostgresWritePassword,
		Database: config.Get().PostgresWriteDatabase,
	}
	err = pg.Migrate(pgConf, getMigrationPath(config.Get().MigrationsDir))
	if err != nil {
		logger.Error("migration: error running migrations", "error", err)
		os.Exit(1)
	}
}

func argValue(name string) (string, bool) {
	for _, v := range os.Args {
		if strings.HasPrefix(v, "--"+name+"=") {
			return strings.TrimPrefix(v, "--"+name+"="), true
		}
	}
	return "", false
}

func getEnvPath() string {
	path, ok := argValue("env")
	if !ok {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if ok {
			logger.Error("failed to open the passed env file, got error" + err.Error())
		}
		return ""
	}
	return path
}

func getMigrationPath(fallback string) string {
	if dir, ok := argValue("dir"); ok {
		return dir
	}
	return fallback
}
