/* Copyright 2025 Cornell Notes Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/cornellnotes/cornell/pkg/clock"
	"github.com/cornellnotes/cornell/pkg/server/app"
	"github.com/cornellnotes/cornell/pkg/server/buildinfo"
	"github.com/cornellnotes/cornell/pkg/server/config"
	"github.com/cornellnotes/cornell/pkg/server/controllers"
	"github.com/cornellnotes/cornell/pkg/server/database"
	"github.com/cornellnotes/cornell/pkg/server/log"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

func initDB(databaseURL string) *gorm.DB {
	db := database.Open(databaseURL)
	database.InitSchema(db)

	return db
}

func initApp(cfg config.Config) app.App {
	db := initDB(cfg.DatabaseURL)

	return app.App{
		DB:     db,
		Clock:  clock.New(),
		Config: cfg,
	}
}

func startCmd(args []string) {
	startFlags := flag.NewFlagSet("start", flag.ExitOnError)
	startFlags.Usage = func() {
		fmt.Printf(`Usage:
  cornell-server start [flags]

Flags:
`)
		startFlags.PrintDefaults()
	}

	appEnv := startFlags.String("appEnv", "", "Application environment (env: APP_ENV, default: PRODUCTION)")
	port := startFlags.String("port", "", "Server port (env: PORT, default: 3001)")
	databaseURL := startFlags.String("databaseUrl", "", "Database connection string: a postgres:// URL or a SQLite file path (env: DATABASE_URL, default: cornell.db)")
	configFile := startFlags.String("configFile", "", "Path to a YAML config file")
	logLevel := startFlags.String("logLevel", "", "Log level: debug, info, warn, or error (env: LOG_LEVEL, default: info)")

	startFlags.Parse(args)

	cfg, err := config.New(config.Params{
		AppEnv:      *appEnv,
		Port:        *port,
		DatabaseURL: *databaseURL,
		ConfigFile:  *configFile,
		LogLevel:    *logLevel,
	})
	if err != nil {
		fmt.Printf("Error: %s\n\n", err)
		startFlags.Usage()
		os.Exit(1)
	}

	log.SetLevel(cfg.LogLevel)

	app := initApp(cfg)
	defer func() {
		sqlDB, err := app.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}()

	ctl := controllers.New(&app)
	rc := controllers.RouteConfig{
		Routes:      controllers.NewRoutes(&app, ctl),
		Controllers: ctl,
	}

	r, err := controllers.NewRouter(&app, rc)
	if err != nil {
		panic(errors.Wrap(err, "initializing router"))
	}

	log.WithFields(log.Fields{
		"version": buildinfo.Version,
		"port":    cfg.Port,
	}).Info("Cornell server starting")

	if err := http.ListenAndServe(fmt.Sprintf(":%s", cfg.Port), r); err != nil {
		log.ErrorWrap(err, "server failed")
		os.Exit(1)
	}
}

func versionCmd() {
	fmt.Printf("cornell-server-%s\n", buildinfo.Version)
}

func rootCmd() {
	fmt.Printf(`Cornell server - a backend for Cornell-style note taking

Usage:
  cornell-server [command] [flags]

Available commands:
  start: Start the server (use 'cornell-server start --help' for flags)
  user: Manage users (use 'cornell-server user' for subcommands)
  version: Print the version
`)
}

func main() {
	if len(os.Args) < 2 {
		rootCmd()
		return
	}

	cmd := os.Args[1]

	switch cmd {
	case "start":
		startCmd(os.Args[2:])
	case "user":
		userCmd(os.Args[2:])
	case "version":
		versionCmd()
	default:
		fmt.Printf("Unknown command %s\n", cmd)
		rootCmd()
		os.Exit(1)
	}
}
