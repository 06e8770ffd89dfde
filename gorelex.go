// Copyright (c) 2020, The GoRelEx Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/joho/godotenv"
)

var logger = log.New(os.Stderr, "", 0)

// stdout receives the reports printed by the commands.
var stdout io.Writer = os.Stdout

func main() {
	initLogging()
	loadDotEnv()

	cmd := newRootCommand()
	if err := cmd.Dispatch(os.Args[1:]); err != nil {
		logger.Println("An error occurred running gorelex.")
		logger.Fatal(err)
	}
}

func newRootCommand() *commander.Command {
	return &commander.Command{
		UsageLine: os.Args[0] + " <command> [options]",
		Short:     "prepares and scores TACRED-style relation extraction data",
		Subcommands: []*commander.Command{
			statsCmd(),
			splitCmd(),
			evalCmd(),
		},
		Flag: *flag.NewFlagSet("gorelex", flag.ExitOnError),
	}
}

func initLogging() {
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil)))
}

// loadDotEnv loads the GORELEX_* variables from the file named by
// GORELEX_ENV_FILE, or from .env when present.
func loadDotEnv() {
	envFile := os.Getenv("GORELEX_ENV_FILE")
	if envFile == "" {
		envFile = ".env"
		if _, err := os.Stat(envFile); err != nil {
			return
		}
	}
	if err := godotenv.Load(envFile); err != nil {
		logger.Println("An error occurred reading the environment file.")
		logger.Fatal(err)
	}
	slog.Info("loaded environment file", "env_file", envFile)
}
