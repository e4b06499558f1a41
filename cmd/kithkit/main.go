// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

// Command kithkit is the consumer CLI: search, install, update,
// uninstall, list, and the detector self-test.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/kithkit/kithkit-core/logger"
)

const (
	exitOK   = 0
	exitFail = 1
)

// version is stamped at release time via ldflags.
var version = "0.0.0-dev"

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) (code int) {
	// A panic anywhere below becomes a diagnostic and exit 1 instead of
	// a crash dump.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "kithkit: internal error: %v\n", r)
			code = exitFail
		}
	}()

	_ = godotenv.Load()
	logger.Initialize()

	if len(args) < 2 {
		usage()
		return exitFail
	}

	switch args[1] {
	case "search":
		return runSearch(args[2:])
	case "install":
		return runInstall(args[2:])
	case "update":
		return runUpdate(args[2:])
	case "uninstall":
		return runUninstall(args[2:])
	case "list":
		return runList(args[2:])
	case "selftest":
		return runSelfTest(args[2:])
	case "version", "--version":
		fmt.Println("kithkit", version)
		return exitOK
	default:
		usage()
		return exitFail
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: kithkit <command> [flags]

commands:
  search <query>              search the catalog
  install <skill> [version]   install a skill from the catalog
  update [skill]              update one skill, or all installed skills
  uninstall <skill>           remove an installed skill (config is backed up)
  list                        list installed skills
  selftest                    run the detector self-test corpus`)
}

// fail prints a one-line diagnostic and returns the failure exit code.
func fail(err error) int {
	fmt.Fprintf(os.Stderr, "kithkit: error: %v\n", err)
	return exitFail
}
