// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

// Command kithkit-catalog is the authority CLI: lint submissions, build
// and sign the index, verify it, and generate the signing key pair.
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

func main() {
	os.Exit(run(os.Args))
}

func run(args []string) (code int) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "kithkit-catalog: internal error: %v\n", r)
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
	case "lint":
		return runLint(args[2:])
	case "sign":
		return runSign(args[2:])
	case "build":
		return runBuild(args[2:])
	case "verify":
		return runVerify(args[2:])
	case "keygen":
		return runKeygen(args[2:])
	default:
		usage()
		return exitFail
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: kithkit-catalog <command> [flags]

commands:
  lint <dir>                   screen a skill source directory
  sign <archive> [index]       sign an archive; with an index, insert it
  build <archives-dir> [index] build and sign a fresh index
  verify <index>               verify an index signature
  keygen                       generate a catalog key pair`)
}

func fail(err error) int {
	fmt.Fprintf(os.Stderr, "kithkit-catalog: error: %v\n", err)
	return exitFail
}
