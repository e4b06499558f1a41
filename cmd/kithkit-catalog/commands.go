// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"crypto/ed25519"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/kithkit/kithkit-core/catalog"
	"github.com/kithkit/kithkit-core/env"
	"github.com/kithkit/kithkit-core/screener"
	"github.com/kithkit/kithkit-core/signer"
)

func runLint(args []string) int {
	fs := flag.NewFlagSet("lint", flag.ContinueOnError)
	indexPath := fs.String("index", "", "existing index for the typosquat check")
	if err := fs.Parse(args); err != nil {
		return exitFail
	}
	if fs.NArg() < 1 {
		return fail(errors.New("usage: kithkit-catalog lint <dir>"))
	}

	var existing []string
	if *indexPath != "" {
		idx, err := readIndex(*indexPath)
		if err != nil {
			return fail(err)
		}
		for _, s := range idx.Skills {
			existing = append(existing, s.Name)
		}
	}

	result, err := screener.Lint(fs.Arg(0), screener.LintOptions{ExistingNames: existing})
	if err != nil {
		return fail(err)
	}

	for _, f := range result.Findings() {
		loc := f.File
		if f.Line > 0 {
			loc = fmt.Sprintf("%s:%d", f.File, f.Line)
		}
		fmt.Printf("%-7s %-10s %-24s %s\n", f.Severity, f.Check, loc, f.Message)
	}
	fmt.Printf("%d errors, %d warnings, %d infos in %dms\n",
		result.Score.Errors, result.Score.Warnings, result.Score.Infos, result.DurationMs)

	if !result.Pass {
		return fail(fmt.Errorf("lint failed for %s", fs.Arg(0)))
	}
	fmt.Println("lint passed")
	return exitOK
}

func runSign(args []string) int {
	fs := flag.NewFlagSet("sign", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return exitFail
	}
	if fs.NArg() < 1 {
		return fail(errors.New("usage: kithkit-catalog sign <archive> [index]"))
	}

	priv, err := signer.LoadPrivateKey(&env.OSReader{})
	if err != nil {
		return fail(err)
	}

	archivePath := fs.Arg(0)
	if fs.NArg() > 1 {
		idx, err := readIndex(fs.Arg(1))
		if err != nil {
			return fail(err)
		}
		updated, err := catalog.UpdateIndex(idx, archivePath, priv, time.Now())
		if err != nil {
			return fail(err)
		}
		if err := writeIndex(fs.Arg(1), updated); err != nil {
			return fail(err)
		}
		fmt.Printf("signed %s and updated %s\n", archivePath, fs.Arg(1))
		return exitOK
	}

	data, err := os.ReadFile(archivePath)
	if err != nil {
		return fail(err)
	}
	sum := sha256.Sum256(data)
	sig, err := signer.SignDigest(sum[:], priv)
	if err != nil {
		return fail(err)
	}
	fmt.Printf("sha256: %s\nsignature: %s\n", hex.EncodeToString(sum[:]), sig)
	return exitOK
}

func runBuild(args []string) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return exitFail
	}
	if fs.NArg() < 1 {
		return fail(errors.New("usage: kithkit-catalog build <archives-dir> [index]"))
	}

	priv, err := signer.LoadPrivateKey(&env.OSReader{})
	if err != nil {
		return fail(err)
	}

	idx, err := catalog.BuildIndex(fs.Arg(0), priv, time.Now())
	if err != nil {
		return fail(err)
	}

	out := "index.json"
	if fs.NArg() > 1 {
		out = fs.Arg(1)
	}
	if err := writeIndex(out, idx); err != nil {
		return fail(err)
	}
	fmt.Printf("built %s with %d skills\n", out, len(idx.Skills))
	return exitOK
}

func runVerify(args []string) int {
	fs := flag.NewFlagSet("verify", flag.ContinueOnError)
	pubKeyPath := fs.String("pubkey", "", "catalog public key file (default: KITHKIT_CATALOG_PUBLIC_KEY)")
	if err := fs.Parse(args); err != nil {
		return exitFail
	}
	if fs.NArg() < 1 {
		return fail(errors.New("usage: kithkit-catalog verify <index>"))
	}

	pub, err := loadPub(*pubKeyPath)
	if err != nil {
		return fail(err)
	}

	idx, err := readIndex(fs.Arg(0))
	if err != nil {
		return fail(err)
	}
	ok, err := catalog.VerifyIndex(idx, pub)
	if err != nil {
		return fail(err)
	}
	if !ok {
		return fail(errors.New("index signature verification failed"))
	}
	fmt.Printf("%s verifies: %d skills, updated %s\n", fs.Arg(0), len(idx.Skills), idx.Updated)
	return exitOK
}

func runKeygen(args []string) int {
	fs := flag.NewFlagSet("keygen", flag.ContinueOnError)
	if err := fs.Parse(args); err != nil {
		return exitFail
	}

	privEncoded, pubEncoded, err := signer.GenerateKeyPair()
	if err != nil {
		return fail(err)
	}

	fmt.Printf("%s=%s\n", signer.PublicKeyEnv, pubEncoded)
	fmt.Printf("%s=%s\n", signer.PrivateKeyEnv, privEncoded)
	fmt.Fprintf(os.Stderr, "store the private key in your %s, not in a file\n", signer.CredentialStoreHint)
	return exitOK
}

func loadPub(path string) (ed25519.PublicKey, error) {
	if path != "" {
		return signer.LoadPublicKeyFile(path)
	}
	return signer.LoadPublicKey(&env.OSReader{})
}

func readIndex(path string) (*catalog.Index, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return catalog.ParseIndex(data)
}

func writeIndex(path string, idx *catalog.Index) error {
	data, err := catalog.MarshalIndex(idx)
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
