// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/kithkit/kithkit-core/catalog"
	"github.com/kithkit/kithkit-core/installer"
	"github.com/kithkit/kithkit-core/screener"
)

func runSearch(args []string) int {
	cf := newClientFlags("search")
	if err := cf.parse(args); err != nil {
		return exitFail
	}
	if cf.fs.NArg() < 1 {
		return fail(errors.New("usage: kithkit search <query>"))
	}

	c, err := cf.client()
	if err != nil {
		return fail(err)
	}

	results := catalog.Search(c.index, catalog.Query{Text: cf.fs.Arg(0)})
	if len(results) == 0 {
		printResultLine("no skills match %q", cf.fs.Arg(0))
		return exitOK
	}
	for _, r := range results {
		printResultLine("%-24s %-10s %-12s %s", r.Name, r.Version, r.TrustLevel, r.Description)
	}
	return exitOK
}

func runInstall(args []string) int {
	cf := newClientFlags("install")
	if err := cf.parse(args); err != nil {
		return exitFail
	}
	if cf.fs.NArg() < 1 {
		return fail(errors.New("usage: kithkit install <skill> [version]"))
	}

	c, err := cf.client()
	if err != nil {
		return fail(err)
	}

	version := ""
	if cf.fs.NArg() > 1 {
		version = cf.fs.Arg(1)
	}

	result, err := installer.Install(context.Background(), c.installOptions(cf.fs.Arg(0), version))
	if err != nil {
		return fail(err)
	}
	printResultLine("installed %s %s into %s", result.Name, result.Version, result.InstallDir)
	return exitOK
}

func runUpdate(args []string) int {
	cf := newClientFlags("update")
	if err := cf.parse(args); err != nil {
		return exitFail
	}

	c, err := cf.client()
	if err != nil {
		return fail(err)
	}

	names := cf.fs.Args()
	if len(names) == 0 {
		entries, err := installer.List(c.skillsDir, c.index)
		if err != nil {
			return fail(err)
		}
		for _, e := range entries {
			names = append(names, e.Metadata.Name)
		}
		if len(names) == 0 {
			printResultLine("nothing installed")
			return exitOK
		}
	}

	code := exitOK
	for _, name := range names {
		result, err := installer.Update(context.Background(), c.installOptions(name, ""))
		if err != nil {
			fmt.Fprintf(os.Stderr, "kithkit: error: update %s: %v\n", name, err)
			code = exitFail
			continue
		}
		if result.Updated {
			printResultLine("updated %s to %s", name, result.Version)
		} else {
			printResultLine("%s is already at %s", name, result.Version)
		}
	}
	return code
}

func runUninstall(args []string) int {
	cf := newClientFlags("uninstall")
	if err := cf.parse(args); err != nil {
		return exitFail
	}
	if cf.fs.NArg() < 1 {
		return fail(errors.New("usage: kithkit uninstall <skill>"))
	}

	result, err := installer.Uninstall(*cf.skillsDir, cf.fs.Arg(0))
	if err != nil {
		return fail(err)
	}
	if result.ConfigBackedUp {
		printResultLine("uninstalled %s (config backed up to %s)", result.Name, result.BackupPath)
	} else {
		printResultLine("uninstalled %s", result.Name)
	}
	return exitOK
}

func runList(args []string) int {
	cf := newClientFlags("list")
	if err := cf.parse(args); err != nil {
		return exitFail
	}

	// Listing works offline; the index and revocation annotations are
	// best-effort.
	var idx *catalog.Index
	var revocations *catalog.RevocationList
	if c, err := cf.client(); err == nil {
		idx = c.index
		revocations = c.revocations
	}

	entries, err := installer.List(*cf.skillsDir, idx)
	if err != nil {
		return fail(err)
	}
	if len(entries) == 0 {
		printResultLine("nothing installed")
		return exitOK
	}

	var installed []catalog.VersionRef
	for _, e := range entries {
		installed = append(installed, catalog.VersionRef{Name: e.Metadata.Name, Version: e.Metadata.Version})
	}
	revoked := map[string]catalog.RevocationEntry{}
	for _, match := range catalog.CheckInstalled(revocations, installed) {
		revoked[match.Ref.Name] = match.Entry
	}

	for _, e := range entries {
		line := fmt.Sprintf("%-24s %-10s %s", e.Metadata.Name, e.Metadata.Version, e.Metadata.TrustLevel)
		if e.HasUpdate {
			line += fmt.Sprintf("  (update available: %s)", e.LatestVersion)
		}
		if entry, ok := revoked[e.Metadata.Name]; ok {
			line += fmt.Sprintf("  REVOKED [%s]: %s", entry.Severity, entry.Reason)
		}
		printResultLine("%s", line)
	}
	return exitOK
}

func runSelfTest(args []string) int {
	fs := newClientFlags("selftest")
	if err := fs.parse(args); err != nil {
		return exitFail
	}

	summary := screener.RunSelfTest(screener.NewPatternDetector())

	printResultLine("self-test: %d/%d cases caught", summary.Caught, summary.Total)
	for _, tier := range summary.Tiers {
		printResultLine("  tier %d: %d/%d (%.0f%%)", tier.Tier, tier.Caught, tier.Total, tier.Rate*100)
	}
	for _, c := range summary.Cases {
		if !c.Caught {
			printResultLine("  missed: %s (tier %d, expected %s)", c.ID, c.Tier, strings.Join(c.Expected, ", "))
		}
	}
	for _, blind := range summary.BlindSpots {
		printResultLine("  blind spot: %s", blind)
	}
	for _, rec := range summary.Recommendations {
		printResultLine("  recommendation: %s", rec)
	}

	if !summary.MeetsThresholds() {
		return fail(errors.New("detector is below the required catch-rate thresholds"))
	}
	return exitOK
}
