// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"crypto/ed25519"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/kithkit/kithkit-core/catalog"
	"github.com/kithkit/kithkit-core/env"
	"github.com/kithkit/kithkit-core/installer"
	"github.com/kithkit/kithkit-core/signer"
)

// clientFlags are the flags every consumer command shares.
type clientFlags struct {
	fs        *flag.FlagSet
	registry  *string
	skillsDir *string
	pubKey    *string
}

func newClientFlags(name string) *clientFlags {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	return &clientFlags{
		fs:        fs,
		registry:  fs.String("registry", ".", "registry root containing index.json and archives/"),
		skillsDir: fs.String("skills-dir", installer.DefaultSkillsRoot(), "local skills directory"),
		pubKey:    fs.String("pubkey", "", "catalog public key file (default: KITHKIT_CATALOG_PUBLIC_KEY)"),
	}
}

func (cf *clientFlags) parse(args []string) error {
	return cf.fs.Parse(args)
}

// client resolves shared flags into a ready-to-use consumer context.
type client struct {
	registryRoot string
	skillsDir    string
	pub          ed25519.PublicKey
	index        *catalog.Index
	revocations  *catalog.RevocationList
}

func (cf *clientFlags) client() (*client, error) {
	c := &client{
		registryRoot: *cf.registry,
		skillsDir:    *cf.skillsDir,
	}

	var err error
	if *cf.pubKey != "" {
		c.pub, err = signer.LoadPublicKeyFile(*cf.pubKey)
	} else {
		c.pub, err = signer.LoadPublicKey(&env.OSReader{})
	}
	if err != nil {
		return nil, err
	}

	cache := catalog.NewCache(installer.CacheFilePath(c.skillsDir), catalog.DefaultCacheTTL)
	c.index, err = cache.Get(func() (*catalog.Index, error) {
		data, err := os.ReadFile(filepath.Join(c.registryRoot, "index.json"))
		if err != nil {
			return nil, err
		}
		return catalog.ParseIndex(data)
	})
	if err != nil {
		return nil, err
	}

	// Cache freshness never substitutes for verification.
	ok, err := catalog.VerifyIndex(c.index, c.pub)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("index signature verification failed")
	}

	c.revocations, err = loadRevocations(c.registryRoot, c.pub)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// loadRevocations reads and verifies revocations.json when present. A
// registry without one is fine; a present-but-unverifiable one is not.
func loadRevocations(registryRoot string, pub ed25519.PublicKey) (*catalog.RevocationList, error) {
	data, err := os.ReadFile(filepath.Join(registryRoot, "revocations.json"))
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	list, err := catalog.ParseRevocationList(data)
	if err != nil {
		return nil, err
	}
	ok, err := catalog.VerifyRevocationList(list, pub)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, errors.New("revocation list signature verification failed")
	}
	return list, nil
}

// fetch reads archive bytes from the registry root. The path comes from
// the verified index, so it is catalog-relative by construction.
func (c *client) fetch(_ context.Context, archivePath string) ([]byte, error) {
	return os.ReadFile(filepath.Join(c.registryRoot, filepath.FromSlash(archivePath)))
}

func (c *client) installOptions(name, version string) installer.Options {
	return installer.Options{
		Name:        name,
		Version:     version,
		Index:       c.index,
		Revocations: c.revocations,
		SkillsDir:   c.skillsDir,
		Fetch:       c.fetch,
		PublicKey:   c.pub,
	}
}

func printResultLine(format string, args ...any) {
	fmt.Printf(format+"\n", args...)
}
