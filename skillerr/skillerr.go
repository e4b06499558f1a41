// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

// Package skillerr classifies errors by the registry failure taxonomy.
//
// Errors carry a Kind through the call stack so callers can branch on the
// class of failure without string matching. KindedError implements the
// standard error interface and supports errors.Is() and errors.As().
package skillerr

import (
	"errors"
	"fmt"
)

// Kind identifies a class of registry failure.
type Kind string

// The failure taxonomy. Every non-success outcome of a catalog or
// installer operation maps to exactly one of these.
const (
	// Invalid indicates malformed input: bad semver, bad name, bad YAML,
	// bad base64 key material.
	Invalid Kind = "invalid"
	// NotFound indicates a skill or version absent from the index.
	NotFound Kind = "not-found"
	// Integrity indicates a hash mismatch or signature verification failure.
	Integrity Kind = "integrity"
	// Revoked indicates the skill version appears in a verified revocation list.
	Revoked Kind = "revoked"
	// AlreadyInstalled indicates install metadata already records the
	// requested version.
	AlreadyInstalled Kind = "already-installed"
	// Extract indicates a path-traversal attempt, truncated archive, or
	// bad archive header.
	Extract Kind = "extract"
	// Fetch indicates an error from the injected fetch callback.
	Fetch Kind = "fetch"
	// IO indicates a local filesystem error.
	IO Kind = "io"
	// NotInstalled indicates an uninstall or update without existing metadata.
	NotInstalled Kind = "not-installed"
)

// KindedError wraps an error with a failure Kind.
type KindedError struct {
	err  error
	kind Kind
}

// Error implements the error interface.
func (e *KindedError) Error() string {
	return e.err.Error()
}

// Unwrap returns the underlying error for errors.Is() and errors.As()
// compatibility.
func (e *KindedError) Unwrap() error {
	return e.err
}

// Kind returns the failure kind associated with this error.
func (e *KindedError) Kind() Kind {
	return e.kind
}

// New creates a kinded error from a format string.
func New(kind Kind, format string, args ...any) error {
	return &KindedError{err: fmt.Errorf(format, args...), kind: kind}
}

// WithKind wraps an error with a failure kind.
// If err is nil, WithKind returns nil.
func WithKind(err error, kind Kind) error {
	if err == nil {
		return nil
	}
	return &KindedError{err: err, kind: kind}
}

// KindOf extracts the failure kind from an error chain.
// If no KindedError is found, it returns IO for non-nil errors and the
// empty Kind for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}

	var kinded *KindedError
	if errors.As(err, &kinded) {
		return kinded.kind
	}

	return IO
}

// IsKind reports whether the error chain carries the given kind.
func IsKind(err error, kind Kind) bool {
	if err == nil {
		return false
	}
	var kinded *KindedError
	if errors.As(err, &kinded) {
		return kinded.kind == kind
	}
	return false
}
