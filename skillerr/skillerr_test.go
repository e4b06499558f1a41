// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package skillerr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWithKind_NilError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, WithKind(nil, Integrity))
}

func TestKindOf(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "nil error", err: nil, want: ""},
		{name: "plain error defaults to IO", err: errors.New("boom"), want: IO},
		{name: "kinded error", err: New(Revoked, "revoked: %s", "bad reason"), want: Revoked},
		{name: "wrapped kinded error", err: fmt.Errorf("install: %w", WithKind(errors.New("sig"), Integrity)), want: Integrity},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, KindOf(tt.err))
		})
	}
}

func TestIsKind(t *testing.T) {
	t.Parallel()

	err := New(NotFound, "skill %q not in index", "weather-check")
	assert.True(t, IsKind(err, NotFound))
	assert.False(t, IsKind(err, Integrity))
	assert.False(t, IsKind(nil, NotFound))
	assert.False(t, IsKind(errors.New("plain"), IO), "plain errors carry no kind")
}

func TestUnwrap(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("underlying")
	err := WithKind(sentinel, Fetch)

	require.ErrorIs(t, err, sentinel)

	var kinded *KindedError
	require.ErrorAs(t, err, &kinded)
	assert.Equal(t, Fetch, kinded.Kind())
	assert.Equal(t, "underlying", kinded.Error())
}
