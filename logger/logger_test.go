// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/kithkit/kithkit-core/env"
)

type fixedDebugProvider struct {
	debug bool
}

func (p *fixedDebugProvider) IsDebug() bool {
	return p.debug
}

func TestUnstructuredLogsWithEnv(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		envValue string
		expected bool
	}{
		{"default case", "", true},
		{"explicitly true", "true", true},
		{"explicitly false", "false", false},
		{"invalid value", "not-a-bool", true},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			reader := env.MapReader{"UNSTRUCTURED_LOGS": tt.envValue}
			assert.Equal(t, tt.expected, unstructuredLogsWithEnv(reader))
		})
	}
}

func TestHelpersUseGlobalLogger(t *testing.T) { //nolint:paralleltest // swaps global logger state
	core, observed := observer.New(zap.DebugLevel)
	prior := zap.ReplaceGlobals(zap.New(core))
	defer prior()

	Debugf("debug %s", "one")
	Infof("info %s", "two")
	Warnw("warn", "key", "value")
	Errorf("error %s", "three")

	logs := observed.All()
	assert.Len(t, logs, 4)
	assert.Equal(t, "debug one", logs[0].Message)
	assert.Equal(t, "info two", logs[1].Message)
	assert.Equal(t, "warn", logs[2].Message)
	assert.Equal(t, "error three", logs[3].Message)
}

func TestInitializeWithOptions_DebugLevel(t *testing.T) { //nolint:paralleltest // swaps global logger state
	InitializeWithOptions(env.MapReader{"UNSTRUCTURED_LOGS": "false"}, &fixedDebugProvider{debug: true})
	assert.True(t, zap.L().Core().Enabled(zap.DebugLevel))

	InitializeWithOptions(env.MapReader{"UNSTRUCTURED_LOGS": "false"}, &fixedDebugProvider{debug: false})
	assert.False(t, zap.L().Core().Enabled(zap.DebugLevel))
}
