// SPDX-FileCopyrightText: Copyright 2025 KithKit Authors
// SPDX-License-Identifier: Apache-2.0

package screener

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRubric_FixedCategories(t *testing.T) {
	t.Parallel()

	rubric := Rubric()
	require.Len(t, rubric, 8)

	severities := map[string]string{}
	for _, entry := range rubric {
		severities[entry.Category] = entry.DefaultSeverity
	}
	assert.Equal(t, RiskCritical, severities[CategoryCredentialAccess])
	assert.Equal(t, RiskCritical, severities[CategoryDataExfiltration])
	assert.Equal(t, RiskCritical, severities[CategorySecurityModification])
	assert.Equal(t, RiskHigh, severities[CategoryInstructionHiding])
	assert.Equal(t, RiskHigh, severities[CategoryScopeMismatch])
	assert.Equal(t, RiskHigh, severities[CategoryPermissionEscalation])
	assert.Equal(t, RiskMedium, severities[CategoryUnclearPurpose])
	assert.Equal(t, RiskMedium, severities[CategoryExcessiveCapabilities])
}

func TestAggregateRisk(t *testing.T) {
	t.Parallel()

	assert.Equal(t, RiskNone, AggregateRisk(nil))
	assert.Equal(t, RiskMedium, AggregateRisk([]ReviewFinding{{Severity: RiskMedium}}))
	assert.Equal(t, RiskCritical, AggregateRisk([]ReviewFinding{
		{Severity: RiskLow},
		{Severity: RiskCritical},
		{Severity: RiskHigh},
	}))
}

func TestRecommend(t *testing.T) {
	t.Parallel()

	assert.Contains(t, strings.ToLower(Recommend(RiskCritical, "first-party")), "do not install")
	assert.Contains(t, strings.ToLower(Recommend(RiskNone, "first-party")), "safe to install")

	community := strings.ToLower(Recommend(RiskNone, "community"))
	assert.Contains(t, community, "self-test")

	high := strings.ToLower(Recommend(RiskHigh, "verified"))
	assert.Contains(t, high, "not recommended")
}

func TestBuildReviewContext(t *testing.T) {
	t.Parallel()

	m := caseManifest("weather-check", "Summarizes the forecast", "network")
	ctx := BuildReviewContext(m, "# Weather\nBody text.\n")

	assert.Equal(t, "weather-check", ctx.Metadata.Name)
	assert.Len(t, ctx.Rubric, 8)
	assert.Equal(t, DataMarker, ctx.DataMarker)
	assert.Contains(t, ctx.Instructions, "data marker")
	assert.Equal(t, "# Weather\nBody text.\n", ctx.Content)
}
