package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSection_AcceptsLegacyNames(t *testing.T) {
	tests := map[string]Section{
		"target": SectionTarget,
		"focus":  SectionTarget,
		"Todo":   SectionTodo,
		" extra": SectionTodo,
	}
	for in, want := range tests {
		got, err := ParseSection(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseSection("later")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestParseEnums_Normalize(t *testing.T) {
	typ, err := ParseTaskType(" Project ")
	require.NoError(t, err)
	assert.Equal(t, TaskTypeProject, typ)

	p, err := ParsePriority("HIGH")
	require.NoError(t, err)
	assert.Equal(t, PriorityHigh, p)

	tf, err := ParseTimeframe("Weekly")
	require.NoError(t, err)
	assert.Equal(t, TimeframeWeekly, tf)

	prov, err := ParseIdentityProvider("google")
	require.NoError(t, err)
	assert.Equal(t, ProviderGoogle, prov)

	_, err = ParseTaskType("epic")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParsePriority("urgent")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseTimeframe("hourly")
	assert.ErrorIs(t, err, ErrInvalidInput)
	_, err = ParseIdentityProvider("github")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFinerThan(t *testing.T) {
	assert.True(t, TimeframeDaily.FinerThan(TimeframeWeekly))
	assert.True(t, TimeframeWeekly.FinerThan(TimeframeYearly))
	assert.False(t, TimeframeWeekly.FinerThan(TimeframeWeekly))
	assert.False(t, TimeframeMonthly.FinerThan(TimeframeDaily))
	assert.False(t, Timeframe("hourly").FinerThan(TimeframeDaily))
}
