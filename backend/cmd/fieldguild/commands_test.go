package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kazz187/fieldguild/backend/internal/agent"
)

func TestParseQuestionYieldsNoActions(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, parse(&buf, []string{"What", "should", "I", "plant?"}))
	var actions []agent.Action
	require.NoError(t, json.Unmarshal(buf.Bytes(), &actions))
	assert.Empty(t, actions)
}

func TestParseDay(t *testing.T) {
	d, err := parseDay("2025-04-12")
	require.NoError(t, err)
	assert.Equal(t, 12, d.Day())

	d, err = parseDay("")
	require.NoError(t, err)
	assert.True(t, d.IsZero())

	_, err = parseDay("12/04/2025")
	assert.Error(t, err)
}
