package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd(t *testing.T) {
	var out bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})

	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "arbitrage version ")
	assert.Contains(t, out.String(), "commit: ")
}

func TestRunRejectsArguments(t *testing.T) {
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"run", "extra"})
	assert.Error(t, cmd.Execute())
}

func TestRunRejectsInvalidConfig(t *testing.T) {
	t.Setenv("MAX_WORKERS", "0")
	cmd := NewRootCmd()
	cmd.SetArgs([]string{"run"})
	assert.Error(t, cmd.Execute())
}
