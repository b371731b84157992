package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("ARCADE_CONFIG", "")
	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(append(args, "--log-level", "error"))
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	err := cmd.Execute()
	return out.String(), err
}

const squareYAML = `
home: home
home_location: {x: 0, y: 0}
stops:
  - {name: far, address: far, location: {x: 10, y: 10}}
  - {name: north, address: north, location: {x: 0, y: 10}}
  - {name: east, address: east, location: {x: 10, y: 0}}
`

func TestRouteCommandFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "route.yaml")
	require.NoError(t, os.WriteFile(path, []byte(squareYAML), 0o600))

	out, err := run(t, "", "route", path, "--algorithm", "simulated_annealing", "--seed", "3")
	require.NoError(t, err)
	var res struct {
		TotalDistance float64 `json:"total_distance"`
		Algorithm     string  `json:"algorithm"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Equal(t, "simulated_annealing", res.Algorithm)
	assert.InDelta(t, 40.0, res.TotalDistance, 1e-9)
}

func TestPackingCommandFromStdinJSON(t *testing.T) {
	in := `{"budget":50,"max_weight":5,"items":[
		{"name":"a","value":60,"cost":10,"weight":1},
		{"name":"b","value":100,"cost":20,"weight":2},
		{"name":"c","value":120,"cost":30,"weight":3}]}`
	out, err := run(t, in, "packing", "-", "--compare")
	require.NoError(t, err)
	var cmp struct {
		DP struct {
			TotalValue float64 `json:"total_value"`
		} `json:"dp"`
		Comparison struct {
			DPBetter bool `json:"dp_better"`
		} `json:"comparison"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &cmp))
	assert.Equal(t, 220.0, cmp.DP.TotalValue)
	assert.True(t, cmp.Comparison.DPBetter)
}

func TestExampleFlags(t *testing.T) {
	out, err := run(t, "", "packing", "--example", "--algorithm", "greedy")
	require.NoError(t, err)
	assert.Contains(t, out, `"algorithm": "greedy"`)

	out, err = run(t, "", "route", "--example")
	require.NoError(t, err)
	assert.Contains(t, out, `"route_order"`)
}

func TestCommandErrors(t *testing.T) {
	_, err := run(t, "", "route", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = run(t, "{}", "packing", "-", "--algorithm", "ilp")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ilp")

	cmd := newRootCmd()
	cmd.SetArgs([]string{"version", "--log-level", "loud"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.Execute())
}

func TestVersion(t *testing.T) {
	out, err := run(t, "", "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "arcade version dev"))
}
