package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"artmatch/internal/models"
)

const sampleFixtures = "../../fixtures/sample.yaml"

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRank_JSON(t *testing.T) {
	out, err := execute(t, "rank", "--fixtures", sampleFixtures,
		"--project", "autumn-exhibition", "--curator", "curator-kim", "--top", "2", "--json")
	require.NoError(t, err)

	var run models.RankingRun
	require.NoError(t, json.Unmarshal([]byte(out), &run))
	assert.Equal(t, 4, run.TotalCandidates)
	assert.Equal(t, 2, run.Returned)
	require.Len(t, run.Results, 2)
	assert.Equal(t, 1, run.Results[0].Rank)
	assert.GreaterOrEqual(t, run.Results[0].TotalScore, run.Results[1].TotalScore)
}

func TestRank_Table(t *testing.T) {
	out, err := execute(t, "rank", "-f", sampleFixtures, "-p", "autumn-exhibition", "-c", "curator-kim")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)
	assert.True(t, strings.HasPrefix(lines[0], "RANK"))
	assert.Contains(t, out, "artist-001")
}

func TestRank_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"missing curator flag", []string{"rank", "-f", sampleFixtures, "-p", "autumn-exhibition"}, "curator"},
		{"unknown project", []string{"rank", "-f", sampleFixtures, "-p", "nope", "-c", "curator-kim"}, "PROJECT_NOT_FOUND"},
		{"missing fixture file", []string{"rank", "-f", "does-not-exist.yaml", "-p", "a", "-c", "b"}, "does-not-exist.yaml"},
		{"unknown phrasebook", []string{"rank", "-f", sampleFixtures, "-p", "autumn-exhibition", "-c", "curator-kim", "--phrasebook", "fr"}, "fr"},
		{"negative top", []string{"rank", "-f", sampleFixtures, "-p", "autumn-exhibition", "-c", "curator-kim", "--top=-1"}, "--top"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestScore_ReferenceArtist(t *testing.T) {
	out, err := execute(t, "score", "-f", sampleFixtures,
		"-p", "autumn-exhibition", "-c", "curator-kim", "-a", "artist-001")
	require.NoError(t, err)

	assert.Contains(t, out, "total:       75")
	assert.Contains(t, out, "basic:       75")
	assert.Contains(t, out, "style:       50")
	assert.Contains(t, out, "experience:  100")
	assert.Contains(t, out, "audience:    84")
	assert.Contains(t, out, "explanation: ")
}

func TestScore_UnknownArtist(t *testing.T) {
	_, err := execute(t, "score", "-f", sampleFixtures,
		"-p", "autumn-exhibition", "-c", "curator-kim", "-a", "artist-999")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "artist-999")
}

func TestVersion(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Equal(t, "matchctl version: unknown\n", out)
}

func TestTasks(t *testing.T) {
	out, err := execute(t, "tasks")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "rank-candidates")
	assert.Contains(t, lines[2], "calculate-match-score")
}
