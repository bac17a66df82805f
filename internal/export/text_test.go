package export

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquareFill/internal/engine"
	"github.com/piwi3910/SquareFill/internal/model"
)

func TestWriteSolution_Format(t *testing.T) {
	report := buildTestReport(t)

	var buf bytes.Buffer
	require.NoError(t, WriteSolution(&buf, report.Solution))

	want := "2\n" +
		"2 2 0 2 0 0 2 0\n" +
		"4 4 2 4 2 2 4 2\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteSolution_SortsByID(t *testing.T) {
	sol := buildTestReport(t).Solution
	sol.Squares[0], sol.Squares[1] = sol.Squares[1], sol.Squares[0]

	var buf bytes.Buffer
	require.NoError(t, WriteSolution(&buf, sol))
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "2 2 "))
}

func TestWriteSolution_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSolution(&buf, model.Solution{}))
	assert.Equal(t, "0\n", buf.String())
}

func TestReadSolution_ReplaysToSameScore(t *testing.T) {
	report := buildTestReport(t)
	path := filepath.Join(t.TempDir(), "out.txt")
	require.NoError(t, SaveSolution(path, report.Solution))

	var buf bytes.Buffer
	require.NoError(t, WriteSolution(&buf, report.Solution))
	squares, err := ReadSolution(&buf)
	require.NoError(t, err)
	require.Len(t, squares, 2)

	st, err := engine.Replay(report.Solution.Instance, squares)
	require.NoError(t, err)
	assert.Equal(t, report.Solution.Score, st.Score())
}

func TestReadSolution_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"negative count", "-1\n"},
		{"short square", "1\n0 0 1 1\n"},
		{"bad token", "1\n0 0 a 1 1 1 1 0\n"},
		{"misaligned", "1\n0 0 1 2 3 3 2 1\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadSolution(strings.NewReader(tt.input))
			assert.Error(t, err)
		})
	}
}
