package export

import (
	"path/filepath"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/SquareFill/internal/importer"
	"github.com/piwi3910/SquareFill/internal/model"
)

func TestExportDXF_RoundTripsPoints(t *testing.T) {
	sol := buildTestReport(t).Solution
	path := filepath.Join(t.TempDir(), "solution.dxf")
	require.NoError(t, ExportDXF(path, sol))

	result := importer.ImportDXF(path, sol.Instance.N)
	require.True(t, result.OK(), "errors: %v", result.Errors)

	want := append([]model.Pos(nil), sol.Instance.Points...)
	for _, sq := range sol.Squares {
		want = append(want, sq.NewPos)
	}
	got := append([]model.Pos(nil), result.Instance.Points...)
	less := func(ps []model.Pos) func(i, j int) bool {
		return func(i, j int) bool { return ps[i].Less(ps[j]) }
	}
	sort.Slice(want, less(want))
	sort.Slice(got, less(got))
	assert.Equal(t, want, got)
	assert.Equal(t, sol.Instance.N, result.Instance.N)
}

func TestExportDXF_EmptySolution(t *testing.T) {
	err := ExportDXF(filepath.Join(t.TempDir(), "x.dxf"), model.Solution{})
	assert.Error(t, err)
}
