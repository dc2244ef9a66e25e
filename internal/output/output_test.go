package output_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/a3tai/contract-data-extractor/internal/extract"
	"github.com/a3tai/contract-data-extractor/internal/output"
)

func sampleResult() *extract.Result {
	return &extract.Result{
		Path:   "/in/award.pdf",
		Kind:   extract.KindAward,
		Name:   "Award N0024418D0003 Order N6339418F0035",
		Header: []string{"SLIN", "Cost", "Qty"},
		Rows: [][]extract.Value{
			{extract.Read("0001"), extract.Inferred("$1,234.56"), extract.Missing()},
			{extract.Read("0002"), extract.Read("$10"), extract.Read("1")},
		},
	}
}

func TestParseFormat(t *testing.T) {
	f, err := output.ParseFormat("CSV")
	require.NoError(t, err)
	assert.Equal(t, output.FormatCSV, f)

	f, err = output.ParseFormat(" xlsx ")
	require.NoError(t, err)
	assert.Equal(t, output.FormatXLSX, f)
	assert.Equal(t, ".xlsx", f.Ext())

	_, err = output.ParseFormat("json")
	assert.Error(t, err)
}

func TestIsTableFile(t *testing.T) {
	assert.True(t, output.IsTableFile("Award 1 Order 2.csv"))
	assert.True(t, output.IsTableFile("Mod-1.XLSX"))
	assert.False(t, output.IsTableFile("notes.txt"))
	assert.False(t, output.IsTableFile("csv"))
}

func TestFromResult(t *testing.T) {
	plain := output.FromResult(sampleResult(), false)
	assert.Equal(t, []string{"SLIN", "Cost", "Qty"}, plain.Header)
	assert.Equal(t, [][]string{{"0001", "$1,234.56", ""}, {"0002", "$10", "1"}}, plain.Records)

	withProvenance := output.FromResult(sampleResult(), true)
	assert.Equal(t, []string{"SLIN", "Cost", "Qty", output.ProvenanceColumn}, withProvenance.Header)
	assert.Equal(t, "Cost=inferred; Qty=missing", withProvenance.Records[0][3])
	assert.Equal(t, "", withProvenance.Records[1][3])
}

func TestWriter_RoundTrip(t *testing.T) {
	for _, format := range []output.Format{output.FormatCSV, output.FormatXLSX} {
		t.Run(string(format), func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "nested", "out")
			w := output.NewWriter(dir, format)
			table := output.FromResult(sampleResult(), true)

			path, err := w.Write(table)
			require.NoError(t, err)
			assert.Equal(t, filepath.Join(dir, table.Name+format.Ext()), path)
			assert.FileExists(t, path)

			got, err := output.ReadTable(path)
			require.NoError(t, err)
			if diff := cmp.Diff(table, got); diff != "" {
				t.Errorf("round trip mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWriter_OverwritesExisting(t *testing.T) {
	dir := t.TempDir()
	w := output.NewWriter(dir, output.FormatCSV)

	_, err := w.Write(&output.Table{Name: "Mod-1", Header: []string{"A"}, Records: [][]string{{"1"}, {"2"}}})
	require.NoError(t, err)
	path, err := w.Write(&output.Table{Name: "Mod-1", Header: []string{"A"}, Records: [][]string{{"3"}}})
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "A\n3\n", string(data))
}

func TestReadTable_Errors(t *testing.T) {
	_, err := output.ReadTable(filepath.Join(t.TempDir(), "notes.txt"))
	assert.Error(t, err)

	_, err = output.ReadTable(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestReadTable_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Award empty.csv")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	table, err := output.ReadTable(path)
	require.NoError(t, err)
	assert.Equal(t, "Award empty", table.Name)
	assert.Empty(t, table.Header)
	assert.Empty(t, table.Records)
}
