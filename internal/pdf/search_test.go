package pdf

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFiles(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	}
}

func TestSearch_Matches(t *testing.T) {
	search := NewSearch(DefaultKeywords)

	tests := []struct {
		name string
		want bool
	}{
		{"N0024418D0003 Award.pdf", true},
		{"AWARD.PDF", true},
		{"Original Contract N00244.pdf", true},
		{"MOD P00001.pdf", true},
		{"invoice.pdf", false},
		{"award.docx", false},
		{"some/dir/award-notes.pdf", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, search.Matches(tt.name))
		})
	}
}

func TestSearch_MatchesWithoutKeywords(t *testing.T) {
	search := NewSearch([]string{" ", ""})

	assert.Empty(t, search.Keywords())
	assert.True(t, search.Matches("invoice.pdf"))
	assert.False(t, search.Matches("invoice.txt"))
}

func TestSearch_FindPDFs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root,
		"b/Award 2.pdf",
		"a/Award 1.pdf",
		"a/Mod-1.pdf",
		"a/readme.txt",
		"invoice.pdf",
		".cache/Award hidden.pdf",
	)

	files, err := NewSearch(DefaultKeywords).FindPDFs(root)
	require.NoError(t, err)

	var names []string
	for _, f := range files {
		names = append(names, f.Name)
		assert.True(t, filepath.IsAbs(f.Path))
		assert.Positive(t, f.Size)
	}
	assert.Equal(t, []string{"Award 1.pdf", "Mod-1.pdf", "Award 2.pdf"}, names)
}

func TestSearch_FindPDFsErrors(t *testing.T) {
	search := NewSearch(nil)

	_, err := search.FindPDFs("")
	assert.Error(t, err)

	_, err = search.FindPDFs(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "award.pdf")
	require.NoError(t, os.WriteFile(file, []byte("x"), 0o644))
	_, err = search.FindPDFs(file)
	assert.Error(t, err)
}

func TestIsPathWithinDirectory(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, "inner/award.pdf")

	ok, err := IsPathWithinDirectory(filepath.Join(root, "inner", "award.pdf"), root)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsPathWithinDirectory(root, root)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = IsPathWithinDirectory(filepath.Dir(root), root)
	require.NoError(t, err)
	assert.False(t, ok)
}
