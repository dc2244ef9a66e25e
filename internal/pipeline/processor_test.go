package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/a3tai/contract-data-extractor/internal/extract"
	"github.com/a3tai/contract-data-extractor/internal/output"
	"github.com/a3tai/contract-data-extractor/internal/pdf"
	"github.com/a3tai/contract-data-extractor/internal/pdf/layout"
	"github.com/a3tai/contract-data-extractor/internal/pdf/layout/layouttest"
	"github.com/a3tai/contract-data-extractor/internal/pdf/pdftest"
)

var errCorrupt = errors.New("corrupt")

// fakeOpener serves documents by file name; unknown names fail to open.
type fakeOpener map[string]*layout.Document

func (f fakeOpener) Open(path string) (*layout.Document, error) {
	doc, ok := f[filepath.Base(path)]
	if !ok {
		return nil, &pdf.OpenError{Path: path, Op: "parse", Err: errCorrupt}
	}
	clone := *doc
	clone.Path = path
	return &clone, nil
}

// recordingWriter keeps every table it is asked to write.
type recordingWriter struct {
	mu     sync.Mutex
	tables []*output.Table
	notify chan string
}

func (w *recordingWriter) Write(t *output.Table) (string, error) {
	w.mu.Lock()
	w.tables = append(w.tables, t)
	w.mu.Unlock()
	if w.notify != nil {
		w.notify <- t.Name
	}
	return "/out/" + t.Name + ".csv", nil
}

func (w *recordingWriter) names() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	names := make([]string, 0, len(w.tables))
	for _, t := range w.tables {
		names = append(names, t.Name)
	}
	return names
}

func awardDoc() *layout.Document {
	return layouttest.Document("",
		layouttest.Page(1,
			layouttest.Run("CONTRACT NO.", 50, 40, 10),
			layouttest.Run("N0024418D0003", 50, 51, 6),
			layouttest.Run("ORDER NUMBER", 300, 40, 10),
			layouttest.Run("0001", 300, 51, 6),
			layouttest.Run("ITEM NO", 50, 100, 10),
			layouttest.Run("0001AA", 50, 111, 10),
		),
	)
}

func modDoc() *layout.Document {
	return layouttest.Document("",
		layouttest.TextPage(1,
			"AMENDMENT OF SOLICITATION/MODIFICATION OF CONTRACT",
			"SUBCLIN 1000: AB: (CIN 0001) was increased by $1,000 from $5,000 to $6,000",
		),
	)
}

func touch(t *testing.T, root string, names ...string) {
	t.Helper()
	for _, name := range names {
		path := filepath.Join(root, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("%PDF-1.4"), 0o644))
	}
}

func TestProcessor_Run(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "a/Award 1.pdf", "b/MOD 1.pdf", "c/Award broken.pdf", "invoice.pdf")

	writer := &recordingWriter{}
	p := NewProcessor(Options{
		Opener: fakeOpener{"Award 1.pdf": awardDoc(), "MOD 1.pdf": modDoc(), "invoice.pdf": awardDoc()},
		Writer: writer,
		Logger: zap.NewNop(),
	})

	summary, err := p.Run(context.Background(), root)
	require.NoError(t, err)

	_, err = uuid.Parse(summary.RunID)
	assert.NoError(t, err)
	assert.Equal(t, 3, summary.Found)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)
	assert.Equal(t, 2, summary.Rows)

	want := []FileResult{
		{
			Path:   filepath.Join(root, "a", "Award 1.pdf"),
			Kind:   extract.KindAward,
			Name:   "Award N0024418D0003 Order 0001",
			Output: "/out/Award N0024418D0003 Order 0001.csv",
			Rows:   1,
		},
		{
			Path:   filepath.Join(root, "b", "MOD 1.pdf"),
			Kind:   extract.KindModification,
			Name:   "Mod-MOD 1",
			Output: "/out/Mod-MOD 1.csv",
			Rows:   1,
		},
	}
	if diff := cmp.Diff(want, summary.Results); diff != "" {
		t.Errorf("results mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, []string{want[0].Output, want[1].Output}, summary.Outputs())
}

func TestProcessor_RunInvalidRoot(t *testing.T) {
	p := NewProcessor(Options{Opener: fakeOpener{}, Writer: &recordingWriter{}})

	_, err := p.Run(context.Background(), filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestProcessor_RunCancelled(t *testing.T) {
	root := t.TempDir()
	touch(t, root, "Award 1.pdf")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	writer := &recordingWriter{}
	p := NewProcessor(Options{Opener: fakeOpener{"Award 1.pdf": awardDoc()}, Writer: writer})

	summary, err := p.Run(ctx, root)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Found)
	assert.Empty(t, writer.names())
}

func TestProcessor_Provenance(t *testing.T) {
	writer := &recordingWriter{}
	p := NewProcessor(Options{
		Opener:     fakeOpener{"Award 1.pdf": awardDoc()},
		Writer:     writer,
		Provenance: true,
	})

	_, err := p.ProcessFile("/in/Award 1.pdf")
	require.NoError(t, err)

	require.Len(t, writer.tables, 1)
	table := writer.tables[0]
	assert.Equal(t, output.ProvenanceColumn, table.Header[len(table.Header)-1])
	assert.Contains(t, table.Records[0][len(table.Header)-1], "ACRN=missing")
}

func TestProcessor_Classify(t *testing.T) {
	p := NewProcessor(Options{Opener: fakeOpener{"a.pdf": awardDoc(), "m.pdf": modDoc()}})

	kind, err := p.Classify("/in/a.pdf")
	require.NoError(t, err)
	assert.Equal(t, extract.KindAward, kind)

	kind, err = p.Classify("/in/m.pdf")
	require.NoError(t, err)
	assert.Equal(t, extract.KindModification, kind)

	_, err = p.Classify("/in/x.pdf")
	assert.ErrorIs(t, err, errCorrupt)
}

func TestProcessor_EndToEnd(t *testing.T) {
	root := t.TempDir()
	outDir := filepath.Join(t.TempDir(), "tables")

	pdftest.Write(t, root, "Award 1.pdf", pdftest.Page{
		{Text: "CONTRACT NO.", X: 50, Top: 40, Size: 10},
		{Text: "N0024418D0003_1", X: 50, Top: 51, Size: 6},
		{Text: "ORDER NUMBER", X: 300, Top: 40, Size: 10},
		{Text: "N6339418F0035_2", X: 300, Top: 51, Size: 6},
		{Text: "ITEM NO", X: 50, Top: 100, Size: 10},
		{Text: "0001", X: 50, Top: 111, Size: 10},
	})
	pdftest.Write(t, root, "Mod P00001.pdf", pdftest.TextPage(
		"AMENDMENT OF SOLICITATION/MODIFICATION OF CONTRACT",
		"SUBCLIN 1000: AB: SPARE PARTS",
		"(CIN 0001) was increased by $1,000 from $5,000 to $6,000",
	))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Award garbage.pdf"), []byte("not a pdf"), 0o644))

	p := NewProcessor(Options{
		Opener: pdf.NewReader(1024*1024, zap.NewNop()),
		Writer: output.NewWriter(outDir, output.FormatCSV),
	})

	summary, err := p.Run(context.Background(), root)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Found)
	assert.Equal(t, 2, summary.Processed)
	assert.Equal(t, 1, summary.Skipped)

	award, err := output.ReadTable(filepath.Join(outDir, "Award N0024418D0003 Order N6339418F0035.csv"))
	require.NoError(t, err)
	require.Len(t, award.Records, 1)
	assert.Equal(t, "0001", award.Records[0][0])
	assert.Equal(t, "Award", award.Records[0][6])

	mod, err := output.ReadTable(filepath.Join(outDir, "Mod-Mod P00001.csv"))
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1000", "AB", "0001", "$5,000.00", "$6,000.00", "$1,000.00"}}, mod.Records)
}
