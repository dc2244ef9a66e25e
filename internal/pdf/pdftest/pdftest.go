// Package pdftest writes small uncompressed PDF files for tests.
//
// Text is set in Courier with an explicit Widths array (600/1000 em per
// glyph), so a run of n characters at size s is 0.6*n*s points wide.
package pdftest

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Letter page size in points.
const (
	PageWidth  = 612.0
	PageHeight = 792.0
)

// Line is a run of text whose top-left corner sits at (X, Top), measured
// from the top-left of the page.
type Line struct {
	Text string
	X    float64
	Top  float64
	Size float64
}

// Page is the content of one page.
type Page []Line

// TextPage lays lines out at size 10, one every 14 points from the top
// margin.
func TextPage(lines ...string) Page {
	page := make(Page, 0, len(lines))
	for i, ln := range lines {
		page = append(page, Line{Text: ln, X: 36, Top: 36 + float64(i)*14, Size: 10})
	}
	return page
}

// Write renders pages to dir/name and returns the file path.
func Write(t testing.TB, dir, name string, pages ...Page) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Build(pages...), 0o600); err != nil {
		t.Fatalf("failed to write test PDF %s: %v", path, err)
	}
	return path
}

// Build renders pages into PDF bytes.
func Build(pages ...Page) []byte {
	// Object layout: 1 catalog, 2 page tree, 3 font, then a page and its
	// content stream per page.
	objects := []string{
		"", // catalog, filled below
		"", // page tree, filled below
		"<< /Type /Font /Subtype /Type1 /BaseFont /Courier /Encoding /WinAnsiEncoding /FirstChar 32 /LastChar 126 /Widths [" +
			strings.TrimSpace(strings.Repeat("600 ", 95)) + "] >>",
	}

	kids := make([]string, 0, len(pages))
	for _, page := range pages {
		pageObj := len(objects) + 1
		contentObj := pageObj + 1
		kids = append(kids, fmt.Sprintf("%d 0 R", pageObj))

		stream := contentStream(page)
		objects = append(objects,
			fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 %g %g] /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>",
				PageWidth, PageHeight, contentObj),
			fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(stream), stream),
		)
	}
	objects[0] = "<< /Type /Catalog /Pages 2 0 R >>"
	objects[1] = fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages))

	var buf bytes.Buffer
	buf.WriteString("%PDF-1.4\n")
	offsets := make([]int, len(objects))
	for i, obj := range objects {
		offsets[i] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", i+1, obj)
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n", len(objects)+1, xref)
	buf.WriteString("%%EOF\n")
	return buf.Bytes()
}

func contentStream(page Page) string {
	var sb strings.Builder
	for _, ln := range page {
		baseline := PageHeight - ln.Top - ln.Size
		fmt.Fprintf(&sb, "BT /F1 %g Tf 1 0 0 1 %g %g Tm (%s) Tj ET\n", ln.Size, ln.X, baseline, escape(ln.Text))
	}
	return strings.TrimSuffix(sb.String(), "\n")
}

func escape(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)
	return r.Replace(s)
}
