// Package pipeline runs extraction over a directory tree: discover PDFs,
// open each one, classify it, extract its table and write the table file.
package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/a3tai/contract-data-extractor/internal/extract"
	"github.com/a3tai/contract-data-extractor/internal/output"
	"github.com/a3tai/contract-data-extractor/internal/pdf"
	"github.com/a3tai/contract-data-extractor/internal/pdf/layout"
)

// Opener loads a PDF as positioned text. *pdf.Reader is the production
// implementation.
type Opener interface {
	Open(path string) (*layout.Document, error)
}

// TableWriter persists one table and returns where it went. *output.Writer
// is the production implementation.
type TableWriter interface {
	Write(t *output.Table) (string, error)
}

// Options configures a Processor
type Options struct {
	Opener     Opener
	Search     *pdf.Search
	Extractor  *extract.Extractor
	Writer     TableWriter
	Provenance bool
	Logger     *zap.Logger
}

// Processor processes documents one at a time. Nothing is shared between
// documents except the configuration.
type Processor struct {
	opener     Opener
	search     *pdf.Search
	extractor  *extract.Extractor
	writer     TableWriter
	provenance bool
	logger     *zap.Logger
}

// NewProcessor creates a processor. Nil search, extractor and logger
// options get defaults.
func NewProcessor(opts Options) *Processor {
	p := &Processor{
		opener:     opts.Opener,
		search:     opts.Search,
		extractor:  opts.Extractor,
		writer:     opts.Writer,
		provenance: opts.Provenance,
		logger:     opts.Logger,
	}
	if p.logger == nil {
		p.logger = zap.NewNop()
	}
	if p.search == nil {
		p.search = pdf.NewSearch(pdf.DefaultKeywords)
	}
	if p.extractor == nil {
		p.extractor = extract.New(nil, p.logger)
	}
	return p
}

// FileResult describes one processed document
type FileResult struct {
	Path   string       `json:"path"`
	Kind   extract.Kind `json:"kind"`
	Name   string       `json:"name"`
	Output string       `json:"output"`
	Rows   int          `json:"rows"`
}

// Summary describes one batch run
type Summary struct {
	RunID     string       `json:"run_id"`
	Root      string       `json:"root"`
	Found     int          `json:"found"`
	Processed int          `json:"processed"`
	Skipped   int          `json:"skipped"`
	Rows      int          `json:"rows"`
	Results   []FileResult `json:"results"`
}

// Outputs returns the written table files in processing order
func (s *Summary) Outputs() []string {
	out := make([]string, 0, len(s.Results))
	for _, r := range s.Results {
		out = append(out, r.Output)
	}
	return out
}

// Run processes every matching PDF under root in walk order. A document
// that cannot be processed is logged and skipped; only a failure to walk
// root or a cancelled context stops the batch.
func (p *Processor) Run(ctx context.Context, root string) (*Summary, error) {
	summary := &Summary{RunID: uuid.NewString(), Root: root}
	logger := p.logger.With(zap.String("run_id", summary.RunID))

	files, err := p.search.FindPDFs(root)
	if err != nil {
		return nil, fmt.Errorf("discover PDFs: %w", err)
	}
	summary.Found = len(files)
	logger.Info("discovered PDFs",
		zap.String("root", root),
		zap.Strings("keywords", p.search.Keywords()),
		zap.Int("count", len(files)))

	for i, f := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		logger.Info("processing",
			zap.Int("index", i+1),
			zap.Int("total", len(files)),
			zap.String("path", f.Path))

		res, err := p.process(f.Path, logger)
		if err != nil {
			summary.Skipped++
			logger.Warn("skipped", zap.String("path", f.Path), zap.Error(err))
			continue
		}
		summary.Processed++
		summary.Rows += res.Rows
		summary.Results = append(summary.Results, *res)
	}

	logger.Info("run complete",
		zap.Int("found", summary.Found),
		zap.Int("processed", summary.Processed),
		zap.Int("skipped", summary.Skipped),
		zap.Int("rows", summary.Rows))
	return summary, nil
}

// ProcessFile opens, extracts and writes a single document
func (p *Processor) ProcessFile(path string) (*FileResult, error) {
	return p.process(path, p.logger)
}

// Classify opens path and reports its kind without extracting.
func (p *Processor) Classify(path string) (extract.Kind, error) {
	doc, err := p.opener.Open(path)
	if err != nil {
		return "", err
	}
	return p.extractor.Classify(doc), nil
}

// Matches reports whether a file name passes the discovery filter
func (p *Processor) Matches(name string) bool {
	return p.search.Matches(name)
}

func (p *Processor) process(path string, logger *zap.Logger) (*FileResult, error) {
	doc, err := p.opener.Open(path)
	if err != nil {
		return nil, err
	}

	result := p.extractor.Extract(doc)
	table := output.FromResult(result, p.provenance)

	out, err := p.writer.Write(table)
	if err != nil {
		return nil, fmt.Errorf("write %s: %w", table.Name, err)
	}

	logger.Info("saved",
		zap.String("path", path),
		zap.String("kind", string(result.Kind)),
		zap.Int("rows", len(result.Rows)),
		zap.String("output", out))

	return &FileResult{
		Path:   path,
		Kind:   result.Kind,
		Name:   result.Name,
		Output: out,
		Rows:   len(result.Rows),
	}, nil
}
