package pdf

import (
	"errors"
	"fmt"
	"os"

	"github.com/ledongthuc/pdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"go.uber.org/zap"

	"github.com/a3tai/contract-data-extractor/internal/pdf/layout"
)

const (
	defaultGlyphHeight = 12.0
	defaultPageWidth   = 612.0 // US Letter
	defaultPageHeight  = 792.0

	maxInheritDepth = 32
)

// Reader opens PDF files and reduces them to positioned text.
//
// pdfcpu does the structural preflight (page count, page sizes, passwords);
// ledongthuc/pdf decodes the content streams into glyphs.
type Reader struct {
	validator *Validator
	logger    *zap.Logger
}

// NewReader creates a new PDF reader with the specified constraints
func NewReader(maxFileSize int64, logger *zap.Logger) *Reader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Reader{
		validator: NewValidator(maxFileSize),
		logger:    logger,
	}
}

// Open validates, preflights and loads the document at path.
func (r *Reader) Open(path string) (*layout.Document, error) {
	if err := r.validator.ValidateFile(path); err != nil {
		return nil, &OpenError{Path: path, Op: "validate", Err: err}
	}

	dims, encrypted, err := preflight(path)
	if err != nil {
		return nil, &OpenError{Path: path, Op: "preflight", Err: err}
	}
	if encrypted {
		r.logger.Debug("reading permission-restricted document", zap.String("path", path))
	}

	f, pdfReader, err := pdf.Open(path)
	if errors.Is(err, pdf.ErrInvalidPassword) {
		return nil, &OpenError{Path: path, Op: "parse", Err: ErrEncrypted}
	}
	if err != nil {
		return nil, &OpenError{Path: path, Op: "parse", Err: err}
	}
	defer f.Close()

	numPages := pdfReader.NumPage()
	if numPages == 0 {
		return nil, &OpenError{Path: path, Op: "parse", Err: ErrNoPages}
	}

	doc := &layout.Document{Path: path, Pages: make([]*layout.Page, 0, numPages)}
	for pageNum := 1; pageNum <= numPages; pageNum++ {
		fallback := types.Dim{Width: defaultPageWidth, Height: defaultPageHeight}
		if pageNum <= len(dims) {
			fallback = dims[pageNum-1]
		}

		page, err := r.loadPage(pdfReader.Page(pageNum), pageNum, fallback)
		if err != nil {
			// One undecodable page leaves a blank page; the rest of the document is still usable.
			r.logger.Warn("page skipped",
				zap.String("path", path),
				zap.Int("page", pageNum),
				zap.Error(err))
			page = layout.NewPage(pageNum, fallback.Width, fallback.Height, nil)
		}
		doc.Pages = append(doc.Pages, page)
	}

	return doc, nil
}

// preflight reads the document structure with pdfcpu in relaxed mode and
// returns the page dimensions. An encrypted document passes when the empty
// user password opens it, which is the case for files that only restrict
// permissions; encrypted reports that it was decrypted.
func preflight(path string) (dims []types.Dim, encrypted bool, err error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, false, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(file, conf)
	if errors.Is(err, pdfcpu.ErrWrongPassword) {
		return nil, true, ErrEncrypted
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read PDF context: %w", err)
	}
	encrypted = ctx.Encrypt != nil

	if err := ctx.EnsurePageCount(); err != nil {
		return nil, encrypted, fmt.Errorf("failed to ensure page count: %w", err)
	}
	if ctx.PageCount == 0 {
		return nil, encrypted, ErrNoPages
	}

	dims, err = ctx.PageDims()
	if err != nil {
		return nil, encrypted, fmt.Errorf("failed to read page dimensions: %w", err)
	}
	return dims, encrypted, nil
}

func (r *Reader) loadPage(p pdf.Page, pageNum int, fallback types.Dim) (page *layout.Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			page, err = nil, fmt.Errorf("%w: %v", ErrPagePanics, rec)
		}
	}()

	if p.V.IsNull() {
		return layout.NewPage(pageNum, fallback.Width, fallback.Height, nil), nil
	}

	box, ok := mediaBox(p.V)
	if !ok {
		box = layout.Rect{X0: 0, Y0: 0, X1: fallback.Width, Y1: fallback.Height}
	}

	var glyphs []layout.Glyph
	for _, text := range p.Content().Text {
		glyphs = append(glyphs, toGlyphs(text, box)...)
	}

	return layout.NewPage(pageNum, box.Width(), box.Height(), glyphs), nil
}

// mediaBox returns the page MediaBox in PDF user space (origin bottom-left),
// following the Parent chain since the attribute is inheritable.
func mediaBox(v pdf.Value) (layout.Rect, bool) {
	for depth := 0; depth < maxInheritDepth && !v.IsNull(); depth++ {
		mb := v.Key("MediaBox")
		if mb.Kind() == pdf.Array && mb.Len() == 4 {
			x0, y0 := mb.Index(0).Float64(), mb.Index(1).Float64()
			x1, y1 := mb.Index(2).Float64(), mb.Index(3).Float64()
			return layout.Rect{X0: min(x0, x1), Y0: min(y0, y1), X1: max(x0, x1), Y1: max(y0, y1)}, true
		}
		v = v.Key("Parent")
	}
	return layout.Rect{}, false
}

// toGlyphs converts one ledongthuc text run to glyphs in top-left
// coordinates relative to the MediaBox.
func toGlyphs(text pdf.Text, box layout.Rect) []layout.Glyph {
	if text.S == "" {
		return nil
	}

	height := text.FontSize
	if height <= 0 {
		height = defaultGlyphHeight
	}

	width := text.W
	if width <= 0 {
		width = height / 2 * float64(len([]rune(text.S)))
	}

	x0 := text.X - box.X0
	bottom := box.Y1 - text.Y
	run := layout.Rect{X0: x0, Y0: bottom - height, X1: x0 + width, Y1: bottom}
	return layout.SplitRun(text.S, run)
}
