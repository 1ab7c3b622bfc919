package pdffile

import (
	"bytes"
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"

	"file-ingestion-service/internal/models"
	"file-ingestion-service/internal/parser/strategy"
	"file-ingestion-service/pkg/logger"
)

var paragraphSplit = regexp.MustCompile(`\n\s*\n`)

// Strategy extracts the whole document's text in one shot, then splits it
// on blank-line boundaries into trimmed, non-empty paragraphs. Extraction
// is atomic, so progress is simulated in up to ~20 evenly sized chunks
// across the paragraph count, culminating at the in-flight ceiling before
// the terminal save jumps to 100.
type Strategy struct {
	log logger.Logger
}

func New(log logger.Logger) *Strategy {
	return &Strategy{log: log}
}

func (s *Strategy) Kind() models.FileKind { return models.KindPDF }

func (s *Strategy) Parse(ctx context.Context, path string, tr *strategy.Tracker) error {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return s.fail(ctx, tr, err)
	}
	defer f.Close()

	text, err := reader.GetPlainText()
	if err != nil {
		return s.fail(ctx, tr, err)
	}
	var buf bytes.Buffer
	if _, err := buf.ReadFrom(text); err != nil {
		return s.fail(ctx, tr, err)
	}

	paragraphs := splitParagraphs(buf.String())

	total := len(paragraphs)
	if total > 0 {
		chunk := total / 20
		if chunk < 1 {
			chunk = 1
		}
		for i := 0; i < total; i += chunk {
			tr.Set(ctx, int(math.Min(90, math.Floor(float64(i+chunk)/float64(total)*90))))
		}
	}

	content := make([]models.Paragraph, len(paragraphs))
	for i, p := range paragraphs {
		content[i] = models.Paragraph{Index: i + 1, Text: p}
	}
	return tr.Ready(ctx, models.PDFContent(content))
}

// splitParagraphs cuts extracted text on blank-line boundaries, trimming
// each piece and dropping whitespace-only entries.
func splitParagraphs(text string) []string {
	parts := paragraphSplit.Split(text, -1)
	paragraphs := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	return paragraphs
}

func (s *Strategy) fail(ctx context.Context, tr *strategy.Tracker, cause error) error {
	perr := &models.ParseError{Kind: models.KindPDF, Err: cause}
	s.log.Error("pdf parse failed",
		logger.String("fileId", tr.Job().ID),
		logger.Error(cause),
	)
	if serr := tr.Fail(ctx, perr); serr != nil {
		return serr
	}
	return perr
}
