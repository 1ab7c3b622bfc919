package parser

import (
	"fmt"

	"file-ingestion-service/internal/models"
	"file-ingestion-service/internal/parser/strategy"
	"file-ingestion-service/internal/parser/strategy/csvfile"
	"file-ingestion-service/internal/parser/strategy/pdffile"
	"file-ingestion-service/internal/parser/strategy/sheet"
	"file-ingestion-service/pkg/logger"
)

// Factory resolves a detected file kind to its parse strategy.
type Factory struct {
	strategies map[models.FileKind]strategy.Strategy
	log        logger.Logger
}

func NewFactory(log logger.Logger) *Factory {
	f := &Factory{
		strategies: make(map[models.FileKind]strategy.Strategy),
		log:        log,
	}
	for _, s := range []strategy.Strategy{
		csvfile.New(log),
		sheet.New(log),
		pdffile.New(log),
	} {
		f.strategies[s.Kind()] = s
	}
	return f
}

// Get returns the strategy for kind, or ErrUnsupportedFormat when no
// strategy exists.
func (f *Factory) Get(kind models.FileKind) (strategy.Strategy, error) {
	s, ok := f.strategies[kind]
	if !ok {
		f.log.Warn("no strategy for file kind", logger.String("kind", string(kind)))
		return nil, fmt.Errorf("%w", models.ErrUnsupportedFormat)
	}
	return s, nil
}
