package csvfile

import (
	"context"
	"encoding/csv"
	"errors"
	"io"
	"os"

	"file-ingestion-service/internal/models"
	"file-ingestion-service/internal/parser/strategy"
	"file-ingestion-service/pkg/logger"
)

// Strategy streams a CSV file row by row, keeping memory flat apart from
// the accumulated result. The first record is the header; every following
// record becomes a header-keyed row. Progress moves +1 per row up to the
// in-flight ceiling, with a throttled save per step.
type Strategy struct {
	log logger.Logger
}

func New(log logger.Logger) *Strategy {
	return &Strategy{log: log}
}

func (s *Strategy) Kind() models.FileKind { return models.KindCSV }

func (s *Strategy) Parse(ctx context.Context, path string, tr *strategy.Tracker) error {
	f, err := os.Open(path)
	if err != nil {
		return s.fail(ctx, tr, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	// Tolerate ragged rows; short records fill missing headers with "".
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		// Empty but valid source: ready with no rows.
		return tr.Ready(ctx, models.CSVContent(nil))
	}
	if err != nil {
		return s.fail(ctx, tr, err)
	}

	rows := make([]models.Row, 0)
	for {
		rec, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// Accumulated rows are discarded; the persisted view keeps
			// no partial content on failure.
			return s.fail(ctx, tr, err)
		}

		row := make(models.Row, len(header))
		for i, key := range header {
			if i < len(rec) {
				row[key] = rec[i]
			} else {
				row[key] = ""
			}
		}
		rows = append(rows, row)
		tr.Increment(ctx)
	}

	return tr.Ready(ctx, models.CSVContent(rows))
}

func (s *Strategy) fail(ctx context.Context, tr *strategy.Tracker, cause error) error {
	perr := &models.ParseError{Kind: models.KindCSV, Err: cause}
	s.log.Error("csv parse failed",
		logger.String("fileId", tr.Job().ID),
		logger.Error(cause),
	)
	if serr := tr.Fail(ctx, perr); serr != nil {
		return serr
	}
	return perr
}
