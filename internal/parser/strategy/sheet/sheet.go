package sheet

import (
	"context"
	"math"

	"github.com/xuri/excelize/v2"

	"file-ingestion-service/internal/models"
	"file-ingestion-service/internal/parser/strategy"
	"file-ingestion-service/pkg/logger"
)

// Strategy loads a whole workbook into memory (inherent to the format) and
// converts each sheet, in workbook order, into header-keyed rows. Empty
// cells stay in the row as explicit nulls rather than being dropped.
// Progress is reported after each completed sheet as
// floor(min(90, done/total*90)).
type Strategy struct {
	log logger.Logger
}

func New(log logger.Logger) *Strategy {
	return &Strategy{log: log}
}

func (s *Strategy) Kind() models.FileKind { return models.KindSpreadsheet }

func (s *Strategy) Parse(ctx context.Context, path string, tr *strategy.Tracker) error {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return s.fail(ctx, tr, err)
	}
	defer wb.Close()

	names := wb.GetSheetList()
	groups := make([]models.SheetGroup, 0, len(names))
	for i, name := range names {
		raw, err := wb.GetRows(name)
		if err != nil {
			// No partial sheets survive a conversion error.
			return s.fail(ctx, tr, err)
		}
		groups = append(groups, models.SheetGroup{
			Sheet: name,
			Rows:  convertRows(raw),
		})
		tr.Set(ctx, sheetProgress(i+1, len(names)))
	}

	return tr.Ready(ctx, models.SheetContent(groups))
}

// convertRows maps data rows onto the header row. Cells the sheet left
// empty, or that a short row is missing, become explicit nils.
func convertRows(raw [][]string) []map[string]any {
	rows := make([]map[string]any, 0)
	if len(raw) < 2 {
		return rows
	}
	header := raw[0]
	for _, rec := range raw[1:] {
		row := make(map[string]any, len(header))
		for i, key := range header {
			if key == "" {
				continue
			}
			if i < len(rec) && rec[i] != "" {
				row[key] = rec[i]
			} else {
				row[key] = nil
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func sheetProgress(done, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Floor(math.Min(90, float64(done)/float64(total)*90)))
}

func (s *Strategy) fail(ctx context.Context, tr *strategy.Tracker, cause error) error {
	perr := &models.ParseError{Kind: models.KindSpreadsheet, Err: cause}
	s.log.Error("spreadsheet parse failed",
		logger.String("fileId", tr.Job().ID),
		logger.Error(cause),
	)
	if serr := tr.Fail(ctx, perr); serr != nil {
		return serr
	}
	return perr
}
