package sheet

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"

	"file-ingestion-service/internal/models"
	"file-ingestion-service/internal/parser/strategy"
	"file-ingestion-service/pkg/logger"
)

type memSaver struct {
	progressSaves []int
	final         *models.IngestionJob
}

func (s *memSaver) UpdateProgress(ctx context.Context, id string, status models.FileStatus, progress int) error {
	s.progressSaves = append(s.progressSaves, progress)
	return nil
}

func (s *memSaver) Finalize(ctx context.Context, job *models.IngestionJob) error {
	copied := *job
	s.final = &copied
	return nil
}

func newJob() *models.IngestionJob {
	return &models.IngestionJob{
		ID:     "sheet-job",
		Kind:   models.KindSpreadsheet,
		Status: models.StatusProcessing,
	}
}

// buildWorkbook writes a workbook where each entry maps a sheet name to
// its cell rows.
func buildWorkbook(t *testing.T, sheets []string, cells map[string][][]any) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, name := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else {
			if _, err := f.NewSheet(name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for r, row := range cells[name] {
			cell, err := excelize.CoordinatesToCellName(1, r+1)
			if err != nil {
				t.Fatalf("cell name: %v", err)
			}
			if err := f.SetSheetRow(name, cell, &row); err != nil {
				t.Fatalf("set row: %v", err)
			}
		}
	}

	path := filepath.Join(t.TempDir(), "input.xlsx")
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save workbook: %v", err)
	}
	return path
}

func parse(t *testing.T, path string) (*memSaver, error) {
	t.Helper()
	saver := &memSaver{}
	tr := strategy.NewTracker(newJob(), saver, logger.NewTestLogger(), time.Nanosecond)
	err := New(logger.NewTestLogger()).Parse(context.Background(), path, tr)
	return saver, err
}

func TestParseSheetsInWorkbookOrder(t *testing.T) {
	t.Parallel()

	path := buildWorkbook(t,
		[]string{"People", "Places"},
		map[string][][]any{
			"People": {{"name", "age"}, {"ada", 36}, {"alan", 41}},
			"Places": {{"city"}, {"london"}},
		},
	)

	saver, err := parse(t, path)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	final := saver.final
	if final.Status != models.StatusReady || final.Progress != 100 {
		t.Fatalf("expected ready/100, got %s/%d", final.Status, final.Progress)
	}

	groups := final.Content.Sheets
	if len(groups) != 2 {
		t.Fatalf("expected 2 sheet groups, got %d", len(groups))
	}
	if groups[0].Sheet != "People" || groups[1].Sheet != "Places" {
		t.Fatalf("sheet order wrong: %q, %q", groups[0].Sheet, groups[1].Sheet)
	}
	if len(groups[0].Rows) != 2 {
		t.Fatalf("expected 2 rows in People, got %d", len(groups[0].Rows))
	}
	if groups[0].Rows[0]["name"] != "ada" {
		t.Fatalf("unexpected first row: %v", groups[0].Rows[0])
	}
}

func TestParseEmptySecondSheet(t *testing.T) {
	t.Parallel()

	path := buildWorkbook(t,
		[]string{"Data", "Empty"},
		map[string][][]any{
			"Data": {{"h"}, {"v"}},
		},
	)

	saver, err := parse(t, path)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	groups := saver.final.Content.Sheets
	if len(groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(groups))
	}
	if len(groups[1].Rows) != 0 {
		t.Fatalf("expected empty rows for empty sheet, got %d", len(groups[1].Rows))
	}
	if saver.final.Status != models.StatusReady {
		t.Fatalf("expected ready, got %s", saver.final.Status)
	}
}

func TestParseKeepsEmptyCellsAsNulls(t *testing.T) {
	t.Parallel()

	path := buildWorkbook(t,
		[]string{"Sheet1"},
		map[string][][]any{
			"Sheet1": {{"a", "b", "c"}, {"1", "", "3"}, {"4"}},
		},
	)

	saver, err := parse(t, path)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	rows := saver.final.Content.Sheets[0].Rows
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	// Blank cell and short row both surface as explicit nils under their
	// header keys, never as missing keys.
	for _, key := range []string{"a", "b", "c"} {
		if _, ok := rows[0][key]; !ok {
			t.Fatalf("row 0 missing key %q: %v", key, rows[0])
		}
		if _, ok := rows[1][key]; !ok {
			t.Fatalf("row 1 missing key %q: %v", key, rows[1])
		}
	}
	if rows[0]["b"] != nil {
		t.Fatalf("expected nil for empty cell, got %v", rows[0]["b"])
	}
	if rows[1]["b"] != nil || rows[1]["c"] != nil {
		t.Fatalf("expected nils for short row, got %v", rows[1])
	}
	if rows[0]["a"] != "1" || rows[0]["c"] != "3" || rows[1]["a"] != "4" {
		t.Fatalf("unexpected values: %v", rows)
	}
}

func TestParseProgressPerSheet(t *testing.T) {
	t.Parallel()

	path := buildWorkbook(t,
		[]string{"S1", "S2", "S3"},
		map[string][][]any{
			"S1": {{"h"}, {"1"}},
			"S2": {{"h"}, {"2"}},
			"S3": {{"h"}, {"3"}},
		},
	)

	saver, err := parse(t, path)
	if err != nil {
		t.Fatalf("Parse returned error: %v", err)
	}

	// floor(min(90, done/3*90)) per completed sheet.
	want := []int{30, 60, 90}
	if len(saver.progressSaves) != len(want) {
		t.Fatalf("expected %d saves, got %v", len(want), saver.progressSaves)
	}
	for i, w := range want {
		if saver.progressSaves[i] != w {
			t.Fatalf("save %d: expected %d, got %v", i, w, saver.progressSaves)
		}
	}
}

func TestParseCorruptWorkbookFails(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.xlsx")
	if err := os.WriteFile(path, []byte("not a workbook"), 0o600); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	saver, err := parse(t, path)
	if err == nil {
		t.Fatal("expected parse error")
	}
	if saver.final.Status != models.StatusFailed || saver.final.Error == "" {
		t.Fatalf("expected failed with error, got %s %q", saver.final.Status, saver.final.Error)
	}
	if saver.final.Content.Len() != 0 {
		t.Fatal("expected no partial sheets persisted")
	}
}

func TestSheetProgressBounds(t *testing.T) {
	t.Parallel()

	if got := sheetProgress(1, 1); got != 90 {
		t.Fatalf("expected 90 for the only sheet, got %d", got)
	}
	if got := sheetProgress(0, 0); got != 0 {
		t.Fatalf("expected 0 for empty workbook, got %d", got)
	}
	if got := sheetProgress(1, 3); got != 30 {
		t.Fatalf("expected 30, got %d", got)
	}
	if got := sheetProgress(2, 3); got != 60 {
		t.Fatalf("expected 60, got %d", got)
	}
}
