package parser

import (
	"testing"

	"file-ingestion-service/internal/models"
)

func TestDetect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		filename string
		mimeType string
		want     models.FileKind
	}{
		{"csv extension", "data.csv", "", models.KindCSV},
		{"csv extension wins over pdf mime", "data.csv", "application/pdf", models.KindCSV},
		{"csv mime only", "data", "text/csv", models.KindCSV},
		{"xlsx extension", "report.xlsx", "", models.KindSpreadsheet},
		{"xls extension", "legacy.XLS", "", models.KindSpreadsheet},
		{"ooxml mime", "report", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", models.KindSpreadsheet},
		{"legacy excel mime", "report", "application/vnd.ms-excel", models.KindSpreadsheet},
		{"pdf extension", "doc.pdf", "", models.KindPDF},
		{"pdf mime", "doc", "application/pdf", models.KindPDF},
		{"uppercase extension", "DOC.PDF", "", models.KindPDF},
		{"zip is unknown", "archive.zip", "application/zip", models.KindUnknown},
		{"no hints", "file", "", models.KindUnknown},
		{"word doc is unknown", "letter.docx", "application/msword", models.KindUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Detect(tt.filename, tt.mimeType); got != tt.want {
				t.Fatalf("Detect(%q, %q) = %q, want %q", tt.filename, tt.mimeType, got, tt.want)
			}
		})
	}
}
