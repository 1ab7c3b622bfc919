package parser

import (
	"path/filepath"
	"strings"

	"file-ingestion-service/internal/models"
)

// Detect classifies an upload into a parser kind. An explicit extension
// match wins; otherwise the mime type decides. Pure function, no I/O.
func Detect(filename, mimeType string) models.FileKind {
	ext := strings.ToLower(filepath.Ext(filename))
	mt := strings.ToLower(mimeType)

	switch {
	case ext == ".csv" || mt == "text/csv":
		return models.KindCSV
	case ext == ".xlsx" || ext == ".xls" ||
		strings.Contains(mt, "spreadsheet") || strings.Contains(mt, "excel"):
		return models.KindSpreadsheet
	case ext == ".pdf" || mt == "application/pdf":
		return models.KindPDF
	}
	return models.KindUnknown
}
