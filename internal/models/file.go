package models

import (
	"encoding/json"
	"time"
)

// FileKind is the parser kind resolved from filename/mime type.
type FileKind string

const (
	KindCSV         FileKind = "csv"
	KindSpreadsheet FileKind = "spreadsheet"
	KindPDF         FileKind = "pdf"
	KindUnknown     FileKind = "unknown"
)

// FileStatus is the lifecycle state of an ingestion job.
type FileStatus string

const (
	StatusUploading  FileStatus = "uploading"
	StatusProcessing FileStatus = "processing"
	StatusReady      FileStatus = "ready"
	StatusFailed     FileStatus = "failed"
)

// Terminal reports whether no further transitions may occur.
func (s FileStatus) Terminal() bool {
	return s == StatusReady || s == StatusFailed
}

// Row is one CSV record keyed by the header row.
type Row map[string]string

// SheetGroup is one spreadsheet sheet converted to header-keyed rows.
// Empty cells are kept as explicit nulls, not dropped.
type SheetGroup struct {
	Sheet string           `json:"sheet"`
	Rows  []map[string]any `json:"rows"`
}

// Paragraph is one extracted PDF paragraph. Index is 1-based.
type Paragraph struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// ParsedContent is the union of the three strategy outputs, keyed by Kind.
// It marshals to the bare sequence of the active variant so the content
// endpoint serves a flat array regardless of kind.
type ParsedContent struct {
	Kind       FileKind     `json:"-"`
	Rows       []Row        `json:"-"`
	Sheets     []SheetGroup `json:"-"`
	Paragraphs []Paragraph  `json:"-"`
}

// CSVContent builds a csv-kind content value, never nil-backed.
func CSVContent(rows []Row) ParsedContent {
	if rows == nil {
		rows = []Row{}
	}
	return ParsedContent{Kind: KindCSV, Rows: rows}
}

// SheetContent builds a spreadsheet-kind content value.
func SheetContent(sheets []SheetGroup) ParsedContent {
	if sheets == nil {
		sheets = []SheetGroup{}
	}
	return ParsedContent{Kind: KindSpreadsheet, Sheets: sheets}
}

// PDFContent builds a pdf-kind content value.
func PDFContent(paragraphs []Paragraph) ParsedContent {
	if paragraphs == nil {
		paragraphs = []Paragraph{}
	}
	return ParsedContent{Kind: KindPDF, Paragraphs: paragraphs}
}

// Len returns the number of records in the active variant.
func (c ParsedContent) Len() int {
	switch c.Kind {
	case KindCSV:
		return len(c.Rows)
	case KindSpreadsheet:
		return len(c.Sheets)
	case KindPDF:
		return len(c.Paragraphs)
	}
	return 0
}

func (c ParsedContent) MarshalJSON() ([]byte, error) {
	switch c.Kind {
	case KindCSV:
		return json.Marshal(c.Rows)
	case KindSpreadsheet:
		return json.Marshal(c.Sheets)
	case KindPDF:
		return json.Marshal(c.Paragraphs)
	}
	return []byte("[]"), nil
}

// DecodeParsedContent rebuilds the tagged union from stored JSON.
func DecodeParsedContent(kind FileKind, data []byte) (ParsedContent, error) {
	if len(data) == 0 {
		return ParsedContent{Kind: kind}, nil
	}
	switch kind {
	case KindCSV:
		var rows []Row
		if err := json.Unmarshal(data, &rows); err != nil {
			return ParsedContent{}, err
		}
		return CSVContent(rows), nil
	case KindSpreadsheet:
		var sheets []SheetGroup
		if err := json.Unmarshal(data, &sheets); err != nil {
			return ParsedContent{}, err
		}
		return SheetContent(sheets), nil
	case KindPDF:
		var paragraphs []Paragraph
		if err := json.Unmarshal(data, &paragraphs); err != nil {
			return ParsedContent{}, err
		}
		return PDFContent(paragraphs), nil
	}
	return ParsedContent{Kind: kind}, nil
}

// IngestionJob is the lifecycle record of one uploaded document.
// ID, Filename, MimeType, SizeBytes, StoragePath and CreatedAt are set at
// creation and never change; the rest is owned by the active parse task.
type IngestionJob struct {
	ID          string        `json:"fileId"`
	Filename    string        `json:"filename"`
	MimeType    string        `json:"mimeType"`
	SizeBytes   int64         `json:"sizeBytes"`
	StoragePath string        `json:"-"`
	Kind        FileKind      `json:"kind"`
	Status      FileStatus    `json:"status"`
	Progress    int           `json:"progress"`
	Content     ParsedContent `json:"-"`
	Error       string        `json:"error,omitempty"`
	CreatedAt   time.Time     `json:"createdAt"`
}

// JobSummary is the list view: everything except parsed content.
type JobSummary struct {
	ID        string     `json:"fileId"`
	Filename  string     `json:"filename"`
	MimeType  string     `json:"mimeType"`
	SizeBytes int64      `json:"sizeBytes"`
	Kind      FileKind   `json:"kind"`
	Status    FileStatus `json:"status"`
	Progress  int        `json:"progress"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Summary strips the parsed content off a job.
func (j *IngestionJob) Summary() JobSummary {
	return JobSummary{
		ID:        j.ID,
		Filename:  j.Filename,
		MimeType:  j.MimeType,
		SizeBytes: j.SizeBytes,
		Kind:      j.Kind,
		Status:    j.Status,
		Progress:  j.Progress,
		Error:     j.Error,
		CreatedAt: j.CreatedAt,
	}
}
