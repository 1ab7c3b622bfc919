package models

import (
	"encoding/json"
	"testing"
)

func TestStatusTerminal(t *testing.T) {
	t.Parallel()

	cases := []struct {
		status FileStatus
		want   bool
	}{
		{StatusUploading, false},
		{StatusProcessing, false},
		{StatusReady, true},
		{StatusFailed, true},
	}
	for _, tc := range cases {
		if got := tc.status.Terminal(); got != tc.want {
			t.Errorf("%s.Terminal() = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestParsedContentMarshalsActiveVariant(t *testing.T) {
	t.Parallel()

	csv := CSVContent([]Row{{"a": "1"}})
	data, err := json.Marshal(csv)
	if err != nil {
		t.Fatalf("marshal csv: %v", err)
	}
	if string(data) != `[{"a":"1"}]` {
		t.Fatalf("unexpected csv json: %s", data)
	}

	sheets := SheetContent([]SheetGroup{{Sheet: "S1", Rows: []map[string]any{{"x": nil}}}})
	data, err = json.Marshal(sheets)
	if err != nil {
		t.Fatalf("marshal sheets: %v", err)
	}
	if string(data) != `[{"sheet":"S1","rows":[{"x":null}]}]` {
		t.Fatalf("unexpected sheet json: %s", data)
	}

	pdf := PDFContent([]Paragraph{{Index: 1, Text: "hello"}})
	data, err = json.Marshal(pdf)
	if err != nil {
		t.Fatalf("marshal pdf: %v", err)
	}
	if string(data) != `[{"index":1,"text":"hello"}]` {
		t.Fatalf("unexpected pdf json: %s", data)
	}
}

func TestParsedContentMarshalsEmptyVariants(t *testing.T) {
	t.Parallel()

	for _, c := range []ParsedContent{
		CSVContent(nil),
		SheetContent(nil),
		PDFContent(nil),
		{Kind: KindUnknown},
	} {
		data, err := json.Marshal(c)
		if err != nil {
			t.Fatalf("marshal %s: %v", c.Kind, err)
		}
		if string(data) != "[]" {
			t.Fatalf("%s: expected empty array, got %s", c.Kind, data)
		}
	}
}

func TestDecodeParsedContentRoundTrip(t *testing.T) {
	t.Parallel()

	original := CSVContent([]Row{{"a": "1", "b": "2"}, {"a": "3", "b": "4"}})
	data, err := json.Marshal(original)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	decoded, err := DecodeParsedContent(KindCSV, data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Kind != KindCSV || decoded.Len() != 2 {
		t.Fatalf("unexpected decode result: %+v", decoded)
	}
	if decoded.Rows[1]["a"] != "3" {
		t.Fatalf("unexpected row: %v", decoded.Rows[1])
	}
}

func TestDecodeParsedContentEmptyData(t *testing.T) {
	t.Parallel()

	decoded, err := DecodeParsedContent(KindPDF, nil)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if decoded.Kind != KindPDF || decoded.Len() != 0 {
		t.Fatalf("expected empty pdf content, got %+v", decoded)
	}
}

func TestDecodeParsedContentBadJSON(t *testing.T) {
	t.Parallel()

	if _, err := DecodeParsedContent(KindCSV, []byte("{broken")); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestSummaryDropsContent(t *testing.T) {
	t.Parallel()

	job := &IngestionJob{
		ID:       "job-1",
		Filename: "data.csv",
		Status:   StatusReady,
		Progress: 100,
		Content:  CSVContent([]Row{{"a": "1"}}),
	}

	data, err := json.Marshal(job.Summary())
	if err != nil {
		t.Fatalf("marshal summary: %v", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal summary: %v", err)
	}
	if _, ok := out["content"]; ok {
		t.Fatal("summary must not carry parsed content")
	}
	if out["fileId"] != "job-1" || out["status"] != "ready" {
		t.Fatalf("unexpected summary: %v", out)
	}
}
