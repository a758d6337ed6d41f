package batch

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func newTestLogger() *zerolog.Logger {
	logger := zerolog.Nop()
	return &logger
}

func TestReader_JSONL(t *testing.T) {
	input := `{"user_input":"q1","response":"a1","category":"qa"}
  {"user_input":"q2","response":"a2"}`

	reader := NewReader(strings.NewReader(input), newTestLogger())

	rows, err := reader.ReadRows(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["user_input"] != "q1" {
		t.Errorf("expected first row user_input q1, got %v", rows[0]["user_input"])
	}
}

func TestReader_JSONArray(t *testing.T) {
	input := ` [
  {"user_input":"q1","response":"a1"},
  {"user_input":"q2","response":"a2","retrieved_contexts":["ctx"]}
]`

	reader := NewReader(strings.NewReader(input), newTestLogger())

	rows, err := reader.ReadRows(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	contexts, ok := rows[1]["retrieved_contexts"].([]any)
	if !ok || len(contexts) != 1 {
		t.Errorf("expected contexts preserved, got %v", rows[1]["retrieved_contexts"])
	}
}

func TestReader_InvalidLine(t *testing.T) {
	input := `{"user_input":"q1"}

{"invalid json}
{"user_input":"q2"}`

	reader := NewReader(strings.NewReader(input), newTestLogger())

	var records []InputRecord
	for record := range reader.ReadAll(context.Background()) {
		records = append(records, record)
	}

	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].LineNumber != 1 || records[0].Error != nil {
		t.Errorf("first record should be line 1 with no error, got line %d err %v", records[0].LineNumber, records[0].Error)
	}
	if records[1].LineNumber != 3 || records[1].Error == nil {
		t.Errorf("error record should be line 3 with an error, got line %d err %v", records[1].LineNumber, records[1].Error)
	}
	if records[2].LineNumber != 4 || records[2].Error != nil {
		t.Errorf("third record should be line 4 with no error, got line %d err %v", records[2].LineNumber, records[2].Error)
	}
}

func TestReader_ReadRowsFailsOnFirstError(t *testing.T) {
	input := `{"user_input":"q1"}
not json
{"user_input":"q2"}`

	reader := NewReader(strings.NewReader(input), newTestLogger())

	_, err := reader.ReadRows(context.Background())
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("expected line number in error, got: %v", err)
	}
}

func TestReader_EmptyInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty file", ""},
		{"only whitespace", "\n  \n\t\n"},
		{"empty array", "[]"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reader := NewReader(strings.NewReader(tt.input), newTestLogger())
			_, err := reader.ReadRows(context.Background())
			if !errors.Is(err, ErrEmptyDataset) {
				t.Errorf("expected ErrEmptyDataset, got %v", err)
			}
		})
	}
}

func TestReader_ArrayOfNonObjects(t *testing.T) {
	reader := NewReader(strings.NewReader(`[{"user_input":"q1"}, 42]`), newTestLogger())

	_, err := reader.ReadRows(context.Background())
	if err == nil {
		t.Fatal("expected error for non-object element, got nil")
	}
	if !strings.Contains(err.Error(), "element 1") {
		t.Errorf("expected element index in error, got: %v", err)
	}
}

func TestReader_ContextCancellation(t *testing.T) {
	var lines []string
	for i := 0; i < 100; i++ {
		lines = append(lines, `{"user_input":"q","response":"a"}`)
	}
	reader := NewReader(strings.NewReader(strings.Join(lines, "\n")), newTestLogger())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	count := 0
	for range reader.ReadAll(ctx) {
		count++
		if count == 5 {
			cancel()
			break
		}
	}

	if count >= 100 {
		t.Errorf("expected early cancellation, but read all records")
	}
}
