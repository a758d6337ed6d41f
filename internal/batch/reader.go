package batch

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/povarna/generative-ai-agents/dataset-eval/internal/models"
	"github.com/rs/zerolog"
)

// ErrEmptyDataset is returned when the input contains no rows at all.
// An empty batch is fatal: there is nothing to evaluate.
var ErrEmptyDataset = errors.New("input dataset is empty")

// InputRecord is one parsed row, or a parse failure with its line number.
type InputRecord struct {
	Row        models.Row
	LineNumber int
	Error      error
}

// Reader parses a dataset from JSONL (one object per line, blank lines
// skipped) or a single JSON array of objects.
type Reader struct {
	input  io.Reader
	logger *zerolog.Logger
}

func NewReader(input io.Reader, logger *zerolog.Logger) *Reader {
	return &Reader{
		input:  input,
		logger: logger,
	}
}

// ReadAll streams records from the input. Parse failures are emitted as
// records carrying an error so the caller decides whether to abort; reading
// stops early when ctx is cancelled.
func (r *Reader) ReadAll(ctx context.Context) <-chan InputRecord {
	out := make(chan InputRecord)

	go func() {
		defer close(out)

		buffered := bufio.NewReader(r.input)
		leading, err := peekNonSpace(buffered)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				emit(ctx, out, InputRecord{Error: fmt.Errorf("failed to read input: %w", err)})
			}
			return
		}

		if leading == '[' {
			r.readArray(ctx, buffered, out)
			return
		}
		r.readLines(ctx, buffered, out)
	}()

	return out
}

// ReadRows drains the reader and fails on the first malformed record.
func (r *Reader) ReadRows(ctx context.Context) ([]models.Row, error) {
	var rows []models.Row
	for record := range r.ReadAll(ctx) {
		if record.Error != nil {
			if record.LineNumber > 0 {
				return nil, fmt.Errorf("line %d: %w", record.LineNumber, record.Error)
			}
			return nil, record.Error
		}
		rows = append(rows, record.Row)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrEmptyDataset
	}
	return rows, nil
}

func (r *Reader) readArray(ctx context.Context, input io.Reader, out chan<- InputRecord) {
	data, err := io.ReadAll(input)
	if err != nil {
		emit(ctx, out, InputRecord{Error: fmt.Errorf("failed to read input: %w", err)})
		return
	}

	var parsed []json.RawMessage
	if err := json.Unmarshal(data, &parsed); err != nil {
		emit(ctx, out, InputRecord{Error: fmt.Errorf("JSON input must be an array of objects: %w", err)})
		return
	}

	for index, raw := range parsed {
		var row models.Row
		if err := json.Unmarshal(raw, &row); err != nil {
			if !emit(ctx, out, InputRecord{Error: fmt.Errorf("element %d must be a JSON object: %w", index, err)}) {
				return
			}
			continue
		}
		if !emit(ctx, out, InputRecord{Row: row}) {
			return
		}
	}

	r.logger.Debug().Int("rows", len(parsed)).Msg("parsed JSON array input")
}

func (r *Reader) readLines(ctx context.Context, input io.Reader, out chan<- InputRecord) {
	scanner := bufio.NewScanner(input)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		var row models.Row
		if err := json.Unmarshal([]byte(line), &row); err != nil {
			r.logger.Warn().Int("line", lineNumber).Err(err).Msg("failed to parse row")
			if !emit(ctx, out, InputRecord{LineNumber: lineNumber, Error: fmt.Errorf("each input row must be a JSON object: %w", err)}) {
				return
			}
			continue
		}

		if !emit(ctx, out, InputRecord{Row: row, LineNumber: lineNumber}) {
			return
		}
	}

	if err := scanner.Err(); err != nil {
		emit(ctx, out, InputRecord{Error: fmt.Errorf("failed to read input: %w", err)})
	}
}

// peekNonSpace returns the first non-whitespace byte without consuming it.
func peekNonSpace(input *bufio.Reader) (byte, error) {
	for {
		data, err := input.Peek(1)
		if err != nil {
			return 0, err
		}
		if !bytes.ContainsAny(data, " \t\r\n") {
			return data[0], nil
		}
		if _, err := input.Discard(1); err != nil {
			return 0, err
		}
	}
}

func emit(ctx context.Context, out chan<- InputRecord, record InputRecord) bool {
	select {
	case out <- record:
		return true
	case <-ctx.Done():
		return false
	}
}
