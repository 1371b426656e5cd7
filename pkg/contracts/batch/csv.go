package batch

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// utf8BOM is the UTF-8 byte order mark raw files carry for Excel
// compatibility. It is stripped on read.
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ErrEmptyInput reports a CSV stream with no header record. Callers that
// need path context wrap it.
var ErrEmptyInput = errors.New("empty CSV input")

// ReadCSV decodes a CSV stream into a batch of string cells. The first record
// is the header; a leading UTF-8 BOM is stripped; header names and cells are
// whitespace-trimmed; empty string cells become nil. Every record must have
// the header's field count (enforced by the CSV reader). A stream with no
// header fails with ErrEmptyInput.
func ReadCSV(r io.Reader) (*Batch, error) {
	br := bufio.NewReader(r)
	if err := stripBOM(br); err != nil {
		return nil, fmt.Errorf("failed to read CSV stream: %w", err)
	}

	reader := csv.NewReader(br)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("failed to read CSV header: %w", ErrEmptyInput)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	b, err := New(header...)
	if err != nil {
		return nil, fmt.Errorf("invalid CSV header: %w", err)
	}

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		cells := make([]any, len(record))
		for i, v := range record {
			v = strings.TrimSpace(v)
			if v == "" {
				cells[i] = nil
			} else {
				cells[i] = v
			}
		}
		if err := b.AppendRow(cells); err != nil {
			return nil, err
		}
	}
	return b, nil
}

// ReadCSVFile decodes a CSV file into a batch of string cells.
func ReadCSVFile(path string) (*Batch, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	b, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	return b, nil
}

func stripBOM(br *bufio.Reader) error {
	head, err := br.Peek(len(utf8BOM))
	if err != nil {
		if err == io.EOF {
			return nil // shorter than a BOM, let the CSV reader report it
		}
		return err
	}
	if head[0] == utf8BOM[0] && head[1] == utf8BOM[1] && head[2] == utf8BOM[2] {
		if _, err := br.Discard(len(utf8BOM)); err != nil {
			return err
		}
	}
	return nil
}
