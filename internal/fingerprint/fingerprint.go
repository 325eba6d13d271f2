// Package fingerprint computes the dataset fingerprint contract shared with
// the intake layer: content hash plus column list plus row count.
package fingerprint

import (
	"crypto/sha256"
	"encoding/csv"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// Fingerprint identifies a dataset by content and shape
type Fingerprint struct {
	ContentHash string   `json:"content_hash"`
	Columns     []string `json:"columns"`
	RowCount    int      `json:"row_count"`
}

// String renders the compact form stored in the manifest
func (f *Fingerprint) String() string {
	return fmt.Sprintf("%s-c%d-r%d", f.ContentHash[:12], len(f.Columns), f.RowCount)
}

// FromCSVFile fingerprints a CSV dataset on disk
func FromCSVFile(path string) (*Fingerprint, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()
	return FromCSV(file)
}

// FromCSV fingerprints a CSV stream: sha256 over the raw bytes, the header
// row as the column list, and the number of data rows.
func FromCSV(r io.Reader) (*Fingerprint, error) {
	hasher := sha256.New()
	reader := csv.NewReader(io.TeeReader(r, hasher))
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}
	columns := make([]string, len(header))
	for i, c := range header {
		columns[i] = strings.TrimSpace(c)
	}

	rows := 0
	for {
		_, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row %d: %w", rows+1, err)
		}
		rows++
	}

	return &Fingerprint{
		ContentHash: hex.EncodeToString(hasher.Sum(nil)),
		Columns:     columns,
		RowCount:    rows,
	}, nil
}
