package sheet

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/couchcryptid/gnss-sitemap/internal/domain"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// ParseCSV decodes a comma-separated document whose first record is the
// header. Every returned row holds a key for every header column; short
// records read as blank cells and cells past the header are dropped. A
// repeated column keeps its first non-blank cell. Blank lines are skipped but
// lines of bare commas are kept as rows. An empty document yields no rows and
// no error.
func ParseCSV(data []byte) ([]domain.Row, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.FieldsPerRecord = -1
	r.ReuseRecord = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("parse csv header: %w", err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = strings.TrimSpace(name)
	}

	var rows []domain.Row
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		row := make(domain.Row, len(columns))
		for i, col := range columns {
			if col == "" {
				continue
			}
			if _, dup := row[col]; dup && row[col] != "" {
				continue
			}
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}
