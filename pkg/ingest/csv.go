package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/kilianp07/hallsched/core/model"
)

// ReadCSV reads id,start,end records. A first record whose start column is
// not numeric is treated as a header.
func ReadCSV(r io.Reader) ([]model.Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = 3
	cr.TrimLeadingSpace = true
	cr.Comment = '#'
	var out []model.Event
	line := 0
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("csv: %w", err)
		}
		line++
		start, serr := strconv.ParseFloat(strings.TrimSpace(rec[1]), 64)
		if serr != nil && line == 1 {
			continue
		}
		if serr != nil {
			return nil, fmt.Errorf("csv record %d: start %q: %w", line, rec[1], serr)
		}
		end, err := strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
		if err != nil {
			return nil, fmt.Errorf("csv record %d: end %q: %w", line, rec[2], err)
		}
		out = append(out, model.Event{ID: strings.TrimSpace(rec[0]), Start: start, End: end})
	}
	return out, nil
}
