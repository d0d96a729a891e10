// Package export writes scheduling results for downstream tools.
package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/hallsched/core/model"
)

// Format identifies an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatYAML Format = "yaml"
)

// ParseFormat converts a flag value into a Format.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON:
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unknown export format %q", s)
	}
}

// Write encodes res to w in the given format. YAML is only supported for
// event batches.
func Write(w io.Writer, format Format, res model.Result) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, res)
	case FormatCSV:
		return WriteCSV(w, res)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteEvents encodes an event batch in a form pkg/ingest reads back.
func WriteEvents(w io.Writer, format Format, events []model.Event) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, events)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(events); err != nil {
			return err
		}
		return enc.Close()
	case FormatCSV:
		cw := csv.NewWriter(w)
		if err := cw.Write([]string{"id", "start", "end"}); err != nil {
			return err
		}
		for _, e := range events {
			if err := cw.Write(row(e, 0, "")[:3]); err != nil {
				return err
			}
		}
		cw.Flush()
		return cw.Error()
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// WriteJSON writes v to w as indented JSON.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// WriteCSV writes one row per event: scheduled events by hall then start,
// followed by unscheduled events with hall_index -1.
func WriteCSV(w io.Writer, res model.Result) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "start", "end", "hall_index", "status"}); err != nil {
		return err
	}
	for _, h := range res.Scheduled {
		for _, e := range h.Events {
			if err := cw.Write(row(e.Event, h.Hall, "scheduled")); err != nil {
				return err
			}
		}
	}
	for _, e := range res.Unscheduled {
		if err := cw.Write(row(e, -1, "unscheduled")); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func row(e model.Event, hall int, status string) []string {
	return []string{
		e.ID,
		strconv.FormatFloat(e.Start, 'f', -1, 64),
		strconv.FormatFloat(e.End, 'f', -1, 64),
		strconv.Itoa(hall),
		status,
	}
}
