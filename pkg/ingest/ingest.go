// Package ingest reads event batches from JSON, YAML, CSV and iCalendar input.
package ingest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/hallsched/core/model"
)

// Format identifies an input encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatCSV  Format = "csv"
	FormatICS  Format = "ics"
)

// Batch is a set of events with an optional hall count. Halls is zero when
// the input does not carry one.
type Batch struct {
	Halls  int           `json:"halls" yaml:"halls"`
	Events []model.Event `json:"events" yaml:"events"`
}

// FormatFromPath guesses the format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".csv":
		return FormatCSV, nil
	case ".ics", ".ical":
		return FormatICS, nil
	default:
		return "", fmt.Errorf("unsupported input format: %s", filepath.Ext(path))
	}
}

// ReadFile reads the batch stored at path.
func ReadFile(path string, opts CalendarOptions) (Batch, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return Batch{}, err
	}
	f, err := os.Open(path)
	if err != nil {
		return Batch{}, err
	}
	defer func() { _ = f.Close() }()
	b, err := Read(f, format, opts)
	if err != nil {
		return Batch{}, fmt.Errorf("read %s: %w", path, err)
	}
	return b, nil
}

// Read decodes a batch from r. opts only applies to calendar input.
func Read(r io.Reader, format Format, opts CalendarOptions) (Batch, error) {
	switch format {
	case FormatJSON:
		return readJSON(r)
	case FormatYAML:
		return readYAML(r)
	case FormatCSV:
		evs, err := ReadCSV(r)
		return Batch{Events: evs}, err
	case FormatICS:
		evs, err := ReadCalendar(r, opts)
		return Batch{Events: evs}, err
	default:
		return Batch{}, fmt.Errorf("unsupported input format: %s", format)
	}
}

// readJSON accepts either a bare event array or a Batch object.
func readJSON(r io.Reader) (Batch, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Batch{}, err
	}
	data = bytes.TrimSpace(data)
	var b Batch
	if len(data) > 0 && data[0] == '[' {
		err = json.Unmarshal(data, &b.Events)
	} else {
		err = json.Unmarshal(data, &b)
	}
	if err != nil {
		return Batch{}, fmt.Errorf("decode json: %w", err)
	}
	return b, nil
}

// readYAML accepts either a bare event sequence or a Batch mapping.
func readYAML(r io.Reader) (Batch, error) {
	var node yaml.Node
	if err := yaml.NewDecoder(r).Decode(&node); err != nil {
		if err == io.EOF {
			return Batch{}, nil
		}
		return Batch{}, fmt.Errorf("decode yaml: %w", err)
	}
	var b Batch
	var err error
	if len(node.Content) > 0 && node.Content[0].Kind == yaml.SequenceNode {
		err = node.Decode(&b.Events)
	} else {
		err = node.Decode(&b)
	}
	if err != nil {
		return Batch{}, fmt.Errorf("decode yaml: %w", err)
	}
	return b, nil
}
