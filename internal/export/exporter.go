package export

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/klauspost/compress/zstd"
	"gopkg.in/yaml.v3"

	"ifcaudit/internal/errors"
	"ifcaudit/internal/flatten"
	"ifcaudit/internal/model"
	"ifcaudit/internal/slogutil"
)

// Exporter writes tables in the configured format.
type Exporter struct {
	logger *slog.Logger
}

// NewExporter creates a new exporter
func NewExporter(logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slogutil.NewDiscardLogger()
	}
	return &Exporter{logger: logger}
}

// WriteTable writes t to w. Every row has one cell per column, in column
// order; absent values are empty CSV cells or nulls.
func (e *Exporter) WriteTable(w io.Writer, t flatten.Table, opts Options) error {
	format := opts.Format
	if format == "" {
		format = FormatCSV
	}

	var zw *zstd.Encoder
	if opts.Compress {
		var err error
		if zw, err = zstd.NewWriter(w); err != nil {
			return fmt.Errorf("failed to create zstd writer: %w", err)
		}
		w = zw
	}

	var err error
	switch format {
	case FormatCSV:
		err = writeCSV(w, t)
	case FormatJSON:
		err = writeJSON(w, t)
	case FormatYAML:
		err = writeYAML(w, t)
	default:
		err = errors.Newf(errors.InvalidInput, "unsupported export format %q", string(format))
	}
	if zw != nil {
		if cerr := zw.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("failed to finish zstd stream: %w", cerr)
		}
	}
	if err != nil {
		return err
	}

	e.logger.Debug("Table exported",
		"format", string(format),
		"rows", len(t.Rows),
		"columns", len(t.Columns),
		"compressed", opts.Compress,
	)
	return nil
}

// WriteFile exports t to path and returns the path written, which gains
// a .zst suffix when compressing.
func (e *Exporter) WriteFile(path string, t flatten.Table, opts Options) (string, error) {
	if opts.Compress && !strings.HasSuffix(path, CompressedSuffix) {
		path += CompressedSuffix
	}
	f, err := os.Create(path)
	if err != nil {
		return "", errors.New(errors.InvalidInput, "cannot create export file", err)
	}
	bw := bufio.NewWriter(f)
	if err := e.WriteTable(bw, t, opts); err != nil {
		f.Close()
		return "", err
	}
	if err := bw.Flush(); err != nil {
		f.Close()
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close %s: %w", path, err)
	}
	e.logger.Info("Export written", "path", path, "rows", len(t.Rows))
	return path, nil
}

// CellText renders a value as a CSV cell.
func CellText(v model.Value) string {
	return v.String()
}

func writeCSV(w io.Writer, t flatten.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	record := make([]string, len(t.Columns))
	for _, row := range t.Rows {
		for i, col := range t.Columns {
			record[i] = CellText(row.Get(col))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// orderedRow marshals a row with keys in column order.
type orderedRow struct {
	columns []string
	row     flatten.Row
}

func (o orderedRow) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range o.columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := o.row.Get(col).MarshalJSON()
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func writeJSON(w io.Writer, t flatten.Table) error {
	rows := make([]orderedRow, len(t.Rows))
	for i, row := range t.Rows {
		rows[i] = orderedRow{columns: t.Columns, row: row}
	}
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

func writeYAML(w io.Writer, t flatten.Table) error {
	doc := &yaml.Node{Kind: yaml.SequenceNode}
	for _, row := range t.Rows {
		m := &yaml.Node{Kind: yaml.MappingNode}
		for _, col := range t.Columns {
			var val yaml.Node
			if err := val.Encode(row.Get(col)); err != nil {
				return fmt.Errorf("failed to encode %s: %w", col, err)
			}
			m.Content = append(m.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: col},
				&val,
			)
		}
		doc.Content = append(doc.Content, m)
	}
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
