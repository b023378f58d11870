package parser

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/logsift/logsift/pkg/types"
)

// textLinePattern extracts structured fields from line-oriented logs of the
// form: TIMESTAMP PID LEVEL COMPONENT MESSAGE
// Example: 2017-05-16 00:00:04.500 2931 INFO nova.compute.manager [...] ...
var textLinePattern = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2}\s+\d{2}:\d{2}:\d{2}\.\d+)\s+(\d+)\s+(DEBUG|INFO|WARNING|ERROR|CRITICAL)\s+([\w.]+)\s*(.*)$`)

// Parser normalizes raw log encodings into ordered LogRecord sequences.
// Parsing never aborts on a single bad line: a line that cannot be decoded
// under the chosen format is still emitted with RawText only.
type Parser struct{}

// New creates a new Parser instance.
func New() *Parser {
	return &Parser{}
}

// Result holds the parsed records plus the count of lines that could not be
// structurally decoded. Such lines are retained as raw-only records; the
// count is surfaced so callers can log it.
type Result struct {
	Records  []types.LogRecord
	Warnings int
}

// ParseFile parses a log file with the given format hint. FormatAuto selects
// a handler by extension and first-line sniffing.
func (p *Parser) ParseFile(path string, format types.Format) (*Result, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read log source: %w", err)
	}

	if format == types.FormatAuto || format == "" {
		format = DetectFormat(path, data)
	}

	return p.Parse(bytes.NewReader(data), format)
}

// Parse parses a byte stream under the given format. The format must be
// concrete; detection is the caller's responsibility (see DetectFormat).
func (p *Parser) Parse(r io.Reader, format types.Format) (*Result, error) {
	switch format {
	case types.FormatText:
		return p.parseText(r)
	case types.FormatTabular:
		return p.parseTabular(r)
	case types.FormatRecord:
		return p.parseRecord(r)
	default:
		return nil, fmt.Errorf("%w: %q", types.ErrUnsupportedFormat, format)
	}
}

// DetectFormat selects a handler by file extension, falling back to sniffing
// the first non-blank line. Detection happens once per source at load time.
func DetectFormat(path string, head []byte) types.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonl", ".ndjson":
		return types.FormatRecord
	case ".csv", ".tsv":
		return types.FormatTabular
	}

	for _, line := range strings.SplitN(string(head), "\n", 10) {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "{") && json.Valid([]byte(line)) {
			return types.FormatRecord
		}
		break
	}

	return types.FormatText
}

// parseText handles line-oriented free text. Field extraction is best-effort:
// unmatched lines keep only their raw text. Blank lines are skipped; physical
// line numbers are preserved either way.
func (p *Parser) parseText(r io.Reader) (*Result, error) {
	res := &Result{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		rec := types.LogRecord{LineNumber: lineNum, RawText: line}
		if m := textLinePattern.FindStringSubmatch(line); m != nil {
			rec.Timestamp = m[1]
			rec.Level = m[3]
			rec.Component = m[4]
			rec.Message = strings.TrimSpace(m[5])
			rec.Fields = map[string]string{"pid": m[2]}
		}
		res.Records = append(res.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan log text: %w", err)
	}

	return res, nil
}

// parseTabular handles delimited tabular sources. The header row is physical
// line 1, so data records start at line 2. Columns become the record's field
// dictionary; well-known column names map onto the structured fields.
//
// RawText is sliced from the input bytes via the reader's offset, so quoting
// survives verbatim and quoted multi-line fields keep both their text and
// their physical start line.
func (p *Parser) parseTabular(r io.Reader) (*Result, error) {
	res := &Result{}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read tabular source: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.FieldsPerRecord = -1 // tolerate ragged rows

	header, err := reader.Read()
	if err == io.EOF {
		return res, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read tabular header: %w", err)
	}

	for {
		start := reader.InputOffset()
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		end := reader.InputOffset()

		// The reader silently skips blank lines; drop them from the slice so
		// the raw text and the line number point at the record itself.
		seg := data[start:end]
		trimmed := bytes.TrimLeft(seg, "\r\n")
		start += int64(len(seg) - len(trimmed))
		raw := strings.TrimRight(string(trimmed), "\r\n")
		lineNum := 1 + bytes.Count(data[:start], []byte("\n"))

		if err != nil {
			var parseErr *csv.ParseError
			if !errors.As(err, &parseErr) {
				return nil, fmt.Errorf("failed to read tabular row: %w", err)
			}
			if raw == "" {
				raw = fmt.Sprintf("unparseable row: %v", parseErr.Err)
			}
			res.Records = append(res.Records, types.LogRecord{LineNumber: lineNum, RawText: raw})
			res.Warnings++
			continue
		}

		rec := types.LogRecord{
			LineNumber: lineNum,
			RawText:    raw,
			Fields:     make(map[string]string, len(row)),
		}
		for i, val := range row {
			if i >= len(header) {
				break
			}
			col := strings.TrimSpace(header[i])
			rec.Fields[col] = val
			switch strings.ToLower(col) {
			case "timestamp", "time":
				rec.Timestamp = val
			case "level", "severity":
				rec.Level = val
			case "component", "logger":
				rec.Component = val
			case "message", "msg":
				rec.Message = val
			}
		}
		res.Records = append(res.Records, rec)
	}

	return res, nil
}

// recordFieldAliases maps the structured fields to their accepted JSON keys,
// in priority order.
var recordFieldAliases = map[string][]string{
	"timestamp": {"timestamp", "time"},
	"level":     {"level", "severity"},
	"component": {"component", "logger"},
	"message":   {"message", "msg"},
}

// parseRecord handles homogeneous structured record sequences (JSON Lines).
// A line that fails to decode is emitted raw-only and counted as a warning.
func (p *Parser) parseRecord(r io.Reader) (*Result, error) {
	res := &Result{}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(line), &obj); err != nil {
			res.Records = append(res.Records, types.LogRecord{LineNumber: lineNum, RawText: line})
			res.Warnings++
			continue
		}

		rec := types.LogRecord{LineNumber: lineNum, RawText: line}
		consumed := make(map[string]bool)
		rec.Timestamp = firstAlias(obj, recordFieldAliases["timestamp"], consumed)
		rec.Level = firstAlias(obj, recordFieldAliases["level"], consumed)
		rec.Component = firstAlias(obj, recordFieldAliases["component"], consumed)
		rec.Message = firstAlias(obj, recordFieldAliases["message"], consumed)

		for key, val := range obj {
			if consumed[key] {
				continue
			}
			if rec.Fields == nil {
				rec.Fields = make(map[string]string)
			}
			rec.Fields[key] = stringify(val)
		}
		res.Records = append(res.Records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan record stream: %w", err)
	}

	return res, nil
}

// firstAlias returns the first alias present in the object as a string and
// marks it consumed so it does not also land in Fields.
func firstAlias(obj map[string]any, aliases []string, consumed map[string]bool) string {
	for _, key := range aliases {
		if val, ok := obj[key]; ok {
			consumed[key] = true
			return stringify(val)
		}
	}
	return ""
}

// stringify renders a decoded JSON value for the field dictionary.
func stringify(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case nil:
		return ""
	case float64:
		// Avoid the exponent form for integral values.
		if val == float64(int64(val)) {
			return fmt.Sprintf("%d", int64(val))
		}
		return fmt.Sprintf("%g", val)
	default:
		b, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprintf("%v", val)
		}
		return string(b)
	}
}
