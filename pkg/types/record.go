package types

// Format identifies the raw encoding of a log source. The set is closed:
// a source is parsed by exactly one handler, selected once at load time.
type Format string

const (
	// FormatText is line-oriented free text with best-effort field extraction.
	FormatText Format = "text"
	// FormatTabular is delimited tabular data, one record per row.
	FormatTabular Format = "tabular"
	// FormatRecord is a homogeneous structured record sequence (JSON Lines).
	FormatRecord Format = "record"
	// FormatAuto defers format selection to extension/content sniffing.
	FormatAuto Format = "auto"
)

// LogRecord is a single parsed log line. RawText is always present; the
// structured fields are populated only when extraction succeeded for the
// chosen format. Records are immutable after creation.
type LogRecord struct {
	LineNumber int    // 1-based physical line in the source, stable
	RawText    string // never discarded, even when extraction fails

	Timestamp string
	Level     string
	Component string
	Message   string

	// Fields carries handler-specific extras: the process id for text logs,
	// column values for tabular sources, unrecognized keys for record sources.
	Fields map[string]string
}

// Structured reports whether any structured field was extracted.
func (r *LogRecord) Structured() bool {
	return r.Timestamp != "" || r.Level != "" || r.Component != "" || r.Message != ""
}

// Document binds a LogRecord to its position in the parsed corpus. DocID is
// the join key across every index: dense, 0-based, equal to the record's
// position in the concatenated parse order of all sources.
type Document struct {
	DocID      int
	SourcePath string
	Record     LogRecord
}
