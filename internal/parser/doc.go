// Package parser normalizes raw log encodings into ordered LogRecord
// sequences without ever losing a line.
//
// Three handlers cover the supported encodings:
//   - FormatText: line-oriented free text with best-effort regex extraction
//     of timestamp, process id, level, dotted component, and message
//   - FormatTabular: delimited rows; columns become the field dictionary
//   - FormatRecord: JSON Lines; one structured entry per record
//
// # Failure Policy
//
// A line that cannot be decoded under the chosen format is still emitted as a
// record with only RawText populated; the Result carries a warning count so
// the caller can log it. Parsing never aborts on a single bad line.
//
// # Format Detection
//
// Handler selection is owned by the loading layer. DetectFormat implements
// the extension/content sniffing that layer uses:
//
//	format := parser.DetectFormat(path, head)
//	res, err := parser.New().Parse(r, format)
package parser
