// Package analyzer collects statistics about a loaded document and
// recognizes well-known string formats such as UUIDs and timestamps.
package analyzer

import (
	"regexp"

	"github.com/mcncl/unfold/internal/tree"
)

// Format names a recognized shape of a scalar value.
type Format string

const (
	FormatNone          Format = ""
	FormatUUID          Format = "uuid"
	FormatRFC3339       Format = "rfc3339"
	FormatISO8601       Format = "iso8601"
	FormatDate          Format = "date"
	FormatDateTime      Format = "datetime"
	FormatUnixTimestamp Format = "unix"
	FormatUnixMilli     Format = "unix-ms"
	FormatURL           Format = "url"
	FormatEmail         Format = "email"
)

// Regex patterns for special formats
var (
	uuidRegex = regexp.MustCompile(`^[0-9a-fA-F]{8}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{4}-[0-9a-fA-F]{12}$`)

	// Time format patterns (ordered by specificity - most specific first)
	rfc3339Regex       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?(Z|[+-]\d{2}:\d{2})$`)            // 2006-01-02T15:04:05Z
	iso8601Regex       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T\d{2}:\d{2}:\d{2}(\.\d+)?([+-]\d{2}:\d{2}|Z|[+-]\d{4})?$`) // ISO8601 variants
	dateOnlyRegex      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)                                                         // 2006-01-02
	dateTimeRegex      = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2}(\.\d+)?$`)                               // 2006-01-02 15:04:05
	unixTimestampRegex = regexp.MustCompile(`^1[0-9]{9}$`)                                                                 // Unix timestamp (seconds since 1970)
	unixMilliRegex     = regexp.MustCompile(`^1[0-9]{12}$`)                                                                // Unix timestamp in milliseconds

	urlRegex   = regexp.MustCompile(`^https?://[^\s/$.?#].[^\s]*$`)
	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// Stats summarizes the shape of a document
type Stats struct {
	Nodes    int
	Objects  int
	Arrays   int
	Strings  int
	Numbers  int
	Bools    int
	Nulls    int
	Leaves   int
	MaxDepth int
	// Formats counts scalars by recognized format
	Formats map[Format]int
}

// Containers returns the number of objects and arrays.
func (s Stats) Containers() int {
	return s.Objects + s.Arrays
}

// Analyzer computes document statistics
type Analyzer struct {
	detectFormats bool
}

// NewAnalyzer creates a new Analyzer instance.
func NewAnalyzer() *Analyzer {
	return &Analyzer{detectFormats: true}
}

// NewAnalyzerWithFormats creates an Analyzer that only recognizes formats
// when detect is true. Format detection runs a regex per scalar, which adds
// up on very large documents.
func NewAnalyzerWithFormats(detect bool) *Analyzer {
	return &Analyzer{detectFormats: detect}
}

// Analyze walks every node reachable from the root
func (a *Analyzer) Analyze(t *tree.Tree) Stats {
	stats := Stats{Formats: make(map[Format]int)}

	t.Walk(func(_ int, n tree.Node) bool {
		stats.Nodes++
		if n.Depth > stats.MaxDepth {
			stats.MaxDepth = n.Depth
		}

		switch n.Value.Kind {
		case tree.KindObject:
			stats.Objects++
		case tree.KindArray:
			stats.Arrays++
		case tree.KindString:
			stats.Strings++
		case tree.KindNumber:
			stats.Numbers++
		case tree.KindBool:
			stats.Bools++
		case tree.KindNull:
			stats.Nulls++
		}

		// Empty containers count as leaves as well
		if len(n.Children) == 0 {
			stats.Leaves++
		}

		if a.detectFormats {
			if f := DetectFormat(n.Value); f != FormatNone {
				stats.Formats[f]++
			}
		}
		return true
	})

	return stats
}

// DetectFormat recognizes common formats of strings and numbers.
func DetectFormat(v tree.Value) Format {
	switch v.Kind {
	case tree.KindString:
		return detectString(v.Str)
	case tree.KindNumber:
		return detectNumber(v)
	default:
		return FormatNone
	}
}

func detectString(s string) Format {
	if uuidRegex.MatchString(s) {
		return FormatUUID
	}

	// Check for various time formats (ordered by specificity)
	if rfc3339Regex.MatchString(s) {
		return FormatRFC3339
	}
	if iso8601Regex.MatchString(s) {
		return FormatISO8601
	}
	if dateOnlyRegex.MatchString(s) {
		return FormatDate
	}
	if dateTimeRegex.MatchString(s) {
		return FormatDateTime
	}

	if urlRegex.MatchString(s) {
		return FormatURL
	}
	if emailRegex.MatchString(s) {
		return FormatEmail
	}
	return FormatNone
}

func detectNumber(v tree.Value) Format {
	text := v.Text()

	// Unix timestamps - common pattern in APIs
	if unixTimestampRegex.MatchString(text) {
		return FormatUnixTimestamp
	}
	if unixMilliRegex.MatchString(text) {
		return FormatUnixMilli
	}
	return FormatNone
}
