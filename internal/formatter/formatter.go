// Package formatter turns a node of the tree back into JSON text for the
// clipboard and for export.
package formatter

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-json"
	"github.com/iancoleman/strcase"

	"github.com/mcncl/unfold/internal/errors"
	"github.com/mcncl/unfold/internal/tree"
)

// Mode selects the JSON layout produced by Format.
type Mode string

const (
	// ModeRaw copies scalars without quotes and containers as spaced JSON.
	ModeRaw Mode = "raw"
	// ModeSpaced separates items with ", " and keys with ": " on one line.
	ModeSpaced Mode = "spaced"
	// ModeMinified uses no whitespace at all.
	ModeMinified Mode = "minified"
	// ModeIndented spreads containers over several lines.
	ModeIndented Mode = "formatted"
)

// DefaultIndent is used when a Formatter is created without one.
const DefaultIndent = "  "

// Formatter serializes nodes of a tree
type Formatter struct {
	Indent string
}

// NewFormatter creates a new Formatter instance
func NewFormatter() *Formatter {
	return &Formatter{Indent: DefaultIndent}
}

// Format serializes the subtree at index in the given mode
func (f *Formatter) Format(t *tree.Tree, index int, mode Mode) (string, error) {
	switch mode {
	case ModeRaw:
		return ValueForCopy(t, index), nil
	case ModeSpaced:
		return Spaced(t, index), nil
	case ModeMinified:
		return Minified(t, index), nil
	case ModeIndented:
		return Indented(t, index, f.Indent)
	default:
		return "", errors.NewExportError(fmt.Sprintf("unknown format %q", mode), nil)
	}
}

// Spaced serializes the subtree at index on a single line with ", " and ": "
// separators. An index that does not exist yields "".
func Spaced(t *tree.Tree, index int) string {
	var b strings.Builder
	write(&b, t, index, ", ", ": ")
	return b.String()
}

// Minified serializes the subtree at index without any whitespace.
func Minified(t *tree.Tree, index int) string {
	var b strings.Builder
	write(&b, t, index, ",", ":")
	return b.String()
}

// Indented serializes the subtree at index with one member per line.
func Indented(t *tree.Tree, index int, indent string) (string, error) {
	compact := Minified(t, index)
	if compact == "" {
		return "", nil
	}

	var buf bytes.Buffer
	if err := json.Indent(&buf, []byte(compact), "", indent); err != nil {
		return "", errors.NewExportError("failed to indent JSON", err)
	}
	return buf.String(), nil
}

// ValueForCopy returns what "copy value" puts on the clipboard: the bare
// text for scalars (strings without quotes) and spaced JSON for containers.
func ValueForCopy(t *tree.Tree, index int) string {
	n, ok := t.Get(index)
	if !ok {
		return ""
	}
	if n.IsContainer() {
		return Spaced(t, index)
	}
	return n.Value.Text()
}

func write(b *strings.Builder, t *tree.Tree, index int, itemSep, keySep string) {
	n, ok := t.Get(index)
	if !ok {
		return
	}

	switch n.Value.Kind {
	case tree.KindString:
		writeString(b, n.Value.Str)
	case tree.KindArray:
		b.WriteByte('[')
		for i, child := range n.Children {
			if i > 0 {
				b.WriteString(itemSep)
			}
			write(b, t, child, itemSep, keySep)
		}
		b.WriteByte(']')
	case tree.KindObject:
		b.WriteByte('{')
		first := true
		for _, child := range n.Children {
			c, ok := t.Get(child)
			if !ok {
				continue
			}
			if !first {
				b.WriteString(itemSep)
			}
			first = false
			writeString(b, c.Key)
			b.WriteString(keySep)
			write(b, t, child, itemSep, keySep)
		}
		b.WriteByte('}')
	default:
		// null, booleans and numbers are already valid JSON literals
		b.WriteString(n.Value.Text())
	}
}

const hex = "0123456789abcdef"

func writeString(b *strings.Builder, s string) {
	b.WriteByte('"')
	writeEscaped(b, s, true)
	b.WriteByte('"')
}

// EscapeControl replaces control characters with their JSON escapes and
// leaves quotes and backslashes alone, so the text stays on one line.
func EscapeControl(s string) string {
	if !hasControl(s) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 8)
	writeEscaped(&b, s, false)
	return b.String()
}

func hasControl(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < 0x20 {
			return true
		}
	}
	return false
}

func writeEscaped(b *strings.Builder, s string, quotes bool) {
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quotes && c == '\\':
			b.WriteString(`\\`)
		case quotes && c == '"':
			b.WriteString(`\"`)
		case c == '\n':
			b.WriteString(`\n`)
		case c == '\r':
			b.WriteString(`\r`)
		case c == '\t':
			b.WriteString(`\t`)
		case c < 0x20:
			b.WriteString(`\u00`)
			b.WriteByte(hex[c>>4])
			b.WriteByte(hex[c&0xf])
		default:
			b.WriteByte(c)
		}
	}
}

// SuggestFilename proposes an export file name for the node at path, e.g.
// "users[2].homeAddress" becomes "users_2_home_address.json".
func SuggestFilename(path string) string {
	// Brackets and quotes become word breaks before snake-casing
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case '[', ']', '"', '.', ' ', '/', '\\':
			return ' '
		}
		return r
	}, path)

	name := strcase.ToSnake(strings.Join(strings.Fields(cleaned), " "))
	if name == "" {
		name = "document"
	}
	return name + ".json"
}

// WriteFile writes content to path, creating parent directories as needed.
func WriteFile(path, content string) error {
	if strings.TrimSpace(path) == "" {
		return errors.NewExportError("export path is empty", errors.ErrInvalidFilePath)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewExportError(fmt.Sprintf("failed to create directory %s", dir), err)
		}
	}

	// Exports end with a newline like any other text file
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errors.NewExportError(fmt.Sprintf("failed to write %s", path), err)
	}
	return nil
}
