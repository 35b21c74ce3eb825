package navigation

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcncl/unfold/internal/errors"
	"github.com/mcncl/unfold/internal/flatten"
	"github.com/mcncl/unfold/internal/tree"
)

// Segment is one step of an accessor path: an array index or an object key.
type Segment struct {
	Key     string
	Index   int
	IsIndex bool
}

func (s Segment) String() string {
	if s.IsIndex {
		return "[" + strconv.Itoa(s.Index) + "]"
	}
	return s.Key
}

// ParsePath splits an accessor such as users[2].email or ["a.b"][0] into
// segments. It accepts everything the flattener produces in FlatRow.Path,
// plus a leading dot.
func ParsePath(path string) ([]Segment, error) {
	var segments []Segment
	rest := strings.TrimSpace(path)
	first := true

	for rest != "" {
		switch {
		case rest[0] == '[':
			seg, n, err := parseBracket(rest)
			if err != nil {
				return nil, invalidPath(path, err.Error())
			}
			segments = append(segments, seg)
			rest = rest[n:]
		case rest[0] == '.' || first:
			if rest[0] == '.' {
				rest = rest[1:]
			}
			end := strings.IndexAny(rest, ".[")
			if end < 0 {
				end = len(rest)
			}
			key := rest[:end]
			if !flatten.IsIdentifier(key) {
				return nil, invalidPath(path, fmt.Sprintf("%q is not a plain key; use [\"...\"]", key))
			}
			segments = append(segments, Segment{Key: key})
			rest = rest[end:]
		default:
			return nil, invalidPath(path, fmt.Sprintf("unexpected %q", rest[0]))
		}
		first = false
	}
	return segments, nil
}

func parseBracket(s string) (Segment, int, error) {
	if len(s) > 1 && s[1] == '"' {
		quoted, err := strconv.QuotedPrefix(s[1:])
		if err != nil {
			return Segment{}, 0, fmt.Errorf("unterminated quoted key")
		}
		end := 1 + len(quoted)
		if end >= len(s) || s[end] != ']' {
			return Segment{}, 0, fmt.Errorf("missing ] after quoted key")
		}
		key, err := strconv.Unquote(quoted)
		if err != nil {
			return Segment{}, 0, err
		}
		return Segment{Key: key}, end + 1, nil
	}

	end := strings.IndexByte(s, ']')
	if end < 0 {
		return Segment{}, 0, fmt.Errorf("missing ]")
	}
	index, err := strconv.Atoi(s[1:end])
	if err != nil || index < 0 {
		return Segment{}, 0, fmt.Errorf("%q is not an array index", s[1:end])
	}
	return Segment{Index: index, IsIndex: true}, end + 1, nil
}

func invalidPath(path, reason string) error {
	return errors.NewNavigationError(fmt.Sprintf("cannot parse path %q: %s", path, reason), errors.ErrInvalidPath)
}

// Resolve walks path from the root and returns the node it names. Object
// keys resolve to the first member with that name. An empty path is the root.
func Resolve(t *tree.Tree, path string) (int, error) {
	segments, err := ParsePath(path)
	if err != nil {
		return 0, err
	}

	current := t.Root()
	n, ok := t.Get(current)
	if !ok {
		return 0, notFound(path, "document is empty")
	}

	for _, seg := range segments {
		next, ok := step(t, n, seg)
		if !ok {
			return 0, notFound(path, "no element "+seg.String())
		}
		current = next
		n, _ = t.Get(current)
	}
	return current, nil
}

func step(t *tree.Tree, n tree.Node, seg Segment) (int, bool) {
	if seg.IsIndex {
		if n.Value.Kind != tree.KindArray || seg.Index >= len(n.Children) {
			return 0, false
		}
		return n.Children[seg.Index], true
	}
	if n.Value.Kind != tree.KindObject {
		return 0, false
	}
	for _, child := range n.Children {
		if c, ok := t.Get(child); ok && c.Key == seg.Key {
			return child, true
		}
	}
	return 0, false
}

func notFound(path, reason string) error {
	return errors.NewNavigationError(fmt.Sprintf("path %q: %s", path, reason), errors.ErrNodeNotFound)
}

// Keys renders segments as a buger/jsonparser key path, where array
// indices are written as "[i]".
func Keys(segments []Segment) []string {
	keys := make([]string, len(segments))
	for i, seg := range segments {
		if seg.IsIndex {
			keys[i] = "[" + strconv.Itoa(seg.Index) + "]"
		} else {
			keys[i] = seg.Key
		}
	}
	return keys
}
