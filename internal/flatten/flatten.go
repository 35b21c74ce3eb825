package flatten

import (
	"github.com/mcncl/unfold/internal/formatter"
	"github.com/mcncl/unfold/internal/tree"
)

// Tree-line glyphs. Each is three cells wide so columns line up.
const (
	glyphBranch = "├─ "
	glyphLast   = "└─ "
	glyphPipe   = "│  "
	glyphBlank  = "   "
)

// Flatten projects the expanded part of the tree into display rows.
//
// The root itself is never a row; its children always are. Below that a
// node's children are visited only when the node is expanded, so the cost
// is proportional to what is visible rather than to the document size.
func Flatten(t *tree.Tree) []FlatRow {
	root, ok := t.RootNode()
	if !ok {
		return nil
	}

	f := &flattener{tree: t}
	f.children(root, "", "")
	return f.rows
}

type flattener struct {
	tree *tree.Tree
	rows []FlatRow
}

func (f *flattener) children(parent tree.Node, ancestorPrefix, parentPath string) {
	last := len(parent.Children) - 1
	for i, index := range parent.Children {
		n, ok := f.tree.Get(index)
		if !ok {
			continue
		}

		var path string
		if parent.Value.Kind == tree.KindArray {
			path = AppendIndex(parentPath, i)
		} else {
			path = AppendKey(parentPath, n.Key)
		}

		branch, column := glyphBranch, glyphPipe
		if i == last {
			branch, column = glyphLast, glyphBlank
		}

		f.rows = append(f.rows, FlatRow{
			NodeIndex:  index,
			Prefix:     ancestorPrefix + branch,
			Key:        n.Key,
			HasKey:     n.HasKey,
			Display:    display(n),
			Category:   category(n.Value.Kind),
			Expandable: n.IsContainer(),
			Expanded:   n.IsContainer() && n.Expanded,
			ChildCount: len(n.Children),
			Position:   len(f.rows),
			Path:       path,
		})

		if n.IsContainer() && n.Expanded {
			f.children(n, ancestorPrefix+column, path)
		}
	}
}

func display(n tree.Node) string {
	switch n.Value.Kind {
	case tree.KindString:
		return `"` + formatter.EscapeControl(n.Value.Str) + `"`
	case tree.KindArray:
		if n.Expanded {
			return ":"
		}
		return "[...]"
	case tree.KindObject:
		if n.Expanded {
			return ":"
		}
		return "{...}"
	default:
		return n.Value.Text()
	}
}

func category(k tree.Kind) Category {
	switch k {
	case tree.KindNull:
		return CategoryNull
	case tree.KindBool:
		return CategoryBool
	case tree.KindNumber:
		return CategoryNumber
	case tree.KindString:
		return CategoryString
	default:
		return CategoryBracket
	}
}
