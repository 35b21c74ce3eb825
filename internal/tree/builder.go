package tree

import "github.com/mcncl/unfold/internal/models"

// Build converts a parsed document value into a tree. Every container starts
// collapsed so opening a large document does not materialize it.
//
// Nodes are numbered in document pre-order: a parent's index is reserved
// before its children are built. Ascending index order is therefore the
// top-to-bottom order a reader sees.
func Build(value models.JSONValue) *Tree {
	t := New()
	root := buildNode(t, "", false, value, 0)
	t.SetRoot(root)
	return t
}

func buildNode(t *Tree, key string, hasKey bool, value models.JSONValue, depth int) int {
	index := t.Add(Node{
		Key:    key,
		HasKey: hasKey,
		Value:  valueOf(value),
		Depth:  depth,
	})

	var children []int
	switch v := value.(type) {
	case models.JSONArray:
		children = make([]int, 0, len(v))
		for _, item := range v {
			children = append(children, buildNode(t, "", false, item, depth+1))
		}
	case models.JSONObject:
		children = make([]int, 0, len(v))
		for _, member := range v {
			children = append(children, buildNode(t, member.Key, true, member.Value, depth+1))
		}
	}

	// t.nodes may have been reallocated while building children.
	t.nodes[index].Children = children
	return index
}

func valueOf(value models.JSONValue) Value {
	switch v := value.(type) {
	case nil:
		return Null()
	case bool:
		return Bool(v)
	case float64:
		return Number(v)
	case int:
		return Number(float64(v))
	case string:
		return String(v)
	case models.JSONArray:
		return Array()
	case models.JSONObject:
		return Object()
	default:
		return Null()
	}
}
