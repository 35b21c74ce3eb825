package e2e_test

import (
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

// generateItems builds a reproducible array of records. Numbers are
// integers so serialized output can be compared byte for byte.
func generateItems(itemCount int) []map[string]interface{} {
	rng := rand.New(rand.NewSource(42))

	items := make([]map[string]interface{}, itemCount)
	for i := 0; i < itemCount; i++ {
		items[i] = map[string]interface{}{
			"id":          i + 1,
			"guid":        fmt.Sprintf("%08x-%04x-%04x-%04x-%012x", rng.Uint32(), rng.Uint32()&0xffff, rng.Uint32()&0xffff, rng.Uint32()&0xffff, rng.Int63()&0xffffffffffff),
			"name":        fmt.Sprintf("Item %d", i+1),
			"description": fmt.Sprintf("This is item number %d in the test dataset", i+1),
			"quantity":    rng.Intn(100),
			"active":      rng.Intn(2) == 1,
			"tags":        []string{"tag1", "tag2", "tag3"}[0 : rng.Intn(3)+1],
			"metadata": map[string]interface{}{
				"source":      "test",
				"priority":    rng.Intn(5) + 1,
				"processed":   rng.Intn(2) == 1,
				"retry_count": rng.Intn(5),
				"parent":      nil,
			},
		}
	}
	return items
}

// generateNested builds an object nested depth levels deep with width
// children per level.
func generateNested(depth, width int) map[string]interface{} {
	if depth <= 0 {
		return map[string]interface{}{
			"leaf_value": "data",
			"count":      depth + width,
			"enabled":    true,
		}
	}
	result := make(map[string]interface{}, width)
	for i := 0; i < width; i++ {
		result[fmt.Sprintf("nested_%d_%d", depth, i)] = generateNested(depth-1, width)
	}
	return result
}

func marshal(t testing.TB, v interface{}) []byte {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	return data
}

func writeJSON(t testing.TB, v interface{}) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, marshal(t, v), 0644))
	return path
}
