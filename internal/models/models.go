package models

// JSONValue is a generic type to represent any JSON value.
// Scalars are nil, bool, float64 or string; containers are JSONArray or JSONObject.
type JSONValue interface{}

// JSONMember is a single key/value pair of an object.
type JSONMember struct {
	Key   string
	Value JSONValue
}

// JSONObject represents a JSON object. Members keep their document order,
// which a map cannot do.
type JSONObject []JSONMember

// JSONArray represents a JSON array, which is a slice of JSONValues.
type JSONArray []JSONValue

// Get returns the value of the first member named key.
func (o JSONObject) Get(key string) (JSONValue, bool) {
	for _, m := range o {
		if m.Key == key {
			return m.Value, true
		}
	}
	return nil, false
}

// Keys returns the member names in document order.
func (o JSONObject) Keys() []string {
	keys := make([]string, len(o))
	for i, m := range o {
		keys[i] = m.Key
	}
	return keys
}

// Document holds one parsed JSON document and where it came from.
type Document struct {
	Root        JSONValue
	RootIsArray bool   // True if the root of the JSON is an array vs an object
	Source      string // File path, or empty for stdin / in-memory input
	Size        int    // Size of the raw input in bytes
}
