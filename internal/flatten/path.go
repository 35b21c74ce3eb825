package flatten

import "strconv"

// AppendIndex extends an accessor path with an array index.
func AppendIndex(parent string, index int) string {
	return parent + "[" + strconv.Itoa(index) + "]"
}

// AppendKey extends an accessor path with an object member. Plain
// identifiers use dot notation; anything else is written as ["key"].
func AppendKey(parent, key string) string {
	if !IsIdentifier(key) {
		return parent + "[" + strconv.Quote(key) + "]"
	}
	if parent == "" {
		return key
	}
	return parent + "." + key
}

// IsIdentifier reports whether key can be written with dot notation.
func IsIdentifier(key string) bool {
	if key == "" {
		return false
	}
	for i, r := range key {
		switch {
		case r == '_' || r == '$':
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9' && i > 0:
		default:
			return false
		}
	}
	return true
}
