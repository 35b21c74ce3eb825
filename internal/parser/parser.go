package parser

import (
	stderrors "errors" // Standard errors package
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/buger/jsonparser"
	gojson "github.com/goccy/go-json"

	"github.com/mcncl/unfold/internal/errors" // Custom errors package
	"github.com/mcncl/unfold/internal/models"
)

// Parse reads all JSON data from an io.Reader into a Document
func Parse(reader io.Reader) (models.Document, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return models.Document{}, errors.NewInputError("failed to read input", err)
	}
	return ParseBytes(data, "")
}

// ParseBytes parses a single JSON document. source is only used to label errors.
func ParseBytes(data []byte, source string) (models.Document, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return models.Document{}, errors.NewParsingError("input is empty or contains only whitespace", errors.ErrEmptyInput)
	}

	// jsonparser is lenient, so reject malformed input up front and use the
	// decoder's error only to locate the problem.
	if !gojson.Valid(data) {
		return models.Document{}, errors.NewParsingError("failed to decode JSON", locateSyntaxError(data, source))
	}

	value, dataType, _, err := jsonparser.Get(data)
	if err != nil {
		return models.Document{}, errors.NewParsingError("failed to decode JSON", locateDecodeError(data, source, err))
	}

	root, err := decodeValue(value, dataType)
	if err != nil {
		return models.Document{}, errors.NewParsingError("failed to decode JSON", locateDecodeError(data, source, err))
	}

	doc := models.Document{
		Root:   root,
		Source: source,
		Size:   len(data),
	}
	if _, ok := root.(models.JSONArray); ok {
		doc.RootIsArray = true
	}
	return doc, nil
}

// locateSyntaxError re-decodes invalid input to find the offending offset.
func locateSyntaxError(data []byte, source string) error {
	var v interface{}
	err := gojson.Unmarshal(data, &v)
	if err == nil {
		// Valid rejected what Unmarshal accepted, most likely trailing values.
		return errors.NewParseErrorAt("multiple JSON values found at the root", data, len(data), source)
	}

	var syntaxErr *gojson.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return errors.NewParseErrorAt(syntaxErr.Error(), data, int(syntaxErr.Offset), source)
	}
	return errors.NewParseErrorAt(err.Error(), data, len(data), source)
}

// locateDecodeError reports input that is valid JSON but cannot be decoded
// into text. The only known case is a \u escape holding half of a UTF-16
// surrogate pair.
func locateDecodeError(data []byte, source string, err error) error {
	if offset := loneSurrogateOffset(data); offset >= 0 {
		return errors.NewParseErrorAt("invalid \\u escape: unpaired UTF-16 surrogate", data, offset, source)
	}
	return errors.NewParseErrorAt("cannot decode value: "+err.Error(), data, 0, source)
}

// loneSurrogateOffset returns the offset of the first \u escape that is an
// unpaired surrogate, or -1. data must already be valid JSON, so every
// backslash starts an escape inside a string.
func loneSurrogateOffset(data []byte) int {
	for i := 0; i < len(data); i++ {
		if data[i] != '\\' {
			continue
		}
		code, ok := unicodeEscape(data, i)
		if !ok {
			i++ // skip the escaped byte
			continue
		}
		switch {
		case code >= 0xD800 && code <= 0xDBFF:
			low, ok := unicodeEscape(data, i+6)
			if !ok || low < 0xDC00 || low > 0xDFFF {
				return i
			}
			i += 11
		case code >= 0xDC00 && code <= 0xDFFF:
			return i
		default:
			i += 5
		}
	}
	return -1
}

// unicodeEscape decodes the \uXXXX escape starting at data[i].
func unicodeEscape(data []byte, i int) (uint64, bool) {
	if i+6 > len(data) || data[i] != '\\' || data[i+1] != 'u' {
		return 0, false
	}
	code, err := strconv.ParseUint(string(data[i+2:i+6]), 16, 32)
	if err != nil {
		return 0, false
	}
	return code, true
}

// decodeValue converts one raw value from jsonparser into model types,
// keeping object members in document order.
func decodeValue(raw []byte, dataType jsonparser.ValueType) (models.JSONValue, error) {
	switch dataType {
	case jsonparser.Null:
		return nil, nil
	case jsonparser.Boolean:
		return jsonparser.ParseBoolean(raw)
	case jsonparser.Number:
		return jsonparser.ParseFloat(raw)
	case jsonparser.String:
		return jsonparser.ParseString(raw)
	case jsonparser.Array:
		arr := models.JSONArray{}
		var inner error
		_, err := jsonparser.ArrayEach(raw, func(value []byte, dt jsonparser.ValueType, _ int, cbErr error) {
			if inner != nil {
				return
			}
			if cbErr != nil {
				inner = cbErr
				return
			}
			item, err := decodeValue(value, dt)
			if err != nil {
				inner = err
				return
			}
			arr = append(arr, item)
		})
		if err != nil {
			return nil, err
		}
		if inner != nil {
			return nil, inner
		}
		return arr, nil
	case jsonparser.Object:
		obj := models.JSONObject{}
		// ObjectEach hands over keys already unescaped
		err := jsonparser.ObjectEach(raw, func(key []byte, value []byte, dt jsonparser.ValueType, _ int) error {
			member, err := decodeValue(value, dt)
			if err != nil {
				return err
			}
			obj = append(obj, models.JSONMember{Key: string(key), Value: member})
			return nil
		})
		if err != nil {
			return nil, err
		}
		return obj, nil
	default:
		return nil, fmt.Errorf("unexpected value type %s", dataType)
	}
}

// ParseString parses JSON from a string
func ParseString(jsonString string) (models.Document, error) {
	if strings.TrimSpace(jsonString) == "" {
		return models.Document{}, errors.NewInputError("input string is empty", errors.ErrEmptyInput)
	}
	return ParseBytes([]byte(jsonString), "")
}

// ParseFile parses JSON from a file path
func ParseFile(filePath string) (models.Document, error) {
	if strings.TrimSpace(filePath) == "" {
		return models.Document{}, errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}

	stat, err := os.Stat(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return models.Document{}, errors.NewInputError(
				fmt.Sprintf("file '%s' not found", filePath),
				errors.ErrFileNotFound,
			)
		}
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to get file stats for '%s'", filePath),
			err,
		)
	}
	if stat.IsDir() {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("'%s' is a directory", filePath),
			errors.ErrInvalidFilePath,
		)
	}
	if stat.Size() == 0 {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("input file '%s' is empty", filePath),
			errors.ErrFileEmpty,
		)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return models.Document{}, errors.NewInputError(
			fmt.Sprintf("failed to open file '%s'", filePath),
			err,
		)
	}

	return ParseBytes(data, filePath)
}
