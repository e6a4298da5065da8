package tm

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// collection is the OData v2 list envelope: {"d": {"results": [...]}}.
// Rows stay raw so one malformed row cannot fail the whole feed.
type collection struct {
	D struct {
		Results []json.RawMessage `json:"results"`
	} `json:"d"`
}

// RowError reports a feed row that could not be decoded.
type RowError struct {
	Index int
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Index, e.Err)
}

// decodeResults decodes every row of the collection on its own. Rows that
// cannot be decoded are returned as RowErrors; only a broken envelope fails.
func decodeResults[T any](body []byte) ([]T, []RowError, error) {
	var env collection
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, nil, fmt.Errorf("decode odata collection: %w", err)
	}

	rows := make([]T, 0, len(env.D.Results))
	var bad []RowError
	for i, raw := range env.D.Results {
		row, err := decodeRow[T](raw)
		if err != nil {
			bad = append(bad, RowError{Index: i, Err: err})
			continue
		}
		rows = append(rows, row)
	}
	return rows, bad, nil
}

// decodeRow decodes one row. TM releases differ in whether scalars are sent
// as strings or numbers, so on a type mismatch every non-string value bound
// to a string field is replaced by its JSON text and decoding is retried.
func decodeRow[T any](raw json.RawMessage) (T, error) {
	var row T
	err := decodeNumbers(raw, &row)
	if err == nil {
		return row, nil
	}
	var typeErr *json.UnmarshalTypeError
	if !errors.As(err, &typeErr) {
		return row, err
	}

	coerced, cerr := coerceTextFields(raw, reflect.TypeOf(row))
	if cerr != nil {
		return row, err
	}
	var retry T
	if err := decodeNumbers(coerced, &retry); err != nil {
		return retry, err
	}
	return retry, nil
}

func decodeNumbers(raw []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(v)
}

// coerceTextFields rewrites numbers, booleans, arrays and objects bound to
// string fields of typ as JSON strings holding their literal text.
func coerceTextFields(raw json.RawMessage, typ reflect.Type) (json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	text := textFields(typ)
	for key, value := range fields {
		v := bytes.TrimSpace(value)
		if len(v) == 0 || v[0] == '"' || string(v) == "null" || !text[strings.ToLower(key)] {
			continue
		}
		quoted, err := json.Marshal(string(v))
		if err != nil {
			return nil, err
		}
		fields[key] = quoted
	}
	return json.Marshal(fields)
}

// textFields returns the lower-cased json names of the string fields of typ.
func textFields(typ reflect.Type) map[string]bool {
	names := map[string]bool{}
	if typ.Kind() != reflect.Struct {
		return names
	}
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if f.Type.Kind() != reflect.String {
			continue
		}
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" {
			name = f.Name
		}
		names[strings.ToLower(name)] = true
	}
	return names
}

// unwrap strips the {"d": ...} envelope of a single-entity response.
// Bodies without a d member are returned as they are.
func unwrap(body []byte) json.RawMessage {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil
	}
	var env map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &env); err != nil {
		return json.RawMessage(trimmed)
	}
	if d, ok := env["d"]; ok && string(d) != "null" {
		return d
	}
	return json.RawMessage(trimmed)
}
