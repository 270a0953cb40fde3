package upload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"
	"strings"
)

// jsonIndent is the indentation of the rendered response.
const jsonIndent = "  "

// maxArrayIndex bounds the object keys that are ordered as array indices.
const maxArrayIndex = math.MaxUint32 - 1

var (
	errTrailingData  = errors.New("unexpected data after top-level value")
	errUnexpectedEnd = errors.New("unexpected end of JSON input")
)

// jsonObject is a decoded object with its member order.
// A repeated key keeps its first position and takes the last value.
type jsonObject struct {
	keys   []string
	values map[string]any
}

func (o *jsonObject) set(key string, value any) {
	if _, ok := o.values[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.values[key] = value
}

// orderedKeys returns array-index keys in ascending numeric order,
// followed by the other keys in insertion order.
func (o *jsonObject) orderedKeys() []string {
	var indices, names []string
	for _, k := range o.keys {
		if _, ok := arrayIndex(k); ok {
			indices = append(indices, k)
		} else {
			names = append(names, k)
		}
	}
	sort.Slice(indices, func(i, j int) bool {
		a, _ := arrayIndex(indices[i])
		b, _ := arrayIndex(indices[j])
		return a < b
	})
	return append(indices, names...)
}

// arrayIndex reports whether key is a canonical array index ("0", "17",
// not "01" or "-1").
func arrayIndex(key string) (uint64, bool) {
	if key == "" || (len(key) > 1 && key[0] == '0') {
		return 0, false
	}
	n, err := strconv.ParseUint(key, 10, 32)
	if err != nil || n > maxArrayIndex {
		return 0, false
	}
	return n, true
}

// PrettyJSON parses a JSON document and serializes it again with two
// spaces per level, the way a browser page renders a fetched reply:
// numbers are written in their shortest form, string escapes are decoded
// and a repeated object key keeps only its last value.
func PrettyJSON(raw []byte) (string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	v, err := decodeValue(dec)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errTrailingData
		}
		return "", fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}

	var sb strings.Builder
	if err := writeValue(&sb, v, ""); err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidJSON, err)
	}
	return sb.String(), nil
}

func decodeValue(dec *json.Decoder) (any, error) {
	tok, err := nextToken(dec)
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeObject(dec)
		case '[':
			return decodeArray(dec)
		}
		return nil, fmt.Errorf("unexpected %q", rune(t))
	default:
		return t, nil
	}
}

func decodeObject(dec *json.Decoder) (*jsonObject, error) {
	obj := &jsonObject{values: make(map[string]any)}
	for dec.More() {
		tok, err := nextToken(dec)
		if err != nil {
			return nil, err
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("object key is %T, not a string", tok)
		}
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		obj.set(key, v)
	}
	if _, err := nextToken(dec); err != nil {
		return nil, err
	}
	return obj, nil
}

func decodeArray(dec *json.Decoder) ([]any, error) {
	arr := make([]any, 0)
	for dec.More() {
		v, err := decodeValue(dec)
		if err != nil {
			return nil, err
		}
		arr = append(arr, v)
	}
	if _, err := nextToken(dec); err != nil {
		return nil, err
	}
	return arr, nil
}

// nextToken is dec.Token with end of input reported as truncation.
func nextToken(dec *json.Decoder) (json.Token, error) {
	tok, err := dec.Token()
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return nil, errUnexpectedEnd
	}
	return tok, err
}

func writeValue(sb *strings.Builder, v any, indent string) error {
	switch t := v.(type) {
	case nil:
		sb.WriteString("null")
	case bool:
		sb.WriteString(strconv.FormatBool(t))
	case string:
		writeString(sb, t)
	case json.Number:
		s, err := formatNumber(t)
		if err != nil {
			return err
		}
		sb.WriteString(s)
	case []any:
		if len(t) == 0 {
			sb.WriteString("[]")
			return nil
		}
		inner := indent + jsonIndent
		sb.WriteString("[\n")
		for i, e := range t {
			if i > 0 {
				sb.WriteString(",\n")
			}
			sb.WriteString(inner)
			if err := writeValue(sb, e, inner); err != nil {
				return err
			}
		}
		sb.WriteString("\n" + indent + "]")
	case *jsonObject:
		if len(t.keys) == 0 {
			sb.WriteString("{}")
			return nil
		}
		inner := indent + jsonIndent
		sb.WriteString("{\n")
		for i, k := range t.orderedKeys() {
			if i > 0 {
				sb.WriteString(",\n")
			}
			sb.WriteString(inner)
			writeString(sb, k)
			sb.WriteString(": ")
			if err := writeValue(sb, t.values[k], inner); err != nil {
				return err
			}
		}
		sb.WriteString("\n" + indent + "}")
	default:
		return fmt.Errorf("unsupported JSON value %T", v)
	}
	return nil
}

// writeString quotes s escaping only quotes, backslashes and control
// characters.
func writeString(sb *strings.Builder, s string) {
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\b':
			sb.WriteString(`\b`)
		case '\f':
			sb.WriteString(`\f`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
}

// formatNumber writes n as a double in the shortest round-trip form,
// switching to exponent notation below 1e-6 and from 1e21 on.
// Values beyond the double range become null.
func formatNumber(n json.Number) (string, error) {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		if math.IsInf(f, 0) {
			return "null", nil
		}
		return "", err
	}
	if f == 0 {
		return "0", nil
	}

	sign := ""
	if f < 0 {
		sign = "-"
		f = -f
	}

	mantissa, exponent, _ := strings.Cut(strconv.FormatFloat(f, 'e', -1, 64), "e")
	digits := strings.Replace(mantissa, ".", "", 1)
	exp, err := strconv.Atoi(exponent)
	if err != nil {
		return "", err
	}

	k := len(digits)
	point := exp + 1
	switch {
	case k <= point && point <= 21:
		return sign + digits + strings.Repeat("0", point-k), nil
	case 0 < point && point <= 21:
		return sign + digits[:point] + "." + digits[point:], nil
	case -6 < point && point <= 0:
		return sign + "0." + strings.Repeat("0", -point) + digits, nil
	}

	e := point - 1
	expSign := "+"
	if e < 0 {
		expSign = "-"
		e = -e
	}
	m := digits[:1]
	if k > 1 {
		m += "." + digits[1:]
	}
	return sign + m + "e" + expSign + strconv.Itoa(e), nil
}
