package usecases

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/goccy/go-json"

	"starwars-api/apperror"
)

// maxLength matches the varchar(120) text columns.
const maxLength = 120

// Payload is a decoded JSON request body.
type Payload map[string]any

// Require checks that every field in fields is present with a non-empty
// value and returns the values as text. Missing fields are reported first,
// then the first value of the wrong type, then empty ones. Keys outside
// fields are ignored.
func (p Payload) Require(fields []string) (map[string]string, error) {
	if len(p) == 0 {
		return nil, apperror.NewBadRequestError("The request body is null", nil)
	}

	var missing, empty []string
	var invalid error
	values := make(map[string]string, len(fields))
	for _, f := range fields {
		raw, ok := p[f]
		if !ok {
			missing = append(missing, f)
			continue
		}
		v, isEmpty, err := text(f, raw)
		if err != nil {
			if invalid == nil {
				invalid = err
			}
			continue
		}
		if isEmpty {
			empty = append(empty, f)
			continue
		}
		values[f] = v
	}

	if len(missing) > 0 {
		return nil, apperror.NewMissingFieldsError(missing)
	}
	if invalid != nil {
		return nil, invalid
	}
	if len(empty) > 0 {
		return nil, apperror.NewEmptyValueError(empty)
	}
	return values, nil
}

// Changes checks an update payload: every key must name one of fields and
// carry a non-empty value. Unrecognized keys, "id" included, are reported
// together and nothing is returned for partial application.
func (p Payload) Changes(fields []string) (map[string]string, error) {
	if len(p) == 0 {
		return nil, apperror.NewBadRequestError("The request body is null", nil)
	}

	allowed := make(map[string]bool, len(fields))
	for _, f := range fields {
		allowed[f] = true
	}

	var invalid []string
	for k := range p {
		if !allowed[k] {
			invalid = append(invalid, k)
		}
	}
	if len(invalid) > 0 {
		sort.Strings(invalid)
		return nil, apperror.NewInvalidFieldNameError(invalid)
	}

	var empty []string
	values := make(map[string]string, len(p))
	for _, f := range fields {
		raw, ok := p[f]
		if !ok {
			continue
		}
		v, isEmpty, err := text(f, raw)
		if err != nil {
			return nil, err
		}
		if isEmpty {
			empty = append(empty, f)
			continue
		}
		values[f] = v
	}
	if len(empty) > 0 {
		return nil, apperror.NewEmptyValueError(empty)
	}
	return values, nil
}

// Bool reads an optional boolean field. ok is false when the key is absent.
func (p Payload) Bool(field string) (value, ok bool, err error) {
	raw, present := p[field]
	if !present {
		return false, false, nil
	}
	b, isBool := raw.(bool)
	if !isBool {
		return false, false, apperror.NewInvalidValueError(field, fmt.Sprintf("%s must be true or false", field))
	}
	return b, true, nil
}

// text converts a JSON value to its stored text. Numbers keep the literal
// they were sent with when decoded as json.Number. null and blank strings
// count as empty.
func text(field string, raw any) (value string, empty bool, err error) {
	switch v := raw.(type) {
	case nil:
		return "", true, nil
	case string:
		if utf8.RuneCountInString(v) > maxLength {
			return "", false, apperror.NewInvalidValueError(field, fmt.Sprintf("%s must be at most %d characters", field, maxLength))
		}
		return v, strings.TrimSpace(v) == "", nil
	case json.Number:
		return v.String(), false, nil
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), false, nil
	default:
		return "", false, apperror.NewInvalidValueError(field, fmt.Sprintf("%s must be a string or a number", field))
	}
}
