package b2bi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
)

const (
	envelopeResult = "result"
	envelopeRow    = "row"
)

var emptyArray = json.RawMessage("[]")

// NormalizeWS strips the result/row envelope the WS gateway produces when it
// transcodes <result><row>...</row></result> to JSON.
//
// Tolerated inputs:
//   - no envelope (object without "result"), returned unchanged;
//   - a top-level array, returned unchanged;
//   - a single row given as an object rather than a one-element array;
//   - an empty result ("row" absent, null or "") which yields [] for
//     ShapeArray and ErrNoRows for ShapeObject.
//
// Anything else is a normalization error.
func NormalizeWS(body []byte, shape Shape) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return emptyResult(shape)
	}

	if !json.Valid(trimmed) {
		return nil, NormalizationError(ErrMalformedJSON)
	}

	switch trimmed[0] {
	case '[':
		return normalizeRows(trimmed, shape)
	case '{':
	default:
		return nil, NormalizationError(fmt.Errorf("%w: top-level %s", ErrUnexpectedEnvelope, jsonKind(trimmed)))
	}

	var top map[string]json.RawMessage

	err := json.Unmarshal(trimmed, &top)
	if err != nil {
		return nil, NormalizationError(err)
	}

	result, ok := top[envelopeResult]
	if !ok || len(top) != 1 {
		// Not an envelope: already normalized.
		return trimmed, nil
	}

	return normalizeResult(bytes.TrimSpace(result), shape)
}

func normalizeResult(result []byte, shape Shape) (json.RawMessage, error) {
	if isEmptyValue(result) {
		return emptyResult(shape)
	}

	switch result[0] {
	case '[':
		return normalizeRows(result, shape)
	case '{':
	default:
		return nil, NormalizationError(fmt.Errorf("%w: result is %s", ErrUnexpectedEnvelope, jsonKind(result)))
	}

	var inner map[string]json.RawMessage

	err := json.Unmarshal(result, &inner)
	if err != nil {
		return nil, NormalizationError(err)
	}

	row, ok := inner[envelopeRow]
	if !ok {
		return emptyResult(shape)
	}

	row = bytes.TrimSpace(row)
	if isEmptyValue(row) {
		return emptyResult(shape)
	}

	switch row[0] {
	case '[':
		return normalizeRows(row, shape)
	case '{':
		if shape == ShapeArray {
			return wrapArray(row), nil
		}

		return row, nil
	default:
		return nil, NormalizationError(fmt.Errorf("%w: row is %s", ErrUnexpectedEnvelope, jsonKind(row)))
	}
}

// normalizeRows handles a JSON array of rows.
func normalizeRows(rows []byte, shape Shape) (json.RawMessage, error) {
	if shape == ShapeArray {
		return rows, nil
	}

	var items []json.RawMessage

	err := json.Unmarshal(rows, &items)
	if err != nil {
		return nil, NormalizationError(err)
	}

	switch len(items) {
	case 0:
		return nil, ErrNoRows
	case 1:
		return bytes.TrimSpace(items[0]), nil
	default:
		return nil, NormalizationError(fmt.Errorf("%w: %d rows", ErrMultipleRows, len(items)))
	}
}

func emptyResult(shape Shape) (json.RawMessage, error) {
	if shape == ShapeArray {
		return emptyArray, nil
	}

	return nil, ErrNoRows
}

func isEmptyValue(value []byte) bool {
	return len(value) == 0 || bytes.Equal(value, []byte("null")) || bytes.Equal(value, []byte(`""`))
}

func wrapArray(item []byte) json.RawMessage {
	out := make([]byte, 0, len(item)+2)
	out = append(out, '[')
	out = append(out, item...)
	out = append(out, ']')

	return out
}

func jsonKind(value []byte) string {
	switch value[0] {
	case '"':
		return "a string"
	case 't', 'f':
		return "a boolean"
	case 'n':
		return "null"
	default:
		return "a number"
	}
}

// NormalizeREST passes REST bodies through unchanged, except that a 400/404
// with a non-JSON body is replaced by a synthesized
// {"errorCode":...,"errorDescription":...} object so error handling is the
// same for both backends.
func NormalizeREST(status int, body []byte) json.RawMessage {
	if status != http.StatusBadRequest && status != http.StatusNotFound {
		return body
	}

	if json.Valid(body) {
		return body
	}

	description := string(bytes.TrimSpace(body))
	if description == "" {
		description = StatusDescription(status)
	}

	synthesized, err := json.Marshal(&Error{Code: status, Description: description})
	if err != nil {
		return body
	}

	return synthesized
}
