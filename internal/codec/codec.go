// Package codec reads request envelopes off the wire and writes response
// envelopes back.
package codec

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Envelope is a decoded request before any field is type-checked. Each field
// holds a raw JSON node: map[string]any, []any, string, json.Number, bool or
// nil. Absent keys are nil.
type Envelope struct {
	Method   any
	Resource any
	Body     any
}

// ParseError reports bytes that are not a JSON object.
type ParseError struct {
	Offset int64
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed envelope at byte %d: %v", e.Offset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

var errNotObject = errors.New("envelope must be a JSON object")

// Decode parses one request envelope.
func Decode(data []byte) (*Envelope, error) {
	node, err := DecodeValue(data)
	if err != nil {
		return nil, err
	}

	object, ok := node.(map[string]any)
	if !ok {
		return nil, &ParseError{Err: errNotObject}
	}

	return &Envelope{
		Method:   object["method"],
		Resource: object["resource"],
		Body:     object["body"],
	}, nil
}

// DecodeValue parses a single JSON value, keeping numbers as json.Number.
// Trailing NUL bytes and whitespace are ignored; anything else after the
// value is an error.
func DecodeValue(data []byte) (any, error) {
	data = bytes.TrimRight(data, "\x00")

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var node any
	if err := dec.Decode(&node); err != nil {
		return nil, &ParseError{Offset: dec.InputOffset(), Err: err}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err == nil {
			err = errors.New("unexpected data after envelope")
		}
		return nil, &ParseError{Offset: dec.InputOffset(), Err: err}
	}
	return node, nil
}

// Encode serializes a response envelope.
func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to encode response: %w", err)
	}
	return data, nil
}
