package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidBody is returned when a raw body is not a JSON object.
var ErrInvalidBody = errors.New("invalid request body")

type bodyKind int

const (
	bodyAbsent bodyKind = iota
	bodyRaw
	bodyParsed
)

// Body is the request payload as it arrived: absent, raw JSON text, or an
// already-decoded mapping.
type Body struct {
	kind   bodyKind
	raw    string
	parsed map[string]any
}

// NoBody returns an absent body.
func NoBody() Body {
	return Body{kind: bodyAbsent}
}

// RawBody returns a body carrying unparsed JSON text.
func RawBody(s string) Body {
	return Body{kind: bodyRaw, raw: s}
}

// ParsedBody returns a body that is already a mapping.
func ParsedBody(m map[string]any) Body {
	return Body{kind: bodyParsed, parsed: m}
}

// Fields resolves the body into a single mapping. An absent or empty body
// is an empty mapping; raw text must be a JSON object.
func (b Body) Fields() (map[string]any, error) {
	switch b.kind {
	case bodyParsed:
		if b.parsed == nil {
			return map[string]any{}, nil
		}
		return b.parsed, nil
	case bodyRaw:
		if strings.TrimSpace(b.raw) == "" {
			return map[string]any{}, nil
		}
		var fields map[string]any
		if err := json.Unmarshal([]byte(b.raw), &fields); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
		}
		if fields == nil {
			return nil, fmt.Errorf("%w: not a JSON object", ErrInvalidBody)
		}
		return fields, nil
	default:
		return map[string]any{}, nil
	}
}
