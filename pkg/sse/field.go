package sse

import (
	"bytes"
	"unicode/utf8"
)

// FieldName is the result of mapping a raw field-name byte slice onto the
// fields the event-stream format recognizes. Anything that doesn't
// byte-exactly match one of event/data/id/retry - including any casing
// variant - is FieldIgnored.
type FieldName int

const (
	FieldIgnored FieldName = iota
	FieldEvent
	FieldData
	FieldID
	FieldRetry
)

func lookupFieldName(name []byte) FieldName {
	switch {
	case bytes.Equal(name, fieldNameData):
		return FieldData
	case bytes.Equal(name, fieldNameEvent):
		return FieldEvent
	case bytes.Equal(name, fieldNameID):
		return FieldID
	case bytes.Equal(name, fieldNameRetry):
		return FieldRetry
	default:
		return FieldIgnored
	}
}

// validatedLineKind mirrors rawLineKind after UTF-8 validation has been
// applied to any field value.
type validatedLineKind int

const (
	validatedEmpty validatedLineKind = iota
	validatedComment
	validatedField
)

// validatedLine is a tokenizer line whose field value (if any) has been
// confirmed to be valid UTF-8. hasValue distinguishes "data" (no value)
// from "data:" (empty value) the same way rawLine does.
type validatedLine struct {
	kind     validatedLineKind
	name     FieldName
	value    string
	hasValue bool
}

// validateUTF8 checks that b is valid UTF-8 and returns it as a string
// with no copy beyond the one the string() conversion itself performs.
// On failure it reports the byte offset of the first invalid byte via
// unicode/utf8.DecodeRune, which already walks the buffer doing exactly
// this classification - there is no streaming or chunk-boundary concern
// at this layer (the value is a single already-complete field value), so
// reaching for golang.org/x/text's chunked Transformer here would add
// API surface without buying anything; stdlib is the right tool.
func validateUTF8(b []byte) (string, error) {
	if utf8.Valid(b) {
		return string(b), nil
	}

	pos := 0
	for pos < len(b) {
		r, size := utf8.DecodeRune(b[pos:])
		if r == utf8.RuneError && size <= 1 {
			return "", &UTF8Error{Pos: pos}
		}
		pos += size
	}
	// utf8.Valid said invalid but we walked it all validly: unreachable
	// in practice, but fall back to reporting the end of the buffer
	// rather than panicking.
	return "", &UTF8Error{Pos: len(b)}
}

// validate turns a rawLine into a validatedLine, UTF-8 checking the field
// value if present. Empty and Comment lines always succeed.
func (l rawLine) validate() (validatedLine, error) {
	switch l.kind {
	case rawLineEmpty:
		return validatedLine{kind: validatedEmpty}, nil
	case rawLineComment:
		return validatedLine{kind: validatedComment}, nil
	default:
		name := lookupFieldName(l.fieldName)
		if !l.hasValue {
			return validatedLine{kind: validatedField, name: name, hasValue: false}, nil
		}
		value, err := validateUTF8(l.fieldValue)
		if err != nil {
			return validatedLine{}, err
		}
		return validatedLine{kind: validatedField, name: name, value: value, hasValue: true}, nil
	}
}
