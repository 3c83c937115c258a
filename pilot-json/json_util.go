package pilot_json

import (
	"encoding/json"
	"errors"
)

type JsonFieldError struct {
	field     string
	valueType string
	found     bool
	parsed    bool
}

func NoFieldError(field string) *JsonFieldError {
	return &JsonFieldError{field, "", false, true}
}
func InvalidFieldError(field string, valueType string) *JsonFieldError {
	return &JsonFieldError{field, valueType, true, true}
}
func CouldNotParseError(field string) *JsonFieldError {
	return &JsonFieldError{field, "", false, false}
}
func (this *JsonFieldError) AddPath(field string) {
	this.field = field + "." + this.field
}

func (this *JsonFieldError) Field() string {
	return this.field
}

// Missing reports whether the field was absent rather than malformed.
func (this *JsonFieldError) Missing() bool {
	return !this.found && this.parsed
}

func (this *JsonFieldError) Error() string {
	if this.found {
		return "Field " + this.field + " is invalid. Expected " + this.valueType
	}
	if this.parsed {
		return "Field " + this.field + " is missing."
	}
	return "Invalid JSON received."
}

var errUnexpectedEnd = errors.New("unexpected end of JSON input")

// scanner walks raw JSON without decoding it. Values are returned as the
// byte ranges they occupy.
type scanner struct {
	data []byte
	i    int
}

func isJsonSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// isLiteralByte covers numbers, true, false and null.
func isLiteralByte(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '.' || c == '-' || c == '+'
}

func (s *scanner) skipSpace() {
	for s.i < len(s.data) && isJsonSpace(s.data[s.i]) {
		s.i++
	}
}

func (s *scanner) peek() (byte, bool) {
	s.skipSpace()
	if s.i >= len(s.data) {
		return 0, false
	}
	return s.data[s.i], true
}

func (s *scanner) expect(c byte) error {
	got, ok := s.peek()
	if !ok {
		return errUnexpectedEnd
	}
	if got != c {
		return errors.New("expected '" + string(c) + "', found '" + string(got) + "'")
	}
	s.i++
	return nil
}

func (s *scanner) str() ([]byte, error) {
	if err := s.expect('"'); err != nil {
		return nil, err
	}
	start := s.i - 1
	for s.i < len(s.data) {
		switch s.data[s.i] {
		case '\\':
			s.i += 2
			continue
		case '"':
			s.i++
			return s.data[start:s.i], nil
		}
		s.i++
	}
	return nil, errUnexpectedEnd
}

func (s *scanner) value() ([]byte, error) {
	c, ok := s.peek()
	if !ok {
		return nil, errUnexpectedEnd
	}
	switch c {
	case '"':
		return s.str()
	case '{', '[':
		return s.nested()
	}
	start := s.i
	for s.i < len(s.data) && isLiteralByte(s.data[s.i]) {
		s.i++
	}
	if s.i == start {
		return nil, errors.New("empty value")
	}
	return s.data[start:s.i], nil
}

func (s *scanner) nested() ([]byte, error) {
	start := s.i
	depth := 0
	quote := false
	for s.i < len(s.data) {
		c := s.data[s.i]
		switch {
		case quote && c == '\\':
			s.i++
		case c == '"':
			quote = !quote
		case !quote && (c == '{' || c == '['):
			depth++
		case !quote && (c == '}' || c == ']'):
			depth--
			if depth == 0 {
				s.i++
				return s.data[start:s.i], nil
			}
		}
		s.i++
	}
	return nil, errUnexpectedEnd
}

func unquote(raw []byte) (string, bool) {
	var out string
	if err := json.Unmarshal(raw, &out); err != nil {
		return "", false
	}
	return out, true
}
