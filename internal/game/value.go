package game

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Unknown is how a value the source has not published renders as text.
const Unknown = "unknown"

var jsonNull = []byte("null")

// Score is a run count that may be unknown.
// The zero value is unknown.
type Score struct {
	value int
	known bool
}

// KnownScore returns a Score holding v
func KnownScore(v int) Score {
	return Score{value: v, known: true}
}

// UnknownScore returns the unknown Score
func UnknownScore() Score {
	return Score{}
}

// ParseScore converts cell text into a Score. Blank or non-numeric text
// (postponed games, "-" placeholders) yields an unknown score.
func ParseScore(text string) Score {
	text = strings.TrimSpace(text)
	if text == "" {
		return Score{}
	}
	v, err := strconv.Atoi(text)
	if err != nil || v < 0 {
		return Score{}
	}
	return KnownScore(v)
}

// Int returns the score and whether it is known
func (s Score) Int() (int, bool) {
	return s.value, s.known
}

// Known reports whether the score has been published
func (s Score) Known() bool {
	return s.known
}

func (s Score) String() string {
	if !s.known {
		return Unknown
	}
	return strconv.Itoa(s.value)
}

// MarshalJSON encodes an unknown score as null
func (s Score) MarshalJSON() ([]byte, error) {
	if !s.known {
		return jsonNull, nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON accepts a number or null
func (s *Score) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*s = Score{}
		return nil
	}
	var v int
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding score: %w", err)
	}
	*s = KnownScore(v)
	return nil
}

// Value writes an unknown score as SQL NULL
func (s Score) Value() (driver.Value, error) {
	if !s.known {
		return nil, nil
	}
	return int64(s.value), nil
}

// Scan reads a nullable integer column
func (s *Score) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*s = Score{}
	case int64:
		*s = KnownScore(int(v))
	case int32:
		*s = KnownScore(int(v))
	case []byte:
		*s = ParseScore(string(v))
	case string:
		*s = ParseScore(v)
	default:
		return fmt.Errorf("unsupported score type %T", src)
	}
	return nil
}

// Text is free text that may be unknown. Blank text is always unknown,
// so there is exactly one representation of an absent value.
type Text struct {
	value string
}

// ParseText trims s and returns unknown when nothing is left
func ParseText(s string) Text {
	return Text{value: strings.TrimSpace(s)}
}

// UnknownText returns the unknown Text
func UnknownText() Text {
	return Text{}
}

// Get returns the text and whether it is known
func (t Text) Get() (string, bool) {
	return t.value, t.value != ""
}

// Known reports whether the text is present
func (t Text) Known() bool {
	return t.value != ""
}

func (t Text) String() string {
	if t.value == "" {
		return Unknown
	}
	return t.value
}

// MarshalJSON encodes unknown text as null
func (t Text) MarshalJSON() ([]byte, error) {
	if t.value == "" {
		return jsonNull, nil
	}
	return json.Marshal(t.value)
}

// UnmarshalJSON accepts a string or null
func (t *Text) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), jsonNull) {
		*t = Text{}
		return nil
	}
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("decoding text: %w", err)
	}
	*t = ParseText(v)
	return nil
}

// Value writes unknown text as SQL NULL
func (t Text) Value() (driver.Value, error) {
	if t.value == "" {
		return nil, nil
	}
	return t.value, nil
}

// Scan reads a nullable text column
func (t *Text) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*t = Text{}
	case string:
		*t = ParseText(v)
	case []byte:
		*t = ParseText(string(v))
	default:
		return fmt.Errorf("unsupported text type %T", src)
	}
	return nil
}
