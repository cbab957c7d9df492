package m3u8line

/*
 This file defines the attribute-list tokenizer: a single pass over a
 comma-separated AttributeName=AttributeValue payload that produces both
 a keyed (last-write-wins) view and an ordered (duplicates preserved)
 view, per spec §4.3.
*/

import (
	"strconv"
	"strings"
)

// AttributeValueKind names the primitive shape of one attribute's value.
type AttributeValueKind int

const (
	AttrInteger AttributeValueKind = iota
	AttrHex
	AttrFloat
	AttrSignedFloat
	AttrQuoted
	AttrUnquoted
	AttrResolution
)

func (k AttributeValueKind) String() string {
	switch k {
	case AttrInteger:
		return "decimal-integer"
	case AttrHex:
		return "hexadecimal-sequence"
	case AttrFloat:
		return "decimal-floating-point"
	case AttrSignedFloat:
		return "signed-decimal-floating-point"
	case AttrQuoted:
		return "quoted-string"
	case AttrUnquoted:
		return "unquoted-string"
	case AttrResolution:
		return "decimal-resolution"
	}
	return "unknown"
}

// AttributeValue is the attribute-value sum type of spec §3.
type AttributeValue struct {
	Kind AttributeValueKind

	Raw string // verbatim slice: used for Hex (keeps 0x/0X case) and Unquoted

	Int    uint64 // AttrInteger
	Float  float64 // AttrFloat, AttrSignedFloat
	Quoted string // AttrQuoted: inner slice, without surrounding quotes
	Width  uint64 // AttrResolution
	Height uint64 // AttrResolution
}

// AttributeEntry is one (name, value) pair as it appeared in the source.
type AttributeEntry struct {
	Name  string
	Value AttributeValue
}

// AttributeList holds both synchronized views of spec §3's attribute
// list: a keyed mapping (last-write-wins) and the ordered sequence both
// views derive from in a single tokenization pass.
type AttributeList struct {
	entries []AttributeEntry
	index   map[string]int
}

// Get returns the last occurrence of name (the keyed view).
func (a AttributeList) Get(name string) (AttributeValue, bool) {
	i, ok := a.index[name]
	if !ok {
		return AttributeValue{}, false
	}
	return a.entries[i].Value, true
}

// Entries returns the ordered view, duplicates included, in source order.
func (a AttributeList) Entries() []AttributeEntry {
	return a.entries
}

// Len returns the number of distinct attribute names in the keyed view.
func (a AttributeList) Len() int {
	return len(a.index)
}

func (a AttributeList) withSet(name string, v AttributeValue) AttributeList {
	if i, ok := a.index[name]; ok {
		entries := append([]AttributeEntry(nil), a.entries...)
		entries[i].Value = v
		return AttributeList{entries: entries, index: a.index}
	}
	entries := append(append([]AttributeEntry(nil), a.entries...), AttributeEntry{Name: name, Value: v})
	index := make(map[string]int, len(a.index)+1)
	for k, v := range a.index {
		index[k] = v
	}
	index[name] = len(entries) - 1
	return AttributeList{entries: entries, index: index}
}

// ParseAttributeList tokenizes raw into the dual-view AttributeList of
// spec §4.3. Commas inside a quoted-string value are literal, not
// delimiters. An attribute-list with no '=' at all is a parse error, as
// is a malformed token (missing '=', unterminated quote).
func ParseAttributeList(raw string) (AttributeList, error) {
	entries := make([]AttributeEntry, 0, strings.Count(raw, "=")+1)
	index := make(map[string]int, cap(entries))
	if raw == "" {
		return AttributeList{}, &ParseAttributeValueError{Offset: 0, Value: raw, Err: errEmptyAttrName}
	}

	i := 0
	for i < len(raw) {
		nameStart := i
		for i < len(raw) && isNameByte(raw[i]) {
			i++
		}
		if i == nameStart {
			return AttributeList{}, &ParseAttributeValueError{Offset: nameStart, Value: raw[nameStart:], Err: errEmptyAttrName}
		}
		name := raw[nameStart:i]
		if i >= len(raw) || raw[i] != '=' {
			return AttributeList{}, &ParseAttributeValueError{Offset: nameStart, Value: name, Err: errMissingEquals}
		}
		i++ // consume '='

		value, next, err := parseAttributeValue(name, raw, i)
		if err != nil {
			return AttributeList{}, err
		}
		i = next

		entries = append(entries, AttributeEntry{Name: name, Value: value})
		index[name] = len(entries) - 1 // last-write-wins: always repoint to the newest occurrence

		if i < len(raw) {
			if raw[i] != ',' {
				return AttributeList{}, &ParseAttributeValueError{Offset: i, Value: raw[i:], Err: errExpectedComma}
			}
			i++
		}
	}
	return AttributeList{entries: entries, index: index}, nil
}

// parseAttributeValue parses one AttributeValue starting at offset start
// in raw and returns the value plus the offset immediately after it
// (pointing at a ',' or at len(raw)).
func parseAttributeValue(name, raw string, start int) (AttributeValue, int, error) {
	if start < len(raw) && raw[start] == '"' {
		for j := start + 1; j < len(raw); j++ {
			switch raw[j] {
			case '"':
				return AttributeValue{Kind: AttrQuoted, Raw: raw[start : j+1], Quoted: raw[start+1 : j]}, j + 1, nil
			case '\n', '\r':
				return AttributeValue{}, 0, &ParseAttributeValueError{Name: name, Kind: AttrKindQuotedString, Offset: start, Value: raw[start:], Err: errEmbeddedControl}
			}
		}
		return AttributeValue{}, 0, &ParseAttributeValueError{Name: name, Kind: AttrKindQuotedString, Offset: start, Value: raw[start:], Err: errUnterminatedQuote}
	}

	end := start
	for end < len(raw) && raw[end] != ',' {
		end++
	}
	token := raw[start:end]
	v, err := classifyAttributeValue(name, token, start)
	return v, end, err
}

func classifyAttributeValue(name, raw string, offset int) (AttributeValue, error) {
	switch {
	case strings.HasPrefix(raw, "0x") || strings.HasPrefix(raw, "0X"):
		hex := raw[2:]
		if len(hex) == 0 || !isHexDigitRun(hex) {
			return AttributeValue{}, &ParseAttributeValueError{Name: name, Kind: AttrKindHexadecimalSequence, Value: raw, Offset: offset, Err: errNoHexDigits}
		}
		return AttributeValue{Kind: AttrHex, Raw: raw}, nil
	case isDecimalResolution(raw):
		w, h := splitResolution(raw)
		return AttributeValue{Kind: AttrResolution, Raw: raw, Width: w, Height: h}, nil
	case isDigitRun(raw):
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return AttributeValue{}, &ParseAttributeValueError{Name: name, Kind: AttrKindDecimalInteger, Value: raw, Offset: offset, Err: err}
		}
		return AttributeValue{Kind: AttrInteger, Raw: raw, Int: n}, nil
	case isSignedFloat(raw):
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return AttributeValue{}, &ParseAttributeValueError{Name: name, Kind: AttrKindSignedDecimalFloatingPoint, Value: raw, Offset: offset, Err: err}
		}
		return AttributeValue{Kind: AttrSignedFloat, Raw: raw, Float: f}, nil
	case isUnsignedFloat(raw):
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return AttributeValue{}, &ParseAttributeValueError{Name: name, Kind: AttrKindDecimalFloatingPoint, Value: raw, Offset: offset, Err: err}
		}
		return AttributeValue{Kind: AttrFloat, Raw: raw, Float: f}, nil
	default:
		return AttributeValue{Kind: AttrUnquoted, Raw: raw}, nil
	}
}

func isHexDigitRun(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')) {
			return false
		}
	}
	return true
}

func isDecimalResolution(s string) bool {
	w, h := splitResolution(s)
	return w != 0 || h != 0 // splitResolution only returns non-zero widths/heights on a structural match
}

// splitResolution reports the parsed width/height if s matches
// 1*20DIGIT "x" 1*20DIGIT, or (0, 0) otherwise. A resolution of "0x0" is
// not representable by this probe, but is not a meaningful resolution.
func splitResolution(s string) (uint64, uint64) {
	x := strings.IndexByte(s, 'x')
	if x <= 0 || x == len(s)-1 {
		return 0, 0
	}
	left, right := s[:x], s[x+1:]
	if !isDigitRun(left) || !isDigitRun(right) {
		return 0, 0
	}
	w, err := strconv.ParseUint(left, 10, 64)
	if err != nil {
		return 0, 0
	}
	h, err := strconv.ParseUint(right, 10, 64)
	if err != nil {
		return 0, 0
	}
	if w == 0 && h == 0 {
		return 0, 0
	}
	return w, h
}

func isSignedFloat(s string) bool {
	return strings.HasPrefix(s, "-") && isUnsignedFloat(s[1:])
}

func isUnsignedFloat(s string) bool {
	dot := strings.IndexByte(s, '.')
	if dot <= 0 || dot == len(s)-1 {
		return false
	}
	return isDigitRun(s[:dot]) && isAllDigits(s[dot+1:])
}

func isAllDigits(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// isNameByte reports whether b is valid in a tag name or attribute name:
// [A-Z0-9-].
func isNameByte(b byte) bool {
	return (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9') || b == '-'
}
