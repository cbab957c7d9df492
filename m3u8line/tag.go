package m3u8line

/*
 This file defines the uniform tag record: one generic type driven by a
 32-entry declarative schema table, instead of 32 hand-written structs.
 Pristine records hold only their raw payload and semi-parsed value;
 mutation re-derives raw on the next serialize instead of eagerly
 reformatting.
*/

import (
	"io"
	"strconv"
	"strings"
)

// tagSchema describes one built-in HLS tag's expected value shape and,
// for attribute-list-shaped tags, the attribute names required to be
// present.
type tagSchema struct {
	name     string
	shape    TagValueKind
	required []string
}

// tagTable is the 32-entry registry of built-in HLS tags, keyed by tag
// name (the bytes following the literal "#EXT" prefix).
var tagTable = map[string]tagSchema{
	"M3U":                       {name: "M3U", shape: ValueEmpty},
	"-X-VERSION":                {name: "-X-VERSION", shape: ValueDecimalIntegerRange},
	"INF":                       {name: "INF", shape: ValueFloatWithTitle},
	"-X-BYTERANGE":              {name: "-X-BYTERANGE", shape: ValueDecimalIntegerRange},
	"-X-DISCONTINUITY":          {name: "-X-DISCONTINUITY", shape: ValueEmpty},
	"-X-KEY":                    {name: "-X-KEY", shape: ValueAttributeList, required: []string{"METHOD"}},
	"-X-MAP":                    {name: "-X-MAP", shape: ValueAttributeList, required: []string{"URI"}},
	"-X-PROGRAM-DATE-TIME":      {name: "-X-PROGRAM-DATE-TIME", shape: ValueDateTimeMsec},
	"-X-GAP":                    {name: "-X-GAP", shape: ValueEmpty},
	"-X-BITRATE":                {name: "-X-BITRATE", shape: ValueDecimalIntegerRange},
	"-X-PART":                   {name: "-X-PART", shape: ValueAttributeList, required: []string{"URI", "DURATION"}},
	"-X-TARGETDURATION":         {name: "-X-TARGETDURATION", shape: ValueDecimalIntegerRange},
	"-X-MEDIA-SEQUENCE":         {name: "-X-MEDIA-SEQUENCE", shape: ValueDecimalIntegerRange},
	"-X-DISCONTINUITY-SEQUENCE": {name: "-X-DISCONTINUITY-SEQUENCE", shape: ValueDecimalIntegerRange},
	"-X-ENDLIST":                {name: "-X-ENDLIST", shape: ValueEmpty},
	"-X-PLAYLIST-TYPE":          {name: "-X-PLAYLIST-TYPE", shape: ValueTypeEnum},
	"-X-I-FRAMES-ONLY":          {name: "-X-I-FRAMES-ONLY", shape: ValueEmpty},
	"-X-PART-INF":               {name: "-X-PART-INF", shape: ValueAttributeList, required: []string{"PART-TARGET"}},
	"-X-SERVER-CONTROL":         {name: "-X-SERVER-CONTROL", shape: ValueAttributeList},
	"-X-MEDIA":                  {name: "-X-MEDIA", shape: ValueAttributeList, required: []string{"TYPE", "GROUP-ID", "NAME"}},
	"-X-STREAM-INF":             {name: "-X-STREAM-INF", shape: ValueAttributeList, required: []string{"BANDWIDTH"}},
	"-X-I-FRAME-STREAM-INF":     {name: "-X-I-FRAME-STREAM-INF", shape: ValueAttributeList, required: []string{"BANDWIDTH", "URI"}},
	"-X-SESSION-DATA":           {name: "-X-SESSION-DATA", shape: ValueAttributeList, required: []string{"DATA-ID"}},
	"-X-SESSION-KEY":            {name: "-X-SESSION-KEY", shape: ValueAttributeList, required: []string{"METHOD"}},
	"-X-CONTENT-STEERING":       {name: "-X-CONTENT-STEERING", shape: ValueAttributeList, required: []string{"SERVER-URI"}},
	"-X-INDEPENDENT-SEGMENTS":   {name: "-X-INDEPENDENT-SEGMENTS", shape: ValueEmpty},
	"-X-START":                  {name: "-X-START", shape: ValueAttributeList, required: []string{"TIME-OFFSET"}},
	"-X-DEFINE":                 {name: "-X-DEFINE", shape: ValueAttributeList},
	"-X-SKIP":                   {name: "-X-SKIP", shape: ValueAttributeList, required: []string{"SKIPPED-SEGMENTS"}},
	"-X-PRELOAD-HINT":           {name: "-X-PRELOAD-HINT", shape: ValueAttributeList, required: []string{"TYPE", "URI"}},
	"-X-RENDITION-REPORT":       {name: "-X-RENDITION-REPORT", shape: ValueAttributeList, required: []string{"URI"}},
	"-X-DATERANGE":              {name: "-X-DATERANGE", shape: ValueAttributeList, required: []string{"ID", "START-DATE"}},
}

// Tag is the uniform record for every built-in HLS tag (spec §4.4/§4.5):
// one type driven by tagTable instead of 32 hand-written structs. A
// freshly-decoded Tag is Pristine: raw holds the exact source bytes for
// the value and re-emits them verbatim on Serialize. Any Set* mutator
// flips it to Mutated, after which Serialize regenerates the payload
// from value instead of replaying raw.
type Tag struct {
	name    string
	value   TagValue
	raw     string // Pristine only: exact source bytes of the value (without leading ':')
	mutated bool
}

// Name returns the tag name, e.g. "-X-STREAM-INF".
func (t *Tag) Name() string { return t.name }

// Mutated reports whether any mutator has been called on this Tag since
// it was decoded.
func (t *Tag) Mutated() bool { return t.mutated }

// Value returns the current semi-parsed value.
func (t *Tag) Value() TagValue { return t.value }

func (t *Tag) mutate() {
	t.mutated = true
	t.raw = ""
}

// tryTagFrom validates a decoded TagValue against name's schema and
// constructs the Tag, or reports a ValidationError if the schema's
// shape or required-attribute contract is not met.
func tryTagFrom(name string, raw string, value TagValue) (*Tag, error) {
	schema, ok := tagTable[name]
	if !ok {
		return nil, &ValidationError{Name: name, Kind: ValidationUnexpectedTagName}
	}
	if value.Kind != schema.shape {
		return nil, &ValidationError{Name: name, Kind: ValidationUnexpectedValueType}
	}
	for _, field := range schema.required {
		if _, ok := value.Attrs.Get(field); !ok {
			return nil, &ValidationError{Name: name, Kind: ValidationMissingRequiredAttribute, Field: field}
		}
	}
	return &Tag{name: name, value: value, raw: raw}, nil
}

// Int returns the DecimalIntegerRange n component.
func (t *Tag) Int() (uint64, bool) {
	if t.value.Kind != ValueDecimalIntegerRange {
		return 0, false
	}
	return t.value.N, true
}

// ByteRange returns the DecimalIntegerRange n and optional o components.
func (t *Tag) ByteRange() (n uint64, o uint64, hasO bool, ok bool) {
	if t.value.Kind != ValueDecimalIntegerRange {
		return 0, 0, false, false
	}
	return t.value.N, t.value.O, t.value.HasO, true
}

// Float returns the FloatWithTitle numeric component.
func (t *Tag) Float() (float64, bool) {
	if t.value.Kind != ValueFloatWithTitle {
		return 0, false
	}
	return t.value.Float, true
}

// Title returns the FloatWithTitle optional title component.
func (t *Tag) Title() (string, bool) {
	if t.value.Kind != ValueFloatWithTitle || !t.value.HasTitle {
		return "", false
	}
	return t.value.Title, true
}

// Enum returns the TypeEnum literal ("EVENT" or "VOD").
func (t *Tag) Enum() (string, bool) {
	if t.value.Kind != ValueTypeEnum {
		return "", false
	}
	return t.value.Enum, true
}

// DateTime returns the structurally-validated date-time slice.
func (t *Tag) DateTime() (string, bool) {
	if t.value.Kind != ValueDateTimeMsec {
		return "", false
	}
	return t.value.DateTime, true
}

// Attr returns the raw AttributeValue for name on an attribute-list tag.
func (t *Tag) Attr(name string) (AttributeValue, bool) {
	if t.value.Kind != ValueAttributeList {
		return AttributeValue{}, false
	}
	return t.value.Attrs.Get(name)
}

// Entries returns the ordered attribute view of an attribute-list tag.
func (t *Tag) Entries() []AttributeEntry {
	if t.value.Kind != ValueAttributeList {
		return nil
	}
	return t.value.Attrs.Entries()
}

// AttrString returns name's value as the decoded quoted-string content,
// or the raw unquoted-string bytes, whichever shape it was decoded as.
func (t *Tag) AttrString(name string) (string, bool) {
	v, ok := t.Attr(name)
	if !ok {
		return "", false
	}
	switch v.Kind {
	case AttrQuoted:
		return v.Quoted, true
	case AttrUnquoted, AttrHex:
		return v.Raw, true
	}
	return "", false
}

// AttrInt returns name's value as a decimal-integer.
func (t *Tag) AttrInt(name string) (uint64, bool) {
	v, ok := t.Attr(name)
	if !ok || v.Kind != AttrInteger {
		return 0, false
	}
	return v.Int, true
}

// AttrFloat returns name's value as a decimal-floating-point or
// signed-decimal-floating-point.
func (t *Tag) AttrFloat(name string) (float64, bool) {
	v, ok := t.Attr(name)
	if !ok || (v.Kind != AttrFloat && v.Kind != AttrSignedFloat) {
		return 0, false
	}
	return v.Float, true
}

// AttrHex returns name's value as the raw hexadecimal-sequence text
// (0x/0X prefix included, case preserved).
func (t *Tag) AttrHex(name string) (string, bool) {
	v, ok := t.Attr(name)
	if !ok || v.Kind != AttrHex {
		return "", false
	}
	return v.Raw, true
}

// AttrResolution returns name's value as a width, height pair.
func (t *Tag) AttrResolution(name string) (width, height uint64, ok bool) {
	v, found := t.Attr(name)
	if !found || v.Kind != AttrResolution {
		return 0, 0, false
	}
	return v.Width, v.Height, true
}

// SetInt overwrites a DecimalIntegerRange-shaped tag's n component.
func (t *Tag) SetInt(n uint64) error {
	if t.value.Kind != ValueDecimalIntegerRange {
		return &ValidationError{Name: t.name, Kind: ValidationUnexpectedValueType}
	}
	t.value.N = n
	t.mutate()
	return nil
}

// SetByteRange overwrites a DecimalIntegerRange-shaped tag's n and
// optional o components.
func (t *Tag) SetByteRange(n uint64, o uint64, hasO bool) error {
	if t.value.Kind != ValueDecimalIntegerRange {
		return &ValidationError{Name: t.name, Kind: ValidationUnexpectedValueType}
	}
	t.value.N, t.value.O, t.value.HasO = n, o, hasO
	t.mutate()
	return nil
}

// SetFloatTitle overwrites a FloatWithTitle-shaped tag's numeric value
// and optional title.
func (t *Tag) SetFloatTitle(f float64, title string, hasTitle bool) error {
	if t.value.Kind != ValueFloatWithTitle {
		return &ValidationError{Name: t.name, Kind: ValidationUnexpectedValueType}
	}
	if f < 0 {
		return &ParseTagValueError{Kind: TagValueMalformedFloat, Value: strconv.FormatFloat(f, 'f', -1, 64), Err: strconv.ErrRange}
	}
	t.value.Float, t.value.Title, t.value.HasTitle = f, title, hasTitle
	t.mutate()
	return nil
}

// SetEnum overwrites a TypeEnum-shaped tag's literal, which must be
// "EVENT" or "VOD".
func (t *Tag) SetEnum(v string) error {
	if t.value.Kind != ValueTypeEnum {
		return &ValidationError{Name: t.name, Kind: ValidationUnexpectedValueType}
	}
	if v != "EVENT" && v != "VOD" {
		return &ParseTagValueError{Kind: TagValueMalformedEnum, Value: v}
	}
	t.value.Enum = v
	t.mutate()
	return nil
}

// SetDateTime overwrites a DateTimeMsec-shaped tag's raw slice, which
// must satisfy the same structural grammar ParseTagValue enforces.
func (t *Tag) SetDateTime(v string) error {
	if t.value.Kind != ValueDateTimeMsec {
		return &ValidationError{Name: t.name, Kind: ValidationUnexpectedValueType}
	}
	if !looksLikeDateTime(v) {
		return &ParseTagValueError{Kind: TagValueMalformedDateTime, Value: v}
	}
	if err := validateDateTime(v); err != nil {
		return &ParseTagValueError{Kind: TagValueMalformedDateTime, Value: v, Err: err}
	}
	t.value.DateTime = v
	t.mutate()
	return nil
}

// SetAttr overwrites (or inserts) name's value on an attribute-list-
// shaped tag.
func (t *Tag) SetAttr(name string, v AttributeValue) error {
	if t.value.Kind != ValueAttributeList {
		return &ValidationError{Name: t.name, Kind: ValidationUnexpectedValueType}
	}
	t.value.Attrs = t.value.Attrs.withSet(name, v)
	t.mutate()
	return nil
}

// Serialize writes the tag's full "#EXTname[:value]" line, without a
// trailing newline, to w. A Pristine tag replays its stored raw bytes
// unchanged; a Mutated tag regenerates the payload from its current
// value.
func (t *Tag) Serialize(w io.Writer) error {
	if _, err := io.WriteString(w, "#EXT"+t.name); err != nil {
		return err
	}
	if !t.mutated {
		if t.raw == "" && t.value.Kind == ValueEmpty {
			return nil
		}
		_, err := io.WriteString(w, ":"+t.raw)
		return err
	}
	payload := formatTagValue(t.value)
	if payload == "" && t.value.Kind == ValueEmpty {
		return nil
	}
	_, err := io.WriteString(w, ":"+payload)
	return err
}

// formatTagValue regenerates a tag-value payload from its semi-parsed
// form, the inverse of ParseTagValue for every TagValueKind a built-in
// schema can produce.
func formatTagValue(v TagValue) string {
	switch v.Kind {
	case ValueEmpty:
		return ""
	case ValueDecimalIntegerRange:
		if v.HasO {
			return strconv.FormatUint(v.N, 10) + "@" + strconv.FormatUint(v.O, 10)
		}
		return strconv.FormatUint(v.N, 10)
	case ValueTypeEnum:
		return v.Enum
	case ValueFloatWithTitle:
		s := strconv.FormatFloat(v.Float, 'f', -1, 64)
		if v.HasTitle {
			s += "," + v.Title
		}
		return s
	case ValueDateTimeMsec:
		return v.DateTime
	case ValueAttributeList:
		return formatAttributeList(v.Attrs)
	case ValueUnparsed:
		return v.Raw
	}
	return ""
}

func formatAttributeList(a AttributeList) string {
	var b strings.Builder
	for i, e := range a.Entries() {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(e.Name)
		b.WriteByte('=')
		b.WriteString(formatAttributeValue(e.Value))
	}
	return b.String()
}

func formatAttributeValue(v AttributeValue) string {
	switch v.Kind {
	case AttrQuoted:
		return `"` + v.Quoted + `"`
	case AttrHex, AttrUnquoted:
		return v.Raw
	case AttrInteger:
		return strconv.FormatUint(v.Int, 10)
	case AttrFloat, AttrSignedFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case AttrResolution:
		return strconv.FormatUint(v.Width, 10) + "x" + strconv.FormatUint(v.Height, 10)
	}
	return v.Raw
}

// CustomTag is implemented by user-registered tag types handled outside
// the built-in tagTable (spec §6).
type CustomTag interface {
	TagName() string
	Serialize(w io.Writer) error
}

// CustomTagHook lets a Reader recognize and construct application-
// specific tags that fall outside the built-in HLS tag set, grounded in
// the teacher's own CustomDecoder/CustomTag interfaces.
type CustomTagHook interface {
	IsKnownName(name string) bool
	TryFrom(name string, value TagValue) (CustomTag, error)
}

// CustomTagHandle wraps a hook-decoded CustomTag with the same
// Pristine/Mutated mutation tracking a built-in Tag gets: a freshly
// dispatched handle is Pristine and replays its exact source bytes on
// Serialize; it only flips to Mutated, and defers to the wrapped
// CustomTag's own Serialize, once a caller takes the mutable view via
// Mutable.
type CustomTagHandle struct {
	name     string
	raw      string // payload after ':', meaningless if !hasValue
	hasValue bool
	inner    CustomTag
	mutated  bool
}

// TagName returns the tag name, e.g. "-X-IMAGES-ONLY".
func (c *CustomTagHandle) TagName() string { return c.name }

// Mutated reports whether Mutable has been called on this handle.
func (c *CustomTagHandle) Mutated() bool { return c.mutated }

// Tag returns the decoded CustomTag for read-only inspection, without
// marking the line Mutated.
func (c *CustomTagHandle) Tag() CustomTag { return c.inner }

// Mutable returns the decoded CustomTag for in-place mutation through
// its own type-specific setters, and marks this line Mutated so
// Serialize regenerates it from the CustomTag instead of replaying the
// original bytes.
func (c *CustomTagHandle) Mutable() CustomTag {
	c.mutated = true
	return c.inner
}

// Serialize writes the tag's line verbatim from its original bytes when
// Pristine; once Mutated it defers entirely to the wrapped CustomTag's
// own Serialize, which is expected to emit the complete line including
// the "#EXT" name prefix.
func (c *CustomTagHandle) Serialize(w io.Writer) error {
	if c.mutated {
		return c.inner.Serialize(w)
	}
	if _, err := io.WriteString(w, "#EXT"+c.name); err != nil {
		return err
	}
	if !c.hasValue {
		return nil
	}
	_, err := io.WriteString(w, ":"+c.raw)
	return err
}
