package m3u8line

import (
	"testing"

	"github.com/matryer/is"
)

func TestParseAttributeListBasic(t *testing.T) {
	is := is.New(t)
	a, err := ParseAttributeList(`BANDWIDTH=1280000,CODECS="avc1.4d401f,mp4a.40.2",RESOLUTION=1920x1080`)
	is.NoErr(err)

	bw, ok := a.Get("BANDWIDTH")
	is.True(ok)
	is.Equal(bw.Kind, AttrInteger)
	is.Equal(bw.Int, uint64(1280000))

	codecs, ok := a.Get("CODECS")
	is.True(ok)
	is.Equal(codecs.Kind, AttrQuoted)
	is.Equal(codecs.Quoted, "avc1.4d401f,mp4a.40.2") // comma inside quotes is literal

	res, ok := a.Get("RESOLUTION")
	is.True(ok)
	is.Equal(res.Kind, AttrResolution)
	is.Equal(res.Width, uint64(1920))
	is.Equal(res.Height, uint64(1080))
}

func TestParseAttributeListEmptyQuotedString(t *testing.T) {
	is := is.New(t)
	a, err := ParseAttributeList(`TITLE=""`)
	is.NoErr(err) // an empty quoted-string is a valid value, not an error
	v, ok := a.Get("TITLE")
	is.True(ok)
	is.Equal(v.Quoted, "")
}

func TestParseAttributeListDuplicateKeysLastWins(t *testing.T) {
	is := is.New(t)
	a, err := ParseAttributeList("A=1,A=2")
	is.NoErr(err)

	v, ok := a.Get("A")
	is.True(ok)
	is.Equal(v.Int, uint64(2)) // keyed view is last-write-wins

	entries := a.Entries()
	is.Equal(len(entries), 2) // ordered view preserves both occurrences
	is.Equal(entries[0].Value.Int, uint64(1))
	is.Equal(entries[1].Value.Int, uint64(2))
}

func TestParseAttributeListHexSequence(t *testing.T) {
	is := is.New(t)
	a, err := ParseAttributeList("IV=0x9c7db8778570d05c3d")
	is.NoErr(err)
	v, ok := a.Get("IV")
	is.True(ok)
	is.Equal(v.Kind, AttrHex)
	is.Equal(v.Raw, "0x9c7db8778570d05c3d") // verbatim, case preserved
}

func TestParseAttributeListHexZeroDigitsRejected(t *testing.T) {
	is := is.New(t)
	_, err := ParseAttributeList("IV=0x")
	is.True(err != nil) // committing to hex shape with no digits is an error, not a fallback
}

func TestParseAttributeListSignedFloat(t *testing.T) {
	is := is.New(t)
	a, err := ParseAttributeList("TIME-OFFSET=-1.5")
	is.NoErr(err)
	v, ok := a.Get("TIME-OFFSET")
	is.True(ok)
	is.Equal(v.Kind, AttrSignedFloat)
	is.Equal(v.Float, -1.5)
}

func TestParseAttributeListUnquotedFallback(t *testing.T) {
	is := is.New(t)
	a, err := ParseAttributeList("TYPE=AUDIO")
	is.NoErr(err)
	v, ok := a.Get("TYPE")
	is.True(ok)
	is.Equal(v.Kind, AttrUnquoted)
	is.Equal(v.Raw, "AUDIO")
}

func TestParseAttributeListMissingEquals(t *testing.T) {
	is := is.New(t)
	_, err := ParseAttributeList("BANDWIDTH")
	is.True(err != nil)
}

func TestParseAttributeListUnterminatedQuote(t *testing.T) {
	is := is.New(t)
	_, err := ParseAttributeList(`URI="unterminated`)
	is.True(err != nil)
}

func TestParseAttributeListDirectCallForNonTagScenario(t *testing.T) {
	is := is.New(t)
	// #EXT-X-TILES is not one of the built-in tags, so ordering semantics
	// on its attribute list are exercised by calling ParseAttributeList
	// directly rather than through Reader.
	a, err := ParseAttributeList("RESOLUTION=512x288,LAYOUT=5x2,DURATION=3.003")
	is.NoErr(err)
	names := make([]string, 0, len(a.Entries()))
	for _, e := range a.Entries() {
		names = append(names, e.Name)
	}
	is.Equal(names, []string{"RESOLUTION", "LAYOUT", "DURATION"}) // source order preserved
}
