/* Package m3u8line implements streaming, lossless parsing and serialization
of HLS M3U8 playlists (draft-pantos-hls-rfc8216bis-17).

Unlike a library that decodes an entire playlist into a fixed struct tree,
m3u8line exposes a line-at-a-time [Reader]: each call to ReadLine returns
one [Line], classified as blank, comment, URI, an unrecognized "#EXT..."
tag, or a known HLS tag promoted into a typed [Tag] record. Known-tag
records are views over the input buffer until mutated (the Set* family,
e.g. [Tag.SetFloatTitle]); a line that is never touched is written back
byte-for-byte by [Writer.WriteLine] with no re-formatting and no
allocation.

# Structure and design of the code

The reader is a cursor-driven scanner ([Reader.ReadLine]) with no internal
buffering beyond the input slice it was constructed from. Tag values are
parsed lazily into one of seven "semi-parsed" shapes ([TagValue]); the 32
built-in HLS tags are a single generic record type ([Tag]) driven by a
declarative per-tag schema, not 32 bespoke struct types, since a known
tag's shape is already fully described by its semi-parsed value plus
(for attribute-list tags) which attribute names are required.

Callers that need to recognize additional "#EXT..." tags register a
[CustomTagHook]; names it doesn't claim fall through to [KindUnknownTag]
and round-trip losslessly regardless.

	r := m3u8line.NewReader(playlist, m3u8line.DefaultOptions(), nil)
	for {
		line, err := r.ReadLine()
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}
		if line.Kind == m3u8line.KindKnownTagHLS && line.Tag.Name() == "INF" {
			f, _ := line.Tag.Float()
			line.Tag.SetFloatTitle(f, "ad-break", true)
		}
		w.WriteLine(line)
	}

Library coded against the ABNF in
https://datatracker.ietf.org/doc/html/draft-pantos-hls-rfc8216bis-17

[rfc8216bis-17]: https://datatracker.ietf.org/doc/html/draft-pantos-hls-rfc8216bis-17
*/
package m3u8line
