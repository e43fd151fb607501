package protocol

import (
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// Name field bounds within a 98/99 payload.
const (
	nameStart = 2
	nameEnd   = 20
)

// Supported team name charsets.
const (
	CharsetUTF8        = "utf-8"
	CharsetISO88591    = "iso-8859-1"
	CharsetWindows1252 = "windows-1252"
)

// NameDecoder turns raw name bytes into text, dropping bytes it cannot decode.
type NameDecoder struct {
	charset string
	enc     encoding.Encoding
}

// NewNameDecoder returns a decoder for the named charset. An empty name means UTF-8.
func NewNameDecoder(charset string) (NameDecoder, error) {
	switch strings.ToLower(strings.TrimSpace(charset)) {
	case "", CharsetUTF8, "utf8":
		return NameDecoder{charset: CharsetUTF8}, nil
	case CharsetISO88591, "latin1", "latin-1":
		return NameDecoder{charset: CharsetISO88591, enc: charmap.ISO8859_1}, nil
	case CharsetWindows1252, "cp1252":
		return NameDecoder{charset: CharsetWindows1252, enc: charmap.Windows1252}, nil
	default:
		return NameDecoder{charset: CharsetUTF8}, fmt.Errorf("protocol: unsupported name charset %q", charset)
	}
}

// Charset reports the canonical charset name.
func (d NameDecoder) Charset() string {
	if d.charset == "" {
		return CharsetUTF8
	}
	return d.charset
}

// Decode converts raw bytes to a trimmed name.
func (d NameDecoder) Decode(raw []byte) string {
	if d.enc == nil {
		return strings.TrimSpace(dropInvalidUTF8(raw))
	}
	out, err := d.enc.NewDecoder().Bytes(raw)
	if err != nil {
		return strings.TrimSpace(dropInvalidUTF8(raw))
	}
	return strings.TrimSpace(string(out))
}

func dropInvalidUTF8(raw []byte) string {
	return strings.ToValidUTF8(string(raw), "")
}

func nameBytes(payload []byte) []byte {
	if len(payload) <= nameStart {
		return nil
	}
	end := nameEnd
	if end > len(payload) {
		end = len(payload)
	}
	return payload[nameStart:end]
}
