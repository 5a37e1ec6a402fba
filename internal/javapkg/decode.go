package javapkg

import (
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Decoder converts raw source bytes to text or reports that it cannot.
type Decoder struct {
	Name   string
	Decode func([]byte) (string, error)
}

// DefaultDecoders are tried in order: UTF-8, then Windows-1252.
var DefaultDecoders = []Decoder{
	{Name: "utf-8", Decode: decodeUTF8},
	{Name: "windows-1252", Decode: decodeWindows1252},
}

// Decode returns the text produced by the first decoder that accepts data.
func Decode(data []byte, decoders []Decoder) (string, error) {
	for _, d := range decoders {
		if s, err := d.Decode(data); err == nil {
			return s, nil
		}
	}
	return "", fmt.Errorf("%w: no decoder accepted %q", ErrDecode, truncate(data, 40))
}

func decodeUTF8(data []byte) (string, error) {
	if !utf8.Valid(data) {
		return "", fmt.Errorf("invalid utf-8")
	}
	return string(data), nil
}

// decodeWindows1252 rejects the five bytes Windows-1252 leaves undefined, which the
// charmap decoder would otherwise pass through as C1 controls.
func decodeWindows1252(data []byte) (string, error) {
	out, err := charmap.Windows1252.NewDecoder().Bytes(data)
	if err != nil {
		return "", err
	}
	for _, r := range string(out) {
		if r == utf8.RuneError || (r >= 0x80 && r <= 0x9f) {
			return "", fmt.Errorf("undefined windows-1252 byte")
		}
	}
	return string(out), nil
}

func truncate(b []byte, n int) []byte {
	if len(b) <= n {
		return b
	}
	return b[:n]
}
