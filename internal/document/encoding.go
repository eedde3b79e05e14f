package document

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// DefaultEncoding is used when none is given.
const DefaultEncoding = "utf-8"

// ErrUnknownEncoding is returned for encoding labels that are not in the
// WHATWG encoding index.
var ErrUnknownEncoding = errors.New("unknown encoding")

// lookupEncoding resolves a label such as "latin1" or "UTF-8" and returns
// the encoding with its canonical name.
func lookupEncoding(label string) (encoding.Encoding, string, error) {
	if strings.TrimSpace(label) == "" {
		label = DefaultEncoding
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, "", fmt.Errorf("%q: %w", label, ErrUnknownEncoding)
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		name = strings.ToLower(label)
	}
	return enc, name, nil
}

// Decode converts data in the labelled encoding to a UTF-8 string.
func Decode(data []byte, label string) (string, error) {
	enc, _, err := lookupEncoding(label)
	if err != nil {
		return "", err
	}
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", fmt.Errorf("decode %s: %w", label, err)
	}
	return string(out), nil
}

// Encode converts s to the labelled encoding. Characters the encoding
// cannot represent are an error.
func Encode(s, label string) ([]byte, error) {
	enc, _, err := lookupEncoding(label)
	if err != nil {
		return nil, err
	}
	out, err := enc.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", label, err)
	}
	return out, nil
}
