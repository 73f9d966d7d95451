// Package imagesrc turns the ways a user can supply a screenshot into a
// base64 payload the analyze endpoint accepts.
package imagesrc

import (
	"encoding/base64"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/h2non/filetype"

	"github.com/bryanwahyu/redflag-scanner/internal/domain/analysis"
)

// ErrNoImage means the source held nothing usable.
var ErrNoImage = errors.New("no image data found")

// Image is an acquired screenshot.
type Image struct {
	URI       string
	Base64    string
	MediaType string
}

// FromFile reads a picked or captured image from disk.
func FromFile(path string) (Image, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Image{}, fmt.Errorf("read image %s: %w", path, err)
	}
	return FromBytes(path, raw)
}

// FromBytes is FromFile for data already in memory.
func FromBytes(uri string, raw []byte) (Image, error) {
	if len(raw) == 0 {
		return Image{}, ErrNoImage
	}
	return Image{
		URI:       uri,
		Base64:    base64.StdEncoding.EncodeToString(raw),
		MediaType: sniffMediaType(raw),
	}, nil
}

// FromDataURI handles clipboard content, which arrives as
// "data:image/png;base64,<payload>". The payload is everything after the
// first comma; a string without a comma is taken as the payload itself.
func FromDataURI(s string) (Image, error) {
	s = strings.TrimSpace(s)
	prefix, payload, found := strings.Cut(s, ",")
	if !found {
		payload, prefix = s, ""
	}
	if payload == "" {
		return Image{}, ErrNoImage
	}
	return Image{
		URI:       s,
		Base64:    payload,
		MediaType: mediaTypeFromPrefix(prefix),
	}, nil
}

func mediaTypeFromPrefix(prefix string) string {
	rest, ok := strings.CutPrefix(prefix, "data:")
	if !ok {
		return analysis.DefaultMediaType
	}
	mt, _, _ := strings.Cut(rest, ";")
	if !strings.HasPrefix(mt, "image/") {
		return analysis.DefaultMediaType
	}
	return mt
}

func sniffMediaType(raw []byte) string {
	if !filetype.IsImage(raw) {
		return analysis.DefaultMediaType
	}
	kind, err := filetype.Match(raw)
	if err != nil || kind == filetype.Unknown {
		return analysis.DefaultMediaType
	}
	return kind.MIME.Value
}
