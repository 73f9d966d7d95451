package imagesrc

import (
	"encoding/base64"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// smallest valid PNG header plus IHDR chunk, enough for content sniffing
var pngBytes = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00")

func TestFromDataURI(t *testing.T) {
	cases := []struct {
		in        string
		payload   string
		mediaType string
	}{
		{"data:image/png;base64,iVBORw0KGgo=", "iVBORw0KGgo=", "image/png"},
		{"data:image/webp;base64,UklGRg==", "UklGRg==", "image/webp"},
		{"  data:image/gif;base64,R0lGOD==\n", "R0lGOD==", "image/gif"},
		{"/9j/4AAQSkZJRg==", "/9j/4AAQSkZJRg==", "image/jpeg"},
		{"data:text/plain;base64,aGk=", "aGk=", "image/jpeg"},
	}
	for _, tc := range cases {
		img, err := FromDataURI(tc.in)
		if err != nil {
			t.Errorf("%q: %v", tc.in, err)
			continue
		}
		if img.Base64 != tc.payload || img.MediaType != tc.mediaType {
			t.Errorf("%q: got payload=%q media type=%q", tc.in, img.Base64, img.MediaType)
		}
	}
}

func TestFromDataURIEmpty(t *testing.T) {
	for _, in := range []string{"", "   ", "data:image/png;base64,"} {
		if _, err := FromDataURI(in); !errors.Is(err, ErrNoImage) {
			t.Errorf("%q: err = %v, want ErrNoImage", in, err)
		}
	}
}

func TestFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shot.png")
	if err := os.WriteFile(path, pngBytes, 0o600); err != nil {
		t.Fatal(err)
	}

	img, err := FromFile(path)
	if err != nil {
		t.Fatalf("FromFile: %v", err)
	}
	if img.MediaType != "image/png" {
		t.Errorf("media type = %q", img.MediaType)
	}
	if img.URI != path {
		t.Errorf("uri = %q", img.URI)
	}
	raw, err := base64.StdEncoding.DecodeString(img.Base64)
	if err != nil || string(raw) != string(pngBytes) {
		t.Errorf("payload does not round trip: %v", err)
	}
}

func TestFromFileErrors(t *testing.T) {
	if _, err := FromFile(filepath.Join(t.TempDir(), "missing.png")); err == nil {
		t.Error("expected error for missing file")
	}

	empty := filepath.Join(t.TempDir(), "empty.png")
	if err := os.WriteFile(empty, nil, 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := FromFile(empty); !errors.Is(err, ErrNoImage) {
		t.Errorf("err = %v, want ErrNoImage", err)
	}
}

func TestFromBytesUnknownTypeFallsBack(t *testing.T) {
	img, err := FromBytes("memory", []byte("plain text, not an image"))
	if err != nil {
		t.Fatal(err)
	}
	if img.MediaType != "image/jpeg" {
		t.Errorf("media type = %q", img.MediaType)
	}
}
