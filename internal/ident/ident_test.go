package ident

import (
	"bytes"
	"errors"
	"io"
	"regexp"
	"testing"
)

var hexID = regexp.MustCompile(`^[0-9a-f]{16}$`)

func TestNew_Format(t *testing.T) {
	for i := 0; i < 100; i++ {
		id, err := New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if !hexID.MatchString(id) {
			t.Fatalf("id %q is not 16 lowercase hex chars", id)
		}
	}
}

func TestNew_NoCollisions(t *testing.T) {
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		id, err := New()
		if err != nil {
			t.Fatalf("New: %v", err)
		}
		if _, dup := seen[id]; dup {
			t.Fatalf("duplicate id %q after %d draws", id, i)
		}
		seen[id] = struct{}{}
	}
}

func TestGenerator_DeterministicSource(t *testing.T) {
	g := Generator{Source: bytes.NewReader([]byte{0xde, 0xad, 0xbe, 0xef, 0x00, 0x01, 0x02, 0x03})}
	id, err := g.New()
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if id != "deadbeef00010203" {
		t.Errorf("got %q", id)
	}
}

func TestGenerator_ShortSource(t *testing.T) {
	g := Generator{Source: bytes.NewReader([]byte{1, 2, 3})}
	_, err := g.New()
	if !errors.Is(err, ErrEntropy) {
		t.Fatalf("want ErrEntropy, got %v", err)
	}
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestGenerator_BrokenSource(t *testing.T) {
	_, err := Generator{Source: brokenReader{}}.New()
	if !errors.Is(err, ErrEntropy) {
		t.Fatalf("want ErrEntropy, got %v", err)
	}
}
