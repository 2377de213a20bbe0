// Package ident generates the short random tokens that identify files and
// stages in a report.
package ident

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
)

// Size is the number of random bytes behind every identifier.
const Size = 8

// ErrEntropy is returned when the random source cannot deliver Size bytes.
var ErrEntropy = errors.New("entropy source unavailable")

// Generator reads identifiers from an entropy source.
type Generator struct {
	Source io.Reader
}

// New returns a fresh identifier from crypto/rand.
func New() (string, error) {
	return Generator{}.New()
}

// New returns Size random bytes rendered as lowercase hex.
func (g Generator) New() (string, error) {
	src := g.Source
	if src == nil {
		src = rand.Reader
	}
	var buf [Size]byte
	if _, err := io.ReadFull(src, buf[:]); err != nil {
		return "", fmt.Errorf("%w: %v", ErrEntropy, err)
	}
	return hex.EncodeToString(buf[:]), nil
}
