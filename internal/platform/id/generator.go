package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID() (string, error)
}

type RandomGenerator struct {
	prefix string
	now    func() time.Time
}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{now: time.Now}
}

// NewRunIDGenerator returns ids shaped like "sync-20260301T100000Z-3f9a1c2b".
func NewRunIDGenerator(prefix string) *RandomGenerator {
	return &RandomGenerator{prefix: strings.TrimSpace(prefix), now: time.Now}
}

func (g *RandomGenerator) NewID() (string, error) {
	size := 16
	if g.prefix != "" {
		size = 4
	}
	buf := make([]byte, size)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	if g.prefix == "" {
		return hex.EncodeToString(buf), nil
	}
	return g.prefix + "-" + g.now().UTC().Format("20060102T150405Z") + "-" + hex.EncodeToString(buf), nil
}
