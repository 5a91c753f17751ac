package game

import (
	"math/rand"
	"strings"
	"sync"
	"time"
)

const (
	codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength   = 6

	// The code space holds 36^6 values, so collisions are negligible, but the
	// retry loop still carries a cap so an exhausted space cannot hang callers.
	maxCodeAttempts = 10000
)

type codeGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

func newCodeGenerator() *codeGenerator {
	return &codeGenerator{rnd: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

// generate returns a fresh code for which taken reports false.
func (g *codeGenerator) generate(taken func(string) bool) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for i := 0; i < maxCodeAttempts; i++ {
		var b strings.Builder
		for j := 0; j < codeLength; j++ {
			b.WriteByte(codeAlphabet[g.rnd.Intn(len(codeAlphabet))])
		}
		code := b.String()
		if !taken(code) {
			return code, nil
		}
	}
	return "", ErrCodeSpace
}

// NormalizeCode makes code handling case-insensitive, the way players type
// codes. The registry applies it to every lookup; transports use it to key
// broadcasts consistently.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
