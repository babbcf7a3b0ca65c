package service

import (
	"context"
	"math/rand"
	"strings"
	"sync"
)

// codeAlphabet holds the 36 symbols a booking code is drawn from.
// Uppercase letters and digits only, so guests can read a code over
// the phone without ambiguity about case.
const codeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// CodeLength is the fixed length of every booking code.  Six symbols
// over a 36-character alphabet give roughly 2.2 billion combinations.
const CodeLength = 6

// CodeGenerator produces booking codes from an explicitly seeded
// random source.  The source is guarded by a mutex so concurrent
// creates can share one generator, and tests can seed it for
// deterministic output.
type CodeGenerator struct {
	mu  sync.Mutex
	rnd *rand.Rand
}

// NewCodeGenerator returns a generator seeded with the given value.
// Production callers seed with the current time; tests pass a constant.
func NewCodeGenerator(seed int64) *CodeGenerator {
	return &CodeGenerator{rnd: rand.New(rand.NewSource(seed))}
}

// next returns one freshly drawn code.  Each character is uniform and
// independent; there is no checksum.
func (g *CodeGenerator) next() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	var sb strings.Builder
	sb.Grow(CodeLength)
	for i := 0; i < CodeLength; i++ {
		sb.WriteByte(codeAlphabet[g.rnd.Intn(len(codeAlphabet))])
	}
	return sb.String()
}

// Generate draws codes until exists reports one as free.  The loop is
// deliberately unbounded: with a 36^6 space a collision streak long
// enough to matter does not happen in practice, and a retry cap would
// only introduce a spurious failure mode.  Store errors from exists
// abort the loop and are returned as-is.
func (g *CodeGenerator) Generate(ctx context.Context, exists func(ctx context.Context, code string) (bool, error)) (string, error) {
	for {
		code := g.next()
		taken, err := exists(ctx, code)
		if err != nil {
			return "", err
		}
		if !taken {
			return code, nil
		}
	}
}
