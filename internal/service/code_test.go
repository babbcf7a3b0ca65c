package service

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestCodeGenerator_Format(t *testing.T) {
	g := NewCodeGenerator(1)
	for i := 0; i < 100; i++ {
		code := g.next()
		if len(code) != CodeLength {
			t.Fatalf("expected code length %d, got %d (%q)", CodeLength, len(code), code)
		}
		for _, r := range code {
			if !strings.ContainsRune(codeAlphabet, r) {
				t.Fatalf("code %q contains %q outside the alphabet", code, r)
			}
		}
	}
}

func TestCodeGenerator_Deterministic(t *testing.T) {
	a := NewCodeGenerator(42)
	b := NewCodeGenerator(42)
	for i := 0; i < 10; i++ {
		if ca, cb := a.next(), b.next(); ca != cb {
			t.Fatalf("same seed diverged at draw %d: %q vs %q", i, ca, cb)
		}
	}
}

func TestCodeGenerator_UniquenessBulk(t *testing.T) {
	g := NewCodeGenerator(7)
	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		code := g.next()
		if _, dup := seen[code]; dup {
			t.Fatalf("duplicate code %q after %d draws", code, i)
		}
		seen[code] = struct{}{}
	}
}

func TestGenerate_RetriesOnCollision(t *testing.T) {
	g := NewCodeGenerator(3)
	taken := NewCodeGenerator(3).next() // the first code the generator will draw
	calls := 0
	code, err := g.Generate(context.Background(), func(ctx context.Context, c string) (bool, error) {
		calls++
		return c == taken, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if code == taken {
		t.Fatalf("generator returned a code the store reported as taken")
	}
	if calls != 2 {
		t.Fatalf("expected exactly one regeneration (2 existence checks), got %d", calls)
	}
}

func TestGenerate_PropagatesStoreError(t *testing.T) {
	g := NewCodeGenerator(5)
	boom := errors.New("connection lost")
	_, err := g.Generate(context.Background(), func(ctx context.Context, c string) (bool, error) {
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error to surface, got %v", err)
	}
}
