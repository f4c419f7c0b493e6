package helpers

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func TestRandomCodeUsesSafeAlphabet(t *testing.T) {
	code, err := RandomCode(8)
	if err != nil {
		t.Fatalf("random code failed: %v", err)
	}
	if len(code) != 8 {
		t.Fatalf("expected code of length 8, got %q", code)
	}
	for _, ch := range code {
		if !strings.ContainsRune(codeAlphabet, ch) {
			t.Fatalf("code %q contains character %q outside the alphabet", code, ch)
		}
	}
}

func TestGenerateUniqueCodeRetriesOnCollision(t *testing.T) {
	calls := 0
	exists := func(ctx context.Context, code string) (bool, error) {
		calls++
		// First two candidates collide, third is free.
		return calls < 3, nil
	}

	code, err := GenerateUniqueCode(context.Background(), 6, 5, exists)
	if err != nil {
		t.Fatalf("expected success after retries, got %v", err)
	}
	if code == "" {
		t.Fatal("expected non-empty code")
	}
	if calls != 3 {
		t.Fatalf("expected 3 uniqueness checks, got %d", calls)
	}
}

func TestGenerateUniqueCodeFailsLoudlyWhenExhausted(t *testing.T) {
	exists := func(ctx context.Context, code string) (bool, error) {
		return true, nil
	}

	_, err := GenerateUniqueCode(context.Background(), 6, 4, exists)
	if err == nil {
		t.Fatal("expected error when all attempts collide")
	}
	if !strings.Contains(err.Error(), "exhausted 4 attempts") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGenerateUniqueCodePropagatesCheckError(t *testing.T) {
	checkErr := errors.New("store down")
	exists := func(ctx context.Context, code string) (bool, error) {
		return false, checkErr
	}

	_, err := GenerateUniqueCode(context.Background(), 6, 3, exists)
	if !errors.Is(err, checkErr) {
		t.Fatalf("expected wrapped check error, got %v", err)
	}
}
