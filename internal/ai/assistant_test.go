package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubWriter struct {
	letter string
	err    error
	calls  int
}

func (s *stubWriter) Write(context.Context, LetterRequest) (string, error) {
	s.calls++
	return s.letter, s.err
}

func TestStaticWrite(t *testing.T) {
	letter, err := Static{}.Write(context.Background(), LetterRequest{Title: "Data Intern", Company: "Acme", Name: "Ada"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	expected := "Dear Hiring Manager at Acme,\n\n" +
		"I am writing to express my strong interest in the Data Intern internship opportunity. " +
		"My skills and interests align closely with your company's mission.\n\n" +
		"Thank you for your time and consideration.\n\n" +
		"Sincerely,\nAda"
	if letter != expected {
		t.Fatalf("unexpected letter:\n%s", letter)
	}

	letter, _ = Static{}.Write(context.Background(), LetterRequest{Title: "X", Company: "Y", Name: "  "})
	if !strings.HasSuffix(letter, "Sincerely,\nYour Name") {
		t.Fatalf("expected default signature, got %q", letter)
	}
}

func TestFallbackUsesPrimary(t *testing.T) {
	primary := &stubWriter{letter: "generated"}
	secondary := &stubWriter{letter: "static"}

	f := &Fallback{Primary: primary, Secondary: secondary}
	letter, err := f.Write(context.Background(), LetterRequest{Title: "T", Company: "C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if letter != "generated" || secondary.calls != 0 {
		t.Fatalf("expected primary letter only, got %q (secondary calls %d)", letter, secondary.calls)
	}
}

func TestFallbackOnError(t *testing.T) {
	core, observed := observer.New(zapcore.WarnLevel)

	f := &Fallback{
		Primary: &stubWriter{err: errors.New("quota exceeded")},
		Logger:  zap.New(core),
	}

	letter, err := f.Write(context.Background(), LetterRequest{Title: "T", Company: "C"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(letter, "Dear Hiring Manager at C,") {
		t.Fatalf("expected static letter, got %q", letter)
	}

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 warning, got %d", len(entries))
	}
	if entries[0].ContextMap()["company"] != "C" {
		t.Fatalf("expected listing fields in warning: %v", entries[0].ContextMap())
	}
}
