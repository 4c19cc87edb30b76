package tasks

import (
	"errors"
	"testing"

	"github.com/bmckenna/saylist/internal/shared"
)

func TestTokenize(t *testing.T) {
	t.Run("splits on whitespace and lowercases", func(t *testing.T) {
		terms, err := Tokenize("Hello  Beautiful\tWorld")
		if err != nil {
			t.Fatalf("Tokenize failed: %v", err)
		}
		if len(terms) != 3 {
			t.Fatalf("expected 3 terms, got %d", len(terms))
		}

		raws := []string{"Hello", "Beautiful", "World"}
		normals := []string{"hello", "beautiful", "world"}
		for i, term := range terms {
			if term.Raw != raws[i] {
				t.Errorf("term %d raw = %q, want %q", i, term.Raw, raws[i])
			}
			if term.Normalized != normals[i] {
				t.Errorf("term %d normalized = %q, want %q", i, term.Normalized, normals[i])
			}
		}
	})

	t.Run("strips edge punctuation", func(t *testing.T) {
		terms, err := Tokenize(`"Hello," she said...`)
		if err != nil {
			t.Fatalf("Tokenize failed: %v", err)
		}
		want := []string{"hello", "she", "said"}
		if len(terms) != len(want) {
			t.Fatalf("expected %d terms, got %d", len(want), len(terms))
		}
		for i, w := range want {
			if terms[i].Normalized != w {
				t.Errorf("term %d = %q, want %q", i, terms[i].Normalized, w)
			}
		}
	})

	t.Run("keeps interior apostrophes and hyphens", func(t *testing.T) {
		terms, err := Tokenize("don't stop twenty-one")
		if err != nil {
			t.Fatalf("Tokenize failed: %v", err)
		}
		if terms[0].Normalized != "don't" {
			t.Errorf("expected don't, got %q", terms[0].Normalized)
		}
		if terms[2].Normalized != "twenty-one" {
			t.Errorf("expected twenty-one, got %q", terms[2].Normalized)
		}
	})

	t.Run("drops punctuation-only words", func(t *testing.T) {
		terms, err := Tokenize("hello -- world !!")
		if err != nil {
			t.Fatalf("Tokenize failed: %v", err)
		}
		if len(terms) != 2 {
			t.Fatalf("expected 2 terms, got %d: %v", len(terms), terms)
		}
	})

	t.Run("empty sentence returns ErrEmptyInput", func(t *testing.T) {
		for _, input := range []string{"", "   ", "... !!! ,,,"} {
			_, err := Tokenize(input)
			if !errors.Is(err, shared.ErrEmptyInput) {
				t.Errorf("Tokenize(%q) = %v, want ErrEmptyInput", input, err)
			}
		}
	})

	t.Run("attaches synonym fallbacks", func(t *testing.T) {
		terms, err := Tokenize("I luv music")
		if err != nil {
			t.Fatalf("Tokenize failed: %v", err)
		}
		if len(terms[0].Fallbacks) == 0 {
			t.Error("expected fallbacks for 'i'")
		}
		if len(terms[1].Fallbacks) != 1 || terms[1].Fallbacks[0] != "love" {
			t.Errorf("expected [love] fallback for luv, got %v", terms[1].Fallbacks)
		}
		if len(terms[2].Fallbacks) != 0 {
			t.Errorf("expected no fallbacks for music, got %v", terms[2].Fallbacks)
		}
	})

	t.Run("keeps a standalone ampersand with its fallback", func(t *testing.T) {
		terms, err := Tokenize("rock & roll")
		if err != nil {
			t.Fatalf("Tokenize failed: %v", err)
		}
		if len(terms) != 3 {
			t.Fatalf("expected 3 terms, got %d", len(terms))
		}
		if terms[1].Raw != "&" || terms[1].Normalized != "&" {
			t.Errorf("expected ampersand term, got %+v", terms[1])
		}
		if len(terms[1].Fallbacks) != 1 || terms[1].Fallbacks[0] != "and" {
			t.Errorf("expected [and] fallback, got %v", terms[1].Fallbacks)
		}
	})

	t.Run("custom table overrides defaults", func(t *testing.T) {
		table := SynonymTable{"music": {"song"}}
		terms, err := TokenizeWith("I music", table)
		if err != nil {
			t.Fatalf("TokenizeWith failed: %v", err)
		}
		if len(terms[0].Fallbacks) != 0 {
			t.Errorf("expected no fallbacks for i with custom table, got %v", terms[0].Fallbacks)
		}
		if len(terms[1].Fallbacks) != 1 || terms[1].Fallbacks[0] != "song" {
			t.Errorf("expected [song], got %v", terms[1].Fallbacks)
		}
	})
}
