package tasks

import (
	"fmt"
	"strings"

	"github.com/bmckenna/saylist/internal/models"
	"github.com/bmckenna/saylist/internal/shared"
)

// Tokenize splits a sentence into ordered search terms using the built-in
// synonym table.
func Tokenize(sentence string) ([]models.SearchTerm, error) {
	return TokenizeWith(sentence, DefaultSynonyms())
}

// TokenizeWith splits a sentence into ordered search terms.
//
// Words are separated on whitespace. Leading and trailing punctuation is
// stripped from each word while interior apostrophes and hyphens are kept,
// so "don't" and "twenty-one" survive intact. Words that are empty after
// stripping are dropped. Each term carries both the raw surface form and a
// lowercased normalized form used for matching and caching, plus any synonym
// fallbacks the table holds for the normalized word.
func TokenizeWith(sentence string, synonyms SynonymTable) ([]models.SearchTerm, error) {
	fields := strings.Fields(sentence)

	terms := make([]models.SearchTerm, 0, len(fields))
	for _, field := range fields {
		word := shared.TrimWordPunct(field)
		if word == "" {
			// A lone ampersand reads as a word; keep it so its
			// fallback can still find a track.
			if field != "&" {
				continue
			}
			word = field
		}

		normalized := strings.ToLower(word)
		terms = append(terms, models.SearchTerm{
			Raw:        word,
			Normalized: normalized,
			Fallbacks:  synonyms.lookup(normalized),
		})
	}

	if len(terms) == 0 {
		return nil, fmt.Errorf("%w: sentence contains no usable words", shared.ErrEmptyInput)
	}

	return terms, nil
}
