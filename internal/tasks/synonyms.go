package tasks

// SynonymTable maps normalized words to alternate search strings tried when
// the word itself yields no match.
type SynonymTable map[string][]string

// DefaultSynonyms returns the built-in fallback table. Covers short function
// words and common contractions that rarely appear as track titles on their
// own. Callers may copy and extend the result before passing it to
// TokenizeWith; an entry with an empty slice suppresses fallbacks for that
// word.
func DefaultSynonyms() SynonymTable {
	return SynonymTable{
		"a":     {"ay", "eh"},
		"an":    {"and"},
		"i":     {"me"},
		"u":     {"you"},
		"ur":    {"your"},
		"im":    {"i'm"},
		"dont":  {"don't"},
		"cant":  {"can't"},
		"wont":  {"won't"},
		"ok":    {"okay"},
		"thx":   {"thanks", "thank you"},
		"pls":   {"please"},
		"cos":   {"because"},
		"cuz":   {"because"},
		"gonna": {"going to"},
		"wanna": {"want to"},
		"gotta": {"got to"},
		"luv":   {"love"},
		"xmas":  {"christmas"},
		"&":     {"and"},
	}
}

func (t SynonymTable) lookup(normalized string) []string {
	alts, ok := t[normalized]
	if !ok || len(alts) == 0 {
		return nil
	}
	out := make([]string, len(alts))
	copy(out, alts)
	return out
}
