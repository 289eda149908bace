package ingest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/cognicore/newslex/pkg/newslex/article"
)

// DefaultMinTokenLength drops single-character fragments left over after
// punctuation stripping.
const DefaultMinTokenLength = 2

// UnsupportedLanguageError reports a language outside the supported set.
// Callers skip the offending article and keep the batch going.
type UnsupportedLanguageError struct {
	Language article.Language
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("unsupported language %q", string(e.Language))
}

// Options tunes normalization behavior.
type Options struct {
	// KeepDigits retains pure-numeric tokens such as "2024". When false
	// (the default) they are dropped; mixed tokens such as "gpt-4" are
	// kept either way.
	KeepDigits bool

	// MinTokenLength discards tokens shorter than this many runes.
	// Zero means DefaultMinTokenLength.
	MinTokenLength int

	// CustomStopwords extends the standard list for the normalizer's
	// language. Matching is case-insensitive.
	CustomStopwords []string
}

// Normalizer lowercases, strips punctuation, tokenizes, and filters stopwords
// for a single language. It holds no mutable state after construction and is
// safe for concurrent use.
type Normalizer struct {
	lang       article.Language
	stopwords  map[string]struct{}
	keepDigits bool
	minLen     int
}

// NewNormalizer builds a normalizer for the given language. The effective
// stopword set is the union of the standard list and opts.CustomStopwords.
func NewNormalizer(lang article.Language, opts Options) (*Normalizer, error) {
	standard := standardStopwords(lang)
	if standard == nil {
		return nil, &UnsupportedLanguageError{Language: lang}
	}

	stops := make(map[string]struct{}, len(standard)+len(opts.CustomStopwords))
	for _, w := range standard {
		stops[strings.ToLower(w)] = struct{}{}
	}
	for _, w := range opts.CustomStopwords {
		w = strings.ToLower(strings.TrimSpace(w))
		if w != "" {
			stops[w] = struct{}{}
		}
	}

	minLen := opts.MinTokenLength
	if minLen <= 0 {
		minLen = DefaultMinTokenLength
	}

	return &Normalizer{
		lang:       lang,
		stopwords:  stops,
		keepDigits: opts.KeepDigits,
		minLen:     minLen,
	}, nil
}

// Language returns the language this normalizer filters for.
func (n *Normalizer) Language() article.Language {
	return n.lang
}

// Normalize derives the processed title and token sequence for a raw article.
// The result is deterministic for a given (title, language, options) triple
// and has no side effects on the input.
func (n *Normalizer) Normalize(raw article.RawArticle) article.ProcessedArticle {
	tokens := n.Tokenize(raw.Title)
	return article.ProcessedArticle{
		Raw:            raw,
		ProcessedTitle: strings.Join(tokens, " "),
		Tokens:         tokens,
	}
}

// Tokenize splits text into lowercase tokens, stripping punctuation and
// filtering stopwords. Hyphens survive inside words ("state-of-the-art")
// but never lead, trail, or repeat.
func (n *Normalizer) Tokenize(text string) []string {
	var tokens []string
	var current strings.Builder

	flush := func() {
		if current.Len() == 0 {
			return
		}
		if word := n.processToken(current.String()); word != "" {
			tokens = append(tokens, word)
		}
		current.Reset()
	}

	for _, r := range text {
		switch {
		case unicode.IsLetter(r) || r == '-':
			current.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r):
			current.WriteRune(r)
		default:
			flush()
		}
	}
	flush()

	return tokens
}

// processToken applies hyphen cleanup, length filtering, and stopword
// filtering to a single candidate token.
func (n *Normalizer) processToken(token string) string {
	word := cleanToken(token)
	if len([]rune(word)) < n.minLen {
		return ""
	}
	if !n.keepDigits && isNumericOnly(word) {
		return ""
	}
	if _, stop := n.stopwords[word]; stop {
		return ""
	}
	return word
}

// isNumericOnly reports whether the token contains only digits and hyphens.
// Mixed tokens like "gpt-4" or "utf-8" are not numeric-only.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

// cleanToken strips leading/trailing hyphens and collapses runs of hyphens.
// Stray hyphens show up when URLs or slugs are embedded in titles.
func cleanToken(token string) string {
	token = strings.Trim(token, "-")
	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}
	return token
}

// IsStopword reports whether a word is filtered by this normalizer.
func (n *Normalizer) IsStopword(word string) bool {
	_, ok := n.stopwords[strings.ToLower(word)]
	return ok
}
