package analysis

import (
	"sort"

	"github.com/cognicore/newslex/pkg/newslex/article"
)

// DefaultTopWords is the number of entries kept in Summary.TopWords when the
// analyzer is built with a non-positive limit.
const DefaultTopWords = 20

// WordFrequencyEntry is one word and how many times it occurred in a batch.
type WordFrequencyEntry struct {
	Word      string `json:"word"`
	Frequency int    `json:"frequency"`
}

// Summary aggregates word-frequency statistics for one batch. TopWords is
// truncated to the configured limit; every other field reflects the full
// batch.
type Summary struct {
	TotalArticles     int                  `json:"total_articles"`
	TotalTokens       int                  `json:"total_tokens"`
	VocabularySize    int                  `json:"vocabulary_size"`
	LexicalRichness   float64              `json:"lexical_richness"`
	AvgTokensPerTitle float64              `json:"avg_tokens_per_title"`
	TopWords          []WordFrequencyEntry `json:"top_words"`
}

// Analyzer computes batch-level word frequency. It is a pure function of its
// input: no state survives between Analyze calls.
type Analyzer struct {
	topN int
}

// NewAnalyzer creates an analyzer keeping the top n words per batch.
// Non-positive n means DefaultTopWords.
func NewAnalyzer(n int) *Analyzer {
	if n <= 0 {
		n = DefaultTopWords
	}
	return &Analyzer{topN: n}
}

// Analyze scans every token of every article once and produces the batch
// summary. Words are ranked by descending frequency; ties keep first-seen
// order, so results are deterministic for a given batch.
func (a *Analyzer) Analyze(batch []article.ProcessedArticle) Summary {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	totalTokens := 0

	for _, art := range batch {
		for _, tok := range art.Tokens {
			if tok == "" {
				continue
			}
			if _, seen := counts[tok]; !seen {
				firstSeen[tok] = totalTokens
			}
			counts[tok]++
			totalTokens++
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		wi, wj := words[i], words[j]
		if counts[wi] != counts[wj] {
			return counts[wi] > counts[wj]
		}
		return firstSeen[wi] < firstSeen[wj]
	})

	top := words
	if len(top) > a.topN {
		top = top[:a.topN]
	}
	topWords := make([]WordFrequencyEntry, 0, len(top))
	for _, w := range top {
		topWords = append(topWords, WordFrequencyEntry{Word: w, Frequency: counts[w]})
	}

	summary := Summary{
		TotalArticles:  len(batch),
		TotalTokens:    totalTokens,
		VocabularySize: len(counts),
		TopWords:       topWords,
	}
	// Explicit zero fallbacks: an empty batch is a valid input, not an error.
	if totalTokens > 0 {
		summary.LexicalRichness = float64(len(counts)) / float64(totalTokens)
	}
	if len(batch) > 0 {
		summary.AvgTokensPerTitle = float64(totalTokens) / float64(len(batch))
	}

	return summary
}
