package summarizer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
	"unicode"
)

// ErrLocalModelDisabled is returned by LoadLocalModel when the model is
// switched off by configuration.
var ErrLocalModelDisabled = errors.New("local model disabled")

const (
	defaultMaxSentences = 3
	defaultMaxWords     = 130
)

var defaultStopwords = []string{
	"a", "about", "after", "again", "all", "also", "am", "an", "and", "any", "are", "as", "at",
	"be", "because", "been", "before", "being", "but", "by", "can", "could", "did", "do", "does",
	"doing", "for", "from", "had", "has", "have", "having", "he", "her", "here", "hers", "him",
	"his", "how", "i", "if", "in", "into", "is", "it", "its", "just", "me", "more", "most", "my",
	"no", "not", "now", "of", "on", "once", "only", "or", "other", "our", "out", "over", "own",
	"same", "she", "should", "so", "some", "such", "than", "that", "the", "their", "them", "then",
	"there", "these", "they", "this", "those", "through", "to", "too", "under", "until", "up",
	"very", "was", "we", "were", "what", "when", "where", "which", "while", "who", "why", "will",
	"with", "would", "you", "your",
}

// LocalOptions configures the in-process model.
type LocalOptions struct {
	Disabled      bool
	StopwordsFile string // optional newline separated list, '#' starts a comment
	MaxSentences  int
	MaxWords      int
}

// LocalModel is a frequency based extractive summarizer. It is built once
// at startup and only read afterwards, so it is safe for concurrent use.
type LocalModel struct {
	stopwords    map[string]struct{}
	maxSentences int
	maxWords     int
}

// LoadLocalModel builds the local model.
func LoadLocalModel(opts LocalOptions) (*LocalModel, error) {
	if opts.Disabled {
		return nil, ErrLocalModelDisabled
	}

	words := defaultStopwords
	if opts.StopwordsFile != "" {
		loaded, err := readStopwords(opts.StopwordsFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load stopwords: %w", err)
		}
		words = loaded
	}

	m := &LocalModel{
		stopwords:    make(map[string]struct{}, len(words)),
		maxSentences: opts.MaxSentences,
		maxWords:     opts.MaxWords,
	}
	if m.maxSentences <= 0 {
		m.maxSentences = defaultMaxSentences
	}
	if m.maxWords <= 0 {
		m.maxWords = defaultMaxWords
	}
	for _, w := range words {
		m.stopwords[strings.ToLower(w)] = struct{}{}
	}
	return m, nil
}

func readStopwords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var words []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words, scanner.Err()
}

type sentence struct {
	text  string
	index int
	score float64
}

// Summarize picks the highest scoring sentences, keeps them in their
// original order and caps the result at maxWords words.
func (m *LocalModel) Summarize(ctx context.Context, text string) (string, error) {
	sentences := splitSentences(text)
	if len(sentences) == 0 {
		return "", nil
	}

	freq := make(map[string]float64)
	tokensPer := make([][]string, len(sentences))
	for i, s := range sentences {
		tokensPer[i] = m.contentWords(s.text)
		for _, tok := range tokensPer[i] {
			freq[tok]++
		}
	}
	var top float64
	for _, n := range freq {
		top = max(top, n)
	}

	for i := range sentences {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if len(tokensPer[i]) == 0 || top == 0 {
			continue
		}
		var sum float64
		for _, tok := range tokensPer[i] {
			sum += freq[tok] / top
		}
		sentences[i].score = sum / float64(len(tokensPer[i]))
	}

	ranked := make([]sentence, len(sentences))
	copy(ranked, sentences)
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })
	if len(ranked) > m.maxSentences {
		ranked = ranked[:m.maxSentences]
	}
	sort.Slice(ranked, func(i, j int) bool { return ranked[i].index < ranked[j].index })

	var words []string
	for _, s := range ranked {
		words = append(words, strings.Fields(s.text)...)
	}
	if len(words) > m.maxWords {
		words = words[:m.maxWords]
	}
	return strings.Join(words, " "), nil
}

func (m *LocalModel) contentWords(s string) []string {
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	out := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if _, stop := m.stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}

// splitSentences cuts on newlines and on '.', '!' or '?' followed by
// whitespace or the end of the text.
func splitSentences(text string) []sentence {
	var (
		out []sentence
		cur strings.Builder
	)
	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			out = append(out, sentence{text: s, index: len(out)})
		}
		cur.Reset()
	}

	runes := []rune(text)
	for i, r := range runes {
		if r == '\n' {
			flush()
			continue
		}
		cur.WriteRune(r)
		if r == '.' || r == '!' || r == '?' {
			if i+1 == len(runes) || unicode.IsSpace(runes[i+1]) {
				flush()
			}
		}
	}
	flush()
	return out
}

// Local wraps the model as a chain tier. A nil model means initialization
// failed; the tier then reports itself unavailable.
type Local struct {
	model   *LocalModel
	timeout time.Duration
}

// NewLocal creates the local tier around model, which may be nil.
func NewLocal(model *LocalModel, timeout time.Duration) *Local {
	return &Local{model: model, timeout: timeout}
}

func (l *Local) Name() string           { return "Local-Extractive" }
func (l *Local) Timeout() time.Duration { return l.timeout }
func (l *Local) Available() bool        { return l.model != nil }

// Summarize runs the local model.
func (l *Local) Summarize(ctx context.Context, text string) (string, error) {
	if l.model == nil {
		return "", ErrUnavailable
	}
	return l.model.Summarize(ctx, text)
}
