package textproc

import (
	"regexp"
	"sort"
	"strings"
)

// ProcessedText is the normalized view of one input document. It is built once
// per document and treated as read-only by every analyzer downstream.
type ProcessedText struct {
	OriginalText    string            `json:"original_text"`
	CleanedText     string            `json:"cleaned_text"`
	Sentences       []string          `json:"sentences"`
	Words           []string          `json:"words"`
	FilteredWords   []string          `json:"filtered_words"`
	LemmatizedWords []string          `json:"lemmatized_words"`
	Sections        map[string]string `json:"sections"`
	WordCount       int               `json:"word_count"`
	SentenceCount   int               `json:"sentence_count"`
}

// SectionNames returns the detected section names in sorted order.
func (p ProcessedText) SectionNames() []string {
	names := make([]string, 0, len(p.Sections))
	for name := range p.Sections {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

var (
	whitespaceRun   = regexp.MustCompile(`\s+`)
	disallowedRunes = regexp.MustCompile(`[^\p{L}\p{N}_\s\.\,\;\:\!\?\-\(\)]`)
	emailLike       = regexp.MustCompile(`\S+@\S+`)
	phoneLike       = regexp.MustCompile(`\b\d{3}[-.]?\d{3}[-.]?\d{4}\b`)
	placeholder     = regexp.MustCompile(`\[(?:EMAIL|PHONE)\]`)
)

const (
	EmailPlaceholder = "[EMAIL]"
	PhonePlaceholder = "[PHONE]"
)

// Processor turns raw text into ProcessedText. The zero value is not usable;
// call NewProcessor.
type Processor struct {
	stopwords map[string]struct{}
	lemmas    *Lemmatizer
	headers   []sectionPattern
}

// NewProcessor builds a processor with the English stopword list, the noun
// lemmatizer and the default résumé section headers.
func NewProcessor() *Processor {
	return &Processor{
		stopwords: EnglishStopwords(),
		lemmas:    NewLemmatizer(),
		headers:   defaultSectionPatterns(),
	}
}

// Ready reports whether the processor can serve requests.
func (p *Processor) Ready() bool {
	return p != nil && p.stopwords != nil && p.lemmas != nil
}

// Process cleans, tokenizes and sections text. It never fails; text without
// recognizable headers yields an empty section map.
func (p *Processor) Process(text string) ProcessedText {
	cleaned := Clean(text)
	sentences := SplitSentences(cleaned)
	words := Tokenize(strings.ToLower(cleaned))

	filtered := make([]string, 0, len(words))
	for _, w := range words {
		if isPunctuation(w) {
			continue
		}
		if _, stop := p.stopwords[w]; stop {
			continue
		}
		filtered = append(filtered, w)
	}

	lemmatized := make([]string, len(filtered))
	for i, w := range filtered {
		lemmatized[i] = p.lemmas.Lemmatize(w)
	}

	return ProcessedText{
		OriginalText:    text,
		CleanedText:     cleaned,
		Sentences:       sentences,
		Words:           words,
		FilteredWords:   filtered,
		LemmatizedWords: lemmatized,
		Sections:        p.extractSections(text),
		WordCount:       len(words),
		SentenceCount:   len(sentences),
	}
}

// Clean collapses whitespace, redacts email addresses and phone numbers and
// strips characters outside the allowed set. Redaction runs before stripping so
// that "@" is still present when emails are matched.
func Clean(text string) string {
	out := whitespaceRun.ReplaceAllString(text, " ")
	out = emailLike.ReplaceAllString(out, EmailPlaceholder)
	out = phoneLike.ReplaceAllString(out, PhonePlaceholder)
	return strings.TrimSpace(stripDisallowed(out))
}

// stripDisallowed removes disallowed runes everywhere except inside the
// redaction placeholders.
func stripDisallowed(s string) string {
	locs := placeholder.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return disallowedRunes.ReplaceAllString(s, "")
	}
	var b strings.Builder
	b.Grow(len(s))
	prev := 0
	for _, loc := range locs {
		b.WriteString(disallowedRunes.ReplaceAllString(s[prev:loc[0]], ""))
		b.WriteString(s[loc[0]:loc[1]])
		prev = loc[1]
	}
	b.WriteString(disallowedRunes.ReplaceAllString(s[prev:], ""))
	return b.String()
}
