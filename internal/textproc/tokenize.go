package textproc

import (
	"regexp"
	"strings"
)

var (
	sentenceBoundary = regexp.MustCompile(`[.!?]+\s+`)
	wordToken        = regexp.MustCompile(`[\p{L}\p{N}_]+(?:['\-][\p{L}\p{N}_]+)*|[^\p{L}\p{N}_\s]`)
)

const punctuation = "!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~"

// SplitSentences splits text after runs of sentence-ending punctuation that are
// followed by whitespace. Empty fragments are dropped.
func SplitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return []string{}
	}
	out := make([]string, 0, 8)
	prev := 0
	for _, loc := range sentenceBoundary.FindAllStringIndex(text, -1) {
		if s := strings.TrimSpace(text[prev:loc[1]]); s != "" {
			out = append(out, s)
		}
		prev = loc[1]
	}
	if s := strings.TrimSpace(text[prev:]); s != "" {
		out = append(out, s)
	}
	return out
}

// Tokenize splits text into word tokens and single punctuation tokens.
// Hyphenated and apostrophe-joined words stay whole.
func Tokenize(text string) []string {
	tokens := wordToken.FindAllString(text, -1)
	if tokens == nil {
		return []string{}
	}
	return tokens
}

func isPunctuation(token string) bool {
	return len(token) == 1 && strings.Contains(punctuation, token)
}
