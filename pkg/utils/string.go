package utils

import "strings"

// Truncate is a simple string truncate
func Truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// minTokenLen is the shortest token that counts as meaningful for topic and
// pattern extraction. Tokens of this length or shorter are dropped.
const minTokenLen = 3

// stopWords are filtered out of tokenized content before topic tracking and
// pattern discovery.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "but": true,
	"not": true, "you": true, "all": true, "can": true, "had": true,
	"was": true, "with": true, "have": true, "this": true, "that": true,
	"from": true, "they": true, "been": true, "will": true, "would": true,
	"there": true, "their": true, "what": true, "about": true, "which": true,
	"when": true, "your": true, "said": true, "each": true, "them": true,
	"than": true, "then": true, "some": true, "into": true, "more": true,
	"very": true, "just": true, "also": true, "like": true, "over": true,
}

// IsStopWord reports whether the token is on the stop-word list.
func IsStopWord(token string) bool {
	return stopWords[strings.ToLower(token)]
}

// Tokenize lowercases and splits text into meaningful tokens, dropping
// stop-words, punctuation-only fields, and tokens shorter than four
// characters.
func Tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !('a' <= r && r <= 'z') && !('0' <= r && r <= '9')
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if len(f) <= minTokenLen || stopWords[f] {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}

// SplitSentences splits text on sentence terminators (. ! ?), trimming
// whitespace and dropping empty results.
func SplitSentences(text string) []string {
	parts := strings.FieldsFunc(text, func(r rune) bool {
		return r == '.' || r == '!' || r == '?'
	})

	sentences := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			sentences = append(sentences, s)
		}
	}
	return sentences
}
