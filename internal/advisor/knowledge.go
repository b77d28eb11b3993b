package advisor

import (
	"strings"
	"sync"
	"unicode/utf8"
)

const (
	DefaultMaxDocuments = 20
	DefaultMaxChars     = 60000

	snippetHeader = "--- INTERNAL DOCUMENT ---"
	snippetFooter = "-------------------------"
)

// KnowledgeBase holds the internal documents injected into every advice
// request, oldest first. When either limit is exceeded the oldest snippets
// are evicted until both hold again.
type KnowledgeBase struct {
	mu           sync.Mutex
	snippets     []string
	chars        int
	maxDocuments int
	maxChars     int
}

// NewKnowledgeBase creates an empty knowledge base. Non-positive limits fall
// back to the defaults.
func NewKnowledgeBase(maxDocuments, maxChars int) *KnowledgeBase {
	if maxDocuments <= 0 {
		maxDocuments = DefaultMaxDocuments
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	return &KnowledgeBase{maxDocuments: maxDocuments, maxChars: maxChars}
}

// Add appends a snippet and returns how many older snippets were evicted.
// A snippet longer than the character limit is truncated to fit.
func (k *KnowledgeBase) Add(content string) int {
	content = strings.TrimSpace(content)
	if content == "" {
		return 0
	}

	k.mu.Lock()
	defer k.mu.Unlock()

	content = truncateRunes(content, k.maxChars)
	k.snippets = append(k.snippets, content)
	k.chars += utf8.RuneCountInString(content)

	evicted := 0
	for len(k.snippets) > k.maxDocuments || k.chars > k.maxChars {
		k.chars -= utf8.RuneCountInString(k.snippets[0])
		k.snippets = k.snippets[1:]
		evicted++
	}
	return evicted
}

// truncateRunes keeps at most limit characters of s.
func truncateRunes(s string, limit int) string {
	count := 0
	for i := range s {
		if count == limit {
			return s[:i]
		}
		count++
	}
	return s
}

// Clear drops every snippet.
func (k *KnowledgeBase) Clear() {
	k.mu.Lock()
	defer k.mu.Unlock()
	k.snippets = nil
	k.chars = 0
}

// Len returns the number of snippets held.
func (k *KnowledgeBase) Len() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return len(k.snippets)
}

// Chars returns the total snippet length in characters.
func (k *KnowledgeBase) Chars() int {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.chars
}

// Render concatenates the snippets, each wrapped in banner lines. It returns
// an empty string when nothing is loaded.
func (k *KnowledgeBase) Render() string {
	k.mu.Lock()
	defer k.mu.Unlock()

	var sb strings.Builder
	for _, snippet := range k.snippets {
		sb.WriteString("\n\n")
		sb.WriteString(snippetHeader)
		sb.WriteString("\n")
		sb.WriteString(snippet)
		sb.WriteString("\n")
		sb.WriteString(snippetFooter)
		sb.WriteString("\n")
	}
	return sb.String()
}
