package services

import "strings"

// stopWords are dropped from queries before embedding. Mostly articles,
// prepositions and conversational filler that carry no retrieval signal.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "the": {},
	"and": {}, "or": {}, "but": {}, "nor": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "of": {}, "for": {},
	"from": {}, "with": {}, "without": {}, "into": {}, "onto": {},
	"about": {}, "over": {}, "under": {}, "between": {},
	"is": {}, "are": {}, "was": {}, "were": {}, "be": {}, "been": {},
	"do": {}, "does": {}, "did": {}, "can": {}, "could": {},
	"will": {}, "would": {}, "should": {},
	"how": {}, "what": {}, "when": {}, "where": {}, "which": {}, "who": {}, "why": {},
	"this": {}, "that": {}, "these": {}, "those": {},
	"i": {}, "you": {}, "my": {}, "your": {},
	"please": {}, "explain": {}, "tell": {}, "show": {}, "give": {},
	"describe": {}, "help": {},
}

// PreprocessQuery normalises a raw user query for embedding: lowercase,
// drop stop words and tokens of two characters or fewer, rejoin with
// single spaces. If everything is filtered out, the raw query is
// returned unchanged so we never embed an empty string.
func PreprocessQuery(raw string) string {
	tokens := strings.Fields(strings.ToLower(raw))

	kept := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if len(token) <= 2 {
			continue
		}
		if _, isStop := stopWords[token]; isStop {
			continue
		}
		kept = append(kept, token)
	}

	if len(kept) == 0 {
		return raw
	}
	return strings.Join(kept, " ")
}
