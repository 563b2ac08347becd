package tasks

import (
	"regexp"
	"strconv"
	"strings"

	"go.phenora.dev/phenoql/internal/core/domain"
)

// termMatch is one occurrence of a term in a document.
type termMatch struct {
	term     string
	sentence string
	start    int
	end      int
	negated  bool
}

// sentenceBreak ends a sentence at a terminator followed by whitespace or
// end of text, or at a newline. A period inside a decimal does not break.
var sentenceBreak = regexp.MustCompile(`[.!?]+(?:\s+|$)|\n+`)

// negationCues precede a term to flip its assertion. Matching is bounded to
// the same sentence, within a few tokens of the term.
var negationCues = []string{"no", "denies", "denied", "without", "negative for", "not", "ruled out for"}

const negationWindow = 6

// findTerms scans the text for every term, sentence by sentence. Matching is
// case-insensitive on whole words; offsets are document-relative.
func findTerms(text string, terms []string) []termMatch {
	var matches []termMatch
	breaks := sentenceBreak.FindAllStringIndex(text, -1)
	breaks = append(breaks, []int{len(text), len(text)})

	pos := 0
	for _, br := range breaks {
		if br[0] < pos {
			continue
		}
		sentence := text[pos:br[0]]
		lower := strings.ToLower(sentence)
		for _, term := range terms {
			t := strings.ToLower(term)
			from := 0
			for {
				i := strings.Index(lower[from:], t)
				if i < 0 {
					break
				}
				start := from + i
				end := start + len(t)
				if wholeWord(lower, start, end) {
					matches = append(matches, termMatch{
						term:     term,
						sentence: strings.TrimSpace(sentence),
						start:    pos + start,
						end:      pos + end,
						negated:  negatedAt(lower, start),
					})
				}
				from = end
			}
		}
		pos = br[1]
	}
	return matches
}

func wholeWord(s string, start, end int) bool {
	if start > 0 && isWordByte(s[start-1]) {
		return false
	}
	if end < len(s) && isWordByte(s[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// negatedAt reports whether a negation cue appears within the window of
// tokens immediately before position start.
func negatedAt(sentence string, start int) bool {
	prefix := strings.Fields(sentence[:start])
	if len(prefix) > negationWindow {
		prefix = prefix[len(prefix)-negationWindow:]
	}
	window := strings.Join(prefix, " ")
	for _, cue := range negationCues {
		if strings.Contains(cue, " ") {
			if strings.Contains(window, cue) {
				return true
			}
			continue
		}
		for _, tok := range prefix {
			if strings.Trim(tok, ",;:") == cue {
				return true
			}
		}
	}
	return false
}

// indexFold is a case-insensitive strings.Index.
func indexFold(s, substr string) int {
	return strings.Index(strings.ToLower(s), strings.ToLower(substr))
}

var numberPattern = regexp.MustCompile(`-?\d+(?:\.\d+)?`)

// numberAfter returns the first numeric token following position pos in the
// sentence, if any.
func numberAfter(sentence string, pos int) (float64, bool) {
	if pos > len(sentence) {
		return 0, false
	}
	loc := numberPattern.FindStringIndex(sentence[pos:])
	if loc == nil {
		return 0, false
	}
	n, err := strconv.ParseFloat(sentence[pos+loc[0]:pos+loc[1]], 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// collectTerms flattens the request's term sets in declaration order.
func collectTerms(req domain.TaskRequest) []string {
	var terms []string
	for _, ts := range req.TermSets {
		terms = append(terms, ts.Terms...)
	}
	return terms
}

// subjectSet indexes the request's subject scope for membership checks.
func subjectSet(req domain.TaskRequest) map[domain.SubjectID]bool {
	set := make(map[domain.SubjectID]bool, len(req.Subjects))
	for _, s := range req.Subjects {
		set[s] = true
	}
	return set
}

func matchRecord(m termMatch) domain.Value {
	return domain.RecordValue(map[string]domain.Value{
		"value":    domain.BoolValue(!m.negated),
		"term":     domain.StringValue(m.term),
		"sentence": domain.StringValue(m.sentence),
		"start":    domain.NumberValue(float64(m.start)),
		"end":      domain.NumberValue(float64(m.end)),
		"negated":  domain.BoolValue(m.negated),
	})
}
