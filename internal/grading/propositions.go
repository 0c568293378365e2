package grading

import (
	"strings"
	"unicode"
)

// ExtractPropositions splits a reference answer into atomic facts for
// partial-credit scoring. Sentences split on strong punctuation first, then
// on Vietnamese connectives, longest connective first so "bởi vì" is not
// consumed as "vì". A fragment survives if it carries any letter or digit.
// If splitting leaves nothing (one-word answers like "Đúng"), the whole
// trimmed text is the single proposition.
func (lx *Lexicon) ExtractPropositions(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	var props []string
	for _, seg := range splitAny(text, ".!?;") {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		for _, part := range lx.splitConnectives(seg) {
			part = strings.TrimSpace(part)
			if part != "" && hasAlnum(part) {
				props = append(props, part)
			}
		}
	}

	if len(props) == 0 {
		return []string{strings.TrimSpace(text)}
	}
	return props
}

// splitConnectives cuts a segment at whole-word connective occurrences.
// Token spans are taken on the segment itself and only the candidate
// phrase is lowercased for the match. Lowercasing can change a rune's
// byte width, so offsets from a lowercased copy must never slice the
// original.
func (lx *Lexicon) splitConnectives(seg string) []string {
	toks := tokenize(seg)

	var parts []string
	start := 0
	for i := 0; i < len(toks); {
		// Longest match first: try three-, two-, then one-token connectives.
		matched := 0
		for n := 3; n >= 1; n-- {
			if i+n > len(toks) {
				continue
			}
			phrase := strings.ToLower(seg[toks[i].start:toks[i+n-1].end])
			if lx.Connectives[phrase] {
				matched = n
				break
			}
		}
		if matched == 0 {
			i++
			continue
		}
		parts = append(parts, seg[start:toks[i].start])
		start = toks[i+matched-1].end
		i += matched
	}
	parts = append(parts, seg[start:])
	return parts
}

type tokenSpan struct{ start, end int }

// tokenize records byte spans of letter/digit runs.
func tokenize(s string) []tokenSpan {
	var spans []tokenSpan
	start := -1
	for i, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			spans = append(spans, tokenSpan{start, i})
			start = -1
		}
	}
	if start >= 0 {
		spans = append(spans, tokenSpan{start, len(s)})
	}
	return spans
}

func splitAny(s, cutset string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return strings.ContainsRune(cutset, r)
	})
}

func hasAlnum(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return true
		}
	}
	return false
}
