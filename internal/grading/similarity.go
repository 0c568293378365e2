package grading

import (
	"math"
	"strings"
	"unicode"
)

// Similarity returns a 0..1 edit-distance ratio between two strings,
// computed over runes so multi-byte Vietnamese letters count as one edit.
func Similarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(ra, rb))/float64(longest)
}

// DiacriticSimilarity compares two strings with Vietnamese diacritics folded
// away, so tone-mark typos do not count as edits.
func DiacriticSimilarity(a, b string) float64 {
	return Similarity(StripDiacritics(a), StripDiacritics(b))
}

// levenshtein computes edit distance with a rolling single-row table.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}
	prev := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		cur := prev[0] + 1
		diag := prev[0]
		prev[0] = cur
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			next := min3(prev[j]+1, cur+1, diag+cost)
			diag = prev[j]
			prev[j] = next
			cur = next
		}
	}
	return prev[len(b)]
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

// Keywords extracts significant words: runs of letters longer than minLen
// runes, lowercased, with stopwords removed.
func Keywords(text string, minLen int, stop map[string]bool) map[string]bool {
	out := make(map[string]bool)
	var word []rune
	flush := func() {
		if len(word) > minLen {
			w := string(word)
			if !stop[w] {
				out[w] = true
			}
		}
		word = word[:0]
	}
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) {
			word = append(word, r)
		} else {
			flush()
		}
	}
	flush()
	return out
}

// KeywordOverlap reports what fraction of the keywords of a also occur in b.
func KeywordOverlap(a, b string, stop map[string]bool) float64 {
	ka := Keywords(a, 2, stop)
	kb := Keywords(b, 2, stop)
	if len(ka) == 0 || len(kb) == 0 {
		return 0.0
	}
	hit := 0
	for w := range ka {
		if kb[w] {
			hit++
		}
	}
	return float64(hit) / float64(len(ka))
}

// JaccardWords is word-set overlap over union, used to tell a paraphrase
// from a genuine concept substitution.
func JaccardWords(a, b string) float64 {
	wa := wordSet(a)
	wb := wordSet(b)
	if len(wa) == 0 && len(wb) == 0 {
		return 0.0
	}
	inter := 0
	for w := range wa {
		if wb[w] {
			inter++
		}
	}
	union := len(wa) + len(wb) - inter
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}

func wordSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(s)) {
		set[w] = true
	}
	return set
}

// FuzzyWordMatch reports whether two words are the same modulo typos:
// exact, containment, diacritic-folded, or edit distance within threshold.
func FuzzyWordMatch(w1, w2 string, threshold float64) bool {
	if w1 == "" || w2 == "" {
		return false
	}
	a := strings.ToLower(strings.TrimSpace(w1))
	b := strings.ToLower(strings.TrimSpace(w2))
	if a == b || strings.Contains(a, b) || strings.Contains(b, a) {
		return true
	}
	af, bf := StripDiacritics(a), StripDiacritics(b)
	if af == bf || strings.Contains(af, bf) || strings.Contains(bf, af) {
		return true
	}
	best := math.Max(Similarity(a, b), Similarity(af, bf))
	return best >= threshold
}

// FuzzyContains reports whether keyword occurs in text, tolerating typos.
// Multi-word keywords need 80% of their words matched.
func FuzzyContains(text, keyword string, threshold float64) bool {
	if text == "" || keyword == "" {
		return false
	}
	tl := strings.ToLower(text)
	kl := strings.ToLower(keyword)
	if strings.Contains(tl, kl) {
		return true
	}
	textWords := strings.Fields(tl)
	keyWords := strings.Fields(kl)
	if len(keyWords) == 1 {
		for _, w := range textWords {
			if FuzzyWordMatch(w, kl, threshold) {
				return true
			}
		}
		return false
	}
	found := 0
	for _, kw := range keyWords {
		for _, w := range textWords {
			if FuzzyWordMatch(w, kw, threshold) {
				found++
				break
			}
		}
	}
	return float64(found) >= float64(len(keyWords))*0.8
}

// SequenceRatio is an order-sensitive similarity of two token sequences,
// 2*LCS/(m+n), in the spirit of difflib ratios.
func SequenceRatio(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	if len(a) == 0 || len(b) == 0 {
		return 0.0
	}
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
			} else if prev[j] >= cur[j-1] {
				cur[j] = prev[j]
			} else {
				cur[j] = cur[j-1]
			}
		}
		prev, cur = cur, prev
	}
	lcs := prev[len(b)]
	return 2.0 * float64(lcs) / float64(len(a)+len(b))
}

// Cosine is the cosine similarity of two embedding vectors. Mismatched or
// zero-length vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0.0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0.0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
