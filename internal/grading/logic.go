package grading

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// Relation is the NLI verdict between a candidate answer and the reference.
type Relation string

const (
	RelationEntailment    Relation = "entailment"
	RelationNeutral       Relation = "neutral"
	RelationContradiction Relation = "contradiction"
)

// Entailer scores the relation of a premise/hypothesis pair. It returns raw
// logits ordered entailment, neutral, contradiction.
type Entailer interface {
	Entail(ctx context.Context, premise, hypothesis string) ([]float64, error)
}

// LogicAnalyzer runs the NLI classification and the rule-based guardrails:
// antonym substitution, factual conflicts and directional reversal.
type LogicAnalyzer struct {
	lex      *Lexicon
	norm     *Normalizer
	entailer Entailer

	yearPat     *regexp.Regexp
	datePat     *regexp.Regexp
	longDatePat *regexp.Regexp
}

func NewLogicAnalyzer(lex *Lexicon, norm *Normalizer, entailer Entailer) *LogicAnalyzer {
	return &LogicAnalyzer{
		lex:         lex,
		norm:        norm,
		entailer:    entailer,
		yearPat:     regexp.MustCompile(`\b(19\d{2}|20\d{2})\b`),
		datePat:     regexp.MustCompile(`\b\d{1,2}/\d{1,2}/\d{4}\b`),
		longDatePat: regexp.MustCompile(`(?i)(?:ngày\s+)?(\d{1,2})\s+tháng\s+(\d{1,2})\s+năm\s+(\d{4})`),
	}
}

// Classify determines whether candidate entails, contradicts or is neutral
// toward reference. Model failures degrade to (neutral, 0) so grading can
// continue without the guardrail.
func (la *LogicAnalyzer) Classify(ctx context.Context, candidate, reference string) (Relation, float64) {
	c := la.norm.StripFillers(candidate)
	r := la.norm.StripFillers(reference)
	if c == "" || r == "" {
		return RelationNeutral, 0.0
	}
	logits, err := la.entailer.Entail(ctx, c, r)
	if err != nil || len(logits) != 3 {
		log.Printf("logic: entailment failed: %v", err)
		return RelationNeutral, 0.0
	}
	probs := softmax(logits)
	best := 0
	for i := range probs {
		if probs[i] > probs[best] {
			best = i
		}
	}
	labels := [3]Relation{RelationEntailment, RelationNeutral, RelationContradiction}
	return labels[best], probs[best]
}

// EntailmentProb is the softmaxed entailment probability of candidate
// supporting prop. Model failures degrade to 0.
func (la *LogicAnalyzer) EntailmentProb(ctx context.Context, candidate, prop string) float64 {
	logits, err := la.entailer.Entail(ctx, candidate, prop)
	if err != nil || len(logits) != 3 {
		log.Printf("logic: proposition entailment failed: %v", err)
		return 0.0
	}
	return softmax(logits)[0]
}

func softmax(logits []float64) []float64 {
	maxL := logits[0]
	for _, l := range logits[1:] {
		if l > maxL {
			maxL = l
		}
	}
	out := make([]float64, len(logits))
	var sum float64
	for i, l := range logits {
		out[i] = math.Exp(l - maxL)
		sum += out[i]
	}
	for i := range out {
		out[i] /= sum
	}
	return out
}

// AntonymContradiction reports whether the candidate swaps a reference term
// for its antonym. High word overlap (> 70%) suppresses the flag since the
// answer is then more likely a paraphrase, unless a strong domain antonym
// is involved.
func (la *LogicAnalyzer) AntonymContradiction(candidate, reference string) bool {
	c := strings.ToLower(candidate)
	r := strings.ToLower(reference)
	for word, antonyms := range la.lex.Antonyms {
		if !strings.Contains(r, word) {
			continue
		}
		for _, ant := range antonyms {
			if !strings.Contains(c, ant) {
				continue
			}
			strong := la.lex.StrongAntonyms[word] || la.lex.StrongAntonyms[ant]
			if !strings.Contains(c, word) || strong {
				if strong || JaccardWords(r, c) <= 0.7 {
					return true
				}
			}
		}
	}
	return false
}

// HasStrongAntonymSwap reports whether the candidate introduces a strong
// domain antonym absent from the reference. Such swaps survive the smart
// bypass.
func (la *LogicAnalyzer) HasStrongAntonymSwap(candidate, reference string) bool {
	c := strings.ToLower(candidate)
	r := strings.ToLower(reference)
	for term := range la.lex.StrongAntonyms {
		if strings.Contains(c, term) && !strings.Contains(r, term) {
			return true
		}
	}
	return false
}

// DirectionalReversal detects a swapped subject/object around a directional
// verb. Passive markers in the candidate legitimise the swap. Keywords the
// reference uses on both sides of the verb carry no direction and are
// ignored.
func (la *LogicAnalyzer) DirectionalReversal(candidate, reference string) (bool, string) {
	r := strings.ToLower(reference)
	c := strings.ToLower(candidate)

	var verb string
	verbPosRef := -1
	for _, v := range la.lex.DirectionalVerbs {
		if i := strings.Index(r, v); i >= 0 {
			verb = v
			verbPosRef = i
			break
		}
	}
	if verb == "" {
		return false, ""
	}

	verbPosCand := strings.Index(c, verb)
	if verbPosCand < 0 {
		return false, verb
	}
	for _, marker := range la.lex.PassiveMarkers {
		if containsWord(c, marker) {
			return false, verb
		}
	}

	refPre := Keywords(r[:verbPosRef], 3, la.lex.Stopwords)
	refPost := Keywords(r[verbPosRef+len(verb):], 3, la.lex.Stopwords)
	if len(refPre) == 0 || len(refPost) == 0 {
		return false, verb
	}
	shared := make(map[string]bool)
	for w := range refPre {
		if refPost[w] {
			shared[w] = true
		}
	}

	candPre := c[:verbPosCand]
	candPost := c[verbPosCand+len(verb):]
	for w := range refPre {
		if !shared[w] && strings.Contains(candPost, w) {
			return true, verb
		}
	}
	for w := range refPost {
		if !shared[w] && strings.Contains(candPre, w) {
			return true, verb
		}
	}
	return false, verb
}

// HasDirectionalVerb reports whether the reference carries any directional
// verb, which disables the high-cosine entailment shortcut.
func (la *LogicAnalyzer) HasDirectionalVerb(reference string) bool {
	r := strings.ToLower(reference)
	for _, v := range la.lex.DirectionalVerbs {
		if strings.Contains(r, v) {
			return true
		}
	}
	return false
}

// FactConflict checks dates, years and locations for hard factual
// disagreement. Full dates are compared when both sides carry them,
// otherwise bare years. Generic regions never conflict on their own.
func (la *LogicAnalyzer) FactConflict(candidate, reference string) (bool, string) {
	refDates := la.extractDates(reference)
	candDates := la.extractDates(candidate)
	if len(refDates) > 0 && len(candDates) > 0 {
		if disjoint(refDates, candDates) {
			return true, "Date"
		}
	} else {
		refYears := stringSet(la.yearPat.FindAllString(reference, -1))
		candYears := stringSet(la.yearPat.FindAllString(candidate, -1))
		if len(refYears) > 0 && len(candYears) > 0 && disjoint(refYears, candYears) {
			return true, "Year"
		}
	}

	refLocs := la.specificLocations(reference)
	candLocs := la.specificLocations(candidate)
	if len(refLocs) > 0 && len(candLocs) > 0 {
		extra := false
		for l := range candLocs {
			if !refLocs[l] {
				extra = true
				break
			}
		}
		if extra && disjoint(refLocs, candLocs) {
			return true, "Location"
		}
	}
	return false, ""
}

// extractDates collects DD/MM/YYYY dates, normalizing the Vietnamese long
// form "ngày 2 tháng 9 năm 1945" to the same shape.
func (la *LogicAnalyzer) extractDates(text string) map[string]bool {
	dates := make(map[string]bool)
	for _, d := range la.datePat.FindAllString(text, -1) {
		dates[normalizeDate(d)] = true
	}
	for _, m := range la.longDatePat.FindAllStringSubmatch(text, -1) {
		day, _ := strconv.Atoi(m[1])
		month, _ := strconv.Atoi(m[2])
		dates[fmt.Sprintf("%02d/%02d/%s", day, month, m[3])] = true
	}
	return dates
}

func normalizeDate(d string) string {
	parts := strings.Split(d, "/")
	if len(parts) != 3 {
		return d
	}
	day, _ := strconv.Atoi(parts[0])
	month, _ := strconv.Atoi(parts[1])
	return fmt.Sprintf("%02d/%02d/%s", day, month, parts[2])
}

func (la *LogicAnalyzer) specificLocations(text string) map[string]bool {
	lower := strings.ToLower(text)
	found := make(map[string]bool)
	for loc := range la.lex.HardLocations {
		if la.lex.GenericLocations[loc] {
			continue
		}
		if strings.Contains(lower, loc) {
			found[loc] = true
		}
	}
	return found
}

func stringSet(items []string) map[string]bool {
	set := make(map[string]bool, len(items))
	for _, it := range items {
		set[it] = true
	}
	return set
}

func disjoint(a, b map[string]bool) bool {
	for k := range a {
		if b[k] {
			return false
		}
	}
	return true
}
