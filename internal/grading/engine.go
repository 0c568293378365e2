package grading

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"
	"unicode/utf8"
)

// ErrPointCap reports a Grade call with a non-positive point cap.
var ErrPointCap = errors.New("grading: point cap must be positive")

// Embedder produces a sentence embedding for a text.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Segmenter word-segments Vietnamese text before embedding. Optional; a
// failing or absent segmenter falls back to the raw text.
type Segmenter interface {
	Segment(ctx context.Context, text string) (string, error)
}

// PatternSource answers from instructor-confirmed grading memory.
type PatternSource interface {
	Lookup(candidateText, referenceText string, pointCap float64) (Result, bool)
}

// Engine runs the grading decision pipeline. Stages are ordered cheapest
// first; the first stage that reaches a verdict ends the run.
type Engine struct {
	cfg   Config
	lex   *Lexicon
	norm  *Normalizer
	logic *LogicAnalyzer
	tech  *TechnicalAnalyzer

	embedder  Embedder
	segmenter Segmenter
	patterns  PatternSource

	simpleMathRef *regexp.Regexp
	anyDigit      *regexp.Regexp
	mathTail      *regexp.Regexp
	leadingNum    *regexp.Regexp
}

// Option configures an Engine.
type Option func(*Engine)

// WithConfig overrides the default thresholds.
func WithConfig(cfg Config) Option { return func(e *Engine) { e.cfg = cfg } }

// WithLexicon overrides the default word lists.
func WithLexicon(lex *Lexicon) Option { return func(e *Engine) { e.lex = lex } }

// WithPatternSource attaches learned grading memory.
func WithPatternSource(ps PatternSource) Option { return func(e *Engine) { e.patterns = ps } }

// WithSegmenter attaches a word segmenter applied before embedding.
func WithSegmenter(s Segmenter) Option { return func(e *Engine) { e.segmenter = s } }

func NewEngine(embedder Embedder, entailer Entailer, opts ...Option) *Engine {
	e := &Engine{
		cfg:      DefaultConfig(),
		lex:      DefaultLexicon(),
		embedder: embedder,

		simpleMathRef: regexp.MustCompile(`^[\d\s.+\-×÷*/=]+[.!?]?$`),
		anyDigit:      regexp.MustCompile(`\d`),
		mathTail:      regexp.MustCompile(`(?i)[.!?,\s]*(ạ|nhé|nha|vậy|thế)?\s*$`),
		leadingNum:    regexp.MustCompile(`^-?\d+\.?\d*`),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.norm = NewNormalizer(e.lex)
	e.logic = NewLogicAnalyzer(e.lex, e.norm, entailer)
	e.tech = NewTechnicalAnalyzer()
	return e
}

// Normalizer exposes the engine's text folding, shared with the pattern
// store so both index answers identically.
func (e *Engine) Normalizer() *Normalizer { return e.norm }

// Grade scores a candidate answer against the reference on a 0..PointCap
// scale. A missing candidate or reference yields a zero result, not an
// error; a non-positive cap is a caller bug and errors; an embedding
// failure errors because no semantic verdict is possible without it.
func (e *Engine) Grade(ctx context.Context, req Request) (Result, error) {
	if req.PointCap <= 0 {
		return Result{}, ErrPointCap
	}
	if strings.TrimSpace(req.CandidateText) == "" || strings.TrimSpace(req.ReferenceText) == "" {
		return newResult(0, "Missing input text.", CategoryNone), nil
	}
	points := req.PointCap

	// Raw exact match, before any folding.
	if strings.TrimSpace(req.CandidateText) == strings.TrimSpace(req.ReferenceText) {
		return newResult(points, "Exact match.", CategoryExact), nil
	}

	candSyn := e.norm.ApplySynonyms(req.CandidateText)
	refSyn := e.norm.ApplySynonyms(req.ReferenceText)
	candClean := e.norm.StripFillers(candSyn)
	candNorm := e.norm.Normalize(candClean)
	refNorm := e.norm.Normalize(refSyn)

	refLen := utf8.RuneCountInString(req.ReferenceText)
	lengthRatio := 0.0
	if refLen > 0 {
		lengthRatio = float64(utf8.RuneCountInString(candClean)) / float64(refLen)
	}
	isLongRef := refLen > e.cfg.LongRefChars

	// Normalized exact match.
	if candNorm == refNorm {
		return newResult(points, "Exact match.", CategoryExact), nil
	}

	// Simple numeric answers: "8", "= 8" and "1 + 7 = 8" all agree.
	if e.simpleMathRef.MatchString(strings.TrimSpace(req.ReferenceText)) && e.anyDigit.MatchString(req.CandidateText) {
		if e.mathAnswer(req.ReferenceText) == e.mathAnswer(req.CandidateText) {
			return newResult(points, "Đáp án chính xác.", CategoryExact), nil
		}
	}

	// Learned pattern memory.
	if e.patterns != nil {
		if res, ok := e.patterns.Lookup(req.CandidateText, req.ReferenceText, points); ok {
			return res, nil
		}
	}

	// Technical answers (code, SQL, math expressions).
	if res := e.tech.Analyze(req.ReferenceText, req.CandidateText, points); res != nil {
		return *res, nil
	}

	// Semantic pre-check for the smart bypass.
	embCand, err := e.embedText(ctx, candClean)
	if err != nil {
		return Result{}, fmt.Errorf("embed candidate: %w", err)
	}
	embRef, err := e.embedText(ctx, refSyn)
	if err != nil {
		return Result{}, fmt.Errorf("embed reference: %w", err)
	}
	cosine := Cosine(embCand, embRef)

	bypassThreshold := e.cfg.BypassCosine
	if isLongRef {
		bypassThreshold = e.cfg.BypassCosineLongRef
	}
	bypass := cosine >= bypassThreshold

	diacRatio := Similarity(
		e.norm.Normalize(StripDiacritics(candClean)),
		e.norm.Normalize(StripDiacritics(req.ReferenceText)),
	)
	if isLongRef && diacRatio >= e.cfg.LongRefDiacriticBypass {
		bypass = true
	}

	// Guardrails. The factual check never yields to the bypass.
	candExpanded := e.norm.ExpandAbbreviations(candClean)

	if e.logic.AntonymContradiction(candClean, req.ReferenceText) {
		strong := e.logic.HasStrongAntonymSwap(candClean, req.ReferenceText)
		if !bypass || strong {
			return newResult(points*e.cfg.AntonymFloor,
				"Phát hiện mâu thuẫn ngữ nghĩa nghiêm trọng (False Antonym).",
				CategoryContradiction), nil
		}
		log.Printf("grading: antonym penalty bypassed (cosine=%.3f)", cosine)
	}

	if conflict, kind := e.logic.FactConflict(candExpanded, req.ReferenceText); conflict {
		return newResult(points*e.cfg.FactFloor,
			fmt.Sprintf("Sai lệch thông tin quan trọng (%s).", kind),
			CategoryFactError), nil
	}

	if reversed, verb := e.logic.DirectionalReversal(candClean, req.ReferenceText); reversed {
		if !bypass {
			return newResult(points*e.cfg.ReversalFloor,
				fmt.Sprintf("Đảo ngược quan hệ logic ('%s'). A→B ≠ B→A.", verb),
				CategoryLogicReversal), nil
		}
		log.Printf("grading: reversal penalty bypassed for verb %q", verb)
	}

	// Length-ratio partial detection.
	if isLongRef && lengthRatio < e.cfg.ShortAnswerRatioLongRef {
		overlap := KeywordOverlap(req.ReferenceText, candClean, e.lex.Stopwords)
		if overlap > e.cfg.KeywordOverlapLongRef {
			propScore := overlap
			if propScore < 0.2 {
				propScore = 0.2
			}
			return newResult(points*(0.15+propScore*0.40),
				fmt.Sprintf("Câu trả lời quá ngắn so với yêu cầu (%d%%).", int(lengthRatio*100)),
				CategoryPartial), nil
		}
	}
	if !isLongRef && lengthRatio < e.cfg.ShortAnswerRatioShortRef {
		overlap := KeywordOverlap(req.ReferenceText, candClean, e.lex.Stopwords)
		if overlap > e.cfg.KeywordOverlapShortRef {
			return newResult(points*0.5, "Trả lời đúng một phần (thiếu chi tiết).", CategoryPartial), nil
		}
	}

	// Fuzzy and typo tiers.
	editRatio := Similarity(candNorm, refNorm)
	if editRatio >= e.cfg.NearExactSimilarity {
		score := points * (0.95 + (editRatio - 0.95))
		if score > points {
			score = points
		}
		return newResult(score, "Near-exact match.", CategoryTypo), nil
	}
	if diacRatio >= e.cfg.DiacriticTypo {
		return newResult(points*0.95, "Correct answer with diacritic typos.", CategoryTypo), nil
	}
	if editRatio >= e.cfg.HighSimilarity {
		return newResult(points*0.90, "High similarity.", CategoryTypo), nil
	}
	if isLongRef && diacRatio >= e.cfg.DiacriticTypoLong {
		return newResult(points*0.85, "Câu trả lời đúng với lỗi chính tả.", CategoryTypo), nil
	}

	// Deep analysis: NLI relation plus proposition coverage.
	hasDirectional := e.logic.HasDirectionalVerb(req.ReferenceText)

	relation, relConf := RelationEntailment, 1.0
	if !(cosine > 0.90 && !hasDirectional) {
		relation, relConf = e.logic.Classify(ctx, candClean, refSyn)
	}

	contradiction := relation == RelationContradiction && relConf > e.cfg.ContradictionThreshold
	if contradiction && refLen < 100 && cosine > 0.60 {
		contradiction = false
	}

	props := e.lex.ExtractPropositions(req.ReferenceText)
	total := len(props)
	var matched int
	var missing []int
	if total > 0 && cosine > 0.90 && !hasDirectional {
		matched = total
	} else {
		matched, missing = e.matchPropositions(ctx, candClean, props)
	}
	propRatio := 0.0
	if total > 0 {
		propRatio = float64(matched) / float64(total)
	}

	// Off-topic veto.
	if relation == RelationNeutral && propRatio < 0.2 && cosine < 0.5 {
		return newResult(points*e.cfg.OffTopicFloor,
			fmt.Sprintf("Answer appears off-topic. (Sem: %.2f)", cosine),
			CategoryOffTopic), nil
	}

	// Rescue overrides, in order: typo, valid partial, short partial.
	rescueMsg := ""
	forceTypo := false
	if diacRatio >= e.cfg.TypoRescueDiacritic {
		contradiction = false
		forceTypo = true
		rescueMsg = " (Rescued by Fuzzy Typo Check)"
	}
	if contradiction {
		if propRatio >= e.cfg.ContradictionRescueProp {
			contradiction = false
			rescueMsg += " (Rescued: Valid Partial)"
		} else if matched >= 1 && total <= 2 {
			contradiction = false
			rescueMsg += " (Rescued: Valid Partial Short)"
		}
	}
	if contradiction {
		return newResult(points*e.cfg.ContradictionFloorDeep,
			fmt.Sprintf("Contradiction detected. (Sem: %.2f)", cosine),
			CategoryContradiction), nil
	}

	// Tiered scoring.
	base := clamp01(cosine)*e.cfg.WeightSemantic + propRatio*e.cfg.WeightPropositions
	pct := base
	category := CategoryPartial
	feedback := fmt.Sprintf("Semantic: %.2f, Props: %d/%d.%s", cosine, matched, total, rescueMsg)

	paraphrase := relation == RelationEntailment ||
		(propRatio == 1.0 && cosine > 0.8) ||
		(propRatio >= 0.70 && cosine > 0.85) ||
		(cosine > 0.90 && !hasDirectional)

	if isLongRef && paraphrase && lengthRatio < 0.5 {
		paraphrase = false
		pct *= lengthRatio * 1.5
		feedback += fmt.Sprintf(" (Demoted: Too short %d%%)", int(lengthRatio*100))
	}

	if paraphrase {
		category = CategoryParaphrase
		if pct < e.cfg.ParaphraseFloor {
			pct = e.cfg.ParaphraseFloor
		}
		feedback = "Great answer! Good logic match."
	}

	if forceTypo {
		category = CategoryTypo
		if pct < e.cfg.TypoRescueFloor {
			pct = e.cfg.TypoRescueFloor
		}
		feedback = fmt.Sprintf("Answer has typos but is mostly correct.%s", rescueMsg)
	}

	if !paraphrase && !forceTypo && matched < total {
		category = CategoryPartial
		switch {
		case propRatio >= 0.5:
			pct = 0.40 + propRatio*0.30
		case propRatio >= 0.25:
			pct = 0.25 + propRatio*0.30
		default:
			pct = propRatio * 0.50
			if pct < 0.15 {
				pct = 0.15
			}
		}
		if len(missing) > 0 {
			show := missing
			if len(show) > 2 {
				show = show[:2]
			}
			parts := make([]string, len(show))
			for i, idx := range show {
				parts[i] = props[idx]
			}
			feedback = fmt.Sprintf("Bạn trả lời đúng một phần (%d%%). (Sem: %.2f). Thiếu ý: %s...",
				int(propRatio*100), cosine, strings.Join(parts, "; "))
		}
	}

	// Late typo override.
	if diacRatio >= e.cfg.LateTypoDiacritic && pct < 0.85 {
		pct = 0.85
		category = CategoryTypo
		feedback = "Correct answer with typos."
	}

	return newResult(pct*points, feedback, category), nil
}

// matchPropositions decides per proposition whether the candidate covers
// it, blending NLI entailment with keyword overlap. Overlap vetoes an
// entailment the words cannot support and overrides one the words clearly
// do support.
func (e *Engine) matchPropositions(ctx context.Context, candidate string, props []string) (int, []int) {
	matched := 0
	var missing []int
	for i, prop := range props {
		nli := e.logic.EntailmentProb(ctx, candidate, prop)
		overlap := KeywordOverlap(prop, candidate, e.lex.Stopwords)

		var ok bool
		switch {
		case nli > 0.8 && overlap < 0.2:
			ok = false
		case nli < 0.5 && overlap > 0.7:
			ok = true
		default:
			ok = nli > e.cfg.EntailmentThreshold
		}
		if ok {
			matched++
		} else {
			missing = append(missing, i)
		}
	}
	return matched, missing
}

func (e *Engine) embedText(ctx context.Context, text string) ([]float32, error) {
	input := text
	if e.segmenter != nil {
		if seg, err := e.segmenter.Segment(ctx, text); err == nil && seg != "" {
			input = seg
		} else if err != nil {
			log.Printf("grading: segmentation failed, using raw text: %v", err)
		}
	}
	return e.embedder.Embed(ctx, input)
}

// mathAnswer extracts the numeric result of a simple arithmetic answer:
// the value after the last '=', trailing fillers removed.
func (e *Engine) mathAnswer(text string) string {
	s := strings.TrimSpace(text)
	s = e.mathTail.ReplaceAllString(s, "")
	if i := strings.LastIndex(s, "="); i >= 0 {
		s = strings.TrimSpace(s[i+1:])
	}
	if m := e.leadingNum.FindString(s); m != "" {
		return m
	}
	return s
}
