package grading

// Config holds the fixed decision thresholds of the pipeline. These are
// tuned constants, not user input; handlers must never expose them.
type Config struct {
	// Smart bypass: cosine similarity at which guardrails may be skipped.
	// Long references (over LongRefChars) use the lower threshold.
	BypassCosine        float64
	BypassCosineLongRef float64
	LongRefChars        int

	// Diacritic-insensitive similarity that activates the bypass for long
	// references (typo-heavy but otherwise correct answers).
	LongRefDiacriticBypass float64

	// Guardrail floors, as a fraction of the point cap.
	AntonymFloor           float64
	FactFloor              float64
	ReversalFloor          float64
	OffTopicFloor          float64
	ContradictionFloorDeep float64

	// NLI decision thresholds.
	EntailmentThreshold    float64
	ContradictionThreshold float64

	// Length-ratio partial detection.
	ShortAnswerRatioLongRef  float64
	ShortAnswerRatioShortRef float64
	KeywordOverlapLongRef    float64
	KeywordOverlapShortRef   float64

	// Fuzzy / typo tiers (normalized edit-distance similarity).
	NearExactSimilarity float64
	HighSimilarity      float64
	DiacriticTypo       float64
	DiacriticTypoLong   float64

	// Deep-analysis blend weights.
	WeightSemantic     float64
	WeightPropositions float64

	// Rescue / override thresholds.
	TypoRescueDiacritic     float64
	LateTypoDiacritic       float64
	ContradictionRescueProp float64

	ParaphraseFloor float64
	TypoRescueFloor float64
}

// DefaultConfig mirrors the tuned production thresholds.
func DefaultConfig() Config {
	return Config{
		BypassCosine:           0.96,
		BypassCosineLongRef:    0.85,
		LongRefChars:           300,
		LongRefDiacriticBypass: 0.65,

		AntonymFloor:           0.05,
		FactFloor:              0.10,
		ReversalFloor:          0.20,
		OffTopicFloor:          0.15,
		ContradictionFloorDeep: 0.10,

		EntailmentThreshold:    0.50,
		ContradictionThreshold: 0.75,

		ShortAnswerRatioLongRef:  0.4,
		ShortAnswerRatioShortRef: 0.5,
		KeywordOverlapLongRef:    0.35,
		KeywordOverlapShortRef:   0.3,

		NearExactSimilarity: 0.95,
		HighSimilarity:      0.90,
		DiacriticTypo:       0.95,
		DiacriticTypoLong:   0.80,

		WeightSemantic:     0.30,
		WeightPropositions: 0.70,

		TypoRescueDiacritic:     0.75,
		LateTypoDiacritic:       0.85,
		ContradictionRescueProp: 0.25,

		ParaphraseFloor: 0.85,
		TypoRescueFloor: 0.80,
	}
}
