package grading

import "math"

// Category tags the decision path that produced a result.
type Category string

const (
	CategoryExact             Category = "Exact"
	CategoryTypo              Category = "Typo"
	CategoryParaphrase        Category = "Paraphrase"
	CategoryPartial           Category = "Partial"
	CategoryContradiction     Category = "Contradiction"
	CategoryFactError         Category = "Fact Error"
	CategoryLogicReversal     Category = "Logic Reversal"
	CategoryOffTopic          Category = "Off-topic"
	CategoryCodeMatch         Category = "Code Match"
	CategoryWrongAlgorithm    Category = "Wrong Algorithm"
	CategoryLogicError        Category = "Logic Error"
	CategoryPartialCode       Category = "Partial Code"
	CategoryStructureMismatch Category = "Structure Mismatch"
	CategorySQLMatch          Category = "SQL Match"
	CategorySQLError          Category = "SQL Error"
	CategoryMathMatch         Category = "Math Match"
	CategoryMathError         Category = "Math Error"
	CategoryWrongFormat       Category = "Wrong Format"
	CategoryLearnedPattern    Category = "Learned Pattern"
	CategoryNone              Category = "None"
)

// Request is one grading call: a candidate answer judged against a reference
// answer on a 0..PointCap scale.
type Request struct {
	CandidateText string  `json:"student_answer"`
	ReferenceText string  `json:"model_answer"`
	PointCap      float64 `json:"max_points"`
}

// Result is the outcome of grading a single answer.
type Result struct {
	Score          float64  `json:"score"`
	Confidence     float64  `json:"confidence"`
	Explanation    string   `json:"explanation"`
	Category       Category `json:"category"`
	FactMultiplier float64  `json:"fact_multiplier"`
}

func newResult(score float64, explanation string, cat Category) Result {
	return Result{
		Score:          round2(score),
		Confidence:     1.0,
		Explanation:    explanation,
		Category:       cat,
		FactMultiplier: 1.0,
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
