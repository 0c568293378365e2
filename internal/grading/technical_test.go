package grading_test

import (
	"strings"
	"testing"

	"github.com/vnexam/autograde/internal/grading"
)

const factorialRef = `def giai_thua(n):
    if n <= 1:
        return 1
    return n * giai_thua(n - 1)`

const sumCode = `def tong(n):
    total = 0
    for i in range(n):
        total += i
    return total`

func TestDetectType(t *testing.T) {
	a := grading.NewTechnicalAnalyzer()
	cases := []struct {
		text string
		want grading.AnswerType
	}{
		{"SELECT name FROM users WHERE age > 18", grading.AnswerSQL},
		{factorialRef, grading.AnswerCode},
		{"x = 5 + 3", grading.AnswerMath},
		{"Quang hợp là quá trình cây tổng hợp chất hữu cơ", grading.AnswerText},
		{"", grading.AnswerText},
	}
	for _, c := range cases {
		if got := a.DetectType(c.text); got != c.want {
			t.Fatalf("DetectType(%q) = %s, want %s", c.text, got, c.want)
		}
	}
}

func TestAnalyzeProseReferenceDefers(t *testing.T) {
	a := grading.NewTechnicalAnalyzer()
	if res := a.Analyze("Quang hợp là quá trình tổng hợp chất hữu cơ", "cây quang hợp", 10); res != nil {
		t.Fatalf("prose reference must defer to the main pipeline, got %+v", res)
	}
}

func TestAnalyzeWrongFormat(t *testing.T) {
	a := grading.NewTechnicalAnalyzer()
	res := a.Analyze(factorialRef, "em không biết viết code ạ", 10)
	if res == nil {
		t.Fatalf("expected a result")
	}
	if res.Category != grading.CategoryWrongFormat {
		t.Fatalf("expected WrongFormat, got %s", res.Category)
	}
	if res.Score != 1.0 {
		t.Fatalf("expected 10%% of cap, got %v", res.Score)
	}
}

func TestAnalyzeCodeMatch(t *testing.T) {
	a := grading.NewTechnicalAnalyzer()
	res := a.Analyze(factorialRef, factorialRef, 10)
	if res == nil {
		t.Fatalf("expected a result")
	}
	if res.Category != grading.CategoryCodeMatch {
		t.Fatalf("expected CodeMatch, got %s (%s)", res.Category, res.Explanation)
	}
	if res.Score != 10 {
		t.Fatalf("identical code should earn full marks, got %v", res.Score)
	}
}

func TestAnalyzeWrongAlgorithm(t *testing.T) {
	a := grading.NewTechnicalAnalyzer()
	res := a.Analyze(factorialRef, sumCode, 10)
	if res == nil {
		t.Fatalf("expected a result")
	}
	if res.Category != grading.CategoryLogicError {
		t.Fatalf("expected LogicError, got %s", res.Category)
	}
	if res.Score != 1.0 {
		t.Fatalf("expected 10%% of cap, got %v", res.Score)
	}
}

func TestAnalyzeLogicFaultBaseCase(t *testing.T) {
	a := grading.NewTechnicalAnalyzer()
	broken := strings.Replace(factorialRef, "return 1", "return 0", 1)
	res := a.Analyze(factorialRef, broken, 10)
	if res == nil {
		t.Fatalf("expected a result")
	}
	if res.Category != grading.CategoryLogicError {
		t.Fatalf("expected LogicError, got %s (%s)", res.Category, res.Explanation)
	}
	if res.Score != 1.0 {
		t.Fatalf("expected 10%% of cap, got %v", res.Score)
	}
}

func TestCompareSQLAliasNormalization(t *testing.T) {
	a := grading.NewTechnicalAnalyzer()
	score, _ := a.CompareSQL(
		"SELECT name FROM users WHERE age > 18",
		"SELECT u.name FROM users u WHERE u.age > 18",
	)
	if score != 1.0 {
		t.Fatalf("aliases should normalize away, got %v", score)
	}
}

func TestCompareSQLWrongTable(t *testing.T) {
	a := grading.NewTechnicalAnalyzer()
	score, feedback := a.CompareSQL(
		"SELECT name FROM users WHERE age > 18",
		"SELECT name FROM customers WHERE age > 18",
	)
	if score != 0.1 {
		t.Fatalf("wrong table is fatal, got %v (%s)", score, feedback)
	}
}

func TestCompareMath(t *testing.T) {
	a := grading.NewTechnicalAnalyzer()
	if score, _ := a.CompareMath("1 + 7 = 8", "8"); score != 1.0 {
		t.Fatalf("full working and bare result must agree, got %v", score)
	}
	if score, _ := a.CompareMath("= 8", "= 9"); score != 0.3 {
		t.Fatalf("mismatched results should floor, got %v", score)
	}
	if score, _ := a.CompareMath("2 × 4 = 8", "2 * 4 = 8"); score != 1.0 {
		t.Fatalf("glyph variants must normalize, got %v", score)
	}
}
