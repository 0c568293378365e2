package grading_test

import (
	"math"
	"testing"

	"github.com/vnexam/autograde/internal/grading"
)

func almost(t *testing.T, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestSimilarity(t *testing.T) {
	almost(t, grading.Similarity("abc", "abc"), 1.0)
	almost(t, grading.Similarity("abcd", "abce"), 0.75)
	almost(t, grading.Similarity("", ""), 1.0)
	almost(t, grading.Similarity("", "abc"), 0.0)
}

func TestSimilarityCountsRunesNotBytes(t *testing.T) {
	// One rune substitution out of two runes, even though the diacritic
	// letter is multi-byte.
	almost(t, grading.Similarity("hà", "ha"), 0.5)
}

func TestDiacriticSimilarity(t *testing.T) {
	almost(t, grading.DiacriticSimilarity("hà nội", "ha noi"), 1.0)
	if got := grading.DiacriticSimilarity("hà nội", "đà nẵng"); got >= 1.0 {
		t.Fatalf("different cities should not fold equal, got %v", got)
	}
}

func TestKeywords(t *testing.T) {
	stop := grading.DefaultLexicon().Stopwords
	kw := grading.Keywords("Việt Nam là nước đẹp", 2, stop)
	for _, want := range []string{"việt", "nam", "nước", "đẹp"} {
		if !kw[want] {
			t.Fatalf("expected keyword %q in %v", want, kw)
		}
	}
	if kw["là"] {
		t.Fatalf("stopword leaked into keywords: %v", kw)
	}
}

func TestKeywordOverlap(t *testing.T) {
	stop := grading.DefaultLexicon().Stopwords
	almost(t, grading.KeywordOverlap("con mèo ngủ", "con mèo đang ngủ say", stop), 1.0)
	almost(t, grading.KeywordOverlap("con mèo", "trời mưa", stop), 0.0)
	almost(t, grading.KeywordOverlap("", "trời mưa", stop), 0.0)
}

func TestJaccardWords(t *testing.T) {
	almost(t, grading.JaccardWords("a b c", "b c d"), 0.5)
	almost(t, grading.JaccardWords("x y", "x y"), 1.0)
}

func TestFuzzyWordMatch(t *testing.T) {
	if !grading.FuzzyWordMatch("học", "hoc", 0.8) {
		t.Fatalf("diacritic-folded words should match")
	}
	if grading.FuzzyWordMatch("mèo", "chó", 0.8) {
		t.Fatalf("unrelated words should not match")
	}
}

func TestFuzzyContains(t *testing.T) {
	if !grading.FuzzyContains("hôm nay trời rất đẹp", "trời", 0.8) {
		t.Fatalf("exact substring should match")
	}
	if !grading.FuzzyContains("hom nay troi dep", "trời", 0.8) {
		t.Fatalf("typo word should match")
	}
	if grading.FuzzyContains("hôm nay trời đẹp", "máy tính", 0.8) {
		t.Fatalf("absent keyword should not match")
	}
}

func TestSequenceRatio(t *testing.T) {
	almost(t, grading.SequenceRatio([]string{"a", "b", "c"}, []string{"a", "b", "c"}), 1.0)
	almost(t, grading.SequenceRatio([]string{"a", "b"}, []string{"c", "d"}), 0.0)
	almost(t, grading.SequenceRatio([]string{"a", "b"}, []string{"a"}), 2.0/3.0)
	almost(t, grading.SequenceRatio(nil, nil), 1.0)
}

func TestCosine(t *testing.T) {
	almost(t, grading.Cosine([]float32{1, 0}, []float32{1, 0}), 1.0)
	almost(t, grading.Cosine([]float32{1, 0}, []float32{0, 1}), 0.0)
	almost(t, grading.Cosine([]float32{1, 0}, []float32{1}), 0.0)
	almost(t, grading.Cosine(nil, nil), 0.0)
}
