package grading_test

import (
	"context"
	"errors"
	"testing"

	"github.com/vnexam/autograde/internal/grading"
)

type stubEntailer struct {
	logits []float64
	err    error
}

func (s *stubEntailer) Entail(_ context.Context, _, _ string) ([]float64, error) {
	return s.logits, s.err
}

func newLogicAnalyzer(e grading.Entailer) *grading.LogicAnalyzer {
	lex := grading.DefaultLexicon()
	return grading.NewLogicAnalyzer(lex, grading.NewNormalizer(lex), e)
}

func TestClassifyEntailment(t *testing.T) {
	la := newLogicAnalyzer(&stubEntailer{logits: []float64{10, 0, 0}})
	rel, conf := la.Classify(context.Background(), "cây cần nước", "thực vật cần nước")
	if rel != grading.RelationEntailment {
		t.Fatalf("expected entailment, got %s", rel)
	}
	if conf < 0.99 {
		t.Fatalf("expected near-certain confidence, got %v", conf)
	}
}

func TestClassifyDegradesOnModelFailure(t *testing.T) {
	la := newLogicAnalyzer(&stubEntailer{err: errors.New("model down")})
	rel, conf := la.Classify(context.Background(), "cây cần nước", "thực vật cần nước")
	if rel != grading.RelationNeutral || conf != 0.0 {
		t.Fatalf("expected neutral/0 on failure, got %s/%v", rel, conf)
	}
}

func TestClassifyEmptyInput(t *testing.T) {
	la := newLogicAnalyzer(&stubEntailer{logits: []float64{10, 0, 0}})
	rel, conf := la.Classify(context.Background(), "", "thực vật cần nước")
	if rel != grading.RelationNeutral || conf != 0.0 {
		t.Fatalf("expected neutral/0 for empty text, got %s/%v", rel, conf)
	}
}

func TestEntailmentProbDegradesToZero(t *testing.T) {
	la := newLogicAnalyzer(&stubEntailer{err: errors.New("model down")})
	if p := la.EntailmentProb(context.Background(), "a", "b"); p != 0.0 {
		t.Fatalf("expected 0, got %v", p)
	}
}

func TestAntonymContradiction(t *testing.T) {
	la := newLogicAnalyzer(&stubEntailer{})
	if !la.AntonymContradiction("sản lượng giảm", "sản lượng tăng") {
		t.Fatalf("expected antonym swap to flag")
	}
	// The candidate also carries the original word, so the swap is not clean.
	if la.AntonymContradiction("sản lượng tăng rồi giảm", "sản lượng tăng") {
		t.Fatalf("candidate containing the reference word must not flag")
	}
}

func TestStrongAntonymAlwaysFlags(t *testing.T) {
	la := newLogicAnalyzer(&stubEntailer{})
	if !la.AntonymContradiction("ty thể thực hiện quang hợp", "lục lạp thực hiện quang hợp") {
		t.Fatalf("strong domain antonym must flag")
	}
	if !la.HasStrongAntonymSwap("ty thể thực hiện quang hợp", "lục lạp thực hiện quang hợp") {
		t.Fatalf("expected strong antonym swap")
	}
	if la.HasStrongAntonymSwap("lục lạp thực hiện quang hợp", "lục lạp thực hiện quang hợp") {
		t.Fatalf("no swap when the term is shared")
	}
}

func TestDirectionalReversal(t *testing.T) {
	la := newLogicAnalyzer(&stubEntailer{})
	rev, verb := la.DirectionalReversal("trái đất quay quanh mặt trăng", "mặt trăng quay quanh trái đất")
	if !rev {
		t.Fatalf("expected reversal")
	}
	if verb != "quay quanh" {
		t.Fatalf("expected verb 'quay quanh', got %q", verb)
	}
}

func TestDirectionalReversalPassiveVoice(t *testing.T) {
	la := newLogicAnalyzer(&stubEntailer{})
	rev, _ := la.DirectionalReversal("trái đất được mặt trăng quay quanh", "mặt trăng quay quanh trái đất")
	if rev {
		t.Fatalf("passive marker must legitimise the swap")
	}
}

func TestHasDirectionalVerb(t *testing.T) {
	la := newLogicAnalyzer(&stubEntailer{})
	if !la.HasDirectionalVerb("ánh sáng ảnh hưởng quang hợp") {
		t.Fatalf("expected directional verb")
	}
	if la.HasDirectionalVerb("con mèo đang ngủ") {
		t.Fatalf("no directional verb expected")
	}
}

func TestFactConflictYear(t *testing.T) {
	la := newLogicAnalyzer(&stubEntailer{})
	conflict, kind := la.FactConflict("sự kiện diễn ra năm 1946", "sự kiện diễn ra năm 1945")
	if !conflict || kind != "Year" {
		t.Fatalf("expected Year conflict, got %v/%q", conflict, kind)
	}
	conflict, _ = la.FactConflict("sự kiện diễn ra năm 1945", "sự kiện diễn ra năm 1945")
	if conflict {
		t.Fatalf("same year must not conflict")
	}
}

func TestFactConflictDateNormalization(t *testing.T) {
	la := newLogicAnalyzer(&stubEntailer{})
	// The long Vietnamese form and the slash form name the same date.
	conflict, _ := la.FactConflict("02/09/1945", "ngày 2 tháng 9 năm 1945")
	if conflict {
		t.Fatalf("equivalent dates must not conflict")
	}
	conflict, kind := la.FactConflict("03/09/1945", "ngày 2 tháng 9 năm 1945")
	if !conflict || kind != "Date" {
		t.Fatalf("expected Date conflict, got %v/%q", conflict, kind)
	}
}

func TestFactConflictLocation(t *testing.T) {
	la := newLogicAnalyzer(&stubEntailer{})
	conflict, kind := la.FactConflict("chiến thắng bạch đằng", "chiến thắng điện biên phủ")
	if !conflict || kind != "Location" {
		t.Fatalf("expected Location conflict, got %v/%q", conflict, kind)
	}
	// Generic regions are too broad to conflict on their own.
	conflict, _ = la.FactConflict("diễn ra ở việt nam", "chiến thắng điện biên phủ")
	if conflict {
		t.Fatalf("generic region must not conflict")
	}
}
