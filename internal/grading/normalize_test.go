package grading_test

import (
	"testing"

	"github.com/vnexam/autograde/internal/grading"
)

func newNormalizer() *grading.Normalizer {
	return grading.NewNormalizer(grading.DefaultLexicon())
}

func TestNormalize(t *testing.T) {
	n := newNormalizer()
	if got := n.Normalize("  Computer   rất  nhanh "); got != "máy tính rất nhanh" {
		t.Fatalf("got %q", got)
	}
	if got := n.Normalize(""); got != "" {
		t.Fatalf("empty input should stay empty, got %q", got)
	}
}

func TestNormalizeKey(t *testing.T) {
	n := newNormalizer()
	if got := n.NormalizeKey("Hà Nội, 1945!"); got != "hà nội 1945" {
		t.Fatalf("got %q", got)
	}
	// No synonym folding in the key form.
	if got := n.NormalizeKey("computer"); got != "computer" {
		t.Fatalf("key form must not map synonyms, got %q", got)
	}
}

func TestApplySynonymsWordBoundary(t *testing.T) {
	n := newNormalizer()
	if got := n.ApplySynonyms("pc của em"); got != "máy tính của em" {
		t.Fatalf("got %q", got)
	}
	// "pc" inside a longer word must not be replaced.
	if got := n.ApplySynonyms("npc"); got != "npc" {
		t.Fatalf("got %q", got)
	}
}

func TestExpandAbbreviations(t *testing.T) {
	n := newNormalizer()
	if got := n.ExpandAbbreviations("vn cntt"); got != "việt nam công nghệ thông tin" {
		t.Fatalf("got %q", got)
	}
}

func TestStripFillers(t *testing.T) {
	n := newNormalizer()
	if got := n.StripFillers("Dạ thưa cô, em nghĩ là đáp án là Hà Nội ạ."); got != "hà nội" {
		t.Fatalf("got %q", got)
	}
}

func TestStripFillersExamLabel(t *testing.T) {
	n := newNormalizer()
	if got := n.StripFillers("Câu 1: Quang hợp"); got != "quang hợp" {
		t.Fatalf("got %q", got)
	}
}

func TestStripDiacritics(t *testing.T) {
	if got := grading.StripDiacritics("Phần mềm"); got != "Phan mem" {
		t.Fatalf("got %q", got)
	}
	if got := grading.StripDiacritics("abc 123"); got != "abc 123" {
		t.Fatalf("plain text must pass through, got %q", got)
	}
}
