package grading_test

import (
	"reflect"
	"testing"

	"github.com/vnexam/autograde/internal/grading"
)

func TestExtractPropositionsSentences(t *testing.T) {
	lex := grading.DefaultLexicon()
	got := lex.ExtractPropositions("Nước sôi ở 100 độ. Nước đóng băng ở 0 độ.")
	want := []string{"Nước sôi ở 100 độ", "Nước đóng băng ở 0 độ"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractPropositionsConnective(t *testing.T) {
	lex := grading.DefaultLexicon()
	got := lex.ExtractPropositions("Quang hợp tạo ra oxy và glucose")
	want := []string{"Quang hợp tạo ra oxy", "glucose"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractPropositionsLongestConnectiveWins(t *testing.T) {
	lex := grading.DefaultLexicon()
	// "bởi vì" must split as one connective, not leave a dangling "vì".
	got := lex.ExtractPropositions("Lá cây màu xanh bởi vì diệp lục")
	want := []string{"Lá cây màu xanh", "diệp lục"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractPropositionsUppercaseWidensWhenLowered(t *testing.T) {
	lex := grading.DefaultLexicon()
	// U+023A lowercases to U+2C65, which is one byte wider in UTF-8, so
	// the connective scan must not mix offsets between the two forms.
	got := lex.ExtractPropositions("Ⱥ Ⱥ Ⱥ Ⱥ Ⱥ và b")
	want := []string{"Ⱥ Ⱥ Ⱥ Ⱥ Ⱥ", "b"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractPropositionsUppercaseConnective(t *testing.T) {
	lex := grading.DefaultLexicon()
	got := lex.ExtractPropositions("Quang hợp tạo ra oxy VÀ glucose")
	want := []string{"Quang hợp tạo ra oxy", "glucose"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestExtractPropositionsFallback(t *testing.T) {
	lex := grading.DefaultLexicon()
	if got := lex.ExtractPropositions("Đúng"); !reflect.DeepEqual(got, []string{"Đúng"}) {
		t.Fatalf("got %v", got)
	}
	// A connective-only answer falls back to the whole text.
	if got := lex.ExtractPropositions("và"); !reflect.DeepEqual(got, []string{"và"}) {
		t.Fatalf("got %v", got)
	}
	if got := lex.ExtractPropositions("   "); got != nil {
		t.Fatalf("blank input should yield nil, got %v", got)
	}
}
