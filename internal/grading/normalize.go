package grading

import (
	"regexp"
	"strings"
	"unicode"
)

// Normalizer folds Vietnamese answer text into comparable forms. All methods
// are pure and safe for concurrent use.
type Normalizer struct {
	lex *Lexicon

	labelPrefix *regexp.Regexp
	bulletLead  *regexp.Regexp
	trailFiller *regexp.Regexp
	spaces      *regexp.Regexp
}

func NewNormalizer(lex *Lexicon) *Normalizer {
	return &Normalizer{
		lex: lex,
		// "Câu 1:", "Bài 2.", "Ý a)" exam labels at the start of an answer.
		labelPrefix: regexp.MustCompile(`(?i)^\s*(câu|bài)\s+\d+\s*[:.]\s*|^\s*ý\s+[abcd]\s*[:.)]\s*`),
		bulletLead:  regexp.MustCompile(`^\s*[+\-]\s*`),
		trailFiller: regexp.MustCompile(`(?i)[\s,]*(ạ|nhé|nha|ha|đó|vậy|thế|rồi|nhỉ)\s*[.!?]*\s*$`),
		spaces:      regexp.MustCompile(`\s+`),
	}
}

// Normalize lowercases, maps synonyms to canonical forms and collapses
// whitespace. This is the form exact matching and edit distance run on.
func (n *Normalizer) Normalize(text string) string {
	if text == "" {
		return ""
	}
	return n.spaces.ReplaceAllString(strings.TrimSpace(n.ApplySynonyms(text)), " ")
}

// NormalizeKey is the index key form used by the pattern store: lowercase,
// punctuation stripped, whitespace collapsed. No synonym mapping so stored
// corrections survive lexicon changes.
func (n *Normalizer) NormalizeKey(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range strings.ToLower(text) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteRune(' ')
		}
	}
	return n.spaces.ReplaceAllString(strings.TrimSpace(b.String()), " ")
}

// ApplySynonyms replaces every synonym with its canonical form, longest key
// first so multi-word entries are not clobbered by their substrings.
func (n *Normalizer) ApplySynonyms(text string) string {
	if text == "" {
		return ""
	}
	lower := strings.ToLower(text)
	for _, syn := range n.lex.SynonymOrder() {
		if strings.Contains(lower, syn) {
			lower = replaceWord(lower, syn, n.lex.Synonyms[syn])
		}
	}
	return lower
}

// ExpandAbbreviations expands shorthand tokens (tphcm, cntt) in place.
func (n *Normalizer) ExpandAbbreviations(text string) string {
	if text == "" {
		return ""
	}
	words := strings.Fields(strings.ToLower(text))
	for i, w := range words {
		if full, ok := n.lex.Abbreviations[w]; ok {
			words[i] = full
		}
	}
	return strings.Join(words, " ")
}

// StripFillers removes politeness openers, hedging phrases and exam labels
// so the comparison sees only answer content.
func (n *Normalizer) StripFillers(text string) string {
	if text == "" {
		return ""
	}
	s := text
	s = n.labelPrefix.ReplaceAllString(s, " ")
	s = n.bulletLead.ReplaceAllString(s, " ")

	for changed := true; changed; {
		changed = false
		trimmed := strings.TrimLeft(s, " \t,")
		for _, p := range answerPrefixes {
			if rest, ok := cutPrefixFold(trimmed, p); ok {
				s = strings.TrimLeft(rest, " \t,:")
				changed = true
				break
			}
		}
	}

	for _, f := range inlineFillers {
		s = replaceWord(strings.ToLower(s), f, " ")
	}

	for {
		next := n.trailFiller.ReplaceAllString(s, "")
		if next == s {
			break
		}
		s = next
	}

	s = n.ExpandAbbreviations(s)
	return n.spaces.ReplaceAllString(strings.TrimSpace(s), " ")
}

// StripDiacritics maps Vietnamese letters to their base ASCII form, so
// "phần mềm" becomes "phan mem". Unknown runes pass through.
func StripDiacritics(text string) string {
	if text == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if base, ok := diacriticFold[r]; ok {
			b.WriteRune(base)
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// replaceWord substitutes whole-word occurrences of old in s. Word edges are
// checked against Unicode letters and digits since the answers are Vietnamese.
func replaceWord(s, old, repl string) string {
	if old == "" {
		return s
	}
	var b strings.Builder
	for {
		i := strings.Index(s, old)
		if i < 0 {
			b.WriteString(s)
			break
		}
		if wordBoundary(s, i, len(old)) {
			b.WriteString(s[:i])
			b.WriteString(repl)
		} else {
			b.WriteString(s[:i+len(old)])
		}
		s = s[i+len(old):]
	}
	return b.String()
}

// containsWord reports whether needle occurs in s as a whole word.
func containsWord(s, needle string) bool {
	for from := 0; ; {
		i := strings.Index(s[from:], needle)
		if i < 0 {
			return false
		}
		i += from
		if wordBoundary(s, i, len(needle)) {
			return true
		}
		from = i + len(needle)
	}
}

func wordBoundary(s string, at, length int) bool {
	if at > 0 {
		r := lastRune(s[:at])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	if end := at + length; end < len(s) {
		r := firstRune(s[end:])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

func firstRune(s string) rune {
	for _, r := range s {
		return r
	}
	return 0
}

func lastRune(s string) rune {
	var last rune
	for _, r := range s {
		last = r
	}
	return last
}

// cutPrefixFold strips prefix from s case-insensitively on a word boundary.
func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) {
		return s, false
	}
	head := s[:len(prefix)]
	if !strings.EqualFold(head, prefix) {
		return s, false
	}
	if len(s) > len(prefix) {
		r := firstRune(s[len(prefix):])
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return s, false
		}
	}
	return s[len(prefix):], true
}

// Politeness openers and answer lead-ins stripped from the start of answers.
var answerPrefixes = []string{
	"dạ thưa thầy cô", "dạ thưa thầy", "dạ thưa cô",
	"kính thưa thầy cô", "thưa thầy", "thưa cô",
	"dạ em chào thầy", "em chào cô", "chào thầy",
	"dạ", "vâng",
	"theo em thì", "theo em", "theo ý kiến của em",
	"theo quan điểm của em", "đối với em",
	"em nghĩ là", "em cho rằng", "em thấy rằng",
	"em tin là", "em dự đoán là",
	"cá nhân em nghĩ", "theo sự hiểu biết của em",
	"câu trả lời của em là", "đáp án là",
	"em xin trả lời là", "em xin trả lời",
	"trả lời", "bài làm", "kết quả là",
	"ý chính là", "nội dung là",
	"đó là", "cái này là", "thì là", "nó là",
	"nghĩa là", "tức là", "là", "thì",
}

// Hedging and filler phrases removed anywhere in the answer.
var inlineFillers = []string{
	"thì là mà", "thực ra là", "thực sự là",
	"quả thực là", "đại loại là", "hình như là",
	"chắc chắn là", "chắc là", "có lẽ là",
	"kiểu như là", "kiểu như", "kiểu kiểu",
	"nói chung là", "tóm lại là", "cơ bản là",
	"về cơ bản", "như thế này", "như vậy nè",
	"tuy nhiên thì", "nhưng mà thì", "mặc dù vậy",
	"thật sự", "thật lòng", "rõ ràng là",
	"đương nhiên là", "tất nhiên là", "hiển nhiên là",
	"không thể phủ nhận", "trên thực tế", "thực tế cho thấy",
	"ý em là", "hay nói cách khác", "à nhầm", "à quên",
	"xin lỗi thầy", "xin lỗi cô",
	"theo em nghĩ là vậy", "theo em nghĩ vậy",
	"em nghĩ là vậy", "em nghĩ vậy", "em đoán là",
	"em đoán vậy", "em đoán", "em cho là vậy",
	"chắc vậy", "chắc là vậy", "như vậy đó",
	"có lẽ vậy", "có thể là vậy", "có thể vậy",
	"hình như vậy", "theo em nghĩ", "theo em biết",
	"theo hiểu biết của em", "theo em đoán",
	"theo suy luận của em", "theo em thấy", "theo ý em",
}

var diacriticFold = map[rune]rune{
	'à': 'a', 'á': 'a', 'ả': 'a', 'ã': 'a', 'ạ': 'a',
	'ă': 'a', 'ằ': 'a', 'ắ': 'a', 'ẳ': 'a', 'ẵ': 'a', 'ặ': 'a',
	'â': 'a', 'ầ': 'a', 'ấ': 'a', 'ẩ': 'a', 'ẫ': 'a', 'ậ': 'a',
	'è': 'e', 'é': 'e', 'ẻ': 'e', 'ẽ': 'e', 'ẹ': 'e',
	'ê': 'e', 'ề': 'e', 'ế': 'e', 'ể': 'e', 'ễ': 'e', 'ệ': 'e',
	'ì': 'i', 'í': 'i', 'ỉ': 'i', 'ĩ': 'i', 'ị': 'i',
	'ò': 'o', 'ó': 'o', 'ỏ': 'o', 'õ': 'o', 'ọ': 'o',
	'ô': 'o', 'ồ': 'o', 'ố': 'o', 'ổ': 'o', 'ỗ': 'o', 'ộ': 'o',
	'ơ': 'o', 'ờ': 'o', 'ớ': 'o', 'ở': 'o', 'ỡ': 'o', 'ợ': 'o',
	'ù': 'u', 'ú': 'u', 'ủ': 'u', 'ũ': 'u', 'ụ': 'u',
	'ư': 'u', 'ừ': 'u', 'ứ': 'u', 'ử': 'u', 'ữ': 'u', 'ự': 'u',
	'ỳ': 'y', 'ý': 'y', 'ỷ': 'y', 'ỹ': 'y', 'ỵ': 'y',
	'đ': 'd',
	'À': 'A', 'Á': 'A', 'Ả': 'A', 'Ã': 'A', 'Ạ': 'A',
	'Ă': 'A', 'Ằ': 'A', 'Ắ': 'A', 'Ẳ': 'A', 'Ẵ': 'A', 'Ặ': 'A',
	'Â': 'A', 'Ầ': 'A', 'Ấ': 'A', 'Ẩ': 'A', 'Ẫ': 'A', 'Ậ': 'A',
	'È': 'E', 'É': 'E', 'Ẻ': 'E', 'Ẽ': 'E', 'Ẹ': 'E',
	'Ê': 'E', 'Ề': 'E', 'Ế': 'E', 'Ể': 'E', 'Ễ': 'E', 'Ệ': 'E',
	'Ì': 'I', 'Í': 'I', 'Ỉ': 'I', 'Ĩ': 'I', 'Ị': 'I',
	'Ò': 'O', 'Ó': 'O', 'Ỏ': 'O', 'Õ': 'O', 'Ọ': 'O',
	'Ô': 'O', 'Ồ': 'O', 'Ố': 'O', 'Ổ': 'O', 'Ỗ': 'O', 'Ộ': 'O',
	'Ơ': 'O', 'Ờ': 'O', 'Ớ': 'O', 'Ở': 'O', 'Ỡ': 'O', 'Ợ': 'O',
	'Ù': 'U', 'Ú': 'U', 'Ủ': 'U', 'Ũ': 'U', 'Ụ': 'U',
	'Ư': 'U', 'Ừ': 'U', 'Ứ': 'U', 'Ử': 'U', 'Ữ': 'U', 'Ự': 'U',
	'Ỳ': 'Y', 'Ý': 'Y', 'Ỷ': 'Y', 'Ỹ': 'Y', 'Ỵ': 'Y',
	'Đ': 'D',
}
