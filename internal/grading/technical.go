package grading

import (
	"fmt"
	"regexp"
	"strings"
)

// AnswerType classifies a reference answer's format.
type AnswerType string

const (
	AnswerText AnswerType = "text"
	AnswerCode AnswerType = "code"
	AnswerSQL  AnswerType = "sql"
	AnswerMath AnswerType = "math"
)

// TechnicalAnalyzer grades code, SQL and math answers by structure instead
// of semantics. Analyze returns nil for prose references, deferring to the
// main pipeline.
type TechnicalAnalyzer struct {
	codeIndicators []*regexp.Regexp
	sqlIndicators  []*regexp.Regexp
	mathIndicators []*regexp.Regexp

	algorithms  map[string]algorithmProfile
	logicFaults []logicFault
	sqlElements map[string]*regexp.Regexp

	funcName     *regexp.Regexp
	defs         *regexp.Regexp
	returns      *regexp.Regexp
	conditions   *regexp.Regexp
	forLoops     *regexp.Regexp
	whileLoops   *regexp.Regexp
	assigns      *regexp.Regexp
	skeleton     *regexp.Regexp
	placeholder  []*regexp.Regexp
	sqlAlias     *regexp.Regexp
	sqlAs        *regexp.Regexp
	spaces       *regexp.Regexp
	numbers      *regexp.Regexp
	trailNonNum  *regexp.Regexp
	mathFillers  []*regexp.Regexp
}

type algorithmProfile struct {
	names    []string
	patterns []*regexp.Regexp
	anti     []*regexp.Regexp
}

type logicFault struct {
	pattern *regexp.Regexp
	context string
	message string
}

func NewTechnicalAnalyzer() *TechnicalAnalyzer {
	compile := func(exprs ...string) []*regexp.Regexp {
		out := make([]*regexp.Regexp, len(exprs))
		for i, e := range exprs {
			out[i] = regexp.MustCompile(e)
		}
		return out
	}
	a := &TechnicalAnalyzer{
		codeIndicators: compile(
			`\bdef\s+\w+\s*\(`,
			`\breturn\b`,
			`\bfor\s+\w+\s+in\b`,
			`\bif\s+.+:`,
			`\bwhile\s+.+:`,
			`\bclass\s+\w+`,
			`\bimport\s+\w+`,
			`\bfrom\s+\w+\s+import`,
			`\blambda\s+`,
			`\bprint\s*\(`,
			`\bfunction\s+\w+\s*\(`,
			`\bconst\s+\w+\s*=`,
			`\blet\s+\w+\s*=`,
			`\bvar\s+\w+\s*=`,
			`=>\s*\{`,
			`console\.log\s*\(`,
			`\bpublic\s+(static\s+)?void\b`,
			`\bprivate\s+\w+\b`,
			`\bint\s+\w+\s*=`,
			`\bString\s+\w+\s*=`,
			`System\.out\.print`,
		),
		sqlIndicators: compile(
			`(?is)\bSELECT\b.*\bFROM\b`,
			`(?i)\bINSERT\s+INTO\b`,
			`(?is)\bUPDATE\b.*\bSET\b`,
			`(?i)\bDELETE\s+FROM\b`,
			`(?i)\bCREATE\s+TABLE\b`,
			`(?i)\bDROP\s+TABLE\b`,
			`(?i)\bALTER\s+TABLE\b`,
			`(?is)\bJOIN\b.*\bON\b`,
			`(?i)\bWHERE\b`,
			`(?i)\bGROUP\s+BY\b`,
			`(?i)\bORDER\s+BY\b`,
			`(?i)\bHAVING\b`,
		),
		mathIndicators: compile(
			`(?i)[xyz]\s*=\s*[\d\-+*/()]+`,
			`(?i)f\s*\(\s*[xyz]\s*\)\s*=`,
			`\b\d+\s*[+\-*/^]\s*\d+`,
			`\\frac\{`,
			`\\sqrt\{`,
			`(?i)\bsin\b|\bcos\b|\btan\b`,
			`(?i)\blog\b|\bln\b`,
			`(?i)\blim\b|\bsum\b|\bint\b`,
			`(?i)\d+\s*[kmc]?m\b`,
			`(?i)\d+\s*km/h\b|\d+\s*m/s\b`,
		),
		algorithms: map[string]algorithmProfile{
			"factorial": {
				names:    []string{"giai_thua", "factorial", "tinh_giai_thua", "giaithua"},
				patterns: compile(`n\s*\*\s*\w+\s*\(\s*n\s*-\s*1\s*\)`, `for\s+\w+\s+in\s+range\s*\(\s*1\s*,\s*n`, `result\s*\*=\s*\w+`, `result\s*=\s*result\s*\*\s*\w+`),
				anti:     compile(`\+=`),
			},
			"sum": {
				names:    []string{"tong", "sum", "tinh_tong", "tinhtong", "total"},
				patterns: compile(`\+=`, `total\s*\+`, `sum\s*\(`, `sum\s*=\s*sum\s*\+`),
				anti:     compile(`\*=`, `n\s*-\s*1\s*\)`),
			},
			"fibonacci": {
				names:    []string{"fibo", "fibonacci", "fib"},
				patterns: compile(`(?s)n\s*-\s*1.*n\s*-\s*2`, `\w+\s*\(\s*n\s*-\s*1\s*\)\s*\+\s*\w+\s*\(\s*n\s*-\s*2\s*\)`),
			},
			"prime": {
				names:    []string{"prime", "so_nguyen_to", "nguyen_to", "is_prime"},
				patterns: compile(`n\s*%\s*\w+\s*==\s*0`, `for\s+\w+\s+in\s+range\s*\(\s*2\s*,`),
			},
			"sort": {
				names:    []string{"sort", "sap_xep", "sapxep", "bubble", "quick", "merge"},
				patterns: compile(`\.sort\s*\(`, `sorted\s*\(`, `swap`, `\[\s*\w+\s*\]\s*,\s*\[\s*\w+\s*\]`),
			},
			"search": {
				names:    []string{"search", "tim_kiem", "timkiem", "binary", "linear"},
				patterns: compile(`mid\s*=`, `(?s)low\s*=.*high\s*=`, `if\s+\w+\s*==\s*target`),
			},
		},
		logicFaults: []logicFault{
			{regexp.MustCompile(`(?i)(\w+\s*\(|return\s+.*)\s*n\s*\+\s*1\s*\)`), "factorial", "Sử dụng n+1 thay vì n-1 gây đệ quy vô hạn"},
			{regexp.MustCompile(`(?i)n\s*\*\s*2`), "factorial", "Nhân với 2 thay vì nhân với n"},
			{regexp.MustCompile(`(?im)return\s+0\s*$`), "factorial", "Base case trả về 0 thay vì 1"},
			{regexp.MustCompile(`(?i)result\s*=\s*0`), "factorial", "Khởi tạo result = 0 thay vì 1 cho phép nhân"},
		},
		sqlElements: map[string]*regexp.Regexp{
			"select_cols":  regexp.MustCompile(`(?is)SELECT\s+(.+?)\s+FROM`),
			"from_table":   regexp.MustCompile(`(?i)FROM\s+(\w+)`),
			"where_clause": regexp.MustCompile(`(?is)WHERE\s+(.+?)(GROUP|ORDER|HAVING|LIMIT|$)`),
			"join_clause":  regexp.MustCompile(`(?is)(?:LEFT|RIGHT|INNER|OUTER)?\s*JOIN\s+(\w+)\s+ON\s+`),
			"group_by":     regexp.MustCompile(`(?is)GROUP\s+BY\s+(.+?)(HAVING|ORDER|LIMIT|$)`),
			"order_by":     regexp.MustCompile(`(?is)ORDER\s+BY\s+(.+?)(LIMIT|$)`),
		},
		funcName:   regexp.MustCompile(`def\s+(\w+)`),
		defs:       regexp.MustCompile(`def\s+(\w+)\s*\(`),
		returns:    regexp.MustCompile(`return\s+(.+)`),
		conditions: regexp.MustCompile(`if\s+(.+?):`),
		forLoops:   regexp.MustCompile(`for\s+(.+?):`),
		whileLoops: regexp.MustCompile(`while\s+(.+?):`),
		assigns:    regexp.MustCompile(`(\w+)\s*=\s*`),
		skeleton:   regexp.MustCompile(`\b(def|class|if|elif|else|for|while|try|except|return|yield|break|continue)\b`),
		placeholder: compile(
			`(?i)#.*đệ quy`, `(?i)#.*viết tiếp`, `(?i)#.*TODO`, `#\.\.\.`,
			`(?i)//.*TODO`, `(?i)/\*.*TODO`,
		),
		sqlAlias:    regexp.MustCompile(`\b\w+\.`),
		sqlAs:       regexp.MustCompile(`\s+as\s+\w+`),
		spaces:      regexp.MustCompile(`\s+`),
		numbers:     regexp.MustCompile(`-?\d+\.?\d*`),
		trailNonNum: regexp.MustCompile(`[^0-9.\-]+$`),
		mathFillers: compile(
			`(?i)\s*ạ\s*$`, `(?i)\s*nhé\s*$`, `(?i)\s*nha\s*$`, `(?i)\s*ha\s*$`,
			`(?i)\s*vậy\s*$`, `(?i)\s*thế\s*$`, `(?i)\s*đó\s*$`,
		),
	}
	return a
}

// DetectType classifies a text as code, sql, math or prose. A type needs at
// least two indicator hits; SQL wins over code, code over math.
func (a *TechnicalAnalyzer) DetectType(text string) AnswerType {
	if text == "" {
		return AnswerText
	}
	if countHits(a.sqlIndicators, text) >= 2 {
		return AnswerSQL
	}
	if countHits(a.codeIndicators, text) >= 2 {
		return AnswerCode
	}
	if countHits(a.mathIndicators, text) >= 2 {
		return AnswerMath
	}
	return AnswerText
}

func countHits(pats []*regexp.Regexp, text string) int {
	n := 0
	for _, p := range pats {
		if p.MatchString(text) {
			n++
		}
	}
	return n
}

// Analyze grades a technical answer against a technical reference. Returns
// nil when the reference is prose so the main pipeline takes over.
func (a *TechnicalAnalyzer) Analyze(referenceText, candidateText string, pointCap float64) *Result {
	refType := a.DetectType(referenceText)
	if refType == AnswerText {
		return nil
	}
	candType := a.DetectType(candidateText)

	if candType == AnswerText {
		r := newResult(pointCap*0.10, fmt.Sprintf("Yêu cầu trả lời dạng %s, bài làm là văn bản thường", refType), CategoryWrongFormat)
		return &r
	}

	switch refType {
	case AnswerCode:
		return a.gradeCode(referenceText, candidateText, pointCap)
	case AnswerSQL:
		if candType != AnswerSQL {
			r := newResult(pointCap*0.10, "Yêu cầu câu truy vấn SQL", CategoryWrongFormat)
			return &r
		}
		score, feedback := a.CompareSQL(referenceText, candidateText)
		cat := CategorySQLMatch
		if score < 0.5 {
			cat = CategorySQLError
		}
		r := newResult(pointCap*score, feedback, cat)
		return &r
	case AnswerMath:
		score, feedback := a.CompareMath(referenceText, candidateText)
		cat := CategoryMathMatch
		if score < 0.5 {
			cat = CategoryMathError
		}
		r := newResult(pointCap*score, feedback, cat)
		return &r
	}
	return nil
}

func (a *TechnicalAnalyzer) gradeCode(ref, cand string, points float64) *Result {
	if msg, bad := a.findLogicFault(ref, cand); bad {
		r := newResult(points*0.10, msg, CategoryLogicError)
		return &r
	}

	refAlgo := a.DetectAlgorithm(ref)
	candAlgo := a.DetectAlgorithm(cand)
	if refAlgo != "" && candAlgo != "" && refAlgo != candAlgo {
		r := newResult(points*0.15, fmt.Sprintf("Yêu cầu thuật toán %s, bài làm là %s", refAlgo, candAlgo), CategoryWrongAlgorithm)
		return &r
	}

	structSim := a.StructureSimilarity(ref, cand)
	sameAlgo := refAlgo != "" && candAlgo != "" && refAlgo == candAlgo
	if structSim < 0.3 && !sameAlgo {
		r := newResult(points*0.25, fmt.Sprintf("Cấu trúc code khác biệt nhiều (similarity: %.0f%%)", structSim*100), CategoryStructureMismatch)
		return &r
	}

	for _, p := range a.placeholder {
		if p.MatchString(cand) {
			r := newResult(points*0.40, "Code chưa hoàn thiện (chứa comment placeholder).", CategoryPartialCode)
			return &r
		}
	}

	refLines := nonBlankLines(ref)
	candLines := nonBlankLines(cand)
	if refLines > 2 && float64(candLines)/float64(refLines) < 0.4 {
		r := newResult(points*0.40, fmt.Sprintf("Code quá ngắn so với đáp án (%d/%d dòng).", candLines, refLines), CategoryPartialCode)
		return &r
	}

	ratio := 0.85
	if structSim > 0.6 {
		ratio = structSim
		if ratio < 0.9 {
			ratio = 0.9
		}
	}
	r := newResult(points*ratio, fmt.Sprintf("Code hợp lệ (Structure: %.2f)", structSim), CategoryCodeMatch)
	return &r
}

// DetectAlgorithm identifies the algorithm family of a code snippet by the
// declared function name first, then by weighted body patterns. Returns ""
// when nothing scores positive.
func (a *TechnicalAnalyzer) DetectAlgorithm(code string) string {
	lower := strings.ToLower(code)
	if m := a.funcName.FindStringSubmatch(lower); m != nil {
		for family, prof := range a.algorithms {
			for _, name := range prof.names {
				if strings.Contains(m[1], name) {
					return family
				}
			}
		}
	}

	best, bestScore := "", 0
	for family, prof := range a.algorithms {
		score := 0
		for _, p := range prof.patterns {
			if p.MatchString(lower) {
				score++
			}
		}
		for _, p := range prof.anti {
			if p.MatchString(lower) {
				score--
			}
		}
		if score > bestScore || (score == bestScore && score > 0 && family < best) {
			best, bestScore = family, score
		}
	}
	if bestScore <= 0 {
		return ""
	}
	return best
}

// findLogicFault flags a defect present in the candidate but absent from
// the reference, or an algorithm family mismatch.
func (a *TechnicalAnalyzer) findLogicFault(ref, cand string) (string, bool) {
	refAlgo := a.DetectAlgorithm(ref)
	candAlgo := a.DetectAlgorithm(cand)
	if refAlgo != "" && candAlgo != "" && refAlgo != candAlgo {
		return fmt.Sprintf("Code giải quyết bài toán khác: yêu cầu %s, bài làm là %s", refAlgo, candAlgo), true
	}
	for _, f := range a.logicFaults {
		if f.context != refAlgo && f.context != "any" {
			continue
		}
		if f.pattern.MatchString(cand) && !f.pattern.MatchString(ref) {
			return f.message, true
		}
	}
	return "", false
}

// StructureSimilarity blends two views of code shape: Jaccard overlap of
// extracted elements and an order-sensitive keyword skeleton ratio. The
// skeleton view survives variable renaming.
func (a *TechnicalAnalyzer) StructureSimilarity(ref, cand string) float64 {
	refEl := a.codeElements(ref)
	candEl := a.codeElements(cand)

	var strict float64
	counted := 0
	for key, rs := range refEl {
		cs := candEl[key]
		if len(rs) == 0 && len(cs) == 0 {
			continue
		}
		counted++
		if len(rs) > 0 && len(cs) > 0 {
			strict += setJaccard(rs, cs)
		}
	}
	strictScore := 0.5
	if counted > 0 {
		strictScore = strict / float64(counted)
	}

	refSkel := a.skeleton.FindAllString(ref, -1)
	candSkel := a.skeleton.FindAllString(cand, -1)
	var skelScore float64
	switch {
	case len(refSkel) == 0 && len(candSkel) == 0:
		skelScore = 1.0
	case len(refSkel) > 0 && len(candSkel) > 0:
		skelScore = SequenceRatio(refSkel, candSkel)
	}

	if skelScore > strictScore {
		return skelScore
	}
	return strictScore
}

func (a *TechnicalAnalyzer) codeElements(code string) map[string]map[string]bool {
	collect := func(re *regexp.Regexp) map[string]bool {
		set := make(map[string]bool)
		for _, m := range re.FindAllStringSubmatch(code, -1) {
			set[strings.TrimSpace(m[1])] = true
		}
		return set
	}
	loops := collect(a.forLoops)
	for w := range collect(a.whileLoops) {
		loops[w] = true
	}
	return map[string]map[string]bool{
		"functions":  collect(a.defs),
		"returns":    collect(a.returns),
		"conditions": collect(a.conditions),
		"loops":      loops,
		"variables":  collect(a.assigns),
	}
}

func setJaccard(a, b map[string]bool) float64 {
	inter := 0
	for k := range a {
		if b[k] {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0.0
	}
	return float64(inter) / float64(union)
}

func nonBlankLines(s string) int {
	n := 0
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}

// CompareSQL scores two queries by clause, with table aliases and AS labels
// normalized away. A wrong table name is fatal regardless of the rest.
func (a *TechnicalAnalyzer) CompareSQL(ref, cand string) (float64, string) {
	refEl := a.sqlClauses(ref)
	candEl := a.sqlClauses(cand)

	refTable := strings.ToLower(refEl["from_table"])
	candTable := strings.ToLower(candEl["from_table"])
	if refTable != "" && candTable != "" && refTable != candTable {
		return 0.1, fmt.Sprintf("Sai tên bảng: yêu cầu '%s', bài làm dùng '%s'", refTable, candTable)
	}

	matched, total := 0, 0
	for key, rv := range refEl {
		if rv == "" {
			continue
		}
		total++
		rn := a.normalizeSQLValue(rv)
		cn := a.normalizeSQLValue(candEl[key])
		if rn == cn || sameCommaSet(rn, cn) {
			matched++
		}
	}
	if total == 0 {
		return 0.5, "SQL match: 0/0 elements"
	}
	return float64(matched) / float64(total), fmt.Sprintf("SQL match: %d/%d elements", matched, total)
}

func (a *TechnicalAnalyzer) sqlClauses(sql string) map[string]string {
	out := make(map[string]string, len(a.sqlElements))
	for name, re := range a.sqlElements {
		if m := re.FindStringSubmatch(sql); m != nil {
			out[name] = strings.TrimSpace(m[1])
		}
	}
	return out
}

func (a *TechnicalAnalyzer) normalizeSQLValue(v string) string {
	if v == "" {
		return ""
	}
	v = strings.ToLower(strings.TrimSpace(v))
	v = a.sqlAlias.ReplaceAllString(v, "")
	v = a.sqlAs.ReplaceAllString(v, "")
	return a.spaces.ReplaceAllString(v, " ")
}

func sameCommaSet(a, b string) bool {
	split := func(s string) map[string]bool {
		set := make(map[string]bool)
		for _, p := range strings.Split(s, ",") {
			set[strings.TrimSpace(p)] = true
		}
		return set
	}
	as, bs := split(a), split(b)
	if len(as) != len(bs) {
		return false
	}
	for k := range as {
		if !bs[k] {
			return false
		}
	}
	return true
}

// CompareMath scores numeric answers across notations: "8", "= 8" and
// "1 + 7 = 8" all agree. Comparison runs on the value after the last '='
// with glyph variants (×, ÷, ^) and trailing fillers normalized away.
func (a *TechnicalAnalyzer) CompareMath(ref, cand string) (float64, string) {
	rn := a.normalizeMath(ref)
	cn := a.normalizeMath(cand)
	if rn == cn {
		return 1.0, "Đáp án chính xác"
	}

	rc := a.stripMathFillers(rn)
	cc := a.stripMathFillers(cn)
	if rc == cc {
		return 1.0, "Đáp án chính xác"
	}

	rr := a.mathResult(rc)
	cr := a.mathResult(cc)
	if rr == cr {
		return 1.0, "Đáp án đúng (viết đầy đủ phép tính)"
	}

	refNums := numberSet(a.numbers.FindAllString(rr, -1))
	candNums := numberSet(a.numbers.FindAllString(cr, -1))
	if len(refNums) > 0 && len(candNums) > 0 {
		if equalSets(refNums, candNums) {
			return 0.98, "Giá trị đúng, cách viết khác"
		}
		if subset(refNums, candNums) || subset(candNums, refNums) {
			return 0.95, "Đáp án đúng"
		}
		common := 0
		for n := range refNums {
			if candNums[n] {
				common++
			}
		}
		if common > 0 {
			ratio := float64(common) / float64(len(refNums))
			return 0.5 + ratio*0.3, fmt.Sprintf("Đúng một phần: %d/%d giá trị", common, len(refNums))
		}
	}
	return 0.3, "Không thể so khớp đáp án toán học"
}

func (a *TechnicalAnalyzer) normalizeMath(expr string) string {
	expr = a.spaces.ReplaceAllString(expr, "")
	expr = strings.NewReplacer("×", "*", "÷", "/", "^", "**").Replace(expr)
	return strings.ToLower(expr)
}

func (a *TechnicalAnalyzer) stripMathFillers(expr string) string {
	for _, f := range a.mathFillers {
		expr = f.ReplaceAllString(expr, "")
	}
	return strings.TrimSpace(expr)
}

func (a *TechnicalAnalyzer) mathResult(expr string) string {
	if i := strings.LastIndex(expr, "="); i >= 0 {
		expr = strings.TrimSpace(expr[i+1:])
		expr = a.trailNonNum.ReplaceAllString(expr, "")
	}
	return expr
}

func numberSet(nums []string) map[string]bool {
	set := make(map[string]bool, len(nums))
	for _, n := range nums {
		set[n] = true
	}
	return set
}

func equalSets(a, b map[string]bool) bool {
	if len(a) != len(b) {
		return false
	}
	return subset(a, b)
}

func subset(a, b map[string]bool) bool {
	for k := range a {
		if !b[k] {
			return false
		}
	}
	return true
}
