package grading

import "sort"

// Lexicon bundles the Vietnamese word lists the pipeline consults. The data
// is fixed at build time; DefaultLexicon precomputes the derived orderings.
type Lexicon struct {
	// Synonyms maps variant spellings, Sino-Vietnamese terms, English loan
	// words and chat slang to a canonical form. Replacement happens longest
	// key first so multi-word entries win over their substrings.
	Synonyms map[string]string

	// Abbreviations expand common shorthand (tphcm, cntt, vd) to full words.
	// Applied per whitespace token, not per substring.
	Abbreviations map[string]string

	// Antonyms maps a word to terms that contradict it when substituted.
	Antonyms map[string][]string

	// StrongAntonyms are domain terms where substitution is always a key
	// concept error, never a stylistic variant.
	StrongAntonyms map[string]bool

	// DirectionalVerbs are verbs where subject and object cannot swap.
	DirectionalVerbs []string

	// PassiveMarkers legitimise an apparent subject/object swap.
	PassiveMarkers []string

	// HardLocations participate in factual consistency checks.
	// GenericLocations are too broad to count as a conflict on their own.
	HardLocations    map[string]bool
	GenericLocations map[string]bool

	// Stopwords is the small set excluded from keyword extraction.
	Stopwords map[string]bool

	// Connectives split reference answers into atomic propositions.
	Connectives map[string]bool

	synonymOrder []string
}

// SynonymOrder returns synonym keys longest first.
func (lx *Lexicon) SynonymOrder() []string { return lx.synonymOrder }

// DefaultLexicon returns the production word lists.
func DefaultLexicon() *Lexicon {
	lx := &Lexicon{
		Synonyms:         defaultSynonyms(),
		Abbreviations:    defaultAbbreviations(),
		Antonyms:         defaultAntonyms(),
		StrongAntonyms:   toSet("ty thể", "lục lạp", "động vật", "thực vật", "đơn bào", "đa bào"),
		DirectionalVerbs: defaultDirectionalVerbs(),
		PassiveMarkers:   []string{"bị", "được", "do", "bởi", "nhờ", "qua"},
		HardLocations:    defaultHardLocations(),
		GenericLocations: toSet("việt nam", "đông nam á", "châu á", "châu âu", "châu mỹ", "châu phi"),
		Stopwords: toSet(
			"là", "và", "của", "có", "các", "một", "được",
			"trong", "đã", "để", "này", "theo", "với", "không",
		),
		Connectives: toSet(
			"và", "với", "cùng", "cùng với", "hoặc", "hay", "hay là", "hoặc là", "lẫn",
			"nhưng", "tuy nhiên", "mặc dù", "dẫu cho", "dẫu rằng",
			"ngược lại", "trái lại", "mặt khác", "hơn nữa", "thậm chí",
			"ngoài ra", "bên cạnh đó", "thêm vào đó", "đồng thời", "song song",
			"kết hợp", "liên kết", "bao gồm", "gồm", "thuộc",
			"là", "thì", "mà", "nên", "vì", "do", "bởi", "bởi vì", "nhờ", "tại",
			"trong", "khi", "lúc", "nơi",
			"tức là", "nghĩa là", "cụ thể là", "ví dụ", "chẳng hạn",
			"như là", "giống như", "khác với", "so với", "đối với", "về phía", "liên quan đến",
		),
	}
	lx.synonymOrder = make([]string, 0, len(lx.Synonyms))
	for k := range lx.Synonyms {
		lx.synonymOrder = append(lx.synonymOrder, k)
	}
	sort.Slice(lx.synonymOrder, func(i, j int) bool {
		if len(lx.synonymOrder[i]) != len(lx.synonymOrder[j]) {
			return len(lx.synonymOrder[i]) > len(lx.synonymOrder[j])
		}
		return lx.synonymOrder[i] < lx.synonymOrder[j]
	})
	return lx
}

func toSet(words ...string) map[string]bool {
	m := make(map[string]bool, len(words))
	for _, w := range words {
		m[w] = true
	}
	return m
}

func defaultDirectionalVerbs() []string {
	return []string{
		"quyết định", "tác động", "ảnh hưởng", "sinh ra", "tạo ra", "gây ra",
		"quay quanh", "bao quanh", "xoay quanh", "vây quanh",
		"lớn hơn", "nhỏ hơn", "cao hơn", "thấp hơn", "nhanh hơn", "chậm hơn",
		"nguyên nhân", "kết quả", "dẫn đến", "gây nên",
		"phụ thuộc", "lệ thuộc", "thuộc về", "sở hữu",
		"sau", "trước", "tiếp theo", "trước đó",
		"từ", "đến", "về phía", "hướng tới",
		"con của", "cha của", "thuộc", "của",
		"chiếu sáng", "hấp dẫn", "thu hút",
	}
}

func defaultAntonyms() map[string][]string {
	return map[string][]string{
		"giành":      {"mất", "thất bại", "thua"},
		"mất":        {"giành", "được", "thắng"},
		"thắng":      {"thua", "bại", "thất bại"},
		"thua":       {"thắng", "chiến thắng"},
		"thành công": {"thất bại"},
		"thất bại":   {"thành công"},
		"tăng":       {"giảm", "tụt", "xuống", "hạ"},
		"giảm":       {"tăng", "lên", "tăng lên"},
		"lớn":        {"nhỏ", "bé"},
		"nhỏ":        {"lớn", "to"},
		"nhiều":      {"ít"},
		"ít":         {"nhiều"},
		"cao":        {"thấp"},
		"thấp":       {"cao"},
		"dài":        {"ngắn"},
		"ngắn":       {"dài"},
		"rộng":       {"hẹp"},
		"hẹp":        {"rộng"},
		"nhanh":      {"chậm"},
		"chậm":       {"nhanh"},
		"mạnh":       {"yếu"},
		"yếu":        {"mạnh"},
		"có":         {"không", "không có"},
		"không":      {"có"},
		"đúng":       {"sai", "không đúng"},
		"sai":        {"đúng"},
		"tốt":        {"xấu", "tệ"},
		"xấu":        {"tốt", "đẹp"},
		"yêu":        {"ghét"},
		"ghét":       {"yêu"},
		"sống":       {"chết"},
		"chết":       {"sống"},
		"mở":         {"đóng"},
		"đóng":       {"mở"},
		"bắt đầu":    {"kết thúc", "chấm dứt"},
		"kết thúc":   {"bắt đầu", "khởi đầu"},
		"nhập":       {"xuất"},
		"xuất":       {"nhập"},
		"mua":        {"bán"},
		"bán":        {"mua"},
		"xây":        {"phá", "phá hủy"},
		"phá":        {"xây", "xây dựng"},
		"giàu":       {"nghèo"},
		"nghèo":      {"giàu"},
		"chủ quan":   {"khách quan"},
		"khách quan": {"chủ quan"},
		"tích cực":   {"tiêu cực"},
		"tiêu cực":   {"tích cực"},
		"chung":      {"riêng"},
		"riêng":      {"chung"},
		"tiến bộ":    {"lạc hậu"},
		"lạc hậu":    {"tiến bộ"},
		"độc lập":    {"lệ thuộc", "phụ thuộc"},
		"phụ thuộc":  {"độc lập"},
		"giải phóng": {"xâm lược", "chiếm đóng"},
		"duy vật":    {"duy tâm"},
		"duy tâm":    {"duy vật"},
		"trên":       {"dưới"},
		"dưới":       {"trên"},
		"trong":      {"ngoài"},
		"ngoài":      {"trong"},
		"trước":      {"sau"},
		"sau":        {"trước"},
		"trái":       {"phải"},
		"phải":       {"trái"},
		"đông":       {"tây"},
		"tây":        {"đông"},
		"nam":        {"bắc"},
		"bắc":        {"nam"},
		"đầu":        {"cuối"},
		"cuối":       {"đầu"},
		"tiến":       {"lùi", "thụt lùi"},
		"lùi":        {"tiến"},
		"nóng":       {"lạnh"},
		"lạnh":       {"nóng"},
		"lục lạp":    {"ty thể", "không bào"},
		"ty thể":     {"lục lạp"},
		"động vật":   {"thực vật"},
		"thực vật":   {"động vật"},
		"đơn bào":    {"đa bào"},
		"đa bào":     {"đơn bào"},
	}
}

func defaultAbbreviations() map[string]string {
	return map[string]string{
		"tphcm": "hồ chí minh", "tp.hcm": "hồ chí minh", "hcm": "hồ chí minh",
		"sg": "sài gòn", "hn": "hà nội", "hp": "hải phòng", "ct": "cần thơ",
		"brvt": "bà rịa vũng tàu", "vn": "việt nam", "tq": "trung quốc", "lx": "liên xô",
		"tw": "trung ương", "bch": "ban chấp hành", "qh": "quốc hội", "cp": "chính phủ",
		"ubnd": "ủy ban nhân dân", "đcs": "đảng cộng sản", "đcsvn": "đảng cộng sản việt nam",
		"lhq": "liên hợp quốc", "un": "liên hợp quốc", "asean": "hiệp hội các quốc gia đông nam á",
		"hs": "học sinh", "sv": "sinh viên", "gv": "giáo viên", "bgd": "bộ giáo dục",
		"bhxh": "bảo hiểm xã hội", "bhyt": "bảo hiểm y tế",
		"gddt": "giáo dục đào tạo", "gdcd": "giáo dục công dân",
		"cntt": "công nghệ thông tin", "it": "công nghệ thông tin",
		"csdl": "cơ sở dữ liệu", "db": "cơ sở dữ liệu",
		"pm": "phần mềm", "sw": "phần mềm", "hw": "phần cứng",
		"sdlc": "vòng đời phát triển phần mềm", "oop": "lập trình hướng đối tượng",
		"ai": "trí tuệ nhân tạo", "ml": "học máy", "dl": "học sâu",
		"gdp": "tổng sản phẩm quốc nội", "fdi": "đầu tư trực tiếp nước ngoài",
		"dn": "doanh nghiệp", "ctcp": "công ty cổ phần", "tnhh": "trách nhiệm hữu hạn",
		"vd": "ví dụ", "td": "tác dụng", "ưđ": "ưu điểm", "nđ": "nhược điểm",
		"gt": "giới thiệu", "kn": "khái niệm", "đn": "định nghĩa",
	}
}

func defaultSynonyms() map[string]string {
	return map[string]string{
		// Sino-Vietnamese and archaic forms.
		"thái dương": "mặt trời", "nhật": "mặt trời",
		"nguyệt": "trăng", "thái âm": "trăng",
		"địa cầu": "trái đất", "thổ": "đất",
		"hải": "biển", "đại dương": "biển",
		"sơn": "núi", "non": "núi",
		"thảo": "cỏ", "mộc": "cây", "thụ": "cây",
		"thạch": "đá", "kim": "vàng", "ngân": "bạc",
		"thủy": "nước", "hỏa": "lửa", "phong": "gió",
		"vũ": "mưa", "lôi": "sấm",
		"vân": "mây", "thiên": "trời", "địa": "đất",
		"nhân loại": "con người", "nhân gian": "thế gian",
		"phụ nữ": "đàn bà", "nữ giới": "đàn bà",
		"nam giới": "đàn ông", "nam nhi": "con trai",
		"thiếu nhi": "trẻ em", "nhi đồng": "trẻ em", "trẻ thơ": "trẻ em",
		"hoàn cầu": "thế giới", "vũ trụ": "không gian", "thiên hà": "ngân hà",
		"quốc gia": "nước", "giang sơn": "đất nước", "xã tắc": "đất nước",
		"thanh xuân": "tuổi trẻ", "sinh nhật": "ngày sinh",
		"khởi đầu": "bắt đầu", "khai màn": "bắt đầu", "mở đầu": "bắt đầu",
		"kết thúc": "chấm dứt", "hoàn thành": "xong",
		"xuất hiện": "mọc", "hiện diện": "có mặt",
		"bình minh": "buổi sáng", "rạng đông": "buổi sáng",
		"hoàng hôn": "buổi chiều", "chiều tà": "buổi chiều",
		"khuya": "đêm", "phương hướng": "hướng",

		// IT and science loan words.
		"vi tính": "máy tính", "computer": "máy tính", "pc": "máy tính",
		"laptop": "máy tính xách tay",
		"mouse": "chuột", "keyboard": "bàn phím", "screen": "màn hình", "monitor": "màn hình",
		"hardware": "phần cứng", "hdd": "ổ cứng", "ssd": "ổ cứng",
		"ram": "bộ nhớ", "memory": "bộ nhớ", "cpu": "bộ xử lý", "chip": "bộ xử lý",
		"server": "máy chủ", "client": "máy khách",
		"software": "phần mềm", "app": "ứng dụng", "application": "ứng dụng", "tool": "công cụ",
		"browser": "trình duyệt",
		"network": "mạng", "internet": "mạng", "web": "mạng", "wifi": "mạng không dây",
		"database": "cơ sở dữ liệu", "data": "dữ liệu",
		"website": "trang web", "webpage": "trang web",
		"link": "liên kết", "url": "đường dẫn",
		"email": "thư điện tử", "mail": "thư",
		"account": "tài khoản", "password": "mật khẩu",
		"user": "người dùng", "admin": "quản trị viên",
		"file": "tập tin", "folder": "thư mục", "directory": "thư mục",
		"image": "hình ảnh", "photo": "ảnh",
		"video": "phim", "audio": "âm thanh", "text": "văn bản",
		"code": "mã", "coding": "lập trình", "programming": "lập trình",
		"developer": "lập trình viên", "coder": "lập trình viên",
		"bug": "lỗi", "error": "lỗi", "fault": "lỗi",
		"debug": "sửa lỗi", "fix": "sửa",
		"algorithm": "thuật toán", "giải thuật": "thuật toán",
		"variable": "biến", "function": "hàm", "method": "phương thức",
		"class": "lớp", "object": "đối tượng",
		"array": "danh sách", "list": "danh sách", "mảng": "danh sách",
		"loop": "vòng lặp",
		"input": "đầu vào", "output": "đầu ra",
		"version": "phiên bản", "update": "cập nhật", "upgrade": "nâng cấp",
		"install": "cài đặt", "setup": "cài đặt",
		"delete": "xóa", "remove": "xóa",
		"edit": "sửa", "modify": "sửa", "change": "thay đổi",
		"save": "lưu", "run": "chạy", "execute": "thực thi",
		"sum": "tổng", "total": "tổng", "add": "cộng",
		"minus": "trừ", "multiply": "nhân", "division": "chia",
		"average": "trung bình", "mean": "trung bình",
		"percent": "phần trăm", "ratio": "tỷ lệ",
		"matrix": "ma trận", "vector": "vectơ",

		// School terms.
		"học đường": "trường học", "school": "trường",
		"học viên": "học sinh", "sinh viên": "học sinh", "học trò": "học sinh",
		"student": "học sinh",
		"giáo viên": "thầy cô", "giảng viên": "thầy cô",
		"teacher": "giáo viên", "professor": "giáo sư",
		"bài tập": "bài làm", "homework": "bài tập về nhà", "assignment": "bài tập",
		"kỳ thi": "bài thi", "exam": "thi", "test": "kiểm tra", "quiz": "kiểm tra",
		"điểm số": "điểm", "mark": "điểm", "grade": "điểm", "score": "điểm",
		"học kỳ": "kỳ", "semester": "kỳ",
		"môn học": "môn", "subject": "môn",
		"toán": "toán học", "math": "toán", "mathematics": "toán",
		"văn": "ngữ văn", "literature": "văn",
		"lý": "vật lý", "physics": "lý",
		"hóa": "hóa học", "chemistry": "hóa",
		"sinh": "sinh học", "biology": "sinh",
		"sử": "lịch sử", "history": "sử",

		// Everyday variants and loans.
		"bố": "cha", "tía": "cha", "ba": "cha", "father": "cha", "dad": "cha",
		"u": "mẹ", "má": "mẹ", "bầm": "mẹ", "mother": "mẹ", "mom": "mẹ",
		"anh trai": "anh", "chị gái": "chị",
		"cẩu": "chó", "khuyển": "chó", "dog": "chó",
		"miêu": "mèo", "tiểu hổ": "mèo", "cat": "mèo",
		"heo": "lợn", "pig": "lợn",
		"xe hơi": "ô tô", "car": "ô tô", "xế hộp": "ô tô",
		"motorbike": "xe máy", "bicycle": "xe đạp",
		"máy bay": "phi cơ", "airplane": "máy bay", "plane": "máy bay",
		"tàu hỏa": "xe lửa", "train": "tàu hỏa",
		"street": "đường", "road": "đường",
		"bệnh viện": "nhà thương", "hospital": "bệnh viện",
		"bác sĩ": "thầy thuốc", "doctor": "bác sĩ",
		"thuốc": "dược phẩm", "medicine": "thuốc",
		"money": "tiền", "price": "giá", "cost": "chi phí",
		"công ty": "doanh nghiệp", "company": "công ty",
		"salary": "lương", "income": "thu nhập",
		"customer": "khách", "market": "thị trường",

		// Adjectives.
		"to": "lớn", "big": "lớn", "large": "lớn",
		"small": "bé", "little": "nhỏ",
		"beautiful": "đẹp", "nice": "đẹp",
		"bad": "tệ", "good": "tốt", "great": "tuyệt vời", "excellent": "xuất sắc",
		"fast": "nhanh", "quick": "nhanh", "slow": "chậm",
		"happy": "vui", "sad": "buồn",
		"smart": "thông minh", "clever": "khôn ngoan",
		"hard": "khó", "difficult": "khó", "complex": "phức tạp",
		"easy": "dễ", "simple": "đơn giản",
		"correct": "đúng", "right": "đúng", "true": "đúng",
		"wrong": "sai", "incorrect": "sai", "false": "sai",
		"new": "mới", "old": "cũ", "young": "trẻ",
		"tall": "cao", "short": "thấp",
		"hot": "nóng", "cold": "lạnh",

		// Chat slang.
		"ko": "không", "k": "không", "khg": "không", "hông": "không", "hok": "không",
		"dc": "được", "đc": "được", "dk": "được",
		"bit": "biết", "bik": "biết", "bít": "biết",
		"thich": "thích", "thik": "thích",
		"iu": "yêu", "yeu": "yêu",
		"ok": "đồng ý", "okay": "đồng ý",
		"thanks": "cảm ơn", "tks": "cảm ơn", "thank": "cảm ơn",
		"sr": "xin lỗi", "sry": "xin lỗi", "sorry": "xin lỗi",
		"j": "gì", "gi": "gì",
		"z": "vậy", "v": "vậy",
		"wa": "quá", "lun": "luôn",
		"ng": "người", "nguoi": "người",
		"nhìu": "nhiều", "nhieu": "nhiều",
		"rùi": "rồi", "r": "rồi",

		// Common English verbs seen in mixed answers.
		"hello": "xin chào", "hi": "chào",
		"yes": "có", "no": "không",
		"name": "tên", "time": "thời gian", "date": "ngày",
		"world": "thế giới", "life": "cuộc sống",
		"work": "làm việc", "job": "công việc",
		"study": "học", "learn": "học",
		"use": "dùng", "make": "làm", "create": "tạo",
		"see": "nhìn", "look": "nhìn", "watch": "xem",
		"hear": "nghe", "listen": "nghe",
		"think": "nghĩ", "know": "biết",
		"say": "nói", "speak": "nói", "talk": "nói",
		"read": "đọc", "write": "viết",
		"give": "cho", "get": "lấy", "take": "lấy",
		"have": "có", "want": "muốn", "need": "cần",
		"like": "thích", "help": "giúp", "try": "thử",
		"start": "bắt đầu", "begin": "bắt đầu",
		"stop": "dừng", "finish": "kết thúc", "end": "kết thúc",
	}
}

func defaultHardLocations() map[string]bool {
	return toSet(
		"hà nội", "hồ chí minh", "sài gòn", "đà nẵng", "hải phòng", "cần thơ",
		"biên hòa", "nha trang", "đà lạt", "huế", "vinh", "quy nhơn",
		"hà giang", "cao bằng", "lạng sơn", "quảng ninh", "hạ long",
		"bắc ninh", "nam định", "ninh bình", "thanh hóa", "nghệ an", "hà tĩnh",
		"quảng bình", "quảng trị", "quảng nam", "quảng ngãi", "bình định", "phú yên", "khánh hòa",
		"ninh thuận", "bình thuận", "phan thiết", "kon tum", "gia lai", "đắk lắk", "lâm đồng",
		"bình phước", "tây ninh", "bình dương", "đồng nai", "bà rịa", "vũng tàu",
		"long an", "tiền giang", "bến tre", "vĩnh long", "đồng tháp", "an giang",
		"kiên giang", "hậu giang", "sóc trăng", "bạc liêu", "cà mau", "phú quốc",
		"điện biên phủ", "ba đình", "bạch đằng", "chi lăng", "đống đa", "rạch gầm",
		"biển đông", "fansipan", "pác bó", "tân trào",
		"việt nam", "trung quốc", "mỹ", "hoa kỳ", "nhật bản", "liên xô",
		"lào", "campuchia", "thái lan", "hàn quốc", "triều tiên", "ấn độ", "singapore",
		"úc", "canada", "brazil", "cuba", "ukraine", "tây ban nha",
	)
}
