package sheet

import "github.com/ayberkarici/fucom/internal/fucom"

const (
	SheetName = "FUCOM Veri Formu"
	Creator   = "FUCOM Survey App"

	ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

const (
	colorMainSection  = "E0E7FF"
	colorSubSection   = "DCFCE7"
	colorScaleSection = "FEF3C7"
	colorStepTitle    = "1E40AF"
)

// columnWidths covers columns A through P.
var columnWidths = []float64{15, 12, 12, 12, 12, 12, 12, 15, 15, 15, 15, 5, 12, 12, 12, 12}

var rowHeights = map[int]float64{
	5:  40,
	23: 40,
}

// placement puts one value into one cell. When merge is set the range
// cell:merge is merged after the value is written.
type placement struct {
	cell  string
	merge string
	text  string
	field func(*fucom.Response) any
	style treatment
}

var (
	plain        = treatment{}
	header       = treatment{bold: true, size: 11, horizontal: "left", vertical: "center"}
	title        = treatment{bold: true, size: 12, horizontal: "left", vertical: "center"}
	stepTitle    = treatment{bold: true, size: 12, color: colorStepTitle, horizontal: "left", vertical: "center"}
	instructions = treatment{wrap: true, vertical: "top"}
	centered     = treatment{horizontal: "center", vertical: "center"}
	bordered     = treatment{border: true}
	dataCell     = treatment{border: true, horizontal: "center", vertical: "center"}

	centeredHeader = treatment{bold: true, size: 11, horizontal: "center", vertical: "center"}
	mainSection    = treatment{bold: true, size: 11, horizontal: "center", vertical: "center", fill: colorMainSection}
	subSection     = treatment{bold: true, size: 11, horizontal: "center", vertical: "center", fill: colorSubSection}
	scaleSection   = treatment{bold: true, size: 11, horizontal: "left", vertical: "center", fill: colorScaleSection}
	mainBand       = treatment{bold: true, size: 11, horizontal: "left", vertical: "center", fill: colorMainSection}
)

const (
	rankingInstructions    = "Bu adımda verilen kriter arasında öncelik sıralaması yapılmalıdır. Önce size göre en önemli kriter 1. sıraya atanır."
	comparisonInstructions = "Bu adımda sıralaması yapılmış kriterler arasında ikili ilişki verilen değerlendirme skalası göz önünde bulundurularak değerlendirilmelidir."
)

// fixedLayout lists every cell that does not depend on the group blocks.
// The "ANA KRiTERLER" band at I31 is byte-identical to sheets already
// collected, so the lowercase i stays.
var fixedLayout = []placement{
	{cell: "A1", text: "DEĞERLENDİRİCİ İLE İLGİLİ BİLGİLER:", style: title},

	{cell: "A2", text: "AD-SOYAD:", style: header},
	{cell: "B2", merge: "C2", field: func(r *fucom.Response) any { return r.Demographics.FullName }, style: plain},
	{cell: "D2", text: "YAŞ:", style: header},
	{cell: "E2", field: func(r *fucom.Response) any { return r.Demographics.Age }, style: plain},
	{cell: "H2", text: "MESLEK:", style: header},
	{cell: "I2", merge: "K2", field: func(r *fucom.Response) any { return r.Demographics.Profession }, style: plain},

	{cell: "A3", text: "CİNSİYET:", style: header},
	{cell: "B3", field: func(r *fucom.Response) any { return r.Demographics.Gender }, style: plain},
	{cell: "D3", text: "EĞİTİM DURUMU:", style: header},
	{cell: "F3", merge: "G3", field: func(r *fucom.Response) any { return r.Demographics.EducationLevel }, style: plain},

	{cell: "A4", text: "1. ADIM:  SIRALAMA BELİRLEME", style: stepTitle},
	{cell: "A5", merge: "G5", text: rankingInstructions, style: instructions},
	{cell: "I5", merge: "K5", text: "ANA KRİTERLER", style: mainSection},
	{cell: "N5", merge: "P5", text: "ALT KRİTERLER", style: subSection},
	{cell: "K6", text: "Sıralama", style: centered},
	{cell: "P6", text: "Sıralama", style: centered},

	{cell: "A22", text: "2. ADIM:  İKİLİ ÖNEM BELİRLEME", style: stepTitle},
	{cell: "A23", merge: "G23", text: comparisonInstructions, style: instructions},
	{cell: "I24", merge: "K24", text: "Değerlendirme Skalası", style: scaleSection},
	{cell: "M24", merge: "O24", text: "ALT KRİTERLER", style: centeredHeader},

	{cell: "I31", merge: "K31", text: "ANA KRiTERLER", style: mainBand},
	{cell: "K32", text: "İkili Önem İlişkisi", style: centered},
}

// rankingBlock is a vertical run of {code, name, rank} rows.
type rankingBlock struct {
	group    fucom.Group
	firstRow int
	code     string
	name     string
	rank     string
}

var rankingBlocks = []rankingBlock{
	{group: fucom.GroupMain, firstRow: 7, code: "I", name: "J", rank: "K"},
	{group: fucom.GroupEconomic, firstRow: 7, code: "N", name: "O", rank: "P"},
	{group: fucom.GroupSocial, firstRow: 11, code: "N", name: "O", rank: "P"},
	{group: fucom.GroupEnvironmental, firstRow: 15, code: "N", name: "O", rank: "P"},
}

// comparisonBlock is a vertical run of {first, second, value} rows.
type comparisonBlock struct {
	group    fucom.Group
	firstRow int
	first    string
	second   string
	value    string
}

var comparisonBlocks = []comparisonBlock{
	{group: fucom.GroupEconomic, firstRow: 26, first: "M", second: "N", value: "O"},
	{group: fucom.GroupSocial, firstRow: 29, first: "M", second: "N", value: "O"},
	{group: fucom.GroupEnvironmental, firstRow: 32, first: "M", second: "N", value: "O"},
	{group: fucom.GroupMain, firstRow: 33, first: "I", second: "J", value: "K"},
}

// scaleLegend is the fixed {label, code} table of the importance scale.
var scaleLegend = struct {
	firstRow int
	label    string
	code     string
}{firstRow: 25, label: "I", code: "K"}
