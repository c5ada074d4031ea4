package render

// Variant 车票底纹样式
type Variant string

const (
	// VariantRed 红色软纸票
	VariantRed Variant = "red"
	// VariantBlue 蓝色磁介质票
	VariantBlue Variant = "blue"
)

// 画布为 87.5mm x 55.0mm 实票按 10px/mm 放大的固定分辨率
const (
	CanvasWidth  = 875
	CanvasHeight = 550
)

// Layout 一次渲染的全部元素像素偏移
type Layout struct {
	DepartNameX, DepartNameY int
	ArriveNameX, ArriveNameY int
	// NameSpacing 站名字间距，随字数变化使两端对齐
	DepartSpacing, ArriveSpacing int
	TrainNumberX, TrainNumberY   int
	DateTimeX, DateTimeY         int
	SeatX, SeatY                 int
	FareX, FareY                 int
	SeatClassX, SeatClassY       int
	SerialX, SerialY             int
	GateX, GateY                 int
	QRX, QRY, QRSize             int
	EncodingX, EncodingY         int
}

// 站名区域的基准参数：1-5 字各有独立的起位与字间距，
// 更长的站名按线性外推公式回退
type nameRule struct {
	offsetX int
	spacing int
}

var nameRulesRed = map[int]nameRule{
	1: {offsetX: 120, spacing: 0},
	2: {offsetX: 90, spacing: 60},
	3: {offsetX: 60, spacing: 30},
	4: {offsetX: 40, spacing: 12},
	5: {offsetX: 25, spacing: 4},
}

var nameRulesBlue = map[int]nameRule{
	1: {offsetX: 130, spacing: 0},
	2: {offsetX: 100, spacing: 56},
	3: {offsetX: 70, spacing: 28},
	4: {offsetX: 48, spacing: 10},
	5: {offsetX: 30, spacing: 2},
}

// ruleFor 按站名字数取规则；超出 5 字时线性外推
func ruleFor(variant Variant, runeLen int) nameRule {
	rules := nameRulesBlue
	if variant == VariantRed {
		rules = nameRulesRed
	}
	if runeLen < 1 {
		runeLen = 1
	}
	if rule, ok := rules[runeLen]; ok {
		return rule
	}
	// 外推：起位逐字前移5px、间距归零，起位不小于5
	base := rules[5]
	offset := base.offsetX - (runeLen-5)*5
	if offset < 5 {
		offset = 5
	}
	return nameRule{offsetX: offset, spacing: 0}
}

// LayoutFor 计算元素偏移
// 纯函数：仅由样式与出发/到达站名字数决定
func LayoutFor(variant Variant, departRunes, arriveRunes int) Layout {
	departRule := ruleFor(variant, departRunes)
	arriveRule := ruleFor(variant, arriveRunes)

	layout := Layout{
		DepartNameX:   60 + departRule.offsetX,
		DepartNameY:   150,
		DepartSpacing: departRule.spacing,
		ArriveNameX:   520 + arriveRule.offsetX,
		ArriveNameY:   150,
		ArriveSpacing: arriveRule.spacing,
		TrainNumberX:  395,
		TrainNumberY:  130,
		DateTimeX:     60,
		DateTimeY:     230,
		SeatX:         620,
		SeatY:         230,
		FareX:         60,
		FareY:         290,
		SeatClassX:    620,
		SeatClassY:    290,
		SerialX:       40,
		SerialY:       60,
		GateX:         620,
		GateY:         60,
		QRX:           700,
		QRY:           390,
		QRSize:        130,
		EncodingX:     60,
		EncodingY:     500,
	}

	// 蓝票的取票号在左上、检票口在其右；红票无二维码区，编码区下移
	if variant == VariantRed {
		layout.QRSize = 0
		layout.EncodingY = 520
		layout.SerialY = 50
	}

	return layout
}
