package pdfimport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ledongthuc/pdf"
)

// ErrNoPattern 文本不符合任何车票版式
// 调用方收到该错误后转入全手工录入，不展示任何部分提取结果
var ErrNoPattern = errors.New("未识别出车票版式")

// 提取字段键名，与 TicketPayload 的 json 键保持一致
const (
	FieldSerialNumber  = "serial_number"
	FieldCheckInGate   = "check_in_gate"
	FieldDepartStation = "depart_station"
	FieldArriveStation = "arrive_station"
	FieldTrainNumber   = "train_number"
	FieldTravelDate    = "travel_date"
	FieldTravelTime    = "travel_time"
	FieldCoachNo       = "coach_no"
	FieldSeatNo        = "seat_no"
	FieldSeatPosition  = "seat_position"
	FieldNoSeat        = "no_seat"
	FieldFare          = "fare"
	FieldSeatClass     = "seat_class"
	FieldAdditional    = "additional_info"
)

// Fields 提取器可能填充的全部字段
var Fields = []string{
	FieldSerialNumber, FieldCheckInGate,
	FieldDepartStation, FieldArriveStation,
	FieldTrainNumber, FieldTravelDate, FieldTravelTime,
	FieldCoachNo, FieldSeatNo, FieldSeatPosition, FieldNoSeat,
	FieldFare, FieldSeatClass, FieldAdditional,
}

// ── 版式规则 ──
// 电子客票 PDF 的文本是固定格式 token 序列，逐条规则匹配。
// 站名与车次是版式的锚点：锚点不命中即判定整体失败。

var (
	// 北京南站 G123 上海虹桥站
	reRoute = regexp.MustCompile(`([\p{Han}]{1,8})站\s*([GDCZTKYLS]?\d{1,4})次?\s*([\p{Han}]{1,8})站`)
	// 2023年06月15日08:00开
	reDateTime = regexp.MustCompile(`(\d{4})年(\d{2})月(\d{2})日\s*(?:(\d{2}:\d{2})开)?`)
	// 05车012A号 / 03车无座
	reSeat = regexp.MustCompile(`(\d{1,2})车\s*(?:(\d{1,3})([A-F])?号|(无座))`)
	// ￥553.00元
	reFare = regexp.MustCompile(`[￥¥]\s*(\d+(?:\.\d{1,2})?)元`)
	// 取票号 E123456789
	reSerial = regexp.MustCompile(`\b([A-Z]\d{8,10})\b`)
	// 检票:16B / 检票口16B
	reGate      = regexp.MustCompile(`检票[:：口]?\s*([0-9A-Z]{1,4}[AB]?)`)
	reSeatClass = regexp.MustCompile(`(商务座|特等座|优选一等座|一等座|二等座|高级软卧|软卧|硬卧|软座|硬座|无座)`)
	// 尾部自由文本：仅供报销使用 / 限乘当日当次车 等
	reTrailer = regexp.MustCompile(`(仅供报销使用|报销凭证|限乘当日当次车|中国铁路祝您旅途愉快)`)
)

// ExtractText 从 PDF 原始字节提取纯文本
// 只消费文本层，不读取任何结构化或嵌入对象
func ExtractText(content []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return "", fmt.Errorf("打开 PDF 失败: %w", err)
	}

	plain, err := reader.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("提取 PDF 文本失败: %w", err)
	}

	var sb strings.Builder
	if _, err := io.Copy(&sb, plain); err != nil {
		return "", fmt.Errorf("读取 PDF 文本失败: %w", err)
	}
	return sb.String(), nil
}

// Parse 对提取出的文本套用版式规则
// 锚点（站名+车次）不命中时返回 ErrNoPattern，绝不返回半填充结果
func Parse(text string) (map[string]string, error) {
	route := reRoute.FindStringSubmatch(text)
	if route == nil {
		return nil, ErrNoPattern
	}

	fields := map[string]string{
		FieldDepartStation: route[1] + "站",
		FieldTrainNumber:   route[2],
		FieldArriveStation: route[3] + "站",
	}

	if m := reDateTime.FindStringSubmatch(text); m != nil {
		fields[FieldTravelDate] = fmt.Sprintf("%s-%s-%s", m[1], m[2], m[3])
		if m[4] != "" {
			fields[FieldTravelTime] = m[4]
		}
	}

	if m := reSeat.FindStringSubmatch(text); m != nil {
		fields[FieldCoachNo] = m[1]
		if m[4] != "" {
			fields[FieldNoSeat] = "true"
		} else {
			fields[FieldSeatNo] = m[2]
			if m[3] != "" {
				fields[FieldSeatPosition] = m[3]
			}
		}
	}

	if m := reFare.FindStringSubmatch(text); m != nil {
		fields[FieldFare] = m[1]
	}
	if m := reSerial.FindStringSubmatch(text); m != nil {
		fields[FieldSerialNumber] = m[1]
	}
	if m := reGate.FindStringSubmatch(text); m != nil {
		fields[FieldCheckInGate] = m[1]
	}
	if m := reSeatClass.FindStringSubmatch(text); m != nil {
		fields[FieldSeatClass] = m[1]
	}
	if m := reTrailer.FindStringSubmatch(text); m != nil {
		fields[FieldAdditional] = m[1]
	}

	return fields, nil
}
