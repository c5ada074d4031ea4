package model

import (
	"database/sql/driver"
	"fmt"
)

// 票种与支付渠道在库中为位掩码整数列（历史遗留格式）。
// 业务层统一通过带名字的标志集合读写，避免手写位运算出错。

// TicketType 票种标志
type TicketType uint

const (
	TicketTypeStudent  TicketType = 1 << iota // 学生票
	TicketTypeDiscount                        // 优惠票
	TicketTypeOnline                          // 网购票
	TicketTypeChild                           // 孩童票
)

var ticketTypeNames = map[TicketType]string{
	TicketTypeStudent:  "学生票",
	TicketTypeDiscount: "优惠票",
	TicketTypeOnline:   "网购票",
	TicketTypeChild:    "孩童票",
}

// String 票种中文名
func (t TicketType) String() string {
	if name, ok := ticketTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("TicketType(%d)", uint(t))
}

// TicketTypeSet 票种标志集合，对应 ride_record.ticket_type_flags
type TicketTypeSet uint

// Has 是否包含指定票种
func (s TicketTypeSet) Has(t TicketType) bool { return uint(s)&uint(t) != 0 }

// With 返回加入指定票种后的集合
func (s TicketTypeSet) With(t TicketType) TicketTypeSet { return TicketTypeSet(uint(s) | uint(t)) }

// Without 返回移除指定票种后的集合
func (s TicketTypeSet) Without(t TicketType) TicketTypeSet { return TicketTypeSet(uint(s) &^ uint(t)) }

// Types 集合内全部票种
func (s TicketTypeSet) Types() []TicketType {
	var result []TicketType
	for _, t := range []TicketType{TicketTypeStudent, TicketTypeDiscount, TicketTypeOnline, TicketTypeChild} {
		if s.Has(t) {
			result = append(result, t)
		}
	}
	return result
}

// Scan 从整数列还原标志集合
func (s *TicketTypeSet) Scan(src interface{}) error {
	n, err := scanFlagInt(src)
	if err != nil {
		return fmt.Errorf("TicketTypeSet.Scan: %w", err)
	}
	*s = TicketTypeSet(n)
	return nil
}

// Value 序列化为位掩码整数
func (s TicketTypeSet) Value() (driver.Value, error) {
	return int64(s), nil
}

// PaymentChannel 支付渠道标志
type PaymentChannel uint

const (
	PaymentCash     PaymentChannel = 1 << iota // 现金
	PaymentAlipay                              // 支付宝
	PaymentWeChat                              // 微信支付
	PaymentUnionPay                            // 银联
	PaymentICBC                                // 工商银行
	PaymentABC                                 // 农业银行
	PaymentBOC                                 // 中国银行
	PaymentCCB                                 // 建设银行
)

var paymentChannelNames = map[PaymentChannel]string{
	PaymentCash:     "现金",
	PaymentAlipay:   "支付宝",
	PaymentWeChat:   "微信支付",
	PaymentUnionPay: "银联",
	PaymentICBC:     "工商银行",
	PaymentABC:      "农业银行",
	PaymentBOC:      "中国银行",
	PaymentCCB:      "建设银行",
}

// String 支付渠道中文名
func (p PaymentChannel) String() string {
	if name, ok := paymentChannelNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PaymentChannel(%d)", uint(p))
}

// PaymentChannelSet 支付渠道标志集合，对应 ride_record.payment_channel_flags
// 一张票只会使用一个渠道，但列格式沿用位掩码
type PaymentChannelSet uint

// Has 是否包含指定渠道
func (s PaymentChannelSet) Has(p PaymentChannel) bool { return uint(s)&uint(p) != 0 }

// With 返回加入指定渠道后的集合
func (s PaymentChannelSet) With(p PaymentChannel) PaymentChannelSet {
	return PaymentChannelSet(uint(s) | uint(p))
}

// Channels 集合内全部渠道
func (s PaymentChannelSet) Channels() []PaymentChannel {
	var result []PaymentChannel
	for _, p := range []PaymentChannel{
		PaymentCash, PaymentAlipay, PaymentWeChat, PaymentUnionPay,
		PaymentICBC, PaymentABC, PaymentBOC, PaymentCCB,
	} {
		if s.Has(p) {
			result = append(result, p)
		}
	}
	return result
}

// Scan 从整数列还原标志集合
func (s *PaymentChannelSet) Scan(src interface{}) error {
	n, err := scanFlagInt(src)
	if err != nil {
		return fmt.Errorf("PaymentChannelSet.Scan: %w", err)
	}
	*s = PaymentChannelSet(n)
	return nil
}

// Value 序列化为位掩码整数
func (s PaymentChannelSet) Value() (driver.Value, error) {
	return int64(s), nil
}

func scanFlagInt(src interface{}) (uint, error) {
	if src == nil {
		return 0, nil
	}
	switch v := src.(type) {
	case int64:
		if v < 0 {
			return 0, fmt.Errorf("负的标志值 %d", v)
		}
		return uint(v), nil
	case uint64:
		return uint(v), nil
	default:
		return 0, fmt.Errorf("不支持的类型 %T", src)
	}
}
