package model

import "testing"

func TestNormalizeStationName(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"北京站", "北京"},
		{"北京", "北京"},
		{"上海虹桥站", "上海虹桥"},
		{" 天津站 ", "天津"},
		{"站", ""},
		{"", ""},
	}
	for _, tc := range cases {
		if got := NormalizeStationName(tc.in); got != tc.want {
			t.Errorf("NormalizeStationName(%q)=%q，期望%q", tc.in, got, tc.want)
		}
	}
}

func TestStationSuffix_RoundTrip(t *testing.T) {
	// 登记簿裸站名加后缀再去后缀应还原
	names := []string{"北京", "上海虹桥", "广州南"}
	for _, name := range names {
		if got := NormalizeStationName(WithStationSuffix(name)); got != name {
			t.Errorf("%q 加减后缀后=%q，不能还原", name, got)
		}
	}

	// 已带后缀不应重复追加
	if got := WithStationSuffix("北京站"); got != "北京站" {
		t.Errorf("重复追加后缀: %q", got)
	}
}

func TestTicketTypeSet(t *testing.T) {
	var s TicketTypeSet
	s = s.With(TicketTypeStudent).With(TicketTypeOnline)

	if !s.Has(TicketTypeStudent) || !s.Has(TicketTypeOnline) {
		t.Error("集合应包含已加入的票种")
	}
	if s.Has(TicketTypeChild) {
		t.Error("集合不应包含未加入的票种")
	}

	s = s.Without(TicketTypeStudent)
	if s.Has(TicketTypeStudent) {
		t.Error("移除后不应再包含学生票")
	}

	types := s.Types()
	if len(types) != 1 || types[0] != TicketTypeOnline {
		t.Errorf("期望仅剩网购票，实际=%v", types)
	}
}

func TestTicketTypeSet_BitmaskRoundTrip(t *testing.T) {
	original := TicketTypeSet(0).With(TicketTypeDiscount).With(TicketTypeChild)

	value, err := original.Value()
	if err != nil {
		t.Fatalf("Value 应成功: %v", err)
	}

	var restored TicketTypeSet
	if err := restored.Scan(value); err != nil {
		t.Fatalf("Scan 应成功: %v", err)
	}
	if restored != original {
		t.Errorf("位掩码往返不一致: %d != %d", restored, original)
	}
}

func TestPaymentChannelSet_Scan(t *testing.T) {
	var s PaymentChannelSet
	if err := s.Scan(int64(PaymentAlipay)); err != nil {
		t.Fatalf("Scan 应成功: %v", err)
	}
	if !s.Has(PaymentAlipay) {
		t.Error("应包含支付宝渠道")
	}

	if err := s.Scan(nil); err != nil {
		t.Fatalf("NULL 列应按空集合处理: %v", err)
	}
	if s != 0 {
		t.Errorf("NULL 应还原为空集合，实际=%d", s)
	}

	if err := s.Scan("bad"); err == nil {
		t.Error("非整数类型应报错")
	}
}

func TestTicket_TrainNumber(t *testing.T) {
	withPrefix := Ticket{TrainPrefix: "G", TrainDigits: "1234"}
	if got := withPrefix.TrainNumber(); got != "G1234" {
		t.Errorf("期望G1234，实际=%s", got)
	}

	pure := Ticket{IsPureNumber: true, TrainDigits: "4471"}
	if got := pure.TrainNumber(); got != "4471" {
		t.Errorf("纯数字车次期望4471，实际=%s", got)
	}
}

func TestTicket_SeatLabel(t *testing.T) {
	seated := Ticket{CoachNo: "05", SeatNo: "012", SeatPosition: "A"}
	if got := seated.SeatLabel(); got != "05车012A号" {
		t.Errorf("期望05车012A号，实际=%s", got)
	}

	noSeat := Ticket{IsNoSeat: true}
	if got := noSeat.SeatLabel(); got != "无座" {
		t.Errorf("无座票期望“无座”，实际=%s", got)
	}
}
