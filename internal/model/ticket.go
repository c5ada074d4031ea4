package model

import (
	"fmt"
	"time"
)

// ModificationType 改签类型
type ModificationType int

const (
	ModificationNone     ModificationType = iota // 原票
	ModificationRebook                           // 改签票
	ModificationStopover                         // 变更到站
)

// Ticket 乘车记录 — 对应 ride_record，一行即一张实体车票
type Ticket struct {
	ID           uint   `gorm:"column:id;primaryKey;autoIncrement"      json:"id"`
	SerialNumber string `gorm:"column:serial_number;type:varchar(32)"   json:"serial_number"`
	CheckInGate  string `gorm:"column:check_in_gate;type:varchar(16)"   json:"check_in_gate"`

	DepartStation  string `gorm:"column:depart_station;type:varchar(32);not null" json:"depart_station"`
	DepartPhonetic string `gorm:"column:depart_phonetic;type:varchar(64)"         json:"depart_phonetic"`
	DepartCode     string `gorm:"column:depart_code;type:varchar(8)"              json:"depart_code"`
	ArriveStation  string `gorm:"column:arrive_station;type:varchar(32);not null" json:"arrive_station"`
	ArrivePhonetic string `gorm:"column:arrive_phonetic;type:varchar(64)"         json:"arrive_phonetic"`
	ArriveCode     string `gorm:"column:arrive_code;type:varchar(8)"              json:"arrive_code"`

	Fare       float64   `gorm:"column:fare;type:decimal(8,2);not null"  json:"fare"`
	TravelDate time.Time `gorm:"column:travel_date;type:date;not null"   json:"travel_date"`
	TravelTime string    `gorm:"column:travel_time;type:varchar(5)"      json:"travel_time"`

	TrainPrefix  string `gorm:"column:train_prefix;type:char(1)"          json:"train_prefix"`
	IsPureNumber bool   `gorm:"column:is_pure_number;not null"            json:"is_pure_number"`
	TrainDigits  string `gorm:"column:train_digits;type:varchar(4)"       json:"train_digits"`

	CoachNo      string `gorm:"column:coach_no;type:varchar(4)"       json:"coach_no"`
	IsExtraCoach bool   `gorm:"column:is_extra_coach;not null"        json:"is_extra_coach"`
	SeatNo       string `gorm:"column:seat_no;type:varchar(8)"        json:"seat_no"`
	IsNoSeat     bool   `gorm:"column:is_no_seat;not null"            json:"is_no_seat"`
	SeatPosition string `gorm:"column:seat_position;type:char(1)"     json:"seat_position"`
	SeatClass    string `gorm:"column:seat_class;type:varchar(16)"    json:"seat_class"`

	AdditionalInfo string `gorm:"column:additional_info;type:varchar(128)" json:"additional_info"`
	Purpose        string `gorm:"column:purpose;type:varchar(128)"         json:"purpose"`
	Hint           string `gorm:"column:hint;type:varchar(128)"            json:"hint"`

	ModificationType ModificationType  `gorm:"column:modification_type;not null"     json:"modification_type"`
	TicketTypes      TicketTypeSet     `gorm:"column:ticket_type_flags;not null"     json:"ticket_type_flags"`
	PaymentChannels  PaymentChannelSet `gorm:"column:payment_channel_flags;not null" json:"payment_channel_flags"`

	CreatedAt time.Time `gorm:"column:created_at;not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;not null" json:"updated_at"`

	// IsSelected 仅用于界面选择状态，不落库
	IsSelected bool `gorm:"-" json:"is_selected"`
}

// TableName 指定表名
func (Ticket) TableName() string { return "ride_record" }

// TrainNumber 拼出完整车次，如 G1234、4471
func (t *Ticket) TrainNumber() string {
	if t.IsPureNumber {
		return t.TrainDigits
	}
	return t.TrainPrefix + t.TrainDigits
}

// SeatLabel 座位展示文本，如 05车012A号 / 无座
func (t *Ticket) SeatLabel() string {
	if t.IsNoSeat {
		return "无座"
	}
	return fmt.Sprintf("%s车%s%s号", t.CoachNo, t.SeatNo, t.SeatPosition)
}
