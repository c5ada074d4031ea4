package dto

// ── 车票模块 DTO ──

// TicketPayload 新建/更新车票共用的字段载荷
type TicketPayload struct {
	SerialNumber string `json:"serial_number" binding:"omitempty,max=32"`
	CheckInGate  string `json:"check_in_gate" binding:"omitempty,max=16"`

	DepartStation string `json:"depart_station" binding:"required,max=32"`
	ArriveStation string `json:"arrive_station" binding:"required,max=32"`

	Fare       float64 `json:"fare"        binding:"min=0"`
	TravelDate string  `json:"travel_date" binding:"required"` // yyyy-MM-dd
	TravelTime string  `json:"travel_time" binding:"omitempty,len=5"`

	TrainPrefix  string `json:"train_prefix"   binding:"omitempty,len=1"`
	IsPureNumber bool   `json:"is_pure_number"`
	TrainDigits  string `json:"train_digits"   binding:"required,max=4"`

	CoachNo      string `json:"coach_no"      binding:"omitempty,max=4"`
	IsExtraCoach bool   `json:"is_extra_coach"`
	SeatNo       string `json:"seat_no"       binding:"omitempty,max=8"`
	IsNoSeat     bool   `json:"is_no_seat"`
	SeatPosition string `json:"seat_position" binding:"omitempty,len=1"`
	SeatClass    string `json:"seat_class"    binding:"omitempty,max=16"`

	AdditionalInfo string `json:"additional_info" binding:"omitempty,max=128"`
	Purpose        string `json:"purpose"         binding:"omitempty,max=128"`
	Hint           string `json:"hint"            binding:"omitempty,max=128"`

	ModificationType    int      `json:"modification_type"`
	TicketTypeFlags     []string `json:"ticket_types"`    // student/discount/online/child
	PaymentChannelFlags []string `json:"payment_channel"` // cash/alipay/wechat/...
}

// TicketListRequest 车票列表查询参数
type TicketListRequest struct {
	DepartStation string `form:"depart_station"`
	ArriveStation string `form:"arrive_station"`
	TrainPrefix   string `form:"train_prefix"`
	Year          int    `form:"year"`
	SeatClass     string `form:"seat_class"`
	// Combinator 多字段筛选的组合方式：and（默认）| or
	Combinator string `form:"combinator"`
	// OnlyUsedDepart 仅限我用过的出发站
	OnlyUsedDepart bool   `form:"only_used_depart"`
	SortBy         string `form:"sort_by,default=travel_date"`
	SortDesc       bool   `form:"sort_desc,default=true"`
	Page           int    `form:"page,default=1"`
	PageSize       int    `form:"page_size,default=20"`
}

// BulkDeleteRequest 批量删除请求（车票与收藏夹共用）
type BulkDeleteRequest struct {
	IDs []uint `json:"ids" binding:"required,min=1"`
}

// TicketResponse 车票信息响应
type TicketResponse struct {
	ID           uint   `json:"id"`
	SerialNumber string `json:"serial_number"`
	CheckInGate  string `json:"check_in_gate"`

	DepartStation  string `json:"depart_station"`
	DepartPhonetic string `json:"depart_phonetic"`
	DepartCode     string `json:"depart_code"`
	ArriveStation  string `json:"arrive_station"`
	ArrivePhonetic string `json:"arrive_phonetic"`
	ArriveCode     string `json:"arrive_code"`

	Fare       float64 `json:"fare"`
	TravelDate string  `json:"travel_date"`
	TravelTime string  `json:"travel_time"`

	TrainNumber  string `json:"train_number"`
	TrainPrefix  string `json:"train_prefix"`
	IsPureNumber bool   `json:"is_pure_number"`
	TrainDigits  string `json:"train_digits"`

	CoachNo      string `json:"coach_no"`
	IsExtraCoach bool   `json:"is_extra_coach"`
	SeatNo       string `json:"seat_no"`
	IsNoSeat     bool   `json:"is_no_seat"`
	SeatPosition string `json:"seat_position"`
	SeatClass    string `json:"seat_class"`

	AdditionalInfo string `json:"additional_info"`
	Purpose        string `json:"purpose"`
	Hint           string `json:"hint"`

	ModificationType int      `json:"modification_type"`
	TicketTypes      []string `json:"ticket_types"`
	PaymentChannel   []string `json:"payment_channel"`

	IsSelected bool `json:"is_selected"`
}
