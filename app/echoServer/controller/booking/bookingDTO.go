package booking

type CreateBookingReq struct {
	CarID      int64    `json:"car_id" validate:"required,gt=0"`
	StartDate  string   `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate    string   `json:"end_date" validate:"required,datetime=2006-01-02"`
	TotalPrice *float64 `json:"total_price" validate:"omitempty,gt=0"`
}

type UpdateBookingReq struct {
	StartDate string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate   string `json:"end_date" validate:"required,datetime=2006-01-02"`
}

type SetStatusReq struct {
	Status string `json:"status" validate:"required,oneof=pending confirmed cancelled completed"`
}

type RecordPaymentReq struct {
	Amount        float64 `json:"amount" validate:"required,gt=0"`
	PaymentMethod string  `json:"payment_method" validate:"required"`
}
