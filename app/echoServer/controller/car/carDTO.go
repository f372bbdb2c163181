package car

type CarReq struct {
	Model       string  `json:"model" validate:"required"`
	Brand       *string `json:"brand"`
	Type        string  `json:"type" validate:"required"`
	Year        *int    `json:"year" validate:"omitempty,gte=1950"`
	PricePerDay float64 `json:"price_per_day" validate:"required,gt=0"`
}

type SetAvailabilityReq struct {
	Available *bool `json:"available" validate:"required"`
}
