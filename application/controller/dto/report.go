package dto

type GenerateMonthlyReportDTO struct {
	Month string `json:"month" validate:"omitempty,datetime=2006-01"` // empty means the previous month
}
