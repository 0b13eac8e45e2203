package entities

import (
	"time"

	"rollcall.io/application/utils"
)

// Derived summary, unique per (PersonID, Month) and safe to recompute.
type MonthlyReport struct {
	PersonID             string    `bson:"personID" json:"personID"`
	Month                time.Time `bson:"month" json:"month"`
	TotalSessions        int       `bson:"totalSessions" json:"totalSessions"`
	AttendedSessions     int       `bson:"attendedSessions" json:"attendedSessions"`
	AttendancePercentage float64   `bson:"attendancePercentage" json:"attendancePercentage"`
	GeneratedAt          time.Time `bson:"generatedAt" json:"generatedAt"`

	ID            string     `bson:"_id" json:"id"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt     *time.Time `bson:"deletedAt" json:"deletedAt"`
	DeletedReason *string    `bson:"deletedReason" json:"deletedReason"`
}

func AttendancePercentage(attended int, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(attended) / float64(total) * 100
}

func (model MonthlyReport) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateUULDString()
		}
	}
	model.UpdatedAt = now
	return &model
}
