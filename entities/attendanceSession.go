package entities

import (
	"time"

	"rollcall.io/application/utils"
)

type SessionState string

const (
	SessionScheduled SessionState = "scheduled"
	SessionActive    SessionState = "active"
	SessionClosed    SessionState = "closed"
)

type AttendanceSession struct {
	Name             string  `bson:"name" json:"name"`
	GeoFenceID       string  `bson:"geoFenceID" json:"geoFenceID"`
	ConvenerID       string  `bson:"convenerID" json:"convenerID"`
	TargetYear       *string `bson:"targetYear" json:"targetYear,omitempty"`
	TargetLevel      *Level  `bson:"targetLevel" json:"targetLevel,omitempty"`
	TargetDepartment *string `bson:"targetDepartment" json:"targetDepartment,omitempty"`
	// roles allowed to start and stop the session in addition to the convener
	PermittedRoles []Role    `bson:"permittedRoles" json:"permittedRoles"`
	StartTime      time.Time `bson:"startTime" json:"startTime"`
	EndTime        time.Time `bson:"endTime" json:"endTime"`
	Active         bool      `bson:"active" json:"active"`
	// set on launched copies, points at the scheduled template they came from
	TemplateID *string `bson:"templateID" json:"templateID,omitempty"`

	ID            string     `bson:"_id" json:"id"`
	CreatedAt     time.Time  `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time  `bson:"updatedAt" json:"updatedAt"`
	DeletedAt     *time.Time `bson:"deletedAt" json:"deletedAt"`
	DeletedReason *string    `bson:"deletedReason" json:"deletedReason"`
}

func (model AttendanceSession) Duration() time.Duration {
	return model.EndTime.Sub(model.StartTime)
}

// State derives the lifecycle state at now. A session past its end time is
// closed even if nobody stopped it.
func (model AttendanceSession) State(now time.Time) SessionState {
	if model.Active && now.Before(model.EndTime) {
		return SessionActive
	}
	if !model.Active && model.TemplateID == nil && now.Before(model.EndTime) {
		return SessionScheduled
	}
	return SessionClosed
}

func (model AttendanceSession) ParseModel() any {
	now := time.Now()
	if model.CreatedAt.IsZero() {
		model.CreatedAt = now
		if model.ID == "" {
			model.ID = utils.GenerateUULDString()
		}
	}
	if len(model.PermittedRoles) == 0 {
		model.PermittedRoles = []Role{RoleAdmin}
	}
	model.UpdatedAt = now
	return &model
}
