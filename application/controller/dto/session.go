package dto

import (
	"time"

	"rollcall.io/entities"
)

type CreateSessionDTO struct {
	Name             string          `json:"name" validate:"required,min=2,max=120"`
	GeoFenceID       string          `json:"geoFenceID" validate:"required,ulid"`
	StartTime        time.Time       `json:"startTime" validate:"required"`
	EndTime          time.Time       `json:"endTime" validate:"required,gtfield=StartTime"`
	TargetYear       *string         `json:"targetYear" validate:"omitempty,max=8"`
	TargetLevel      *entities.Level `json:"targetLevel" validate:"omitempty,oneof=UG PG"`
	TargetDepartment *string         `json:"targetDepartment" validate:"omitempty,max=64"`
	PermittedRoles   []entities.Role `json:"permittedRoles" validate:"omitempty,dive,role"`
}

type SessionResponse struct {
	entities.AttendanceSession
	State entities.SessionState `json:"state"`
}
