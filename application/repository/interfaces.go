package repository

import (
	"context"
	"errors"
	"time"

	"rollcall.io/entities"
)

var (
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate means a unique constraint rejected the write.
	ErrDuplicate = errors.New("duplicate record")
)

type PersonRepository interface {
	Create(ctx context.Context, person entities.Person) (*entities.Person, error)
	FindByID(ctx context.Context, id string) (*entities.Person, error)
	FindActive(ctx context.Context) ([]entities.Person, error)
	// UpdateFaceTemplate replaces the enrolled template. A nil template clears it.
	UpdateFaceTemplate(ctx context.Context, id string, template []float64, imageURL *string) (*entities.Person, error)
}

type GeoFenceRepository interface {
	Create(ctx context.Context, fence entities.GeoFence) (*entities.GeoFence, error)
	FindByID(ctx context.Context, id string) (*entities.GeoFence, error)
	FindAll(ctx context.Context) ([]entities.GeoFence, error)
}

type SessionRepository interface {
	Create(ctx context.Context, session entities.AttendanceSession) (*entities.AttendanceSession, error)
	FindByID(ctx context.Context, id string) (*entities.AttendanceSession, error)
	// Stop marks the session inactive with the given end time. Last writer wins.
	Stop(ctx context.Context, id string, end time.Time) (*entities.AttendanceSession, error)
	FindActive(ctx context.Context, now time.Time) ([]entities.AttendanceSession, error)
	FindStartedBetween(ctx context.Context, from time.Time, to time.Time) ([]entities.AttendanceSession, error)
}

type AttendanceRecordRepository interface {
	// Create returns ErrDuplicate when the person already has a record for the session.
	Create(ctx context.Context, record entities.AttendanceRecord) (*entities.AttendanceRecord, error)
	Exists(ctx context.Context, personID string, sessionID string) (bool, error)
	FindBySession(ctx context.Context, sessionID string) ([]entities.AttendanceRecord, error)
	FindByPersonBetween(ctx context.Context, personID string, from time.Time, to time.Time) ([]entities.AttendanceRecord, error)
	CountByPersonInSessions(ctx context.Context, personID string, sessionIDs []string) (int, error)
}

type MonthlyReportRepository interface {
	// Upsert replaces the report for (PersonID, Month) or inserts it.
	Upsert(ctx context.Context, report entities.MonthlyReport) (*entities.MonthlyReport, error)
	FindByPersonAndMonth(ctx context.Context, personID string, month time.Time) (*entities.MonthlyReport, error)
}

// NotificationLedger hands out the daily report email for a person and day
// to exactly one caller.
type NotificationLedger interface {
	// Claim returns false when the report for that day is already claimed.
	Claim(ctx context.Context, personID string, date time.Time) (bool, error)
	// Release drops a claim whose email never went out.
	Release(ctx context.Context, personID string, date time.Time) error
}
