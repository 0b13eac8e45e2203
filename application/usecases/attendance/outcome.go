package attendance_usecase

import (
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/entities"
)

// Outcome is the result of a mark attempt: a record on success, otherwise
// the first failure the pipeline hit.
type Outcome struct {
	Record  *entities.AttendanceRecord
	Session *entities.AttendanceSession
	Failure *apperrors.Failure
}

func (o Outcome) Succeeded() bool {
	return o.Failure == nil && o.Record != nil
}

func success(record *entities.AttendanceRecord, session *entities.AttendanceSession) Outcome {
	return Outcome{Record: record, Session: session}
}

func failed(err error) Outcome {
	return Outcome{Failure: apperrors.AsFailure(err)}
}
