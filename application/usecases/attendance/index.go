package attendance_usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/repository"
	"rollcall.io/application/services/geofence"
	session_usecase "rollcall.io/application/usecases/session"
	"rollcall.io/application/utils"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/biometric"
	"rollcall.io/infrastructure/biometric/types"
	"rollcall.io/infrastructure/logger"
	messagequeue "rollcall.io/infrastructure/message_queue"
	mq_types "rollcall.io/infrastructure/message_queue/types"
)

// FaceVerifier is the part of the biometric service the pipeline needs.
type FaceVerifier interface {
	CheckLiveness(frame *types.Frame) (*types.LivenessReport, error)
	Encode(frame *types.Frame) (types.Template, error)
	Compare(enrolled types.Template, live types.Template) (*types.MatchResult, error)
}

type TaskEnqueuer interface {
	Enqueue(task mq_types.QueueTask) error
}

type MarkAttendanceRequest struct {
	PersonID   string
	SessionID  string
	Frame      *types.Frame
	Coordinate *geofence.Coordinate
	Device     *entities.CaptureDevice
}

// Recorder runs the verification pipeline and commits the attendance record.
type Recorder struct {
	Persons  repository.PersonRepository
	Fences   repository.GeoFenceRepository
	Records  repository.AttendanceRecordRepository
	Sessions *session_usecase.Manager
	Verifier FaceVerifier
	Queue    TaskEnqueuer
	Clock    utils.Clock
}

func NewRecorder() *Recorder {
	return &Recorder{
		Persons:  repository.PersonRepo(),
		Fences:   repository.GeoFenceRepo(),
		Records:  repository.AttendanceRecordRepo(),
		Sessions: session_usecase.NewManager(),
		Verifier: biometric.BiometricService,
		Queue:    messagequeue.TaskQueue,
		Clock:    utils.SystemClock{},
	}
}

// MarkAttendance checks eligibility, location, liveness and identity in that
// order and stops at the first failure. Only a capture passing every check
// reaches Record.
func (r *Recorder) MarkAttendance(ctx context.Context, req MarkAttendanceRequest) Outcome {
	person, err := r.Persons.FindByID(ctx, req.PersonID)
	if err != nil {
		return r.fail(req, notFound(err, "person does not exist"))
	}
	session, err := r.Sessions.Find(ctx, req.SessionID)
	if err != nil {
		return r.fail(req, err)
	}
	if err := session_usecase.CheckEligibility(*session, *person, r.Clock.Now()); err != nil {
		return r.fail(req, err)
	}
	marked, err := r.Records.Exists(ctx, person.ID, session.ID)
	if err != nil {
		return r.fail(req, err)
	}
	if marked {
		return r.fail(req, apperrors.NewFailure(apperrors.AlreadyMarked, "attendance already marked for this session"))
	}

	fence, err := r.Fences.FindByID(ctx, session.GeoFenceID)
	if err != nil {
		return r.fail(req, notFound(err, "session geofence does not exist"))
	}
	if err := geofence.Evaluate(*fence, req.Coordinate); err != nil {
		return r.fail(req, err)
	}

	if req.Frame == nil {
		return r.fail(req, apperrors.NewFailure(apperrors.InvalidImage, "no capture provided"))
	}
	if _, err := r.Verifier.CheckLiveness(req.Frame); err != nil {
		return r.fail(req, err)
	}
	live, err := r.Verifier.Encode(req.Frame)
	if err != nil {
		return r.fail(req, err)
	}
	match, err := r.Verifier.Compare(person.FaceTemplate, live)
	if err != nil {
		return r.fail(req, err)
	}
	if !match.IsMatch {
		return r.fail(req, apperrors.NewMeasuredFailure(apperrors.NoMatch, match.Distance,
			"face distance %.4f is above tolerance", match.Distance))
	}

	record, err := r.Record(ctx, *person, *session, req.Coordinate, &match.Distance, req.Device)
	if err != nil {
		return r.fail(req, err)
	}
	return success(record, session)
}

// Record commits the attendance fact. The store's unique (person, session)
// constraint decides concurrent attempts: the loser gets AlreadyMarked. The
// confirmation email is best effort.
func (r *Recorder) Record(ctx context.Context, person entities.Person, session entities.AttendanceSession, coordinate *geofence.Coordinate, distance *float64, device *entities.CaptureDevice) (*entities.AttendanceRecord, error) {
	record := entities.AttendanceRecord{
		PersonID:           person.ID,
		SessionID:          session.ID,
		Timestamp:          r.Clock.Now(),
		VerificationMethod: entities.VerificationFace,
		FaceDistance:       distance,
		Device:             device,
	}
	if coordinate != nil {
		record.Latitude = utils.GetFloat64Pointer(coordinate.Latitude)
		record.Longitude = utils.GetFloat64Pointer(coordinate.Longitude)
	}
	created, err := r.Records.Create(ctx, record)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, apperrors.NewFailure(apperrors.AlreadyMarked, "attendance already marked for this session")
		}
		return nil, err
	}
	logger.Info("attendance recorded", logger.LoggerOptions{
		Key:  "personID",
		Data: person.ID,
	}, logger.LoggerOptions{
		Key:  "sessionID",
		Data: session.ID,
	})
	r.notify(person, session, *created)
	return created, nil
}

func (r *Recorder) notify(person entities.Person, session entities.AttendanceSession, record entities.AttendanceRecord) {
	if r.Queue == nil || person.Email == "" {
		return
	}
	payload, err := json.Marshal(mq_types.EmailPayload{
		To:       person.Email,
		Subject:  fmt.Sprintf("Attendance recorded for %s", session.Name),
		Template: "attendance_marked",
		Opts: map[string]any{
			"NAME":         person.FullName(),
			"SESSION_NAME": session.Name,
			"MARKED_AT":    record.Timestamp.Format(time.RFC1123),
		},
	})
	if err != nil {
		logger.Error("error marshalling payload for email queue", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return
	}
	err = r.Queue.Enqueue(mq_types.QueueTask{
		Payload:   payload,
		Name:      mq_types.EmailDeliveryTaskName,
		Priority:  mq_types.High,
		ProcessIn: 1,
	})
	if err != nil {
		logger.Error("could not queue attendance confirmation email", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "recordID",
			Data: record.ID,
		})
	}
}

func (r *Recorder) fail(req MarkAttendanceRequest, err error) Outcome {
	outcome := failed(err)
	if outcome.Failure.Reason == apperrors.Internal {
		logger.Error("attendance pipeline failed", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "personID",
			Data: req.PersonID,
		}, logger.LoggerOptions{
			Key:  "sessionID",
			Data: req.SessionID,
		})
		return outcome
	}
	logger.Info("attendance rejected", logger.LoggerOptions{
		Key:  "reason",
		Data: outcome.Failure.Reason,
	}, logger.LoggerOptions{
		Key:  "personID",
		Data: req.PersonID,
	}, logger.LoggerOptions{
		Key:  "sessionID",
		Data: req.SessionID,
	})
	return outcome
}

func notFound(err error, detail string) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewFailure(apperrors.NotFound, detail)
	}
	return err
}
