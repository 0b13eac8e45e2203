package attendance_usecase

import (
	"context"
	"encoding/json"
	"errors"
	"image/color"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/repository"
	"rollcall.io/application/services/geofence"
	biometric_usecase "rollcall.io/application/usecases/biometric"
	session_usecase "rollcall.io/application/usecases/session"
	"rollcall.io/application/utils"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/biometric"
	"rollcall.io/infrastructure/biometric/biometrictest"
	"rollcall.io/infrastructure/biometric/types"
	mq_types "rollcall.io/infrastructure/message_queue/types"
)

type recordingQueue struct {
	mu    sync.Mutex
	tasks []mq_types.QueueTask
	err   error
}

func (q *recordingQueue) Enqueue(task mq_types.QueueTask) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.err != nil {
		return q.err
	}
	q.tasks = append(q.tasks, task)
	return nil
}

var (
	campus = geofence.Coordinate{Latitude: 6.5244, Longitude: 3.3792}
	// about 1000 m north of campus
	farAway = geofence.Coordinate{Latitude: 6.5244 + 0.009, Longitude: 3.3792}
	opening = time.Date(2025, time.May, 5, 9, 0, 0, 0, time.UTC)
)

type fixture struct {
	recorder *Recorder
	enroller *biometric_usecase.Enroller
	manager  *session_usecase.Manager
	clock    *utils.FixedClock
	queue    *recordingQueue
	embedder *biometrictest.FakeEmbedder
	fence    *entities.GeoFence
	admin    entities.Person
	student  *entities.Person
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	persons := repository.NewMemoryPersonRepository()
	fences := repository.NewMemoryGeoFenceRepository()
	clock := utils.NewFixedClock(opening)

	fence, err := fences.Create(ctx, entities.GeoFence{Name: "Lecture theatre", Latitude: campus.Latitude, Longitude: campus.Longitude, Radius: 300, Active: true})
	require.NoError(t, err)
	student, err := persons.Create(ctx, entities.Person{
		Email:      "ada@rollcall.io",
		RollNumber: "CS-001",
		FirstName:  "Ada",
		Role:       entities.RoleStudent,
		Year:       utils.GetStringPointer("2"),
		Active:     true,
	})
	require.NoError(t, err)

	embedder := &biometrictest.FakeEmbedder{Template: types.Template{0.12, 0.34, 0.56, 0.78}}
	backend := &biometrictest.FakeBackend{
		Fast:      &biometrictest.FakeDetector{Regions: biometrictest.OneFace()},
		Slow:      &biometrictest.FakeDetector{},
		Embed:     embedder,
		Tolerance: 0.4,
	}
	service := biometric.NewService(backend, biometric.DefaultLivenessThresholds(), 0.4)
	manager := &session_usecase.Manager{Sessions: repository.NewMemorySessionRepository(), Fences: fences, Clock: clock}
	queue := &recordingQueue{}

	return &fixture{
		recorder: &Recorder{
			Persons:  persons,
			Fences:   fences,
			Records:  repository.NewMemoryAttendanceRecordRepository(),
			Sessions: manager,
			Verifier: service,
			Queue:    queue,
			Clock:    clock,
		},
		enroller: &biometric_usecase.Enroller{Persons: persons, Encoder: service},
		manager:  manager,
		clock:    clock,
		queue:    queue,
		embedder: embedder,
		fence:    fence,
		admin:    entities.Person{ID: "admin", Role: entities.RoleAdmin},
		student:  student,
	}
}

func (f *fixture) startSession(t *testing.T, targetYear *string) *entities.AttendanceSession {
	t.Helper()
	template, err := f.manager.Create(context.Background(), f.admin, &dto.CreateSessionDTO{
		Name:       "Data Structures",
		GeoFenceID: f.fence.ID,
		StartTime:  opening,
		EndTime:    opening.Add(time.Hour),
		TargetYear: targetYear,
	})
	require.NoError(t, err)
	launch, err := f.manager.Start(context.Background(), template.ID, f.admin)
	require.NoError(t, err)
	return launch
}

func (f *fixture) enroll(t *testing.T) {
	t.Helper()
	_, err := f.enroller.EnrollFace(context.Background(), f.student.ID, biometrictest.LiveLikeFrame())
	require.NoError(t, err)
}

func (f *fixture) mark(session *entities.AttendanceSession, frame *types.Frame, at *geofence.Coordinate) Outcome {
	return f.recorder.MarkAttendance(context.Background(), MarkAttendanceRequest{
		PersonID:   f.student.ID,
		SessionID:  session.ID,
		Frame:      frame,
		Coordinate: at,
	})
}

func TestEnrolledCaptureAtFenceCentreSucceeds(t *testing.T) {
	f := newFixture(t)
	f.enroll(t)
	session := f.startSession(t, nil)

	outcome := f.mark(session, biometrictest.LiveLikeFrame(), &campus)
	require.True(t, outcome.Succeeded(), "failure: %v", outcome.Failure)
	assert.Equal(t, f.student.ID, outcome.Record.PersonID)
	assert.Equal(t, session.ID, outcome.Record.SessionID)
	assert.Equal(t, f.clock.Now(), outcome.Record.Timestamp)
	assert.Equal(t, campus.Latitude, *outcome.Record.Latitude)
	assert.Equal(t, entities.VerificationFace, outcome.Record.VerificationMethod)
	assert.InDelta(t, 0, *outcome.Record.FaceDistance, 1e-12)

	require.Len(t, f.queue.tasks, 1)
	assert.Equal(t, mq_types.EmailDeliveryTaskName, f.queue.tasks[0].Name)
	var email mq_types.EmailPayload
	require.NoError(t, json.Unmarshal(f.queue.tasks[0].Payload, &email))
	assert.Equal(t, "ada@rollcall.io", email.To)
	assert.Equal(t, "attendance_marked", email.Template)
}

func TestCaptureOutsideFenceIsRejected(t *testing.T) {
	f := newFixture(t)
	f.enroll(t)
	session := f.startSession(t, nil)

	outcome := f.mark(session, biometrictest.LiveLikeFrame(), &farAway)
	require.NotNil(t, outcome.Failure)
	assert.Equal(t, apperrors.OutsideFence, outcome.Failure.Reason)
	require.NotNil(t, outcome.Failure.Measurement)
	assert.InDelta(t, 1000, *outcome.Failure.Measurement, 5)

	outcome = f.mark(session, biometrictest.LiveLikeFrame(), nil)
	assert.Equal(t, apperrors.LocationUnavailable, outcome.Failure.Reason)
}

func TestIneligibleYearIsRejected(t *testing.T) {
	f := newFixture(t)
	f.enroll(t)
	session := f.startSession(t, utils.GetStringPointer("3"))

	outcome := f.mark(session, biometrictest.LiveLikeFrame(), &campus)
	require.NotNil(t, outcome.Failure)
	assert.Equal(t, apperrors.NotEligible, outcome.Failure.Reason)
}

func TestConcurrentMarksRecordOnce(t *testing.T) {
	f := newFixture(t)
	f.enroll(t)
	session := f.startSession(t, nil)

	const attempts = 2
	outcomes := make([]Outcome, attempts)
	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			outcomes[i] = f.mark(session, biometrictest.LiveLikeFrame(), &campus)
		}(i)
	}
	close(start)
	wg.Wait()

	successes, duplicates := 0, 0
	for _, outcome := range outcomes {
		switch {
		case outcome.Succeeded():
			successes++
		case outcome.Failure.Reason == apperrors.AlreadyMarked:
			duplicates++
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, 1, duplicates)

	records, err := f.recorder.Records.FindBySession(context.Background(), session.ID)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestPipelineOrdering(t *testing.T) {
	f := newFixture(t)
	f.enroll(t)
	session := f.startSession(t, nil)

	embedCalls := 0
	f.embedder.Func = func(frame *types.Frame, region types.Region) (types.Template, error) {
		embedCalls++
		return f.embedder.Template, nil
	}
	blurry := types.NewFrame(biometrictest.Checkerboard(64, 64, color.RGBA{R: 120, G: 120, B: 120, A: 255}, color.RGBA{}))

	outcome := f.mark(session, blurry, &farAway)
	assert.Equal(t, apperrors.OutsideFence, outcome.Failure.Reason, "location is checked before liveness")

	outcome = f.mark(session, blurry, &campus)
	assert.Equal(t, apperrors.TooBlurry, outcome.Failure.Reason)
	assert.Equal(t, 0, embedCalls, "liveness failures never reach the encoder")

	f.clock.Advance(2 * time.Hour)
	outcome = f.mark(session, blurry, &farAway)
	assert.Equal(t, apperrors.SessionNotActive, outcome.Failure.Reason, "session state is checked first")
}

func TestMismatchedFaceIsRejected(t *testing.T) {
	f := newFixture(t)
	f.enroll(t)
	session := f.startSession(t, nil)
	f.embedder.Template = types.Template{0.92, 0.34, 0.56, 0.78}

	outcome := f.mark(session, biometrictest.LiveLikeFrame(), &campus)
	require.NotNil(t, outcome.Failure)
	assert.Equal(t, apperrors.NoMatch, outcome.Failure.Reason)
	assert.InDelta(t, 0.8, *outcome.Failure.Measurement, 1e-9)

	f.embedder.Template = types.Template{0.1, 0.2}
	outcome = f.mark(session, biometrictest.LiveLikeFrame(), &campus)
	assert.Equal(t, apperrors.TemplateMismatch, outcome.Failure.Reason)
}

func TestUnenrolledPersonCannotMark(t *testing.T) {
	f := newFixture(t)
	session := f.startSession(t, nil)

	outcome := f.mark(session, biometrictest.LiveLikeFrame(), &campus)
	require.NotNil(t, outcome.Failure)
	assert.Equal(t, apperrors.TemplateMismatch, outcome.Failure.Reason)
}

func TestNotificationFailureKeepsRecord(t *testing.T) {
	f := newFixture(t)
	f.enroll(t)
	session := f.startSession(t, nil)
	f.queue.err = errors.New("redis down")

	outcome := f.mark(session, biometrictest.LiveLikeFrame(), &campus)
	assert.True(t, outcome.Succeeded())

	second := f.mark(session, biometrictest.LiveLikeFrame(), &campus)
	assert.Equal(t, apperrors.AlreadyMarked, second.Failure.Reason)
}

func TestUnknownSessionAndPerson(t *testing.T) {
	f := newFixture(t)

	outcome := f.recorder.MarkAttendance(context.Background(), MarkAttendanceRequest{PersonID: f.student.ID, SessionID: "missing"})
	assert.Equal(t, apperrors.NotFound, outcome.Failure.Reason)

	outcome = f.recorder.MarkAttendance(context.Background(), MarkAttendanceRequest{PersonID: "missing", SessionID: "missing"})
	assert.Equal(t, apperrors.NotFound, outcome.Failure.Reason)
}
