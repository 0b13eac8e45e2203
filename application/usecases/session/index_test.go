package session_usecase

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/repository"
	"rollcall.io/application/utils"
	"rollcall.io/entities"
)

var scheduledAt = time.Date(2025, time.May, 5, 9, 0, 0, 0, time.UTC)

func newManager(t *testing.T) (*Manager, *entities.GeoFence, *utils.FixedClock) {
	t.Helper()
	fences := repository.NewMemoryGeoFenceRepository()
	fence, err := fences.Create(context.Background(), entities.GeoFence{Name: "Main hall", Latitude: 6.5, Longitude: 3.4, Active: true})
	require.NoError(t, err)
	clock := utils.NewFixedClock(scheduledAt.Add(-time.Hour))
	return &Manager{Sessions: repository.NewMemorySessionRepository(), Fences: fences, Clock: clock}, fence, clock
}

func schedule(t *testing.T, m *Manager, fence *entities.GeoFence, convener entities.Person, roles ...entities.Role) *entities.AttendanceSession {
	t.Helper()
	session, err := m.Create(context.Background(), convener, &dto.CreateSessionDTO{
		Name:           "Data Structures",
		GeoFenceID:     fence.ID,
		StartTime:      scheduledAt,
		EndTime:        scheduledAt.Add(90 * time.Minute),
		PermittedRoles: roles,
	})
	require.NoError(t, err)
	return session
}

func TestStartPreservesConfiguredDuration(t *testing.T) {
	m, fence, clock := newManager(t)
	convener := entities.Person{ID: "fac-1", Role: entities.RoleFaculty}
	template := schedule(t, m, fence, convener)
	assert.Equal(t, entities.SessionScheduled, template.State(clock.Now()))

	clock.Set(scheduledAt.Add(3 * time.Hour))
	first, err := m.Start(context.Background(), template.ID, convener)
	require.NoError(t, err)
	assert.NotEqual(t, template.ID, first.ID)
	assert.Equal(t, template.ID, *first.TemplateID)
	assert.Equal(t, clock.Now(), first.StartTime)
	assert.Equal(t, 90*time.Minute, first.EndTime.Sub(first.StartTime))
	assert.Equal(t, entities.SessionActive, first.State(clock.Now()))

	clock.Advance(5 * time.Minute)
	stopped, err := m.Stop(context.Background(), first.ID, convener)
	require.NoError(t, err)
	assert.False(t, stopped.Active)
	assert.Equal(t, clock.Now(), stopped.EndTime)
	assert.Equal(t, entities.SessionClosed, stopped.State(clock.Now()))

	clock.Advance(24 * time.Hour)
	second, err := m.Start(context.Background(), first.ID, convener)
	require.NoError(t, err)
	assert.Equal(t, template.ID, *second.TemplateID)
	assert.Equal(t, 90*time.Minute, second.EndTime.Sub(second.StartTime))
}

func TestStopRefusesUnstartedTemplate(t *testing.T) {
	m, fence, clock := newManager(t)
	convener := entities.Person{ID: "fac-1", Role: entities.RoleFaculty}
	admin := entities.Person{ID: "adm", Role: entities.RoleAdmin}
	template := schedule(t, m, fence, convener)

	_, err := m.Stop(context.Background(), template.ID, admin)
	assert.True(t, apperrors.HasReason(err, apperrors.SessionNotActive))

	stored, err := m.Sessions.FindByID(context.Background(), template.ID)
	require.NoError(t, err)
	assert.Equal(t, scheduledAt.Add(90*time.Minute), stored.EndTime)
	assert.Equal(t, entities.SessionScheduled, stored.State(clock.Now()))

	clock.Set(scheduledAt.Add(2 * time.Hour))
	_, err = m.Stop(context.Background(), template.ID, convener)
	assert.True(t, apperrors.HasReason(err, apperrors.SessionNotActive))

	launch, err := m.Start(context.Background(), template.ID, admin)
	require.NoError(t, err)
	assert.Equal(t, 90*time.Minute, launch.EndTime.Sub(launch.StartTime))
	assert.Equal(t, entities.SessionActive, launch.State(clock.Now()))
}

func TestStartStopAuthorisation(t *testing.T) {
	m, fence, _ := newManager(t)
	convener := entities.Person{ID: "fac-1", Role: entities.RoleFaculty}
	template := schedule(t, m, fence, convener, entities.RoleHOD, entities.RoleFaculty)
	launch, err := m.Start(context.Background(), template.ID, convener)
	require.NoError(t, err)

	tests := []struct {
		name      string
		requester entities.Person
		allowed   bool
	}{
		{name: "convener", requester: convener, allowed: true},
		{name: "admin", requester: entities.Person{ID: "adm", Role: entities.RoleAdmin}, allowed: true},
		{name: "permitted hod", requester: entities.Person{ID: "hod", Role: entities.RoleHOD}, allowed: true},
		{name: "other faculty despite permitted role", requester: entities.Person{ID: "fac-2", Role: entities.RoleFaculty}, allowed: false},
		{name: "principal not permitted", requester: entities.Person{ID: "pr", Role: entities.RolePrincipal}, allowed: false},
		{name: "student", requester: entities.Person{ID: "st", Role: entities.RoleStudent}, allowed: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, startErr := m.Start(context.Background(), template.ID, tt.requester)
			_, stopErr := m.Stop(context.Background(), launch.ID, tt.requester)
			if tt.allowed {
				assert.NoError(t, startErr)
				assert.NoError(t, stopErr)
				return
			}
			assert.True(t, apperrors.HasReason(startErr, apperrors.Forbidden))
			assert.True(t, apperrors.HasReason(stopErr, apperrors.Forbidden))
		})
	}
}

func TestUnknownSession(t *testing.T) {
	m, _, _ := newManager(t)
	admin := entities.Person{ID: "adm", Role: entities.RoleAdmin}

	_, err := m.Start(context.Background(), "missing", admin)
	assert.True(t, apperrors.HasReason(err, apperrors.NotFound))
	_, err = m.Stop(context.Background(), "missing", admin)
	assert.True(t, apperrors.HasReason(err, apperrors.NotFound))
}

func TestCreateRules(t *testing.T) {
	m, fence, _ := newManager(t)

	_, err := m.Create(context.Background(), entities.Person{ID: "st", Role: entities.RoleStudent}, &dto.CreateSessionDTO{GeoFenceID: fence.ID})
	assert.True(t, apperrors.HasReason(err, apperrors.Forbidden))

	_, err = m.Create(context.Background(), entities.Person{ID: "adm", Role: entities.RoleAdmin}, &dto.CreateSessionDTO{GeoFenceID: "missing"})
	assert.True(t, apperrors.HasReason(err, apperrors.NotFound))

	session := schedule(t, m, fence, entities.Person{ID: "hod", Role: entities.RoleHOD})
	assert.Equal(t, []entities.Role{entities.RoleAdmin}, session.PermittedRoles)
	assert.False(t, session.Active)
}

func TestCheckEligibility(t *testing.T) {
	now := scheduledAt.Add(10 * time.Minute)
	ug := entities.LevelUG
	active := entities.AttendanceSession{
		StartTime:  scheduledAt,
		EndTime:    scheduledAt.Add(time.Hour),
		Active:     true,
		TemplateID: utils.GetStringPointer("tpl"),
	}
	filtered := active
	filtered.TargetYear = utils.GetStringPointer("2")
	filtered.TargetLevel = &ug
	filtered.TargetDepartment = utils.GetStringPointer("CSE")

	student := entities.Person{Year: utils.GetStringPointer("2"), Level: &ug, Department: utils.GetStringPointer("CSE")}
	thirdYear := student
	thirdYear.Year = utils.GetStringPointer("3")
	otherDept := student
	otherDept.Department = utils.GetStringPointer("EEE")

	tests := []struct {
		name    string
		session entities.AttendanceSession
		person  entities.Person
		now     time.Time
		reason  apperrors.Reason
	}{
		{name: "no filters", session: active, person: entities.Person{}, now: now},
		{name: "all filters match", session: filtered, person: student, now: now},
		{name: "year mismatch", session: filtered, person: thirdYear, now: now, reason: apperrors.NotEligible},
		{name: "department mismatch", session: filtered, person: otherDept, now: now, reason: apperrors.NotEligible},
		{name: "missing attribute", session: filtered, person: entities.Person{}, now: now, reason: apperrors.NotEligible},
		{name: "expired", session: active, person: student, now: scheduledAt.Add(2 * time.Hour), reason: apperrors.SessionNotActive},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckEligibility(tt.session, tt.person, tt.now)
			if tt.reason == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperrors.HasReason(err, tt.reason), "got %v", err)
		})
	}
}

func TestActiveSessionsFor(t *testing.T) {
	m, fence, clock := newManager(t)
	admin := entities.Person{ID: "adm", Role: entities.RoleAdmin}
	open := schedule(t, m, fence, admin)
	restricted, err := m.Create(context.Background(), admin, &dto.CreateSessionDTO{
		Name:       "Final years",
		GeoFenceID: fence.ID,
		StartTime:  scheduledAt,
		EndTime:    scheduledAt.Add(time.Hour),
		TargetYear: utils.GetStringPointer("4"),
	})
	require.NoError(t, err)

	clock.Set(scheduledAt)
	_, err = m.Start(context.Background(), open.ID, admin)
	require.NoError(t, err)
	_, err = m.Start(context.Background(), restricted.ID, admin)
	require.NoError(t, err)

	sessions, err := m.ActiveSessionsFor(context.Background(), entities.Person{ID: "st", Year: utils.GetStringPointer("2")})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "Data Structures", sessions[0].Name)
}
