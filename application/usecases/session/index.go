package session_usecase

import (
	"context"
	"errors"
	"time"

	apperrors "rollcall.io/application/appErrors"
	"rollcall.io/application/controller/dto"
	"rollcall.io/application/repository"
	"rollcall.io/application/utils"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/logger"
)

// Manager owns the session lifecycle: scheduled templates, launched copies,
// stopping and the per-mark eligibility gate.
type Manager struct {
	Sessions repository.SessionRepository
	Fences   repository.GeoFenceRepository
	Clock    utils.Clock
}

func NewManager() *Manager {
	return &Manager{
		Sessions: repository.SessionRepo(),
		Fences:   repository.GeoFenceRepo(),
		Clock:    utils.SystemClock{},
	}
}

// roles that may schedule sessions of their own
var conveningRoles = []entities.Role{entities.RoleAdmin, entities.RoleHOD, entities.RolePrincipal, entities.RoleFaculty}

// CanOperate reports whether requester may start or stop session. Admins and
// the convener always can. Other roles need to be listed in PermittedRoles,
// and faculty additionally have to be the convener.
func CanOperate(session entities.AttendanceSession, requester entities.Person) bool {
	if requester.Role == entities.RoleAdmin || requester.ID == session.ConvenerID {
		return true
	}
	if requester.Role == entities.RoleFaculty {
		return false
	}
	for _, role := range session.PermittedRoles {
		if role == requester.Role {
			return true
		}
	}
	return false
}

func (m *Manager) Create(ctx context.Context, requester entities.Person, payload *dto.CreateSessionDTO) (*entities.AttendanceSession, error) {
	allowed := false
	for _, role := range conveningRoles {
		if requester.Role == role {
			allowed = true
		}
	}
	if !allowed {
		return nil, apperrors.NewFailure(apperrors.Forbidden, "only staff can schedule sessions")
	}
	if _, err := m.Fences.FindByID(ctx, payload.GeoFenceID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewFailure(apperrors.NotFound, "geofence does not exist")
		}
		return nil, err
	}
	permitted := payload.PermittedRoles
	if len(permitted) == 0 {
		permitted = []entities.Role{entities.RoleAdmin}
	}
	session, err := m.Sessions.Create(ctx, entities.AttendanceSession{
		Name:             payload.Name,
		GeoFenceID:       payload.GeoFenceID,
		ConvenerID:       requester.ID,
		TargetYear:       payload.TargetYear,
		TargetLevel:      payload.TargetLevel,
		TargetDepartment: payload.TargetDepartment,
		PermittedRoles:   permitted,
		StartTime:        payload.StartTime.UTC(),
		EndTime:          payload.EndTime.UTC(),
	})
	if err != nil {
		logger.Error("an error occured while creating session", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "payload",
			Data: *payload,
		})
		return nil, err
	}
	return session, nil
}

// Start launches a new active copy of the session. The window always has the
// duration of the root template, whatever happened to earlier launches.
func (m *Manager) Start(ctx context.Context, sessionID string, requester entities.Person) (*entities.AttendanceSession, error) {
	source, err := m.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !CanOperate(*source, requester) {
		return nil, apperrors.NewFailure(apperrors.Forbidden, "you cannot start this session")
	}
	template := m.rootTemplate(ctx, *source)

	now := m.Clock.Now()
	launch, err := m.Sessions.Create(ctx, entities.AttendanceSession{
		Name:             template.Name,
		GeoFenceID:       template.GeoFenceID,
		ConvenerID:       template.ConvenerID,
		TargetYear:       template.TargetYear,
		TargetLevel:      template.TargetLevel,
		TargetDepartment: template.TargetDepartment,
		PermittedRoles:   template.PermittedRoles,
		StartTime:        now,
		EndTime:          now.Add(template.Duration()),
		Active:           true,
		TemplateID:       utils.GetStringPointer(template.ID),
	})
	if err != nil {
		logger.Error("an error occured while launching session", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "sessionID",
			Data: sessionID,
		})
		return nil, err
	}
	logger.Info("session started", logger.LoggerOptions{
		Key:  "sessionID",
		Data: launch.ID,
	}, logger.LoggerOptions{
		Key:  "templateID",
		Data: template.ID,
	}, logger.LoggerOptions{
		Key:  "startedBy",
		Data: requester.ID,
	})
	return launch, nil
}

func (m *Manager) Stop(ctx context.Context, sessionID string, requester entities.Person) (*entities.AttendanceSession, error) {
	session, err := m.find(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if !CanOperate(*session, requester) {
		return nil, apperrors.NewFailure(apperrors.Forbidden, "you cannot stop this session")
	}
	now := m.Clock.Now()
	// a template's window is the configured duration of every launch
	if session.TemplateID == nil && session.State(now) != entities.SessionActive {
		return nil, apperrors.NewFailure(apperrors.SessionNotActive, "session has not been started")
	}
	stopped, err := m.Sessions.Stop(ctx, sessionID, now)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewFailure(apperrors.NotFound, "session does not exist")
		}
		return nil, err
	}
	logger.Info("session stopped", logger.LoggerOptions{
		Key:  "sessionID",
		Data: sessionID,
	}, logger.LoggerOptions{
		Key:  "stoppedBy",
		Data: requester.ID,
	})
	return stopped, nil
}

// CheckEligibility gates every mark attempt: the session must be active at
// now and every filter present on it must match the person.
func CheckEligibility(session entities.AttendanceSession, person entities.Person, now time.Time) error {
	if session.State(now) != entities.SessionActive {
		return apperrors.NewFailure(apperrors.SessionNotActive, "session is not accepting attendance")
	}
	if reason := filterMismatch(session, person); reason != "" {
		return apperrors.NewFailure(apperrors.NotEligible, reason)
	}
	return nil
}

// MatchesFilters ignores session state and only checks year, level and
// department.
func MatchesFilters(session entities.AttendanceSession, person entities.Person) bool {
	return filterMismatch(session, person) == ""
}

func filterMismatch(session entities.AttendanceSession, person entities.Person) string {
	if session.TargetYear != nil && (person.Year == nil || *person.Year != *session.TargetYear) {
		return "session is restricted to year " + *session.TargetYear
	}
	if session.TargetLevel != nil && (person.Level == nil || *person.Level != *session.TargetLevel) {
		return "session is restricted to level " + string(*session.TargetLevel)
	}
	if session.TargetDepartment != nil && (person.Department == nil || *person.Department != *session.TargetDepartment) {
		return "session is restricted to department " + *session.TargetDepartment
	}
	return ""
}

// ActiveSessionsFor lists the sessions person could mark right now.
func (m *Manager) ActiveSessionsFor(ctx context.Context, person entities.Person) ([]entities.AttendanceSession, error) {
	now := m.Clock.Now()
	sessions, err := m.Sessions.FindActive(ctx, now)
	if err != nil {
		return nil, err
	}
	eligible := []entities.AttendanceSession{}
	for _, session := range sessions {
		if CheckEligibility(session, person, now) == nil {
			eligible = append(eligible, session)
		}
	}
	return eligible, nil
}

func (m *Manager) Find(ctx context.Context, sessionID string) (*entities.AttendanceSession, error) {
	return m.find(ctx, sessionID)
}

func (m *Manager) find(ctx context.Context, sessionID string) (*entities.AttendanceSession, error) {
	session, err := m.Sessions.FindByID(ctx, sessionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewFailure(apperrors.NotFound, "session does not exist")
		}
		return nil, err
	}
	return session, nil
}

func (m *Manager) rootTemplate(ctx context.Context, session entities.AttendanceSession) entities.AttendanceSession {
	if session.TemplateID == nil {
		return session
	}
	root, err := m.Sessions.FindByID(ctx, *session.TemplateID)
	if err != nil {
		logger.Warning("template of launched session is missing, launching from the copy", logger.LoggerOptions{
			Key:  "sessionID",
			Data: session.ID,
		}, logger.LoggerOptions{
			Key:  "templateID",
			Data: *session.TemplateID,
		})
		return session
	}
	return *root
}
