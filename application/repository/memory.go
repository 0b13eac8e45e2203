package repository

import (
	"context"
	"os"
	"slices"
	"sync"
	"time"

	"rollcall.io/application/utils"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/database"
)

// Memory stores back DB_DRIVER=memory and the usecase tests. Each table
// checks its unique keys and writes under one lock, the same guarantee the
// mongo unique indexes give.
func useMemoryStore() bool {
	return os.Getenv("DB_DRIVER") == "memory"
}

type table[T database.BaseModel] struct {
	mu     sync.RWMutex
	order  []string
	rows   map[string]T
	id     func(T) string
	unique []func(T) string
}

func newTable[T database.BaseModel](id func(T) string, unique ...func(T) string) *table[T] {
	return &table[T]{rows: map[string]T{}, id: id, unique: unique}
}

func (t *table[T]) insert(row T) (*T, error) {
	parsed := *(row.ParseModel().(*T))
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.rows[t.id(parsed)]; ok {
		return nil, ErrDuplicate
	}
	for _, key := range t.unique {
		for _, existing := range t.rows {
			if key(existing) == key(parsed) {
				return nil, ErrDuplicate
			}
		}
	}
	t.rows[t.id(parsed)] = parsed
	t.order = append(t.order, t.id(parsed))
	return &parsed, nil
}

func (t *table[T]) get(id string) (*T, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &row, nil
}

func (t *table[T]) filter(match func(T) bool) []T {
	t.mu.RLock()
	defer t.mu.RUnlock()
	results := []T{}
	for _, id := range t.order {
		if row := t.rows[id]; match(row) {
			results = append(results, row)
		}
	}
	return results
}

func (t *table[T]) update(id string, apply func(*T)) (*T, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	row, ok := t.rows[id]
	if !ok {
		return nil, ErrNotFound
	}
	apply(&row)
	row = *(row.ParseModel().(*T))
	t.rows[id] = row
	return &row, nil
}

type memoryPersonRepository struct {
	persons *table[entities.Person]
}

func NewMemoryPersonRepository() PersonRepository {
	return &memoryPersonRepository{persons: newTable(
		func(p entities.Person) string { return p.ID },
		func(p entities.Person) string { return "email:" + p.Email },
		func(p entities.Person) string { return "roll:" + p.RollNumber },
	)}
}

func (r *memoryPersonRepository) Create(ctx context.Context, person entities.Person) (*entities.Person, error) {
	return r.persons.insert(person)
}

func (r *memoryPersonRepository) FindByID(ctx context.Context, id string) (*entities.Person, error) {
	return r.persons.get(id)
}

func (r *memoryPersonRepository) FindActive(ctx context.Context) ([]entities.Person, error) {
	return r.persons.filter(func(p entities.Person) bool { return p.Active }), nil
}

func (r *memoryPersonRepository) UpdateFaceTemplate(ctx context.Context, id string, template []float64, imageURL *string) (*entities.Person, error) {
	return r.persons.update(id, func(p *entities.Person) {
		p.FaceTemplate = slices.Clone(template)
		p.FaceImageURL = imageURL
	})
}

type memoryGeoFenceRepository struct {
	fences *table[entities.GeoFence]
}

func NewMemoryGeoFenceRepository() GeoFenceRepository {
	return &memoryGeoFenceRepository{fences: newTable(func(f entities.GeoFence) string { return f.ID })}
}

func (r *memoryGeoFenceRepository) Create(ctx context.Context, fence entities.GeoFence) (*entities.GeoFence, error) {
	return r.fences.insert(fence)
}

func (r *memoryGeoFenceRepository) FindByID(ctx context.Context, id string) (*entities.GeoFence, error) {
	return r.fences.get(id)
}

func (r *memoryGeoFenceRepository) FindAll(ctx context.Context) ([]entities.GeoFence, error) {
	fences := r.fences.filter(func(entities.GeoFence) bool { return true })
	slices.SortStableFunc(fences, func(a, b entities.GeoFence) int {
		if a.Name < b.Name {
			return -1
		}
		if a.Name > b.Name {
			return 1
		}
		return 0
	})
	return fences, nil
}

type memorySessionRepository struct {
	sessions *table[entities.AttendanceSession]
}

func NewMemorySessionRepository() SessionRepository {
	return &memorySessionRepository{sessions: newTable(func(s entities.AttendanceSession) string { return s.ID })}
}

func (r *memorySessionRepository) Create(ctx context.Context, session entities.AttendanceSession) (*entities.AttendanceSession, error) {
	return r.sessions.insert(session)
}

func (r *memorySessionRepository) FindByID(ctx context.Context, id string) (*entities.AttendanceSession, error) {
	return r.sessions.get(id)
}

func (r *memorySessionRepository) Stop(ctx context.Context, id string, end time.Time) (*entities.AttendanceSession, error) {
	return r.sessions.update(id, func(s *entities.AttendanceSession) {
		s.Active = false
		s.EndTime = end
	})
}

func (r *memorySessionRepository) FindActive(ctx context.Context, now time.Time) ([]entities.AttendanceSession, error) {
	return r.sessions.filter(func(s entities.AttendanceSession) bool {
		return s.Active && now.Before(s.EndTime)
	}), nil
}

func (r *memorySessionRepository) FindStartedBetween(ctx context.Context, from time.Time, to time.Time) ([]entities.AttendanceSession, error) {
	return r.sessions.filter(func(s entities.AttendanceSession) bool {
		return !s.StartTime.Before(from) && s.StartTime.Before(to)
	}), nil
}

type memoryAttendanceRecordRepository struct {
	records *table[entities.AttendanceRecord]
}

func NewMemoryAttendanceRecordRepository() AttendanceRecordRepository {
	return &memoryAttendanceRecordRepository{records: newTable(
		func(r entities.AttendanceRecord) string { return r.ID },
		func(r entities.AttendanceRecord) string { return r.PersonID + "/" + r.SessionID },
	)}
}

func (r *memoryAttendanceRecordRepository) Create(ctx context.Context, record entities.AttendanceRecord) (*entities.AttendanceRecord, error) {
	return r.records.insert(record)
}

func (r *memoryAttendanceRecordRepository) Exists(ctx context.Context, personID string, sessionID string) (bool, error) {
	matches := r.records.filter(func(record entities.AttendanceRecord) bool {
		return record.PersonID == personID && record.SessionID == sessionID
	})
	return len(matches) > 0, nil
}

func (r *memoryAttendanceRecordRepository) FindBySession(ctx context.Context, sessionID string) ([]entities.AttendanceRecord, error) {
	return r.records.filter(func(record entities.AttendanceRecord) bool {
		return record.SessionID == sessionID
	}), nil
}

func (r *memoryAttendanceRecordRepository) FindByPersonBetween(ctx context.Context, personID string, from time.Time, to time.Time) ([]entities.AttendanceRecord, error) {
	return r.records.filter(func(record entities.AttendanceRecord) bool {
		return record.PersonID == personID && !record.Timestamp.Before(from) && record.Timestamp.Before(to)
	}), nil
}

func (r *memoryAttendanceRecordRepository) CountByPersonInSessions(ctx context.Context, personID string, sessionIDs []string) (int, error) {
	matches := r.records.filter(func(record entities.AttendanceRecord) bool {
		return record.PersonID == personID && slices.Contains(sessionIDs, record.SessionID)
	})
	return len(matches), nil
}

type memoryMonthlyReportRepository struct {
	mu      sync.Mutex
	reports map[string]entities.MonthlyReport
}

func NewMemoryMonthlyReportRepository() MonthlyReportRepository {
	return &memoryMonthlyReportRepository{reports: map[string]entities.MonthlyReport{}}
}

func reportKey(personID string, month time.Time) string {
	return personID + "/" + utils.StartOfMonth(month).Format("2006-01")
}

func (r *memoryMonthlyReportRepository) Upsert(ctx context.Context, report entities.MonthlyReport) (*entities.MonthlyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report.Month = utils.StartOfMonth(report.Month)
	key := reportKey(report.PersonID, report.Month)
	if existing, ok := r.reports[key]; ok {
		report.ID = existing.ID
		report.CreatedAt = existing.CreatedAt
	}
	saved := *(report.ParseModel().(*entities.MonthlyReport))
	r.reports[key] = saved
	return &saved, nil
}

func (r *memoryMonthlyReportRepository) FindByPersonAndMonth(ctx context.Context, personID string, month time.Time) (*entities.MonthlyReport, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	report, ok := r.reports[reportKey(personID, month)]
	if !ok {
		return nil, ErrNotFound
	}
	return &report, nil
}

type memoryNotificationLedger struct {
	mu   sync.Mutex
	sent map[string]bool
}

func NewMemoryNotificationLedger() NotificationLedger {
	return &memoryNotificationLedger{sent: map[string]bool{}}
}

func (l *memoryNotificationLedger) Claim(ctx context.Context, personID string, date time.Time) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := ledgerKey(personID, date)
	if l.sent[key] {
		return false, nil
	}
	l.sent[key] = true
	return true, nil
}

func (l *memoryNotificationLedger) Release(ctx context.Context, personID string, date time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.sent, ledgerKey(personID, date))
	return nil
}
