package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/database/connection/datastore"
	"rollcall.io/infrastructure/database/repository/mongo"
)

var attendanceRecordOnce = sync.Once{}

var attendanceRecordRepository AttendanceRecordRepository

func AttendanceRecordRepo() AttendanceRecordRepository {
	attendanceRecordOnce.Do(func() {
		if useMemoryStore() {
			attendanceRecordRepository = NewMemoryAttendanceRecordRepository()
			return
		}
		attendanceRecordRepository = &mongoAttendanceRecordRepository{repo: mongo.MongoRepository[entities.AttendanceRecord]{Model: datastore.AttendanceRecordModel}}
	})
	return attendanceRecordRepository
}

type mongoAttendanceRecordRepository struct {
	repo mongo.MongoRepository[entities.AttendanceRecord]
}

// Uniqueness is enforced by the (personID, sessionID) index, not by a read
// before the write.
func (r *mongoAttendanceRecordRepository) Create(ctx context.Context, record entities.AttendanceRecord) (*entities.AttendanceRecord, error) {
	created, err := r.repo.CreateOne(ctx, record)
	return created, translate(err)
}

func (r *mongoAttendanceRecordRepository) Exists(ctx context.Context, personID string, sessionID string) (bool, error) {
	count, err := r.repo.CountDocs(ctx, map[string]any{"personID": personID, "sessionID": sessionID})
	return count > 0, err
}

func (r *mongoAttendanceRecordRepository) FindBySession(ctx context.Context, sessionID string) ([]entities.AttendanceRecord, error) {
	return r.repo.FindMany(ctx, map[string]any{"sessionID": sessionID}, &mongo.FindOptions{Sort: bson.D{{Key: "timestamp", Value: 1}}})
}

func (r *mongoAttendanceRecordRepository) FindByPersonBetween(ctx context.Context, personID string, from time.Time, to time.Time) ([]entities.AttendanceRecord, error) {
	return r.repo.FindMany(ctx, map[string]any{
		"personID":  personID,
		"timestamp": bson.M{"$gte": from, "$lt": to},
	}, &mongo.FindOptions{Sort: bson.D{{Key: "timestamp", Value: 1}}})
}

func (r *mongoAttendanceRecordRepository) CountByPersonInSessions(ctx context.Context, personID string, sessionIDs []string) (int, error) {
	if len(sessionIDs) == 0 {
		return 0, nil
	}
	count, err := r.repo.CountDocs(ctx, map[string]any{
		"personID":  personID,
		"sessionID": bson.M{"$in": sessionIDs},
	})
	return int(count), err
}
