package repository

import (
	"context"
	"sync"
	"time"

	"rollcall.io/application/utils"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/database/connection/datastore"
	"rollcall.io/infrastructure/database/repository/mongo"
)

var monthlyReportOnce = sync.Once{}

var monthlyReportRepository MonthlyReportRepository

func MonthlyReportRepo() MonthlyReportRepository {
	monthlyReportOnce.Do(func() {
		if useMemoryStore() {
			monthlyReportRepository = NewMemoryMonthlyReportRepository()
			return
		}
		monthlyReportRepository = &mongoMonthlyReportRepository{repo: mongo.MongoRepository[entities.MonthlyReport]{Model: datastore.MonthlyReportModel}}
	})
	return monthlyReportRepository
}

type mongoMonthlyReportRepository struct {
	repo mongo.MongoRepository[entities.MonthlyReport]
}

func (r *mongoMonthlyReportRepository) Upsert(ctx context.Context, report entities.MonthlyReport) (*entities.MonthlyReport, error) {
	report.Month = utils.StartOfMonth(report.Month)
	saved, err := r.repo.UpsertOne(ctx, map[string]any{"personID": report.PersonID, "month": report.Month}, report)
	return saved, translate(err)
}

func (r *mongoMonthlyReportRepository) FindByPersonAndMonth(ctx context.Context, personID string, month time.Time) (*entities.MonthlyReport, error) {
	return found(r.repo.FindOneByFilter(ctx, map[string]any{"personID": personID, "month": utils.StartOfMonth(month)}))
}
