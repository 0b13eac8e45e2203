package report_usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"rollcall.io/application/repository"
	session_usecase "rollcall.io/application/usecases/session"
	"rollcall.io/application/utils"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/logger"
	messagequeue "rollcall.io/infrastructure/message_queue"
	mq_types "rollcall.io/infrastructure/message_queue/types"
)

type TaskEnqueuer interface {
	Enqueue(task mq_types.QueueTask) error
}

type Reporter struct {
	Persons  repository.PersonRepository
	Sessions repository.SessionRepository
	Records  repository.AttendanceRecordRepository
	Reports  repository.MonthlyReportRepository
	Ledger   repository.NotificationLedger
	Queue    TaskEnqueuer
	Clock    utils.Clock
}

func NewReporter() *Reporter {
	return &Reporter{
		Persons:  repository.PersonRepo(),
		Sessions: repository.SessionRepo(),
		Records:  repository.AttendanceRecordRepo(),
		Reports:  repository.MonthlyReportRepo(),
		Ledger:   repository.Ledger(),
		Queue:    messagequeue.TaskQueue,
		Clock:    utils.SystemClock{},
	}
}

func PreviousMonth(now time.Time) time.Time {
	return utils.StartOfMonth(now).AddDate(0, -1, 0)
}

// ParseMonth reads YYYY-MM. An empty value means the month before now.
func ParseMonth(value string, now time.Time) (time.Time, error) {
	if value == "" {
		return PreviousMonth(now), nil
	}
	month, err := time.Parse("2006-01", value)
	if err != nil {
		return time.Time{}, fmt.Errorf("month must look like 2006-01: %w", err)
	}
	return month.UTC(), nil
}

// GenerateMonthlyReports recomputes every active person's report for month.
// Only launched sessions count as held, and a person is only counted for
// sessions whose filters they match. Re-running replaces earlier reports.
func (r *Reporter) GenerateMonthlyReports(ctx context.Context, month time.Time) ([]entities.MonthlyReport, error) {
	from := utils.StartOfMonth(month)
	to := from.AddDate(0, 1, 0)
	sessions, err := r.Sessions.FindStartedBetween(ctx, from, to)
	if err != nil {
		return nil, err
	}
	held := []entities.AttendanceSession{}
	for _, session := range sessions {
		if session.TemplateID != nil {
			held = append(held, session)
		}
	}
	persons, err := r.Persons.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	reports := []entities.MonthlyReport{}
	for _, person := range persons {
		if person.Role != entities.RoleStudent {
			continue
		}
		sessionIDs := []string{}
		for _, session := range held {
			if session_usecase.MatchesFilters(session, person) {
				sessionIDs = append(sessionIDs, session.ID)
			}
		}
		attended, err := r.Records.CountByPersonInSessions(ctx, person.ID, sessionIDs)
		if err != nil {
			return nil, err
		}
		report, err := r.Reports.Upsert(ctx, entities.MonthlyReport{
			PersonID:             person.ID,
			Month:                from,
			TotalSessions:        len(sessionIDs),
			AttendedSessions:     attended,
			AttendancePercentage: entities.AttendancePercentage(attended, len(sessionIDs)),
			GeneratedAt:          r.Clock.Now(),
		})
		if err != nil {
			logger.Error("an error occured while saving monthly report", logger.LoggerOptions{
				Key:  "error",
				Data: err,
			}, logger.LoggerOptions{
				Key:  "personID",
				Data: person.ID,
			})
			return nil, err
		}
		reports = append(reports, *report)
		r.sendEmail(person, fmt.Sprintf("Your attendance for %s", from.Format("January 2006")), "monthly_report", map[string]any{
			"NAME":       person.FullName(),
			"MONTH":      from.Format("January 2006"),
			"TOTAL":      report.TotalSessions,
			"ATTENDED":   report.AttendedSessions,
			"PERCENTAGE": fmt.Sprintf("%.1f", report.AttendancePercentage),
		})
	}
	logger.Info("monthly reports generated", logger.LoggerOptions{
		Key:  "month",
		Data: from.Format("2006-01"),
	}, logger.LoggerOptions{
		Key:  "reports",
		Data: len(reports),
	})
	return reports, nil
}

type dailyEntry struct {
	Name     string
	MarkedAt string
}

// SendDailyReports emails each person who marked attendance on date a
// summary of their marks, at most once per person per day. The ledger claim
// is taken before the email is queued.
func (r *Reporter) SendDailyReports(ctx context.Context, date time.Time) (int, error) {
	from := utils.StartOfDay(date)
	to := from.AddDate(0, 0, 1)
	persons, err := r.Persons.FindActive(ctx)
	if err != nil {
		return 0, err
	}
	sent := 0
	for _, person := range persons {
		if person.Email == "" {
			continue
		}
		records, err := r.Records.FindByPersonBetween(ctx, person.ID, from, to)
		if err != nil {
			return sent, err
		}
		if len(records) == 0 {
			continue
		}
		claimed, err := r.Ledger.Claim(ctx, person.ID, from)
		if err != nil {
			logger.Error("could not claim daily report in notification ledger, skipping person", logger.LoggerOptions{
				Key:  "error",
				Data: err,
			}, logger.LoggerOptions{
				Key:  "personID",
				Data: person.ID,
			})
			continue
		}
		if !claimed {
			continue
		}
		entries := []dailyEntry{}
		for _, record := range records {
			name := record.SessionID
			if session, err := r.Sessions.FindByID(ctx, record.SessionID); err == nil {
				name = session.Name
			}
			entries = append(entries, dailyEntry{Name: name, MarkedAt: record.Timestamp.Format("15:04")})
		}
		if !r.sendEmail(person, fmt.Sprintf("Your attendance for %s", from.Format("2 January 2006")), "daily_report", map[string]any{
			"NAME":     person.FullName(),
			"DATE":     from.Format("2 January 2006"),
			"SESSIONS": entries,
		}) {
			if err := r.Ledger.Release(ctx, person.ID, from); err != nil {
				logger.Error("could not release daily report claim", logger.LoggerOptions{
					Key:  "error",
					Data: err,
				}, logger.LoggerOptions{
					Key:  "personID",
					Data: person.ID,
				})
			}
			continue
		}
		sent++
	}
	return sent, nil
}

func (r *Reporter) sendEmail(person entities.Person, subject string, template string, opts map[string]any) bool {
	if r.Queue == nil || person.Email == "" {
		return false
	}
	payload, err := json.Marshal(mq_types.EmailPayload{
		To:       person.Email,
		Subject:  subject,
		Template: template,
		Opts:     opts,
	})
	if err != nil {
		logger.Error("error marshalling payload for email queue", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		})
		return false
	}
	err = r.Queue.Enqueue(mq_types.QueueTask{
		Payload:  payload,
		Name:     mq_types.EmailDeliveryTaskName,
		Priority: mq_types.Low,
	})
	if err != nil {
		logger.Error("could not queue report email", logger.LoggerOptions{
			Key:  "error",
			Data: err,
		}, logger.LoggerOptions{
			Key:  "template",
			Data: template,
		})
		return false
	}
	return true
}
