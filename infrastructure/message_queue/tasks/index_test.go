package queue_tasks

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"rollcall.io/application/repository"
	report_usecase "rollcall.io/application/usecases/report"
	"rollcall.io/application/utils"
	"rollcall.io/entities"
	"rollcall.io/infrastructure/message_queue/inline"
	mq_types "rollcall.io/infrastructure/message_queue/types"
	"rollcall.io/infrastructure/messaging/emails"
)

type sentEmail struct {
	to       string
	template string
}

type fakeEmailService struct {
	sent []sentEmail
	fail bool
}

func (f *fakeEmailService) SendEmail(toEmail string, subject string, templateName string, opts interface{}) bool {
	if f.fail {
		return false
	}
	f.sent = append(f.sent, sentEmail{to: toEmail, template: templateName})
	return true
}

func useFakeEmail(t *testing.T) *fakeEmailService {
	t.Helper()
	fake := &fakeEmailService{}
	previous := emails.EmailService
	emails.EmailService = fake
	t.Cleanup(func() { emails.EmailService = previous })
	return fake
}

func TestHandleEmailDeliveryTask(t *testing.T) {
	fake := useFakeEmail(t)
	body, err := json.Marshal(mq_types.EmailPayload{To: "ada@rollcall.io", Subject: "hi", Template: "attendance_marked"})
	require.NoError(t, err)

	assert.NoError(t, HandleEmailDeliveryTask(context.Background(), body))
	assert.Equal(t, []sentEmail{{to: "ada@rollcall.io", template: "attendance_marked"}}, fake.sent)

	fake.fail = true
	assert.Error(t, HandleEmailDeliveryTask(context.Background(), body))
	assert.Error(t, HandleEmailDeliveryTask(context.Background(), []byte("{")))
}

func TestReportTasksThroughInlineBroker(t *testing.T) {
	fake := useFakeEmail(t)
	ctx := context.Background()
	day := time.Date(2025, time.May, 5, 9, 0, 0, 0, time.UTC)

	persons := repository.NewMemoryPersonRepository()
	sessions := repository.NewMemorySessionRepository()
	records := repository.NewMemoryAttendanceRecordRepository()
	ada, err := persons.Create(ctx, entities.Person{Email: "ada@rollcall.io", FirstName: "Ada", Role: entities.RoleStudent, Active: true})
	require.NoError(t, err)
	templateID := "template"
	session, err := sessions.Create(ctx, entities.AttendanceSession{Name: "Algorithms", ConvenerID: "c", StartTime: day, EndTime: day.Add(time.Hour), TemplateID: &templateID})
	require.NoError(t, err)
	_, err = records.Create(ctx, entities.AttendanceRecord{PersonID: ada.ID, SessionID: session.ID, Timestamp: day.Add(time.Minute)})
	require.NoError(t, err)

	broker := &inline.InlineBroker{Synchronous: true}
	reports := repository.NewMemoryMonthlyReportRepository()
	r := &report_usecase.Reporter{
		Persons:  persons,
		Sessions: sessions,
		Records:  records,
		Reports:  reports,
		Ledger:   repository.NewMemoryNotificationLedger(),
		Queue:    broker,
		Clock:    utils.NewFixedClock(time.Date(2025, time.June, 1, 2, 0, 0, 0, time.UTC)),
	}
	previous := reporter
	reporter = func() *report_usecase.Reporter { return r }
	t.Cleanup(func() { reporter = previous })
	broker.Start(Handlers())

	daily, _ := json.Marshal(mq_types.DailyReportPayload{Date: "2025-05-05"})
	require.NoError(t, broker.Enqueue(mq_types.QueueTask{Name: mq_types.DailyReportTaskName, Payload: daily}))
	require.NoError(t, broker.Enqueue(mq_types.QueueTask{Name: mq_types.DailyReportTaskName, Payload: daily}))

	// empty payload means the previous month
	require.NoError(t, broker.Enqueue(mq_types.QueueTask{Name: mq_types.MonthlyReportTaskName}))

	assert.Equal(t, []sentEmail{
		{to: "ada@rollcall.io", template: "daily_report"},
		{to: "ada@rollcall.io", template: "monthly_report"},
	}, fake.sent)
	report, err := reports.FindByPersonAndMonth(ctx, ada.ID, day)
	require.NoError(t, err)
	assert.Equal(t, 1, report.TotalSessions)
	assert.Equal(t, 1, report.AttendedSessions)

	bad, _ := json.Marshal(mq_types.DailyReportPayload{Date: "05/05/2025"})
	assert.Error(t, broker.Enqueue(mq_types.QueueTask{Name: mq_types.DailyReportTaskName, Payload: bad}))
}
