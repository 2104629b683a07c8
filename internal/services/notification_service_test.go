package services

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/javajoker/energy-eservice/internal/config"
	"github.com/javajoker/energy-eservice/internal/models"
	"github.com/javajoker/energy-eservice/internal/utils"
	"github.com/javajoker/energy-eservice/internal/workflow"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

type sentMail struct {
	to, subject, body string
}

func newNotificationService(t *testing.T) (*NotificationService, sqlmock.Sqlmock, *[]sentMail) {
	db, mock := newMockDB(t)
	cfg := &config.Config{
		I18n:     config.I18nConfig{DefaultLocale: "en"},
		Frontend: config.FrontendConfig{BaseURL: "https://portal.example.gov"},
	}
	service := NewNotificationService(db, cfg)

	var mails []sentMail
	service.mail = func(to, subject, body string) error {
		mails = append(mails, sentMail{to, subject, body})
		return nil
	}
	return service, mock, &mails
}

func TestNotifyTransitionWritesRowAndMails(t *testing.T) {
	service, mock, mails := newNotificationService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "request_notifications"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(uuid.New()))

	err := service.NotifyTransition(context.Background(), models.LicenseRequest{
		ID:            "req-1",
		RequestNumber: "REQ-2024-0042",
		LicenseType:   models.LicenseTypeNew,
		Status:        "approved",
		Submitter:     models.Submitter{ID: "citizen-7", Name: "Amal", Email: "amal@example.com"},
	}, workflow.ActionApprove)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, *mails, 1)
	mail := (*mails)[0]
	assert.Equal(t, "amal@example.com", mail.to)
	assert.Equal(t, "Request REQ-2024-0042 updated", mail.subject)
	assert.Contains(t, mail.body, "https://portal.example.gov/requests/req-1?type=new")
}

func TestNotifyTransitionWithoutSubmitterIsSkipped(t *testing.T) {
	service, mock, mails := newNotificationService(t)
	require.NoError(t, service.NotifyTransition(context.Background(), models.LicenseRequest{ID: "req-1"}, workflow.ActionAccept))
	require.NoError(t, mock.ExpectationsWereMet())
	assert.Empty(t, *mails)
}

func TestMarkRead(t *testing.T) {
	service, mock, _ := newNotificationService(t)
	id := uuid.New()

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "request_notifications" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, service.MarkRead(context.Background(), "citizen-7", id))

	mock.ExpectExec(regexp.QuoteMeta(`UPDATE "request_notifications" SET`)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := service.MarkRead(context.Background(), "citizen-8", id)
	assert.True(t, errors.Is(err, ErrNotFound))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListNotifications(t *testing.T) {
	service, mock, _ := newNotificationService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT count(*) FROM "request_notifications"`)).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "request_notifications"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "recipient_id", "request_id", "title", "message", "status"}).
			AddRow(uuid.New(), "citizen-7", "req-1", "t1", "m1", "unread").
			AddRow(uuid.New(), "citizen-7", "req-2", "t2", "m2", "read"))

	items, total, err := service.List(context.Background(), "citizen-7", "", utils.PaginationParams{Page: 1, Limit: 20, Order: "desc"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, models.NotificationStatusRead, items[1].Status)
	require.NoError(t, mock.ExpectationsWereMet())
}
