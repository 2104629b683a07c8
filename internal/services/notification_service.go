// internal/services/notification_service.go
package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/smtp"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/javajoker/energy-eservice/internal/config"
	"github.com/javajoker/energy-eservice/internal/i18n"
	"github.com/javajoker/energy-eservice/internal/models"
	"github.com/javajoker/energy-eservice/internal/utils"
	"github.com/javajoker/energy-eservice/internal/workflow"
)

const (
	channelInApp = "in_app"
	channelEmail = "email"
)

var statusChangedTemplate = template.Must(template.New("status_changed").Parse(`
<!DOCTYPE html>
<html>
<body>
	<h2>{{.Title}}</h2>
	<p>Hello {{.Name}},</p>
	<p>{{.Message}}</p>
	<p>{{.NextStep}}</p>
	<a href="{{.RequestURL}}">View request</a>
	<p>{{.Sender}}</p>
</body>
</html>`))

type NotificationService struct {
	db     *gorm.DB
	config *config.Config
	// mail is swapped out in tests.
	mail func(to, subject, body string) error
}

func NewNotificationService(db *gorm.DB, config *config.Config) *NotificationService {
	s := &NotificationService{
		db:     db,
		config: config,
	}
	s.mail = s.sendEmail
	return s
}

// NotifyTransition tells the submitter their request moved. The in-app row
// is authoritative; e-mail delivery problems are only logged.
func (s *NotificationService) NotifyTransition(ctx context.Context, req models.LicenseRequest, action workflow.Action) error {
	if req.Submitter.ID == "" {
		return nil
	}

	lang := s.config.I18n.DefaultLocale
	number := req.RequestNumber
	if number == "" {
		number = req.ID
	}

	notification := &models.RequestNotification{
		RecipientID:   req.Submitter.ID,
		RequestID:     req.ID,
		RequestNumber: req.RequestNumber,
		Title:         i18n.T(lang, i18n.KeyNotificationTitle, number),
		Message:       i18n.T(lang, i18n.KeyNotificationMessage, number, workflow.DisplayLabel(lang, req.Status)),
		Status:        models.NotificationStatusUnread,
		Channels:      pq.StringArray{channelInApp},
	}
	if req.Submitter.Email != "" {
		notification.Channels = append(notification.Channels, channelEmail)
	}

	if err := s.db.WithContext(ctx).Create(notification).Error; err != nil {
		return fmt.Errorf("failed to create notification: %w", err)
	}

	if req.Submitter.Email == "" {
		return nil
	}

	body, err := s.renderTemplate(map[string]interface{}{
		"Title":      notification.Title,
		"Name":       req.Submitter.Name,
		"Message":    notification.Message,
		"NextStep":   workflow.NextStepHint(lang, req.Status),
		"RequestURL": fmt.Sprintf("%s/requests/%s?type=%s", s.config.Frontend.BaseURL, req.ID, req.LicenseType),
		"Sender":     s.config.Email.FromName,
	})
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	if err := s.mail(req.Submitter.Email, notification.Title, body); err != nil {
		logrus.WithError(err).WithFields(logrus.Fields{
			"request_id": req.ID,
			"action":     action,
		}).Warn("Failed to send status e-mail")
	}
	return nil
}

func (s *NotificationService) List(ctx context.Context, recipientID string, status models.NotificationStatus, params utils.PaginationParams) ([]models.RequestNotification, int64, error) {
	var notifications []models.RequestNotification
	var total int64

	query := s.db.WithContext(ctx).Model(&models.RequestNotification{}).Where("recipient_id = ?", recipientID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count notifications: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "status"})
	if err := utils.ApplyPagination(query, params).Find(&notifications).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list notifications: %w", err)
	}
	return notifications, total, nil
}

// MarkRead only touches notifications addressed to the recipient.
func (s *NotificationService) MarkRead(ctx context.Context, recipientID string, id uuid.UUID) error {
	now := time.Now()
	result := s.db.WithContext(ctx).Model(&models.RequestNotification{}).
		Where("id = ? AND recipient_id = ?", id, recipientID).
		Updates(map[string]interface{}{
			"status":  models.NotificationStatusRead,
			"read_at": now,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to mark notification read: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("notification %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *NotificationService) sendEmail(to, subject, body string) error {
	if s.config.Email.SMTPHost == "" {
		logrus.WithFields(logrus.Fields{
			"to":      to,
			"subject": subject,
		}).Info("SMTP not configured, e-mail skipped")
		return nil
	}

	auth := smtp.PlainAuth("", s.config.Email.SMTPUsername, s.config.Email.SMTPPassword, s.config.Email.SMTPHost)
	msg := []byte(fmt.Sprintf("From: %s <%s>\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/html; charset=\"UTF-8\"\r\n\r\n%s",
		s.config.Email.FromName, s.config.Email.FromEmail, to, subject, body))

	addr := fmt.Sprintf("%s:%s", s.config.Email.SMTPHost, s.config.Email.SMTPPort)
	return smtp.SendMail(addr, auth, s.config.Email.FromEmail, []string{to}, msg)
}

func (s *NotificationService) renderTemplate(data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := statusChangedTemplate.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}
