// internal/models/audit.go
package models

import (
	"time"

	"github.com/lib/pq"
)

type AuditLog struct {
	BaseModel
	ActorID      string `json:"actor_id" gorm:"size:64;index"`
	ActorScope   string `json:"actor_scope" gorm:"size:20"`
	Action       string `json:"action" gorm:"size:100;not null;index"`
	ResourceType string `json:"resource_type" gorm:"size:50;not null;index"`
	ResourceID   string `json:"resource_id" gorm:"size:64;index"`
	Payload      JSONB  `json:"payload" gorm:"type:jsonb"`
	StatusCode   int    `json:"status_code"`
	IPAddress    string `json:"ip_address" gorm:"size:45"`
	UserAgent    string `json:"user_agent" gorm:"type:text"`
}

// TransitionRecord is one attempt to move a request through the workflow.
type TransitionRecord struct {
	BaseModel
	RequestID     string            `json:"request_id" gorm:"size:64;not null;index"`
	LicenseType   LicenseType       `json:"license_type" gorm:"type:varchar(20);not null"`
	Action        string            `json:"action" gorm:"size:30;not null"`
	ActorID       string            `json:"actor_id" gorm:"size:64;not null;index"`
	ActorRole     Role              `json:"actor_role" gorm:"type:varchar(30);not null"`
	StatusBefore  string            `json:"status_before" gorm:"size:40"`
	StatusAfter   string            `json:"status_after" gorm:"size:40"`
	Reason        string            `json:"reason,omitempty" gorm:"type:text"`
	Outcome       TransitionOutcome `json:"outcome" gorm:"type:varchar(20);not null;index"`
	BackendStatus int               `json:"backend_status"`
	BackendError  string            `json:"backend_error,omitempty" gorm:"type:text"`
}

type RequestNotification struct {
	BaseModel
	RecipientID   string             `json:"recipient_id" gorm:"size:64;not null;index"`
	RequestID     string             `json:"request_id" gorm:"size:64;not null;index"`
	RequestNumber string             `json:"request_number" gorm:"size:64"`
	Title         string             `json:"title" gorm:"size:255;not null"`
	Message       string             `json:"message" gorm:"type:text;not null"`
	Status        NotificationStatus `json:"status" gorm:"type:varchar(20);default:'unread';index"`
	Channels      pq.StringArray     `json:"channels" gorm:"type:text[]"`
	ReadAt        *time.Time         `json:"read_at"`
}
