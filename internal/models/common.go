// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate fills the id when the database default is unavailable.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type LicenseType string

const (
	LicenseTypeNew       LicenseType = "new"
	LicenseTypeRenewal   LicenseType = "renewal"
	LicenseTypeExtension LicenseType = "extension"
	LicenseTypeReduction LicenseType = "reduction"
)

var LicenseTypes = []LicenseType{
	LicenseTypeNew,
	LicenseTypeRenewal,
	LicenseTypeExtension,
	LicenseTypeReduction,
}

func (t LicenseType) IsValid() bool {
	for _, known := range LicenseTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Role is the actor role carried by a session token.
type Role string

const (
	RoleCitizen        Role = "citizen"
	RoleOfficer        Role = "officer"
	RoleAdmin          Role = "admin"
	RoleDepartmentHead Role = "department_head"
	RoleSuperAdmin     Role = "super_admin"
)

// IsStaff reports whether the role may act on other people's requests.
func (r Role) IsStaff() bool {
	switch r {
	case RoleOfficer, RoleAdmin, RoleDepartmentHead, RoleSuperAdmin:
		return true
	}
	return false
}

type TransitionOutcome string

const (
	TransitionOutcomeSucceeded TransitionOutcome = "succeeded"
	TransitionOutcomeFailed    TransitionOutcome = "failed"
)

type NotificationStatus string

const (
	NotificationStatusUnread NotificationStatus = "unread"
	NotificationStatusRead   NotificationStatus = "read"
)
