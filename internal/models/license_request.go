// internal/models/license_request.go
package models

import (
	"encoding/json"
	"time"
)

// LicenseRequest is the read model of a request owned by the backend.
// Status is kept as the raw code so unknown values survive decoding.
type LicenseRequest struct {
	ID            string          `json:"id"`
	RequestNumber string          `json:"requestNumber"`
	LicenseType   LicenseType     `json:"licenseType"`
	Status        string          `json:"status"`
	RequestDate   time.Time       `json:"requestDate"`
	Submitter     Submitter       `json:"submitter"`
	AssignedTo    string          `json:"assignedTo,omitempty"`
	Payload       json.RawMessage `json:"payload,omitempty"`
}

type Submitter struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

type RequestList struct {
	Items []LicenseRequest `json:"items"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

// StatusUpdate is the body of PUT .../status.
type StatusUpdate struct {
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

type AssignInput struct {
	AssigneeID string `json:"assigneeId" validate:"required"`
	Reason     string `json:"reason" validate:"required"`
}

type ReturnInput struct {
	Reason string `json:"reason" validate:"required"`
}

type ForwardInput struct {
	Role   Role   `json:"role" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}

// CollectionItem is an entry of the parallel licenses/inspections/audits collections.
// Fields beyond the common header are passed through untouched.
type CollectionItem struct {
	ID        string          `json:"id"`
	RequestID string          `json:"requestId,omitempty"`
	Status    string          `json:"status,omitempty"`
	CreatedAt *time.Time      `json:"createdAt,omitempty"`
	Data      json.RawMessage `json:"data,omitempty"`
}

type CollectionList struct {
	Items []CollectionItem `json:"items"`
	Total int64            `json:"total"`
}
