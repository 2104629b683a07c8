package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/javajoker/energy-eservice/internal/models"
	"github.com/javajoker/energy-eservice/internal/utils"
)

// AuditService persists the service's own trail: HTTP audit entries and
// transition attempts. Request state itself is never stored here.
type AuditService struct {
	db *gorm.DB
}

func NewAuditService(db *gorm.DB) *AuditService {
	return &AuditService{db: db}
}

func (s *AuditService) Log(ctx context.Context, entry *models.AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func (s *AuditService) RecordTransition(ctx context.Context, record *models.TransitionRecord) error {
	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to record transition: %w", err)
	}
	return nil
}

// TransitionHistory lists attempts for one request, newest first.
func (s *AuditService) TransitionHistory(ctx context.Context, requestID string, params utils.PaginationParams) ([]models.TransitionRecord, int64, error) {
	var records []models.TransitionRecord
	var total int64

	query := s.db.WithContext(ctx).Model(&models.TransitionRecord{}).Where("request_id = ?", requestID)
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transitions: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "action", "outcome"})
	if err := utils.ApplyPagination(query, params).Find(&records).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list transitions: %w", err)
	}
	return records, total, nil
}

// PurgeAuditLogs deletes audit entries created before the cutoff and
// reports how many rows went away.
func (s *AuditService) PurgeAuditLogs(ctx context.Context, before time.Time) (int64, error) {
	result := s.db.WithContext(ctx).Unscoped().Where("created_at < ?", before).Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to purge audit logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}
