package services

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/happyhourhq/happyhour-core/internal/app/errors"
	"github.com/happyhourhq/happyhour-core/internal/app/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const auditQueueSize = 256

type auditEvent struct {
	entry *models.AuditLog
	// barrier is set instead of entry when a caller wants to wait for the
	// worker to drain everything queued before it.
	barrier chan struct{}
}

// AuditService records entity mutations through a single background
// worker. Enqueueing never blocks and failures never propagate to the
// caller: audit is best-effort observability, not part of any primary
// transaction.
type AuditService struct {
	db     *gorm.DB
	events chan auditEvent
	done   chan struct{}
}

func NewAuditService(db *gorm.DB) *AuditService {
	s := &AuditService{
		db:     db,
		events: make(chan auditEvent, auditQueueSize),
		done:   make(chan struct{}),
	}
	go s.run()
	return s
}

func (s *AuditService) run() {
	defer close(s.done)
	for ev := range s.events {
		if ev.barrier != nil {
			close(ev.barrier)
			continue
		}
		if err := s.db.Create(ev.entry).Error; err != nil {
			logrus.Errorf("audit write failed for %s/%s: %v", ev.entry.TableName, ev.entry.RecordID, err)
		}
	}
}

// Record enqueues an audit entry. Old and new snapshots are marshalled to
// JSON; a snapshot that fails to marshal is dropped with a warning.
func (s *AuditService) Record(tableName string, recordID uuid.UUID, action models.AuditAction, oldData, newData interface{}, changedBy *uuid.UUID) {
	entry := &models.AuditLog{
		ID:        uuid.New(),
		TableName: tableName,
		RecordID:  recordID,
		Action:    action,
		OldData:   marshalSnapshot(oldData),
		NewData:   marshalSnapshot(newData),
		ChangedBy: changedBy,
		ChangedAt: time.Now(),
	}

	select {
	case s.events <- auditEvent{entry: entry}:
	default:
		logrus.Warnf("audit queue full, dropping %s event for %s/%s", action, tableName, recordID)
	}
}

// Flush blocks until every event queued before the call has been written.
func (s *AuditService) Flush() {
	barrier := make(chan struct{})
	s.events <- auditEvent{barrier: barrier}
	<-barrier
}

// Close stops the worker after draining the queue.
func (s *AuditService) Close() {
	close(s.events)
	<-s.done
}

// GetAuditLogs retrieves audit logs with pagination, newest first.
func (s *AuditService) GetAuditLogs(pagination *models.PaginationRequest) (*models.Pagination[[]models.AuditLog], error) {
	if pagination.Limit <= 0 {
		pagination.Limit = 10
	}
	if pagination.Page <= 0 {
		pagination.Page = 1
	}

	offset := (pagination.Page - 1) * pagination.Limit

	var totalItems int64
	if err := s.db.Model(&models.AuditLog{}).Count(&totalItems).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to count audit logs")
	}

	var logs []models.AuditLog
	query := s.db.Order("changed_at DESC").Limit(pagination.Limit)
	if offset > 0 {
		query = query.Offset(offset)
	}
	if err := query.Find(&logs).Error; err != nil {
		return nil, errors.NewInternalServerError(err, "Failed to get audit logs")
	}

	totalPages := int((totalItems + int64(pagination.Limit) - 1) / int64(pagination.Limit))

	return &models.Pagination[[]models.AuditLog]{
		Page:       pagination.Page,
		Limit:      pagination.Limit,
		TotalPages: totalPages,
		TotalItems: int(totalItems),
		HasNext:    pagination.Page < totalPages,
		HasPrev:    pagination.Page > 1,
		Items:      logs,
	}, nil
}

func marshalSnapshot(data interface{}) *string {
	if data == nil {
		return nil
	}
	jsonBytes, err := json.Marshal(data)
	if err != nil {
		logrus.Warnf("failed to marshal audit snapshot: %v", err)
		return nil
	}
	str := string(jsonBytes)
	return &str
}
