package service

import (
	"context"
	"time"

	"tourlog/internal/apperr"
	"tourlog/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"userId"`
	Username   string `json:"username"`
	Action     string `json:"action"`
	EntityID   string `json:"entityId"`
	EntityName string `json:"entityName"`
	Details    string `json:"details"`
	CreatedAt  string `json:"createdAt"`
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, filter repository.AuditFilter, offset, limit int) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	auditRepo repository.AuditRepository
}

func NewAuditService(auditRepo repository.AuditRepository) AuditService {
	return &auditService{auditRepo: auditRepo}
}

// GetAuditLogs returns one page of the audit trail, newest first
func (s *auditService) GetAuditLogs(ctx context.Context, filter repository.AuditFilter, offset, limit int) ([]AuditLogResponse, int64, error) {
	logs, total, err := s.auditRepo.List(ctx, filter, offset, limit)
	if err != nil {
		return nil, 0, apperr.Internal(err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		username := "System"
		userID := ""
		if l.Username != "" {
			username = l.Username
		}
		if l.UserID != nil {
			userID = l.UserID.String()
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			UserID:     userID,
			Username:   username,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		})
	}

	return res, total, nil
}
