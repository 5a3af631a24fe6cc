package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"tourlog/internal/apperr"
	"tourlog/internal/model"
	"tourlog/internal/repository"
)

// --- DTOs ---

type CreateReferenceRequest struct {
	Name        string `json:"name" validate:"required,max=255"`
	Governorate string `json:"governorate" validate:"max=100"`
}

type UpdateReferenceRequest struct {
	Name        *string `json:"name" validate:"omitnil,min=1,max=255"`
	Governorate *string `json:"governorate" validate:"omitnil,max=100"`
}

// --- Interface ---

// ReferenceService manages one lookup table (police stations or ports)
type ReferenceService[T repository.ReferenceEntry] interface {
	List(ctx context.Context) ([]T, error)
	Create(ctx context.Context, actor Actor, req CreateReferenceRequest) (*T, error)
	Update(ctx context.Context, actor Actor, id string, req UpdateReferenceRequest) (*T, error)
	Delete(ctx context.Context, actor Actor, id string) error
}

type (
	StationService = ReferenceService[model.PoliceStation]
	PortService    = ReferenceService[model.Port]
)

// --- Implementation ---

// referenceEntity exposes the fields the service touches on *T
type referenceEntity[T any] interface {
	*T
	Apply(name, governorate *string)
	Identity() (uuid.UUID, string)
}

type referenceKind struct {
	resource                   string
	createAction, updateAction string
	deleteAction               string
}

type referenceService[T repository.ReferenceEntry, PT referenceEntity[T]] struct {
	repo      repository.ReferenceRepository[T]
	auditRepo repository.AuditRepository
	txManager repository.TransactionManager
	kind      referenceKind
}

func NewStationService(repo repository.StationRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) StationService {
	return &referenceService[model.PoliceStation, *model.PoliceStation]{
		repo:      repo,
		auditRepo: auditRepo,
		txManager: txManager,
		kind: referenceKind{
			resource:     "Police station",
			createAction: model.ActionCreateStation,
			updateAction: model.ActionUpdateStation,
			deleteAction: model.ActionDeleteStation,
		},
	}
}

func NewPortService(repo repository.PortRepository, auditRepo repository.AuditRepository, txManager repository.TransactionManager) PortService {
	return &referenceService[model.Port, *model.Port]{
		repo:      repo,
		auditRepo: auditRepo,
		txManager: txManager,
		kind: referenceKind{
			resource:     "Port",
			createAction: model.ActionCreatePort,
			updateAction: model.ActionUpdatePort,
			deleteAction: model.ActionDeletePort,
		},
	}
}

func (s *referenceService[T, PT]) List(ctx context.Context) ([]T, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return entries, nil
}

func (s *referenceService[T, PT]) Create(ctx context.Context, actor Actor, req CreateReferenceRequest) (*T, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Governorate = strings.TrimSpace(req.Governorate)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, uuid.Nil); err != nil {
		return nil, err
	}

	entry := new(T)
	PT(entry).Apply(&req.Name, &req.Governorate)

	err := s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Create(txCtx, entry); err != nil {
			return err
		}
		id, name := PT(entry).Identity()
		if err := s.auditRepo.Log(txCtx, newAuditEntry(actor, s.kind.createAction, id.String(), name, req)); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.mapWriteError(err)
	}
	return entry, nil
}

func (s *referenceService[T, PT]) Update(ctx context.Context, actor Actor, id string, req UpdateReferenceRequest) (*T, error) {
	if req.Name == nil && req.Governorate == nil {
		return nil, apperr.Validation("no fields supplied")
	}
	if req.Name != nil {
		v := strings.TrimSpace(*req.Name)
		req.Name = &v
	}
	if req.Governorate != nil {
		v := strings.TrimSpace(*req.Governorate)
		req.Governorate = &v
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	entry, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	eid, name := PT(entry).Identity()
	if req.Name != nil && *req.Name != name {
		if err := s.ensureNameFree(ctx, *req.Name, eid); err != nil {
			return nil, err
		}
	}
	PT(entry).Apply(req.Name, req.Governorate)
	_, name = PT(entry).Identity()

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.repo.Update(txCtx, entry); err != nil {
			return err
		}
		if err := s.auditRepo.Log(txCtx, newAuditEntry(actor, s.kind.updateAction, eid.String(), name, req)); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, s.mapWriteError(err)
	}
	return entry, nil
}

func (s *referenceService[T, PT]) Delete(ctx context.Context, actor Actor, id string) error {
	entry, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	eid, name := PT(entry).Identity()

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		deleted, err := s.repo.Delete(txCtx, eid)
		if err != nil {
			return err
		}
		if !deleted {
			return apperr.NotFound(s.kind.resource)
		}
		if err := s.auditRepo.Log(txCtx, newAuditEntry(actor, s.kind.deleteAction, eid.String(), name, map[string]string{"deleted_id": eid.String()})); err != nil {
			return fmt.Errorf("failed to write audit log: %w", err)
		}
		return nil
	})
	if err != nil {
		return s.mapWriteError(err)
	}
	return nil
}

func (s *referenceService[T, PT]) find(ctx context.Context, id string) (*T, error) {
	eid, err := parseID(id, s.kind.resource)
	if err != nil {
		return nil, err
	}
	entry, err := s.repo.FindByID(ctx, eid)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperr.NotFound(s.kind.resource)
	}
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return entry, nil
}

// ensureNameFree reports a conflict when another entry already uses name
func (s *referenceService[T, PT]) ensureNameFree(ctx context.Context, name string, self uuid.UUID) error {
	existing, err := s.repo.FindByName(ctx, name)
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return apperr.Internal(err)
	}
	if id, _ := PT(existing).Identity(); id != self {
		return s.conflict()
	}
	return nil
}

func (s *referenceService[T, PT]) conflict() error {
	return apperr.Conflict(s.kind.resource + " name already exists")
}

// mapWriteError turns a unique violation raced past ensureNameFree into a conflict
func (s *referenceService[T, PT]) mapWriteError(err error) error {
	if errors.Is(err, repository.ErrDuplicate) {
		return s.conflict()
	}
	if apperr.As(err) != nil {
		return err
	}
	return apperr.Internal(err)
}
