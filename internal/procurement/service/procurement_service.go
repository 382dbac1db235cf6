package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/exenity/portal/internal/procurement/entity"
	"github.com/exenity/portal/internal/procurement/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// PR change actions published to EventPublisher.
const (
	ActionCreated    = "created"
	ActionStatus     = "status"
	ActionComments   = "comments"
	ActionActualCost = "actual_cost"
	ActionDeleted    = "deleted"
)

// ProcurementService owns the purchase request lifecycle.
type ProcurementService struct {
	prRepo  *repository.PRRepository
	db      *gorm.DB
	logger  *zap.Logger
	events  EventPublisher
	metrics OperationRecorder
}

func NewProcurementService(prRepo *repository.PRRepository, db *gorm.DB, logger *zap.Logger) *ProcurementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProcurementService{
		prRepo: prRepo,
		db:     db,
		logger: logger.Named("procurement"),
	}
}

// SetEventPublisher injects the live-update publisher.
func (s *ProcurementService) SetEventPublisher(p EventPublisher) {
	s.events = p
}

// SetMetrics injects the operation recorder.
func (s *ProcurementService) SetMetrics(m OperationRecorder) {
	s.metrics = m
}

// ListPRs returns every purchase request, newest first, narrowed by exact-match filters.
func (s *ProcurementService) ListPRs(ctx context.Context, filters map[string]string) ([]entity.PurchaseRequest, error) {
	var items []entity.PurchaseRequest
	err := inTx(ctx, s.db, s.prRepo, func(repo *repository.PRRepository) error {
		var err error
		items, err = repo.FindAll(ctx, filters)
		return err
	})
	return items, err
}

// GetPR looks a purchase request up by code.
func (s *ProcurementService) GetPR(ctx context.Context, code string) (*entity.PurchaseRequest, error) {
	var pr *entity.PurchaseRequest
	err := inTx(ctx, s.db, s.prRepo, func(repo *repository.PRRepository) error {
		var err error
		pr, err = repo.FindByCode(ctx, code)
		return err
	})
	return pr, err
}

// CreatePRRequest is the body of a create call. Omitted optional fields take
// their defaults; estimatedCost may be a number or a numeric string.
type CreatePRRequest struct {
	Requester     string          `json:"requester"`
	Department    string          `json:"department"`
	Project       string          `json:"project"`
	Item          string          `json:"item"`
	Specification *string         `json:"specification"`
	PurchaseType  *string         `json:"purchaseType"`
	EstimatedCost json.RawMessage `json:"estimatedCost"`
	Priority      *string         `json:"priority"`
	Comments      *string         `json:"comments"`
}

// CreatePR stores a new purchase request in Pending status and assigns its code.
func (s *ProcurementService) CreatePR(ctx context.Context, req *CreatePRRequest) (*entity.PurchaseRequest, error) {
	pr := &entity.PurchaseRequest{
		Requester:     req.Requester,
		Department:    req.Department,
		Project:       req.Project,
		Item:          req.Item,
		Specification: stringOr(req.Specification, ""),
		PurchaseType:  stringOr(req.PurchaseType, entity.PurchaseTypeRegular),
		EstimatedCost: estimatedCostFrom(req.EstimatedCost),
		Priority:      stringOr(req.Priority, entity.PriorityMedium),
		Status:        entity.StatusPending,
		Comments:      stringOr(req.Comments, ""),
	}

	err := inTx(ctx, s.db, s.prRepo, func(repo *repository.PRRepository) error {
		return repo.Create(ctx, pr)
	})
	s.record("create", err)
	if err != nil {
		s.logger.Warn("create purchase request failed", zap.Error(err))
		return nil, &ValidationError{Err: err}
	}

	s.logger.Info("purchase request created",
		zap.String("pr_code", pr.Code),
		zap.String("requester", pr.Requester),
		zap.String("purchase_type", pr.PurchaseType),
	)
	s.publish(pr.Code, ActionCreated)
	return pr, nil
}

// UpdateStatusRequest is the body of a status change.
type UpdateStatusRequest struct {
	Status *string `json:"status"`
}

// UpdateStatus sets the status of a purchase request. Any status may follow any other.
func (s *ProcurementService) UpdateStatus(ctx context.Context, code string, req *UpdateStatusRequest) (*entity.PurchaseRequest, error) {
	return s.mutate(ctx, "update_status", ActionStatus, code, func(pr *entity.PurchaseRequest) error {
		if req.Status == nil {
			return &ValidationError{Err: errors.New("status is required")}
		}
		pr.Status = *req.Status
		return nil
	})
}

// UpdateCommentsRequest is the body of a comments change.
type UpdateCommentsRequest struct {
	Comments *string `json:"comments"`
}

// UpdateComments replaces the admin comments. Omitted comments clear them.
func (s *ProcurementService) UpdateComments(ctx context.Context, code string, req *UpdateCommentsRequest) (*entity.PurchaseRequest, error) {
	return s.mutate(ctx, "update_comments", ActionComments, code, func(pr *entity.PurchaseRequest) error {
		pr.Comments = stringOr(req.Comments, "")
		return nil
	})
}

// UpdateActualCostRequest is the body of an actual cost change.
type UpdateActualCostRequest struct {
	ActualCost json.RawMessage `json:"actualCost"`
}

// UpdateActualCost records the actual cost. A falsy value clears it.
func (s *ProcurementService) UpdateActualCost(ctx context.Context, code string, req *UpdateActualCostRequest) (*entity.PurchaseRequest, error) {
	return s.mutate(ctx, "update_actual_cost", ActionActualCost, code, func(pr *entity.PurchaseRequest) error {
		cost, err := actualCostFrom(req.ActualCost)
		if err != nil {
			return &ValidationError{Err: err}
		}
		pr.ActualCost = cost
		return nil
	})
}

// DeletePR removes a purchase request permanently.
func (s *ProcurementService) DeletePR(ctx context.Context, code string) error {
	err := inTx(ctx, s.db, s.prRepo, func(repo *repository.PRRepository) error {
		pr, err := repo.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		return repo.Delete(ctx, pr)
	})
	s.record("delete", err)
	if err != nil {
		return writeError(err)
	}

	s.logger.Info("purchase request deleted", zap.String("pr_code", code))
	s.publish(code, ActionDeleted)
	return nil
}

// mutate loads the request by code, applies change and saves it with a fresh
// updatedAt, all in one transaction.
func (s *ProcurementService) mutate(ctx context.Context, operation, action, code string, change func(pr *entity.PurchaseRequest) error) (*entity.PurchaseRequest, error) {
	var updated *entity.PurchaseRequest
	err := inTx(ctx, s.db, s.prRepo, func(repo *repository.PRRepository) error {
		pr, err := repo.FindByCode(ctx, code)
		if err != nil {
			return err
		}
		if err := change(pr); err != nil {
			return err
		}
		pr.UpdatedAt = time.Now()
		if err := repo.Update(ctx, pr); err != nil {
			return err
		}
		updated = pr
		return nil
	})
	s.record(operation, err)
	if err != nil {
		return nil, writeError(err)
	}

	s.logger.Info("purchase request updated",
		zap.String("pr_code", code),
		zap.String("operation", operation),
	)
	s.publish(code, action)
	return updated, nil
}

// writeError keeps ErrNotFound and ValidationError as they are and reports
// every other write failure as a ValidationError.
func writeError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return repository.ErrNotFound
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve
	}
	return &ValidationError{Err: err}
}

func (s *ProcurementService) record(operation string, err error) {
	if s.metrics != nil {
		s.metrics.RecordPROperation(operation, err)
	}
}

func (s *ProcurementService) publish(code, action string) {
	if s.events != nil {
		s.events.PublishPRUpdate(code, action)
	}
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
