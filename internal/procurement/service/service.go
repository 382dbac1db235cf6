package service

import (
	"context"

	"github.com/exenity/portal/internal/config"
	"github.com/exenity/portal/internal/procurement/repository"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ValidationError is returned when the store rejects a write: a bad value in
// the request or a constraint violation in the datastore.
type ValidationError struct {
	Err error
}

func (e *ValidationError) Error() string {
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// EventPublisher receives a notification after a purchase request change is committed.
type EventPublisher interface {
	PublishPRUpdate(code, action string)
}

// OperationRecorder counts store operations by outcome.
type OperationRecorder interface {
	RecordPROperation(operation string, err error)
}

// Services groups the procurement services.
type Services struct {
	Procurement *ProcurementService
	Report      *ReportService
	Auth        *AuthService
}

func NewServices(repos *repository.Repositories, db *gorm.DB, authCfg config.AuthConfig, logger *zap.Logger) *Services {
	return &Services{
		Procurement: NewProcurementService(repos.PR, db, logger),
		Report:      NewReportService(repos.PR, db),
		Auth:        NewAuthService(authCfg),
	}
}

// inTx runs fn in its own transaction with a repository bound to it. Any error
// returned by fn, or a panic, rolls the transaction back.
func inTx(ctx context.Context, db *gorm.DB, repo *repository.PRRepository, fn func(repo *repository.PRRepository) error) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repo.WithTx(tx))
	})
}
