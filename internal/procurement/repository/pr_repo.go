package repository

import (
	"context"
	"errors"

	"github.com/exenity/portal/internal/procurement/entity"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// provisionalCodePrefix marks a row whose public code has not been derived yet.
// It only exists between the INSERT and the code UPDATE of Create.
const provisionalCodePrefix = "tmp-"

// filterColumns maps the exact-match list filters to their columns.
var filterColumns = map[string]string{
	"status":       "status",
	"department":   "department",
	"purchaseType": "purchase_type",
	"priority":     "priority",
	"project":      "project",
}

// PRRepository persists purchase requests.
type PRRepository struct {
	db *gorm.DB
}

func NewPRRepository(db *gorm.DB) *PRRepository {
	return &PRRepository{db: db}
}

// WithTx returns a repository bound to tx.
func (r *PRRepository) WithTx(tx *gorm.DB) *PRRepository {
	return &PRRepository{db: tx}
}

// FindAll lists purchase requests newest first. Empty filter values are ignored,
// unknown filter keys are ignored.
func (r *PRRepository) FindAll(ctx context.Context, filters map[string]string) ([]entity.PurchaseRequest, error) {
	query := r.db.WithContext(ctx).Model(&entity.PurchaseRequest{})

	for key, column := range filterColumns {
		if value := filters[key]; value != "" {
			query = query.Where(column+" = ?", value)
		}
	}

	items := []entity.PurchaseRequest{}
	err := query.Order("id DESC").Find(&items).Error
	return items, err
}

// FindByPurchaseType lists purchase requests of one purchase type, newest first.
func (r *PRRepository) FindByPurchaseType(ctx context.Context, purchaseType string) ([]entity.PurchaseRequest, error) {
	items := []entity.PurchaseRequest{}
	err := r.db.WithContext(ctx).
		Where("purchase_type = ?", purchaseType).
		Order("id DESC").
		Find(&items).Error
	return items, err
}

// FindByCode looks a purchase request up by its public code.
func (r *PRRepository) FindByCode(ctx context.Context, code string) (*entity.PurchaseRequest, error) {
	var pr entity.PurchaseRequest
	err := r.db.WithContext(ctx).
		Where("pr_code = ?", code).
		First(&pr).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &pr, nil
}

// Create inserts pr and assigns its code from the datastore-generated ID.
// The two statements must run in one transaction; the caller owns it.
func (r *PRRepository) Create(ctx context.Context, pr *entity.PurchaseRequest) error {
	db := r.db.WithContext(ctx)

	pr.Code = provisionalCodePrefix + uuid.New().String()
	if err := db.Create(pr).Error; err != nil {
		return err
	}

	pr.Code = entity.FormatCode(pr.ID)
	return db.Model(pr).UpdateColumn("pr_code", pr.Code).Error
}

// Update saves every column of pr.
func (r *PRRepository) Update(ctx context.Context, pr *entity.PurchaseRequest) error {
	return r.db.WithContext(ctx).Save(pr).Error
}

// Delete removes pr permanently.
func (r *PRRepository) Delete(ctx context.Context, pr *entity.PurchaseRequest) error {
	return r.db.WithContext(ctx).Delete(pr).Error
}
