package service

import (
	"context"

	"github.com/exenity/portal/internal/procurement/entity"
	"github.com/exenity/portal/internal/procurement/repository"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// ReportService builds the aggregate reports over purchase requests.
type ReportService struct {
	prRepo *repository.PRRepository
	db     *gorm.DB
}

func NewReportService(prRepo *repository.PRRepository, db *gorm.DB) *ReportService {
	return &ReportService{prRepo: prRepo, db: db}
}

// BOMMissingSummary totals the "Missing in BOM" requests.
type BOMMissingSummary struct {
	TotalItems    int     `json:"totalItems"`
	TotalCost     float64 `json:"totalCost"`
	PendingCount  int     `json:"pendingCount"`
	ApprovedCount int     `json:"approvedCount"`
}

// BOMMissingReport lists the "Missing in BOM" requests with their summary.
type BOMMissingReport struct {
	Items   []entity.PurchaseRequest `json:"items"`
	Summary BOMMissingSummary        `json:"summary"`
}

// ExpenditureReport breaks actual spend down three ways. Each grouping sums to
// TotalExpenditure.
type ExpenditureReport struct {
	TotalExpenditure float64            `json:"totalExpenditure"`
	ByType           map[string]float64 `json:"byType"`
	ByDepartment     map[string]float64 `json:"byDepartment"`
	ByStatus         map[string]float64 `json:"byStatus"`
}

// BOMMissing builds the missing-in-BOM report.
func (s *ReportService) BOMMissing(ctx context.Context) (*BOMMissingReport, error) {
	var prs []entity.PurchaseRequest
	err := inTx(ctx, s.db, s.prRepo, func(repo *repository.PRRepository) error {
		var err error
		prs, err = repo.FindByPurchaseType(ctx, entity.PurchaseTypeMissingInBOM)
		return err
	})
	if err != nil {
		return nil, err
	}
	return BuildBOMMissingReport(prs), nil
}

// Expenditure builds the expenditure report over all purchase requests.
func (s *ReportService) Expenditure(ctx context.Context) (*ExpenditureReport, error) {
	var prs []entity.PurchaseRequest
	err := inTx(ctx, s.db, s.prRepo, func(repo *repository.PRRepository) error {
		var err error
		prs, err = repo.FindAll(ctx, nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return BuildExpenditureReport(prs), nil
}

// BuildBOMMissingReport summarises prs, which must already be the
// "Missing in BOM" requests. An unset actual cost counts as 0.
func BuildBOMMissingReport(prs []entity.PurchaseRequest) *BOMMissingReport {
	if prs == nil {
		prs = []entity.PurchaseRequest{}
	}

	total := decimal.Zero
	summary := BOMMissingSummary{TotalItems: len(prs)}
	for i := range prs {
		total = total.Add(decimal.NewFromFloat(prs[i].CostOrZero()))
		if prs[i].Status == entity.StatusPending {
			summary.PendingCount++
		}
		if entity.IsApprovedStatus(prs[i].Status) {
			summary.ApprovedCount++
		}
	}
	summary.TotalCost = total.InexactFloat64()

	return &BOMMissingReport{Items: prs, Summary: summary}
}

// BuildExpenditureReport groups actual cost by purchase type, department and
// status. Keys are the values observed in prs.
func BuildExpenditureReport(prs []entity.PurchaseRequest) *ExpenditureReport {
	total := decimal.Zero
	byType := map[string]decimal.Decimal{}
	byDepartment := map[string]decimal.Decimal{}
	byStatus := map[string]decimal.Decimal{}

	for i := range prs {
		cost := decimal.NewFromFloat(prs[i].CostOrZero())
		total = total.Add(cost)
		byType[prs[i].PurchaseType] = byType[prs[i].PurchaseType].Add(cost)
		byDepartment[prs[i].Department] = byDepartment[prs[i].Department].Add(cost)
		byStatus[prs[i].Status] = byStatus[prs[i].Status].Add(cost)
	}

	return &ExpenditureReport{
		TotalExpenditure: total.InexactFloat64(),
		ByType:           toFloatMap(byType),
		ByDepartment:     toFloatMap(byDepartment),
		ByStatus:         toFloatMap(byStatus),
	}
}

func toFloatMap(m map[string]decimal.Decimal) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v.InexactFloat64()
	}
	return out
}
