package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/exenity/portal/internal/procurement/entity"
	"github.com/exenity/portal/internal/procurement/repository"
	"github.com/xuri/excelize/v2"
)

const (
	prSheet          = "Purchase Requests"
	expenditureSheet = "Expenditure"
)

var prExportHeaders = []string{
	"PR Code", "Requester", "Department", "Project", "Item", "Specification",
	"Purchase Type", "Estimated Cost", "Actual Cost", "Priority", "Status",
	"Comments", "Created At", "Updated At",
}

// ExportWorkbook writes every purchase request and the expenditure breakdown
// to an xlsx workbook. The caller closes the returned file.
func (s *ReportService) ExportWorkbook(ctx context.Context) (*excelize.File, string, error) {
	var prs []entity.PurchaseRequest
	err := inTx(ctx, s.db, s.prRepo, func(repo *repository.PRRepository) error {
		var err error
		prs, err = repo.FindAll(ctx, nil)
		return err
	})
	if err != nil {
		return nil, "", fmt.Errorf("list purchase requests: %w", err)
	}

	f, err := BuildWorkbook(prs)
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("purchase_requests_%s.xlsx", time.Now().Format("20060102"))
	return f, filename, nil
}

// BuildWorkbook lays prs out on a "Purchase Requests" sheet with a totals row
// and an "Expenditure" sheet with the three groupings.
func BuildWorkbook(prs []entity.PurchaseRequest) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", prSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 11},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#D9E1F2"}},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	boldStyle, _ := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	})

	for i, h := range prExportHeaders {
		col, _ := excelize.ColumnNumberToName(i + 1)
		cell := col + "1"
		f.SetCellValue(prSheet, cell, h)
		f.SetCellStyle(prSheet, cell, cell, headerStyle)
	}

	var estimatedTotal, actualTotal float64
	for rowIdx, pr := range prs {
		row := rowIdx + 2
		f.SetCellValue(prSheet, fmt.Sprintf("A%d", row), pr.Code)
		f.SetCellValue(prSheet, fmt.Sprintf("B%d", row), pr.Requester)
		f.SetCellValue(prSheet, fmt.Sprintf("C%d", row), pr.Department)
		f.SetCellValue(prSheet, fmt.Sprintf("D%d", row), pr.Project)
		f.SetCellValue(prSheet, fmt.Sprintf("E%d", row), pr.Item)
		f.SetCellValue(prSheet, fmt.Sprintf("F%d", row), pr.Specification)
		f.SetCellValue(prSheet, fmt.Sprintf("G%d", row), pr.PurchaseType)
		f.SetCellValue(prSheet, fmt.Sprintf("H%d", row), pr.EstimatedCost)
		if pr.ActualCost != nil {
			f.SetCellValue(prSheet, fmt.Sprintf("I%d", row), *pr.ActualCost)
		}
		f.SetCellValue(prSheet, fmt.Sprintf("J%d", row), pr.Priority)
		f.SetCellValue(prSheet, fmt.Sprintf("K%d", row), pr.Status)
		f.SetCellValue(prSheet, fmt.Sprintf("L%d", row), pr.Comments)
		f.SetCellValue(prSheet, fmt.Sprintf("M%d", row), pr.CreatedAt.Format(time.RFC3339))
		f.SetCellValue(prSheet, fmt.Sprintf("N%d", row), pr.UpdatedAt.Format(time.RFC3339))

		estimatedTotal += pr.EstimatedCost
		actualTotal += pr.CostOrZero()
	}

	totalRow := len(prs) + 2
	f.SetCellValue(prSheet, fmt.Sprintf("A%d", totalRow), "Total")
	f.SetCellValue(prSheet, fmt.Sprintf("E%d", totalRow), fmt.Sprintf("Requests: %d", len(prs)))
	f.SetCellValue(prSheet, fmt.Sprintf("H%d", totalRow), estimatedTotal)
	f.SetCellValue(prSheet, fmt.Sprintf("I%d", totalRow), actualTotal)
	f.SetCellStyle(prSheet, fmt.Sprintf("A%d", totalRow), fmt.Sprintf("N%d", totalRow), boldStyle)

	colWidths := []float64{10, 16, 16, 20, 20, 28, 18, 14, 12, 10, 18, 28, 22, 22}
	for i, w := range colWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(prSheet, col, col, w)
	}

	if _, err := f.NewSheet(expenditureSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	report := BuildExpenditureReport(prs)

	row := 1
	f.SetCellValue(expenditureSheet, "A1", "Total Expenditure")
	f.SetCellValue(expenditureSheet, "B1", report.TotalExpenditure)
	f.SetCellStyle(expenditureSheet, "A1", "B1", boldStyle)
	row += 2

	for _, group := range []struct {
		title  string
		values map[string]float64
	}{
		{"By Purchase Type", report.ByType},
		{"By Department", report.ByDepartment},
		{"By Status", report.ByStatus},
	} {
		cell := fmt.Sprintf("A%d", row)
		f.SetCellValue(expenditureSheet, cell, group.title)
		f.SetCellStyle(expenditureSheet, cell, cell, headerStyle)
		row++
		for _, key := range sortedKeys(group.values) {
			f.SetCellValue(expenditureSheet, fmt.Sprintf("A%d", row), key)
			f.SetCellValue(expenditureSheet, fmt.Sprintf("B%d", row), group.values[key])
			row++
		}
		row++
	}
	f.SetColWidth(expenditureSheet, "A", "A", 24)
	f.SetColWidth(expenditureSheet, "B", "B", 14)

	return f, nil
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
