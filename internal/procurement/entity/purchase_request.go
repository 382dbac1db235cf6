package entity

import (
	"fmt"
	"time"
)

// PurchaseRequest is a request to buy a single item for a project.
// The integer ID never leaves the service; clients address a request by Code.
type PurchaseRequest struct {
	ID            uint      `json:"-" gorm:"primaryKey;autoIncrement"`
	Code          string    `json:"id" gorm:"column:pr_code;size:64;uniqueIndex;not null"`
	Requester     string    `json:"requester" gorm:"size:100;not null"`
	Department    string    `json:"department" gorm:"size:100;not null;index"`
	Project       string    `json:"project" gorm:"size:200;not null"`
	Item          string    `json:"item" gorm:"size:200;not null"`
	Specification string    `json:"specification" gorm:"type:text"`
	PurchaseType  string    `json:"purchaseType" gorm:"size:50;not null;index"`
	EstimatedCost float64   `json:"estimatedCost" gorm:"not null"`
	ActualCost    *float64  `json:"actualCost"`
	Priority      string    `json:"priority" gorm:"size:20;not null"`
	Status        string    `json:"status" gorm:"size:50;not null;index"`
	Comments      string    `json:"comments" gorm:"type:text"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (PurchaseRequest) TableName() string {
	return "purchase_requests"
}

// CostOrZero returns the actual cost, treating an unset cost as zero.
func (pr *PurchaseRequest) CostOrZero() float64 {
	if pr.ActualCost == nil {
		return 0
	}
	return *pr.ActualCost
}

// FormatCode derives the public code from the row's primary key, e.g. 7 -> PR-007.
func FormatCode(id uint) string {
	return fmt.Sprintf("PR-%03d", id)
}

// Purchase types
const (
	PurchaseTypeRegular      = "Regular Purchase"
	PurchaseTypeMissingInBOM = "Missing in BOM"
)

// Priorities
const (
	PriorityMedium = "Medium"
)

// Statuses
const (
	StatusPending          = "Pending"
	StatusApproved         = "Approved"
	StatusInProcess        = "In Process"
	StatusMaterialReceived = "Material Received"
)

// IsApprovedStatus reports whether status counts as approved in the BOM report.
func IsApprovedStatus(status string) bool {
	switch status {
	case StatusApproved, StatusInProcess, StatusMaterialReceived:
		return true
	}
	return false
}
