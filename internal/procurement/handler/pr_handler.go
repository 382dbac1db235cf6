package handler

import (
	"errors"
	"net/http"

	"github.com/exenity/portal/internal/procurement/repository"
	"github.com/exenity/portal/internal/procurement/service"
	"github.com/gin-gonic/gin"
)

// PRHandler serves purchase request CRUD.
type PRHandler struct {
	svc *service.ProcurementService
}

func NewPRHandler(svc *service.ProcurementService) *PRHandler {
	return &PRHandler{svc: svc}
}

// ListPRs 采购需求列表
// GET /api/prs?status=xxx&department=xxx&purchaseType=xxx&priority=xxx&project=xxx
func (h *PRHandler) ListPRs(c *gin.Context) {
	filters := map[string]string{
		"status":       c.Query("status"),
		"department":   c.Query("department"),
		"purchaseType": c.Query("purchaseType"),
		"priority":     c.Query("priority"),
		"project":      c.Query("project"),
	}

	items, err := h.svc.ListPRs(c.Request.Context(), filters)
	if err != nil {
		c.Error(err)
		InternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, items)
}

// GetPR 采购需求详情
// GET /api/prs/:code
func (h *PRHandler) GetPR(c *gin.Context) {
	pr, err := h.svc.GetPR(c.Request.Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			NotFound(c, msgPRNotFound)
			return
		}
		c.Error(err)
		InternalError(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, pr)
}

// CreatePR 创建采购需求
// POST /api/prs
func (h *PRHandler) CreatePR(c *gin.Context) {
	var req service.CreatePRRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	pr, err := h.svc.CreatePR(c.Request.Context(), &req)
	if err != nil {
		writeFailed(c, err)
		return
	}
	SuccessPR(c, http.StatusCreated, pr)
}

// UpdateStatus 更新状态
// PATCH /api/prs/:code/status
func (h *PRHandler) UpdateStatus(c *gin.Context) {
	var req service.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	pr, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("code"), &req)
	if err != nil {
		writeFailed(c, err)
		return
	}
	SuccessPR(c, http.StatusOK, pr)
}

// UpdateComments 更新备注
// PATCH /api/prs/:code/comments
func (h *PRHandler) UpdateComments(c *gin.Context) {
	var req service.UpdateCommentsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	pr, err := h.svc.UpdateComments(c.Request.Context(), c.Param("code"), &req)
	if err != nil {
		writeFailed(c, err)
		return
	}
	SuccessPR(c, http.StatusOK, pr)
}

// UpdateActualCost 更新实际成本
// PATCH /api/prs/:code/actual-cost
func (h *PRHandler) UpdateActualCost(c *gin.Context) {
	var req service.UpdateActualCostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		BadRequest(c, err.Error())
		return
	}

	pr, err := h.svc.UpdateActualCost(c.Request.Context(), c.Param("code"), &req)
	if err != nil {
		writeFailed(c, err)
		return
	}
	SuccessPR(c, http.StatusOK, pr)
}

// DeletePR 删除采购需求
// DELETE /api/prs/:code
func (h *PRHandler) DeletePR(c *gin.Context) {
	if err := h.svc.DeletePR(c.Request.Context(), c.Param("code")); err != nil {
		writeFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, Response{Success: true, Message: "PR deleted successfully"})
}
