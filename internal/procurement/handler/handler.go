package handler

import (
	"errors"
	"net/http"

	"github.com/exenity/portal/internal/procurement/entity"
	"github.com/exenity/portal/internal/procurement/repository"
	"github.com/exenity/portal/internal/procurement/service"
	"github.com/exenity/portal/internal/shared/sse"
	"github.com/gin-gonic/gin"
)

// Handlers groups the procurement handlers.
type Handlers struct {
	Auth   *AuthHandler
	PR     *PRHandler
	Report *ReportHandler
	SSE    *SSEHandler
}

func NewHandlers(svc *service.Services, hub *sse.Hub) *Handlers {
	return &Handlers{
		Auth:   NewAuthHandler(svc.Auth),
		PR:     NewPRHandler(svc.Procurement),
		Report: NewReportHandler(svc.Report),
		SSE:    NewSSEHandler(hub),
	}
}

// Register mounts the API under api. adminAuth guards the admin-only routes.
func (h *Handlers) Register(api *gin.RouterGroup, adminAuth gin.HandlerFunc) {
	api.POST("/auth/login", h.Auth.Login)

	prs := api.Group("/prs")
	{
		prs.GET("", h.PR.ListPRs)
		prs.POST("", h.PR.CreatePR)
		prs.GET("/:code", h.PR.GetPR)

		admin := prs.Group("", adminAuth)
		admin.PATCH("/:code/status", h.PR.UpdateStatus)
		admin.PATCH("/:code/comments", h.PR.UpdateComments)
		admin.PATCH("/:code/actual-cost", h.PR.UpdateActualCost)
		admin.DELETE("/:code", h.PR.DeletePR)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/bom-missing", h.Report.BOMMissing)
		reports.GET("/expenditure", h.Report.Expenditure)
		reports.GET("/export", adminAuth, h.Report.Export)
	}

	api.GET("/events", h.SSE.Stream)
}

// === response helpers ===

// Response is the envelope of every non-list, non-report API response.
type Response struct {
	Success bool                    `json:"success"`
	Message string                  `json:"message,omitempty"`
	Error   string                  `json:"error,omitempty"`
	PR      *entity.PurchaseRequest `json:"pr,omitempty"`
	Token   string                  `json:"token,omitempty"`
}

const msgPRNotFound = "PR not found"

func SuccessPR(c *gin.Context, status int, pr *entity.PurchaseRequest) {
	c.JSON(status, Response{Success: true, PR: pr})
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, Response{Success: false, Error: message})
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, message)
}

func InternalError(c *gin.Context, message string) {
	Error(c, http.StatusInternalServerError, message)
}

// writeFailed maps a failed write: unknown code -> 404, anything else -> 400.
func writeFailed(c *gin.Context, err error) {
	c.Error(err)
	if errors.Is(err, repository.ErrNotFound) {
		NotFound(c, msgPRNotFound)
		return
	}
	BadRequest(c, err.Error())
}
