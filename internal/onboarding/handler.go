// File: internal/onboarding/handler.go
package onboarding

import (
	"errors"

	"bazaar_onboarding_backend/internal/buyer"
	"bazaar_onboarding_backend/internal/common"
	"bazaar_onboarding_backend/internal/seller"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for onboarding handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new onboarding handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// ProcessUserRequest is the entry payload of the onboarding flow.
type ProcessUserRequest struct {
	UserType string `json:"user_type" binding:"required,oneof=buyer seller"`
	Username string `json:"username" binding:"required,max=100"`
}

// RegisterRoutes sets up the routes for onboarding operations.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/user-type/process_user", h.processUser)

	buyerGroup := router.Group("/buyers")
	{
		buyerGroup.POST("/:id/accept_terms", h.acceptBuyerTerms)
	}

	sellerGroup := router.Group("/sellers")
	{
		sellerGroup.POST("/:id/accept_terms", h.acceptSellerTerms)
		sellerGroup.POST("/:id/select_day", h.selectSellerDay)
	}
}

func (h *Handler) bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		h.logger.Warn("Invalid request body", zap.Error(err), zap.String("path", c.Request.URL.Path))
		var ve validator.ValidationErrors
		if errors.As(err, &ve) {
			common.RespondWithError(c, common.NewValidationAPIError(common.FormatValidationErrors(ve)))
			return false
		}
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return false
	}
	return true
}

func (h *Handler) profileID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails("Invalid profile ID format."))
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) processUser(c *gin.Context) {
	var req ProcessUserRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.service.ProcessUser(c.Request.Context(), req.UserType, req.Username)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, result.Message, result.Data, result.NextStep)
}

func (h *Handler) acceptBuyerTerms(c *gin.Context) {
	id, ok := h.profileID(c)
	if !ok {
		return
	}
	var req buyer.AcceptTermsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.service.AcceptBuyerTerms(c.Request.Context(), id, *req.TermsAccepted)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, result.Message, result.Data, result.NextStep)
}

func (h *Handler) acceptSellerTerms(c *gin.Context) {
	id, ok := h.profileID(c)
	if !ok {
		return
	}
	var req seller.AcceptTermsRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.service.AcceptSellerTerms(c.Request.Context(), id, *req.TermsAccepted)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, result.Message, result.Data, result.NextStep)
}

func (h *Handler) selectSellerDay(c *gin.Context) {
	id, ok := h.profileID(c)
	if !ok {
		return
	}
	var req seller.SelectDayRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.service.SelectSellerDay(c.Request.Context(), id, req.SelectedDay)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, result.Message, result.Data, result.NextStep)
}
