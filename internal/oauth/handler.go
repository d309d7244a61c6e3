// File: internal/oauth/handler.go
package oauth

import (
	"net/http"

	"bazaar_onboarding_backend/internal/common"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler struct holds dependencies for OAuth handlers.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler creates a new OAuth handler.
func NewHandler(service Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// RegisterRoutes sets up the routes for the OAuth handshake.
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	oauthGroup := router.Group("/oauth")
	{
		oauthGroup.GET("/redirect", h.redirect)
		oauthGroup.GET("/callback", h.callback)
	}
}

func (h *Handler) redirect(c *gin.Context) {
	authURL, err := h.service.BeginRedirect(c)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"auth_url": authURL})
}

func (h *Handler) callback(c *gin.Context) {
	var query CallbackQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.RespondWithError(c, common.ErrBadRequest.WithDetails(err.Error()))
		return
	}
	result, err := h.service.HandleCallback(c, query)
	if err != nil {
		common.RespondWithError(c, err)
		return
	}
	common.RespondOK(c, result.Message, result.Data, result.NextStep)
}
