package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Bigidan/beauty-salon-ms/internal/handler"
	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/internal/service/auth"
)

type Handler struct {
	service *auth.Service
}

func NewHandler(service *auth.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	resp, err := h.service.Login(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(resp))
}
