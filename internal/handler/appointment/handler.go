package appointment

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Bigidan/beauty-salon-ms/internal/handler"
	"github.com/Bigidan/beauty-salon-ms/internal/model"
	"github.com/Bigidan/beauty-salon-ms/internal/service/scheduling"
)

type Handler struct {
	service *scheduling.Service
}

func NewHandler(service *scheduling.Service) *Handler {
	return &Handler{service: service}
}

// availabilityQuery carries the raw availability parameters. Gin's query
// binding cannot decode uuid.UUID, so the IDs arrive as strings and are
// parsed the same way path parameters are.
type availabilityQuery struct {
	EmployeeID string    `form:"employee_id" binding:"required"`
	ServiceID  string    `form:"service_id" binding:"required"`
	StartTime  time.Time `form:"start_time" binding:"required"`
	ExcludeID  string    `form:"exclude_appointment_id"`
}

// CheckAvailability answers whether a slot is free without creating
// anything. The booking form polls it as the user picks a time.
func (h *Handler) CheckAvailability(c *gin.Context) {
	var q availabilityQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	employeeID, err := uuid.Parse(q.EmployeeID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid employee ID"))
		return
	}
	serviceID, err := uuid.Parse(q.ServiceID)
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid service ID"))
		return
	}

	req := model.CheckAvailabilityRequest{
		EmployeeID: employeeID,
		ServiceID:  serviceID,
		StartTime:  q.StartTime,
	}
	if q.ExcludeID != "" {
		excludeID, err := uuid.Parse(q.ExcludeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
			return
		}
		req.ExcludeID = &excludeID
	}

	result, err := h.service.CheckSlot(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.BookAppointment(c.Request.Context(), &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	if !result.Created {
		// The slot is taken. The payload carries the next free time.
		c.JSON(http.StatusConflict, handler.NewSuccessResponse(result))
		return
	}
	c.JSON(http.StatusCreated, handler.NewSuccessResponse(result))
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	appt, err := h.service.GetAppointment(c.Request.Context(), id)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(appt))
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	var req model.RescheduleAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse(err.Error()))
		return
	}

	result, err := h.service.RescheduleAppointment(c.Request.Context(), id, &req)
	if err != nil {
		handler.Error(c, err)
		return
	}

	if !result.Created {
		c.JSON(http.StatusConflict, handler.NewSuccessResponse(result))
		return
	}
	c.JSON(http.StatusOK, handler.NewSuccessResponse(result))
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.service.CancelAppointment(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"cancelled": true}))
}

func (h *Handler) DeleteAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid appointment ID"))
		return
	}

	if err := h.service.DeleteAppointment(c.Request.Context(), id); err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(gin.H{"deleted": true}))
}

// ListAppointments returns calendar events, filtered to one employee via
// the employee_id query parameter.
func (h *Handler) ListAppointments(c *gin.Context) {
	employeeID := uuid.Nil
	if raw := c.Query("employee_id"); raw != "" {
		parsed, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid employee ID"))
			return
		}
		employeeID = parsed
	}

	events, err := h.service.ListAppointments(c.Request.Context(), employeeID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(events))
}

func (h *Handler) ListClientAppointments(c *gin.Context) {
	clientID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, handler.NewErrorResponse("invalid client ID"))
		return
	}

	events, err := h.service.ListClientAppointments(c.Request.Context(), clientID)
	if err != nil {
		handler.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, handler.NewSuccessResponse(events))
}
