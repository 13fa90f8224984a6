package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edulane/slotbook-api/internal/service"
	"github.com/edulane/slotbook-api/pkg/response"
)

// ScheduleHandler exposes the student demo schedule endpoint.
type ScheduleHandler struct {
	schedules *service.ScheduleService
}

// NewScheduleHandler constructs ScheduleHandler.
func NewScheduleHandler(schedules *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: schedules}
}

// StudentSchedule godoc
// @Summary List a student's demo bookings
// @Tags Schedule
// @Produce json
// @Param userId path int true "Student ID"
// @Param timezone query string true "Display timezone (IANA name)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /slots/student/{userId} [get]
func (h *ScheduleHandler) StudentSchedule(c *gin.Context) {
	userID, err := pathID(c, "userId")
	if err != nil {
		response.Error(c, err)
		return
	}
	items, err := h.schedules.GetStudentDemoSchedule(c.Request.Context(), userID, c.Query("timezone"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Message(c, http.StatusOK, "Demo schedule retrieved successfully.", items)
}
