package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/edulane/slotbook-api/internal/service"
	appErrors "github.com/edulane/slotbook-api/pkg/errors"
	"github.com/edulane/slotbook-api/pkg/response"
)

// ReservationHandler exposes the demo reservation endpoint.
type ReservationHandler struct {
	reservations *service.ReservationService
}

// NewReservationHandler constructs ReservationHandler.
func NewReservationHandler(reservations *service.ReservationService) *ReservationHandler {
	return &ReservationHandler{reservations: reservations}
}

// Reserve godoc
// @Summary Reserve a demo seat on a slot
// @Description Books a demo session on an open slot inside a single transaction. The request fails atomically when the slot is closed, full, in the past, bound to another course, or the student has exhausted the demo quota.
// @Tags Reservations
// @Accept json
// @Produce json
// @Param id path int true "Slot ID"
// @Param payload body service.ReserveDemoRequest true "Reservation request"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /slots/{id}/reserve [post]
func (h *ReservationHandler) Reserve(c *gin.Context) {
	slotID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	var req service.ReserveDemoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	result, err := h.reservations.Reserve(c.Request.Context(), slotID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}
