package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/edulane/slotbook-api/internal/service"
	appErrors "github.com/edulane/slotbook-api/pkg/errors"
	"github.com/edulane/slotbook-api/pkg/response"
)

// SlotHandler exposes slot creation, listing and export endpoints.
type SlotHandler struct {
	slots        *service.SlotService
	availability *service.AvailabilityService
	exports      *service.ExportService
}

// NewSlotHandler constructs SlotHandler.
func NewSlotHandler(slots *service.SlotService, availability *service.AvailabilityService, exports *service.ExportService) *SlotHandler {
	return &SlotHandler{slots: slots, availability: availability, exports: exports}
}

// Create godoc
// @Summary Batch-create bookable slots for a teacher
// @Tags Slots
// @Accept json
// @Produce json
// @Param payload body service.CreateSlotsRequest true "Slot batch"
// @Success 201 {object} response.Envelope
// @Router /slots [post]
func (h *SlotHandler) Create(c *gin.Context) {
	var req service.CreateSlotsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	count, err := h.slots.CreateSlots(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.CreatedCount(c, count)
}

// List godoc
// @Summary List slots with availability projection
// @Tags Slots
// @Produce json
// @Param teacherId query int false "Filter by teacher"
// @Param courseId query int false "Filter by course"
// @Param dateFrom query string false "Range start (local date or offset instant)"
// @Param dateTo query string false "Range end"
// @Param timezone query string false "Display timezone (IANA name)"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /slots [get]
func (h *SlotHandler) List(c *gin.Context) {
	q := availabilityQueryFrom(c)
	items, total, err := h.availability.ListSlots(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, http.StatusOK, items, total)
}

// TeacherOpen godoc
// @Summary List a teacher's open slots
// @Tags Slots
// @Produce json
// @Param id path int true "Teacher ID"
// @Param courseId query int false "Filter by course"
// @Param dateFrom query string false "Range start"
// @Param dateTo query string false "Range end"
// @Param timezone query string false "Display timezone"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /slots/{id}/open [get]
func (h *SlotHandler) TeacherOpen(c *gin.Context) {
	teacherID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	q := availabilityQueryFrom(c)
	items, total, err := h.availability.GetTeacherOpenSlots(c.Request.Context(), teacherID, q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, http.StatusOK, items, total)
}

// Export godoc
// @Summary Export a teacher's open slot schedule
// @Tags Slots
// @Produce text/csv
// @Produce application/pdf
// @Param id path int true "Teacher ID"
// @Param format query string false "csv or pdf"
// @Param timezone query string false "Display timezone"
// @Success 200 {file} byte
// @Router /slots/{id}/export [get]
func (h *SlotHandler) Export(c *gin.Context) {
	teacherID, err := pathID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}
	result, err := h.exports.ExportTeacherSchedule(c.Request.Context(), teacherID, c.Query("format"), c.Query("timezone"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="`+result.Filename+`"`)
	c.Data(http.StatusOK, result.ContentType, result.Payload)
}

func availabilityQueryFrom(c *gin.Context) service.AvailabilityQuery {
	var q service.AvailabilityQuery
	if raw := c.Query("teacherId"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			q.TeacherID = id
		}
	}
	if raw := c.Query("courseId"); raw != "" {
		if id, err := strconv.ParseInt(raw, 10, 64); err == nil {
			q.CourseID = id
		}
	}
	q.Timezone = c.Query("timezone")
	q.DateFrom = c.Query("dateFrom")
	q.DateTo = c.Query("dateTo")
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		q.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		q.PageSize = size
	}
	return q
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "invalid id parameter")
	}
	return id, nil
}
