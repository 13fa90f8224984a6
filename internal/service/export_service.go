package service

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	appErrors "github.com/edulane/slotbook-api/pkg/errors"
	"github.com/edulane/slotbook-api/pkg/export"
)

// ExportService renders a teacher's open slot schedule as a downloadable
// CSV or PDF document.
type ExportService struct {
	availability *AvailabilityService
	csv          *export.CSVExporter
	pdf          *export.PDFExporter
	logger       *zap.Logger
}

// NewExportService constructs ExportService.
func NewExportService(availability *AvailabilityService, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{availability: availability, csv: csv, pdf: pdf, logger: logger}
}

// ExportResult carries the rendered document and its HTTP metadata.
type ExportResult struct {
	Filename    string
	ContentType string
	Payload     []byte
}

var exportHeaders = []string{"Slot ID", "Course", "Starts", "Ends", "Capacity", "Reserved", "Available", "Status"}

// ExportTeacherSchedule renders the teacher's open slots in the requested
// format, localized to the given timezone.
func (s *ExportService) ExportTeacherSchedule(ctx context.Context, teacherID int64, format, zone string) (*ExportResult, error) {
	items, _, err := s.availability.GetTeacherOpenSlots(ctx, teacherID, AvailabilityQuery{Timezone: zone, PageSize: 100})
	if err != nil {
		return nil, err
	}

	dataset := export.Dataset{Headers: exportHeaders, Rows: make([]map[string]string, 0, len(items))}
	for _, item := range items {
		course := ""
		if item.CourseID != nil {
			course = strconv.FormatInt(*item.CourseID, 10)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Slot ID":   strconv.FormatInt(item.ID, 10),
			"Course":    course,
			"Starts":    item.LocalStartTime,
			"Ends":      item.LocalEndTime,
			"Capacity":  strconv.Itoa(item.Capacity),
			"Reserved":  strconv.Itoa(item.ReservedCount),
			"Available": strconv.FormatBool(item.IsAvailable),
			"Status":    string(item.Status),
		})
	}

	switch format {
	case "csv", "":
		payload, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("teacher-%d-slots.csv", teacherID),
			ContentType: "text/csv",
			Payload:     payload,
		}, nil
	case "pdf":
		title := fmt.Sprintf("Teacher %d slot schedule", teacherID)
		payload, err := s.pdf.Render(dataset, title)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportResult{
			Filename:    fmt.Sprintf("teacher-%d-slots.pdf", teacherID),
			ContentType: "application/pdf",
			Payload:     payload,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}
