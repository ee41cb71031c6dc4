package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/coverage-api/internal/coverage"
	"github.com/noah-isme/coverage-api/internal/dto"
	"github.com/noah-isme/coverage-api/internal/models"
	appErrors "github.com/noah-isme/coverage-api/pkg/errors"
	"github.com/noah-isme/coverage-api/pkg/export"
)

type summaryReader interface {
	Summary(ctx context.Context, scope models.SchoolScope, absenceID string) (*dto.CoverageSummaryResponse, bool, error)
}

// Renderer turns a dataset into a downloadable document.
type Renderer interface {
	ContentType() string
	Extension() string
	Render(data export.Dataset) ([]byte, error)
}

// ExportFile is a rendered coverage report.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

var coverageExportHeaders = []string{"Date", "Time Slot", "Classroom", "Status", "Substitutes"}

// CoverageExportService renders absence coverage reports.
type CoverageExportService struct {
	summaries summaryReader
	renderers map[string]Renderer
	logger    *zap.Logger
}

// NewCoverageExportService constructs an export service with CSV and PDF renderers.
func NewCoverageExportService(summaries summaryReader, logger *zap.Logger) *CoverageExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CoverageExportService{
		summaries: summaries,
		renderers: map[string]Renderer{
			"csv": export.NewCSVExporter(),
			"pdf": export.NewPDFExporter(),
		},
		logger: logger,
	}
}

// Export renders the coverage of an absence in the requested format.
func (s *CoverageExportService) Export(ctx context.Context, scope models.SchoolScope, absenceID, format string) (*ExportFile, error) {
	format = strings.ToLower(strings.TrimSpace(format))
	if format == "" {
		format = "csv"
	}
	renderer, ok := s.renderers[format]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}

	summary, _, err := s.summaries.Summary(ctx, scope, absenceID)
	if err != nil {
		return nil, err
	}

	data, err := renderer.Render(buildCoverageDataset(summary))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render coverage export")
	}
	s.logger.Info("coverage exported", zap.String("absence_id", absenceID), zap.String("format", format), zap.Int("bytes", len(data)))
	return &ExportFile{
		Filename:    fmt.Sprintf("coverage-%s.%s", absenceID, renderer.Extension()),
		ContentType: renderer.ContentType(),
		Data:        data,
	}, nil
}

func buildCoverageDataset(summary *dto.CoverageSummaryResponse) export.Dataset {
	lines := []string{
		fmt.Sprintf("Status: %s", summary.Coverage.Status),
		fmt.Sprintf("Covered: %s%% of %d shifts", summary.Summary.CoveredPercent.StringFixed(1), summary.Summary.Total),
	}
	for _, badge := range summary.Coverage.Badges {
		lines = append(lines, fmt.Sprintf("%s: %d", badge.Label, badge.Count))
	}

	rows := make([]map[string]string, 0, len(summary.Shifts))
	for _, shift := range summary.Shifts {
		classroom := shift.ClassroomName
		if classroom == "" {
			classroom = shift.ClassroomID
		}
		rows = append(rows, map[string]string{
			"Date":        shift.Date,
			"Time Slot":   shift.TimeSlotCode,
			"Classroom":   classroom,
			"Status":      shiftStatusLabel(shift.Status),
			"Substitutes": describeAssignees(shift.Assignees),
		})
	}
	return export.Dataset{
		Title:   fmt.Sprintf("Coverage report %s", summary.AbsenceID),
		Summary: lines,
		Headers: coverageExportHeaders,
		Rows:    rows,
	}
}

func shiftStatusLabel(status coverage.ShiftCoverageStatus) string {
	switch status {
	case coverage.ShiftFullyCovered:
		return "Covered"
	case coverage.ShiftPartiallyCovered:
		return "Partial"
	default:
		return "Uncovered"
	}
}

func describeAssignees(assignees []coverage.Assignee) string {
	parts := make([]string, 0, len(assignees))
	for _, a := range assignees {
		if a.IsPartial && a.PartialStartTime != nil && a.PartialEndTime != nil {
			parts = append(parts, fmt.Sprintf("%s (%s-%s)", a.SubstituteID, *a.PartialStartTime, *a.PartialEndTime))
			continue
		}
		parts = append(parts, a.SubstituteID)
	}
	return strings.Join(parts, "; ")
}
