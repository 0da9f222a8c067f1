package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/cloud-classroom/internal/models"
	appErrors "github.com/noah-isme/cloud-classroom/pkg/errors"
	"github.com/noah-isme/cloud-classroom/pkg/export"
)

type reportStorage interface {
	Save(filename string, data []byte) (string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
}

type syllabusReporter interface {
	Report(ctx context.Context) ([]models.SubjectCompletion, error)
}

type assignmentLister interface {
	List(ctx context.Context) []models.AssignmentView
}

// ExportService renders classroom reports to CSV or PDF files.
type ExportService struct {
	syllabus    syllabusReporter
	assignments assignmentLister
	storage     reportStorage
	csv         csvRenderer
	pdf         pdfRenderer
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(syllabus syllabusReporter, assignments assignmentLister, storage reportStorage, csv csvRenderer, pdf pdfRenderer, validate *validator.Validate, logger *zap.Logger) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}
	return &ExportService{
		syllabus:    syllabus,
		assignments: assignments,
		storage:     storage,
		csv:         csv,
		pdf:         pdf,
		validator:   validate,
		logger:      logger,
	}
}

// Export writes the requested report. Admin only.
func (s *ExportService) Export(ctx context.Context, session models.Session, req models.ExportReportRequest) (*models.ReportResult, error) {
	if err := requireAdmin(session, "export reports"); err != nil {
		return nil, err
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, invalid(err, "invalid report request")
	}
	format, err := formatFromPath(req.Path)
	if err != nil {
		return nil, invalid(err, err.Error())
	}

	dataset, title, err := s.buildDataset(ctx, req.Kind)
	if err != nil {
		return nil, translate(err)
	}

	var payload []byte
	switch format {
	case models.ReportFormatCSV:
		payload, err = s.csv.Render(dataset)
	case models.ReportFormatPDF:
		payload, err = s.pdf.Render(dataset, title)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	written, err := s.storage.Save(req.Path, payload)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrIOUnavailable.Code, appErrors.ErrIOUnavailable.Status, "cannot write report file")
	}
	s.logger.Info("report exported", zap.String("kind", string(req.Kind)), zap.String("path", written), zap.Int("rows", len(dataset.Rows)))
	return &models.ReportResult{Path: written, Kind: req.Kind, Format: format, Rows: len(dataset.Rows)}, nil
}

func formatFromPath(path string) (models.ReportFormat, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return models.ReportFormatCSV, nil
	case ".pdf":
		return models.ReportFormatPDF, nil
	default:
		return "", fmt.Errorf("report path must end in .csv or .pdf")
	}
}

func (s *ExportService) buildDataset(ctx context.Context, kind models.ReportKind) (export.Dataset, string, error) {
	switch kind {
	case models.ReportKindSyllabus:
		return s.buildSyllabusDataset(ctx)
	case models.ReportKindAssignments:
		return s.buildAssignmentDataset(ctx), "Assignments", nil
	default:
		return export.Dataset{}, "", fmt.Errorf("unsupported report kind %s", kind)
	}
}

func (s *ExportService) buildSyllabusDataset(ctx context.Context) (export.Dataset, string, error) {
	report, err := s.syllabus.Report(ctx)
	if err != nil {
		return export.Dataset{}, "", err
	}
	dataset := export.Dataset{Headers: []string{"Subject", "Completed", "Total", "Percent"}}
	for _, row := range report {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Subject":   row.Subject,
			"Completed": strconv.Itoa(row.Completed),
			"Total":     strconv.Itoa(row.Total),
			"Percent":   strconv.FormatFloat(row.Percent, 'f', 1, 64),
		})
	}
	return dataset, "Syllabus completion", nil
}

func (s *ExportService) buildAssignmentDataset(ctx context.Context) export.Dataset {
	dataset := export.Dataset{Headers: []string{"ID", "Title", "Due", "Submissions", "Submitted by"}}
	for _, a := range s.assignments.List(ctx) {
		students := make([]string, 0, len(a.Submissions))
		for _, sub := range a.Submissions {
			students = append(students, sub.Student)
		}
		dataset.Rows = append(dataset.Rows, map[string]string{
			"ID":           strconv.Itoa(a.ID),
			"Title":        a.Title,
			"Due":          strconv.Itoa(a.DueDate),
			"Submissions":  strconv.Itoa(len(a.Submissions)),
			"Submitted by": strings.Join(students, " "),
		})
	}
	return dataset
}
