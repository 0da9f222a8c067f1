package models

// ReportFormat enumerates supported export formats.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportKind selects the dataset written by a report export.
type ReportKind string

const (
	ReportKindSyllabus    ReportKind = "syllabus"
	ReportKindAssignments ReportKind = "assignments"
)

// ExportReportRequest asks for a classroom report to be written to a file.
// The format follows the file extension.
type ExportReportRequest struct {
	Kind ReportKind `json:"kind" validate:"required,oneof=syllabus assignments"`
	Path string     `json:"path" validate:"required"`
}

// ReportResult describes a written report.
type ReportResult struct {
	Path   string       `json:"path"`
	Kind   ReportKind   `json:"kind"`
	Format ReportFormat `json:"format"`
	Rows   int          `json:"rows"`
}
