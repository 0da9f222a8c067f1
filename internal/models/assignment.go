package models

import "time"

// Assignment is a piece of coursework ordered by due date.
type Assignment struct {
	ID          int          `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	DueDate     int          `json:"due_date"`
	Submissions []Submission `json:"submissions"`
}

// Submission records a student's hand-in. Newest submissions come first.
type Submission struct {
	StudentID   int       `json:"student_id"`
	Filename    string    `json:"filename"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// CreateAssignmentRequest is the payload for creating an assignment.
type CreateAssignmentRequest struct {
	Title       string `json:"title" validate:"required,max=256"`
	Description string `json:"description" validate:"max=4096"`
	DueDate     int    `json:"due_date" validate:"duedate"`
}

// SubmitAssignmentRequest is the payload for submitting work.
type SubmitAssignmentRequest struct {
	AssignmentID int    `json:"assignment_id" validate:"gt=0"`
	Filename     string `json:"filename" validate:"required,max=256"`
}

// SubmissionView renders a submission with the student's username.
type SubmissionView struct {
	Student     string    `json:"student"`
	Filename    string    `json:"filename"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// AssignmentView renders an assignment with resolved submitters.
type AssignmentView struct {
	ID          int              `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	DueDate     int              `json:"due_date"`
	Submissions []SubmissionView `json:"submissions"`
}
