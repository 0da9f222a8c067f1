package models

// Topic is a syllabus entry within a subject.
type Topic struct {
	Name      string `json:"name"`
	Completed bool   `json:"completed"`
}

// SubjectCompletion summarises progress through a subject's topics.
type SubjectCompletion struct {
	Subject   string  `json:"subject"`
	Total     int     `json:"total"`
	Completed int     `json:"completed"`
	Percent   float64 `json:"percent"`
}

// CreateSubjectRequest is the payload for creating a subject.
type CreateSubjectRequest struct {
	Name string `json:"name" validate:"required,max=128"`
}

// AddTopicRequest is the payload for adding a topic to a subject.
type AddTopicRequest struct {
	Subject string `json:"subject" validate:"required"`
	Topic   string `json:"topic" validate:"required,max=128"`
}
