package repository

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/noah-isme/cloud-classroom/internal/models"
)

// DefaultSchedulerCapacity bounds the heap when no capacity is configured.
const DefaultSchedulerCapacity = 500

var (
	// ErrCapacityExceeded is returned when pushing onto a full scheduler.
	ErrCapacityExceeded = errors.New("assignment capacity exceeded")
	// ErrSchedulerEmpty is returned when peeking or popping an empty scheduler.
	ErrSchedulerEmpty = errors.New("no assignments scheduled")
	// ErrAssignmentNotFound is returned for unknown assignment ids.
	ErrAssignmentNotFound = errors.New("assignment not found")
)

// AssignmentScheduler is a bounded binary min-heap of assignments keyed on
// DueDate. The heap array is the only container; lookups scan it linearly.
type AssignmentScheduler struct {
	mu       sync.RWMutex
	heap     []*models.Assignment
	capacity int
	nextID   int
	now      func() time.Time
}

// NewAssignmentScheduler builds an empty scheduler holding at most capacity assignments.
func NewAssignmentScheduler(capacity int) *AssignmentScheduler {
	if capacity <= 0 {
		capacity = DefaultSchedulerCapacity
	}
	return &AssignmentScheduler{
		heap:     make([]*models.Assignment, 0, capacity),
		capacity: capacity,
		nextID:   1,
		now:      time.Now,
	}
}

// WithClock overrides the timestamp source for submissions.
func (s *AssignmentScheduler) WithClock(now func() time.Time) *AssignmentScheduler {
	if now != nil {
		s.now = now
	}
	return s
}

// Create allocates an assignment with the next id. It is not scheduled until pushed.
func (s *AssignmentScheduler) Create(title, description string, dueDate int) *models.Assignment {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := &models.Assignment{
		ID:          s.nextID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Submissions: []models.Submission{},
	}
	s.nextID++
	return a
}

// Push inserts a into the heap.
func (s *AssignmentScheduler) Push(a *models.Assignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.heap) >= s.capacity {
		return ErrCapacityExceeded
	}
	s.heap = append(s.heap, a)
	s.siftUp(len(s.heap) - 1)
	return nil
}

// PopMin removes and returns the assignment with the earliest due date.
func (s *AssignmentScheduler) PopMin() (*models.Assignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.heap) == 0 {
		return nil, ErrSchedulerEmpty
	}
	last := len(s.heap) - 1
	min := s.heap[0]
	s.heap[0] = s.heap[last]
	s.heap[last] = nil
	s.heap = s.heap[:last]
	if len(s.heap) > 0 {
		s.siftDown(0)
	}
	return min, nil
}

// PeekMin returns a copy of the earliest-due assignment without removing it.
func (s *AssignmentScheduler) PeekMin() (models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.heap) == 0 {
		return models.Assignment{}, ErrSchedulerEmpty
	}
	return snapshot(s.heap[0]), nil
}

// FindByID scans the heap for the assignment id.
func (s *AssignmentScheduler) FindByID(id int) (models.Assignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a := s.find(id); a != nil {
		return snapshot(a), nil
	}
	return models.Assignment{}, ErrAssignmentNotFound
}

// RecordSubmission prepends a submission. Role checks belong to the caller.
func (s *AssignmentScheduler) RecordSubmission(id, studentID int, filename string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a := s.find(id)
	if a == nil {
		return ErrAssignmentNotFound
	}
	sub := models.Submission{StudentID: studentID, Filename: filename, SubmittedAt: s.now()}
	a.Submissions = slices.Insert(a.Submissions, 0, sub)
	return nil
}

// ListSortedByDue returns every assignment ordered by due date without
// disturbing the heap. Equal due dates keep their heap-array order.
func (s *AssignmentScheduler) ListSortedByDue() []models.Assignment {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list := make([]models.Assignment, len(s.heap))
	for i, a := range s.heap {
		list[i] = snapshot(a)
	}
	slices.SortStableFunc(list, func(a, b models.Assignment) int {
		return a.DueDate - b.DueDate
	})
	return list
}

// Len returns the number of scheduled assignments.
func (s *AssignmentScheduler) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.heap)
}

// Capacity returns the maximum number of scheduled assignments.
func (s *AssignmentScheduler) Capacity() int {
	return s.capacity
}

func (s *AssignmentScheduler) find(id int) *models.Assignment {
	for _, a := range s.heap {
		if a.ID == id {
			return a
		}
	}
	return nil
}

func (s *AssignmentScheduler) siftUp(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if s.heap[parent].DueDate <= s.heap[i].DueDate {
			return
		}
		s.heap[parent], s.heap[i] = s.heap[i], s.heap[parent]
		i = parent
	}
}

func (s *AssignmentScheduler) siftDown(i int) {
	n := len(s.heap)
	for {
		smallest := i
		left, right := 2*i+1, 2*i+2
		if left < n && s.heap[left].DueDate < s.heap[smallest].DueDate {
			smallest = left
		}
		if right < n && s.heap[right].DueDate < s.heap[smallest].DueDate {
			smallest = right
		}
		if smallest == i {
			return
		}
		s.heap[i], s.heap[smallest] = s.heap[smallest], s.heap[i]
		i = smallest
	}
}

func snapshot(a *models.Assignment) models.Assignment {
	out := *a
	out.Submissions = slices.Clone(a.Submissions)
	if out.Submissions == nil {
		out.Submissions = []models.Submission{}
	}
	return out
}
