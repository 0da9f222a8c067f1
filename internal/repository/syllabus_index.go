package repository

import (
	"cmp"
	"errors"
	"iter"
	"slices"
	"sync"

	"github.com/noah-isme/cloud-classroom/internal/models"
)

var (
	// ErrSubjectExists is returned when creating a subject twice.
	ErrSubjectExists = errors.New("subject already exists")
	// ErrSubjectNotFound is returned for unknown subjects.
	ErrSubjectNotFound = errors.New("subject not found")
	// ErrTopicNotFound is returned for unknown topics within a subject.
	ErrTopicNotFound = errors.New("topic not found")
)

type topicNode struct {
	topic       models.Topic
	left, right *topicNode
}

// topicTree is an unbalanced binary search tree ordered by byte-wise name
// comparison. Operations cost O(depth); inserting names in sorted order
// degrades it to a list.
type topicTree struct {
	root  *topicNode
	count int
	done  int
}

func (t *topicTree) insert(name string) {
	link := &t.root
	for *link != nil {
		switch {
		case name < (*link).topic.Name:
			link = &(*link).left
		case name > (*link).topic.Name:
			link = &(*link).right
		default:
			return
		}
	}
	*link = &topicNode{topic: models.Topic{Name: name}}
	t.count++
}

func (t *topicTree) find(name string) *topicNode {
	n := t.root
	for n != nil {
		switch {
		case name < n.topic.Name:
			n = n.left
		case name > n.topic.Name:
			n = n.right
		default:
			return n
		}
	}
	return nil
}

// inOrder yields topics in ascending name order using an explicit stack.
func (t *topicTree) inOrder(yield func(models.Topic) bool) {
	var stack []*topicNode
	n := t.root
	for n != nil || len(stack) > 0 {
		for n != nil {
			stack = append(stack, n)
			n = n.left
		}
		n = stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !yield(n.topic) {
			return
		}
		n = n.right
	}
}

func (t *topicTree) percent() float64 {
	if t.count == 0 {
		return 0
	}
	return float64(t.done) / float64(t.count) * 100
}

// SyllabusIndex maps subject names to their topic trees.
type SyllabusIndex struct {
	mu       sync.RWMutex
	subjects map[string]*topicTree
}

// NewSyllabusIndex builds an empty index.
func NewSyllabusIndex() *SyllabusIndex {
	return &SyllabusIndex{subjects: make(map[string]*topicTree)}
}

// CreateSubject registers a subject with no topics.
func (s *SyllabusIndex) CreateSubject(name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.subjects[name]; ok {
		return ErrSubjectExists
	}
	s.subjects[name] = &topicTree{}
	return nil
}

// AddTopic inserts topic under subject. Adding an existing topic is a no-op.
func (s *SyllabusIndex) AddTopic(subject, topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, ok := s.subjects[subject]
	if !ok {
		return ErrSubjectNotFound
	}
	tree.insert(topic)
	return nil
}

// MarkComplete flags a topic as completed. Marking twice has no further effect.
func (s *SyllabusIndex) MarkComplete(subject, topic string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tree, ok := s.subjects[subject]
	if !ok {
		return ErrSubjectNotFound
	}
	node := tree.find(topic)
	if node == nil {
		return ErrTopicNotFound
	}
	if !node.topic.Completed {
		node.topic.Completed = true
		tree.done++
	}
	return nil
}

// Topics returns a lazy in-order sequence over the subject's topics. Each
// iteration holds the read lock for its duration and may be restarted.
// Callers must not mutate the index from inside the loop body.
func (s *SyllabusIndex) Topics(subject string) (iter.Seq[models.Topic], error) {
	s.mu.RLock()
	tree, ok := s.subjects[subject]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrSubjectNotFound
	}
	return func(yield func(models.Topic) bool) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		tree.inOrder(yield)
	}, nil
}

// ListTopics collects Topics into a slice.
func (s *SyllabusIndex) ListTopics(subject string) ([]models.Topic, error) {
	seq, err := s.Topics(subject)
	if err != nil {
		return nil, err
	}
	topics := make([]models.Topic, 0)
	for t := range seq {
		topics = append(topics, t)
	}
	return topics, nil
}

// CompletionPercent returns completed/total*100, or 0 for an empty subject.
func (s *SyllabusIndex) CompletionPercent(subject string) (float64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	tree, ok := s.subjects[subject]
	if !ok {
		return 0, ErrSubjectNotFound
	}
	return tree.percent(), nil
}

// Subjects returns subject names sorted ascending.
func (s *SyllabusIndex) Subjects() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.subjects))
	for name := range s.subjects {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Report summarises completion for every subject, sorted by name.
func (s *SyllabusIndex) Report() []models.SubjectCompletion {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report := make([]models.SubjectCompletion, 0, len(s.subjects))
	for name, tree := range s.subjects {
		report = append(report, models.SubjectCompletion{
			Subject:   name,
			Total:     tree.count,
			Completed: tree.done,
			Percent:   tree.percent(),
		})
	}
	slices.SortFunc(report, func(a, b models.SubjectCompletion) int {
		return cmp.Compare(a.Subject, b.Subject)
	})
	return report
}
