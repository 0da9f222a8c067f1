package repository

import (
	"errors"
	"slices"
	"sync"
	"time"

	"github.com/noah-isme/cloud-classroom/internal/models"
)

// ErrInvalidPeer is returned when a message names a non-positive user id.
var ErrInvalidPeer = errors.New("invalid chat peer")

// chatVertex holds a user's neighbours and, per neighbour, the messages
// that neighbour has sent to this user.
type chatVertex struct {
	inbox map[int][]models.Message
}

// ChatGraph is an undirected adjacency graph between users with a FIFO
// message queue on each directed edge. Messages are stored on the
// recipient's side, so a viewer only ever reads what peers sent to them.
type ChatGraph struct {
	mu       sync.RWMutex
	vertices map[int]*chatVertex
	seq      uint64
	now      func() time.Time
}

// NewChatGraph builds an empty graph.
func NewChatGraph() *ChatGraph {
	return &ChatGraph{vertices: make(map[int]*chatVertex), now: time.Now}
}

// WithClock overrides the timestamp source for sent messages.
func (g *ChatGraph) WithClock(now func() time.Time) *ChatGraph {
	if now != nil {
		g.now = now
	}
	return g
}

func (g *ChatGraph) vertex(id int) *chatVertex {
	v, ok := g.vertices[id]
	if !ok {
		v = &chatVertex{inbox: make(map[int][]models.Message)}
		g.vertices[id] = v
	}
	return v
}

func (g *ChatGraph) ensureEdge(a, b int) {
	va := g.vertex(a)
	if _, ok := va.inbox[b]; !ok {
		va.inbox[b] = nil
	}
	vb := g.vertex(b)
	if _, ok := vb.inbox[a]; !ok {
		vb.inbox[a] = nil
	}
}

// EnsureEdge links a and b in both directions. Non-positive ids are ignored.
func (g *ChatGraph) EnsureEdge(a, b int) {
	if a <= 0 || b <= 0 {
		return
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	g.ensureEdge(a, b)
}

// Send appends text to the queue `to` keeps for messages from `from`.
func (g *ChatGraph) Send(from, to int, text string) (models.Message, error) {
	if from <= 0 || to <= 0 {
		return models.Message{}, ErrInvalidPeer
	}
	g.mu.Lock()
	defer g.mu.Unlock()

	g.ensureEdge(from, to)
	g.seq++
	msg := models.Message{
		SenderID:    from,
		RecipientID: to,
		Text:        text,
		SentAt:      g.now(),
		Sequence:    g.seq,
	}
	recipient := g.vertices[to]
	recipient.inbox[from] = append(recipient.inbox[from], msg)
	return msg, nil
}

// MessagesBetween returns what peer has sent to viewer, oldest first.
// Messages viewer sent to peer are not included.
func (g *ChatGraph) MessagesBetween(viewer, peer int) []models.Message {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.vertices[viewer]
	if !ok {
		return []models.Message{}
	}
	return slices.Clone(v.inbox[peer])
}

// Conversation merges both directions between a and b in send order.
// A self-chat has a single queue.
func (g *ChatGraph) Conversation(a, b int) []models.Message {
	g.mu.RLock()
	defer g.mu.RUnlock()

	if a == b {
		v, ok := g.vertices[a]
		if !ok {
			return []models.Message{}
		}
		return slices.Clone(v.inbox[a])
	}

	var fromB, fromA []models.Message
	if v, ok := g.vertices[a]; ok {
		fromB = v.inbox[b]
	}
	if v, ok := g.vertices[b]; ok {
		fromA = v.inbox[a]
	}

	merged := make([]models.Message, 0, len(fromA)+len(fromB))
	i, j := 0, 0
	for i < len(fromA) && j < len(fromB) {
		if fromA[i].Sequence < fromB[j].Sequence {
			merged = append(merged, fromA[i])
			i++
		} else {
			merged = append(merged, fromB[j])
			j++
		}
	}
	merged = append(merged, fromA[i:]...)
	merged = append(merged, fromB[j:]...)
	return merged
}

// PeersOf returns the ids adjacent to user in ascending order.
func (g *ChatGraph) PeersOf(user int) []int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	v, ok := g.vertices[user]
	if !ok {
		return []int{}
	}
	peers := make([]int, 0, len(v.inbox))
	for id := range v.inbox {
		peers = append(peers, id)
	}
	slices.Sort(peers)
	return peers
}
