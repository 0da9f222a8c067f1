package models

import "time"

// Message is a single chat message. Messages are never edited once sent.
type Message struct {
	SenderID    int       `json:"sender_id"`
	RecipientID int       `json:"recipient_id"`
	Text        string    `json:"text"`
	SentAt      time.Time `json:"sent_at"`
	Sequence    uint64    `json:"sequence"`
}

// SendMessageRequest is the payload for sending a message to a peer.
type SendMessageRequest struct {
	Peer string `json:"peer" validate:"required"`
	Text string `json:"text" validate:"required,max=2048"`
}

// MessageView renders a message with resolved usernames.
type MessageView struct {
	From   string    `json:"from"`
	To     string    `json:"to"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// Peer is a chat neighbour of the current user.
type Peer struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
}
