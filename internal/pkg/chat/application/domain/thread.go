package chat

import "time"

// LastMessage is the snapshot of the newest message kept on every thread
// record so lists never read the message log.
type LastMessage struct {
	ID          string      `json:"id"`
	Content     string      `json:"content"`
	SenderID    string      `json:"sender_id"`
	SenderName  string      `json:"sender_name"`
	MessageType MessageType `json:"message_type"`
	Timestamp   time.Time   `json:"timestamp"`
}

// Thread is the canonical record of a two-party conversation.
type Thread struct {
	ID              string                     `json:"id"`
	Subject         string                     `json:"subject"`
	Participants    []string                   `json:"participants"`
	ParticipantInfo map[string]ParticipantInfo `json:"participant_info"`
	LastMessage     LastMessage                `json:"last_message"`
	MessageCount    int                        `json:"message_count"`
	UnreadCount     map[string]int             `json:"unread_count"`
	CreatedAt       time.Time                  `json:"created_at"`
	UpdatedAt       time.Time                  `json:"updated_at"`
}

// ThreadProjection is one participant's copy of the thread summary. It is
// indexed by (OwnerID, RecencyKey) for "my threads" queries.
type ThreadProjection struct {
	Thread
	OwnerID string `json:"owner_id"`
}

// RecencyKey orders projections in the owner's index, newest first.
func (p ThreadProjection) RecencyKey() time.Time {
	return p.UpdatedAt
}
