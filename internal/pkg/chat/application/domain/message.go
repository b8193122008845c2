package chat

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// MessageType classifies a message for the receiving party.
type MessageType string

const (
	MessageTypeGeneral  MessageType = "general"
	MessageTypeInquiry  MessageType = "inquiry"
	MessageTypeBusiness MessageType = "business"
	MessageTypeUrgent   MessageType = "urgent"
)

// Field limits, counted in characters (runes).
const (
	MaxSubjectLength = 200
	MaxContentLength = 10000
)

// ParseMessageType maps a raw value to a MessageType. Empty input means general.
func ParseMessageType(s string) (MessageType, error) {
	switch MessageType(strings.ToLower(strings.TrimSpace(s))) {
	case "", MessageTypeGeneral:
		return MessageTypeGeneral, nil
	case MessageTypeInquiry:
		return MessageTypeInquiry, nil
	case MessageTypeBusiness:
		return MessageTypeBusiness, nil
	case MessageTypeUrgent:
		return MessageTypeUrgent, nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidMessageType, s)
}

// Message is an entry in a thread's append-only log. Only Read ever changes
// after creation.
type Message struct {
	ID           string      `json:"id"`
	ThreadID     string      `json:"thread_id"`
	SenderID     string      `json:"sender_id"`
	SenderName   string      `json:"sender_name"`
	ReceiverID   string      `json:"receiver_id"`
	ReceiverName string      `json:"receiver_name"`
	Subject      string      `json:"subject"`
	Content      string      `json:"content"`
	Timestamp    time.Time   `json:"timestamp"`
	Read         bool        `json:"read"`
	MessageType  MessageType `json:"message_type"`
}

// Involves reports whether userID is the sender or the receiver of m.
func (m Message) Involves(userID string) bool {
	return userID != "" && (m.SenderID == userID || m.ReceiverID == userID)
}

// NewMessage validates m and returns a copy ready to persist. Content is
// trimmed, the type defaults to general and a zero Timestamp is set to now.
func NewMessage(m Message) (*Message, error) {
	if m.ID == "" || m.ThreadID == "" {
		return nil, fmt.Errorf("%w: id and thread_id", ErrMissingField)
	}
	if m.SenderID == "" || m.ReceiverID == "" {
		return nil, fmt.Errorf("%w: sender_id and receiver_id", ErrMissingField)
	}
	if m.SenderID == m.ReceiverID {
		return nil, ErrSelfMessage
	}

	m.Content = strings.TrimSpace(m.Content)
	if m.Content == "" {
		return nil, fmt.Errorf("%w: content", ErrMissingField)
	}
	if utf8.RuneCountInString(m.Content) > MaxContentLength {
		return nil, ErrContentTooLong
	}

	m.Subject = strings.TrimSpace(m.Subject)
	if err := ValidateSubject(m.Subject); err != nil {
		return nil, err
	}

	mt, err := ParseMessageType(string(m.MessageType))
	if err != nil {
		return nil, err
	}
	m.MessageType = mt

	if m.Timestamp.IsZero() {
		m.Timestamp = time.Now().UTC()
	}
	m.Read = false

	return &m, nil
}

// ValidateSubject enforces the subject length limit. Empty subjects pass;
// callers that require one check for it themselves.
func ValidateSubject(subject string) error {
	if utf8.RuneCountInString(subject) > MaxSubjectLength {
		return ErrSubjectTooLong
	}
	return nil
}
