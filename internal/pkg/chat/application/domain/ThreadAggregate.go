package chat

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Domain-level errors for thread behaviors
var (
	ErrMissingField       = errors.New("chat: required field is missing")
	ErrSelfMessage        = errors.New("chat: cannot message yourself")
	ErrSubjectTooLong     = fmt.Errorf("chat: subject exceeds %d characters", MaxSubjectLength)
	ErrContentTooLong     = fmt.Errorf("chat: content exceeds %d characters", MaxContentLength)
	ErrInvalidMessageType = errors.New("chat: unknown message type")
	ErrNotParticipant     = errors.New("chat: user is not a participant in the thread")
)

// NewThread builds the canonical record for a thread opened by first.
//
// Validations:
// - id and a non-empty subject are required
// - first must already belong to the thread (ThreadID == id)
// - sender and receiver of first must be the two participants
//
// Behavior:
//   - Participants is [sender, receiver]; membership never changes afterwards.
//   - MessageCount is 1 and only the receiver has an unread message.
func NewThread(id string, subject string, sender, receiver ParticipantInfo, first Message) (Thread, error) {
	subject = strings.TrimSpace(subject)
	if id == "" || subject == "" {
		return Thread{}, fmt.Errorf("%w: id and subject", ErrMissingField)
	}
	if err := ValidateSubject(subject); err != nil {
		return Thread{}, err
	}
	if first.ThreadID != id {
		return Thread{}, fmt.Errorf("%w: first message belongs to %q", ErrMissingField, first.ThreadID)
	}
	if first.SenderID != sender.UserID || first.ReceiverID != receiver.UserID {
		return Thread{}, ErrNotParticipant
	}
	if sender.UserID == receiver.UserID {
		return Thread{}, ErrSelfMessage
	}

	t := Thread{
		ID:           id,
		Subject:      subject,
		Participants: []string{sender.UserID, receiver.UserID},
		ParticipantInfo: map[string]ParticipantInfo{
			sender.UserID:   sender,
			receiver.UserID: receiver,
		},
		UnreadCount: map[string]int{
			sender.UserID:   0,
			receiver.UserID: 0,
		},
		CreatedAt: first.Timestamp,
	}
	t.ApplyMessage(first, first.Timestamp)
	return t, nil
}

// HasParticipant tells whether userID is part of this thread.
func (t *Thread) HasParticipant(userID string) bool {
	if t == nil || userID == "" {
		return false
	}
	for _, p := range t.Participants {
		if p == userID {
			return true
		}
	}
	return false
}

// OtherParticipant returns the participant that is not userID.
func (t *Thread) OtherParticipant(userID string) (string, bool) {
	if !t.HasParticipant(userID) || len(t.Participants) != 2 {
		return "", false
	}
	if t.Participants[0] == userID {
		return t.Participants[1], true
	}
	return t.Participants[0], true
}

// ApplyMessage folds a newly appended message into the summary fields.
func (t *Thread) ApplyMessage(m Message, now time.Time) {
	t.LastMessage = snapshot(m)
	t.MessageCount++
	if t.UnreadCount == nil {
		t.UnreadCount = make(map[string]int, 2)
	}
	t.UnreadCount[m.ReceiverID]++
	t.UpdatedAt = now
}

// ResetUnread zeroes the unread counter of userID and reports whether
// anything changed. UpdatedAt is only bumped on change.
func (t *Thread) ResetUnread(userID string, now time.Time) bool {
	if t.UnreadCount[userID] == 0 {
		return false
	}
	t.UnreadCount[userID] = 0
	t.UpdatedAt = now
	return true
}

// Rederive recomputes the summary fields from the message log, which is the
// source of truth when a fan-out write was lost. Subject, membership and
// participant data are kept.
func (t Thread) Rederive(messages []Message) Thread {
	out := t.Clone()
	out.MessageCount = 0
	out.LastMessage = LastMessage{}
	out.UnreadCount = make(map[string]int, len(out.Participants))
	for _, p := range out.Participants {
		out.UnreadCount[p] = 0
	}

	var newest *Message
	for i := range messages {
		m := messages[i]
		if m.ThreadID != t.ID {
			continue
		}
		out.MessageCount++
		if !m.Read && out.HasParticipant(m.ReceiverID) {
			out.UnreadCount[m.ReceiverID]++
		}
		if newest == nil || m.Timestamp.After(newest.Timestamp) {
			newest = &messages[i]
		}
	}
	if newest != nil {
		out.LastMessage = snapshot(*newest)
		if newest.Timestamp.After(out.UpdatedAt) {
			out.UpdatedAt = newest.Timestamp
		}
	}
	return out
}

// Clone returns a deep copy so projections never share maps with the
// canonical record.
func (t Thread) Clone() Thread {
	out := t
	out.Participants = append([]string(nil), t.Participants...)
	out.ParticipantInfo = make(map[string]ParticipantInfo, len(t.ParticipantInfo))
	for k, v := range t.ParticipantInfo {
		out.ParticipantInfo[k] = v
	}
	out.UnreadCount = make(map[string]int, len(t.UnreadCount))
	for k, v := range t.UnreadCount {
		out.UnreadCount[k] = v
	}
	return out
}

// ProjectionFor returns ownerID's projection of t.
func (t Thread) ProjectionFor(ownerID string) ThreadProjection {
	return ThreadProjection{Thread: t.Clone(), OwnerID: ownerID}
}

// Projections returns one projection per participant, in participant order.
func (t Thread) Projections() []ThreadProjection {
	out := make([]ThreadProjection, 0, len(t.Participants))
	for _, p := range t.Participants {
		out = append(out, t.ProjectionFor(p))
	}
	return out
}

func snapshot(m Message) LastMessage {
	return LastMessage{
		ID:          m.ID,
		Content:     m.Content,
		SenderID:    m.SenderID,
		SenderName:  m.SenderName,
		MessageType: m.MessageType,
		Timestamp:   m.Timestamp,
	}
}
