package chat

// ParticipantInfo is display data for one participant, captured when the
// thread is created.
type ParticipantInfo struct {
	UserID    string `json:"user_id"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url,omitempty"`
	UserType  string `json:"user_type,omitempty"`
}
