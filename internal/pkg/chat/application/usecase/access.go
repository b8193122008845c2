package usecase

import (
	"context"
	"errors"
	"log"

	chat "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/application/domain"
	repository "github.com/iwoork/homeforpup-sub008/internal/pkg/chat/persistence/repository/port"
	"github.com/iwoork/homeforpup-sub008/internal/pkg/identity"
)

// authorizeThread loads the caller's projection of threadID. A missing
// projection and a projection that does not list the caller both come back
// as ErrAccessDenied.
func authorizeThread(ctx context.Context, threads repository.ThreadStore, threadID, callerID string) (*chat.ThreadProjection, error) {
	if callerID == "" {
		return nil, ErrAccessDenied
	}
	if threadID == "" {
		return nil, invalid("thread_id is required")
	}
	p, err := threads.GetProjection(ctx, threadID, callerID)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrAccessDenied
	}
	if err != nil {
		return nil, persistence(err)
	}
	if (p.OwnerID != "" && p.OwnerID != callerID) || !p.HasParticipant(callerID) {
		log.Printf("messaging: projection %s/%s does not list its owner as participant", threadID, callerID)
		return nil, ErrAccessDenied
	}
	return p, nil
}

// resolveParticipant never fails: directory outages degrade to the
// placeholder name.
func resolveParticipant(ctx context.Context, r identity.Resolver, userID string) chat.ParticipantInfo {
	var p identity.Profile
	if r == nil {
		p = identity.Placeholder(userID)
	} else {
		var err error
		p, err = r.Resolve(ctx, userID)
		if err != nil {
			log.Printf("messaging: resolve %s: %v", userID, err)
			p = identity.Placeholder(userID)
		}
	}
	return chat.ParticipantInfo{
		UserID:    userID,
		Name:      p.DisplayName,
		AvatarURL: p.AvatarURL,
		UserType:  p.UserType,
	}
}

func participantName(t chat.Thread, userID string) string {
	if info, ok := t.ParticipantInfo[userID]; ok && info.Name != "" {
		return info.Name
	}
	return identity.Placeholder(userID).DisplayName
}
