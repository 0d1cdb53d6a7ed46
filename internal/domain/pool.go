package domain

import "time"

// CodeLength is the number of characters in a pool join code
const CodeLength = 6

// Pool is a prediction contest joined by code
type Pool struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Code      string    `json:"code"`
	OwnerID   *string   `json:"ownerId"`
	CreatedAt time.Time `json:"createdAt"`
}

// HasOwner reports whether ownership has been claimed
func (p *Pool) HasOwner() bool {
	return p.OwnerID != nil && *p.OwnerID != ""
}

// PoolOwner is the display info of a pool owner
type PoolOwner struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ParticipantPreview is one of the sample participants shown with a pool
type ParticipantPreview struct {
	ID        string  `json:"id"`
	AvatarURL *string `json:"avatarUrl"`
}

// PoolSummary is the listing/detail shape of a pool
type PoolSummary struct {
	Pool
	ParticipantCount int                  `json:"participantCount"`
	Owner            *PoolOwner           `json:"owner"`
	Participants     []ParticipantPreview `json:"participants"`
}

// MaxParticipantPreviews caps PoolSummary.Participants
const MaxParticipantPreviews = 4

// CreatePoolRequest is the body of POST /polls
type CreatePoolRequest struct {
	Title string `json:"title" validate:"required,max=120"`
}

// CreatePoolResponse returns the generated join code
type CreatePoolResponse struct {
	Code string `json:"code"`
}

// JoinPoolRequest is the body of POST /polls/join
type JoinPoolRequest struct {
	Code string `json:"code" validate:"required"`
}
