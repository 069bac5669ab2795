package feedback

import (
	"time"

	"github.com/google/uuid"
)

// Reaction is the fixed set of stamp tags a teacher can attach to homework.
type Reaction string

const (
	ReactionClap  Reaction = "clap"
	ReactionHeart Reaction = "heart"
	ReactionStar  Reaction = "star"
	ReactionCheck Reaction = "check"
)

func (r Reaction) Valid() bool {
	switch r {
	case ReactionClap, ReactionHeart, ReactionStar, ReactionCheck:
		return true
	}
	return false
}

type Feedback struct {
	ID           uuid.UUID `json:"id" db:"id"`
	HomeworkID   uuid.UUID `json:"homework_id" db:"homework_id"`
	Content      string    `json:"content" db:"content"`
	ReactionType string    `json:"reaction_type" db:"reaction_type"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}

type CreateFeedbackRequest struct {
	Content      string `json:"content"`
	ReactionType string `json:"reaction_type"`
}
