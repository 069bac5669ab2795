package errvalues

import "errors"

var (
	ErrGroupNotFound    = errors.New("group doesn't exist")
	ErrWrongPassword    = errors.New("wrong group password")
	ErrGroupFull        = errors.New("group member limit reached")
	ErrHomeworkNotFound = errors.New("homework doesn't exist")
	ErrNotToday         = errors.New("only today's record can be changed")
	ErrEmptyFeedback    = errors.New("feedback needs content or a reaction")
	ErrInvalidReaction  = errors.New("unknown reaction type")
	ErrOrderNotFound    = errors.New("order doesn't exist")
	ErrOrderNotPaid     = errors.New("order hasn't been paid")
	ErrStorageDisabled  = errors.New("photo storage is not configured")
)
