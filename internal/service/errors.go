package service

import "errors"

var (
	ErrRestaurantNotFound = errors.New("restaurant not found")
	ErrVotingClosed       = errors.New("voting is closed for today")
	ErrBudgetExceeded     = errors.New("max votes per day exceeded")
	ErrInvalidInput       = errors.New("invalid input")
	ErrUserNotFound       = errors.New("user not found")
	ErrDuplicateName      = errors.New("restaurant with this name already exists")
	ErrDuplicateUser      = errors.New("user with this username already exists")
	ErrInvalidCredentials = errors.New("unable to log in with provided credentials")
	ErrInvalidToken       = errors.New("invalid or expired token")
	// ErrVoteConflict 并发写同一投票记录时的保护性失败，可由调用方重试
	ErrVoteConflict = errors.New("vote conflict, retry")
)
