package interfaces

import (
	"context"

	"LunchVoter/internal/model"
)

// WinnerPublisher 在获胜记录落库后对外广播
type WinnerPublisher interface {
	PublishWinners(ctx context.Context, day string, records []*model.WinnerRecord) error
}
