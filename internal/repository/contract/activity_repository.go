package contract

import (
	"context"

	"learnpulse-be/internal/entity"
	"learnpulse-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ActivityRepository tracks reading history and bookmarks that back the
// user's stats counters.
type ActivityRepository interface {
	RecordRead(ctx context.Context, activity *entity.ReadActivity) error
	CountReads(ctx context.Context, userId uuid.UUID, specs ...specification.Specification) (int64, error)

	SaveItem(ctx context.Context, item *entity.SavedItem) error
	RemoveSavedItem(ctx context.Context, userId uuid.UUID, itemId string) error
	ListSavedItems(ctx context.Context, userId uuid.UUID, specs ...specification.Specification) ([]*entity.SavedItem, error)
	CountSavedItems(ctx context.Context, userId uuid.UUID) (int64, error)
}
