package implementation

import (
	"context"

	"learnpulse-be/internal/entity"
	"learnpulse-be/internal/mapper"
	"learnpulse-be/internal/model"
	"learnpulse-be/internal/repository/contract"
	"learnpulse-be/internal/repository/specification"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ActivityRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ActivityMapper
}

func NewActivityRepository(db *gorm.DB) contract.ActivityRepository {
	return &ActivityRepositoryImpl{
		db:     db,
		mapper: mapper.NewActivityMapper(),
	}
}

func (r *ActivityRepositoryImpl) RecordRead(ctx context.Context, activity *entity.ReadActivity) error {
	m := r.mapper.ReadActivityToModel(activity)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*activity = *r.mapper.ReadActivityToEntity(m)
	return nil
}

func (r *ActivityRepositoryImpl) CountReads(ctx context.Context, userId uuid.UUID, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).Model(&model.ReadActivity{}).Where("user_id = ?", userId)
	query = applySpecs(query, specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SaveItem is idempotent: saving an already-saved item refreshes its metadata
// instead of failing on the unique index.
func (r *ActivityRepositoryImpl) SaveItem(ctx context.Context, item *entity.SavedItem) error {
	m := r.mapper.SavedItemToModel(item)
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "item_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"title", "category"}),
	}).Create(m).Error
}

func (r *ActivityRepositoryImpl) RemoveSavedItem(ctx context.Context, userId uuid.UUID, itemId string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND item_id = ?", userId, itemId).
		Delete(&model.SavedItem{}).Error
}

func (r *ActivityRepositoryImpl) ListSavedItems(ctx context.Context, userId uuid.UUID, specs ...specification.Specification) ([]*entity.SavedItem, error) {
	var models []*model.SavedItem
	query := r.db.WithContext(ctx).Where("user_id = ?", userId).Order("created_at DESC")
	query = applySpecs(query, specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.SavedItemsToEntities(models), nil
}

func (r *ActivityRepositoryImpl) CountSavedItems(ctx context.Context, userId uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.SavedItem{}).Where("user_id = ?", userId).Count(&count).Error
	return count, err
}
