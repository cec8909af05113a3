package mapper

import (
	"learnpulse-be/internal/entity"
	"learnpulse-be/internal/model"
)

type ActivityMapper struct{}

func NewActivityMapper() *ActivityMapper {
	return &ActivityMapper{}
}

func (m *ActivityMapper) ReadActivityToEntity(a *model.ReadActivity) *entity.ReadActivity {
	if a == nil {
		return nil
	}
	return &entity.ReadActivity{
		Id:        a.Id,
		UserId:    a.UserId,
		ItemId:    a.ItemId,
		ReadAt:    a.ReadAt,
		CreatedAt: a.CreatedAt,
	}
}

func (m *ActivityMapper) ReadActivityToModel(a *entity.ReadActivity) *model.ReadActivity {
	if a == nil {
		return nil
	}
	return &model.ReadActivity{
		Id:        a.Id,
		UserId:    a.UserId,
		ItemId:    a.ItemId,
		ReadAt:    a.ReadAt,
		CreatedAt: a.CreatedAt,
	}
}

func (m *ActivityMapper) SavedItemToEntity(s *model.SavedItem) *entity.SavedItem {
	if s == nil {
		return nil
	}
	return &entity.SavedItem{
		Id:        s.Id,
		UserId:    s.UserId,
		ItemId:    s.ItemId,
		Title:     s.Title,
		Category:  s.Category,
		CreatedAt: s.CreatedAt,
	}
}

func (m *ActivityMapper) SavedItemToModel(s *entity.SavedItem) *model.SavedItem {
	if s == nil {
		return nil
	}
	return &model.SavedItem{
		Id:        s.Id,
		UserId:    s.UserId,
		ItemId:    s.ItemId,
		Title:     s.Title,
		Category:  s.Category,
		CreatedAt: s.CreatedAt,
	}
}

func (m *ActivityMapper) SavedItemsToEntities(items []*model.SavedItem) []*entity.SavedItem {
	entities := make([]*entity.SavedItem, len(items))
	for i, s := range items {
		entities[i] = m.SavedItemToEntity(s)
	}
	return entities
}
