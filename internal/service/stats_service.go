// FILE: internal/service/stats_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"learnpulse-be/internal/dto"
	"learnpulse-be/internal/entity"
	"learnpulse-be/internal/repository/specification"
	"learnpulse-be/internal/repository/unitofwork"
	"learnpulse-be/pkg/session"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// weeklyWindow is the trailing window for the read counter.
const weeklyWindow = 7 * 24 * time.Hour

type IStatsService interface {
	GetStats(ctx context.Context, userID string) (*dto.StatsResponse, error)
	RecordReadItem(ctx context.Context, userID string, req *dto.RecordReadRequest) error
	SaveItem(ctx context.Context, userID string, req *dto.SaveItemRequest) error
	RemoveSavedItem(ctx context.Context, userID string, itemID string) error
	ListSavedItems(ctx context.Context, userID string) ([]dto.SavedItemResponse, error)
}

type StatsService struct {
	uowFactory unitofwork.RepositoryFactory
	redis      *redis.Client
}

// NewStatsService builds the activity counter service. The redis client is
// optional; when present it mirrors the weekly counter so dashboards can read
// it without touching Postgres.
func NewStatsService(uowFactory unitofwork.RepositoryFactory, redisClient *redis.Client) *StatsService {
	return &StatsService{
		uowFactory: uowFactory,
		redis:      redisClient,
	}
}

func parseUUID(userID string) (uuid.UUID, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return uuid.Nil, errors.New("invalid user id")
	}
	return uid, nil
}

func weeklyReadKey(uid uuid.UUID) string {
	return fmt.Sprintf("stats:weekly_reads:%s", uid)
}

func (s *StatsService) GetStats(ctx context.Context, userID string) (*dto.StatsResponse, error) {
	uid, err := parseUUID(userID)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	repo := uow.ActivityRepository()

	reads, err := repo.CountReads(ctx, uid, specification.ReadSince{Since: time.Now().Add(-weeklyWindow)})
	if err != nil {
		return nil, err
	}
	saved, err := repo.CountSavedItems(ctx, uid)
	if err != nil {
		return nil, err
	}

	return &dto.StatsResponse{
		WeeklyReadCount: int(reads),
		SavedCount:      int(saved),
	}, nil
}

func (s *StatsService) RecordReadItem(ctx context.Context, userID string, req *dto.RecordReadRequest) error {
	uid, err := parseUUID(userID)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	activity := &entity.ReadActivity{
		Id:     uuid.New(),
		UserId: uid,
		ItemId: req.ItemId,
		ReadAt: time.Now(),
	}
	if err := uow.ActivityRepository().RecordRead(ctx, activity); err != nil {
		return err
	}

	// Mirror into redis; expiry matches the counting window so the mirror
	// decays on its own.
	if s.redis != nil {
		key := weeklyReadKey(uid)
		if err := s.redis.Incr(ctx, key).Err(); err == nil {
			s.redis.Expire(ctx, key, weeklyWindow)
		}
	}
	return nil
}

func (s *StatsService) SaveItem(ctx context.Context, userID string, req *dto.SaveItemRequest) error {
	uid, err := parseUUID(userID)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	item := &entity.SavedItem{
		Id:       uuid.New(),
		UserId:   uid,
		ItemId:   req.ItemId,
		Title:    req.Title,
		Category: req.Category,
	}
	return uow.ActivityRepository().SaveItem(ctx, item)
}

func (s *StatsService) RemoveSavedItem(ctx context.Context, userID string, itemID string) error {
	uid, err := parseUUID(userID)
	if err != nil {
		return err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.ActivityRepository().RemoveSavedItem(ctx, uid, itemID)
}

func (s *StatsService) ListSavedItems(ctx context.Context, userID string) ([]dto.SavedItemResponse, error) {
	uid, err := parseUUID(userID)
	if err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	items, err := uow.ActivityRepository().ListSavedItems(ctx, uid)
	if err != nil {
		return nil, err
	}

	out := make([]dto.SavedItemResponse, 0, len(items))
	for _, item := range items {
		out = append(out, dto.SavedItemResponse{
			ItemId:    item.ItemId,
			Title:     item.Title,
			Category:  item.Category,
			CreatedAt: item.CreatedAt,
		})
	}
	return out, nil
}

// session.StatsProvider implementation, used by the sync coordinator.

func (s *StatsService) Fetch(ctx context.Context, userID string) (session.Stats, error) {
	resp, err := s.GetStats(ctx, userID)
	if err != nil {
		return session.Stats{}, err
	}
	return session.Stats{
		WeeklyReadCount: resp.WeeklyReadCount,
		SavedCount:      resp.SavedCount,
	}, nil
}

// RecordRead satisfies session.StatsProvider; item attribution is unknown at
// that level so the activity row carries an empty item id.
func (s *StatsService) RecordRead(ctx context.Context, userID string) error {
	return s.RecordReadItem(ctx, userID, &dto.RecordReadRequest{})
}
