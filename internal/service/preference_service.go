// FILE: internal/service/preference_service.go
package service

import (
	"context"
	"fmt"
	"time"

	"learnpulse-be/internal/dto"
	"learnpulse-be/internal/pkg/validation"
	"learnpulse-be/pkg/category"
	"learnpulse-be/pkg/events"
	pktNats "learnpulse-be/pkg/nats"
	"learnpulse-be/pkg/prefstore"
)

type IPreferenceService interface {
	GetPreferences(ctx context.Context, userID string) (*dto.PreferencesResponse, error)
	SavePreferences(ctx context.Context, userID string, req *dto.SavePreferencesRequest) (*dto.PreferencesResponse, error)
	PatchPreferences(ctx context.Context, userID string, req *dto.PatchPreferencesRequest) (*dto.PreferencesResponse, error)
	ToggleCategory(ctx context.Context, userID string, tag string) (*dto.PreferencesResponse, error)
	AddCustomCategory(ctx context.Context, userID string, req *dto.CustomCategoryRequest) (*dto.PreferencesResponse, error)
	CompleteOnboarding(ctx context.Context, userID string) (*dto.PreferencesResponse, error)
}

type preferenceService struct {
	store          prefstore.Store
	eventPublisher *pktNats.Publisher
}

func NewPreferenceService(store prefstore.Store, eventPublisher *pktNats.Publisher) IPreferenceService {
	return &preferenceService{
		store:          store,
		eventPublisher: eventPublisher,
	}
}

func toPreferencesResponse(set *prefstore.PreferenceSet) *dto.PreferencesResponse {
	return &dto.PreferencesResponse{
		Categories:           set.Categories,
		DailyMinutes:         set.DailyMinutes,
		OnboardingCompleted:  set.OnboardingCompleted,
		NotificationsEnabled: set.NotificationsEnabled,
		NotificationTime:     set.NotificationTime,
		UpdatedAt:            set.UpdatedAt,
	}
}

// GetPreferences returns the stored document, or the defaults when the user
// has never saved anything. Missing records are not an error to the caller.
func (s *preferenceService) GetPreferences(ctx context.Context, userID string) (*dto.PreferencesResponse, error) {
	set, err := s.store.Get(ctx, userID)
	if err != nil {
		if prefstore.IsNotFound(err) {
			defaults := prefstore.Defaults()
			return toPreferencesResponse(&defaults), nil
		}
		return nil, err
	}
	return toPreferencesResponse(set), nil
}

func (s *preferenceService) SavePreferences(ctx context.Context, userID string, req *dto.SavePreferencesRequest) (*dto.PreferencesResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, &prefstore.ValidationError{Field: "body", Reason: err.Error()}
	}
	if req.DailyMinutes != nil {
		if err := category.ValidateDailyMinutes(*req.DailyMinutes); err != nil {
			return nil, &prefstore.ValidationError{Field: "daily_minutes", Reason: err.Error()}
		}
	}
	if req.NotificationTime != nil {
		if err := category.ValidateNotificationTime(*req.NotificationTime); err != nil {
			return nil, &prefstore.ValidationError{Field: "notification_time", Reason: err.Error()}
		}
	}

	set := prefstore.PreferenceSet{
		Categories:           category.Dedupe(req.Categories),
		DailyMinutes:         req.DailyMinutes,
		OnboardingCompleted:  req.OnboardingCompleted,
		NotificationsEnabled: req.NotificationsEnabled,
		NotificationTime:     req.NotificationTime,
	}

	saved, err := s.store.Save(ctx, userID, set)
	if err != nil {
		return nil, err
	}

	s.publishSaved(ctx, userID)
	return toPreferencesResponse(saved), nil
}

func (s *preferenceService) PatchPreferences(ctx context.Context, userID string, req *dto.PatchPreferencesRequest) (*dto.PreferencesResponse, error) {
	if req.DailyMinutes != nil {
		if err := category.ValidateDailyMinutes(*req.DailyMinutes); err != nil {
			return nil, &prefstore.ValidationError{Field: "daily_minutes", Reason: err.Error()}
		}
	}
	if req.NotificationTime != nil {
		if err := category.ValidateNotificationTime(*req.NotificationTime); err != nil {
			return nil, &prefstore.ValidationError{Field: "notification_time", Reason: err.Error()}
		}
	}

	patch := prefstore.Patch{
		DailyMinutes:         req.DailyMinutes,
		OnboardingCompleted:  req.OnboardingCompleted,
		NotificationsEnabled: req.NotificationsEnabled,
		NotificationTime:     req.NotificationTime,
	}
	if req.Categories != nil {
		deduped := category.Dedupe(*req.Categories)
		patch.Categories = &deduped
	}
	if patch.IsEmpty() {
		return s.GetPreferences(ctx, userID)
	}

	updated, err := s.update(ctx, userID, patch)
	if err != nil {
		return nil, err
	}

	s.publishSaved(ctx, userID)
	return toPreferencesResponse(updated), nil
}

func (s *preferenceService) ToggleCategory(ctx context.Context, userID string, tag string) (*dto.PreferencesResponse, error) {
	if category.Normalize(tag) == "" {
		return nil, &prefstore.ValidationError{Field: "category", Reason: "category cannot be empty"}
	}

	current, err := s.store.Get(ctx, userID)
	if err != nil {
		if !prefstore.IsNotFound(err) {
			return nil, err
		}
		defaults := prefstore.Defaults()
		current = &defaults
	}

	toggled := category.Toggle(current.Categories, tag)
	updated, err := s.update(ctx, userID, prefstore.Patch{Categories: &toggled})
	if err != nil {
		return nil, err
	}

	s.publishSaved(ctx, userID)
	return toPreferencesResponse(updated), nil
}

func (s *preferenceService) AddCustomCategory(ctx context.Context, userID string, req *dto.CustomCategoryRequest) (*dto.PreferencesResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, &prefstore.ValidationError{Field: "name", Reason: err.Error()}
	}

	tag, err := category.NewCustomCategory(req.Name)
	if err != nil {
		return nil, &prefstore.ValidationError{Field: "name", Reason: err.Error()}
	}

	return s.ToggleCategory(ctx, userID, tag)
}

func (s *preferenceService) CompleteOnboarding(ctx context.Context, userID string) (*dto.PreferencesResponse, error) {
	done := true
	updated, err := s.update(ctx, userID, prefstore.Patch{OnboardingCompleted: &done})
	if err != nil {
		return nil, err
	}

	s.publishSaved(ctx, userID)
	return toPreferencesResponse(updated), nil
}

// update falls back to a field-scoped upsert when the user has no stored
// document yet, so first-time writes behave like edits of the defaults.
func (s *preferenceService) update(ctx context.Context, userID string, patch prefstore.Patch) (*prefstore.PreferenceSet, error) {
	updated, err := s.store.Update(ctx, userID, patch)
	if err == nil {
		return updated, nil
	}
	if !prefstore.IsNotFound(err) {
		return nil, err
	}

	set := prefstore.Defaults()
	if patch.Categories != nil {
		set.Categories = *patch.Categories
	}
	set.DailyMinutes = patch.DailyMinutes
	if patch.OnboardingCompleted != nil {
		set.OnboardingCompleted = *patch.OnboardingCompleted
	}
	if patch.NotificationsEnabled != nil {
		set.NotificationsEnabled = *patch.NotificationsEnabled
	}
	set.NotificationTime = patch.NotificationTime

	return s.store.Save(ctx, userID, set)
}

func (s *preferenceService) publishSaved(ctx context.Context, userID string) {
	if s.eventPublisher == nil {
		return
	}
	event := events.New("PREFERENCES_SAVED", map[string]interface{}{
		"user_id": userID,
		"time":    time.Now().Format(time.RFC822),
	})
	if err := s.eventPublisher.Publish(ctx, event); err != nil {
		fmt.Printf("[WARN] Failed to publish PREFERENCES_SAVED event: %v\n", err)
	}
}
