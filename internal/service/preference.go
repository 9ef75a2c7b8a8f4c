package service

import (
	"context"
	"log/slog"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"preview-api/apiv1"
	"preview-api/internal"
)

// PreferenceUpdate carries the basic settings a user may change. Nil fields
// are left untouched.
type PreferenceUpdate struct {
	Theme         *string `json:"theme" binding:"omitempty,oneof=light dark system"`
	Language      *string `json:"language" binding:"omitempty,oneof=ko en"`
	Notifications *bool   `json:"notifications"`
	AutoSave      *bool   `json:"autoSave"`
}

// PreferenceService stores per-user client settings
type PreferenceService struct {
	prefs  *internal.DAO[apiv1.UserPreference]
	logger *slog.Logger
}

func NewPreferenceService(db *gorm.DB, logger *slog.Logger) *PreferenceService {
	return &PreferenceService{prefs: internal.NewDAO[apiv1.UserPreference](db), logger: logger}
}

func (s *PreferenceService) load(ctx context.Context, userID uint) (*apiv1.UserPreference, bool, error) {
	pref, err := s.prefs.First(ctx, internal.Where("user_id = ?", userID))
	if errors.Is(err, apiv1.NotFoundError) {
		return apiv1.DefaultUserPreference(userID), false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return pref, true, nil
}

func (s *PreferenceService) store(ctx context.Context, pref *apiv1.UserPreference, exists bool) error {
	if exists {
		return s.prefs.Save(ctx, pref)
	}
	return s.prefs.Create(ctx, pref)
}

// Get returns the user's settings, or the defaults when none were saved.
func (s *PreferenceService) Get(ctx context.Context, userID uint) (*apiv1.UserPreference, error) {
	pref, _, err := s.load(ctx, userID)
	return pref, err
}

// Update applies the non-nil fields of upd and stores the result.
func (s *PreferenceService) Update(ctx context.Context, userID uint, upd PreferenceUpdate) (*apiv1.UserPreference, error) {
	pref, exists, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if upd.Theme != nil {
		pref.Theme = *upd.Theme
	}
	if upd.Language != nil {
		pref.Language = *upd.Language
	}
	if upd.Notifications != nil {
		pref.Notifications = *upd.Notifications
	}
	if upd.AutoSave != nil {
		pref.AutoSave = *upd.AutoSave
	}
	if err := s.store(ctx, pref, exists); err != nil {
		return nil, errors.Wrap(err, "save preferences")
	}
	return pref, nil
}

// Advanced returns the user's advanced settings map.
func (s *PreferenceService) Advanced(ctx context.Context, userID uint) (map[string]any, error) {
	pref, _, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref.Advanced == nil {
		return map[string]any{}, nil
	}
	return pref.Advanced, nil
}

// UpdateAdvanced merges values into the advanced settings. A nil value removes the key.
func (s *PreferenceService) UpdateAdvanced(ctx context.Context, userID uint, values map[string]any) (map[string]any, error) {
	pref, exists, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref.Advanced == nil {
		pref.Advanced = map[string]any{}
	}
	for k, v := range values {
		if v == nil {
			delete(pref.Advanced, k)
			continue
		}
		pref.Advanced[k] = v
	}
	if err := s.store(ctx, pref, exists); err != nil {
		return nil, errors.Wrap(err, "save advanced preferences")
	}
	s.logger.InfoContext(ctx, "advanced preferences updated",
		slog.Uint64("user_id", uint64(userID)),
		slog.Int("keys", len(values)))
	return pref.Advanced, nil
}
