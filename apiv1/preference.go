package apiv1

import (
	"preview-api/meta"
)

// UserPreference stores per-user client settings
type UserPreference struct {
	meta.BaseResource `json:",inline"`

	UserID        uint   `gorm:"not null;uniqueIndex" json:"-"`
	Theme         string `gorm:"size:20;not null" json:"theme" binding:"omitempty,oneof=light dark system"`
	Language      string `gorm:"size:5;not null" json:"language" binding:"omitempty,oneof=ko en"`
	Notifications bool   `gorm:"not null" json:"notifications"`
	AutoSave      bool   `gorm:"not null" json:"autoSave"`

	// Advanced holds free-form settings only PRO users may change
	Advanced map[string]any `gorm:"serializer:json" json:"advanced,omitempty"`
}

// TableName specifies the table name for GORM
func (UserPreference) TableName() string {
	return "user_preferences"
}

// DefaultUserPreference returns the preferences of a user who never saved any.
func DefaultUserPreference(userID uint) *UserPreference {
	return &UserPreference{
		UserID:        userID,
		Theme:         "dark",
		Language:      "ko",
		Notifications: true,
		AutoSave:      true,
		Advanced: map[string]any{
			"apiIntegrations": false,
			"customWebhooks":  false,
		},
	}
}
