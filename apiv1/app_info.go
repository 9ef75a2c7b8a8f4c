package apiv1

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"

	"preview-api/meta"
)

// AppInfo is the public description of the application
type AppInfo struct {
	meta.BaseResource `json:",inline"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Version     string `gorm:"size:20;not null" json:"version"`
	Description string `gorm:"size:500" json:"description"`
	LogoURL     string `gorm:"size:1024" json:"logoUrl,omitempty"`
}

// TableName specifies the table name for GORM
func (AppInfo) TableName() string {
	return "app_infos"
}

// LegalType identifies a legal document
type LegalType string

const (
	LegalTerms     LegalType = "TERMS"
	LegalPrivacy   LegalType = "PRIVACY"
	LegalMarketing LegalType = "MARKETING"
)

// ParseLegalType parses a legal document type case-insensitively.
func ParseLegalType(s string) (LegalType, error) {
	switch t := LegalType(strings.ToUpper(strings.TrimSpace(s))); t {
	case LegalTerms, LegalPrivacy, LegalMarketing:
		return t, nil
	}
	return "", errors.Wrapf(BadParameterError, "invalid legal type %q", s)
}

// LegalInfo is a versioned legal document
type LegalInfo struct {
	meta.BaseResource `json:",inline"`

	Type          LegalType `gorm:"size:20;not null;index" json:"type"`
	Title         string    `gorm:"size:200;not null" json:"title"`
	Content       string    `gorm:"type:text" json:"content"`
	Version       string    `gorm:"size:20;not null" json:"version"`
	EffectiveDate time.Time `gorm:"not null" json:"effectiveDate"`
}

// TableName specifies the table name for GORM
func (LegalInfo) TableName() string {
	return "legal_infos"
}

// CompanyInfo is the operator's business information
type CompanyInfo struct {
	meta.BaseResource `json:",inline"`

	Name               string `gorm:"size:100;not null" json:"name"`
	Representative     string `gorm:"size:100" json:"representative"`
	BusinessNumber     string `gorm:"size:40" json:"businessNumber"`
	Address            string `gorm:"size:255" json:"address"`
	Email              string `gorm:"size:255" json:"email"`
	Phone              string `gorm:"size:40" json:"phone"`
	CustomerServiceURL string `gorm:"size:1024" json:"customerServiceUrl,omitempty"`
}

// TableName specifies the table name for GORM
func (CompanyInfo) TableName() string {
	return "company_infos"
}

// ServiceStatus is the operational state shown to clients
type ServiceStatus string

const (
	StatusNormal      ServiceStatus = "NORMAL"
	StatusMaintenance ServiceStatus = "MAINTENANCE"
	StatusDegraded    ServiceStatus = "DEGRADED"
	StatusOutage      ServiceStatus = "OUTAGE"
)

// ServiceStatusInfo carries the service state, notices and FAQ
type ServiceStatusInfo struct {
	meta.BaseResource `json:",inline"`

	Status             ServiceStatus     `gorm:"size:20;not null" json:"status"`
	EmergencyNotice    string            `gorm:"size:1000" json:"emergencyNotice,omitempty"`
	NoticeExpiresAt    *time.Time        `json:"noticeExpiresAt,omitempty"`
	Notices            []string          `gorm:"serializer:json" json:"notices"`
	FAQ                map[string]string `gorm:"serializer:json" json:"faq"`
	SupportedLanguages []string          `gorm:"serializer:json" json:"supportedLanguages"`
}

// TableName specifies the table name for GORM
func (ServiceStatusInfo) TableName() string {
	return "service_status_infos"
}

// ActiveEmergencyNotice returns the emergency notice unless it has expired.
func (s *ServiceStatusInfo) ActiveEmergencyNotice(now time.Time) string {
	if s.NoticeExpiresAt != nil && now.After(*s.NoticeExpiresAt) {
		return ""
	}
	return s.EmergencyNotice
}

// AppInfoView is the aggregate served by GET /app/info
type AppInfoView struct {
	App                *AppInfo      `json:"app"`
	Company            *CompanyInfo  `json:"company,omitempty"`
	Status             ServiceStatus `json:"status"`
	EmergencyNotice    string        `json:"emergencyNotice,omitempty"`
	Notices            []string      `json:"notices"`
	SupportedLanguages []string      `json:"supportedLanguages"`
	// LegalVersions maps each legal document type to its latest version
	LegalVersions map[LegalType]string `json:"legalVersions"`
}
