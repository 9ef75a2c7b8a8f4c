package apiv1

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"

	"preview-api/meta"
)

// Option is a selectable enum value with its display names
type Option struct {
	Value         string `json:"value"`
	DisplayName   string `json:"displayName"`
	DisplayNameEn string `json:"displayNameEn"`
}

type (
	InterviewType     string
	JobRole           string
	InterviewerStyle  string
	Difficulty        string
	ExperienceLevel   string
	InterviewDuration string
	InterviewMode     string
	InterviewLanguage string
)

const (
	TypeDevelopment     InterviewType = "DEVELOPMENT"
	TypeDesign          InterviewType = "DESIGN"
	TypeMarketing       InterviewType = "MARKETING"
	TypeBusiness        InterviewType = "BUSINESS"
	TypeSales           InterviewType = "SALES"
	TypeCustomerService InterviewType = "CUSTOMER_SERVICE"
	TypeMedia           InterviewType = "MEDIA"
	TypeEducation       InterviewType = "EDUCATION"
	TypeLogistics       InterviewType = "LOGISTICS"
)

const (
	RoleFrontendDeveloper   JobRole = "FRONTEND_DEVELOPER"
	RoleBackendDeveloper    JobRole = "BACKEND_DEVELOPER"
	RoleFullstackDeveloper  JobRole = "FULLSTACK_DEVELOPER"
	RoleMobileDeveloper     JobRole = "MOBILE_DEVELOPER"
	RoleDevopsDeveloper     JobRole = "DEVOPS_DEVELOPER"
	RoleDataScientist       JobRole = "DATA_SCIENTIST"
	RoleAIEngineer          JobRole = "AI_ENGINEER"
	RoleSecurityEngineer    JobRole = "SECURITY_ENGINEER"
	RoleQAEngineer          JobRole = "QA_ENGINEER"
	RoleUIUXDesigner        JobRole = "UI_UX_DESIGNER"
	RoleGraphicDesigner     JobRole = "GRAPHIC_DESIGNER"
	RoleProductDesigner     JobRole = "PRODUCT_DESIGNER"
	RoleBrandDesigner       JobRole = "BRAND_DESIGNER"
	RoleDigitalMarketer     JobRole = "DIGITAL_MARKETER"
	RoleContentMarketer     JobRole = "CONTENT_MARKETER"
	RoleBrandMarketer       JobRole = "BRAND_MARKETER"
	RoleGrowthHacker        JobRole = "GROWTH_HACKER"
	RoleHRManager           JobRole = "HR_MANAGER"
	RoleFinanceManager      JobRole = "FINANCE_MANAGER"
	RoleBusinessDevelopment JobRole = "BUSINESS_DEVELOPMENT"
	RoleProjectManager      JobRole = "PROJECT_MANAGER"
)

const (
	StyleFriendly    InterviewerStyle = "FRIENDLY"
	StyleTechnical   InterviewerStyle = "TECHNICAL"
	StyleChallenging InterviewerStyle = "CHALLENGING"
)

const (
	DifficultyBeginner     Difficulty = "BEGINNER"
	DifficultyIntermediate Difficulty = "INTERMEDIATE"
	DifficultyAdvanced     Difficulty = "ADVANCED"
	DifficultyExpert       Difficulty = "EXPERT"
)

const (
	ExperienceEntry     ExperienceLevel = "ENTRY"
	ExperienceJunior    ExperienceLevel = "JUNIOR"
	ExperienceMidLevel  ExperienceLevel = "MID_LEVEL"
	ExperienceSenior    ExperienceLevel = "SENIOR"
	ExperienceExecutive ExperienceLevel = "EXECUTIVE"
)

const (
	DurationShort    InterviewDuration = "SHORT"
	DurationMedium   InterviewDuration = "MEDIUM"
	DurationLong     InterviewDuration = "LONG"
	DurationExtended InterviewDuration = "EXTENDED"
)

const (
	ModeText  InterviewMode = "TEXT"
	ModeVoice InterviewMode = "VOICE"
)

const (
	LanguageKO InterviewLanguage = "KO"
	LanguageEN InterviewLanguage = "EN"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-3.5-turbo"

var InterviewTypes = []Option{
	{"DEVELOPMENT", "개발", "Development"},
	{"DESIGN", "디자인", "Design"},
	{"MARKETING", "마케팅", "Marketing"},
	{"BUSINESS", "경영지원", "Business Support"},
	{"SALES", "영업/세일즈", "Sales"},
	{"CUSTOMER_SERVICE", "고객 지원", "Customer Service"},
	{"MEDIA", "미디어/콘텐츠", "Media & Content"},
	{"EDUCATION", "교육", "Education"},
	{"LOGISTICS", "물류/유통", "Logistics"},
}

var JobRoles = []Option{
	{"FRONTEND_DEVELOPER", "프론트엔드 개발자", "Frontend Developer"},
	{"BACKEND_DEVELOPER", "백엔드 개발자", "Backend Developer"},
	{"FULLSTACK_DEVELOPER", "풀스택 개발자", "Fullstack Developer"},
	{"MOBILE_DEVELOPER", "모바일 개발자", "Mobile Developer"},
	{"DEVOPS_DEVELOPER", "DevOps 엔지니어", "DevOps Engineer"},
	{"DATA_SCIENTIST", "데이터 사이언티스트", "Data Scientist"},
	{"AI_ENGINEER", "AI/ML 엔지니어", "AI/ML Engineer"},
	{"SECURITY_ENGINEER", "보안 엔지니어", "Security Engineer"},
	{"QA_ENGINEER", "QA 엔지니어", "QA Engineer"},
	{"UI_UX_DESIGNER", "UI/UX 디자이너", "UI/UX Designer"},
	{"GRAPHIC_DESIGNER", "그래픽 디자이너", "Graphic Designer"},
	{"PRODUCT_DESIGNER", "제품 디자이너", "Product Designer"},
	{"BRAND_DESIGNER", "브랜드 디자이너", "Brand Designer"},
	{"DIGITAL_MARKETER", "디지털 마케터", "Digital Marketer"},
	{"CONTENT_MARKETER", "콘텐츠 마케터", "Content Marketer"},
	{"BRAND_MARKETER", "브랜드 마케터", "Brand Marketer"},
	{"GROWTH_HACKER", "그로스 해커", "Growth Hacker"},
	{"HR_MANAGER", "인사 담당자", "HR Manager"},
	{"FINANCE_MANAGER", "재무 담당자", "Finance Manager"},
	{"BUSINESS_DEVELOPMENT", "사업 개발자", "Business Developer"},
	{"PROJECT_MANAGER", "프로젝트 관리자", "Project Manager"},
}

var InterviewerStyles = []Option{
	{"FRIENDLY", "친근한 면접관", "Friendly"},
	{"TECHNICAL", "기술 중심 면접관", "Technical"},
	{"CHALLENGING", "도전적인 면접관", "Challenging"},
}

var Difficulties = []Option{
	{"BEGINNER", "초급", "Beginner"},
	{"INTERMEDIATE", "중급", "Intermediate"},
	{"ADVANCED", "고급", "Advanced"},
	{"EXPERT", "전문가", "Expert"},
}

var ExperienceLevels = []Option{
	{"ENTRY", "신입", "Entry Level"},
	{"JUNIOR", "주니어 (1-3년)", "Junior (1-3 years)"},
	{"MID_LEVEL", "미드레벨 (4-7년)", "Mid-Level (4-7 years)"},
	{"SENIOR", "시니어 (8년 이상)", "Senior (8+ years)"},
	{"EXECUTIVE", "임원급", "Executive"},
}

var InterviewDurations = []Option{
	{"SHORT", "15분 (짧은 면접)", "15 minutes"},
	{"MEDIUM", "30분 (일반 면접)", "30 minutes"},
	{"LONG", "45분 (심층 면접)", "45 minutes"},
	{"EXTENDED", "60분 (확장 면접)", "60 minutes"},
}

var InterviewModes = []Option{
	{"TEXT", "텍스트 기반 면접", "Text"},
	{"VOICE", "음성 기반 면접", "Voice"},
}

var InterviewLanguages = []Option{
	{"KO", "한국어", "Korean"},
	{"EN", "영어", "English"},
}

func findOption(options []Option, value string) (Option, bool) {
	for _, o := range options {
		if o.Value == value {
			return o, true
		}
	}
	return Option{}, false
}

func parseOption(kind string, options []Option, value string) (string, error) {
	v := strings.ToUpper(strings.TrimSpace(value))
	if _, ok := findOption(options, v); !ok {
		return "", errors.Wrapf(BadParameterError, "invalid %s %q", kind, value)
	}
	return v, nil
}

// DisplayNameEn returns the English label of the option value, or the raw value.
func DisplayNameEn(options []Option, value string) string {
	if o, ok := findOption(options, value); ok {
		return o.DisplayNameEn
	}
	return value
}

// Minutes returns the length of the interview.
func (d InterviewDuration) Minutes() int {
	switch d {
	case DurationShort:
		return 15
	case DurationLong:
		return 45
	case DurationExtended:
		return 60
	default:
		return 30
	}
}

// InterviewSettings configures an interview and the prompt built for it
type InterviewSettings struct {
	Type             InterviewType     `json:"type" gorm:"column:interview_type;size:40"`
	JobRole          JobRole           `json:"jobRole" gorm:"size:40"`
	InterviewerStyle InterviewerStyle  `json:"interviewerStyle" gorm:"size:20"`
	Difficulty       Difficulty        `json:"difficulty" gorm:"size:20"`
	ExperienceLevel  ExperienceLevel   `json:"experienceLevel" gorm:"size:20"`
	Duration         InterviewDuration `json:"duration" gorm:"size:20"`
	Mode             InterviewMode     `json:"interviewMode" gorm:"size:20"`
	Language         InterviewLanguage `json:"language" gorm:"size:5"`
	Model            string            `json:"model,omitempty" gorm:"size:50"`
	TechnicalSkills  []string          `json:"technicalSkills,omitempty" gorm:"serializer:json"`
}

// DefaultInterviewSettings returns the settings used when a client sends none.
func DefaultInterviewSettings() InterviewSettings {
	return InterviewSettings{
		Type:             TypeDevelopment,
		JobRole:          RoleBackendDeveloper,
		InterviewerStyle: StyleFriendly,
		Difficulty:       DifficultyIntermediate,
		ExperienceLevel:  ExperienceMidLevel,
		Duration:         DurationMedium,
		Mode:             ModeText,
		Language:         LanguageKO,
		Model:            DefaultModel,
	}
}

// Normalize fills unset fields with defaults and validates the rest.
func (s *InterviewSettings) Normalize() error {
	def := DefaultInterviewSettings()
	fields := []struct {
		kind    string
		options []Option
		value   *string
		def     string
	}{
		{"interview type", InterviewTypes, (*string)(&s.Type), string(def.Type)},
		{"job role", JobRoles, (*string)(&s.JobRole), string(def.JobRole)},
		{"interviewer style", InterviewerStyles, (*string)(&s.InterviewerStyle), string(def.InterviewerStyle)},
		{"difficulty", Difficulties, (*string)(&s.Difficulty), string(def.Difficulty)},
		{"experience level", ExperienceLevels, (*string)(&s.ExperienceLevel), string(def.ExperienceLevel)},
		{"duration", InterviewDurations, (*string)(&s.Duration), string(def.Duration)},
		{"interview mode", InterviewModes, (*string)(&s.Mode), string(def.Mode)},
		{"language", InterviewLanguages, (*string)(&s.Language), string(def.Language)},
	}
	for _, f := range fields {
		if *f.value == "" {
			*f.value = f.def
			continue
		}
		v, err := parseOption(f.kind, f.options, *f.value)
		if err != nil {
			return err
		}
		*f.value = v
	}
	return nil
}

// InterviewSession is one practice interview run by a user
type InterviewSession struct {
	meta.BaseResource `json:",inline"`

	SessionID string     `gorm:"size:36;not null;uniqueIndex" json:"sessionId"`
	UserID    uint       `gorm:"not null;index" json:"userId"`
	StartedAt time.Time  `gorm:"not null" json:"startedAt"`
	EndedAt   *time.Time `json:"endedAt,omitempty"`
	Prompt    string     `gorm:"type:text" json:"prompt,omitempty"`

	InterviewSettings `gorm:"embedded" json:",inline"`
}

// TableName specifies the table name for GORM
func (InterviewSession) TableName() string {
	return "interview_sessions"
}

// NewInterviewSession starts a session for user with the given settings and prompt.
func NewInterviewSession(userID uint, settings InterviewSettings, prompt string) *InterviewSession {
	return &InterviewSession{
		SessionID:         uuid.NewString(),
		UserID:            userID,
		StartedAt:         time.Now(),
		Prompt:            prompt,
		InterviewSettings: settings,
	}
}

// End closes the session; ending an ended session changes nothing.
func (s *InterviewSession) End(now time.Time) {
	if s.EndedAt != nil {
		return
	}
	s.EndedAt = &now
}

// IsCompleted reports whether the session has been ended.
func (s *InterviewSession) IsCompleted() bool {
	return s.EndedAt != nil
}

// DurationMinutes is the elapsed time of a completed session, or 0.
func (s *InterviewSession) DurationMinutes() int {
	if s.EndedAt == nil {
		return 0
	}
	return int(s.EndedAt.Sub(s.StartedAt).Minutes())
}

// ChatMessage is one turn of an interview conversation
type ChatMessage struct {
	Role    string `json:"role" binding:"required,oneof=system user assistant"`
	Content string `json:"content"`
}

// InterviewMetadata lists every selectable interview option
type InterviewMetadata struct {
	InterviewTypes     []Option `json:"interviewTypes"`
	JobRoles           []Option `json:"jobRoles"`
	InterviewerStyles  []Option `json:"interviewerStyles"`
	Difficulties       []Option `json:"difficulties"`
	ExperienceLevels   []Option `json:"experienceLevels"`
	Durations          []Option `json:"durations"`
	InterviewModes     []Option `json:"interviewModes"`
	InterviewLanguages []Option `json:"languages"`
}

// Metadata returns the interview option lists.
func Metadata() InterviewMetadata {
	return InterviewMetadata{
		InterviewTypes:     InterviewTypes,
		JobRoles:           JobRoles,
		InterviewerStyles:  InterviewerStyles,
		Difficulties:       Difficulties,
		ExperienceLevels:   ExperienceLevels,
		Durations:          InterviewDurations,
		InterviewModes:     InterviewModes,
		InterviewLanguages: InterviewLanguages,
	}
}
