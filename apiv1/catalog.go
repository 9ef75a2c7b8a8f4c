package apiv1

import (
	"strings"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"preview-api/meta"
)

// JobField is a top-level job category such as development or design
type JobField struct {
	meta.BaseResource `json:",inline"`

	Code          string        `gorm:"size:40;not null;uniqueIndex" json:"code" binding:"required"`
	Name          string        `gorm:"size:100;not null" json:"name" binding:"required"`
	NameEn        string        `gorm:"size:100" json:"nameEn"`
	Description   string        `gorm:"size:500" json:"description"`
	DescriptionEn string        `gorm:"size:500" json:"descriptionEn"`
	Icon          string        `gorm:"size:100" json:"icon"`
	Active        bool          `gorm:"not null;default:true" json:"active"`
	SortOrder     int           `gorm:"not null;default:0" json:"sortOrder"`
	Positions     []JobPosition `gorm:"foreignKey:JobFieldID" json:"positions,omitempty"`
}

// TableName specifies the table name for GORM
func (JobField) TableName() string {
	return "job_fields"
}

// Validate implements meta.ResourceValidator
func (f *JobField) Validate() error {
	if strings.TrimSpace(f.Code) == "" || strings.TrimSpace(f.Name) == "" {
		return errors.Wrap(BadParameterError, "job field code and name are required")
	}
	return nil
}

// JobPosition is a concrete role within a job field
type JobPosition struct {
	meta.BaseResource `json:",inline"`

	JobFieldID  uint               `gorm:"not null;index" json:"jobFieldId" binding:"required"`
	Role        JobRole            `gorm:"size:40;not null" json:"role" binding:"required"`
	Title       string             `gorm:"size:100;not null" json:"title" binding:"required"`
	TitleEn     string             `gorm:"size:100" json:"titleEn"`
	Description string             `gorm:"size:500" json:"description"`
	Icon        string             `gorm:"size:100" json:"icon"`
	Active      bool               `gorm:"not null;default:true" json:"active"`
	SortOrder   int                `gorm:"not null;default:0" json:"sortOrder"`
	Skills      []JobPositionSkill `gorm:"foreignKey:JobPositionID" json:"skills,omitempty"`
}

// TableName specifies the table name for GORM
func (JobPosition) TableName() string {
	return "job_positions"
}

// Validate implements meta.ResourceValidator
func (p *JobPosition) Validate() error {
	if _, err := parseOption("job role", JobRoles, string(p.Role)); err != nil {
		return err
	}
	if strings.TrimSpace(p.Title) == "" {
		return errors.Wrap(BadParameterError, "position title is required")
	}
	return nil
}

// Skill is a technical or domain skill that can be asked about
type Skill struct {
	meta.BaseResource `json:",inline"`

	Name           string  `gorm:"size:100;not null;uniqueIndex" json:"name" binding:"required"`
	NameEn         string  `gorm:"size:100" json:"nameEn"`
	Icon           string  `gorm:"size:100" json:"icon"`
	PrimaryJobRole JobRole `gorm:"size:40;index" json:"primaryJobRole"`
	Popular        bool    `gorm:"not null;default:false" json:"isPopular"`
}

// TableName specifies the table name for GORM
func (Skill) TableName() string {
	return "skills"
}

// Validate implements meta.ResourceValidator
func (s *Skill) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.Wrap(BadParameterError, "skill name is required")
	}
	if s.PrimaryJobRole != "" {
		if _, err := parseOption("job role", JobRoles, string(s.PrimaryJobRole)); err != nil {
			return err
		}
	}
	return nil
}

// DefaultSkillImportance is used when a position skill has no importance set.
const DefaultSkillImportance = 5

// JobPositionSkill links a skill to a position with an importance from 1 to 10
type JobPositionSkill struct {
	meta.BaseResource `json:",inline"`

	JobPositionID uint   `gorm:"not null;uniqueIndex:idx_position_skill" json:"jobPositionId" binding:"required"`
	SkillID       uint   `gorm:"not null;uniqueIndex:idx_position_skill" json:"skillId" binding:"required"`
	Skill         *Skill `gorm:"foreignKey:SkillID" json:"skill,omitempty"`
	Importance    int    `gorm:"not null" json:"importance"`
}

// TableName specifies the table name for GORM
func (JobPositionSkill) TableName() string {
	return "job_position_skills"
}

// Validate implements meta.ResourceValidator
func (s *JobPositionSkill) Validate() error {
	if s.Importance == 0 {
		s.Importance = DefaultSkillImportance
	}
	if s.Importance < 1 || s.Importance > 10 {
		return errors.Wrap(BadParameterError, "importance must be between 1 and 10")
	}
	return nil
}

// BeforeSave is a GORM hook applying the default importance
func (s *JobPositionSkill) BeforeSave(tx *gorm.DB) error {
	return s.Validate()
}

// ExperienceLevelInfo describes a career stage and its year range
type ExperienceLevelInfo struct {
	meta.BaseResource `json:",inline"`

	Code          ExperienceLevel `gorm:"size:20;not null;uniqueIndex" json:"code" binding:"required"`
	DisplayName   string          `gorm:"size:100;not null" json:"displayName" binding:"required"`
	DisplayNameEn string          `gorm:"size:100" json:"displayNameEn"`
	Description   string          `gorm:"size:500" json:"description"`
	DescriptionEn string          `gorm:"size:500" json:"descriptionEn"`
	MinYears      int             `gorm:"not null" json:"minYears"`
	// MaxYears is nil for open-ended levels
	MaxYears  *int `json:"maxYears,omitempty"`
	Active    bool `gorm:"not null;default:true" json:"active"`
	SortOrder int  `gorm:"not null;default:0" json:"sortOrder"`
}

// TableName specifies the table name for GORM
func (ExperienceLevelInfo) TableName() string {
	return "experience_levels"
}

// Validate implements meta.ResourceValidator
func (l *ExperienceLevelInfo) Validate() error {
	if _, err := parseOption("experience level", ExperienceLevels, string(l.Code)); err != nil {
		return err
	}
	if l.MinYears < 0 || (l.MaxYears != nil && *l.MaxYears < l.MinYears) {
		return errors.Wrap(BadParameterError, "invalid year range")
	}
	return nil
}

// Covers reports whether years of experience fall within the level.
func (l *ExperienceLevelInfo) Covers(years int) bool {
	if years < l.MinYears {
		return false
	}
	return l.MaxYears == nil || years <= *l.MaxYears
}

type (
	InterviewerPersonality string
	QuestionStyle          string
	FeedbackStyle          string
)

var InterviewerPersonalities = []Option{
	{"FRIENDLY", "친근한", "Friendly"},
	{"STRICT", "엄격한", "Strict"},
	{"CASUAL", "편안한", "Casual"},
	{"FORMAL", "격식있는", "Formal"},
	{"TECHNICAL", "기술 중심적", "Technical"},
	{"CONVERSATIONAL", "대화 중심적", "Conversational"},
	{"BALANCED", "균형잡힌", "Balanced"},
	{"PRAGMATIC", "실용적인", "Pragmatic"},
	{"CREATIVE", "창의적인", "Creative"},
}

var QuestionStyles = []Option{
	{"OPEN_ENDED", "개방형", "Open-ended"},
	{"DIRECT", "직접적", "Direct"},
	{"SITUATIONAL", "상황 기반", "Situational"},
	{"BEHAVIORAL", "행동 기반", "Behavioral"},
	{"TECHNICAL", "기술적", "Technical"},
	{"PROBLEM_SOLVING", "문제 해결 중심", "Problem solving"},
	{"STANDARD", "일반적", "Standard"},
	{"MIXED", "복합적", "Mixed"},
	{"HYPOTHETICAL", "가상 상황 기반", "Hypothetical"},
}

var FeedbackStyles = []Option{
	{"CONSTRUCTIVE", "건설적", "Constructive"},
	{"CRITICAL", "비판적", "Critical"},
	{"ENCOURAGING", "격려하는", "Encouraging"},
	{"DETAILED", "상세한", "Detailed"},
	{"CONCISE", "간결한", "Concise"},
	{"BALANCED", "균형잡힌", "Balanced"},
	{"PRACTICAL", "실용적", "Practical"},
	{"INSIGHTFUL", "통찰력 있는", "Insightful"},
}

// ParsePersonality parses an interviewer personality.
func ParsePersonality(s string) (InterviewerPersonality, error) {
	v, err := parseOption("personality", InterviewerPersonalities, s)
	return InterviewerPersonality(v), err
}

// Interviewer is a selectable interviewer persona
type Interviewer struct {
	meta.BaseResource `json:",inline"`

	Code            string                 `gorm:"size:40;not null;uniqueIndex" json:"code" binding:"required"`
	Name            string                 `gorm:"size:100;not null" json:"name" binding:"required"`
	NameEn          string                 `gorm:"size:100" json:"nameEn"`
	Description     string                 `gorm:"size:500" json:"description"`
	Personality     InterviewerPersonality `gorm:"size:30;not null;index" json:"personality" binding:"required"`
	QuestionStyle   QuestionStyle          `gorm:"size:30" json:"questionStyle"`
	FeedbackStyle   FeedbackStyle          `gorm:"size:30" json:"feedbackStyle"`
	ProfileImageURL string                 `gorm:"size:1024" json:"profileImageUrl,omitempty"`
	Active          bool                   `gorm:"not null;default:true" json:"active"`
	SortOrder       int                    `gorm:"not null;default:0" json:"sortOrder"`
}

// TableName specifies the table name for GORM
func (Interviewer) TableName() string {
	return "interviewers"
}

// Validate implements meta.ResourceValidator
func (i *Interviewer) Validate() error {
	if _, err := ParsePersonality(string(i.Personality)); err != nil {
		return err
	}
	if i.QuestionStyle != "" {
		if _, err := parseOption("question style", QuestionStyles, string(i.QuestionStyle)); err != nil {
			return err
		}
	}
	if i.FeedbackStyle != "" {
		if _, err := parseOption("feedback style", FeedbackStyles, string(i.FeedbackStyle)); err != nil {
			return err
		}
	}
	return nil
}
