package service

import (
	"context"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"preview-api/apiv1"
	"preview-api/internal"
)

// CatalogService reads the job, skill, experience and interviewer catalog
type CatalogService struct {
	fields       *internal.DAO[apiv1.JobField]
	positions    *internal.DAO[apiv1.JobPosition]
	skills       *internal.DAO[apiv1.Skill]
	levels       *internal.DAO[apiv1.ExperienceLevelInfo]
	interviewers *internal.DAO[apiv1.Interviewer]
}

func NewCatalogService(db *gorm.DB) *CatalogService {
	return &CatalogService{
		fields:       internal.NewDAO[apiv1.JobField](db),
		positions:    internal.NewDAO[apiv1.JobPosition](db),
		skills:       internal.NewDAO[apiv1.Skill](db),
		levels:       internal.NewDAO[apiv1.ExperienceLevelInfo](db),
		interviewers: internal.NewDAO[apiv1.Interviewer](db),
	}
}

var bySortOrder = internal.OrderBy("sort_order, id")

func activeOnly() internal.Query {
	return internal.Where("active = ?", true)
}

func activePositions(db *gorm.DB) *gorm.DB {
	return db.Where("active = ?", true).Order("sort_order, id")
}

func notFoundAs(err error, format string, args ...any) error {
	if errors.Is(err, apiv1.NotFoundError) {
		return errors.Wrapf(apiv1.NotFoundError, format, args...)
	}
	return err
}

// JobFields returns the active job fields in display order.
func (s *CatalogService) JobFields(ctx context.Context) ([]apiv1.JobField, error) {
	return s.fields.Find(ctx, activeOnly(), bySortOrder)
}

// JobField returns a job field without its positions.
func (s *CatalogService) JobField(ctx context.Context, id uint) (*apiv1.JobField, error) {
	f, err := s.fields.Get(ctx, id)
	return f, notFoundAs(err, "job field %d", id)
}

// JobFieldWithPositions returns a job field with its active positions and their skills.
func (s *CatalogService) JobFieldWithPositions(ctx context.Context, id uint) (*apiv1.JobField, error) {
	f, err := s.fields.Get(ctx, id,
		internal.Preload("Positions", activePositions),
		internal.Preload("Positions.Skills.Skill"))
	return f, notFoundAs(err, "job field %d", id)
}

// JobFieldByCode looks a job field up by its code.
func (s *CatalogService) JobFieldByCode(ctx context.Context, code string) (*apiv1.JobField, error) {
	f, err := s.fields.First(ctx, internal.Where("code = ?", code))
	return f, notFoundAs(err, "job field %s", code)
}

// PositionsByField returns the active positions of a job field.
func (s *CatalogService) PositionsByField(ctx context.Context, fieldID uint) ([]apiv1.JobPosition, error) {
	return s.positions.Find(ctx,
		internal.Where("job_field_id = ? AND active = ?", fieldID, true),
		bySortOrder,
		internal.Preload("Skills.Skill"))
}

// ExperienceLevels returns every experience level in display order.
func (s *CatalogService) ExperienceLevels(ctx context.Context, onlyActive bool) ([]apiv1.ExperienceLevelInfo, error) {
	if onlyActive {
		return s.levels.Find(ctx, activeOnly(), bySortOrder)
	}
	return s.levels.Find(ctx, bySortOrder)
}

// ExperienceLevel returns an experience level by id.
func (s *CatalogService) ExperienceLevel(ctx context.Context, id uint) (*apiv1.ExperienceLevelInfo, error) {
	l, err := s.levels.Get(ctx, id)
	return l, notFoundAs(err, "experience level %d", id)
}

// ExperienceLevelByCode looks an experience level up by its code.
func (s *CatalogService) ExperienceLevelByCode(ctx context.Context, code string) (*apiv1.ExperienceLevelInfo, error) {
	l, err := s.levels.First(ctx, internal.Where("code = ?", code))
	return l, notFoundAs(err, "experience level %s", code)
}

// ExperienceLevelByYears returns the active level whose year range covers years.
func (s *CatalogService) ExperienceLevelByYears(ctx context.Context, years int) (*apiv1.ExperienceLevelInfo, error) {
	if years < 0 {
		return nil, errors.Wrap(apiv1.BadParameterError, "years must not be negative")
	}
	levels, err := s.ExperienceLevels(ctx, true)
	if err != nil {
		return nil, err
	}
	for i := range levels {
		if levels[i].Covers(years) {
			return &levels[i], nil
		}
	}
	return nil, errors.Wrapf(apiv1.NotFoundError, "no experience level for %d years", years)
}

// Interviewers returns interviewer personas in display order.
func (s *CatalogService) Interviewers(ctx context.Context, onlyActive bool) ([]apiv1.Interviewer, error) {
	if onlyActive {
		return s.interviewers.Find(ctx, activeOnly(), bySortOrder)
	}
	return s.interviewers.Find(ctx, bySortOrder)
}

// Interviewer returns an interviewer by id.
func (s *CatalogService) Interviewer(ctx context.Context, id uint) (*apiv1.Interviewer, error) {
	i, err := s.interviewers.Get(ctx, id)
	return i, notFoundAs(err, "interviewer %d", id)
}

// InterviewerByCode looks an interviewer up by its code.
func (s *CatalogService) InterviewerByCode(ctx context.Context, code string) (*apiv1.Interviewer, error) {
	i, err := s.interviewers.First(ctx, internal.Where("code = ?", code))
	return i, notFoundAs(err, "interviewer %s", code)
}

// InterviewersByPersonality returns the active interviewers with the given personality.
func (s *CatalogService) InterviewersByPersonality(ctx context.Context, personality apiv1.InterviewerPersonality) ([]apiv1.Interviewer, error) {
	return s.interviewers.Find(ctx,
		internal.Where("personality = ? AND active = ?", personality, true),
		bySortOrder)
}

// Skills returns every skill by name.
func (s *CatalogService) Skills(ctx context.Context) ([]apiv1.Skill, error) {
	return s.skills.Find(ctx, internal.OrderBy("name"))
}

// SkillsByJobRole returns the skills whose primary job role is role.
func (s *CatalogService) SkillsByJobRole(ctx context.Context, role apiv1.JobRole) ([]apiv1.Skill, error) {
	return s.skills.Find(ctx, internal.Where("primary_job_role = ?", role), internal.OrderBy("name"))
}

// PopularSkills returns the skills flagged as popular.
func (s *CatalogService) PopularSkills(ctx context.Context) ([]apiv1.Skill, error) {
	return s.skills.Find(ctx, internal.Where("popular = ?", true), internal.OrderBy("name"))
}
