package service

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"preview-api/apiv1"
	"preview-api/internal"
)

// AppInfoService serves the public application, legal and company information
type AppInfoService struct {
	apps     *internal.DAO[apiv1.AppInfo]
	legal    *internal.DAO[apiv1.LegalInfo]
	company  *internal.DAO[apiv1.CompanyInfo]
	statuses *internal.DAO[apiv1.ServiceStatusInfo]
	now      func() time.Time
}

func NewAppInfoService(db *gorm.DB) *AppInfoService {
	return &AppInfoService{
		apps:     internal.NewDAO[apiv1.AppInfo](db),
		legal:    internal.NewDAO[apiv1.LegalInfo](db),
		company:  internal.NewDAO[apiv1.CompanyInfo](db),
		statuses: internal.NewDAO[apiv1.ServiceStatusInfo](db),
		now:      time.Now,
	}
}

var latestFirst = internal.OrderBy("updated_at desc, id desc")

// App returns the most recently updated application record.
func (s *AppInfoService) App(ctx context.Context) (*apiv1.AppInfo, error) {
	app, err := s.apps.First(ctx, latestFirst)
	return app, notFoundAs(err, "app info")
}

// Company returns the operator's business information.
func (s *AppInfoService) Company(ctx context.Context) (*apiv1.CompanyInfo, error) {
	c, err := s.company.First(ctx, latestFirst)
	return c, notFoundAs(err, "company info")
}

// Status returns the current service status. The emergency notice is blanked
// once it has expired.
func (s *AppInfoService) Status(ctx context.Context) (*apiv1.ServiceStatusInfo, error) {
	st, err := s.statuses.First(ctx, latestFirst)
	if err != nil {
		return nil, notFoundAs(err, "service status")
	}
	st.EmergencyNotice = st.ActiveEmergencyNotice(s.now())
	if st.EmergencyNotice == "" {
		st.NoticeExpiresAt = nil
	}
	return st, nil
}

// FAQ returns the frequently asked questions of the current status record.
func (s *AppInfoService) FAQ(ctx context.Context) (map[string]string, error) {
	st, err := s.Status(ctx)
	if err != nil {
		return nil, err
	}
	if st.FAQ == nil {
		return map[string]string{}, nil
	}
	return st.FAQ, nil
}

// Legal returns the latest effective version of a legal document.
func (s *AppInfoService) Legal(ctx context.Context, legalType apiv1.LegalType) (*apiv1.LegalInfo, error) {
	doc, err := s.legal.First(ctx,
		internal.Where("type = ? AND effective_date <= ?", legalType, s.now()),
		internal.OrderBy("effective_date desc, id desc"))
	return doc, notFoundAs(err, "legal document %s", legalType)
}

// Info assembles the aggregate shown on the client's about screen.
func (s *AppInfoService) Info(ctx context.Context) (*apiv1.AppInfoView, error) {
	app, err := s.App(ctx)
	if err != nil {
		return nil, err
	}
	view := &apiv1.AppInfoView{
		App:                app,
		Status:             apiv1.StatusNormal,
		Notices:            []string{},
		SupportedLanguages: []string{},
		LegalVersions:      map[apiv1.LegalType]string{},
	}

	company, err := s.Company(ctx)
	switch {
	case err == nil:
		view.Company = company
	case !errors.Is(err, apiv1.NotFoundError):
		return nil, err
	}

	status, err := s.Status(ctx)
	switch {
	case err == nil:
		view.Status = status.Status
		view.EmergencyNotice = status.EmergencyNotice
		if status.Notices != nil {
			view.Notices = status.Notices
		}
		if status.SupportedLanguages != nil {
			view.SupportedLanguages = status.SupportedLanguages
		}
	case !errors.Is(err, apiv1.NotFoundError):
		return nil, err
	}

	for _, t := range []apiv1.LegalType{apiv1.LegalTerms, apiv1.LegalPrivacy, apiv1.LegalMarketing} {
		doc, err := s.Legal(ctx, t)
		if errors.Is(err, apiv1.NotFoundError) {
			continue
		}
		if err != nil {
			return nil, err
		}
		view.LegalVersions[t] = doc.Version
	}
	return view, nil
}

// UpdateStatus changes the service status and optionally sets an emergency notice.
func (s *AppInfoService) UpdateStatus(ctx context.Context, status apiv1.ServiceStatus, notice string, expiresAt *time.Time) (*apiv1.ServiceStatusInfo, error) {
	switch status {
	case apiv1.StatusNormal, apiv1.StatusMaintenance, apiv1.StatusDegraded, apiv1.StatusOutage:
	default:
		return nil, errors.Wrapf(apiv1.BadParameterError, "invalid service status %q", status)
	}
	st, err := s.statuses.First(ctx, latestFirst)
	if err != nil {
		return nil, notFoundAs(err, "service status")
	}
	st.Status = status
	st.EmergencyNotice = notice
	st.NoticeExpiresAt = expiresAt
	if err := s.statuses.Save(ctx, st); err != nil {
		return nil, err
	}
	return st, nil
}
