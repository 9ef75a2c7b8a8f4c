package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"preview-api/apiv1"
	"preview-api/internal"
	"preview-api/internal/events"
	"preview-api/meta"
)

// RegisterRequest is the payload of an email sign-up
type RegisterRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"displayName" binding:"required,max=100"`
}

// UserService manages user accounts
type UserService struct {
	users         *internal.DAO[apiv1.User]
	plans         *internal.DAO[apiv1.Plan]
	subscriptions *SubscriptionService
	loginLogs     *LoginLogService
	dispatcher    *events.Dispatcher
	logger        *slog.Logger
}

func NewUserService(db *gorm.DB, subscriptions *SubscriptionService, loginLogs *LoginLogService, dispatcher *events.Dispatcher, logger *slog.Logger) *UserService {
	return &UserService{
		users:         internal.NewDAO[apiv1.User](db),
		plans:         internal.NewDAO[apiv1.Plan](db),
		subscriptions: subscriptions,
		loginLogs:     loginLogs,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

func (s *UserService) findOne(ctx context.Context, what string, queries ...internal.Query) (*apiv1.User, error) {
	user, err := s.users.First(ctx, append(queries, internal.Preload("Plan"))...)
	if errors.Is(err, apiv1.NotFoundError) {
		return nil, errors.Wrap(apiv1.ErrUserNotFound, what)
	}
	return user, err
}

// Get returns the user with the given id.
func (s *UserService) Get(ctx context.Context, id uint) (*apiv1.User, error) {
	return s.findOne(ctx, "id", internal.Where("id = ?", id))
}

// GetByUID returns the user with the given Firebase uid.
func (s *UserService) GetByUID(ctx context.Context, uid string) (*apiv1.User, error) {
	return s.findOne(ctx, "uid", internal.Where("uid = ?", uid))
}

// GetByEmail returns the user with the given email.
func (s *UserService) GetByEmail(ctx context.Context, email string) (*apiv1.User, error) {
	return s.findOne(ctx, "email", internal.Where("email = ?", email))
}

// List returns a page of users ordered by id.
func (s *UserService) List(ctx context.Context, page, size int) ([]apiv1.User, int64, error) {
	return s.users.List(ctx, page, size, nil, internal.OrderBy("id"), internal.Preload("Plan"))
}

// Search finds users whose email or display name contains keyword.
func (s *UserService) Search(ctx context.Context, keyword string) ([]apiv1.User, error) {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return nil, errors.Wrap(apiv1.BadParameterError, "keyword is required")
	}
	like := "%" + strings.ToLower(keyword) + "%"
	return s.users.Find(ctx,
		internal.Where("LOWER(email) LIKE ? OR LOWER(display_name) LIKE ?", like, like),
		internal.OrderBy("id"),
		internal.Preload("Plan"))
}

// CountActive returns the number of active users.
func (s *UserService) CountActive(ctx context.Context) (int64, error) {
	return s.users.Count(ctx, internal.Where("active = ?", true))
}

// CountByRole returns the number of active users per role.
func (s *UserService) CountByRole(ctx context.Context) (map[apiv1.Role]int64, error) {
	counts := make(map[apiv1.Role]int64, len(apiv1.AllRoles))
	for _, role := range apiv1.AllRoles {
		n, err := s.users.Count(ctx, internal.Where("active = ? AND role = ?", true, role))
		if err != nil {
			return nil, err
		}
		counts[role] = n
	}
	return counts, nil
}

func (s *UserService) freePlan(ctx context.Context, tx *gorm.DB) (*apiv1.Plan, error) {
	plan, err := s.plans.WithTx(tx).First(ctx, internal.Where("type = ?", apiv1.PlanFree))
	if errors.Is(err, apiv1.NotFoundError) {
		return nil, apiv1.ErrFreePlanMissing
	}
	return plan, err
}

// SocialLogin signs in a Firebase user. Unknown users are created on the FREE
// plan with an initial monthly subscription. Every attempt on a known account
// is written to the login history.
func (s *UserService) SocialLogin(ctx context.Context, profile apiv1.SocialProfile, info apiv1.LoginInfo) (*apiv1.User, *apiv1.UserLoginLog, error) {
	var (
		user    *apiv1.User
		known   bool
		created []meta.EventSource
	)
	err := s.users.Transaction(ctx, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		existing, err := users.First(ctx, internal.Where("uid = ?", profile.UID), internal.Preload("Plan"))
		switch {
		case err == nil:
			user, known = existing, true
			if !user.Active {
				return apiv1.ErrUserInactive
			}
			user.UpdateSocialInfo(profile)
			return users.Save(ctx, user)
		case !errors.Is(err, apiv1.NotFoundError):
			return err
		}

		plan, err := s.freePlan(ctx, tx)
		if err != nil {
			return err
		}
		user = apiv1.NewSocialUser(profile, plan)
		if err := user.Validate(); err != nil {
			return err
		}
		if err := users.Create(ctx, user); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errors.Wrapf(apiv1.ErrEmailAlreadyExists, "%s", profile.Email)
			}
			return errors.Wrap(err, "create social user")
		}

		initial := apiv1.NewSubscription(user, plan, apiv1.CycleMonthly, time.Now())
		if err := internal.NewDAO[apiv1.Subscription](tx).Create(ctx, initial); err != nil {
			return errors.Wrap(err, "create initial subscription")
		}
		created = append(created, initial)
		s.logger.InfoContext(ctx, "created social user",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("provider", string(user.Provider)))
		return nil
	})
	if err != nil {
		if known {
			s.loginLogs.RecordFailure(ctx, user.ID, info, err.Error())
		}
		return nil, nil, err
	}

	s.dispatcher.PublishFrom(ctx, append(created, user)...)
	entry, err := s.loginLogs.RecordSuccess(ctx, user.ID, info)
	if err != nil {
		return nil, nil, errors.Wrap(err, "record login")
	}
	return user, entry, nil
}

// Register creates an email/password account on the FREE plan.
func (s *UserService) Register(ctx context.Context, req RegisterRequest) (*apiv1.User, error) {
	var user *apiv1.User
	err := s.users.Transaction(ctx, func(tx *gorm.DB) error {
		users := s.users.WithTx(tx)
		n, err := users.Count(ctx, internal.Where("email = ?", req.Email))
		if err != nil {
			return err
		}
		if n > 0 {
			return errors.Wrapf(apiv1.ErrEmailAlreadyExists, "%s", req.Email)
		}
		plan, err := s.freePlan(ctx, tx)
		if err != nil {
			return err
		}
		user, err = apiv1.NewEmailUser(uuid.NewString(), req.Email, req.Password, req.DisplayName, plan)
		if err != nil {
			return err
		}
		return users.Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}
	s.dispatcher.PublishFrom(ctx, user)
	return user, nil
}

// UpdateProfile changes the user's display name and photo.
func (s *UserService) UpdateProfile(ctx context.Context, id uint, displayName, photoURL string) (*apiv1.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.UpdateProfile(displayName, photoURL)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// ChangePlan moves the user to an active plan and re-derives the role.
func (s *UserService) ChangePlan(ctx context.Context, id uint, planType apiv1.PlanType) (*apiv1.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	plan, err := s.plans.First(ctx, internal.Where("type = ?", planType))
	if errors.Is(err, apiv1.NotFoundError) {
		return nil, errors.Wrapf(apiv1.ErrPlanNotFound, "%s", planType)
	}
	if err != nil {
		return nil, err
	}
	if !plan.Active {
		return nil, errors.Wrapf(apiv1.ErrPlanInactive, "%s", planType)
	}
	user.ChangePlan(plan)
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.dispatcher.PublishFrom(ctx, user)
	return user, nil
}

// SetRole assigns a role directly. Used by administrators.
func (s *UserService) SetRole(ctx context.Context, id uint, role apiv1.Role) (*apiv1.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	user.Role = role
	if err := s.users.Save(ctx, user); err != nil {
		return nil, err
	}
	s.logger.InfoContext(ctx, "user role set",
		slog.Uint64("user_id", uint64(id)),
		slog.String("role", string(role)))
	return user, nil
}

// Withdraw cancels the user's subscription and anonymises the account.
func (s *UserService) Withdraw(ctx context.Context, id uint) error {
	user, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	if !user.Active {
		return apiv1.ErrUserInactive
	}
	if err := s.subscriptions.CancelActiveByUser(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "cancel subscription on withdrawal failed",
			slog.Uint64("user_id", uint64(id)),
			slog.String("error", err.Error()))
	}
	if err := user.Withdraw(); err != nil {
		return err
	}
	if err := s.users.Save(ctx, user); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "user withdrawn", slog.Uint64("user_id", uint64(id)))
	return nil
}

// MigrateRoles re-derives the role of every non-admin user from their active
// subscription, falling back to FREE. It returns the number of users changed.
func (s *UserService) MigrateRoles(ctx context.Context) (int, error) {
	users, err := s.users.Find(ctx, internal.Where("role <> ?", apiv1.RoleAdmin), internal.Preload("Plan"))
	if err != nil {
		return 0, err
	}
	updated := 0
	for i := range users {
		user := &users[i]
		planType := apiv1.PlanFree
		if sub, err := s.subscriptions.ActiveByUser(ctx, user.ID); err == nil && sub.Plan != nil {
			planType = sub.Plan.Type
		} else if err != nil && !errors.Is(err, apiv1.ErrNoActiveSubscription) {
			return updated, err
		}
		role := planType.Role()
		if user.Role == role {
			continue
		}
		s.logger.InfoContext(ctx, "migrating user role",
			slog.Uint64("user_id", uint64(user.ID)),
			slog.String("from", string(user.Role)),
			slog.String("to", string(role)))
		user.Role = role
		if err := s.users.Save(ctx, user); err != nil {
			return updated, err
		}
		updated++
	}
	return updated, nil
}
