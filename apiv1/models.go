package apiv1

// AllModels lists every persisted resource, in migration order.
func AllModels() []any {
	return []any{
		&Plan{},
		&User{},
		&Subscription{},
		&UserUsage{},
		&UserLoginLog{},
		&InterviewSession{},
		&JobField{},
		&JobPosition{},
		&Skill{},
		&JobPositionSkill{},
		&ExperienceLevelInfo{},
		&Interviewer{},
		&AppInfo{},
		&LegalInfo{},
		&CompanyInfo{},
		&ServiceStatusInfo{},
		&UserPreference{},
	}
}
