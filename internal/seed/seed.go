// Package seed fills empty reference tables with the default catalog.
package seed

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"gorm.io/gorm"

	"preview-api/apiv1"
	"preview-api/internal"
)

type step struct {
	name string
	fn   func(ctx context.Context, tx *gorm.DB) (int, error)
}

// Run seeds every reference table that is still empty. Tables that already
// hold rows are left untouched.
func Run(ctx context.Context, db *gorm.DB, logger *slog.Logger) error {
	steps := []step{
		{"plans", seedPlans},
		{"job fields", seedJobFields},
		{"job positions", seedJobPositions},
		{"skills", seedSkills},
		{"experience levels", seedExperienceLevels},
		{"interviewers", seedInterviewers},
		{"app info", seedAppInfo},
		{"legal documents", seedLegal},
		{"company info", seedCompany},
		{"service status", seedStatus},
	}
	for _, s := range steps {
		var n int
		err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			n, err = s.fn(ctx, tx)
			return err
		})
		if err != nil {
			return errors.Wrapf(err, "seed %s", s.name)
		}
		if n > 0 {
			logger.InfoContext(ctx, "seeded reference data", slog.String("table", s.name), slog.Int("rows", n))
		}
	}
	return nil
}

func empty[T any](ctx context.Context, tx *gorm.DB) (bool, error) {
	n, err := internal.NewDAO[T](tx).Count(ctx)
	return n == 0, err
}

func createAll[T any](ctx context.Context, tx *gorm.DB, rows []T) (int, error) {
	ok, err := empty[T](ctx, tx)
	if err != nil || !ok {
		return 0, err
	}
	if err := tx.WithContext(ctx).Create(&rows).Error; err != nil {
		return 0, err
	}
	return len(rows), nil
}

func seedPlans(ctx context.Context, tx *gorm.DB) (int, error) {
	defs := []struct {
		planType                      apiv1.PlanType
		name                          string
		monthly, annual, monthlyLimit int
	}{
		{apiv1.PlanFree, "Free Plan", 0, 0, 10000},
		{apiv1.PlanStandard, "Standard Plan", 9900, 99000, 50000},
		{apiv1.PlanPro, "Pro Plan", 19000, 190000, 100000},
	}
	plans := make([]apiv1.Plan, 0, len(defs))
	for _, d := range defs {
		p, err := apiv1.NewPlan(d.planType, d.name, d.monthly, d.annual, d.monthlyLimit)
		if err != nil {
			return 0, err
		}
		plans = append(plans, *p)
	}
	return createAll(ctx, tx, plans)
}

func seedJobFields(ctx context.Context, tx *gorm.DB) (int, error) {
	return createAll(ctx, tx, []apiv1.JobField{
		{Code: "DEVELOPMENT", Name: "개발", NameEn: "Development",
			Description:   "소프트웨어 개발, 시스템 설계, 코딩 관련 직군",
			DescriptionEn: "Roles related to software development, system design, and coding",
			Icon:          "Icons.developer_mode", Active: true, SortOrder: 1},
		{Code: "DESIGN", Name: "디자인", NameEn: "Design",
			Description:   "UI/UX 디자인, 그래픽 디자인, 제품 디자인 관련 직군",
			DescriptionEn: "Roles related to UI/UX design, graphic design, and product design",
			Icon:          "Icons.design_services", Active: true, SortOrder: 2},
		{Code: "MARKETING", Name: "마케팅", NameEn: "Marketing",
			Description:   "디지털 마케팅, 콘텐츠 마케팅, 브랜드 마케팅 관련 직군",
			DescriptionEn: "Roles related to digital marketing, content marketing, and brand marketing",
			Icon:          "Icons.campaign", Active: true, SortOrder: 3},
		{Code: "BUSINESS", Name: "경영지원", NameEn: "Business Support",
			Description:   "인사, 재무, 회계, 법률, 총무 등 경영 지원 관련 직군",
			DescriptionEn: "Roles related to HR, finance, accounting, legal, and general affairs",
			Icon:          "Icons.business_center", Active: true, SortOrder: 4},
		{Code: "SALES", Name: "영업/세일즈", NameEn: "Sales",
			Description:   "영업 전략 수립, 고객 관리, 판매 활동 관련 직군",
			DescriptionEn: "Roles related to sales strategy, customer management, and sales activities",
			Icon:          "Icons.point_of_sale", Active: true, SortOrder: 5},
		{Code: "CUSTOMER_SERVICE", Name: "고객 지원", NameEn: "Customer Service",
			Description:   "고객 상담, 기술 지원, 고객 만족 관리 관련 직군",
			DescriptionEn: "Roles related to customer consultation, technical support, and customer satisfaction management",
			Icon:          "Icons.support_agent", Active: true, SortOrder: 6},
	})
}

func fieldIDs(ctx context.Context, tx *gorm.DB) (map[string]uint, error) {
	fields, err := internal.NewDAO[apiv1.JobField](tx).Find(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]uint, len(fields))
	for _, f := range fields {
		ids[f.Code] = f.ID
	}
	return ids, nil
}

func seedJobPositions(ctx context.Context, tx *gorm.DB) (int, error) {
	ids, err := fieldIDs(ctx, tx)
	if err != nil {
		return 0, err
	}
	dev, design := ids["DEVELOPMENT"], ids["DESIGN"]
	if dev == 0 || design == 0 {
		return 0, nil
	}
	return createAll(ctx, tx, []apiv1.JobPosition{
		{JobFieldID: dev, Role: apiv1.RoleBackendDeveloper, Title: "백엔드 개발자", TitleEn: "Backend Developer",
			Description: "서버, API, 데이터베이스 설계 및 개발", Icon: "Icons.code", Active: true, SortOrder: 1},
		{JobFieldID: dev, Role: apiv1.RoleFrontendDeveloper, Title: "프론트엔드 개발자", TitleEn: "Frontend Developer",
			Description: "웹/앱 인터페이스 및 사용자 경험 구현", Icon: "Icons.web", Active: true, SortOrder: 2},
		{JobFieldID: dev, Role: apiv1.RoleFullstackDeveloper, Title: "풀스택 개발자", TitleEn: "Fullstack Developer",
			Description: "프론트엔드와 백엔드 모두 개발", Icon: "Icons.all_inclusive", Active: true, SortOrder: 3},
		{JobFieldID: dev, Role: apiv1.RoleMobileDeveloper, Title: "모바일 개발자", TitleEn: "Mobile Developer",
			Description: "iOS, Android, 크로스 플랫폼 앱 개발", Icon: "Icons.phone_android", Active: true, SortOrder: 4},
		{JobFieldID: design, Role: apiv1.RoleUIUXDesigner, Title: "UI/UX 디자이너", TitleEn: "UI/UX Designer",
			Description: "사용자 인터페이스 및 경험 디자인", Icon: "Icons.dashboard_customize", Active: true, SortOrder: 1},
		{JobFieldID: design, Role: apiv1.RoleProductDesigner, Title: "제품 디자이너", TitleEn: "Product Designer",
			Description: "제품 기획부터 디자인까지 전과정 담당", Icon: "Icons.category", Active: true, SortOrder: 2},
	})
}

type skillDef struct {
	skill apiv1.Skill
	// importance per position role
	positions map[apiv1.JobRole]int
}

var skillDefs = []skillDef{
	{apiv1.Skill{Name: "Java", NameEn: "Java", PrimaryJobRole: apiv1.RoleBackendDeveloper, Popular: true},
		map[apiv1.JobRole]int{apiv1.RoleBackendDeveloper: 9, apiv1.RoleFullstackDeveloper: 7}},
	{apiv1.Skill{Name: "Python", NameEn: "Python", PrimaryJobRole: apiv1.RoleBackendDeveloper, Popular: true},
		map[apiv1.JobRole]int{apiv1.RoleBackendDeveloper: 8, apiv1.RoleFullstackDeveloper: 6}},
	{apiv1.Skill{Name: "Spring", NameEn: "Spring", PrimaryJobRole: apiv1.RoleBackendDeveloper, Popular: true},
		map[apiv1.JobRole]int{apiv1.RoleBackendDeveloper: 8}},
	{apiv1.Skill{Name: "Django", NameEn: "Django", PrimaryJobRole: apiv1.RoleBackendDeveloper},
		map[apiv1.JobRole]int{apiv1.RoleBackendDeveloper: 6}},
	{apiv1.Skill{Name: "JavaScript", NameEn: "JavaScript", PrimaryJobRole: apiv1.RoleFrontendDeveloper, Popular: true},
		map[apiv1.JobRole]int{apiv1.RoleFrontendDeveloper: 9, apiv1.RoleFullstackDeveloper: 8}},
	{apiv1.Skill{Name: "React", NameEn: "React", PrimaryJobRole: apiv1.RoleFrontendDeveloper, Popular: true},
		map[apiv1.JobRole]int{apiv1.RoleFrontendDeveloper: 8, apiv1.RoleFullstackDeveloper: 7}},
	{apiv1.Skill{Name: "Angular", NameEn: "Angular", PrimaryJobRole: apiv1.RoleFrontendDeveloper},
		map[apiv1.JobRole]int{apiv1.RoleFrontendDeveloper: 6}},
	{apiv1.Skill{Name: "Vue.js", NameEn: "Vue.js", PrimaryJobRole: apiv1.RoleFrontendDeveloper},
		map[apiv1.JobRole]int{apiv1.RoleFrontendDeveloper: 6}},
	{apiv1.Skill{Name: "Kotlin", NameEn: "Kotlin", PrimaryJobRole: apiv1.RoleMobileDeveloper},
		map[apiv1.JobRole]int{apiv1.RoleMobileDeveloper: 8}},
	{apiv1.Skill{Name: "Swift", NameEn: "Swift", PrimaryJobRole: apiv1.RoleMobileDeveloper},
		map[apiv1.JobRole]int{apiv1.RoleMobileDeveloper: 8}},
	{apiv1.Skill{Name: "Figma", NameEn: "Figma", PrimaryJobRole: apiv1.RoleUIUXDesigner, Popular: true},
		map[apiv1.JobRole]int{apiv1.RoleUIUXDesigner: 9, apiv1.RoleProductDesigner: 8}},
	{apiv1.Skill{Name: "Sketch", NameEn: "Sketch", PrimaryJobRole: apiv1.RoleUIUXDesigner},
		map[apiv1.JobRole]int{apiv1.RoleUIUXDesigner: 6, apiv1.RoleProductDesigner: 5}},
}

func seedSkills(ctx context.Context, tx *gorm.DB) (int, error) {
	skills := make([]apiv1.Skill, len(skillDefs))
	for i, d := range skillDefs {
		skills[i] = d.skill
	}
	n, err := createAll(ctx, tx, skills)
	if err != nil || n == 0 {
		return n, err
	}

	positions, err := internal.NewDAO[apiv1.JobPosition](tx).Find(ctx)
	if err != nil {
		return 0, err
	}
	byRole := make(map[apiv1.JobRole]uint, len(positions))
	for _, p := range positions {
		byRole[p.Role] = p.ID
	}

	var links []apiv1.JobPositionSkill
	for i, d := range skillDefs {
		for role, importance := range d.positions {
			if id, ok := byRole[role]; ok {
				links = append(links, apiv1.JobPositionSkill{JobPositionID: id, SkillID: skills[i].ID, Importance: importance})
			}
		}
	}
	if len(links) > 0 {
		if err := tx.WithContext(ctx).Create(&links).Error; err != nil {
			return 0, err
		}
	}
	return n, nil
}

func years(n int) *int { return &n }

func seedExperienceLevels(ctx context.Context, tx *gorm.DB) (int, error) {
	return createAll(ctx, tx, []apiv1.ExperienceLevelInfo{
		{Code: apiv1.ExperienceEntry, DisplayName: "신입", DisplayNameEn: "Entry Level",
			Description: "경력이 없거나 1년 미만인 직급", DescriptionEn: "Position with no experience or less than 1 year",
			MinYears: 0, MaxYears: years(0), Active: true, SortOrder: 1},
		{Code: apiv1.ExperienceJunior, DisplayName: "주니어 (1-3년)", DisplayNameEn: "Junior (1-3 years)",
			Description: "1년에서 3년 사이의 경력을 가진 직급", DescriptionEn: "Position with 1 to 3 years of experience",
			MinYears: 1, MaxYears: years(3), Active: true, SortOrder: 2},
		{Code: apiv1.ExperienceMidLevel, DisplayName: "미드레벨 (4-7년)", DisplayNameEn: "Mid-Level (4-7 years)",
			Description: "4년에서 7년 사이의 경력을 가진 직급", DescriptionEn: "Position with 4 to 7 years of experience",
			MinYears: 4, MaxYears: years(7), Active: true, SortOrder: 3},
		{Code: apiv1.ExperienceSenior, DisplayName: "시니어 (8년 이상)", DisplayNameEn: "Senior (8+ years)",
			Description: "8년 이상의 경력을 가진 직급", DescriptionEn: "Position with 8 or more years of experience",
			MinYears: 8, Active: true, SortOrder: 4},
		{Code: apiv1.ExperienceExecutive, DisplayName: "임원급", DisplayNameEn: "Executive",
			Description:   "회사의 의사결정에 참여하는 고위 관리직",
			DescriptionEn: "High-level management position involved in company decision-making",
			MinYears:      10, Active: true, SortOrder: 5},
	})
}

func seedInterviewers(ctx context.Context, tx *gorm.DB) (int, error) {
	return createAll(ctx, tx, []apiv1.Interviewer{
		{Code: "friendly", Name: "김친절", NameEn: "Kim Friendly",
			Description: "지원자를 편안하게 해주며 대화형 면접을 진행하는 친절한 면접관입니다.",
			Personality: "FRIENDLY", QuestionStyle: "OPEN_ENDED", FeedbackStyle: "ENCOURAGING",
			ProfileImageURL: "/images/interviewers/friendly.png", Active: true, SortOrder: 1},
		{Code: "strict", Name: "박엄격", NameEn: "Park Strict",
			Description: "정확한 답변을 요구하고 꼼꼼하게 검증하는 엄격한 면접관입니다.",
			Personality: "STRICT", QuestionStyle: "DIRECT", FeedbackStyle: "CRITICAL",
			ProfileImageURL: "/images/interviewers/strict.png", Active: true, SortOrder: 2},
		{Code: "technical", Name: "이기술", NameEn: "Lee Technical",
			Description: "심층적인 기술 지식을 검증하는 기술 중심 면접관입니다.",
			Personality: "TECHNICAL", QuestionStyle: "TECHNICAL", FeedbackStyle: "CONSTRUCTIVE",
			ProfileImageURL: "/images/interviewers/technical.png", Active: true, SortOrder: 3},
		{Code: "balanced", Name: "최균형", NameEn: "Choi Balanced",
			Description: "기술과 인성을 균형있게 평가하는 균형 잡힌 면접관입니다.",
			Personality: "BALANCED", QuestionStyle: "MIXED", FeedbackStyle: "BALANCED",
			ProfileImageURL: "/images/interviewers/balanced.png", Active: true, SortOrder: 4},
		{Code: "situational", Name: "정상황", NameEn: "Jung Situational",
			Description: "실제 업무 상황을 가정한 질문으로 문제 해결 능력을 확인하는 면접관입니다.",
			Personality: "PRAGMATIC", QuestionStyle: "SITUATIONAL", FeedbackStyle: "PRACTICAL",
			ProfileImageURL: "/images/interviewers/situational.png", Active: true, SortOrder: 5},
		{Code: "creative", Name: "한창의", NameEn: "Han Creative",
			Description: "창의적인 사고와 문제 해결 능력을 테스트하는 면접관입니다.",
			Personality: "CREATIVE", QuestionStyle: "HYPOTHETICAL", FeedbackStyle: "INSIGHTFUL",
			ProfileImageURL: "/images/interviewers/creative.png", Active: true, SortOrder: 6},
	})
}

func seedAppInfo(ctx context.Context, tx *gorm.DB) (int, error) {
	return createAll(ctx, tx, []apiv1.AppInfo{{
		Name:        "Preview",
		Version:     "1.0.0",
		Description: "AI 모의 면접 서비스",
		LogoURL:     "/images/logo.png",
	}})
}

func seedLegal(ctx context.Context, tx *gorm.DB) (int, error) {
	effective := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return createAll(ctx, tx, []apiv1.LegalInfo{
		{Type: apiv1.LegalTerms, Title: "서비스 이용약관", Version: "1.0", EffectiveDate: effective,
			Content: "본 약관은 Preview 서비스의 이용 조건 및 절차를 규정합니다."},
		{Type: apiv1.LegalPrivacy, Title: "개인정보 처리방침", Version: "1.0", EffectiveDate: effective,
			Content: "Preview는 서비스 제공에 필요한 최소한의 개인정보만을 수집합니다."},
		{Type: apiv1.LegalMarketing, Title: "마케팅 정보 수신 동의", Version: "1.0", EffectiveDate: effective,
			Content: "이벤트 및 혜택 정보를 이메일과 푸시 알림으로 받아보실 수 있습니다."},
	})
}

func seedCompany(ctx context.Context, tx *gorm.DB) (int, error) {
	return createAll(ctx, tx, []apiv1.CompanyInfo{{
		Name:               "Evawova",
		Representative:     "홍길동",
		BusinessNumber:     "000-00-00000",
		Address:            "서울특별시",
		Email:              "support@evawova.com",
		Phone:              "02-000-0000",
		CustomerServiceURL: "https://evawova.com/support",
	}})
}

func seedStatus(ctx context.Context, tx *gorm.DB) (int, error) {
	return createAll(ctx, tx, []apiv1.ServiceStatusInfo{{
		Status:  apiv1.StatusNormal,
		Notices: []string{},
		FAQ: map[string]string{
			"무료 플랜으로 몇 번 면접을 볼 수 있나요?": "무료 플랜은 매월 10,000 토큰이 제공되며 약 두 번의 모의 면접을 진행할 수 있습니다.",
			"구독은 언제든지 해지할 수 있나요?":     "네, 구독은 언제든지 해지할 수 있으며 해지 즉시 적용됩니다.",
		},
		SupportedLanguages: []string{"ko", "en"},
	}})
}
