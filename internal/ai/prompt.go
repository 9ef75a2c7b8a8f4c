package ai

import (
	"fmt"
	"strings"

	"preview-api/apiv1"
)

var roleGuidelines = map[apiv1.JobRole][]string{
	apiv1.RoleFrontendDeveloper: {
		"Check UI implementation skills, JavaScript/TypeScript depth and experience with frontend frameworks such as React, Vue.js or Angular.",
		"Ask about responsive design, web performance optimisation and state management.",
		"Check how the candidate handled browser compatibility issues and web accessibility.",
	},
	apiv1.RoleBackendDeveloper: {
		"Check server architecture, database design and tuning, and API development experience.",
		"Ask about scalable system design, caching strategies and asynchronous processing.",
		"Check security knowledge, performance tuning and transaction management.",
	},
	apiv1.RoleFullstackDeveloper: {
		"Check for balanced knowledge of both frontend and backend development.",
		"Evaluate end-to-end architecture experience and range across technology stacks.",
		"Ask how the candidate solved problems while integrating frontend and backend.",
	},
	apiv1.RoleMobileDeveloper: {
		"Check mobile app development experience and understanding of native and hybrid approaches.",
		"Ask about UI optimisation, performance management and offline support.",
		"Check app store release experience, versioning and how user feedback is handled.",
	},
	apiv1.RoleDevopsDeveloper: {
		"Check CI/CD pipeline experience and knowledge of containers and orchestration.",
		"Ask about cloud infrastructure, monitoring and incident response.",
		"Check automation scripting ability and security knowledge.",
	},
	apiv1.RoleDataScientist: {
		"Check analysis methodology, statistical modelling and understanding of machine learning algorithms.",
		"Ask about data preprocessing, feature engineering and model evaluation.",
		"Check experience applying data to real business problems.",
	},
	apiv1.RoleAIEngineer: {
		"Check machine learning and deep learning model development and optimisation experience.",
		"Ask about training and deployment pipelines and MLOps.",
		"Check awareness of current AI trends and experience running models in production.",
	},
}

var defaultRoleGuidelines = []string{
	"Check the core competencies and technical knowledge the role requires.",
	"Ask about hands-on experience and how the candidate approaches problems.",
	"Evaluate teamwork and communication.",
}

var styleGuidelines = map[apiv1.InterviewerStyle][]string{
	apiv1.StyleFriendly: {
		"Keep the conversation relaxed so the candidate feels comfortable.",
		"Give positive feedback where it is deserved and help the candidate settle their nerves.",
		"Stay objective in your assessment.",
	},
	apiv1.StyleTechnical: {
		"Assess technical ability through in-depth technical questions.",
		"Move step by step from fundamentals to advanced concepts.",
		"Include questions that reveal real problem solving ability.",
	},
	apiv1.StyleChallenging: {
		"Use challenging questions to assess how the candidate copes and solves problems.",
		"Observe reactions and reasoning under pressure.",
		"Include open-ended and hypothetical questions.",
	},
}

var difficultyGuidelines = map[apiv1.Difficulty][]string{
	apiv1.DifficultyBeginner: {
		"Check understanding of basic concepts and terminology.",
		"Prefer questions that can be answered without work experience.",
	},
	apiv1.DifficultyIntermediate: {
		"Ask about technologies and methods commonly used in practice.",
		"Evaluate simple problem solving.",
	},
	apiv1.DifficultyAdvanced: {
		"Check complex problem solving and in-depth technical knowledge.",
		"Include design and architecture questions.",
	},
	apiv1.DifficultyExpert: {
		"Check knowledge of current technology trends in depth.",
		"Include complex system design and optimisation questions.",
		"Ask about technical decision making and leadership.",
	},
}

var experienceGuidelines = map[apiv1.ExperienceLevel][]string{
	apiv1.ExperienceEntry: {
		"Focus on learning ability and potential.",
		"Check understanding of fundamentals.",
		"Value the thought process over a perfect answer.",
	},
	apiv1.ExperienceJunior: {
		"Check basic hands-on experience and competence.",
		"Evaluate understanding of the core technologies of the job.",
		"Check collaboration experience and awareness of code quality.",
	},
	apiv1.ExperienceMidLevel: {
		"Check experience solving complex problems and working independently.",
		"Evaluate project management and collaboration skills.",
		"Ask about technical decisions and the reasons behind them.",
	},
	apiv1.ExperienceSenior: {
		"Check deep technical knowledge and leadership experience.",
		"Evaluate architecture design and technical decision making.",
		"Check mentoring of junior engineers and contribution to team growth.",
	},
	apiv1.ExperienceExecutive: {
		"Check strategic thinking and business understanding.",
		"Focus on organisational management and leadership.",
		"Check the ability to set a technical vision and make decisions.",
	},
}

var interviewRules = []string{
	"Listen carefully to each answer and ask relevant follow-up questions.",
	"When an answer is incomplete or vague, ask for concrete examples or explanation.",
	"Assess the candidate's experience and skills accurately.",
	"Stay professional and objective.",
	"Open with a short self introduction request and ask about the candidate's background or interests.",
	"Before closing the interview, ask whether the candidate has any questions.",
}

func writeBullets(b *strings.Builder, lines []string) {
	for _, l := range lines {
		b.WriteString("- ")
		b.WriteString(l)
		b.WriteByte('\n')
	}
}

// BuildInterviewPrompt renders the interviewer system prompt for the settings.
// Empty settings fields leave their section out.
func BuildInterviewPrompt(s apiv1.InterviewSettings) string {
	var b strings.Builder
	b.WriteString("You are a professional interviewer. Conduct the interview according to the following settings.\n\n")

	if s.JobRole != "" {
		b.WriteString("## Job\n")
		fmt.Fprintf(&b, "- Role: %s\n", apiv1.DisplayNameEn(apiv1.JobRoles, string(s.JobRole)))
		fmt.Fprintf(&b, "- Field: %s\n\n", apiv1.DisplayNameEn(apiv1.InterviewTypes, string(s.Type)))
		guidelines, ok := roleGuidelines[s.JobRole]
		if !ok {
			guidelines = defaultRoleGuidelines
		}
		writeBullets(&b, guidelines)
		b.WriteByte('\n')
	}

	if s.InterviewerStyle != "" {
		b.WriteString("## Interviewer style\n")
		fmt.Fprintf(&b, "- Style: %s\n", apiv1.DisplayNameEn(apiv1.InterviewerStyles, string(s.InterviewerStyle)))
		writeBullets(&b, styleGuidelines[s.InterviewerStyle])
		b.WriteByte('\n')
	}

	if s.Difficulty != "" {
		b.WriteString("## Difficulty\n")
		fmt.Fprintf(&b, "- Difficulty: %s\n", apiv1.DisplayNameEn(apiv1.Difficulties, string(s.Difficulty)))
		writeBullets(&b, difficultyGuidelines[s.Difficulty])
		b.WriteByte('\n')
	}

	if s.ExperienceLevel != "" {
		b.WriteString("## Experience\n")
		fmt.Fprintf(&b, "- Experience: %s\n", apiv1.DisplayNameEn(apiv1.ExperienceLevels, string(s.ExperienceLevel)))
		writeBullets(&b, experienceGuidelines[s.ExperienceLevel])
		b.WriteByte('\n')
	}

	if len(s.TechnicalSkills) > 0 {
		b.WriteString("## Technical skills\n")
		b.WriteString("Ask questions about the following skills:\n")
		writeBullets(&b, s.TechnicalSkills)
		b.WriteByte('\n')
	}

	if s.Duration != "" {
		b.WriteString("## Duration\n")
		fmt.Fprintf(&b, "- Length: %d minutes\n\n", s.Duration.Minutes())
	}

	if s.Language != "" {
		b.WriteString("## Language\n")
		fmt.Fprintf(&b, "- Language: %s\n", apiv1.DisplayNameEn(apiv1.InterviewLanguages, string(s.Language)))
		b.WriteString("Conduct the whole interview in this language.\n\n")
	}

	b.WriteString("## Rules\n")
	for i, rule := range interviewRules {
		fmt.Fprintf(&b, "%d. %s\n", i+1, rule)
	}
	return b.String()
}

// StartMessage is the user turn that opens an interview.
const StartMessage = "Please start the interview. Begin with a short self introduction request and ask about the candidate's background or interests."

var assessmentAreas = []string{
	"Technical skill: the technical knowledge and understanding the candidate showed.",
	"Problem solving: how the candidate approaches and solves problems.",
	"Communication: how clearly and efficiently the candidate communicates.",
	"Experience and projects: how the candidate described past experience and projects.",
}

// SummaryPrompt is the system prompt for summarising a finished interview.
func SummaryPrompt(s apiv1.InterviewSettings) string {
	var b strings.Builder
	b.WriteString("You are a professional interview assessor. Analyse the following interview and give a comprehensive summary of the candidate's abilities.\n\n")
	b.WriteString("## Assessment areas\n")
	areas := append(append([]string{}, assessmentAreas...),
		"Strengths and improvements: the main strengths and the areas that need work.")
	for i, a := range areas {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a)
	}
	b.WriteString("\n## Response format\n")
	writeBullets(&b, []string{
		"Be objective and fair.",
		"Back feedback with concrete examples.",
		"Include constructive suggestions for improvement.",
	})
	writeJobSection(&b, s)
	writeLanguageLine(&b, s)
	return b.String()
}

// EvaluationPrompt is the system prompt asking for a structured evaluation
// matching EvaluationSchema.
func EvaluationPrompt(s apiv1.InterviewSettings) string {
	var b strings.Builder
	b.WriteString("You are a professional interview assessor. Analyse the following interview and return a structured evaluation of the candidate.\n\n")
	b.WriteString("## Assessment areas\n")
	areas := append(append([]string{}, assessmentAreas...),
		"Cultural fit: whether the candidate's values and attitude fit the organisation.",
		"Self development: the candidate's drive to grow and ability to learn.")
	for i, a := range areas {
		fmt.Fprintf(&b, "%d. %s\n", i+1, a)
	}
	writeJobSection(&b, s)
	b.WriteString("\n## Response format\n")
	b.WriteString("Respond with a single JSON object, without any surrounding text, that validates against this JSON schema:\n\n")
	b.WriteString(EvaluationSchema())
	b.WriteString("\n\nBase every score and comment on concrete answers and behaviour from the interview.\n")
	b.WriteString("hiringRecommendation must be one of \"Strong Hire\", \"Hire\", \"Maybe\" or \"No Hire\".\n")
	writeLanguageLine(&b, s)
	return b.String()
}

func writeJobSection(b *strings.Builder, s apiv1.InterviewSettings) {
	if s.JobRole == "" {
		return
	}
	b.WriteString("\n## Job\n")
	fmt.Fprintf(b, "The interview was for the role: %s\n", apiv1.DisplayNameEn(apiv1.JobRoles, string(s.JobRole)))
	b.WriteString("Focus on the core competencies this role requires.\n")
}

func writeLanguageLine(b *strings.Builder, s apiv1.InterviewSettings) {
	if s.Language == "" {
		return
	}
	fmt.Fprintf(b, "\nWrite the free text of your answer in %s.\n", apiv1.DisplayNameEn(apiv1.InterviewLanguages, string(s.Language)))
}

// Transcript renders the conversation as Candidate/Interviewer turns.
// System messages are left out.
func Transcript(messages []apiv1.ChatMessage) string {
	var b strings.Builder
	for _, m := range messages {
		switch m.Role {
		case "system":
			continue
		case "user":
			b.WriteString("Candidate: ")
		default:
			b.WriteString("Interviewer: ")
		}
		b.WriteString(m.Content)
		b.WriteString("\n\n")
	}
	return b.String()
}
