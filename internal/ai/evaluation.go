package ai

import (
	"encoding/json"
	"strings"
	"sync"

	"github.com/invopop/jsonschema"
)

// Assessment scores one area of the interview
type Assessment struct {
	Score      int      `json:"score" jsonschema:"minimum=0,maximum=100"`
	Strengths  []string `json:"strengths"`
	Weaknesses []string `json:"weaknesses"`
	Comments   string   `json:"comments"`
}

// ExperienceAssessment scores the candidate's experience and its relevance to the role
type ExperienceAssessment struct {
	Score     int    `json:"score" jsonschema:"minimum=0,maximum=100"`
	Relevance int    `json:"relevance" jsonschema:"minimum=0,maximum=100"`
	Comments  string `json:"comments"`
}

// FitAssessment scores cultural fit
type FitAssessment struct {
	Score    int    `json:"score" jsonschema:"minimum=0,maximum=100"`
	Comments string `json:"comments"`
}

// Evaluation is the structured result the model is asked to produce
type Evaluation struct {
	OverallScore         int                  `json:"overallScore" jsonschema:"minimum=0,maximum=100"`
	TechnicalSkill       Assessment           `json:"technicalSkill"`
	ProblemSolving       Assessment           `json:"problemSolving"`
	Communication        Assessment           `json:"communication"`
	Experience           ExperienceAssessment `json:"experience"`
	CulturalFit          FitAssessment        `json:"culturalFit"`
	OverallEvaluation    string               `json:"overallEvaluation"`
	HiringRecommendation string               `json:"hiringRecommendation" jsonschema:"enum=Strong Hire,enum=Hire,enum=Maybe,enum=No Hire"`
	DevelopmentAreas     []string             `json:"developmentAreas"`
}

var evaluationSchema = sync.OnceValue(func() string {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	out, err := json.MarshalIndent(reflector.Reflect(&Evaluation{}), "", "  ")
	if err != nil {
		panic(err)
	}
	return string(out)
})

// EvaluationSchema returns the JSON schema of Evaluation.
func EvaluationSchema() string {
	return evaluationSchema()
}

// ParseEvaluation decodes the model's evaluation. Replies wrapped in a markdown
// code fence are accepted. Anything that is not a JSON object is returned as
// {evaluationText, isStructured: false}.
func ParseEvaluation(text string) map[string]any {
	body := strings.TrimSpace(text)
	if strings.HasPrefix(body, "```") {
		body = strings.TrimPrefix(body, "```json")
		body = strings.TrimPrefix(body, "```")
		body = strings.TrimSuffix(strings.TrimSpace(body), "```")
	}

	var result map[string]any
	if err := json.Unmarshal([]byte(body), &result); err != nil || result == nil {
		return map[string]any{
			"evaluationText": text,
			"isStructured":   false,
		}
	}
	return result
}
