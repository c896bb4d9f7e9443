package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"knovo/models"
)

const defaultGeminiModel = "gemini-2.0-flash-001"

const graderSystemInstruction = "You are a smart voice quiz evaluator judging a user across different answer types with category-wise scores"

// GradeResult is the structured object the grading model must return.
type GradeResult struct {
	TotalScore          float64                `json:"totalScore"`
	CategoryScores      []models.CategoryScore `json:"categoryScores"`
	Strengths           []string               `json:"strengths"`
	AreasForImprovement []string               `json:"areasForImprovement"`
	FinalAssessment     string                 `json:"finalAssessment"`
	AnswerKeyRows       []models.AnswerKeyRow  `json:"answerKeyRows"`
}

// Grader is the external grading capability: prompt in, structured result or
// error out. The Gemini client implements it; tests substitute fakes.
type Grader interface {
	Grade(ctx context.Context, prompt string) (*GradeResult, error)
}

// GeminiGrader grades transcripts with a Gemini model constrained to JSON
// output.
type GeminiGrader struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

// NewGeminiGrader constructs a grader bound to the given model name; an empty
// name selects the default model.
func NewGeminiGrader(ctx context.Context, apiKey, modelName string) (*GeminiGrader, error) {
	if apiKey == "" {
		return nil, errors.New("gemini api key is not set")
	}
	if modelName == "" {
		modelName = defaultGeminiModel
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	model := client.GenerativeModel(modelName)
	model.ResponseMIMEType = "application/json"
	model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(graderSystemInstruction)},
	}

	return &GeminiGrader{client: client, model: model}, nil
}

// Grade sends the prompt and decodes the model's JSON reply. Any transport or
// decode failure is returned as-is; the pipeline wraps it into its own error
// kind.
func (g *GeminiGrader) Grade(ctx context.Context, prompt string) (*GradeResult, error) {
	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return nil, err
	}

	text := responseText(resp)
	if text == "" {
		return nil, errors.New("empty response from model")
	}

	var result GradeResult
	if err := json.Unmarshal([]byte(cleanModelOutput(text)), &result); err != nil {
		return nil, fmt.Errorf("invalid grading response: %w", err)
	}
	return &result, nil
}

func (g *GeminiGrader) Close() error {
	return g.client.Close()
}

func responseText(resp *genai.GenerateContentResponse) string {
	var sb strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				sb.WriteString(string(text))
			}
		}
		break
	}
	return sb.String()
}

// cleanModelOutput strips the markdown fences some models wrap JSON in.
func cleanModelOutput(text string) string {
	cleaned := strings.TrimSpace(text)
	cleaned = strings.TrimPrefix(cleaned, "```json")
	cleaned = strings.TrimPrefix(cleaned, "```JSON")
	cleaned = strings.TrimPrefix(cleaned, "```")
	cleaned = strings.TrimSuffix(cleaned, "```")
	return strings.TrimSpace(cleaned)
}
