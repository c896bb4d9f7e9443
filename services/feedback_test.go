package services

import (
	"context"
	"errors"
	"strings"
	"testing"

	"knovo/models"
)

type fakeGrader struct {
	result     *GradeResult
	err        error
	calls      int
	lastPrompt string
}

func (g *fakeGrader) Grade(ctx context.Context, prompt string) (*GradeResult, error) {
	g.calls++
	g.lastPrompt = prompt
	if g.err != nil {
		return nil, g.err
	}
	return g.result, nil
}

type fakeFeedbackStore struct {
	err      error
	saves    int
	lastID   string
	lastSave models.Feedback
}

func (s *fakeFeedbackStore) SaveFeedback(ctx context.Context, id string, fb models.Feedback) (string, error) {
	s.saves++
	s.lastID = id
	s.lastSave = fb
	if s.err != nil {
		return "", s.err
	}
	if id == "" {
		id = "generated-id"
	}
	return id, nil
}

func passingGrade() *GradeResult {
	return &GradeResult{
		TotalScore: 80,
		CategoryScores: []models.CategoryScore{
			{Name: "Accuracy", Score: 80, Comment: "Mostly right"},
		},
		Strengths:           []string{"Quick recall"},
		AreasForImprovement: []string{"None"},
		FinalAssessment:     "Solid attempt",
	}
}

func TestCreateFeedbackGradesEmptyTranscript(t *testing.T) {
	grader := &fakeGrader{result: passingGrade()}
	store := &fakeFeedbackStore{}
	service := NewFeedbackService(store, grader)

	result := service.CreateFeedback(context.Background(), CreateFeedbackParams{
		QuizID:   "quiz-1",
		UserID:   "user-1",
		QuizType: models.QuizTypeMultipleChoice,
	})

	if !result.Success {
		t.Fatalf("expected success, got error: %v", result.Err)
	}
	if grader.calls != 1 {
		t.Errorf("expected exactly one grading call, got %d", grader.calls)
	}
	if store.saves != 1 {
		t.Errorf("expected exactly one store write, got %d", store.saves)
	}
	if result.FeedbackID != "generated-id" {
		t.Errorf("unexpected feedback id: %q", result.FeedbackID)
	}
}

func TestCreateFeedbackRequiresIdentifiers(t *testing.T) {
	grader := &fakeGrader{result: passingGrade()}
	store := &fakeFeedbackStore{}
	service := NewFeedbackService(store, grader)

	result := service.CreateFeedback(context.Background(), CreateFeedbackParams{
		UserID: "user-1",
	})

	if result.Success {
		t.Fatal("expected failure for missing quiz id")
	}
	if !errors.Is(result.Err, ErrInvalidTranscript) {
		t.Errorf("expected invalid transcript error, got %v", result.Err)
	}
	if grader.calls != 0 || store.saves != 0 {
		t.Errorf("expected no grading or store calls, got %d and %d", grader.calls, store.saves)
	}
}

func TestCreateFeedbackGradingFailure(t *testing.T) {
	grader := &fakeGrader{err: errors.New("model offline")}
	store := &fakeFeedbackStore{}
	service := NewFeedbackService(store, grader)

	result := service.CreateFeedback(context.Background(), CreateFeedbackParams{
		QuizID: "quiz-1",
		UserID: "user-1",
	})

	if result.Success {
		t.Fatal("expected failure when grading is down")
	}
	if !errors.Is(result.Err, ErrGradingUnavailable) {
		t.Errorf("expected grading unavailable error, got %v", result.Err)
	}
	if store.saves != 0 {
		t.Errorf("expected no store write after grading failure, got %d", store.saves)
	}
}

func TestCreateFeedbackPersistenceFailure(t *testing.T) {
	grader := &fakeGrader{result: passingGrade()}
	store := &fakeFeedbackStore{err: errors.New("write timeout")}
	service := NewFeedbackService(store, grader)

	result := service.CreateFeedback(context.Background(), CreateFeedbackParams{
		QuizID: "quiz-1",
		UserID: "user-1",
	})

	if result.Success {
		t.Fatal("expected failure when the store write fails")
	}
	if !errors.Is(result.Err, ErrPersistenceFailed) {
		t.Errorf("expected persistence error, got %v", result.Err)
	}
}

func TestCreateFeedbackOverwritesByID(t *testing.T) {
	grader := &fakeGrader{result: passingGrade()}
	store := &fakeFeedbackStore{}
	service := NewFeedbackService(store, grader)

	result := service.CreateFeedback(context.Background(), CreateFeedbackParams{
		QuizID:     "quiz-1",
		UserID:     "user-1",
		FeedbackID: "existing-feedback",
	})

	if !result.Success {
		t.Fatalf("expected success, got error: %v", result.Err)
	}
	if store.lastID != "existing-feedback" {
		t.Errorf("expected overwrite under the given id, got %q", store.lastID)
	}
	if result.FeedbackID != "existing-feedback" {
		t.Errorf("expected the same id back, got %q", result.FeedbackID)
	}
}

func TestCreateFeedbackNormalizesAssessment(t *testing.T) {
	grade := passingGrade()
	grade.FinalAssessment = "Question 1: x. Your Answer: y - Correct ."
	grader := &fakeGrader{result: grade}
	store := &fakeFeedbackStore{}
	service := NewFeedbackService(store, grader)

	result := service.CreateFeedback(context.Background(), CreateFeedbackParams{
		QuizID: "quiz-1",
		UserID: "user-1",
	})
	if !result.Success {
		t.Fatalf("expected success, got error: %v", result.Err)
	}

	want := "Question 1: x.\n Your Answer: y - Correct .\n"
	if store.lastSave.FinalAssessment != want {
		t.Errorf("assessment not normalized:\ngot  %q\nwant %q", store.lastSave.FinalAssessment, want)
	}
}

func TestBuildFeedbackPromptRendersTranscript(t *testing.T) {
	prompt := buildFeedbackPrompt(models.QuizTypeMultipleChoice, []models.TranscriptEntry{
		{Role: "assistant", Content: "What is the capital of France?"},
		{Role: "user", Content: "Paris"},
	})

	if !strings.Contains(prompt, "Quiz Type: multiple choice") {
		t.Error("prompt missing quiz type")
	}
	if !strings.Contains(prompt, "- assistant: What is the capital of France?\n") {
		t.Error("prompt missing assistant line")
	}
	if !strings.Contains(prompt, "- user: Paris\n") {
		t.Error("prompt missing user line")
	}
	if !strings.Contains(prompt, "✓ Correct Answer:") {
		t.Error("prompt missing answer key format block")
	}
}

func TestBuildFeedbackPromptDefaultsQuizType(t *testing.T) {
	prompt := buildFeedbackPrompt("", nil)
	if !strings.Contains(prompt, "Quiz Type: unknown") {
		t.Error("expected unknown quiz type for empty input")
	}
}
