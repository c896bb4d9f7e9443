package services

import (
	"testing"

	"knovo/models"
)

func TestParseAnswerKeySingleLine(t *testing.T) {
	text := "Question 1: What is 2+2? ✓ Correct Answer: 4 Your Answer: 4 - Correct"

	rows := ParseAnswerKeyResults(text)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.Question != "What is 2+2?" {
		t.Errorf("unexpected question: %q", row.Question)
	}
	if row.CorrectAnswer != "4" {
		t.Errorf("unexpected correct answer: %q", row.CorrectAnswer)
	}
	if row.UserAnswer != "4" {
		t.Errorf("unexpected user answer: %q", row.UserAnswer)
	}
	if row.Status != models.StatusCorrect {
		t.Errorf("unexpected status: %q", row.Status)
	}
}

func TestParseAnswerKeyLineWrapped(t *testing.T) {
	text := "Question 1: What is 2+2?.\n✓ Correct Answer: 4.\nYour Answer: 4 - Correct ."

	rows := ParseAnswerKeyResults(text)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}

	row := rows[0]
	if row.Question != "What is 2+2?." {
		t.Errorf("unexpected question: %q", row.Question)
	}
	if row.CorrectAnswer != "4." {
		t.Errorf("unexpected correct answer: %q", row.CorrectAnswer)
	}
	if row.UserAnswer != "4" {
		t.Errorf("unexpected user answer: %q", row.UserAnswer)
	}
	if row.Status != models.StatusCorrect {
		t.Errorf("unexpected status: %q", row.Status)
	}
}

func TestParseAnswerKeyMultipleQuestions(t *testing.T) {
	text := "Question 1: Capital of France?\n" +
		"✓ Correct Answer: Paris\n" +
		"Your Answer: Paris - Correct\n" +
		"\n" +
		"Question 2: Capital of Japan?\n" +
		"✓ Correct Answer: Tokyo\n" +
		"Your Answer: Osaka - Incorrect"

	rows := ParseAnswerKeyResults(text)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0].Question != "Capital of France?" || rows[0].Status != models.StatusCorrect {
		t.Errorf("unexpected first row: %+v", rows[0])
	}
	if rows[1].Question != "Capital of Japan?" || rows[1].UserAnswer != "Osaka" || rows[1].Status != models.StatusIncorrect {
		t.Errorf("unexpected second row: %+v", rows[1])
	}
}

func TestParseAnswerKeyMissingUserAnswer(t *testing.T) {
	text := "Question 1: Capital of France?\n" +
		"✓ Correct Answer: Paris\n" +
		"\n" +
		"Question 2: Capital of Japan?\n" +
		"✓ Correct Answer: Tokyo\n" +
		"Your Answer:  - Skipped"

	rows := ParseAnswerKeyResults(text)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}

	if rows[0].UserAnswer != "No response" {
		t.Errorf("expected sentinel user answer, got %q", rows[0].UserAnswer)
	}
	if rows[0].Status != models.StatusSkipped {
		t.Errorf("expected skipped status, got %q", rows[0].Status)
	}
	if rows[1].UserAnswer != "No response" {
		t.Errorf("expected sentinel for empty capture, got %q", rows[1].UserAnswer)
	}
}

func TestParseAnswerKeyDropsIncompleteBlocks(t *testing.T) {
	text := "Question 1: First?\n" +
		"✓ Correct Answer: One\n" +
		"Question 2: Second?\n" +
		"Your Answer: guess - Correct"

	rows := ParseAnswerKeyResults(text)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Question != "First?" {
		t.Errorf("unexpected question: %q", rows[0].Question)
	}
}

func TestParseAnswerKeyCaseInsensitive(t *testing.T) {
	text := "QUESTION 1: x ✓ CORRECT ANSWER: y YOUR ANSWER: z - INCORRECT"

	rows := ParseAnswerKeyResults(text)
	if len(rows) != 1 {
		t.Fatalf("expected 1 row, got %d", len(rows))
	}
	if rows[0].Status != models.StatusIncorrect {
		t.Errorf("expected canonical status, got %q", rows[0].Status)
	}
}

func TestParseAnswerKeyRejectsProse(t *testing.T) {
	if rows := ParseAnswerKeyResults("The user performed well overall and spoke fluently."); rows != nil {
		t.Errorf("expected nil for prose, got %+v", rows)
	}
	if rows := ParseAnswerKeyResults(""); rows != nil {
		t.Errorf("expected nil for empty text, got %+v", rows)
	}
}

func TestParseAnswerKeyIdempotent(t *testing.T) {
	text := "Question 1: What is 2+2? ✓ Correct Answer: 4 Your Answer: 4 - Correct"

	first := ParseAnswerKeyResults(text)
	second := ParseAnswerKeyResults(text)
	if len(first) != len(second) {
		t.Fatalf("results differ between runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("row %d differs between runs", i)
		}
	}
}
