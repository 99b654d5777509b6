package exam

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/veritasedu/veritas/internal/app/models"
	"github.com/veritasedu/veritas/internal/pkg/apperrors"
)

func sampleQuestions(n int) []models.Question {
	questions := make([]models.Question, 0, n)
	letters := []string{"A", "B", "C", "D", "E"}
	for i := 0; i < n; i++ {
		options := make([]string, models.OptionCount)
		for j := range options {
			options[j] = letters[j] + " da questão"
		}
		questions = append(questions, models.Question{
			ID:           i + 1,
			Text:         "Enunciado",
			Options:      options,
			CorrectIndex: i % models.OptionCount,
			Explanation:  "Comentário",
		})
	}
	return questions
}

func TestShuffleValidation(t *testing.T) {
	engine := NewEngineWithSource(rand.NewSource(1))

	tests := []struct {
		name      string
		questions []models.Question
		wantErr   error
	}{
		{
			name:    "empty set",
			wantErr: apperrors.ErrNoQuestions,
		},
		{
			name: "wrong option count",
			questions: []models.Question{
				{ID: 1, Options: []string{"a", "b"}, CorrectIndex: 0},
			},
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name: "correct index out of range",
			questions: []models.Question{
				{ID: 1, Options: []string{"a", "b", "c", "d", "e"}, CorrectIndex: 5},
			},
			wantErr: apperrors.ErrValidationFailed,
		},
		{
			name: "duplicate question id",
			questions: func() []models.Question {
				qs := sampleQuestions(2)
				qs[1].ID = qs[0].ID
				return qs
			}(),
			wantErr: apperrors.ErrValidationFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := engine.Shuffle(tt.questions)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Shuffle() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

// TestShuffleReversible checks that the position map undoes the option
// permutation: for every visual slot, the displayed text equals the canonical
// text at the mapped original index.
func TestShuffleReversible(t *testing.T) {
	original := sampleQuestions(10)
	byID := make(map[int]models.Question, len(original))
	for _, q := range original {
		byID[q.ID] = q
	}

	for seed := int64(0); seed < 20; seed++ {
		engine := NewEngineWithSource(rand.NewSource(seed))
		shuffled, err := engine.Shuffle(original)
		if err != nil {
			t.Fatalf("Shuffle() error = %v", err)
		}

		if len(shuffled.Questions) != len(original) {
			t.Fatalf("got %d questions, want %d", len(shuffled.Questions), len(original))
		}

		for _, q := range shuffled.Questions {
			canonical, ok := byID[q.ID]
			if !ok {
				t.Fatalf("unknown question id %d after shuffle", q.ID)
			}
			perm := shuffled.PositionMap[q.ID]
			if len(perm) != models.OptionCount {
				t.Fatalf("question %d: perm length %d", q.ID, len(perm))
			}
			for visual, originalIdx := range perm {
				if q.Options[visual] != canonical.Options[originalIdx] {
					t.Errorf("seed %d question %d: option at visual %d maps wrong", seed, q.ID, visual)
				}
			}
		}
	}
}

func TestShuffleDoesNotMutateInput(t *testing.T) {
	original := sampleQuestions(5)
	firstOptions := make([]string, len(original[0].Options))
	copy(firstOptions, original[0].Options)

	engine := NewEngineWithSource(rand.NewSource(7))
	if _, err := engine.Shuffle(original); err != nil {
		t.Fatalf("Shuffle() error = %v", err)
	}

	for i, opt := range original[0].Options {
		if opt != firstOptions[i] {
			t.Fatalf("input question options mutated at %d", i)
		}
	}
}

func TestGradeScoring(t *testing.T) {
	original := sampleQuestions(5)
	engine := NewEngineWithSource(rand.NewSource(42))
	shuffled, err := engine.Shuffle(original)
	if err != nil {
		t.Fatalf("Shuffle() error = %v", err)
	}

	// Pick the correct visual slot for the first three question ids and a
	// wrong one for the rest.
	answers := make(map[int]int)
	for _, q := range shuffled.Questions {
		perm := shuffled.PositionMap[q.ID]
		correctVisual := visualOf(perm, q.CorrectIndex)
		if q.ID <= 3 {
			answers[q.ID] = correctVisual
		} else {
			answers[q.ID] = (correctVisual + 1) % models.OptionCount
		}
	}

	report, err := shuffled.Grade(answers)
	if err != nil {
		t.Fatalf("Grade() error = %v", err)
	}
	if report.Correct != 3 || report.Total != 5 {
		t.Fatalf("got %d/%d correct, want 3/5", report.Correct, report.Total)
	}
	if report.Score != 60.0 {
		t.Fatalf("got score %v, want 60.0", report.Score)
	}
	for _, detail := range report.Details {
		if detail.CorrectOption == "" {
			t.Errorf("question %d: empty correct option text", detail.QuestionID)
		}
	}
}

func TestGradeUnansweredNeverCorrect(t *testing.T) {
	original := sampleQuestions(4)
	engine := NewEngineWithSource(rand.NewSource(3))
	shuffled, err := engine.Shuffle(original)
	if err != nil {
		t.Fatalf("Shuffle() error = %v", err)
	}

	tests := []struct {
		name    string
		answers map[int]int
	}{
		{name: "nil answers", answers: nil},
		{name: "no selection sentinel", answers: map[int]int{1: NoSelection, 2: NoSelection}},
		{name: "out of range selections", answers: map[int]int{1: 99, 2: -5, 3: models.OptionCount}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := shuffled.Grade(tt.answers)
			if err != nil {
				t.Fatalf("Grade() error = %v", err)
			}
			if report.Correct != 0 {
				t.Fatalf("got %d correct, want 0", report.Correct)
			}
			if report.Score != 0 {
				t.Fatalf("got score %v, want 0", report.Score)
			}
			for _, detail := range report.Details {
				if detail.Selected != "" {
					t.Errorf("question %d: unanswered but Selected=%q", detail.QuestionID, detail.Selected)
				}
			}
		})
	}
}

func TestGradeEmptyExam(t *testing.T) {
	empty := &ShuffledExam{}
	if _, err := empty.Grade(nil); !errors.Is(err, apperrors.ErrNoQuestions) {
		t.Fatalf("Grade() error = %v, want ErrNoQuestions", err)
	}
}
