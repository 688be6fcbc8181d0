package generate

import (
	"context"
	"errors"
	"testing"

	llm "github.com/randalmurphal/llmkit/claude"
	fferrors "github.com/randalmurphal/focusflow/errors"
)

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"plain object", `{"name": "Clean kitchen", "steps": ["clear counters"]}`, false},
		{"surrounded by prose", "Here's the breakdown:\n\n{\"name\": \"x\", \"steps\": [\"a\"]}\n\nDone!", false},
		{"code fence", "```json\n{\"name\": \"x\", \"steps\": [\"a\"]}\n```", false},
		{"no json", "I couldn't break that down.", true},
		{"broken json", `{"name": "x", "steps": [`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var s Structure
			err := extractJSON([]byte(tt.input), &s)
			if (err != nil) != tt.wantErr {
				t.Errorf("extractJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func newTestGenerator(t *testing.T, responses ...string) *LLMGenerator {
	t.Helper()
	g, err := NewLLMGenerator(LLMConfig{
		Creative: llm.NewMockClient("").WithResponses(responses...),
	})
	if err != nil {
		t.Fatalf("NewLLMGenerator: %v", err)
	}
	return g
}

func TestGenerateStructure(t *testing.T) {
	g := newTestGenerator(t, `{"name": "Clean kitchen", "steps": ["clear counters", "wash dishes"]}`)

	s, err := g.GenerateStructure(context.Background(), "clean the kitchen")
	if err != nil {
		t.Fatalf("GenerateStructure: %v", err)
	}
	if s.Name != "Clean kitchen" || len(s.Steps) != 2 {
		t.Errorf("unexpected structure: %+v", s)
	}
}

func TestGenerateStructureEmptySteps(t *testing.T) {
	g := newTestGenerator(t, `{"name": "x", "steps": []}`)

	_, err := g.GenerateStructure(context.Background(), "x")
	if !errors.Is(err, fferrors.ErrBadGeneratorResponse) {
		t.Errorf("err = %v, want ErrBadGeneratorResponse", err)
	}
}

func TestClassifyValidation(t *testing.T) {
	tests := []struct {
		name     string
		response string
		wantErr  bool
	}{
		{"valid", `{"engagement": "dreading", "complexityScore": 7, "category": "chores"}`, false},
		{"unknown engagement", `{"engagement": "thrilled", "complexityScore": 7, "category": "chores"}`, true},
		{"unknown category", `{"engagement": "neutral", "complexityScore": 7, "category": "mystery"}`, true},
		{"score too low", `{"engagement": "neutral", "complexityScore": 0, "category": "work"}`, true},
		{"score too high", `{"engagement": "neutral", "complexityScore": 11, "category": "work"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(t, tt.response)
			_, err := g.Classify(context.Background(), "task", []string{"step"})
			if tt.wantErr {
				if !errors.Is(err, fferrors.ErrBadGeneratorResponse) {
					t.Errorf("err = %v, want ErrBadGeneratorResponse", err)
				}
			} else if err != nil {
				t.Errorf("Classify: %v", err)
			}
		})
	}
}

func TestEstimateStepClamping(t *testing.T) {
	tests := []struct {
		name     string
		response string
		want     int
		wantErr  bool
	}{
		{"in range", `{"minutes": 25, "difficulty": "medium"}`, 25, false},
		{"above max clamps", `{"minutes": 300, "difficulty": "hard"}`, MaxStepMinutes, false},
		{"zero fails", `{"minutes": 0, "difficulty": "easy"}`, 0, true},
		{"negative fails", `{"minutes": -5, "difficulty": "easy"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGenerator(t, tt.response)
			est, err := g.EstimateStep(context.Background(), "task", "step")
			if tt.wantErr {
				if !errors.Is(err, fferrors.ErrBadGeneratorResponse) {
					t.Errorf("err = %v, want ErrBadGeneratorResponse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("EstimateStep: %v", err)
			}
			if est.Minutes != tt.want {
				t.Errorf("Minutes = %d, want %d", est.Minutes, tt.want)
			}
		})
	}
}

func TestNewLLMGeneratorRequiresClient(t *testing.T) {
	_, err := NewLLMGenerator(LLMConfig{})
	if !errors.Is(err, fferrors.ErrGeneratorUnavailable) {
		t.Errorf("err = %v, want ErrGeneratorUnavailable", err)
	}
}

func TestUnavailableGenerator(t *testing.T) {
	g := Unavailable()
	ctx := context.Background()

	if _, err := g.GenerateStructure(ctx, "x"); !errors.Is(err, fferrors.ErrGeneratorUnavailable) {
		t.Errorf("GenerateStructure err = %v", err)
	}
	if _, err := g.Classify(ctx, "x", nil); !errors.Is(err, fferrors.ErrGeneratorUnavailable) {
		t.Errorf("Classify err = %v", err)
	}
	if _, err := g.EstimateStep(ctx, "x", "y"); !errors.Is(err, fferrors.ErrGeneratorUnavailable) {
		t.Errorf("EstimateStep err = %v", err)
	}
}
