package generate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	llm "github.com/randalmurphal/llmkit/claude"
	fferrors "github.com/randalmurphal/focusflow/errors"
	"github.com/randalmurphal/focusflow/prompt"
)

// LLMConfig configures an LLMGenerator.
type LLMConfig struct {
	// Creative handles structure generation. Required.
	Creative llm.Client

	// Deterministic handles classification and per-step estimation.
	// Falls back to Creative when nil.
	Deterministic llm.Client

	// Prompts supplies system prompts. Optional; inline prompts carry the
	// task-specific content either way.
	Prompts *prompt.Loader
}

// LLMGenerator implements Generator over flowgraph's llm.Client.
type LLMGenerator struct {
	creative      llm.Client
	deterministic llm.Client
	prompts       *prompt.Loader
}

// NewLLMGenerator creates an LLM-backed generator.
// Returns ErrGeneratorUnavailable when no client is configured.
func NewLLMGenerator(cfg LLMConfig) (*LLMGenerator, error) {
	if cfg.Creative == nil {
		return nil, fferrors.ErrGeneratorUnavailable
	}

	deterministic := cfg.Deterministic
	if deterministic == nil {
		deterministic = cfg.Creative
	}

	return &LLMGenerator{
		creative:      cfg.Creative,
		deterministic: deterministic,
		prompts:       cfg.Prompts,
	}, nil
}

// GenerateStructure implements Generator.
func (g *LLMGenerator) GenerateStructure(ctx context.Context, taskText string) (*Structure, error) {
	out, err := g.complete(ctx, g.creative, "generate-structure", formatStructurePrompt(taskText))
	if err != nil {
		return nil, err
	}

	var structure Structure
	if err := extractJSON([]byte(out), &structure); err != nil {
		return nil, fmt.Errorf("%w: structure: %v", fferrors.ErrBadGeneratorResponse, err)
	}
	if structure.Name == "" {
		structure.Name = taskText
	}
	if len(structure.Steps) == 0 {
		return nil, fmt.Errorf("%w: structure has no steps", fferrors.ErrBadGeneratorResponse)
	}
	return &structure, nil
}

// Classify implements Generator. Out-of-range or unknown values fail
// explicitly; a low-confidence guess is never passed through silently.
func (g *LLMGenerator) Classify(ctx context.Context, taskText string, steps []string) (*Classification, error) {
	out, err := g.complete(ctx, g.deterministic, "classify-task", formatClassifyPrompt(taskText, steps))
	if err != nil {
		return nil, err
	}

	var cls Classification
	if err := extractJSON([]byte(out), &cls); err != nil {
		return nil, fmt.Errorf("%w: classification: %v", fferrors.ErrBadGeneratorResponse, err)
	}
	if !cls.Engagement.Valid() {
		return nil, fmt.Errorf("%w: unknown engagement %q", fferrors.ErrBadGeneratorResponse, cls.Engagement)
	}
	if !cls.Category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", fferrors.ErrBadGeneratorResponse, cls.Category)
	}
	if cls.ComplexityScore < 1 || cls.ComplexityScore > 10 {
		return nil, fmt.Errorf("%w: complexity score %d outside 1-10", fferrors.ErrBadGeneratorResponse, cls.ComplexityScore)
	}
	return &cls, nil
}

// EstimateStep implements Generator. Minutes outside 1..120 are clamped;
// a non-positive or unparseable value fails.
func (g *LLMGenerator) EstimateStep(ctx context.Context, taskText, stepText string) (*StepEstimate, error) {
	out, err := g.complete(ctx, g.deterministic, "estimate-step", formatEstimatePrompt(taskText, stepText))
	if err != nil {
		return nil, err
	}

	var est StepEstimate
	if err := extractJSON([]byte(out), &est); err != nil {
		return nil, fmt.Errorf("%w: step estimate: %v", fferrors.ErrBadGeneratorResponse, err)
	}
	if est.Minutes <= 0 {
		return nil, fmt.Errorf("%w: step minutes %d", fferrors.ErrBadGeneratorResponse, est.Minutes)
	}
	if est.Minutes > MaxStepMinutes {
		est.Minutes = MaxStepMinutes
	}
	return &est, nil
}

// complete runs one LLM call with an optional system prompt from the
// loader.
func (g *LLMGenerator) complete(ctx context.Context, client llm.Client, promptName, userPrompt string) (string, error) {
	var systemPrompt string
	if g.prompts != nil {
		if sp, err := g.prompts.Load(promptName); err == nil {
			systemPrompt = sp
		}
	}

	result, err := client.Complete(ctx, llm.CompletionRequest{
		SystemPrompt: systemPrompt,
		Messages:     []llm.Message{{Role: llm.RoleUser, Content: userPrompt}},
	})
	if err != nil {
		if ctx.Err() != nil {
			return "", ctx.Err()
		}
		return "", fmt.Errorf("%w: %s: %v", fferrors.ErrGeneratorCallFailed, promptName, err)
	}
	return result.Content, nil
}

// =============================================================================
// Prompt Formatting
// =============================================================================

func formatStructurePrompt(taskText string) string {
	var b strings.Builder
	b.WriteString("Break this task into concrete steps:\n\n")
	b.WriteString(taskText)
	b.WriteString("\n\nRespond with JSON: {\"name\": string, \"steps\": [string]}\n")
	b.WriteString("Use a short, recognizable task name and 2-7 steps.")
	return b.String()
}

func formatClassifyPrompt(taskText string, steps []string) string {
	var b strings.Builder
	b.WriteString("Classify this task:\n\n")
	b.WriteString(taskText)
	if len(steps) > 0 {
		b.WriteString("\n\nSteps:\n")
		for _, step := range steps {
			b.WriteString("- ")
			b.WriteString(step)
			b.WriteString("\n")
		}
	}
	b.WriteString("\nRespond with JSON: {\"engagement\": \"dreading\"|\"neutral\"|\"excited\", ")
	b.WriteString("\"complexityScore\": 1-10, \"category\": \"work\"|\"personal\"|\"chores\"|\"creative\"|\"learning\"|\"health\"|\"admin\"}")
	return b.String()
}

func formatEstimatePrompt(taskText, stepText string) string {
	var b strings.Builder
	b.WriteString("Estimate how many minutes this step takes:\n\n")
	b.WriteString("Task: ")
	b.WriteString(taskText)
	b.WriteString("\nStep: ")
	b.WriteString(stepText)
	b.WriteString("\n\nRespond with JSON: {\"minutes\": 1-120, \"difficulty\": \"easy\"|\"medium\"|\"hard\"}")
	return b.String()
}

// =============================================================================
// Response Parsing
// =============================================================================

// extractJSON parses v out of model output. Direct parse first; if the
// JSON is wrapped in prose or a code fence, salvage the outermost object.
func extractJSON(data []byte, v any) error {
	data = bytes.TrimSpace(data)

	if err := json.Unmarshal(data, v); err == nil {
		return nil
	}

	start := bytes.Index(data, []byte("{"))
	end := bytes.LastIndex(data, []byte("}"))
	if start < 0 || end <= start {
		return fmt.Errorf("no json found in output")
	}
	if err := json.Unmarshal(data[start:end+1], v); err != nil {
		return fmt.Errorf("parse json output: %w", err)
	}
	return nil
}
