package context

import (
	"context"
	"log/slog"

	llm "github.com/randalmurphal/llmkit/claude"

	"github.com/randalmurphal/focusflow/config"
	"github.com/randalmurphal/focusflow/correction"
	"github.com/randalmurphal/focusflow/generate"
	"github.com/randalmurphal/focusflow/notify"
	"github.com/randalmurphal/focusflow/prompt"
	"github.com/randalmurphal/focusflow/stage"
)

// Services wraps all focusflow services for convenient initialization
type Services struct {
	Generator generate.Generator
	Store     correction.Store
	Estimator *correction.Estimator
	Prompts   *prompt.Loader
	Notifier  notify.Notifier // Optional notification service
}

// InjectAll adds all configured services to the context
func (s *Services) InjectAll(ctx context.Context) context.Context {
	if s.Generator != nil {
		ctx = WithGenerator(ctx, s.Generator)
	}
	if s.Store != nil {
		ctx = WithStore(ctx, s.Store)
	}
	if s.Estimator != nil {
		ctx = WithEstimator(ctx, s.Estimator)
	}
	if s.Prompts != nil {
		ctx = WithPrompt(ctx, s.Prompts)
	}
	if s.Notifier != nil {
		ctx = notify.WithNotifier(ctx, s.Notifier)
	}
	return ctx
}

// NewServices creates Services from resolved settings. The correction
// store is file-backed under the data directory; the generative backend
// runs structure generation on the main model and the cheap stages on
// the fast model. A backend that cannot be constructed degrades to
// generate.Unavailable rather than failing startup.
func NewServices(settings config.Settings) (*Services, error) {
	s := &Services{}

	store, err := correction.NewFileStore(correction.FileStoreConfig{
		BaseDir: settings.DataDir,
	})
	if err != nil {
		return nil, err
	}
	s.Store = store

	s.Estimator = correction.NewEstimator(store,
		correction.WithMinObservations(settings.MinObservations),
	)

	s.Prompts = prompt.NewLoader(settings.PromptDir)

	// LLM clients via flowgraph's llm.ClaudeCLI. Non-interactive mode;
	// the engine never prompts. Unset models fall back to the per-stage
	// defaults: creative work on the default tier, cheap calls on fast.
	model := settings.Model
	if model == "" {
		model = string(stage.SelectModel(stage.Structure))
	}
	fastModel := settings.FastModel
	if fastModel == "" {
		fastModel = string(stage.SelectModel(stage.Classify))
	}
	creative := llm.NewClaudeCLI(
		llm.WithModel(model),
		llm.WithDangerouslySkipPermissions(),
	)
	deterministic := llm.NewClaudeCLI(
		llm.WithModel(fastModel),
		llm.WithDangerouslySkipPermissions(),
	)

	gen, err := generate.NewLLMGenerator(generate.LLMConfig{
		Creative:      creative,
		Deterministic: deterministic,
		Prompts:       s.Prompts,
	})
	if err != nil {
		slog.Warn("generator unavailable, estimation will use population defaults", "error", err)
		s.Generator = generate.Unavailable()
	} else {
		s.Generator = gen
	}

	if settings.WebhookURL != "" {
		s.Notifier = notify.NewWebhookNotifier(settings.WebhookURL, nil)
	}

	return s, nil
}
