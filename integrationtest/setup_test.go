package integrationtest

import (
	"context"
	"testing"
	"time"

	"github.com/randalmurphal/flowgraph/pkg/flowgraph"
	llm "github.com/randalmurphal/llmkit/claude"

	ffcontext "github.com/randalmurphal/focusflow/context"
	"github.com/randalmurphal/focusflow/correction"
	"github.com/randalmurphal/focusflow/generate"
)

// setupServices builds the full service set backed by a mock LLM and a
// file store under the test's temp dir.
func setupServices(t *testing.T, mockLLM llm.Client) *ffcontext.Services {
	t.Helper()

	store, err := correction.NewFileStore(correction.FileStoreConfig{
		BaseDir: t.TempDir(),
	})
	if err != nil {
		t.Fatalf("NewFileStore: %v", err)
	}

	gen, err := generate.NewLLMGenerator(generate.LLMConfig{
		Creative: mockLLM,
	})
	if err != nil {
		t.Fatalf("NewLLMGenerator: %v", err)
	}

	return &ffcontext.Services{
		Generator: gen,
		Store:     store,
		Estimator: correction.NewEstimator(store),
	}
}

// setupContext creates a flowgraph.Context with all services injected.
func setupContext(t *testing.T, services *ffcontext.Services) flowgraph.Context {
	t.Helper()
	return flowgraph.NewContext(services.InjectAll(context.Background()))
}

// mockResponses creates a MockClient with sequential responses.
func mockResponses(responses ...string) *llm.MockClient {
	return llm.NewMockClient("").WithResponses(responses...)
}

// waitFor polls until the condition holds or the deadline passes.
func waitFor(t *testing.T, timeout time.Duration, cond func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(2 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", msg)
}

// Canned generator responses shared across tests.
const (
	structureJSON = `{"name": "Clean garage", "steps": ["sort boxes", "sweep floor"]}`
	classifyJSON  = `{"engagement": "neutral", "complexityScore": 4, "category": "work"}`
	estimate20    = `{"minutes": 20, "difficulty": "medium"}`
	estimate25    = `{"minutes": 25, "difficulty": "medium"}`
)
