package pipeline

import (
	"context"
	goerrors "errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	nanoid "github.com/matoous/go-nanoid/v2"

	"github.com/randalmurphal/focusflow/bucket"
	"github.com/randalmurphal/focusflow/correction"
	fferrors "github.com/randalmurphal/focusflow/errors"
	"github.com/randalmurphal/focusflow/generate"
	"github.com/randalmurphal/focusflow/notify"
)

// =============================================================================
// Configuration
// =============================================================================

const (
	// DefaultFinalizeTimeout bounds how long Finalize waits for an
	// in-flight estimation before falling back to population defaults.
	DefaultFinalizeTimeout = 15 * time.Second

	// DefaultBaselineMinutes backs tasks committed before per-step
	// estimation produced a real baseline. A committed task never carries
	// a zero baseline.
	DefaultBaselineMinutes = 30
)

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger for session lifecycle output.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithNotifier routes pipeline events to a notifier.
func WithNotifier(n notify.Notifier) SessionOption {
	return func(s *Session) {
		s.notifier = n
	}
}

// WithFinalizeTimeout overrides the bounded wait in Finalize.
func WithFinalizeTimeout(d time.Duration) SessionOption {
	return func(s *Session) {
		if d > 0 {
			s.finalizeTimeout = d
		}
	}
}

// WithDefaultBaseline overrides the fallback baseline minutes.
func WithDefaultBaseline(minutes float64) SessionOption {
	return func(s *Session) {
		if minutes > 0 {
			s.defaultBaseline = minutes
		}
	}
}

// =============================================================================
// Results
// =============================================================================

// Estimate is the displayable outcome of the estimation stages.
type Estimate struct {
	Low        int                   `json:"low"`
	High       int                   `json:"high"`
	Confidence correction.Confidence `json:"confidence"`
	Source     string                `json:"source"`
	Factor     float64               `json:"factor"`
}

// ClassificationOverride carries user corrections applied at
// confirmation. Nil fields keep the generated value.
type ClassificationOverride struct {
	Engagement      *bucket.Engagement
	Category        *bucket.Category
	ComplexityScore *int
}

// CommitResult is the finalized task produced by a session. Baseline
// minutes are always positive; callers can store the result and later
// feed actuals back through Complete.
type CommitResult struct {
	SessionID       string                  `json:"sessionId"`
	Name            string                  `json:"name"`
	Steps           []string                `json:"steps"`
	BaselineMinutes float64                 `json:"baselineMinutes"`
	Classification  generate.Classification `json:"classification"`
	Attributes      bucket.Attributes       `json:"attributes"`
	Estimate        Estimate                `json:"estimate"`
}

// =============================================================================
// Session
// =============================================================================

// Session drives one task through structure generation, classification
// and estimation. All exported methods are safe for concurrent use; the
// background stages synchronize through the session mutex and
// per-call-kind sequence numbers.
type Session struct {
	id        string
	generator generate.Generator
	estimator *correction.Estimator
	notifier  notify.Notifier
	logger    *slog.Logger

	finalizeTimeout time.Duration
	defaultBaseline float64

	mu             sync.Mutex
	state          State
	taskText       string
	structure      *generate.Structure
	classification *generate.Classification
	degraded       bool

	baselineMinutes float64
	attrs           *bucket.Attributes
	estimate        *Estimate

	classifySeq    uint64
	classifyCancel context.CancelFunc

	estimateSeq     uint64
	estimateCancel  context.CancelFunc
	estimateSettled chan struct{}

	observed bool
}

// NewSession creates an idle session. A nil generator degrades every
// generative stage to population defaults instead of failing.
func NewSession(gen generate.Generator, est *correction.Estimator, opts ...SessionOption) (*Session, error) {
	if est == nil {
		return nil, goerrors.New("pipeline: estimator is required")
	}
	if gen == nil {
		gen = generate.Unavailable()
	}

	id, err := nanoid.New()
	if err != nil {
		return nil, fmt.Errorf("generate session id: %w", err)
	}

	s := &Session{
		id:              "sess_" + id,
		generator:       gen,
		estimator:       est,
		logger:          slog.Default(),
		finalizeTimeout: DefaultFinalizeTimeout,
		defaultBaseline: DefaultBaselineMinutes,
		state:           StateIdle,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// ID returns the session identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Degraded reports whether the generative backend was unavailable and
// the session is running on population defaults.
func (s *Session) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// Structure returns a copy of the current step breakdown.
func (s *Session) Structure() (generate.Structure, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.structure == nil {
		return generate.Structure{}, false
	}
	return generate.Structure{
		Name:  s.structure.Name,
		Steps: append([]string(nil), s.structure.Steps...),
	}, true
}

// Classification returns the current classification, generated or
// confirmed. The second return is false while none has landed.
func (s *Session) Classification() (generate.Classification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.classification == nil {
		return generate.Classification{}, false
	}
	return *s.classification, true
}

// CurrentEstimate returns the latest estimate if one is available.
// Callers poll this to surface the range as soon as estimation lands.
func (s *Session) CurrentEstimate() (Estimate, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.estimate == nil {
		return Estimate{}, false
	}
	return *s.estimate, true
}

// BaselineMinutes returns the summed per-step baseline, or zero while
// estimation has not produced one.
func (s *Session) BaselineMinutes() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.baselineMinutes
}

// =============================================================================
// Lifecycle
// =============================================================================

// Start runs structure generation for the task text. This is the only
// stage that blocks the caller; classification begins in the background
// as soon as the structure arrives. An unavailable backend degrades the
// session to population defaults rather than failing Start.
func (s *Session) Start(ctx context.Context, taskText string) error {
	s.mu.Lock()
	if err := s.terminalErrLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if s.state != StateIdle {
		s.mu.Unlock()
		return fmt.Errorf("start: session is %s", s.state)
	}
	s.state = StateGeneratingStructure
	s.taskText = taskText
	s.mu.Unlock()

	s.emit(notify.EventSessionStarted, "structure", "structure generation started", notify.SeverityInfo, nil)

	structure, err := s.generator.GenerateStructure(ctx, taskText)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.Terminal() {
		return s.terminalErrLocked()
	}

	if goerrors.Is(err, fferrors.ErrGeneratorUnavailable) {
		s.enterDegradedLocked(taskText)
		return nil
	}
	if err != nil {
		// Recoverable: the session returns to idle so the caller can retry.
		s.state = StateIdle
		s.emit(notify.EventStageFailed, "structure", err.Error(), notify.SeverityError, nil)
		return fmt.Errorf("generate structure: %w", err)
	}

	s.structure = structure
	s.state = StateAwaitingUserEdit
	s.emit(notify.EventStageCompleted, "structure", "structure generated", notify.SeverityInfo,
		map[string]any{"steps": len(structure.Steps)})
	s.startClassificationLocked()
	return nil
}

// enterDegradedLocked sets up the backend-missing path: a single-step
// structure named after the task text and a population-default estimate,
// so the session stays fully usable.
func (s *Session) enterDegradedLocked(taskText string) {
	s.degraded = true
	s.structure = &generate.Structure{Name: taskText, Steps: []string{taskText}}
	s.baselineMinutes = s.defaultBaseline
	est := s.populationEstimate(bucket.EngagementNeutral, s.defaultBaseline)
	s.estimate = &est
	s.state = StateAwaitingUserEdit

	s.logger.Warn("generator unavailable, session degraded to population defaults", "session", s.id)
	s.emit(notify.EventStageFailed, "structure", "generator unavailable", notify.SeverityWarning, nil)
}

// SubmitEdit replaces the step list. Any in-flight classification is
// canceled and restarted against the new steps; a pending or finished
// estimation is invalidated because its step baselines no longer match.
func (s *Session) SubmitEdit(steps []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.terminalErrLocked(); err != nil {
		return err
	}
	switch s.state {
	case StateIdle:
		return fferrors.ErrNotStarted
	case StateGeneratingStructure:
		return goerrors.New("submit edit: structure generation still running")
	}

	s.structure.Steps = append([]string(nil), steps...)
	s.state = StateAwaitingUserEdit

	if s.degraded {
		// The population-default estimate does not depend on steps.
		return nil
	}

	s.cancelEstimateLocked()
	s.estimate = nil
	s.baselineMinutes = 0
	s.attrs = nil
	s.startClassificationLocked()
	return nil
}

// ConfirmClassification locks in the classification, applying any user
// override on top of the generated values, and starts per-step
// estimation. When no classification has landed yet the neutral default
// is used so confirmation never blocks on the backend. Re-confirming
// restarts estimation.
func (s *Session) ConfirmClassification(override *ClassificationOverride) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.terminalErrLocked(); err != nil {
		return err
	}
	switch s.state {
	case StateIdle:
		return fferrors.ErrNotStarted
	case StateGeneratingStructure:
		return goerrors.New("confirm: structure generation still running")
	}

	s.confirmLocked(override)
	return nil
}

func (s *Session) confirmLocked(override *ClassificationOverride) {
	// A classification still in flight must not overwrite the confirmed
	// values after the fact.
	s.cancelClassifyLocked()

	cls := s.classificationOrDefaultLocked()
	if override != nil {
		if override.Engagement != nil {
			cls.Engagement = *override.Engagement
		}
		if override.Category != nil {
			cls.Category = *override.Category
		}
		if override.ComplexityScore != nil {
			cls.ComplexityScore = *override.ComplexityScore
		}
	}
	s.classification = &cls

	if s.degraded {
		est := s.populationEstimate(cls.Engagement, s.baselineMinutes)
		s.estimate = &est
		attrs := bucket.NewAttributes(cls.Engagement, cls.Category, cls.ComplexityScore, s.baselineMinutes)
		s.attrs = &attrs
		s.state = StateReady
		return
	}

	s.state = StateAwaitingConfirmation
	s.startEstimationLocked()
}

// Finalize commits the session into a task. An in-flight estimation is
// waited for up to the finalize timeout; past that, or after an
// estimation failure, the task commits with the engagement tag's
// population default so the baseline is never left unset.
func (s *Session) Finalize(ctx context.Context) (*CommitResult, error) {
	s.mu.Lock()
	if err := s.terminalErrLocked(); err != nil {
		s.mu.Unlock()
		return nil, err
	}
	switch s.state {
	case StateIdle, StateGeneratingStructure:
		s.mu.Unlock()
		return nil, fferrors.ErrNotStarted
	}

	// Finalizing straight from the edit screen implies confirmation with
	// the generated (or default) classification.
	if s.state == StateAwaitingUserEdit {
		s.confirmLocked(nil)
	}

	if s.state == StateReady {
		res := s.commitLocked()
		s.mu.Unlock()
		return res, nil
	}

	settled := s.estimateSettled
	timeout := s.finalizeTimeout
	s.mu.Unlock()

	if settled != nil {
		timer := time.NewTimer(timeout)
		defer timer.Stop()
		select {
		case <-settled:
		case <-timer.C:
			s.logger.Warn("finalize timed out waiting for estimation",
				"session", s.id, "timeout", timeout)
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.terminalErrLocked(); err != nil {
		return nil, err
	}
	if s.state != StateReady {
		s.fallbackEstimateLocked()
	}
	return s.commitLocked(), nil
}

// Abandon discards the session and cancels all background work.
// Abandoning twice is a no-op; a committed session cannot be abandoned.
func (s *Session) Abandon() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state == StateCommitted {
		return fferrors.ErrSessionCommitted
	}
	if s.state == StateAbandoned {
		return nil
	}

	s.cancelClassifyLocked()
	s.cancelEstimateLocked()
	s.state = StateAbandoned
	s.emit(notify.EventSessionAbandoned, "", "session abandoned", notify.SeverityInfo, nil)
	return nil
}

// Complete records the actual minutes for the committed task, feeding
// the actual/baseline ratio back into every bucket level the task maps
// to. Only a committed session can complete, and only once.
func (s *Session) Complete(actualMinutes float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateCommitted {
		return fmt.Errorf("complete: session is %s, not committed", s.state)
	}
	if s.observed {
		return goerrors.New("complete: completion already recorded")
	}

	if err := s.estimator.RecordCompletion(*s.attrs, s.baselineMinutes, actualMinutes); err != nil {
		return err
	}
	s.observed = true
	s.emit(notify.EventObservationRecorded, "", "completion recorded", notify.SeverityInfo,
		map[string]any{"baseline": s.baselineMinutes, "actual": actualMinutes})
	return nil
}

// =============================================================================
// Background stages
// =============================================================================

func (s *Session) startClassificationLocked() {
	if s.degraded {
		return
	}
	s.cancelClassifyLocked()
	seq := s.classifySeq

	ctx, cancel := context.WithCancel(context.Background())
	s.classifyCancel = cancel

	task := s.taskText
	steps := append([]string(nil), s.structure.Steps...)
	go s.runClassify(ctx, seq, task, steps)
}

func (s *Session) runClassify(ctx context.Context, seq uint64, task string, steps []string) {
	cls, err := s.generator.Classify(ctx, task, steps)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.classifySeq {
		s.logger.Debug("discarding stale classification", "session", s.id, "seq", seq)
		return
	}
	s.classifyCancel = nil

	if err != nil {
		if ctx.Err() != nil || goerrors.Is(err, context.Canceled) {
			return
		}
		s.logger.Warn("classification failed", "session", s.id, "error", err)
		s.emit(notify.EventStageFailed, "classify", err.Error(), notify.SeverityWarning, nil)
		return
	}

	s.classification = cls
	s.emit(notify.EventStageCompleted, "classify", "task classified", notify.SeverityInfo,
		map[string]any{
			"engagement": string(cls.Engagement),
			"category":   string(cls.Category),
			"complexity": cls.ComplexityScore,
		})
}

func (s *Session) startEstimationLocked() {
	s.cancelEstimateLocked()
	seq := s.estimateSeq

	ctx, cancel := context.WithCancel(context.Background())
	s.estimateCancel = cancel
	settled := make(chan struct{})
	s.estimateSettled = settled

	s.estimate = nil
	s.baselineMinutes = 0
	s.attrs = nil

	task := s.taskText
	steps := append([]string(nil), s.structure.Steps...)
	cls := *s.classification
	go s.runEstimate(ctx, seq, task, steps, cls, settled)
}

func (s *Session) runEstimate(ctx context.Context, seq uint64, task string, steps []string, cls generate.Classification, settled chan struct{}) {
	defer close(settled)

	if len(steps) == 0 {
		steps = []string{task}
	}

	total := 0
	var callErr error
	for _, step := range steps {
		est, err := s.generator.EstimateStep(ctx, task, step)
		if err != nil {
			callErr = err
			break
		}
		total += est.Minutes
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.estimateSeq {
		s.logger.Debug("discarding stale estimation", "session", s.id, "seq", seq)
		return
	}
	s.estimateCancel = nil

	if callErr != nil {
		if ctx.Err() != nil || goerrors.Is(callErr, context.Canceled) {
			return
		}
		s.logger.Warn("step estimation failed", "session", s.id, "error", callErr)
		s.emit(notify.EventStageFailed, "estimate", callErr.Error(), notify.SeverityWarning, nil)
		return
	}

	baseline := float64(total)
	attrs := bucket.NewAttributes(cls.Engagement, cls.Category, cls.ComplexityScore, baseline)

	rng, lookup, err := s.estimator.Estimate(attrs, baseline)
	if err != nil {
		s.logger.Warn("correction lookup failed, serving population default",
			"session", s.id, "error", err)
		priors := bucket.DefaultPriors(cls.Engagement)
		rng = correction.RangeFor(baseline*priors.Mean, correction.ConfidenceVeryLow)
		lookup = correction.Lookup{
			Factor:     priors.Mean,
			Confidence: correction.ConfidenceVeryLow,
			Source:     fmt.Sprintf("typical %s tasks", cls.Engagement),
		}
	}

	s.baselineMinutes = baseline
	s.attrs = &attrs
	s.estimate = &Estimate{
		Low:        rng.Low,
		High:       rng.High,
		Confidence: lookup.Confidence,
		Source:     lookup.Source,
		Factor:     lookup.Factor,
	}
	s.state = StateReady
	s.emit(notify.EventEstimateReady, "estimate",
		fmt.Sprintf("%d-%d minutes", rng.Low, rng.High), notify.SeverityInfo,
		map[string]any{"low": rng.Low, "high": rng.High, "confidence": string(lookup.Confidence)})
}

// =============================================================================
// Internal helpers
// =============================================================================

// cancelClassifyLocked invalidates the current classification attempt.
// The sequence bump alone makes a late result stale even if the backend
// ignores cancellation.
func (s *Session) cancelClassifyLocked() {
	s.classifySeq++
	if s.classifyCancel != nil {
		s.classifyCancel()
		s.classifyCancel = nil
	}
}

func (s *Session) cancelEstimateLocked() {
	s.estimateSeq++
	if s.estimateCancel != nil {
		s.estimateCancel()
		s.estimateCancel = nil
	}
	s.estimateSettled = nil
}

func (s *Session) terminalErrLocked() error {
	switch s.state {
	case StateCommitted:
		return fferrors.ErrSessionCommitted
	case StateAbandoned:
		return fferrors.ErrSessionAbandoned
	}
	return nil
}

// classificationOrDefaultLocked returns the landed classification, or
// the neutral default when classification failed or has not resolved.
func (s *Session) classificationOrDefaultLocked() generate.Classification {
	if s.classification != nil {
		return *s.classification
	}
	return generate.Classification{
		Engagement:      bucket.EngagementNeutral,
		ComplexityScore: 5,
		Category:        bucket.CategoryPersonal,
	}
}

func (s *Session) populationEstimate(eng bucket.Engagement, baseline float64) Estimate {
	priors := bucket.DefaultPriors(eng)
	rng := correction.RangeFor(baseline*priors.Mean, correction.ConfidenceVeryLow)
	return Estimate{
		Low:        rng.Low,
		High:       rng.High,
		Confidence: correction.ConfidenceVeryLow,
		Source:     fmt.Sprintf("typical %s tasks", eng),
		Factor:     priors.Mean,
	}
}

// fallbackEstimateLocked fills in a population-default estimate for a
// commit that could not wait for estimation. The default baseline keeps
// the committed task's baseline positive.
func (s *Session) fallbackEstimateLocked() {
	s.cancelEstimateLocked()

	cls := s.classificationOrDefaultLocked()
	s.classification = &cls
	if s.baselineMinutes <= 0 {
		s.baselineMinutes = s.defaultBaseline
	}
	attrs := bucket.NewAttributes(cls.Engagement, cls.Category, cls.ComplexityScore, s.baselineMinutes)
	s.attrs = &attrs
	est := s.populationEstimate(cls.Engagement, s.baselineMinutes)
	s.estimate = &est
	s.state = StateReady
}

func (s *Session) commitLocked() *CommitResult {
	s.cancelClassifyLocked()
	s.cancelEstimateLocked()

	if s.attrs == nil || s.estimate == nil || s.baselineMinutes <= 0 {
		s.fallbackEstimateLocked()
	}

	cls := s.classificationOrDefaultLocked()
	s.state = StateCommitted

	res := &CommitResult{
		SessionID:       s.id,
		Name:            s.structure.Name,
		Steps:           append([]string(nil), s.structure.Steps...),
		BaselineMinutes: s.baselineMinutes,
		Classification:  cls,
		Attributes:      *s.attrs,
		Estimate:        *s.estimate,
	}

	s.emit(notify.EventTaskCommitted, "", "task committed", notify.SeverityInfo,
		map[string]any{
			"baseline": res.BaselineMinutes,
			"low":      res.Estimate.Low,
			"high":     res.Estimate.High,
		})
	return res
}

// emit fans an event out to the notifier without blocking the caller.
func (s *Session) emit(typ notify.EventType, stage, msg, severity string, meta map[string]any) {
	if s.notifier == nil {
		return
	}
	ev := notify.Event{
		Type:      typ,
		SessionID: s.id,
		Stage:     stage,
		Message:   msg,
		Severity:  severity,
		Timestamp: time.Now(),
		Metadata:  meta,
	}
	go func() {
		if err := s.notifier.Notify(context.Background(), ev); err != nil {
			s.logger.Debug("notification failed", "type", typ, "error", err)
		}
	}()
}
