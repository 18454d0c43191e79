// Package wizard drives the module to submodule step of the course wizard: lazy
// submodule generation per module, validation of cached versions and the
// readiness gate in front of the activities step.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/modules/wizard/events"
	"github.com/nfrund/coursewizard/internal/pubsub"
	"github.com/nfrund/coursewizard/internal/readiness"
	"github.com/nfrund/coursewizard/internal/session"
)

// Outcome is the result of opening a module card.
type Outcome struct {
	ModuleID  string
	VersionID string
	// Generated is true when opening the card had to generate submodules first.
	Generated bool
}

// Card is one module as shown on the wizard list.
type Card struct {
	Module    domain.Module
	State     State
	VersionID string
	Err       error
}

// Overview is the wizard list with its progression gate.
type Overview struct {
	Cards       []Card
	CanContinue bool
	// Generating names the module currently generating in this session, if any.
	Generating string
}

// Dependencies holds the services required by the Controller.
type Dependencies struct {
	Client    domain.CourseService
	Readiness *readiness.Aggregator
	Publisher pubsub.Publisher
	Logger    *slog.Logger
	// VerifiedTTL bounds how long a verified version is remembered without use.
	VerifiedTTL time.Duration
}

// Controller is shared by all sessions. Per-session state lives in the
// session.Context passed to each call, apart from the in-flight generation
// guard and the set of verified versions, which are kept here.
type Controller struct {
	client    domain.CourseService
	readiness *readiness.Aggregator
	publisher pubsub.Publisher
	log       *slog.Logger

	mu         sync.Mutex
	generating map[string]string // session id -> module id

	verified *cache.Cache // session id/module id -> version id
}

// New creates a wizard controller.
func New(deps Dependencies) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ttl := deps.VerifiedTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	agg := deps.Readiness
	if agg == nil {
		agg = readiness.New(deps.Client, 0, logger)
	}
	return &Controller{
		client:     deps.Client,
		readiness:  agg,
		publisher:  deps.Publisher,
		log:        logger.With("component", "wizard"),
		generating: make(map[string]string),
		verified:   cache.New(ttl, 10*time.Minute),
	}
}

// State derives the state of one module.
func (c *Controller) State(ctx context.Context, sc *session.Context, moduleID string) (State, error) {
	if gen, ok := c.inFlight(sc.ID()); ok && gen == moduleID {
		return Generating, nil
	}
	versionID, ok, err := sc.SubmoduleVersion(ctx, moduleID)
	if err != nil {
		return Ungenerated, err
	}
	if !ok {
		return Ungenerated, nil
	}
	if c.isVerified(sc.ID(), moduleID, versionID) {
		return Ready, nil
	}
	return ReadyUnverified, nil
}

// Open handles a click on a module card. A cached version is used as is;
// otherwise submodules are generated first.
func (c *Controller) Open(ctx context.Context, sc *session.Context, module domain.Module) (Outcome, error) {
	versionID, ok, err := sc.SubmoduleVersion(ctx, module.ID)
	if err != nil {
		return Outcome{}, err
	}
	if ok {
		return Outcome{ModuleID: module.ID, VersionID: versionID}, nil
	}

	versionID, err = c.Generate(ctx, sc, module)
	if err != nil {
		return Outcome{}, err
	}
	return Outcome{ModuleID: module.ID, VersionID: versionID, Generated: true}, nil
}

// Generate asks the course service for a new submodule version of module and
// caches it. Only one generation may run per session; a second one fails with
// domain.ErrGenerationInProgress. On failure nothing is cached.
func (c *Controller) Generate(ctx context.Context, sc *session.Context, module domain.Module) (string, error) {
	course, err := sc.Require(ctx)
	if err != nil {
		return "", err
	}
	if err := c.acquire(sc.ID(), module.ID); err != nil {
		return "", err
	}
	defer c.release(sc.ID())

	logger := c.log.With("module_id", module.ID, "session_id", sc.ID())
	logger.Info("Generating submodules")

	start := time.Now()
	versionID, err := c.client.GenerateSubmodules(ctx, module)
	if err != nil {
		logger.Error("Submodule generation failed", "error", err)
		c.publishFailed(ctx, sc.ID(), module.ID, err)
		return "", fmt.Errorf("generate submodules for %s: %w", module.ID, err)
	}

	if err := sc.SetSubmoduleVersion(ctx, module.ID, versionID); err != nil {
		return "", fmt.Errorf("cache submodule version: %w", err)
	}
	c.unverify(sc.ID(), module.ID)

	elapsed := time.Since(start)
	logger.Info("Submodules generated", "version_id", versionID, "elapsed", elapsed)
	c.publish(func() error {
		return pubsub.Publish(ctx, c.publisher, events.TopicSubmodulesGenerated, sc.ID(), events.SubmodulesGenerated{
			CourseID:  course.CourseID,
			ModuleID:  module.ID,
			VersionID: versionID,
			ElapsedMS: elapsed.Milliseconds(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
	return versionID, nil
}

// Verify fetches the submodules of the cached version and settles the module's
// state with Settle.
func (c *Controller) Verify(ctx context.Context, sc *session.Context, moduleID string) (domain.SubmoduleSet, error) {
	versionID, ok, err := sc.SubmoduleVersion(ctx, moduleID)
	if err != nil {
		return domain.SubmoduleSet{}, err
	}
	if !ok {
		return domain.SubmoduleSet{}, domain.ErrNoSubmoduleVersion
	}
	set, err := c.client.ListSubmodules(ctx, moduleID, versionID)
	return c.Settle(ctx, sc, moduleID, versionID, set, err)
}

// Settle applies the outcome of listing the submodules of versionID. Holding
// submodules makes the module Ready. An empty set, or a version the service no
// longer knows, discards the cached id and returns a *domain.StaleVersionError;
// the module is then Ungenerated. Any other failure is returned unchanged and
// the cached id is kept.
func (c *Controller) Settle(ctx context.Context, sc *session.Context, moduleID, versionID string, set domain.SubmoduleSet, listErr error) (domain.SubmoduleSet, error) {
	if listErr != nil && !errors.Is(listErr, domain.ErrNotFound) {
		return domain.SubmoduleSet{}, listErr
	}
	if listErr != nil || set.Empty() {
		reason := events.ReasonEmpty
		if listErr != nil {
			reason = events.ReasonNotFound
		}
		if err := c.invalidate(ctx, sc, moduleID, versionID, reason); err != nil {
			return domain.SubmoduleSet{}, err
		}
		return domain.SubmoduleSet{}, &domain.StaleVersionError{ModuleID: moduleID, VersionID: versionID}
	}

	c.markVerified(sc, moduleID, versionID)
	return set, nil
}

// Invalidate drops the cached version of a module, for instance after its last
// submodule was deleted.
func (c *Controller) Invalidate(ctx context.Context, sc *session.Context, moduleID string) error {
	versionID, ok, err := sc.SubmoduleVersion(ctx, moduleID)
	if err != nil {
		return err
	}
	if !ok {
		return nil
	}
	return c.invalidate(ctx, sc, moduleID, versionID, events.ReasonRequested)
}

// markVerified records that versionID of a module was seen to hold submodules.
func (c *Controller) markVerified(sc *session.Context, moduleID, versionID string) {
	c.verified.Set(verifiedKey(sc.ID(), moduleID), versionID, cache.DefaultExpiration)
}

// Overview loads the course modules and checks all of them for readiness.
func (c *Controller) Overview(ctx context.Context, sc *session.Context) (Overview, error) {
	course, err := sc.Require(ctx)
	if err != nil {
		return Overview{}, err
	}
	modules, err := c.client.ListModules(ctx, course.CourseID, course.ModuleVersionID)
	if err != nil {
		return Overview{}, err
	}

	res := c.readiness.Check(ctx, sc, modules)
	generating, _ := c.inFlight(sc.ID())

	ov := Overview{
		Cards:       make([]Card, 0, len(res.Modules)),
		CanContinue: res.AllReady,
		Generating:  generating,
	}
	for _, status := range res.Modules {
		card := Card{Module: status.Module, VersionID: status.VersionID, Err: status.Err}
		switch {
		case status.Module.ID == generating:
			card.State = Generating
		case status.Ready:
			c.markVerified(sc, status.Module.ID, status.VersionID)
			card.State = Ready
		case status.VersionID != "":
			c.unverify(sc.ID(), status.Module.ID)
			card.State = ReadyUnverified
		default:
			card.State = Ungenerated
		}
		ov.Cards = append(ov.Cards, card)
	}
	return ov, nil
}

// Generating reports the module currently generating in a session.
func (c *Controller) Generating(sessionID string) (string, bool) {
	return c.inFlight(sessionID)
}

func (c *Controller) invalidate(ctx context.Context, sc *session.Context, moduleID, versionID, reason string) error {
	if err := sc.ForgetSubmoduleVersion(ctx, moduleID); err != nil {
		return fmt.Errorf("forget submodule version: %w", err)
	}
	c.unverify(sc.ID(), moduleID)
	c.log.Info("Submodule version invalidated", "module_id", moduleID, "version_id", versionID, "reason", reason)
	c.publish(func() error {
		return pubsub.Publish(ctx, c.publisher, events.TopicSubmodulesInvalidated, sc.ID(), events.SubmodulesInvalidated{
			ModuleID:  moduleID,
			VersionID: versionID,
			Reason:    reason,
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
	return nil
}

func (c *Controller) publishFailed(ctx context.Context, sessionID, moduleID string, cause error) {
	c.publish(func() error {
		return pubsub.Publish(ctx, c.publisher, events.TopicGenerationFailed, sessionID, events.GenerationFailed{
			ModuleID:  moduleID,
			Error:     cause.Error(),
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	})
}

func (c *Controller) publish(fn func() error) {
	if c.publisher == nil {
		return
	}
	if err := fn(); err != nil {
		c.log.Warn("Failed to publish wizard event", "error", err)
	}
}

func (c *Controller) acquire(sessionID, moduleID string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, busy := c.generating[sessionID]; busy {
		return domain.ErrGenerationInProgress
	}
	c.generating[sessionID] = moduleID
	return nil
}

func (c *Controller) release(sessionID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.generating, sessionID)
}

func (c *Controller) inFlight(sessionID string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	moduleID, ok := c.generating[sessionID]
	return moduleID, ok
}

func (c *Controller) isVerified(sessionID, moduleID, versionID string) bool {
	v, ok := c.verified.Get(verifiedKey(sessionID, moduleID))
	return ok && v.(string) == versionID
}

func (c *Controller) unverify(sessionID, moduleID string) {
	c.verified.Delete(verifiedKey(sessionID, moduleID))
}

func verifiedKey(sessionID, moduleID string) string {
	return sessionID + "/" + moduleID
}
