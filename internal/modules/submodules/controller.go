// Package submodules is the submodule detail screen of one module: it shows the
// submodules of the module's current generation and edits them.
package submodules

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/session"
)

// Tracker keeps the wizard's view of which submodule versions are usable. Settle
// turns the result of listing a version into the module's new state.
type Tracker interface {
	Settle(ctx context.Context, sc *session.Context, moduleID, versionID string, set domain.SubmoduleSet, listErr error) (domain.SubmoduleSet, error)
}

// Controller holds the state of one submodule detail screen.
type Controller struct {
	client  domain.CourseService
	sc      *session.Context
	tracker Tracker
	log     *slog.Logger

	module      domain.Module
	versionID   string
	submodules  []domain.Submodule
	suggestions []string
	editing     int
	draft       domain.SubmoduleDraft
	newID       func() string
}

// New creates a controller for the session sc.
func New(client domain.CourseService, sc *session.Context, tracker Tracker, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		client:  client,
		sc:      sc,
		tracker: tracker,
		log:     logger.With("component", "submodules"),
		editing: -1,
		newID:   uuid.NewString,
	}
}

// Load fetches the module and the submodules of its cached version at the same
// time. A version without submodules is discarded and reported as a
// *domain.StaleVersionError.
func (c *Controller) Load(ctx context.Context, moduleID string) error {
	course, err := c.sc.Require(ctx)
	if err != nil {
		return err
	}
	versionID, ok, err := c.sc.SubmoduleVersion(ctx, moduleID)
	if err != nil {
		return err
	}
	if !ok {
		return domain.ErrNoSubmoduleVersion
	}

	var (
		module  domain.Module
		set     domain.SubmoduleSet
		listErr error
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		module, err = c.client.GetModule(gctx, course.CourseID, course.ModuleVersionID, moduleID)
		return err
	})
	g.Go(func() error {
		set, listErr = c.client.ListSubmodules(gctx, moduleID, versionID)
		if errors.Is(listErr, domain.ErrNotFound) {
			return nil
		}
		return listErr
	})
	if err := g.Wait(); err != nil {
		return err
	}

	c.module = module
	c.versionID = versionID
	c.editing = -1
	c.draft = domain.SubmoduleDraft{}
	return c.replace(ctx, set, listErr)
}

// Refresh refetches the submodules and replaces the local copy. Every mutation
// ends with it.
func (c *Controller) Refresh(ctx context.Context) error {
	if c.versionID == "" {
		return domain.ErrNoSubmoduleVersion
	}
	set, err := c.client.ListSubmodules(ctx, c.module.ID, c.versionID)
	return c.replace(ctx, set, err)
}

func (c *Controller) replace(ctx context.Context, set domain.SubmoduleSet, listErr error) error {
	set, err := c.tracker.Settle(ctx, c.sc, c.module.ID, c.versionID, set, listErr)
	if err != nil {
		if domain.IsStale(err) {
			c.submodules = nil
			c.suggestions = nil
		}
		return err
	}
	c.submodules = set.Submodules
	c.suggestions = set.Suggestions
	return nil
}

// Module returns the module the screen shows.
func (c *Controller) Module() domain.Module { return c.module }

// VersionID returns the submodule version on screen.
func (c *Controller) VersionID() string { return c.versionID }

// Submodules returns the local copy of the submodules.
func (c *Controller) Submodules() []domain.Submodule {
	out := make([]domain.Submodule, len(c.submodules))
	copy(out, c.submodules)
	return out
}

// Suggestions returns the generation suggestions reported with the submodules.
func (c *Controller) Suggestions() []string { return c.suggestions }

// Editing returns the index under edit, or -1.
func (c *Controller) Editing() int { return c.editing }

// Draft returns the edit buffer.
func (c *Controller) Draft() domain.SubmoduleDraft { return c.draft }

// BeginEdit copies the submodule at index into the edit buffer.
func (c *Controller) BeginEdit(index int) error {
	if index < 0 || index >= len(c.submodules) {
		return domain.ErrIndexOutOfRange
	}
	c.editing = index
	c.draft = domain.DraftFromSubmodule(c.submodules[index])
	return nil
}

// UpdateDraft replaces the edit buffer.
func (c *Controller) UpdateDraft(d domain.SubmoduleDraft) error {
	if c.editing < 0 {
		return domain.ErrNoDraft
	}
	c.draft = d
	return nil
}

// CancelEdit drops the edit buffer without a request.
func (c *Controller) CancelEdit() {
	c.editing = -1
	c.draft = domain.SubmoduleDraft{}
}

// Save sends the edit buffer and refetches the submodules.
func (c *Controller) Save(ctx context.Context) error {
	if c.editing < 0 || c.editing >= len(c.submodules) {
		return domain.ErrNoDraft
	}
	draft := c.draft.Normalize()
	if err := domain.Validate(draft); err != nil {
		return err
	}
	s := c.submodules[c.editing]
	if err := c.client.UpdateSubmodule(ctx, c.module.ID, c.versionID, s.ID, draft.Fields()); err != nil {
		return err
	}
	c.log.Info("Submodule updated", "module_id", c.module.ID, "submodule_id", s.ID)
	c.CancelEdit()
	return c.Refresh(ctx)
}

// Delete removes the submodule at index and refetches. Without confirmation
// nothing is sent. Deleting the last submodule invalidates the module's version,
// which is reported as a *domain.StaleVersionError.
func (c *Controller) Delete(ctx context.Context, index int, confirmed bool) error {
	if index < 0 || index >= len(c.submodules) {
		return domain.ErrIndexOutOfRange
	}
	if !confirmed {
		return domain.ErrNotConfirmed
	}
	s := c.submodules[index]
	if err := c.client.DeleteSubmodule(ctx, c.module.ID, c.versionID, s.ID); err != nil {
		return err
	}
	c.log.Info("Submodule deleted", "module_id", c.module.ID, "submodule_id", s.ID)
	c.CancelEdit()
	return c.Refresh(ctx)
}

// Add validates d, assigns a fresh id, sends it and refetches. An invalid draft
// issues no request.
func (c *Controller) Add(ctx context.Context, d domain.SubmoduleDraft) (domain.Submodule, error) {
	if c.versionID == "" {
		return domain.Submodule{}, domain.ErrNoSubmoduleVersion
	}
	d = d.Normalize()
	if err := domain.Validate(d); err != nil {
		return domain.Submodule{}, err
	}
	s := domain.Submodule{ID: c.newID(), Title: d.Title, Description: d.Description}
	if err := c.client.AddSubmodule(ctx, c.module.ID, c.versionID, s); err != nil {
		return domain.Submodule{}, err
	}
	c.log.Info("Submodule added", "module_id", c.module.ID, "submodule_id", s.ID)
	return s, c.Refresh(ctx)
}
