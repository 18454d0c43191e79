// Package modulelist is the module list screen: it loads the modules of the active
// course and applies edits, additions and deletions to them.
package modulelist

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/session"
)

// Controller holds the state of one module list screen. It is not shared between
// sessions.
type Controller struct {
	client domain.CourseService
	sc     *session.Context
	log    *slog.Logger

	course  session.Course
	modules []domain.Module
	editing int
	draft   domain.ModuleDraft
	newID   func() string
}

// New creates a controller for the session sc.
func New(client domain.CourseService, sc *session.Context, logger *slog.Logger) *Controller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Controller{
		client:  client,
		sc:      sc,
		log:     logger.With("component", "modulelist"),
		editing: -1,
		newID:   uuid.NewString,
	}
}

// Load fetches the modules of the active course, replacing the local copy.
func (c *Controller) Load(ctx context.Context) error {
	course, err := c.sc.Require(ctx)
	if err != nil {
		return err
	}
	modules, err := c.client.ListModules(ctx, course.CourseID, course.ModuleVersionID)
	if err != nil {
		return err
	}
	c.course = course
	c.modules = modules
	c.editing = -1
	c.draft = domain.ModuleDraft{}
	return nil
}

// Modules returns the current local copy of the modules.
func (c *Controller) Modules() []domain.Module {
	out := make([]domain.Module, len(c.modules))
	copy(out, c.modules)
	return out
}

// Editing returns the index under edit, or -1.
func (c *Controller) Editing() int { return c.editing }

// Draft returns the edit buffer.
func (c *Controller) Draft() domain.ModuleDraft { return c.draft }

// BeginEdit copies the module at index into the edit buffer.
func (c *Controller) BeginEdit(index int) error {
	if index < 0 || index >= len(c.modules) {
		return domain.ErrIndexOutOfRange
	}
	c.editing = index
	c.draft = domain.DraftFromModule(c.modules[index])
	return nil
}

// UpdateDraft replaces the edit buffer.
func (c *Controller) UpdateDraft(d domain.ModuleDraft) error {
	if c.editing < 0 {
		return domain.ErrNoDraft
	}
	c.draft = d
	return nil
}

// CancelEdit drops the edit buffer without a request.
func (c *Controller) CancelEdit() {
	c.editing = -1
	c.draft = domain.ModuleDraft{}
}

// Save sends the edit buffer to the course service and, once accepted, merges it
// into the local copy.
func (c *Controller) Save(ctx context.Context) error {
	if c.editing < 0 || c.editing >= len(c.modules) {
		return domain.ErrNoDraft
	}
	draft := c.draft.Normalize()
	if err := domain.Validate(draft); err != nil {
		return err
	}
	m := c.modules[c.editing]
	fields := draft.Fields(m.ID)
	if err := c.client.UpdateModule(ctx, c.course.CourseID, c.course.ModuleVersionID, m.ID, fields); err != nil {
		return err
	}
	c.modules[c.editing] = fields.Apply(m)
	c.log.Info("Module updated", "module_id", m.ID)
	c.CancelEdit()
	return nil
}

// Delete removes the module at index. Without confirmation nothing is sent. The
// module's cached submodule version goes with it.
func (c *Controller) Delete(ctx context.Context, index int, confirmed bool) error {
	if index < 0 || index >= len(c.modules) {
		return domain.ErrIndexOutOfRange
	}
	if !confirmed {
		return domain.ErrNotConfirmed
	}
	m := c.modules[index]
	if err := c.client.DeleteModule(ctx, c.course.CourseID, c.course.ModuleVersionID, m.ID); err != nil {
		return err
	}
	c.modules = append(c.modules[:index:index], c.modules[index+1:]...)
	if c.editing == index {
		c.CancelEdit()
	} else if c.editing > index {
		c.editing--
	}
	if err := c.sc.ForgetSubmoduleVersion(ctx, m.ID); err != nil {
		return fmt.Errorf("forget submodule version of deleted module: %w", err)
	}
	c.log.Info("Module deleted", "module_id", m.ID)
	return nil
}

// Add validates d, assigns the module a fresh id and appends it once the course
// service accepted it. An invalid draft issues no request.
func (c *Controller) Add(ctx context.Context, d domain.ModuleDraft) (domain.Module, error) {
	d = d.Normalize()
	if err := domain.Validate(d); err != nil {
		return domain.Module{}, err
	}
	course, err := c.activeCourse(ctx)
	if err != nil {
		return domain.Module{}, err
	}
	m := domain.Module{ID: c.newID(), Title: d.Title, Description: d.Description, Hours: d.Duration()}
	if err := c.client.AddModule(ctx, course.CourseID, course.ModuleVersionID, m); err != nil {
		return domain.Module{}, err
	}
	c.modules = append(c.modules, m)
	c.log.Info("Module added", "module_id", m.ID)
	return m, nil
}

// activeCourse returns the course loaded by Load, or looks it up when the screen
// was never loaded.
func (c *Controller) activeCourse(ctx context.Context) (session.Course, error) {
	if c.course.CourseID != "" {
		return c.course, nil
	}
	course, err := c.sc.Require(ctx)
	if err != nil {
		return session.Course{}, err
	}
	c.course = course
	return course, nil
}
