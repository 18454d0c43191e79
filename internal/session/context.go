package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/nfrund/coursewizard/internal/domain"
)

// Course identifies the course version the wizard is working on.
type Course struct {
	CourseID        string
	ModuleVersionID string
}

// Context is the typed view of a Store used by the controllers. It is created when
// the wizard is entered (Begin) and discarded on Reset.
type Context struct {
	id    string
	store Store
}

// NewContext wraps the store of the session identified by id.
func NewContext(id string, store Store) *Context {
	return &Context{id: id, store: store}
}

// ID identifies the session. Work that must not overlap within one session is
// keyed by it.
func (c *Context) ID() string { return c.id }

// Store returns the underlying store.
func (c *Context) Store() Store { return c.store }

// CourseID returns the active course id, or "" when none is set.
func (c *Context) CourseID(ctx context.Context) (string, error) {
	v, _, err := c.store.Get(ctx, KeyCourseID)
	return v, err
}

// ModuleVersionID returns the active module version id, or "" when none is set.
func (c *Context) ModuleVersionID(ctx context.Context) (string, error) {
	v, _, err := c.store.Get(ctx, KeyModuleVersionID)
	return v, err
}

// Require returns the active course or domain.ErrNoCourseContext when either id
// is missing.
func (c *Context) Require(ctx context.Context) (Course, error) {
	courseID, err := c.CourseID(ctx)
	if err != nil {
		return Course{}, err
	}
	versionID, err := c.ModuleVersionID(ctx)
	if err != nil {
		return Course{}, err
	}
	if courseID == "" || versionID == "" {
		return Course{}, domain.ErrNoCourseContext
	}
	return Course{CourseID: courseID, ModuleVersionID: versionID}, nil
}

// SubmoduleVersion returns the cached submodule version of a module.
func (c *Context) SubmoduleVersion(ctx context.Context, moduleID string) (string, bool, error) {
	v, ok, err := c.store.Get(ctx, SubmoduleVersionKey(moduleID))
	if err != nil || !ok || v == "" {
		return "", false, err
	}
	return v, true, nil
}

func (c *Context) SetSubmoduleVersion(ctx context.Context, moduleID, versionID string) error {
	return c.store.Set(ctx, SubmoduleVersionKey(moduleID), versionID)
}

func (c *Context) ForgetSubmoduleVersion(ctx context.Context, moduleID string) error {
	return c.store.Remove(ctx, SubmoduleVersionKey(moduleID))
}

// SubmoduleVersions returns every cached submodule version keyed by module id.
func (c *Context) SubmoduleVersions(ctx context.Context) (map[string]string, error) {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string)
	for _, key := range keys {
		moduleID, ok := moduleIDFromKey(key)
		if !ok {
			continue
		}
		v, found, err := c.store.Get(ctx, key)
		if err != nil {
			return nil, err
		}
		if found && v != "" {
			out[moduleID] = v
		}
	}
	return out, nil
}

// Begin enters the wizard for a course version. Submodule versions cached for a
// different module version belong to a context that no longer exists and are
// dropped.
func (c *Context) Begin(ctx context.Context, courseID, moduleVersionID string) error {
	if courseID == "" || moduleVersionID == "" {
		return domain.ErrNoCourseContext
	}
	current, err := c.Require(ctx)
	if err != nil && !errors.Is(err, domain.ErrNoCourseContext) {
		return err
	}
	if current.CourseID != courseID || current.ModuleVersionID != moduleVersionID {
		if err := c.purgeSubmoduleVersions(ctx); err != nil {
			return err
		}
	}
	if err := c.store.Set(ctx, KeyCourseID, courseID); err != nil {
		return fmt.Errorf("store course id: %w", err)
	}
	if err := c.store.Set(ctx, KeyModuleVersionID, moduleVersionID); err != nil {
		return fmt.Errorf("store module version id: %w", err)
	}
	return nil
}

// Reset discards the whole context.
func (c *Context) Reset(ctx context.Context) error {
	if err := c.purgeSubmoduleVersions(ctx); err != nil {
		return err
	}
	for _, key := range []string{KeyCourseID, KeyModuleVersionID} {
		if err := c.store.Remove(ctx, key); err != nil {
			return err
		}
	}
	return nil
}

func (c *Context) purgeSubmoduleVersions(ctx context.Context) error {
	keys, err := c.store.Keys(ctx)
	if err != nil {
		return err
	}
	for _, key := range keys {
		if _, ok := moduleIDFromKey(key); !ok {
			continue
		}
		if err := c.store.Remove(ctx, key); err != nil {
			return fmt.Errorf("drop %s: %w", key, err)
		}
	}
	return nil
}
