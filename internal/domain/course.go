package domain

import "context"

// Module is a top-level course unit. The course service owns it; screens hold a
// transient copy.
type Module struct {
	ID          string   `json:"module_id"`
	Title       string   `json:"module_title"`
	Description string   `json:"module_description"`
	Hours       Duration `json:"module_hours"`
}

// ModuleFields is the set of fields sent when updating a module.
type ModuleFields struct {
	ID          string   `json:"module_id"`
	Title       string   `json:"module_title"`
	Description string   `json:"module_description"`
	Hours       Duration `json:"module_hours"`
}

// Apply merges the fields into m, keeping its identifier.
func (f ModuleFields) Apply(m Module) Module {
	m.Title = f.Title
	m.Description = f.Description
	m.Hours = f.Hours
	return m
}

// Submodule is a sub-unit of a module, scoped to one submodule version.
type Submodule struct {
	ID          string `json:"submodule_id"`
	Title       string `json:"submodule_title"`
	Description string `json:"submodule_description"`
}

// SubmoduleFields is the set of fields sent when updating a submodule.
type SubmoduleFields struct {
	Title       string `json:"submodule_title"`
	Description string `json:"submodule_description"`
}

// SubmoduleSet is one generation batch as reported by the course service.
type SubmoduleSet struct {
	Submodules  []Submodule `json:"submodules"`
	Suggestions []string    `json:"suggestions"`
}

// Empty reports whether the batch holds no submodules.
func (s SubmoduleSet) Empty() bool { return len(s.Submodules) == 0 }

// CourseService is the remote course-authoring API. It lives in the domain because
// the controllers depend on it, not on the HTTP implementation.
type CourseService interface {
	ListModules(ctx context.Context, courseID, versionID string) ([]Module, error)
	GetModule(ctx context.Context, courseID, versionID, moduleID string) (Module, error)
	AddModule(ctx context.Context, courseID, versionID string, module Module) error
	UpdateModule(ctx context.Context, courseID, versionID, moduleID string, fields ModuleFields) error
	DeleteModule(ctx context.Context, courseID, versionID, moduleID string) error

	// GenerateSubmodules triggers generation for a module and returns the new
	// submodule version id. It can take a long time.
	GenerateSubmodules(ctx context.Context, module Module) (string, error)

	ListSubmodules(ctx context.Context, moduleID, versionID string) (SubmoduleSet, error)
	AddSubmodule(ctx context.Context, moduleID, versionID string, submodule Submodule) error
	UpdateSubmodule(ctx context.Context, moduleID, versionID, submoduleID string, fields SubmoduleFields) error
	DeleteSubmodule(ctx context.Context, moduleID, versionID, submoduleID string) error
}
