// Package readiness decides whether every module of a course has usable submodules.
package readiness

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/session"
)

// SubmoduleLister is the part of domain.CourseService the aggregator needs.
type SubmoduleLister interface {
	ListSubmodules(ctx context.Context, moduleID, versionID string) (domain.SubmoduleSet, error)
}

// ModuleStatus is the outcome of checking one module.
type ModuleStatus struct {
	Module    domain.Module
	VersionID string
	Ready     bool
	// Err is set when the lookup or the fetch failed. The module is then not ready.
	Err error
}

// Result holds one status per module, in the order the modules were given.
type Result struct {
	Modules  []ModuleStatus
	AllReady bool
}

// Aggregator fans out one submodule check per module and joins them all.
type Aggregator struct {
	client SubmoduleLister
	limit  int
	log    *slog.Logger
}

// New creates an aggregator. A limit of zero or less runs every check at once.
func New(client SubmoduleLister, limit int, logger *slog.Logger) *Aggregator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Aggregator{client: client, limit: limit, log: logger.With("component", "readiness")}
}

// Check looks up each module's cached submodule version in sc and asks the course
// service whether it holds any submodules. It waits for every check; a failing
// module never cuts the others short. An empty module list is not ready.
func (a *Aggregator) Check(ctx context.Context, sc *session.Context, modules []domain.Module) Result {
	statuses := make([]ModuleStatus, len(modules))

	var g errgroup.Group
	if a.limit > 0 {
		g.SetLimit(a.limit)
	}
	for i, m := range modules {
		g.Go(func() error {
			statuses[i] = a.checkModule(ctx, sc, m)
			return nil
		})
	}
	_ = g.Wait()

	allReady := len(statuses) > 0
	for _, s := range statuses {
		allReady = allReady && s.Ready
	}
	a.log.Debug("Readiness checked", "modules", len(modules), "all_ready", allReady)
	return Result{Modules: statuses, AllReady: allReady}
}

func (a *Aggregator) checkModule(ctx context.Context, sc *session.Context, m domain.Module) ModuleStatus {
	status := ModuleStatus{Module: m}

	versionID, ok, err := sc.SubmoduleVersion(ctx, m.ID)
	if err != nil {
		status.Err = err
		return status
	}
	if !ok {
		return status
	}
	status.VersionID = versionID

	set, err := a.client.ListSubmodules(ctx, m.ID, versionID)
	if err != nil {
		a.log.Warn("Submodule check failed", "module_id", m.ID, "version_id", versionID, "error", err)
		status.Err = err
		return status
	}
	status.Ready = !set.Empty()
	return status
}

// Ready reports whether the module with id is ready in r.
func (r Result) Ready(moduleID string) bool {
	for _, s := range r.Modules {
		if s.Module.ID == moduleID {
			return s.Ready
		}
	}
	return false
}
