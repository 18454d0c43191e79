package testutils

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/nfrund/coursewizard/internal/domain"
)

// Operation names used by FakeCourseService for failures, latency and call counts.
const (
	OpListModules     = "ListModules"
	OpGetModule       = "GetModule"
	OpAddModule       = "AddModule"
	OpUpdateModule    = "UpdateModule"
	OpDeleteModule    = "DeleteModule"
	OpGenerate        = "GenerateSubmodules"
	OpListSubmodules  = "ListSubmodules"
	OpAddSubmodule    = "AddSubmodule"
	OpUpdateSubmodule = "UpdateSubmodule"
	OpDeleteSubmodule = "DeleteSubmodule"
)

// FakeCourseService is an in-memory domain.CourseService for tests. It holds a
// single course version and can be told to fail or stall per operation.
type FakeCourseService struct {
	mu sync.Mutex

	modules    []domain.Module
	submodules map[string][]domain.Submodule // keyed by moduleID/versionID

	failures       map[string]error
	latency        map[string]time.Duration
	moduleLatency  map[string]time.Duration
	calls          map[string]int
	inFlight       int
	maxInFlight    int
	nextVersion    int
	generateResult func(domain.Module) []domain.Submodule
}

var _ domain.CourseService = (*FakeCourseService)(nil)

// NewFakeCourseService creates a fake holding modules.
func NewFakeCourseService(modules ...domain.Module) *FakeCourseService {
	return &FakeCourseService{
		modules:       append([]domain.Module(nil), modules...),
		submodules:    map[string][]domain.Submodule{},
		failures:      map[string]error{},
		latency:       map[string]time.Duration{},
		moduleLatency: map[string]time.Duration{},
		calls:         map[string]int{},
	}
}

// Fail makes every later call of op return err. A nil err clears the failure.
func (f *FakeCourseService) Fail(op string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err == nil {
		delete(f.failures, op)
		return
	}
	f.failures[op] = err
}

// Delay makes every call of op wait d before answering.
func (f *FakeCourseService) Delay(op string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latency[op] = d
}

// DelayModule makes ListSubmodules for one module wait d, on top of any Delay.
func (f *FakeCourseService) DelayModule(moduleID string, d time.Duration) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.moduleLatency[moduleID] = d
}

// OnGenerate replaces the submodules produced by GenerateSubmodules.
func (f *FakeCourseService) OnGenerate(fn func(domain.Module) []domain.Submodule) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generateResult = fn
}

// PutSubmodules stores the submodules of a module version directly.
func (f *FakeCourseService) PutSubmodules(moduleID, versionID string, subs ...domain.Submodule) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submodules[subKey(moduleID, versionID)] = append([]domain.Submodule{}, subs...)
}

// Submodules returns a copy of what is stored for a module version.
func (f *FakeCourseService) Submodules(moduleID, versionID string) []domain.Submodule {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Submodule(nil), f.submodules[subKey(moduleID, versionID)]...)
}

// Modules returns a copy of the stored modules.
func (f *FakeCourseService) Modules() []domain.Module {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]domain.Module(nil), f.modules...)
}

// Calls returns how often op was invoked.
func (f *FakeCourseService) Calls(op string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[op]
}

// MaxConcurrent returns the highest number of calls that were in flight at once.
func (f *FakeCourseService) MaxConcurrent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// enter records a call, waits out its latency and returns the programmed failure.
func (f *FakeCourseService) enter(ctx context.Context, op, moduleID string) (func(), error) {
	f.mu.Lock()
	f.calls[op]++
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	wait := f.latency[op]
	if op == OpListSubmodules {
		wait += f.moduleLatency[moduleID]
	}
	err := f.failures[op]
	f.mu.Unlock()

	leave := func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}

	if wait > 0 {
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			leave()
			return nil, ctx.Err()
		}
	}
	if err != nil {
		leave()
		return nil, err
	}
	return leave, nil
}

func (f *FakeCourseService) ListModules(ctx context.Context, _, _ string) ([]domain.Module, error) {
	leave, err := f.enter(ctx, OpListModules, "")
	if err != nil {
		return nil, err
	}
	defer leave()
	return f.Modules(), nil
}

func (f *FakeCourseService) GetModule(ctx context.Context, _, _, moduleID string) (domain.Module, error) {
	leave, err := f.enter(ctx, OpGetModule, moduleID)
	if err != nil {
		return domain.Module{}, err
	}
	defer leave()
	for _, m := range f.Modules() {
		if m.ID == moduleID {
			return m, nil
		}
	}
	return domain.Module{}, &domain.TransportError{Op: "get module", Status: 404, Err: domain.ErrNotFound}
}

func (f *FakeCourseService) AddModule(ctx context.Context, _, _ string, module domain.Module) error {
	leave, err := f.enter(ctx, OpAddModule, module.ID)
	if err != nil {
		return err
	}
	defer leave()
	f.mu.Lock()
	defer f.mu.Unlock()
	f.modules = append(f.modules, module)
	return nil
}

func (f *FakeCourseService) UpdateModule(ctx context.Context, _, _, moduleID string, fields domain.ModuleFields) error {
	leave, err := f.enter(ctx, OpUpdateModule, moduleID)
	if err != nil {
		return err
	}
	defer leave()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.modules {
		if m.ID == moduleID {
			f.modules[i] = fields.Apply(m)
			return nil
		}
	}
	return &domain.TransportError{Op: "update module", Status: 404, Err: domain.ErrNotFound}
}

func (f *FakeCourseService) DeleteModule(ctx context.Context, _, _, moduleID string) error {
	leave, err := f.enter(ctx, OpDeleteModule, moduleID)
	if err != nil {
		return err
	}
	defer leave()
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.modules {
		if m.ID == moduleID {
			f.modules = append(f.modules[:i], f.modules[i+1:]...)
			return nil
		}
	}
	return &domain.TransportError{Op: "delete module", Status: 404, Err: domain.ErrNotFound}
}

func (f *FakeCourseService) GenerateSubmodules(ctx context.Context, module domain.Module) (string, error) {
	leave, err := f.enter(ctx, OpGenerate, module.ID)
	if err != nil {
		return "", err
	}
	defer leave()

	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextVersion++
	versionID := fmt.Sprintf("v%d", f.nextVersion)

	var subs []domain.Submodule
	if f.generateResult != nil {
		subs = f.generateResult(module)
	} else {
		subs = []domain.Submodule{
			{ID: module.ID + "-s1", Title: module.Title + " part 1"},
			{ID: module.ID + "-s2", Title: module.Title + " part 2"},
		}
	}
	f.submodules[subKey(module.ID, versionID)] = subs
	return versionID, nil
}

func (f *FakeCourseService) ListSubmodules(ctx context.Context, moduleID, versionID string) (domain.SubmoduleSet, error) {
	leave, err := f.enter(ctx, OpListSubmodules, moduleID)
	if err != nil {
		return domain.SubmoduleSet{}, err
	}
	defer leave()
	return domain.SubmoduleSet{Submodules: f.Submodules(moduleID, versionID), Suggestions: []string{}}, nil
}

func (f *FakeCourseService) AddSubmodule(ctx context.Context, moduleID, versionID string, submodule domain.Submodule) error {
	leave, err := f.enter(ctx, OpAddSubmodule, moduleID)
	if err != nil {
		return err
	}
	defer leave()
	f.mu.Lock()
	defer f.mu.Unlock()
	key := subKey(moduleID, versionID)
	f.submodules[key] = append(f.submodules[key], submodule)
	return nil
}

func (f *FakeCourseService) UpdateSubmodule(ctx context.Context, moduleID, versionID, submoduleID string, fields domain.SubmoduleFields) error {
	leave, err := f.enter(ctx, OpUpdateSubmodule, moduleID)
	if err != nil {
		return err
	}
	defer leave()
	f.mu.Lock()
	defer f.mu.Unlock()
	subs := f.submodules[subKey(moduleID, versionID)]
	for i, s := range subs {
		if s.ID == submoduleID {
			subs[i].Title = fields.Title
			subs[i].Description = fields.Description
			return nil
		}
	}
	return &domain.TransportError{Op: "update submodule", Status: 404, Err: domain.ErrNotFound}
}

func (f *FakeCourseService) DeleteSubmodule(ctx context.Context, moduleID, versionID, submoduleID string) error {
	leave, err := f.enter(ctx, OpDeleteSubmodule, moduleID)
	if err != nil {
		return err
	}
	defer leave()
	f.mu.Lock()
	defer f.mu.Unlock()
	key := subKey(moduleID, versionID)
	subs := f.submodules[key]
	for i, s := range subs {
		if s.ID == submoduleID {
			f.submodules[key] = append(subs[:i:i], subs[i+1:]...)
			return nil
		}
	}
	return &domain.TransportError{Op: "delete submodule", Status: 404, Err: domain.ErrNotFound}
}

func subKey(moduleID, versionID string) string {
	return moduleID + "/" + versionID
}
