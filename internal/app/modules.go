package app

import (
	"github.com/nfrund/coursewizard/internal/module"
	"github.com/nfrund/coursewizard/internal/modules/announcer"
	"github.com/nfrund/coursewizard/internal/modules/modulelist"
	"github.com/nfrund/coursewizard/internal/modules/submodules"
	"github.com/nfrund/coursewizard/internal/modules/wizard"
)

// NewModules creates and returns the list of all active modules for the application.
// This is the single source of truth for which features are enabled.
func NewModules(deps Dependencies) []module.Module {
	return []module.Module{
		announcer.New(announcerDeps(deps)),
		modulelist.NewModule(moduleListDeps(deps)),
		wizard.NewModule(wizardDeps(deps)),
		submodules.NewModule(submoduleDeps(deps)),
	}
}
