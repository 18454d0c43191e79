package app

import (
	"log/slog"

	"github.com/nfrund/coursewizard/internal/config"
	"github.com/nfrund/coursewizard/internal/domain"
	"github.com/nfrund/coursewizard/internal/modules/announcer"
	"github.com/nfrund/coursewizard/internal/modules/modulelist"
	"github.com/nfrund/coursewizard/internal/modules/submodules"
	"github.com/nfrund/coursewizard/internal/modules/wizard"
	"github.com/nfrund/coursewizard/internal/pubsub"
	"github.com/nfrund/coursewizard/internal/readiness"
)

// Dependencies holds the core services that are required by the application's modules.
// This struct is passed from the main application entrypoint to wire up the modules.
type Dependencies struct {
	Config     config.Provider
	Logger     *slog.Logger
	Client     domain.CourseService
	Readiness  *readiness.Aggregator
	Publisher  pubsub.Publisher
	Subscriber pubsub.Subscriber
}

// wizardDeps creates the dependency struct for the wizard module.
func wizardDeps(deps Dependencies) wizard.ModuleDependencies {
	return wizard.ModuleDependencies{
		Controller: wizard.Dependencies{
			Client:      deps.Client,
			Readiness:   deps.Readiness,
			Publisher:   deps.Publisher,
			Logger:      deps.Logger,
			VerifiedTTL: deps.Config.GetSessionTTL(),
		},
		ActivitiesURL:     deps.Config.GetActivitiesURL(),
		GenerateRateLimit: deps.Config.GetGenerateRateLimit(),
	}
}

// announcerDeps creates the dependency struct for the announcer module.
func announcerDeps(deps Dependencies) announcer.Dependencies {
	return announcer.Dependencies{
		Subscriber: deps.Subscriber,
		Logger:     deps.Logger,
	}
}

func moduleListDeps(deps Dependencies) modulelist.Dependencies {
	return modulelist.Dependencies{Client: deps.Client}
}

func submoduleDeps(deps Dependencies) submodules.Dependencies {
	return submodules.Dependencies{Client: deps.Client}
}
