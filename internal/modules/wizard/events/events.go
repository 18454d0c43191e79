// Package events defines the wizard lifecycle events published on the bus.
package events

import "github.com/nfrund/coursewizard/internal/pubsub"

// SubmodulesGenerated is published after a module received a new submodule version.
type SubmodulesGenerated struct {
	CourseID  string `json:"course_id"`
	ModuleID  string `json:"module_id"`
	VersionID string `json:"version_id"`
	ElapsedMS int64  `json:"elapsed_ms"`
	Timestamp string `json:"timestamp"`
}

// SubmodulesInvalidated is published when a cached submodule version is dropped.
type SubmodulesInvalidated struct {
	ModuleID  string `json:"module_id"`
	VersionID string `json:"version_id"`
	Reason    string `json:"reason"`
	Timestamp string `json:"timestamp"`
}

// GenerationFailed is published when the course service could not generate submodules.
type GenerationFailed struct {
	ModuleID  string `json:"module_id"`
	Error     string `json:"error"`
	Timestamp string `json:"timestamp"`
}

// Invalidation reasons.
const (
	ReasonEmpty     = "empty"
	ReasonNotFound  = "not_found"
	ReasonRequested = "requested"
)

var (
	TopicSubmodulesGenerated = pubsub.NewEvent[SubmodulesGenerated](
		"wizard.submodules.generated",
		"A module received a new submodule version",
	)

	TopicSubmodulesInvalidated = pubsub.NewEvent[SubmodulesInvalidated](
		"wizard.submodules.invalidated",
		"A cached submodule version was discarded and must be regenerated",
	)

	TopicGenerationFailed = pubsub.NewEvent[GenerationFailed](
		"wizard.generation.failed",
		"Submodule generation for a module failed",
	)
)
