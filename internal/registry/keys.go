package registry

// Service names shared between modules. Pair each with its service type through
// Key[T] where it is registered and looked up.
const (
	WizardControllerName = "wizard.controller"
)
