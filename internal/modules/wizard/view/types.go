package view

// Card is one module on the wizard list.
type Card struct {
	ModuleID    string
	Title       string
	Description string
	Hours       string
	State       string
	// Ready is true when the module's submodules were seen.
	Ready bool
	// Generating is true while this module's submodules are being generated.
	Generating bool
	Error      string
}

// Data is the view model of the wizard list.
type Data struct {
	Cards []Card
	// Busy disables every card while a generation runs in this session.
	Busy          bool
	CanContinue   bool
	ActivitiesURL string
}
