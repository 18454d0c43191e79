package view

// Row is one submodule as shown in the list.
type Row struct {
	Index       int
	ID          string
	Title       string
	Description string
}

// Form holds the values of the add or edit form.
type Form struct {
	Title       string
	Description string
}

// Data is the view model of the submodule detail page.
type Data struct {
	ModuleID    string
	ModuleTitle string
	ModuleHours string
	VersionID   string
	Rows        []Row
	Suggestions []string
	Editing     int
	Edit        Form
	Add         Form
}
