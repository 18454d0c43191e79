package view

// Row is one module as shown in the list.
type Row struct {
	Index       int
	ID          string
	Title       string
	Description string
	Hours       string
}

// Form holds the values of the add or edit form.
type Form struct {
	Title       string
	Description string
	Hours       string
}

// Data is the view model of the module list page.
type Data struct {
	Rows []Row
	// Editing is the index of the row shown as a form, or -1.
	Editing int
	Edit    Form
	Add     Form
}
