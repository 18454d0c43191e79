package view

import (
	"fmt"
	"strconv"

	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

// Page renders the module list with its inline edit form and the add form.
func Page(data Data) cmp.Node {
	return g.Div(
		g.Class("space-y-8"),
		g.H1(g.Class("text-3xl font-bold text-indigo-700"), cmp.Text("Modules")),
		cmp.If(len(data.Rows) == 0,
			g.P(g.Class("text-gray-600"), cmp.Text("This course has no modules yet.")),
		),
		g.Ul(
			g.ID("modules"), g.Class("space-y-4"),
			cmp.Map(data.Rows, func(r Row) cmp.Node {
				if r.Index == data.Editing {
					return editRow(r, data.Edit)
				}
				return row(r)
			}),
		),
		addForm(data.Add),
		g.A(g.Href("/submodules"), g.Class("inline-block px-4 py-2 bg-indigo-600 text-white rounded"),
			cmp.Text("Continue to submodules")),
	)
}

func row(r Row) cmp.Node {
	return g.Li(
		g.Class("bg-white shadow rounded p-4 flex items-start gap-4"),
		g.Div(
			g.Class("flex-1"),
			g.H2(g.Class("text-xl font-semibold"), cmp.Text(r.Title)),
			g.P(g.Class("text-gray-700"), cmp.Text(r.Description)),
			g.Span(g.Class("text-sm text-gray-500"), cmp.Text(r.Hours)),
		),
		g.A(g.Href(fmt.Sprintf("/modules?edit=%d", r.Index)), cmp.Text("Edit")),
		g.Form(
			g.Method("post"), g.Action(fmt.Sprintf("/modules/%d/delete", r.Index)),
			hx.Confirm(fmt.Sprintf("Delete module %q?", r.Title)),
			g.Input(g.Type("hidden"), g.Name("id"), g.Value(r.ID)),
			g.Input(g.Type("hidden"), g.Name("confirm"), g.Value("yes")),
			g.Button(g.Type("submit"), g.Class("text-red-700"), cmp.Text("Delete")),
		),
	)
}

func editRow(r Row, f Form) cmp.Node {
	return g.Li(
		g.Class("bg-white shadow rounded p-4"),
		g.Form(
			g.Method("post"), g.Action("/modules/"+strconv.Itoa(r.Index)), g.Class("space-y-2"),
			g.Input(g.Type("hidden"), g.Name("id"), g.Value(r.ID)),
			fields(f),
			g.Button(g.Type("submit"), g.Class("px-3 py-1 bg-indigo-600 text-white rounded"), cmp.Text("Save")),
			g.A(g.Href("/modules"), g.Class("ml-4"), cmp.Text("Cancel")),
		),
	)
}

func addForm(f Form) cmp.Node {
	return g.Form(
		g.Method("post"), g.Action("/modules"), g.Class("bg-white shadow rounded p-4 space-y-2"),
		g.H2(g.Class("text-lg font-semibold"), cmp.Text("Add a module")),
		fields(f),
		g.Button(g.Type("submit"), g.Class("px-3 py-1 bg-indigo-600 text-white rounded"), cmp.Text("Add")),
	)
}

func fields(f Form) cmp.Node {
	return cmp.Group{
		g.Input(g.Name("title"), g.Placeholder("Title"), g.Value(f.Title), g.Class("w-full border rounded p-2")),
		g.Textarea(g.Name("description"), g.Placeholder("Description"), g.Class("w-full border rounded p-2"), cmp.Text(f.Description)),
		g.Input(g.Name("hours"), g.Placeholder("1 hour"), g.Value(f.Hours), g.Class("w-full border rounded p-2")),
	}
}
