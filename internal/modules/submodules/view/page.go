package view

import (
	"fmt"

	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

// Page renders the submodules of one module.
func Page(data Data) cmp.Node {
	base := "/submodules/" + data.ModuleID
	return g.Div(
		g.Class("space-y-8"),
		g.A(g.Href("/submodules"), g.Class("text-indigo-700"), cmp.Text("← All modules")),
		g.H1(g.Class("text-3xl font-bold text-indigo-700"), cmp.Text(data.ModuleTitle)),
		g.P(g.Class("text-sm text-gray-500"),
			cmp.Text(data.ModuleHours), cmp.Text(" · version "), g.Code(cmp.Text(data.VersionID)),
		),
		g.Ul(
			g.ID("submodules"), g.Class("space-y-4"),
			cmp.Map(data.Rows, func(r Row) cmp.Node {
				if r.Index == data.Editing {
					return editRow(base, r, data.Edit)
				}
				return row(base, r)
			}),
		),
		cmp.If(len(data.Suggestions) > 0, g.Div(
			g.Class("bg-yellow-50 rounded p-4"),
			g.H2(g.Class("font-semibold"), cmp.Text("Suggestions")),
			g.Ul(cmp.Map(data.Suggestions, func(s string) cmp.Node { return g.Li(cmp.Text(s)) })),
		)),
		g.Form(
			g.Method("post"), g.Action(base), g.Class("bg-white shadow rounded p-4 space-y-2"),
			g.H2(g.Class("text-lg font-semibold"), cmp.Text("Add a submodule")),
			fields(data.Add),
			g.Button(g.Type("submit"), g.Class("px-3 py-1 bg-indigo-600 text-white rounded"), cmp.Text("Add")),
		),
	)
}

func row(base string, r Row) cmp.Node {
	return g.Li(
		g.Class("bg-white shadow rounded p-4 flex items-start gap-4"),
		g.Div(
			g.Class("flex-1"),
			g.H2(g.Class("text-xl font-semibold"), cmp.Text(r.Title)),
			g.P(g.Class("text-gray-700"), cmp.Text(r.Description)),
		),
		g.A(g.Href(fmt.Sprintf("%s?edit=%d", base, r.Index)), cmp.Text("Edit")),
		g.Form(
			g.Method("post"), g.Action(fmt.Sprintf("%s/%d/delete", base, r.Index)),
			hx.Confirm(fmt.Sprintf("Delete submodule %q?", r.Title)),
			g.Input(g.Type("hidden"), g.Name("id"), g.Value(r.ID)),
			g.Input(g.Type("hidden"), g.Name("confirm"), g.Value("yes")),
			g.Button(g.Type("submit"), g.Class("text-red-700"), cmp.Text("Delete")),
		),
	)
}

func editRow(base string, r Row, f Form) cmp.Node {
	return g.Li(
		g.Class("bg-white shadow rounded p-4"),
		g.Form(
			g.Method("post"), g.Action(fmt.Sprintf("%s/%d", base, r.Index)), g.Class("space-y-2"),
			g.Input(g.Type("hidden"), g.Name("id"), g.Value(r.ID)),
			fields(f),
			g.Button(g.Type("submit"), g.Class("px-3 py-1 bg-indigo-600 text-white rounded"), cmp.Text("Save")),
			g.A(g.Href(base), g.Class("ml-4"), cmp.Text("Cancel")),
		),
	)
}

func fields(f Form) cmp.Node {
	return cmp.Group{
		g.Input(g.Name("title"), g.Placeholder("Title"), g.Value(f.Title), g.Class("w-full border rounded p-2")),
		g.Textarea(g.Name("description"), g.Placeholder("Description"), g.Class("w-full border rounded p-2"), cmp.Text(f.Description)),
	}
}
