package view

import (
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	g "maragu.dev/gomponents/html"
)

// Page renders the wizard list. While a generation is running the list polls
// itself so the cards unlock when it finishes.
func Page(data Data) cmp.Node {
	return g.Div(
		g.ID("wizard"), g.Class("space-y-6"),
		cmp.If(data.Busy, cmp.Group{
			hx.Get("/submodules"), hx.Trigger("every 2s"),
			hx.Select("#wizard"), hx.Target("#wizard"), hx.Swap("outerHTML"),
		}),
		g.H1(g.Class("text-3xl font-bold text-indigo-700"), cmp.Text("Submodules")),
		g.P(g.Class("text-gray-600"), cmp.Text("Open a module to generate and review its submodules.")),
		cmp.If(len(data.Cards) == 0,
			g.P(g.Class("text-gray-600"), cmp.Text("This course has no modules yet.")),
		),
		g.Div(
			g.Class("grid grid-cols-1 md:grid-cols-2 gap-4"),
			cmp.Map(data.Cards, func(c Card) cmp.Node { return card(c, data.Busy) }),
		),
		continueLink(data),
	)
}

func card(c Card, busy bool) cmp.Node {
	label := "Open"
	if !c.Ready && c.State == "ungenerated" {
		label = "Generate submodules"
	}
	return g.Form(
		g.Method("post"), g.Action("/submodules/"+c.ModuleID+"/open"),
		g.Class("bg-white shadow rounded p-4 space-y-2"),
		g.Data("state", c.State),
		g.H2(g.Class("text-xl font-semibold"), cmp.Text(c.Title)),
		g.P(g.Class("text-gray-700"), cmp.Text(c.Description)),
		g.Span(g.Class("text-sm text-gray-500"), cmp.Text(c.Hours)),
		g.Span(g.Class("ml-2 text-sm font-medium"), cmp.Text(c.State)),
		cmp.If(c.Error != "", g.P(g.Class("text-sm text-red-700"), cmp.Text(c.Error))),
		g.Button(
			g.Type("submit"), g.Class("px-3 py-1 bg-indigo-600 text-white rounded disabled:opacity-50"),
			cmp.If(busy, g.Disabled()),
			cmp.If(c.Generating, cmp.Text("Generating…")),
			cmp.If(!c.Generating, cmp.Text(label)),
		),
	)
}

func continueLink(data Data) cmp.Node {
	if !data.CanContinue {
		return g.Span(
			g.ID("continue"), g.Class("inline-block px-4 py-2 bg-gray-300 text-gray-600 rounded"),
			cmp.Attr("title", "Every module needs generated submodules first"),
			cmp.Text("Continue to activities"),
		)
	}
	return g.A(
		g.ID("continue"), g.Href(data.ActivitiesURL),
		g.Class("inline-block px-4 py-2 bg-indigo-600 text-white rounded"),
		cmp.Text("Continue to activities"),
	)
}
