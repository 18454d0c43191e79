package layouts

import (
	cmp "maragu.dev/gomponents"
	hx "maragu.dev/gomponents-htmx"
	"maragu.dev/gomponents/components"
	g "maragu.dev/gomponents/html"

	"github.com/nfrund/coursewizard/internal/view"
)

const htmxSrc = "https://unpkg.com/htmx.org@2.0.4"

// Base is the page shell shared by every screen: navigation, flash messages and
// the page content. Navigation and forms are boosted by htmx.
func Base(title string, flashes []view.FlashMessage, content cmp.Node) cmp.Node {
	return components.HTML5(components.HTML5Props{
		Title:    CalculateTitle(title),
		Language: "en",
		Head: []cmp.Node{
			g.Meta(g.Name("viewport"), g.Content("width=device-width, initial-scale=1")),
			g.Script(g.Src(htmxSrc)),
			g.Link(g.Rel("stylesheet"), g.Href("/static/app.css")),
		},
		Body: []cmp.Node{
			hx.Boost("true"),
			g.Class("bg-gray-50 text-gray-900"),
			nav(),
			g.Main(
				g.Class("container mx-auto p-8"),
				flashList(flashes),
				content,
			),
		},
	})
}

func nav() cmp.Node {
	return g.Nav(
		g.Class("bg-indigo-700 text-white px-8 py-4 flex gap-6"),
		g.A(g.Href("/modules"), cmp.Text("Modules")),
		g.A(g.Href("/submodules"), cmp.Text("Submodules")),
		g.Form(
			g.Method("post"), g.Action("/course/reset"), g.Class("ml-auto"),
			hx.Confirm("Leave this course? Generated submodule versions will be forgotten."),
			g.Button(g.Type("submit"), cmp.Text("Leave course")),
		),
	)
}

func flashList(flashes []view.FlashMessage) cmp.Node {
	if len(flashes) == 0 {
		return nil
	}
	return g.Div(
		g.ID("flashes"), g.Class("mb-6 space-y-2"),
		cmp.Map(flashes, func(f view.FlashMessage) cmp.Node {
			return g.Div(
				g.Role("alert"),
				cmp.If(f.IsError(), g.Class("p-3 rounded bg-red-100 text-red-800")),
				cmp.If(!f.IsError(), g.Class("p-3 rounded bg-green-100 text-green-800")),
				cmp.Text(f.Text),
			)
		}),
	)
}
