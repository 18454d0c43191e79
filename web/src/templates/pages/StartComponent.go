package pages

import (
	cmp "maragu.dev/gomponents"
	g "maragu.dev/gomponents/html"
)

// StartContent is shown when no course is active in the session. It lets the
// author enter the wizard for a course version by hand.
func StartContent() cmp.Node {
	return g.Div(
		g.Class("bg-white shadow-2xl rounded-xl p-10"),
		g.H1(
			g.Class("text-4xl font-extrabold text-indigo-700 mb-4 border-b pb-2"),
			cmp.Text("Start the course wizard"),
		),
		g.P(
			g.Class("text-gray-700 mb-6 leading-relaxed"),
			cmp.Text("No course is active in this session. Open the wizard from a course, or enter its identifiers below."),
		),
		g.Form(
			g.Method("get"), g.Action("/course/start"), g.Class("space-y-4"),
			g.Label(g.For("course_id"), cmp.Text("Course ID")),
			g.Input(g.ID("course_id"), g.Name("course_id"), g.Required()),
			g.Label(g.For("version_id"), cmp.Text("Module version ID")),
			g.Input(g.ID("version_id"), g.Name("version_id"), g.Required()),
			g.Button(g.Type("submit"), g.Class("px-4 py-2 bg-indigo-600 text-white rounded"), cmp.Text("Start")),
		),
	)
}
