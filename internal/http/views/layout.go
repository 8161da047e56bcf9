package views

import (
	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

type LayoutProps struct {
	Title string
	// Email is empty for anonymous visitors.
	Email string
}

const baseCSS = `
body { font-family: system-ui, sans-serif; margin: 0; background: #f5f6f8; color: #1f2933; }
.nav { display: flex; justify-content: space-between; padding: 12px 24px; background: #1e88e5; color: #fff; }
.nav a, .nav button { color: #fff; background: none; border: 0; font: inherit; cursor: pointer; }
.container { max-width: 960px; margin: 32px auto; padding: 0 16px; }
.card { background: #fff; border-radius: 8px; padding: 24px; box-shadow: 0 1px 3px rgba(0,0,0,.1); }
.error { color: #e53935; margin-bottom: 12px; }
.counts { display: grid; grid-template-columns: repeat(auto-fill, minmax(160px, 1fr)); gap: 16px; }
.count strong { display: block; font-size: 2em; }
label { display: block; margin: 12px 0 4px; }
input[type=email], input[type=password] { width: 100%; padding: 8px; box-sizing: border-box; }
`

func navbar(props LayoutProps) g.Node {
	return Nav(Class("nav"),
		Div(A(Href("/dashboard"), g.Text("IdeaRoom Admin"))),
		g.If(props.Email != "",
			Form(Method("post"), Action("/logout"),
				Span(g.Text(props.Email+" ")),
				Button(Type("submit"), g.Text("Log out")),
			),
		),
	)
}

func Layout(props LayoutProps, children ...g.Node) g.Node {
	return Doctype(
		HTML(
			Lang("ka"),
			Head(
				Meta(Charset("utf-8")),
				Meta(Name("viewport"), Content("width=device-width, initial-scale=1")),
				TitleEl(g.Text(props.Title)),
				StyleEl(g.Raw(baseCSS)),
			),
			Body(
				navbar(props),
				Main(Class("container"),
					g.Group(children),
				),
			),
		),
	)
}
