package views

import (
	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

type LoginProps struct {
	Error           string
	RememberedEmail string
}

// LoginPage posts back to /api/login as a form; the handler redirects on success.
func LoginPage(props LoginProps) g.Node {
	return Layout(LayoutProps{Title: "Login"},
		Div(Class("card"),
			H1(g.Text("Admin login")),
			g.If(props.Error != "", Div(Class("error"), g.Text(props.Error))),
			Form(Method("post"), Action("/api/login"),
				Label(For("email"), g.Text("Email")),
				Input(Type("email"), ID("email"), Name("email"), Value(props.RememberedEmail), Required()),
				Label(For("password"), g.Text("Password")),
				Input(Type("password"), ID("password"), Name("password"), Required()),
				Label(
					Input(Type("checkbox"), Name("remember"), Value("true"), g.If(props.RememberedEmail != "", Checked())),
					g.Text(" Remember me"),
				),
				Button(Type("submit"), g.Text("Log in")),
			),
		),
	)
}
