package views

import (
	"strconv"

	g "github.com/maragudk/gomponents"
	. "github.com/maragudk/gomponents/html"
)

type DashboardCount struct {
	Label string
	Href  string
	Count int64
}

type DashboardProps struct {
	Email  string
	Counts []DashboardCount
	// Error replaces the counts when they could not be loaded.
	Error string
}

func DashboardPage(props DashboardProps) g.Node {
	counts := make([]g.Node, 0, len(props.Counts))
	for _, c := range props.Counts {
		counts = append(counts, Div(Class("card count"),
			Strong(g.Text(strconv.FormatInt(c.Count, 10))),
			A(Href(c.Href), g.Text(c.Label)),
		))
	}
	return Layout(LayoutProps{Title: "Dashboard", Email: props.Email},
		H1(g.Text("Dashboard")),
		g.If(props.Error != "", Div(Class("error"), g.Text(props.Error))),
		g.If(props.Error == "", Div(Class("counts"), g.Group(counts))),
	)
}
