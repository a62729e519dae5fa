package router

const (
	Login          = "Login"
	Home           = "Home"
	ReportDesigner = "ReportDesigner"
	Templates      = "Templates"
	Layouts        = "Layouts"
	Schedules      = "Schedules"
	Settings       = "Settings"
)

type Route struct {
	Name         string
	Path         string
	Title        string
	RequiresAuth bool
	AdminOnly    bool
}

var routes = []Route{
	{Name: Login, Path: "/login", Title: "Login"},
	{Name: Home, Path: "/", Title: "Home", RequiresAuth: true},
	{Name: ReportDesigner, Path: "/designer", Title: "Report Designer", RequiresAuth: true},
	{Name: Templates, Path: "/templates", Title: "Templates", RequiresAuth: true},
	{Name: Layouts, Path: "/layouts", Title: "Layouts", RequiresAuth: true},
	{Name: Schedules, Path: "/schedules", Title: "Schedules", RequiresAuth: true},
	{Name: Settings, Path: "/settings", Title: "Settings", RequiresAuth: true, AdminOnly: true},
}

// Routes returns the route table in declaration order.
func Routes() []Route {
	return append([]Route(nil), routes...)
}

func Lookup(name string) (Route, bool) {
	for _, r := range routes {
		if r.Name == name {
			return r, true
		}
	}
	return Route{}, false
}

func LookupPath(path string) (Route, bool) {
	for _, r := range routes {
		if r.Path == path {
			return r, true
		}
	}
	return Route{}, false
}
