package httpapi

// demoQueries are sample searches that illustrate the kind of questions
// the catalog can answer.
var demoQueries = []string{
	"Bike for small kids",
	"Best Mountain bikes for kids",
	"Cheap Mountain bike for kids",
	"Female specific mountain bike",
	"Road bike for beginners",
	"Commuter bike for people over 60",
	"Comfortable commuter bike",
	"Good bike for college students",
	"Mountain bike for beginners",
	"Vintage bike",
	"Comfortable city bike",
}

// DemoQueries returns a copy of the predefined query list.
func DemoQueries() []string {
	out := make([]string, len(demoQueries))
	copy(out, demoQueries)
	return out
}
