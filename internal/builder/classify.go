package builder

import (
	"strings"

	"github.com/toyz/apidoc/internal/models"
)

// Classification is the outcome of list detection for a route handler
type Classification int

const (
	// Single marks a route returning one entity
	Single Classification = iota
	// List marks a route returning a collection of entities
	List
	// Ambiguous marks a handler whose name suggests a collection without
	// matching a known list action. It is documented as Single.
	Ambiguous
)

func (c Classification) String() string {
	switch c {
	case List:
		return "list"
	case Ambiguous:
		return "ambiguous"
	default:
		return "single"
	}
}

// Classifier decides whether a route returns a list of entities
type Classifier func(route models.RouteDescriptor) Classification

// DefaultClassifier treats handlers whose final segment is "find" as list operations.
// The handler naming convention is a heuristic, not a guarantee.
var DefaultClassifier = ActionClassifier("find")

// ActionClassifier classifies a route by its handler action. Actions starting with "find" or "list" other than the given list
// actions and "findOne" are reported as Ambiguous.
func ActionClassifier(listActions ...string) Classifier {
	actions := make(map[string]bool, len(listActions))
	for _, action := range listActions {
		actions[action] = true
	}

	return func(route models.RouteDescriptor) Classification {
		action := route.Action()
		if actions[action] {
			return List
		}

		lower := strings.ToLower(action)
		if lower == "findone" {
			return Single
		}
		if strings.HasPrefix(lower, "find") || strings.HasPrefix(lower, "list") {
			return Ambiguous
		}
		return Single
	}
}
