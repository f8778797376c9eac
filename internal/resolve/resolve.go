// pattern: Functional Core

// Package resolve turns a raw project token from the command line into a
// project name.
package resolve

import (
	"fmt"
	"strings"

	"projman/internal/logging"
)

// RecentMarker is the token that stands for the most recently used project.
const RecentMarker = "-"

// SuggestionKind classifies the outcome of Suggest.
type SuggestionKind int

const (
	Nothing      SuggestionKind = iota // No candidate
	Found                              // Exact match
	FoundSimilar                       // First prefix match
)

func (k SuggestionKind) String() string {
	switch k {
	case Found:
		return "found"
	case FoundSimilar:
		return "similar"
	default:
		return "nothing"
	}
}

// Suggestion is the result of Suggest. Name is empty for Nothing.
type Suggestion struct {
	Kind SuggestionKind
	Name string
}

// Suggest looks token up in known. An exact match wins; otherwise the first
// entry, in the given order, that starts with token is offered. Only one
// candidate is ever considered.
func Suggest(token string, known []string) Suggestion {
	for _, name := range known {
		if name == token {
			return Suggestion{Kind: Found, Name: token}
		}
	}
	for _, name := range known {
		if strings.HasPrefix(name, token) {
			return Suggestion{Kind: FoundSimilar, Name: name}
		}
	}
	return Suggestion{Kind: Nothing}
}

// Confirmer asks the user a yes/no question.
type Confirmer interface {
	Confirm(question string, def bool) bool
}

// ConfirmFunc adapts a plain function to Confirmer.
type ConfirmFunc func(question string, def bool) bool

// Confirm implements Confirmer.
func (f ConfirmFunc) Confirm(question string, def bool) bool {
	return f(question, def)
}

// Resolver applies the recent-project shorthand and autocompletion rules.
type Resolver struct {
	RecentEnabled bool
	Recent        string // Name of the most recently used project, if any
	Autocomplete  bool
	Confirm       Confirmer
	Logger        *logging.ScopedLogger
}

// Resolve returns the project name token refers to, or false if none.
//
// The recent marker resolves straight to Recent without a catalog lookup.
// With autocompletion on, an exact match is returned as is and a prefix match
// is offered to the user for confirmation. With autocompletion off the token
// is returned verbatim; the caller checks it exists.
func (r Resolver) Resolve(token string, known []string) (string, bool) {
	if token == RecentMarker && r.RecentEnabled {
		if r.Recent == "" {
			r.Logger.Debug("no recent project recorded")
			return "", false
		}
		return r.Recent, true
	}

	if !r.Autocomplete {
		return token, true
	}

	s := Suggest(token, known)
	r.Logger.Debug("suggestion", "token", token, "kind", s.Kind.String(), "name", s.Name)

	switch s.Kind {
	case Found:
		return token, true
	case FoundSimilar:
		if r.Confirm == nil {
			return "", false
		}
		if r.Confirm.Confirm(fmt.Sprintf("Did you mean %q?", s.Name), true) {
			return s.Name, true
		}
		return "", false
	default:
		return "", false
	}
}
