package core

import (
	"strings"

	"github.com/pkg/errors"
)

// Kind is one of the managed resource kinds.
type Kind string

const (
	KindStudent Kind = "student"
	KindSubject Kind = "subject"
	KindScore   Kind = "score"
)

var (
	Kinds = []Kind{KindStudent, KindSubject, KindScore}

	ErrUnknownKind = errors.New("unknown resource kind")
)

// ParseKind accepts the singular or plural name of a kind, case-insensitively.
func ParseKind(s string) (Kind, error) {
	s = CleanString(s, true /* lower */)
	for _, k := range Kinds {
		if s == string(k) || s == k.Resource() {
			return k, nil
		}
	}
	return "", errors.Wrapf(ErrUnknownKind, "%q", s)
}

// Resource is the backend path segment of the kind.
func (k Kind) Resource() string { return string(k) + "s" }

func (k Kind) Title() string {
	if k == "" {
		return ""
	}
	return strings.ToUpper(string(k[:1])) + string(k[1:])
}
