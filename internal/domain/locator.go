package domain

import (
	"fmt"
	"strings"
)

type ObjectID string
type VerbID string

// Locator addresses an object, and optionally one of its verbs, in
// "token/objid[/verbid]" form.
type Locator struct {
	Token    string
	ObjectID ObjectID
	VerbID   VerbID
}

func ParseLocator(raw string) (Locator, error) {
	trimmed := strings.TrimPrefix(strings.TrimSpace(raw), "#")

	parts := strings.Split(trimmed, "/")
	if len(parts) < 2 || len(parts) > 3 {
		return Locator{}, fmt.Errorf("%w %q: want token/objid[/verbid]", ErrInvalidLocator, raw)
	}

	locator := Locator{
		Token:    parts[0],
		ObjectID: ObjectID(parts[1]),
	}
	if len(parts) == 3 {
		locator.VerbID = VerbID(parts[2])
	}

	return locator, nil
}

func (l Locator) String() string {
	if l.VerbID == "" {
		return fmt.Sprintf("%s/%s", l.Token, l.ObjectID)
	}
	return fmt.Sprintf("%s/%s/%s", l.Token, l.ObjectID, l.VerbID)
}

func (l Locator) WithVerb(id VerbID) Locator {
	l.VerbID = id
	return l
}
