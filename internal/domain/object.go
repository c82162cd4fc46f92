package domain

import (
	"fmt"
	"sort"
	"strings"
)

type Verb struct {
	Names string `json:"names"`
	Code  string `json:"code"`
}

// Label is the listing line for a verb, "name: names".
func (v Verb) Label(id VerbID) string {
	return fmt.Sprintf("%s: %s", id, v.Names)
}

// Source is the code as loaded into an editor buffer.
func (v Verb) Source() string {
	return strings.TrimLeft(v.Code, " \t\r\n")
}

type ObjectData struct {
	Name  string          `json:"name"`
	Verbs map[VerbID]Verb `json:"verbs"`
}

func (o ObjectData) Header(id ObjectID) string {
	return fmt.Sprintf("%s (#%s)", o.Name, id)
}

func (o ObjectData) SortedVerbIDs() []VerbID {
	ids := make([]VerbID, 0, len(o.Verbs))
	for id := range o.Verbs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (o ObjectData) Verb(id VerbID) (Verb, error) {
	if id == "" {
		return Verb{}, ErrNoVerbSelected
	}
	verb, ok := o.Verbs[id]
	if !ok {
		return Verb{}, fmt.Errorf("%w: %s", ErrVerbNotFound, id)
	}
	return verb, nil
}
