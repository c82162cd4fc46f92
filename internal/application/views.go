package application

import "github.com/bnema/nmoo-cli/internal/domain"

type VerbEntry struct {
	ID    domain.VerbID
	Names string
}

// ObjectView is an object's listing as shown to the user.
type ObjectView struct {
	Header string
	Verbs  []VerbEntry
}

func newObjectView(id domain.ObjectID, object domain.ObjectData) ObjectView {
	ids := object.SortedVerbIDs()

	entries := make([]VerbEntry, 0, len(ids))
	for _, verbID := range ids {
		entries = append(entries, VerbEntry{ID: verbID, Names: object.Verbs[verbID].Names})
	}

	return ObjectView{Header: object.Header(id), Verbs: entries}
}

func (v ObjectView) VerbIDs() []domain.VerbID {
	ids := make([]domain.VerbID, 0, len(v.Verbs))
	for _, entry := range v.Verbs {
		ids = append(ids, entry.ID)
	}
	return ids
}
