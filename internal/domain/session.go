package domain

const UnsavedChangesPrompt = "You have unsaved changes. Are you sure you want to navigate away?"

// Session tracks the object and verb currently open in an editor.
type Session struct {
	Token    string
	ObjectID ObjectID
	VerbID   VerbID
	Modified bool
}

// Attach points the session at an object without touching the open verb.
func (s *Session) Attach(locator Locator) {
	s.Token = locator.Token
	s.ObjectID = locator.ObjectID
}

// Navigate switches to another verb. Unsaved changes are only dropped when
// confirm agrees.
func (s *Session) Navigate(id VerbID, confirm func(prompt string) bool) error {
	if s.Modified {
		if confirm == nil || !confirm(UnsavedChangesPrompt) {
			return ErrNavigationCancelled
		}
	}

	s.VerbID = id
	s.Modified = false
	return nil
}

func (s *Session) MarkModified() {
	s.Modified = true
}

func (s *Session) MarkSaved() {
	s.Modified = false
}

func (s Session) Locator() Locator {
	return Locator{Token: s.Token, ObjectID: s.ObjectID, VerbID: s.VerbID}
}
