package application

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bnema/nmoo-cli/internal/domain"
	"github.com/bnema/nmoo-cli/internal/ports"
	"go.uber.org/zap"
)

// VerbService drives one object/verb editing session.
type VerbService struct {
	client   ports.ObjectClient
	editor   ports.Editor
	prompter ports.Prompter
	logger   *zap.Logger

	session domain.Session
	object  domain.ObjectData
	buffer  string
}

func NewVerbService(client ports.ObjectClient, editor ports.Editor, prompter ports.Prompter, logger *zap.Logger) *VerbService {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &VerbService{
		client:   client,
		editor:   editor,
		prompter: prompter,
		logger:   logger,
	}
}

func (s *VerbService) Session() domain.Session {
	return s.session
}

func (s *VerbService) Buffer() string {
	return s.buffer
}

// LoadObject fetches the object behind locator. The session only moves to the
// new object once the fetch succeeds.
func (s *VerbService) LoadObject(ctx context.Context, locator domain.Locator) (ObjectView, error) {
	object, err := s.client.GetObject(ctx, locator.Token, locator.ObjectID)
	if err != nil {
		return ObjectView{}, err
	}

	s.session.Attach(locator)
	s.object = object

	return newObjectView(locator.ObjectID, object), nil
}

// OpenVerb makes id the current verb and loads its source into the buffer.
func (s *VerbService) OpenVerb(_ context.Context, id domain.VerbID) (string, error) {
	verb, err := s.object.Verb(id)
	if err != nil {
		return "", err
	}

	if err := s.session.Navigate(id, s.confirm); err != nil {
		return "", err
	}

	s.buffer = verb.Source()
	s.logger.Debug("opened verb", zap.String("objid", string(s.session.ObjectID)), zap.String("verbid", string(id)))

	return s.buffer, nil
}

// EditVerb hands the buffer to the editor and reports whether it changed.
func (s *VerbService) EditVerb(ctx context.Context) (bool, error) {
	if s.session.VerbID == "" {
		return false, domain.ErrNoVerbSelected
	}

	edited, err := s.editor.Edit(ctx, string(s.session.VerbID), s.buffer)
	if err != nil {
		return false, fmt.Errorf("edit verb %s: %w", s.session.VerbID, err)
	}
	if edited == s.buffer {
		return false, nil
	}

	s.buffer = edited
	s.session.MarkModified()
	return true, nil
}

// Save uploads the buffer. The session stays modified when the server refuses.
func (s *VerbService) Save(ctx context.Context) (string, error) {
	if s.session.VerbID == "" {
		return "", domain.ErrNoVerbSelected
	}

	s.logger.Info("saving verb", zap.String("objid", string(s.session.ObjectID)), zap.String("verbid", string(s.session.VerbID)))

	resp, err := s.client.UpdateVerbCode(ctx, s.session.Locator(), s.buffer)
	if err != nil {
		return "", err
	}

	if verb, ok := s.object.Verbs[s.session.VerbID]; ok {
		verb.Code = s.buffer
		s.object.Verbs[s.session.VerbID] = verb
	}
	s.session.MarkSaved()

	return resp, nil
}

func (s *VerbService) confirm(prompt string) bool {
	if s.prompter == nil {
		return false
	}
	return s.prompter.Confirm(prompt)
}

// BrowseUI is the interactive surface of Browse.
type BrowseUI interface {
	ShowObject(view ObjectView, selected domain.VerbID)
	PickVerb(verbs []domain.VerbID) (domain.VerbID, error)
	Notify(message string)
	NotifyError(err error)
}

// Browse loads the object, then loops: pick a verb, edit it, offer to save.
// It returns when the user picks nothing and has no unsaved changes, or
// agrees to drop them.
func (s *VerbService) Browse(ctx context.Context, locator domain.Locator, ui BrowseUI) error {
	view, err := s.LoadObject(ctx, locator)
	if err != nil {
		return err
	}

	next := locator.VerbID
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		if next == "" {
			ui.ShowObject(view, s.session.VerbID)

			picked, err := ui.PickVerb(view.VerbIDs())
			if err != nil {
				if errors.Is(err, domain.ErrVerbNotFound) {
					ui.NotifyError(err)
					continue
				}
				return err
			}

			if picked == "" {
				if s.session.Modified && !s.confirm(domain.UnsavedChangesPrompt) {
					continue
				}
				return nil
			}
			next = picked
		}

		resume := next == s.session.VerbID && s.session.Modified
		if !resume {
			if _, err := s.OpenVerb(ctx, next); err != nil {
				next = ""
				if errors.Is(err, domain.ErrNavigationCancelled) || errors.Is(err, domain.ErrVerbNotFound) {
					ui.NotifyError(err)
					continue
				}
				return err
			}
		}
		next = ""

		changed, err := s.EditVerb(ctx)
		if err != nil {
			return err
		}
		if !changed && !s.session.Modified {
			ui.Notify(fmt.Sprintf("No changes to %s.", s.session.VerbID))
			continue
		}

		if !s.confirm(fmt.Sprintf("Save %s on #%s?", s.session.VerbID, s.session.ObjectID)) {
			ui.Notify("Changes kept but not saved.")
			continue
		}

		resp, err := s.Save(ctx)
		if err != nil {
			ui.NotifyError(err)
			continue
		}
		ui.Notify(savedMessage(s.session.VerbID, resp))
	}
}

func savedMessage(id domain.VerbID, resp string) string {
	resp = strings.TrimSpace(resp)
	if resp == "" {
		return fmt.Sprintf("Saved %s.", id)
	}
	return fmt.Sprintf("Saved %s: %s", id, resp)
}
