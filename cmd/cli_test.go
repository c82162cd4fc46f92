package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const objectFixture = `{"name":"box","verbs":{"look":{"names":"l look","code":"\n(say \"box\")"},"get":{"names":"get take","code":"(take)"}}}`

// worldServer fakes the object data endpoints and records code updates.
type worldServer struct {
	*httptest.Server

	mu      sync.Mutex
	updates []codeUpdate
}

type codeUpdate struct {
	Token       string
	ObjID       string
	VerbID      string
	ContentType string
	Body        string
}

func newWorldServer(t *testing.T) *worldServer {
	t.Helper()

	ws := &worldServer{}
	ws.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/objdata":
			if r.URL.Query().Get("token") != "tok" {
				w.WriteHeader(http.StatusForbidden)
				_, _ = fmt.Fprint(w, "bad token")
				return
			}
			if r.URL.Query().Get("objid") != "42" {
				w.WriteHeader(http.StatusNotFound)
				_, _ = fmt.Fprint(w, "no such object")
				return
			}
			w.Header().Set("Content-Type", "application/json")
			_, _ = fmt.Fprint(w, objectFixture)
		case "/codeupdate":
			body, _ := io.ReadAll(r.Body)
			ws.mu.Lock()
			ws.updates = append(ws.updates, codeUpdate{
				Token:       r.URL.Query().Get("token"),
				ObjID:       r.URL.Query().Get("objid"),
				VerbID:      r.URL.Query().Get("verbid"),
				ContentType: r.Header.Get("Content-Type"),
				Body:        string(body),
			})
			ws.mu.Unlock()
			_, _ = fmt.Fprint(w, "compiled")
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(ws.Close)

	return ws
}

func (ws *worldServer) Updates() []codeUpdate {
	ws.mu.Lock()
	defer ws.mu.Unlock()
	return append([]codeUpdate(nil), ws.updates...)
}

func TestVersionPrintsBuildVersion(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "version")
	require.NoError(t, err)
	assert.Equal(t, "dev\n", stdout)
}

func TestVerbsListsObjectVerbs(t *testing.T) {
	server := newWorldServer(t)
	t.Setenv("NMOO_SERVER_URL", server.URL)

	stdout, _, err := executeCLI(t, t.TempDir(), "verbs", "tok/42")
	require.NoError(t, err)
	assert.Contains(t, stdout, "box (#42)")
	assert.Contains(t, stdout, "verbs: 2")
	assert.Contains(t, stdout, "get:")
	assert.Contains(t, stdout, "l look")
}

func TestVerbsJSONOutput(t *testing.T) {
	server := newWorldServer(t)

	stdout, _, err := executeCLI(t, t.TempDir(), "verbs", "#tok/42", "--server", server.URL, "--json")
	require.NoError(t, err)

	var listing verbListing
	require.NoError(t, json.Unmarshal([]byte(stdout), &listing))
	assert.Equal(t, "box (#42)", listing.Header)
	assert.Equal(t, []verbListEntry{{ID: "get", Names: "get take"}, {ID: "look", Names: "l look"}}, listing.Verbs)
}

func TestVerbsRejectsShortLocator(t *testing.T) {
	server := newWorldServer(t)

	_, _, err := executeCLI(t, t.TempDir(), "verbs", "tok", "--server", server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid locator")
}

func TestVerbsRequiresServerURL(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "verbs", "tok/42")
	require.ErrorIs(t, err, errNoServerURL)
}

func TestVerbsReportsServerStatus(t *testing.T) {
	server := newWorldServer(t)

	_, _, err := executeCLI(t, t.TempDir(), "verbs", "tok/7", "--server", server.URL, "--json")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 404")
	assert.Contains(t, err.Error(), "no such object")
}

func TestShowPrintsVerbSource(t *testing.T) {
	server := newWorldServer(t)

	stdout, _, err := executeCLI(t, t.TempDir(), "show", "tok/42/look", "--server", server.URL)
	require.NoError(t, err)
	assert.Equal(t, "(say \"box\")\n", stdout)
}

func TestShowRequiresVerb(t *testing.T) {
	server := newWorldServer(t)

	_, _, err := executeCLI(t, t.TempDir(), "show", "tok/42", "--server", server.URL)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no verb selected")
}

func TestSaveUploadsFile(t *testing.T) {
	server := newWorldServer(t)
	home := t.TempDir()
	source := filepath.Join(home, "look.moo")
	require.NoError(t, os.WriteFile(source, []byte("(say \"crate\")\n"), 0o600))

	stdout, _, err := executeCLI(t, home, "save", "tok/42/look", "--server", server.URL, "--file", source)
	require.NoError(t, err)
	assert.Equal(t, "compiled\n", stdout)

	updates := server.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, codeUpdate{
		Token:       "tok",
		ObjID:       "42",
		VerbID:      "look",
		ContentType: "text/plain;charset=UTF-8",
		Body:        "(say \"crate\")\n",
	}, updates[0])
}

func TestSaveReadsStdin(t *testing.T) {
	server := newWorldServer(t)

	_, _, err := executeCLIWithInput(t, t.TempDir(), "(take all)", "save", "tok/42/get", "--server", server.URL, "--file", "-")
	require.NoError(t, err)

	updates := server.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, "get", updates[0].VerbID)
	assert.Equal(t, "(take all)", updates[0].Body)
}

func TestEditBrowsesEditsAndSaves(t *testing.T) {
	server := newWorldServer(t)
	home := t.TempDir()
	t.Setenv("NMOO_EDITOR", writeFakeEditor(t, home, "(say \"crate\")"))

	stdout, _, err := executeCLIWithInput(t, home, "look\ny\n\n", "edit", "tok/42", "--server", server.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "box (#42)")
	assert.Contains(t, stdout, "Save look on #42? [y/N]")
	assert.Contains(t, stdout, "Saved look: compiled")

	updates := server.Updates()
	require.Len(t, updates, 1)
	assert.Equal(t, "look", updates[0].VerbID)
	assert.Equal(t, "(say \"crate\")", updates[0].Body)
}

func TestEditDeclinedSaveUploadsNothing(t *testing.T) {
	server := newWorldServer(t)
	home := t.TempDir()
	t.Setenv("NMOO_EDITOR", writeFakeEditor(t, home, "draft"))

	stdout, _, err := executeCLIWithInput(t, home, "get\nn\n\ny\n", "edit", "tok/42", "--server", server.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, "Changes kept but not saved.")
	assert.Contains(t, stdout, "You have unsaved changes.")
	assert.Empty(t, server.Updates())
}

func TestProfileAddListAndUseForVerbs(t *testing.T) {
	server := newWorldServer(t)
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "profile", "add", "local", "--base-url", server.URL, "--host", "localhost", "--port", "8888", "--player", "wizard")
	require.NoError(t, err)

	_, _, err = executeCLIWithInput(t, home, "tok\n", "profile", "token", "local", "--stdin")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "profile", "list")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("local\t%s\tlocalhost:8888\twizard\ttoken\n", server.URL), stdout)

	stdout, _, err = executeCLI(t, home, "verbs", "42", "--profile", "local", "--json")
	require.NoError(t, err)
	assert.Contains(t, stdout, "\"header\": \"box (#42)\"")

	secret, err := os.ReadFile(filepath.Join(home, ".nmoo", "secrets", "local", "token"))
	require.NoError(t, err)
	assert.Equal(t, "tok", string(secret))
}

func TestProfileRemoveDeletesSecrets(t *testing.T) {
	home := t.TempDir()

	_, _, err := executeCLI(t, home, "profile", "add", "local", "--host", "localhost", "--port", "8888")
	require.NoError(t, err)
	_, _, err = executeCLI(t, home, "profile", "password", "local", "--value", "hunter2")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "profile", "remove", "local")
	require.NoError(t, err)
	assert.Equal(t, "Removed profile local\n", stdout)

	_, err = os.Stat(filepath.Join(home, ".nmoo", "secrets", "local", "password"))
	assert.True(t, os.IsNotExist(err))

	_, _, err = executeCLI(t, home, "profile", "remove", "local")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile not found")
}

func TestProfileAddRejectsInvalidBaseURL(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "profile", "add", "local", "--base-url", "ws://nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "http or https")
}

func TestPushSendsPlainTextWithLength(t *testing.T) {
	var gotType, gotLength, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-type")
		gotLength = r.Header.Get("Content-length")
		body, _ := io.ReadAll(r.Body)
		gotBody = string(body)
		_, _ = fmt.Fprint(w, "saved")
	}))
	defer server.Close()

	home := t.TempDir()
	source := filepath.Join(home, "buffer.scm")
	require.NoError(t, os.WriteFile(source, []byte("(define x 1)"), 0o600))

	stdout, _, err := executeCLI(t, home, "push", server.URL+"/", source)
	require.NoError(t, err)
	assert.Equal(t, "saved\n", stdout)
	assert.Equal(t, "text/plain", gotType)
	assert.Equal(t, "12", gotLength)
	assert.Equal(t, "(define x 1)", gotBody)
}

func TestEditServHelpDescribesWriteCommand(t *testing.T) {
	stdout, _, err := executeCLI(t, t.TempDir(), "editserv", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Saving in the page with :w writes the buffer back to FILE.")
	assert.NotContains(t, stdout, "button")
}

func TestConnectStartsInCommandMode(t *testing.T) {
	stdout, _, err := executeCLIWithInput(t, t.TempDir(), "disconnect\nconnect onlyhost\nquit\n", "connect")
	require.NoError(t, err)
	assert.Contains(t, stdout, "nmoo WebSocket client")
	assert.Contains(t, stdout, "Not connected.")
	assert.Contains(t, stdout, "Usage: connect <host> <port> [<name> <pass>]")
}

func TestConnectRejectsSingleArgument(t *testing.T) {
	_, _, err := executeCLI(t, t.TempDir(), "connect", "localhost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "HOST PORT")
}

func TestLogsShowsCommandActivity(t *testing.T) {
	server := newWorldServer(t)
	home := t.TempDir()
	t.Setenv("NMOO_LOG_LEVEL", "debug")

	_, _, err := executeCLI(t, home, "verbs", "tok/42", "--server", server.URL, "--json")
	require.NoError(t, err)

	stdout, _, err := executeCLI(t, home, "logs", "--level", "debug")
	require.NoError(t, err)
	assert.Contains(t, stdout, "fetched object")
}

func executeCLI(t *testing.T, home string, args ...string) (string, string, error) {
	t.Helper()
	return executeCLIWithInput(t, home, "", args...)
}

func executeCLIWithInput(t *testing.T, home string, input string, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("HOME", home)
	t.Setenv("NMOO_SECRETS_BACKEND", "file")

	root := newRootCmd()
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	root.SetIn(strings.NewReader(input))
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.SetArgs(args)

	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

// writeFakeEditor returns an editor command that replaces the buffer with
// content.
func writeFakeEditor(t *testing.T, dir string, content string) string {
	t.Helper()

	path := filepath.Join(dir, "fake-editor.sh")
	script := fmt.Sprintf("#!/bin/sh\nprintf '%%s' '%s' > \"$1\"\n", content)
	require.NoError(t, os.WriteFile(path, []byte(script), 0o700))
	return path
}
