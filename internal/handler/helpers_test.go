package handler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/kyiku/textpin-back/internal/editor"
	"github.com/kyiku/textpin-back/internal/layout"
	"github.com/kyiku/textpin-back/internal/session"
	"github.com/kyiku/textpin-back/internal/testutil"
	"github.com/kyiku/textpin-back/internal/typeset"
)

func newTestStore(t *testing.T) *session.SessionStore {
	t.Helper()
	return newTestStoreWithExpiry(t, 0)
}

func newTestStoreWithExpiry(t *testing.T, expiry time.Duration) *session.SessionStore {
	t.Helper()
	return session.NewSessionStoreWithExpiry(func() *editor.Editor {
		ts, err := typeset.New()
		require.NoError(t, err)
		return editor.New(ts)
	}, expiry)
}

// newSessionWithImage creates a session holding a 200x100 image shown at 400x200.
func newSessionWithImage(t *testing.T, store *session.SessionStore) *session.Session {
	t.Helper()
	sess := store.Create()
	require.NoError(t, sess.Do(func(e *editor.Editor) error {
		if err := e.LoadImage(testutil.CreateTestPNG(200, 100), "base.png"); err != nil {
			return err
		}
		e.SetContainer(layout.DisplayExtent{Width: 400, Height: 400})
		return nil
	}))
	return sess
}

func newJSONContext(method, path, sessionID string, body interface{}) *testutil.TestContext {
	tc := testutil.NewTestContextWithJSON(method, path, body)
	if sessionID != "" {
		tc.SetCookie(SessionCookieName, sessionID)
	}
	return tc
}

func newMultipartContext(t *testing.T, path, sessionID, field, filename string, data []byte) *testutil.TestContext {
	t.Helper()

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	tc := testutil.NewTestContext(http.MethodPost, path, &body)
	tc.Request.Header.Set("Content-Type", w.FormDataContentType())
	if sessionID != "" {
		tc.SetCookie(SessionCookieName, sessionID)
	}
	return tc
}

// stateOf decodes the "state" field of a response.
func stateOf(t *testing.T, tc *testutil.TestContext) editor.Report {
	t.Helper()
	var resp struct {
		State editor.Report `json:"state"`
	}
	require.NoError(t, json.Unmarshal(tc.Recorder.Body.Bytes(), &resp))
	return resp.State
}
