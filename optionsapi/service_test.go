package optionsapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coursehand/coursehand/prompt"
	"github.com/coursehand/coursehand/settings"
	"github.com/coursehand/coursehand/store"
)

func testServer(t *testing.T) (*store.Store, *httptest.Server) {
	t.Helper()
	st := store.OpenMemory(t)
	srv := httptest.NewServer(New(st, nil).Handler())
	t.Cleanup(srv.Close)
	return st, srv
}

func TestGetSettings(t *testing.T) {
	_, srv := testServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/settings")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var cfg settings.Settings
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&cfg))
	assert.Equal(t, settings.SchemaVersion, cfg.SchemaVersion)
	assert.NotEmpty(t, cfg.Prompts)
}

func TestPutSettings(t *testing.T) {
	st, srv := testServer(t)

	body := []byte(`{"selectedModel": "claude", "theme": "dark"}`)
	req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/settings", bytes.NewReader(body))
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	cfg, err := st.Settings()
	require.NoError(t, err)
	assert.Equal(t, settings.ModelClaude, cfg.SelectedModel)
	assert.Equal(t, "dark", cfg.Theme)
	// Omitted fields keep their stored value.
	assert.True(t, cfg.ShowButton)
}

func TestPutSettingsRejectsBadValues(t *testing.T) {
	_, srv := testServer(t)

	for _, body := range []string{
		`{"aiMode": "sometimes"}`,
		`{"selectedModel": "gpt-99"}`,
		`{"copyFormat": "xml"}`,
		`{not json`,
	} {
		req, err := http.NewRequest(http.MethodPut, srv.URL+"/api/v1/settings", bytes.NewReader([]byte(body)))
		require.NoError(t, err)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %s", body)
	}
}

func TestPromptCRUD(t *testing.T) {
	st, srv := testServer(t)

	// Add.
	body := []byte(`{"name": "Quiz", "content": "Quiz me on {{Transcript}}"}`)
	resp, err := http.Post(srv.URL+"/api/v1/prompts", "application/json", bytes.NewReader(body))
	require.NoError(t, err)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created prompt.Template
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	resp.Body.Close()
	require.NotEmpty(t, created.ID)

	// List.
	resp, err = http.Get(srv.URL + "/api/v1/prompts")
	require.NoError(t, err)
	var list []prompt.Template
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&list))
	resp.Body.Close()
	assert.Len(t, list, 2)

	// Delete.
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/prompts/"+created.ID, nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	cfg, err := st.Settings()
	require.NoError(t, err)
	assert.Len(t, cfg.Prompts, 1)
}

func TestDeleteDefaultPromptRejected(t *testing.T) {
	_, srv := testServer(t)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/prompts/"+prompt.DefaultID, nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestDeleteUnknownPrompt(t *testing.T) {
	_, srv := testServer(t)

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/prompts/nope", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestAddPromptRequiresNameAndContent(t *testing.T) {
	_, srv := testServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/prompts", "application/json",
		bytes.NewReader([]byte(`{"name": "  "}`)))
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
