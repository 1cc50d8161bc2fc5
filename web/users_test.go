package web

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *Router {
	t.Helper()
	t.Setenv("KEY", "test-signing-key")

	r := NewRouter(nil)
	r.Init()
	require.NoError(t, r.App.Build())
	return r
}

func do(r *Router, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.App.ServeHTTP(w, req)
	return w
}

func postJSON(t *testing.T, r *Router, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	return do(r, req)
}

func message(t *testing.T, w *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	msg, _ := body["message"].(string)
	return msg
}

func TestRegisterValidation(t *testing.T) {
	r := newTestRouter(t)

	cases := []struct {
		name    string
		body    map[string]string
		wantMsg string
	}{
		{"missing name", map[string]string{"email": "ana@x.com", "password": "abcdefgh", "phone": "123456789"}, "name is required"},
		{"bad email", map[string]string{"name": "ana", "email": "nope", "password": "abcdefgh", "phone": "123456789"}, "email must look like local@domain.tld"},
		{"short password", map[string]string{"name": "ana", "email": "ana@x.com", "password": "short", "phone": "123456789"}, "password must be between 8 and 16 characters"},
		{"bad phone", map[string]string{"name": "ana", "email": "ana@x.com", "password": "abcdefgh", "phone": "12345"}, "phone must be a 9 digit number"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := postJSON(t, r, "/users", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, tc.wantMsg, message(t, w))
		})
	}
}

func TestRegisterRejectsAdminRole(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/users", map[string]string{
		"name":     "ana",
		"email":    "ana@x.com",
		"password": "abcdefgh",
		"phone":    "123456789",
		"role":     "admin",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "you are not allowed to register with the admin role", message(t, w))
}

func TestRegisterInvalidBody(t *testing.T) {
	r := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/users", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	w := do(r, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", message(t, w))
}

func TestRejectedRegistrationLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("UPLOADS_DIR", dir)
	r := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	// name missing on purpose, so the registration is rejected after the
	// avatar has already been stored
	require.NoError(t, mw.WriteField("email", "ana@x.com"))
	require.NoError(t, mw.WriteField("password", "abcdefgh"))
	require.NoError(t, mw.WriteField("phone", "123456789"))
	part, err := mw.CreateFormFile("image", "avatar.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a png"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/users", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := do(r, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestLoginMissingCredentials(t *testing.T) {
	r := newTestRouter(t)

	w := postJSON(t, r, "/users/login", map[string]string{"userData": "", "password": ""})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "incorrect user or password", message(t, w))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	r := newTestRouter(t)

	paths := []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/users"},
		{http.MethodGet, "/users/name/ana"},
		{http.MethodGet, "/users/phone/123456789"},
		{http.MethodPut, "/users/652d1bf9f63ae03f0fb02c02"},
		{http.MethodDelete, "/users/652d1bf9f63ae03f0fb02c02"},
	}

	for _, p := range paths {
		req := httptest.NewRequest(p.method, p.path, nil)
		w := do(r, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "%s %s", p.method, p.path)
	}
}
