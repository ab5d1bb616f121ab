package adapter

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrameworkHandleRequest(t *testing.T) {
	type loadContext struct{ Tenant string }

	var gotLoad any
	var gotMode string
	build := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLoad = LoadContextFrom(r.Context())
		gotMode = ModeFromContext(r.Context())

		w.Header().Set("Content-Type", "text/plain")
		w.Header().Add("Set-Cookie", "a=1")
		w.Header().Add("Set-Cookie", "b=2")
		w.WriteHeader(http.StatusCreated)
		w.Header().Set("X-Too-Late", "ignored")
		_, _ = io.WriteString(w, "created")
	})

	f := NewFramework(build, "development")
	res, err := f.HandleRequest(httptest.NewRequest(http.MethodPost, "https://example.com/items", nil), &loadContext{Tenant: "contoso"})
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusCreated, res.StatusCode)
	assert.Equal(t, "201 Created", res.Status)
	assert.Equal(t, []string{"a=1", "b=2"}, res.Header.Values("Set-Cookie"))
	assert.Empty(t, res.Header.Get("X-Too-Late"))

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	assert.Equal(t, "created", string(body))

	assert.Equal(t, &loadContext{Tenant: "contoso"}, gotLoad)
	assert.Equal(t, "development", gotMode)
}

func TestFrameworkImplicitStatusAndSniffedType(t *testing.T) {
	build := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html><body>hi</body></html>"))
	})

	res, err := NewFramework(build, "").HandleRequest(httptest.NewRequest(http.MethodGet, "https://example.com/", nil), nil)
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "text/html; charset=utf-8", res.Header.Get("Content-Type"))
}

func TestFrameworkNoLoadContext(t *testing.T) {
	var gotLoad any = "unset"
	build := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotLoad = LoadContextFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	res, err := NewFramework(build, "").HandleRequest(httptest.NewRequest(http.MethodGet, "https://example.com/", nil), nil)
	require.NoError(t, err)

	assert.Nil(t, gotLoad)
	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, http.NoBody, res.Body)
}

func TestFrameworkHeadHasNoBody(t *testing.T) {
	build := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		_, _ = io.WriteString(w, "ignored for HEAD")
	})

	res, err := NewFramework(build, "").HandleRequest(httptest.NewRequest(http.MethodHead, "https://example.com/", nil), nil)
	require.NoError(t, err)

	assert.Equal(t, http.NoBody, res.Body)
	assert.Zero(t, res.ContentLength)
}

func TestFrameworkPanicBecomesError(t *testing.T) {
	build := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	res, err := NewFramework(build, "").HandleRequest(httptest.NewRequest(http.MethodGet, "https://example.com/", nil), nil)
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "boom")
}
