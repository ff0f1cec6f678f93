package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type tokenFijo string

func (t tokenFijo) Token() string { return string(t) }

func TestDoJSONAgregaBearer(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewWithBaseURL: %v", err)
	}
	c.Tokens = tokenFijo("abc123")

	var out struct {
		OK bool `json:"ok"`
	}
	if err := c.DoJSON(context.Background(), http.MethodGet, "/x/", nil, &out); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if gotAuth != "Bearer abc123" {
		t.Fatalf("Authorization = %q", gotAuth)
	}
	if !out.OK {
		t.Fatal("no decodificó el body")
	}
}

func TestDoJSONSinAuth(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewWithBaseURL: %v", err)
	}
	c.Tokens = tokenFijo("abc123")

	if err := c.DoJSON(context.Background(), http.MethodPost, "/login/", map[string]string{"u": "x"}, nil, WithoutAuth()); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("WithoutAuth mandó Authorization = %q", gotAuth)
	}
}

func TestDoJSONTokenVacioNoMandaHeader(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewWithBaseURL: %v", err)
	}
	c.Tokens = tokenFijo("")

	if err := c.DoJSON(context.Background(), http.MethodGet, "/x/", nil, nil); err != nil {
		t.Fatalf("DoJSON: %v", err)
	}
	if gotAuth != "" {
		t.Fatalf("sin sesión no debe ir Authorization, fue %q", gotAuth)
	}
}

func TestDoJSONErrorHTTP(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"no existe"}`))
	}))
	defer ts.Close()

	c, err := NewWithBaseURL(ts.URL, 5*time.Second)
	if err != nil {
		t.Fatalf("NewWithBaseURL: %v", err)
	}

	err = c.DoJSON(context.Background(), http.MethodGet, "/x/", nil, nil)
	he, ok := err.(*HTTPError)
	if !ok {
		t.Fatalf("quería *HTTPError, fue %T (%v)", err, err)
	}
	if he.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", he.StatusCode)
	}
	if he.Body != `{"message":"no existe"}` {
		t.Fatalf("body = %q", he.Body)
	}
}

func TestResolveURL(t *testing.T) {
	c, err := NewWithBaseURL("http://api.local/api/", 0)
	if err != nil {
		t.Fatalf("NewWithBaseURL: %v", err)
	}

	got, err := c.resolveURL("citas/")
	if err != nil {
		t.Fatalf("resolveURL: %v", err)
	}
	if got != "http://api.local/api/citas/" {
		t.Fatalf("resolveURL = %q", got)
	}

	if got, _ = c.resolveURL("https://otro.local/x"); got != "https://otro.local/x" {
		t.Fatalf("URL absoluta alterada: %q", got)
	}

	sinBase := New(0)
	if _, err := sinBase.resolveURL("/citas/"); err == nil {
		t.Fatal("path relativo sin BaseURL debía fallar")
	}
}
