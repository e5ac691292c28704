package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestClient(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"status":"ok"}`))
		case "/echo":
			if r.Header.Get("Content-Type") != "application/json" {
				w.WriteHeader(http.StatusUnsupportedMediaType)
				return
			}
			var body map[string]string
			json.NewDecoder(r.Body).Decode(&body)
			json.NewEncoder(w).Encode(body)
		case "/missing":
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(`{"error":"template not found","kind":"template_not_found"}`))
		case "/text":
			w.Write([]byte("plain text\n"))
		default:
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte("boom"))
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL)
	ctx := t.Context()

	t.Run("get decodes json", func(t *testing.T) {
		var resp struct{ Status string }
		if err := client.Get(ctx, "/ok", &resp); err != nil {
			t.Fatalf("Get: %v", err)
		}
		if resp.Status != "ok" {
			t.Errorf("Status = %q", resp.Status)
		}
	})

	t.Run("post sends json", func(t *testing.T) {
		var resp map[string]string
		if err := client.Post(ctx, "/echo", map[string]string{"name": "greet"}, &resp); err != nil {
			t.Fatalf("Post: %v", err)
		}
		if resp["name"] != "greet" {
			t.Errorf("echo = %v", resp)
		}
	})

	t.Run("structured error", func(t *testing.T) {
		err := client.Get(ctx, "/missing", nil)
		var serverErr *ServerError
		if !errors.As(err, &serverErr) {
			t.Fatalf("expected ServerError, got %v", err)
		}
		if serverErr.StatusCode != http.StatusNotFound || serverErr.Kind != "template_not_found" || serverErr.Message != "template not found" {
			t.Errorf("unexpected error: %+v", serverErr)
		}
	})

	t.Run("plain error body", func(t *testing.T) {
		err := client.Get(ctx, "/other", nil)
		var serverErr *ServerError
		if !errors.As(err, &serverErr) || serverErr.Message != "boom" {
			t.Errorf("expected raw body in error, got %v", err)
		}
	})

	t.Run("raw body", func(t *testing.T) {
		body, err := client.GetRaw(ctx, "/text")
		if err != nil {
			t.Fatalf("GetRaw: %v", err)
		}
		if string(body) != "plain text\n" {
			t.Errorf("body = %q", body)
		}
	})
}
