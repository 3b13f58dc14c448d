package main

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
)

func testClient(t *testing.T, handler http.HandlerFunc) *LinkedInClient {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	settings := defaultSettingsValues()
	settings.LinkedIn.BaseURL = srv.URL
	config := &Config{Settings: settings, LinkedInToken: "tok"}
	return NewLinkedInClient(config, srv.Client())
}

func TestWhoami(t *testing.T) {
	var gotAuth string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		fmt.Fprint(w, `{"sub": "abc123"}`)
	})

	id, err := client.Whoami(t.Context())
	if err != nil {
		t.Fatalf("Whoami() error = %v", err)
	}
	if id != "abc123" {
		t.Errorf("Whoami() = %q, want abc123", id)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
}

func TestWhoamiNon200(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})

	_, err := client.Whoami(t.Context())
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("Whoami() error = %v, want *HTTPError", err)
	}
	if httpErr.StatusCode != http.StatusUnauthorized {
		t.Errorf("StatusCode = %d, want 401", httpErr.StatusCode)
	}
}

func TestWhoamiMissingMemberID(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	})

	if _, err := client.Whoami(t.Context()); err == nil {
		t.Error("expected error for userinfo response without member id")
	}
}

func TestCreatePostHeaders(t *testing.T) {
	var gotVersion, gotProtocol string
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotVersion = r.Header.Get("LinkedIn-Version")
		gotProtocol = r.Header.Get("X-Restli-Protocol-Version")
		w.WriteHeader(http.StatusCreated)
	})

	if err := client.CreatePost(t.Context(), "m1", "hello", ""); err != nil {
		t.Fatalf("CreatePost() error = %v", err)
	}
	if gotVersion != "202411" {
		t.Errorf("LinkedIn-Version = %q, want 202411", gotVersion)
	}
	if gotProtocol != "2.0.0" {
		t.Errorf("X-Restli-Protocol-Version = %q, want 2.0.0", gotProtocol)
	}
}

func TestCreatePostErrorClassification(t *testing.T) {
	tests := []struct {
		name          string
		status        int
		wantPermanent bool
	}{
		{"forbidden", http.StatusForbidden, true},
		{"unprocessable", http.StatusUnprocessableEntity, true},
		{"server error", http.StatusInternalServerError, false},
		{"bad gateway", http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			err := client.CreatePost(t.Context(), "m1", "hello", "")
			var httpErr *HTTPError
			if !errors.As(err, &httpErr) {
				t.Fatalf("error = %v, want *HTTPError", err)
			}
			if httpErr.Permanent() != tt.wantPermanent {
				t.Errorf("Permanent() = %v, want %v", httpErr.Permanent(), tt.wantPermanent)
			}
		})
	}
}

func TestImageStatusEnvelopeShapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"value.status", `{"value": {"status": "AVAILABLE"}}`, "AVAILABLE"},
		{"value.processingState", `{"value": {"processingState": "PROCESSING"}}`, "PROCESSING"},
		{"top-level status", `{"status": "FAILED"}`, "FAILED"},
		{"top-level processingState", `{"processingState": "ERROR"}`, "ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tt.body)
			})

			status, err := client.ImageStatus(t.Context(), "urn:li:image:1")
			if err != nil {
				t.Fatalf("ImageStatus() error = %v", err)
			}
			if status != tt.want {
				t.Errorf("ImageStatus() = %q, want %q", status, tt.want)
			}
		})
	}
}

func TestInitializeUploadIncomplete(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"value": {}}`)
	})

	if _, _, err := client.InitializeUpload(t.Context(), "m1"); err == nil {
		t.Error("expected error for incomplete initialize upload response")
	}
}
