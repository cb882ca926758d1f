package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestReachabilityService(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodHead {
			t.Errorf("expected HEAD, got %s", r.Method)
		}
		if r.Header.Get("Authorization") != "" {
			t.Error("probe should not send credentials")
		}
		switch r.URL.Path {
		case "/ok.jpg":
			w.WriteHeader(http.StatusOK)
		case "/moved.jpg":
			http.Redirect(w, r, "/ok.jpg", http.StatusMovedPermanently)
		case "/slow.jpg":
			time.Sleep(200 * time.Millisecond)
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	ctx := context.Background()
	svc := NewReachabilityService(0)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"200 is reachable", "/ok.jpg", true},
		{"404 is unreachable", "/missing.jpg", false},
		{"redirect is unreachable", "/moved.jpg", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := svc.Exists(ctx, srv.URL+tt.path); got != tt.want {
				t.Errorf("Exists(%s) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}

	t.Run("Timeout Is Unreachable", func(t *testing.T) {
		fast := NewReachabilityService(50 * time.Millisecond)
		if fast.Exists(ctx, srv.URL+"/slow.jpg") {
			t.Error("expected timeout to report unreachable")
		}
	})

	t.Run("Transport Failure Is Unreachable", func(t *testing.T) {
		if svc.Exists(ctx, "http://127.0.0.1:1/nope.jpg") {
			t.Error("expected connection failure to report unreachable")
		}
	})

	t.Run("Default Timeout", func(t *testing.T) {
		if got := svc.client.GetClient().Timeout; got != ProbeTimeout {
			t.Errorf("expected timeout %v, got %v", ProbeTimeout, got)
		}
	})
}
