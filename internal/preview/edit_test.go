package preview

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/livefir/onprty/internal/site"
)

func TestEditEndpoint(t *testing.T) {
	var s *Server
	s = New(WithEditor(func(_ context.Context, op string, args []string) error {
		if op != "set-heading" {
			return errors.New("unknown op: " + op)
		}
		s.Update(site.Files{"index.html": "<h1>" + strings.Join(args, " ") + "</h1>"})
		return nil
	}))
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	tests := []struct {
		name string
		body string
		want int
	}{
		{"applied", `{"op": "set-heading", "args": ["Fresh", "Bread"]}`, http.StatusOK},
		{"rejected", `{"op": "explode"}`, http.StatusUnprocessableEntity},
		{"missing op", `{"args": ["x"]}`, http.StatusBadRequest},
		{"malformed", `{"op": `, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/edit", "application/json", strings.NewReader(tt.body))
			if err != nil {
				t.Fatal(err)
			}
			resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}

	if got := s.Files()["index.html"]; got != "<h1>Fresh Bread</h1>" {
		t.Errorf("index.html = %q", got)
	}
}

func TestEditDisabledWithoutEditor(t *testing.T) {
	srv := httptest.NewServer(New().Handler())
	defer srv.Close()

	resp, err := http.Post(srv.URL+"/edit", "application/json", strings.NewReader(`{"op": "x"}`))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		t.Error("edit endpoint served without an editor")
	}
}
