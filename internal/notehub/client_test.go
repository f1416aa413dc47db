package notehub

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/marcus/notehub/internal/note"
)

func newTestClient(t *testing.T, h http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := New(srv.URL, opts...)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return c
}

func TestList_QueryParams(t *testing.T) {
	tests := []struct {
		name      string
		params    note.ListParams
		wantQuery string
	}{
		{"defaults", note.ListParams{}, "page=1&perPage=12"},
		{"search and tag", note.ListParams{Page: 2, PerPage: 12, Search: "milk", Tag: "Shopping"}, "page=2&perPage=12&search=milk&tag=Shopping"},
		{"empty search omitted", note.ListParams{Page: 1, PerPage: 12, Tag: "Work"}, "page=1&perPage=12&tag=Work"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got string
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/notes" {
					t.Errorf("path = %q", r.URL.Path)
				}
				got = r.URL.RawQuery
				_, _ = w.Write([]byte(`{"notes":[],"totalPages":0}`))
			})
			if _, err := c.List(context.Background(), tt.params); err != nil {
				t.Fatalf("List: %v", err)
			}
			if got != tt.wantQuery {
				t.Errorf("query = %q, want %q", got, tt.wantQuery)
			}
		})
	}
}

func TestList_DecodesPage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"notes":[{"id":"n1","title":"Buy milk","content":"2L","tag":"Shopping","createdAt":"2026-01-02T10:00:00Z","updatedAt":"2026-01-02T10:00:00Z"}],"totalPages":2}`))
	})
	res, err := c.List(context.Background(), note.ListParams{Page: 1})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if res.TotalPages != 2 || len(res.Notes) != 1 {
		t.Fatalf("got %+v", res)
	}
	n := res.Notes[0]
	if n.ID != "n1" || n.Tag != note.TagShopping || n.CreatedAt.Year() != 2026 {
		t.Errorf("unexpected note %+v", n)
	}
}

func TestHeaders(t *testing.T) {
	var auth, reqID, accept string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		reqID = r.Header.Get("X-Request-ID")
		accept = r.Header.Get("Accept")
		_, _ = w.Write([]byte(`{"notes":[],"totalPages":1}`))
	}, WithToken("secret"))

	if _, err := c.List(context.Background(), note.ListParams{}); err != nil {
		t.Fatal(err)
	}
	if auth != "Bearer secret" {
		t.Errorf("Authorization = %q", auth)
	}
	if len(reqID) != 36 {
		t.Errorf("X-Request-ID = %q, want a uuid", reqID)
	}
	if accept != "application/json" {
		t.Errorf("Accept = %q", accept)
	}
}

func TestCreate(t *testing.T) {
	var body note.CreateInput
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("method = %s", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Errorf("decode: %v", err)
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"n9","title":"Buy milk","content":"","tag":"Shopping"}`))
	})

	n, err := c.Create(context.Background(), note.CreateInput{Title: "Buy milk", Tag: note.TagShopping})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if n.ID != "n9" {
		t.Errorf("ID = %q", n.ID)
	}
	if body.Title != "Buy milk" || body.Tag != note.TagShopping {
		t.Errorf("server got %+v", body)
	}
}

func TestCreate_InvalidInputSkipsRequest(t *testing.T) {
	var calls atomic.Int32
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	})
	_, err := c.Create(context.Background(), note.CreateInput{Title: "ab", Tag: note.TagTodo})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if calls.Load() != 0 {
		t.Errorf("expected no request, got %d", calls.Load())
	}
}

func TestAPIError(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		body         string
		wantMsg      string
		wantNotFound bool
	}{
		{"json message", http.StatusBadRequest, `{"message":"title too short"}`, "title too short", false},
		{"plain body", http.StatusInternalServerError, `oops`, "Internal Server Error", false},
		{"not found", http.StatusNotFound, ``, "Not Found", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			_, err := c.Get(context.Background(), "n1")
			var apiErr *APIError
			if !errors.As(err, &apiErr) {
				t.Fatalf("expected *APIError, got %v", err)
			}
			if apiErr.Status != tt.status || apiErr.Message != tt.wantMsg {
				t.Errorf("got %d %q", apiErr.Status, apiErr.Message)
			}
			if errors.Is(err, ErrNotFound) != tt.wantNotFound {
				t.Errorf("errors.Is(ErrNotFound) = %v", !tt.wantNotFound)
			}
		})
	}
}

func TestDeleteAndUpdatePaths(t *testing.T) {
	var seen []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, r.Method+" "+r.URL.Path)
		_, _ = w.Write([]byte(`{"id":"a b","title":"Buy milk","tag":"Todo"}`))
	})
	ctx := context.Background()
	if _, err := c.Update(ctx, "a b", note.CreateInput{Title: "Buy milk", Tag: note.TagTodo}); err != nil {
		t.Fatal(err)
	}
	if _, err := c.Delete(ctx, "a b"); err != nil {
		t.Fatal(err)
	}
	want := []string{"PATCH /notes/a b", "DELETE /notes/a b"}
	for i := range want {
		if seen[i] != want[i] {
			t.Errorf("request %d = %q, want %q", i, seen[i], want[i])
		}
	}
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	if _, err := New("notes.local/api"); err == nil {
		t.Error("expected error for relative base url")
	}
}

func TestWithTimeout_CopiesCallerClient(t *testing.T) {
	hc := &http.Client{Timeout: time.Minute}
	c, err := New("http://notes.test/api", WithHTTPClient(hc), WithTimeout(3*time.Second))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if hc.Timeout != time.Minute {
		t.Errorf("caller client timeout = %v, want unchanged", hc.Timeout)
	}
	if c.http.Timeout != 3*time.Second {
		t.Errorf("client timeout = %v, want 3s", c.http.Timeout)
	}
	if c.http == hc {
		t.Error("client shares the caller's *http.Client")
	}
}
