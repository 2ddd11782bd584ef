package repository

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"study-tracker/internal/domain"

	"github.com/supabase-community/supabase-go"
)

// stubSupabaseClient points the repository at a local PostgREST stand-in.
type stubSupabaseClient struct {
	url string
}

func (s *stubSupabaseClient) Initialize() error { return nil }

func (s *stubSupabaseClient) ValidateToken(token string) (*domain.SupabaseUser, error) {
	return &domain.SupabaseUser{ID: "user-1"}, nil
}

func (s *stubSupabaseClient) GetClientWithToken(token string) (*supabase.Client, error) {
	return supabase.NewClient(s.url, "stub-key", &supabase.ClientOptions{
		Headers: map[string]string{
			"Authorization": "Bearer " + token,
		},
	})
}

// newBookmarkStore serves the two requests Create issues: the duplicate
// pre-check select and the insert. It records how many inserts arrived.
func newBookmarkStore(t *testing.T, existingPct float64, inserts *int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.Method {
		case http.MethodGet:
			fmt.Fprintf(w, `[{"id":"bm-1","scroll_percentage":%g}]`, existingPct)
		case http.MethodPost:
			*inserts++
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `[{"id":"bm-2","content_id":"go/basics.md","title":"second","color":"yellow","scroll_percentage":41.0,"line_number":3,"character_offset":120}]`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusMethodNotAllowed)
		}
	}))
}

func TestBookmarkRepository_CreateDuplicateTolerance(t *testing.T) {
	tests := []struct {
		name        string
		existingPct float64
		newPct      float64
		wantDup     bool
	}{
		{"within tolerance", 40.0, 40.2, true},
		{"at the tolerance boundary", 40.0, 40.5, true},
		{"just outside tolerance", 40.0, 40.51, false},
		{"far away", 40.0, 75.0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inserts := 0
			server := newBookmarkStore(t, tt.existingPct, &inserts)
			defer server.Close()

			repo := NewBookmarkRepository(
				&stubSupabaseClient{url: server.URL},
				&staticConfig{},
				&mockRepoLogger{},
			)

			created, err := repo.Create(&domain.Bookmark{
				ContentID: "go/basics.md",
				Title:     "second",
				Color:     domain.ColorYellow,
				Location:  domain.Location{ScrollPercentage: tt.newPct},
			}, "token")

			if tt.wantDup {
				if !errors.Is(err, domain.ErrDuplicateBookmark) {
					t.Fatalf("expected ErrDuplicateBookmark, got %v", err)
				}
				if inserts != 0 {
					t.Fatalf("expected no insert for a duplicate, got %d", inserts)
				}
				return
			}

			if err != nil {
				t.Fatalf("expected create to succeed, got %v", err)
			}
			if inserts != 1 {
				t.Fatalf("expected exactly one insert, got %d", inserts)
			}
			if created.ID != "bm-2" || created.Location.ScrollPercentage != 41.0 {
				t.Fatalf("unexpected created bookmark: %+v", created)
			}
		})
	}
}
