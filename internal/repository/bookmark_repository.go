package repository

import (
	"encoding/json"
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"study-tracker/internal/domain"

	"github.com/supabase-community/postgrest-go"
)

// BookmarkRepository implements the domain.BookmarkRepository interface using
// Supabase. It is the authority for duplicate detection: a create is rejected
// when an existing bookmark for the same content sits within the configured
// scroll-percentage tolerance.
type BookmarkRepository struct {
	supabaseClient domain.SupabaseClient
	logger         domain.Logger
	dedupTolerance float64
}

func NewBookmarkRepository(supabaseClient domain.SupabaseClient, config domain.Config, logger domain.Logger) domain.BookmarkRepository {
	return &BookmarkRepository{
		supabaseClient: supabaseClient,
		logger:         logger,
		dedupTolerance: config.GetDedupTolerance(),
	}
}

func (r *BookmarkRepository) Create(bookmark *domain.Bookmark, token string) (*domain.Bookmark, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	// Duplicate check against the stored scroll percentages for this content.
	existing, _, err := client.From("bookmarks").
		Select("id,scroll_percentage", "", false).
		Eq("content_id", bookmark.ContentID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to check for duplicate bookmark: %w", err)
	}

	var existingRows []map[string]interface{}
	if err := json.Unmarshal(existing, &existingRows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	for _, row := range existingRows {
		if pct, ok := row["scroll_percentage"].(float64); ok {
			if math.Abs(pct-bookmark.Location.ScrollPercentage) <= r.dedupTolerance {
				return nil, domain.ErrDuplicateBookmark
			}
		}
	}

	row := map[string]interface{}{
		"content_id":        bookmark.ContentID,
		"title":             sanitizeText(bookmark.Title),
		"description":       sanitizeText(bookmark.Description),
		"color":             string(bookmark.Color),
		"scroll_percentage": bookmark.Location.ScrollPercentage,
		"section_heading":   sanitizeText(bookmark.Location.SectionHeading),
		"line_number":       bookmark.Location.LineNumber,
		"text_snippet":      sanitizeText(bookmark.Location.TextSnippet),
		"character_offset":  bookmark.Location.CharacterOffset,
	}

	// Request "representation" so PostgREST returns the inserted row.
	data, _, err := client.From("bookmarks").
		Insert(row, false, "", "representation", "").
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to create bookmark: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("failed to create bookmark: empty response")
	}

	return mapToBookmark(rows[0]), nil
}

func (r *BookmarkRepository) GetByID(bookmarkID string, token string) (*domain.Bookmark, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("bookmarks").
		Select("*", "", false).
		Eq("id", bookmarkID).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to get bookmark: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return nil, domain.ErrBookmarkNotFound
	}
	return mapToBookmark(rows[0]), nil
}

func (r *BookmarkRepository) ListByContent(contentID string, token string) ([]*domain.Bookmark, error) {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return nil, fmt.Errorf("supabase client not initialized")
	}

	data, _, err := client.From("bookmarks").
		Select("*", "", false).
		Eq("content_id", contentID).
		Order("scroll_percentage", &postgrest.OrderOpts{Ascending: true}).
		Execute()
	if err != nil {
		return nil, fmt.Errorf("failed to list bookmarks: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w", err)
	}

	out := make([]*domain.Bookmark, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapToBookmark(row))
	}
	return out, nil
}

func (r *BookmarkRepository) Delete(bookmarkID string, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	// Request "representation" so an empty result distinguishes a missing row
	// from a successful delete.
	data, _, err := client.From("bookmarks").
		Delete("representation", "").
		Eq("id", bookmarkID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to delete bookmark: %w", err)
	}

	var rows []map[string]interface{}
	if err := json.Unmarshal(data, &rows); err != nil {
		return fmt.Errorf("failed to unmarshal response: %w", err)
	}
	if len(rows) == 0 {
		return domain.ErrBookmarkNotFound
	}
	return nil
}

func (r *BookmarkRepository) Touch(bookmarkID string, accessedAt time.Time, token string) error {
	client, err := r.supabaseClient.GetClientWithToken(token)
	if err != nil {
		return fmt.Errorf("failed to get client with token: %w", err)
	}
	if client == nil {
		return fmt.Errorf("supabase client not initialized")
	}

	_, _, err = client.From("bookmarks").
		Update(map[string]interface{}{
			"last_accessed_at": accessedAt.Format(time.RFC3339),
		}, "", "").
		Eq("id", bookmarkID).
		Execute()
	if err != nil {
		return fmt.Errorf("failed to update bookmark access time: %w", err)
	}
	return nil
}

func mapToBookmark(data map[string]interface{}) *domain.Bookmark {
	b := &domain.Bookmark{
		ID:          getString(data, "id"),
		ContentID:   getString(data, "content_id"),
		Title:       getString(data, "title"),
		Description: getString(data, "description"),
		Color:       domain.BookmarkColor(getString(data, "color")),
		Location: domain.Location{
			ScrollPercentage: getFloat(data, "scroll_percentage"),
			SectionHeading:   getString(data, "section_heading"),
			LineNumber:       getInt(data, "line_number"),
			TextSnippet:      getString(data, "text_snippet"),
			CharacterOffset:  getInt(data, "character_offset"),
		},
	}
	if b.Color == "" {
		b.Color = domain.ColorYellow
	}

	if createdAt := getString(data, "created_at"); createdAt != "" {
		if t, err := time.Parse(time.RFC3339, createdAt); err == nil {
			b.CreatedAt = t
		} else if t, err := time.Parse(time.RFC3339Nano, createdAt); err == nil {
			b.CreatedAt = t
		}
	}
	if accessedAt := getString(data, "last_accessed_at"); accessedAt != "" {
		if t, err := time.Parse(time.RFC3339, accessedAt); err == nil {
			b.LastAccessedAt = t
		} else if t, err := time.Parse(time.RFC3339Nano, accessedAt); err == nil {
			b.LastAccessedAt = t
		}
	}

	return b
}

func getString(data map[string]interface{}, key string) string {
	if v, ok := data[key]; ok && v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

func getFloat(data map[string]interface{}, key string) float64 {
	if v, ok := data[key]; ok && v != nil {
		switch n := v.(type) {
		case float64:
			return n
		case float32:
			return float64(n)
		case int:
			return float64(n)
		case int64:
			return float64(n)
		}
	}
	return 0
}

func getInt(data map[string]interface{}, key string) int {
	if v, ok := data[key]; ok && v != nil {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		case int64:
			return int(n)
		}
	}
	return 0
}

var reControl = regexp.MustCompile(`[\x00]`)

// sanitizeText removes characters that PostgreSQL rejects in text fields (notably NUL bytes).
func sanitizeText(s string) string {
	if s == "" {
		return s
	}
	// Remove any NUL bytes.
	s = reControl.ReplaceAllString(s, "")
	// Also remove escaped unicode NUL sequences that can appear in extracted content.
	s = strings.ReplaceAll(s, "\\u0000", "")
	s = strings.ReplaceAll(s, "\u0000", "")
	return s
}
