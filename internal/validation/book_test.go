package validation

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/bookvault/internal/models"
)

func TestValidateTitle(t *testing.T) {
	tests := []struct {
		name    string
		title   string
		wantErr bool
		errMsg  string
	}{
		{
			name:    "valid title",
			title:   "Clean Code",
			wantErr: false,
		},
		{
			name:    "valid title - unicode",
			title:   "Мастер и Маргарита",
			wantErr: false,
		},
		{
			name:    "valid title - max length",
			title:   strings.Repeat("я", MaxTitleLen),
			wantErr: false,
		},
		{
			name:    "invalid - empty",
			title:   "",
			wantErr: true,
			errMsg:  "title cannot be empty",
		},
		{
			name:    "invalid - only spaces",
			title:   "   \t",
			wantErr: true,
			errMsg:  "title cannot be empty",
		},
		{
			name:    "invalid - too long",
			title:   strings.Repeat("a", MaxTitleLen+1),
			wantErr: true,
			errMsg:  "title must not exceed 256 characters",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTitle(tt.title)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, tt.errMsg, err.Error())
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateAuthor(t *testing.T) {
	assert.NoError(t, ValidateAuthor("Robert C. Martin"))
	assert.EqualError(t, ValidateAuthor(" "), "author cannot be empty")
	assert.EqualError(t, ValidateAuthor(strings.Repeat("x", MaxAuthorLen+1)), "author must not exceed 128 characters")
}

func TestValidateGenre(t *testing.T) {
	assert.NoError(t, ValidateGenre(""))
	assert.NoError(t, ValidateGenre("Fiction"))
	assert.Error(t, ValidateGenre(strings.Repeat("g", MaxGenreLen+1)))
}

func TestValidatePublishedYear(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		year    int
		wantErr bool
	}{
		{name: "lower bound", year: 1000, wantErr: false},
		{name: "current year", year: 2024, wantErr: false},
		{name: "typical", year: 1965, wantErr: false},
		{name: "before lower bound", year: 999, wantErr: true},
		{name: "future", year: 2025, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePublishedYear(tt.year, now)
			if tt.wantErr {
				assert.EqualError(t, err, "published year must be between 1000 and 2024")
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestValidateBookEntity(t *testing.T) {
	tests := []struct {
		fields  map[string]any
		name    string
		errMsg  string
		wantErr bool
	}{
		{
			name:   "minimal book",
			fields: map[string]any{"title": "Dune", "author": "Frank Herbert"},
		},
		{
			name: "full book",
			fields: map[string]any{
				"title": "Dune", "author": "Frank Herbert",
				"genre": "Science Fiction", "publishedYear": 1965,
			},
		},
		{
			name:   "null optional fields",
			fields: map[string]any{"title": "Dune", "author": "Frank Herbert", "genre": nil, "publishedYear": nil},
		},
		{
			name:    "missing title",
			fields:  map[string]any{"author": "Frank Herbert"},
			wantErr: true,
			errMsg:  "title is required",
		},
		{
			name:    "blank author",
			fields:  map[string]any{"title": "Dune", "author": "  "},
			wantErr: true,
			errMsg:  "author cannot be empty",
		},
		{
			name:    "year of wrong type",
			fields:  map[string]any{"title": "Dune", "author": "Frank Herbert", "publishedYear": "1965"},
			wantErr: true,
			errMsg:  "published year must be an integer, got string",
		},
		{
			name:    "year out of range",
			fields:  map[string]any{"title": "Dune", "author": "Frank Herbert", "publishedYear": 12},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateBookEntity(models.NewEntity("", tt.fields))
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.errMsg != "" {
				assert.Equal(t, tt.errMsg, err.Error())
			}
		})
	}
}
