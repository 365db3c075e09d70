package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/iudanet/bookvault/internal/models"
)

const (
	// MaxTitleLen максимальная длина названия книги (в символах)
	MaxTitleLen = 256
	// MaxAuthorLen максимальная длина имени автора
	MaxAuthorLen = 128
	// MaxGenreLen максимальная длина жанра
	MaxGenreLen = 64
	// MinPublishedYear минимальный допустимый год издания
	MinPublishedYear = 1000
)

// ValidateTitle проверяет название книги
// Название обязательно, не может состоять из одних пробелов
func ValidateTitle(title string) error {
	return validateRequired("title", title, MaxTitleLen)
}

// ValidateAuthor проверяет имя автора
func ValidateAuthor(author string) error {
	return validateRequired("author", author, MaxAuthorLen)
}

// ValidateGenre проверяет жанр; пустой жанр допустим
func ValidateGenre(genre string) error {
	if utf8.RuneCountInString(genre) > MaxGenreLen {
		return fmt.Errorf("genre must not exceed %d characters", MaxGenreLen)
	}
	return nil
}

// ValidatePublishedYear проверяет год издания
// Допустимый диапазон: MinPublishedYear..текущий год
func ValidatePublishedYear(year int, now time.Time) error {
	if year < MinPublishedYear || year > now.Year() {
		return fmt.Errorf("published year must be between %d and %d", MinPublishedYear, now.Year())
	}
	return nil
}

// ValidateBookEntity проверяет запись коллекции books перед спекулятивным применением
func ValidateBookEntity(e models.Entity) error {
	title, ok := e.Fields[models.FieldTitle].(string)
	if !ok {
		return fmt.Errorf("title is required")
	}
	if err := ValidateTitle(title); err != nil {
		return err
	}

	author, ok := e.Fields[models.FieldAuthor].(string)
	if !ok {
		return fmt.Errorf("author is required")
	}
	if err := ValidateAuthor(author); err != nil {
		return err
	}

	switch g := e.Fields[models.FieldGenre].(type) {
	case nil:
	case string:
		if err := ValidateGenre(g); err != nil {
			return err
		}
	default:
		return fmt.Errorf("genre must be a string, got %T", g)
	}

	switch y := e.Fields[models.FieldPublishedYear].(type) {
	case nil:
	case int64:
		if err := ValidatePublishedYear(int(y), time.Now()); err != nil {
			return err
		}
	default:
		return fmt.Errorf("published year must be an integer, got %T", y)
	}

	return nil
}

func validateRequired(field, value string, maxLen int) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%s cannot be empty", field)
	}
	if utf8.RuneCountInString(value) > maxLen {
		return fmt.Errorf("%s must not exceed %d characters", field, maxLen)
	}
	return nil
}
