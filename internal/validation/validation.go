package validation

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ValidationError collects field-scoped messages from a single validation
// pass. Callers re-render the submission form with the messages attached;
// nothing else happens as a side effect.
type ValidationError struct {
	Fields map[string]string `json:"fields"`
}

func (e *ValidationError) Error() string {
	if len(e.Fields) == 0 {
		return "validation failed"
	}
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	if e.Fields == nil {
		e.Fields = map[string]string{}
	}
	if _, exists := e.Fields[field]; !exists {
		e.Fields[field] = message
	}
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

const (
	MinTitleLength = 2
	MaxTitleLength = 200
	MaxBioLength   = 500

	MinUsernameLength = 3

	MinRating = 0.0
	MaxRating = 10.0
)

// MovieInput is the submitted movie form prior to persistence.
type MovieInput struct {
	Title       string
	Description string
	ReleaseDate *time.Time
	Rating      float64
}

// ValidateMovie applies the creation-path rules: title length and release
// date. The rating field is not editable on creation and is not checked.
func ValidateMovie(in MovieInput, now time.Time) error {
	var verr ValidationError

	if n := len([]rune(in.Title)); n < MinTitleLength {
		verr.add("title", fmt.Sprintf("Title must be at least %d characters long", MinTitleLength))
	} else if n > MaxTitleLength {
		verr.add("title", fmt.Sprintf("Title must be at most %d characters long", MaxTitleLength))
	}

	if in.ReleaseDate != nil && in.ReleaseDate.After(now) {
		verr.add("release_date", "Release date cannot be in the future")
	}

	return verr.orNil()
}

// ValidateMovieEdit applies the edit-path rules: everything the creation
// path checks plus the rating bounds.
func ValidateMovieEdit(in MovieInput, now time.Time) error {
	var verr ValidationError

	if err := ValidateMovie(in, now); err != nil {
		verr.Fields = err.(*ValidationError).Fields
	}

	if in.Rating < MinRating || in.Rating > MaxRating {
		verr.add("rating", fmt.Sprintf("Rating must be between %v and %v", MinRating, MaxRating))
	}

	return verr.orNil()
}

// ValidateUpload checks a poster or avatar upload against the size limit and
// the declared content type. An empty content type passes; a declared one
// must carry the image prefix.
func ValidateUpload(field string, size int64, contentType string, maxSize int64) error {
	var verr ValidationError

	if size > maxSize {
		verr.add(field, fmt.Sprintf("File exceeds the %dMB size limit", maxSize>>20))
	}
	if contentType != "" && !strings.HasPrefix(contentType, "image") {
		verr.add(field, "Only image uploads are allowed")
	}

	return verr.orNil()
}

// ProfileInput is the submitted profile form.
type ProfileInput struct {
	Bio       string
	BirthDate *time.Time
	Phone     string
}

func ValidateProfile(in ProfileInput) error {
	var verr ValidationError

	if len([]rune(in.Bio)) > MaxBioLength {
		verr.add("bio", fmt.Sprintf("Bio must be at most %d characters long", MaxBioLength))
	}

	return verr.orNil()
}

// RegistrationInput is the submitted registration form. Password strength
// is the identity collaborator's concern; uniqueness violations are mapped
// onto field errors by the account service when the insert conflicts.
type RegistrationInput struct {
	Username string
	Email    string
	Password string
}

func ValidateRegistration(in RegistrationInput) error {
	var verr ValidationError

	if len([]rune(in.Username)) < MinUsernameLength {
		verr.add("username", fmt.Sprintf("Username must be at least %d characters long", MinUsernameLength))
	}
	if strings.TrimSpace(in.Email) == "" {
		verr.add("email", "Email is required")
	}
	if in.Password == "" {
		verr.add("password", "Password is required")
	}

	return verr.orNil()
}

// FieldError builds a single-field ValidationError. The account service uses
// it to surface uniqueness conflicts as form errors.
func FieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}
