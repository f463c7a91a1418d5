package handlers

import (
	"mime/multipart"
	"strconv"
	"strings"
	"time"

	"filmroom-backend/internal/services"
	"filmroom-backend/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenResponse struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type AuthResponse struct {
	User    interface{}   `json:"user"`
	Access  TokenResponse `json:"access"`
	Refresh TokenResponse `json:"refresh"`
}

const dateLayout = "2006-01-02"

// parseMovieForm reads the multipart (or urlencoded) movie submission into
// a MovieInput. Unlike the list filters, malformed form fields are real
// validation errors here: the submitter gets them back keyed by field.
func parseMovieForm(c *fiber.Ctx) (services.MovieInput, error) {
	var in services.MovieInput

	in.Title = strings.TrimSpace(c.FormValue("title"))
	in.Description = c.FormValue("description")

	if raw := c.FormValue("release_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return in, validation.FieldError("release_date", "Invalid date, expected YYYY-MM-DD")
		}
		in.ReleaseDate = &t
	}

	if raw := c.FormValue("rating"); raw != "" {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return in, validation.FieldError("rating", "Rating must be a number")
		}
		in.Rating = f
	}

	if raw := c.FormValue("category"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return in, validation.FieldError("category", "Unknown category")
		}
		cid := uint(id)
		in.CategoryID = &cid
	}

	for _, raw := range formValues(c, "genre") {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return in, validation.FieldError("genres", "Unknown genre selection")
		}
		in.GenreIDs = append(in.GenreIDs, uint(id))
	}

	poster, err := fileUpload(c, "poster")
	if err != nil {
		return in, err
	}
	in.Poster = poster

	return in, nil
}

func parseProfileForm(c *fiber.Ctx) (services.ProfileInput, error) {
	var in services.ProfileInput

	in.Bio = c.FormValue("bio")
	in.Phone = strings.TrimSpace(c.FormValue("phone"))

	if raw := c.FormValue("birth_date"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return in, validation.FieldError("birth_date", "Invalid date, expected YYYY-MM-DD")
		}
		in.BirthDate = &t
	}

	avatar, err := fileUpload(c, "avatar")
	if err != nil {
		return in, err
	}
	in.Avatar = avatar

	return in, nil
}

// formValues collects every value of a repeatable form field, covering both
// multipart and urlencoded bodies.
func formValues(c *fiber.Ctx, key string) []string {
	if form, err := c.MultipartForm(); err == nil && form != nil {
		if vals, ok := form.Value[key]; ok {
			return vals
		}
	}
	raw := c.Context().PostArgs().PeekMulti(key)
	vals := make([]string, 0, len(raw))
	for _, v := range raw {
		vals = append(vals, string(v))
	}
	return vals
}

// fileUpload opens the named multipart file, if present, as a service
// Upload. The caller owns validation against the size limits.
func fileUpload(c *fiber.Ctx, field string) (*services.Upload, error) {
	fh, err := c.FormFile(field)
	if err != nil || fh == nil {
		return nil, nil
	}
	return openUpload(fh)
}

func openUpload(fh *multipart.FileHeader) (*services.Upload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	return &services.Upload{
		Filename:    fh.Filename,
		Reader:      f,
		Size:        fh.Size,
		ContentType: fh.Header.Get("Content-Type"),
	}, nil
}
