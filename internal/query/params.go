package query

import (
	"net/url"
	"strconv"
	"strings"
)

// DefaultSort is the ordering applied when the request carries no sort key
// or an unrecognized one.
const DefaultSort = "-created_at"

// sortColumns whitelists the accepted sort keys and maps each to its SQL
// ORDER BY clause. Anything outside this map is ignored, never rejected.
var sortColumns = map[string]string{
	"-created_at": "created_at DESC",
	"created_at":  "created_at ASC",
	"title":       "title ASC",
	"-title":      "title DESC",
	"-rating":     "rating DESC",
	"rating":      "rating ASC",
}

// Params is the normalized form of the movie-list request parameters. It is
// what the repository applies and what handlers echo back to the client so
// the UI can redisplay the selected filters.
type Params struct {
	Query      string   `json:"q"`
	Tokens     []string `json:"-"`
	CategoryID uint     `json:"category,omitempty"`
	GenreIDs   []uint   `json:"genres,omitempty"`
	Sort       string   `json:"sort"`
	Page       int      `json:"page"`
}

// Parse normalizes raw query-string values into Params.
//
// Malformed values never produce an error: a non-integer category is
// dropped, a genre list containing any non-integer entry drops the whole
// genre filter, and an unknown sort key falls back to the default order.
func Parse(values url.Values) Params {
	p := Params{
		Sort: DefaultSort,
		Page: 1,
	}

	if q := strings.TrimSpace(values.Get("q")); q != "" {
		p.Query = q
		p.Tokens = strings.Fields(q)
	}

	if raw := values.Get("category"); raw != "" {
		if id, err := strconv.ParseUint(raw, 10, 32); err == nil {
			p.CategoryID = uint(id)
		}
	}

	if raw := values["genre"]; len(raw) > 0 {
		ids := make([]uint, 0, len(raw))
		ok := true
		for _, g := range raw {
			id, err := strconv.ParseUint(g, 10, 32)
			if err != nil {
				// One bad entry invalidates the whole genre filter.
				ok = false
				break
			}
			ids = append(ids, uint(id))
		}
		if ok {
			p.GenreIDs = ids
		}
	}

	if sort := values.Get("sort"); sort != "" {
		if _, valid := sortColumns[sort]; valid {
			p.Sort = sort
		}
	}

	if raw := values.Get("page"); raw != "" {
		if page, err := strconv.Atoi(raw); err == nil && page > 0 {
			p.Page = page
		}
	}

	return p
}

// OrderClause returns the SQL ORDER BY expression for the params' sort key.
func (p Params) OrderClause() string {
	if clause, ok := sortColumns[p.Sort]; ok {
		return clause
	}
	return sortColumns[DefaultSort]
}

// HasSearch reports whether a non-empty search survived trimming.
func (p Params) HasSearch() bool {
	return len(p.Tokens) > 0
}
