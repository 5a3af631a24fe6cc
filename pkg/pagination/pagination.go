package pagination

import (
	"net/url"
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100

	// MaxPage keeps (page-1)*limit far from integer overflow
	MaxPage = 1_000_000
)

// Params is a clamped page request
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse reads page and limit from the request query string
func Parse(c *gin.Context) Params {
	return FromQuery(c.Request.URL.Query())
}

// FromQuery clamps page to 1..MaxPage and limit to 1..MaxLimit. Missing or
// non-numeric values fall back to the defaults.
func FromQuery(q url.Values) Params {
	page := intOr(q.Get("page"), DefaultPage)
	limit := intOr(q.Get("limit"), DefaultLimit)

	switch {
	case page < 1:
		page = DefaultPage
	case page > MaxPage:
		page = MaxPage
	}
	switch {
	case limit < 1:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	return Params{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

func intOr(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
