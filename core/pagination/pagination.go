package pagination

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Params are limit/offset pagination parameters.
type Params struct {
	Limit  int
	Offset int
}

// Page is the paginated list envelope.
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// FromQuery reads limit and offset from the request query.
// Missing or unparsable values fall back to defaultLimit and 0.
func FromQuery(c *fiber.Ctx, defaultLimit int) Params {
	p := Params{Limit: defaultLimit}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		p.Limit = v
	}
	if v, err := strconv.Atoi(c.Query("offset")); err == nil && v > 0 {
		p.Offset = v
	}
	return p
}

// Scope applies the limit and offset to a query.
func (p Params) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(p.Offset).Limit(p.Limit)
	}
}

// NewPage builds the envelope for results fetched with p out of count rows.
// baseURL is the request URL whose limit/offset parameters are rewritten
// for the next and previous links.
func NewPage[T any](results []T, count int64, p Params, baseURL string) Page[T] {
	if results == nil {
		results = []T{}
	}
	page := Page[T]{Count: count, Results: results}

	if int64(p.Offset+p.Limit) < count {
		page.Next = pageURL(baseURL, p.Limit, p.Offset+p.Limit)
	}
	if p.Offset > 0 {
		prev := p.Offset - p.Limit
		if prev < 0 {
			prev = 0
		}
		page.Previous = pageURL(baseURL, p.Limit, prev)
	}
	return page
}

func pageURL(base string, limit, offset int) *string {
	u, err := url.Parse(base)
	if err != nil {
		return nil
	}
	q := u.Query()
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	u.RawQuery = q.Encode()
	s := u.String()
	return &s
}

// RequestURL returns the absolute URL of the current request.
func RequestURL(c *fiber.Ctx) string {
	return fmt.Sprintf("%s://%s%s", c.Protocol(), c.Hostname(), c.OriginalURL())
}
