package videos

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Range is an integer filter: exact match and/or inclusive bounds.
type Range struct {
	Exact *int64
	Min   *int64
	Max   *int64
}

// Filter holds the list query filters.
type Filter struct {
	Topic    *uint
	Subtopic *uint
	VideoID  string
	Likes    Range
	Views    Range
	Ordering []string
}

// orderable maps public ordering names to columns.
var orderable = map[string]string{
	"likes":       "likes",
	"views":       "views",
	"publishedAt": "published_at",
}

// ParseFilter reads filters from the query string.
// Unknown ordering fields are ignored; malformed numbers are an error.
func ParseFilter(c *fiber.Ctx) (Filter, error) {
	var f Filter
	var err error

	if f.Topic, err = queryUint(c, "topic"); err != nil {
		return f, err
	}
	if f.Subtopic, err = queryUint(c, "subtopic"); err != nil {
		return f, err
	}
	f.VideoID = c.Query("video_id")

	if f.Likes, err = queryRange(c, "likes"); err != nil {
		return f, err
	}
	if f.Views, err = queryRange(c, "views"); err != nil {
		return f, err
	}

	for _, part := range strings.Split(c.Query("ordering"), ",") {
		name := strings.TrimSpace(part)
		if _, ok := orderable[strings.TrimPrefix(name, "-")]; ok {
			f.Ordering = append(f.Ordering, name)
		}
	}
	return f, nil
}

// Scope applies the filters and ordering. Results are always ordered by id last.
func (f Filter) Scope() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if f.Topic != nil {
			db = db.Where("topic_id = ?", *f.Topic)
		}
		if f.Subtopic != nil {
			db = db.Where("subtopic_id = ?", *f.Subtopic)
		}
		if f.VideoID != "" {
			db = db.Where("video_id = ?", f.VideoID)
		}
		db = f.Likes.apply(db, "likes")
		db = f.Views.apply(db, "views")
		return db
	}
}

// Order applies the ordering. It must not be used for count queries.
func (f Filter) Order() func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for _, name := range f.Ordering {
			desc := strings.HasPrefix(name, "-")
			column := orderable[strings.TrimPrefix(name, "-")]
			db = db.Order(clause.OrderByColumn{Column: clause.Column{Name: column}, Desc: desc})
		}
		return db.Order("id")
	}
}

func (r Range) apply(db *gorm.DB, column string) *gorm.DB {
	if r.Exact != nil {
		db = db.Where(column+" = ?", *r.Exact)
	}
	if r.Min != nil {
		db = db.Where(column+" >= ?", *r.Min)
	}
	if r.Max != nil {
		db = db.Where(column+" <= ?", *r.Max)
	}
	return db
}

func queryUint(c *fiber.Ctx, key string) (*uint, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: select a valid choice", key)
	}
	id := uint(n)
	return &id, nil
}

func queryInt(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("%s: enter a number", key)
	}
	return &n, nil
}

// queryRange reads key, key__gte, key__lte and key__range=min,max.
func queryRange(c *fiber.Ctx, key string) (Range, error) {
	var r Range
	var err error
	if r.Exact, err = queryInt(c, key); err != nil {
		return r, err
	}
	if r.Min, err = queryInt(c, key+"__gte"); err != nil {
		return r, err
	}
	if r.Max, err = queryInt(c, key+"__lte"); err != nil {
		return r, err
	}

	raw := c.Query(key + "__range")
	if raw == "" {
		return r, nil
	}
	lo, hi, ok := strings.Cut(raw, ",")
	if !ok {
		return r, fmt.Errorf("%s__range: enter two numbers separated by a comma", key)
	}
	from, err1 := strconv.ParseInt(strings.TrimSpace(lo), 10, 64)
	to, err2 := strconv.ParseInt(strings.TrimSpace(hi), 10, 64)
	if err1 != nil || err2 != nil {
		return r, fmt.Errorf("%s__range: enter two numbers separated by a comma", key)
	}
	r.Min, r.Max = tighterMin(r.Min, from), tighterMax(r.Max, to)
	return r, nil
}

func tighterMin(cur *int64, v int64) *int64 {
	if cur != nil && *cur > v {
		return cur
	}
	return &v
}

func tighterMax(cur *int64, v int64) *int64 {
	if cur != nil && *cur < v {
		return cur
	}
	return &v
}
