package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/logger"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/models"
	"github.com/MegamindsITServices/Sri-Sai-Ram-Real-Estate/internal/types"
	"gorm.io/gorm"
	"gorm.io/hints"
)

// Scope decides which records a catalog query may return.
type Scope string

const (
	ScopePublic Scope = "public"
	ScopeAdmin  Scope = "admin"
)

// Sort orders accepted by List. Anything else uses the status priority order.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

const (
	DefaultPageLimit = 10
	MaxPageLimit     = 50
	AlsoLikeLimit    = 8
	DefaultTopLimit  = 8
)

// statusPriority surfaces upcoming and newly launched inventory first and sold out last.
const statusPriority = "CASE status" +
	" WHEN 'upcoming' THEN 0" +
	" WHEN 'newly-launched' THEN 1" +
	" WHEN 'available' THEN 2" +
	" WHEN 'sold-out' THEN 3" +
	" ELSE 4 END"

// ListQuery is a sanitised catalog request.
type ListQuery struct {
	Page     int
	Limit    int
	Scope    Scope
	Search   string
	Status   string
	Category string
	MinPrice *float64
	MaxPrice *float64
	MinArea  *float64
	Sort     string
}

// ParseListQuery builds a ListQuery from untrusted query parameters.
// Malformed numbers are ignored rather than rejected.
func ParseListQuery(params map[string]string, scope Scope) ListQuery {
	q := ListQuery{
		Page:     parsePositive(params["page"], 1),
		Limit:    parsePositive(params["limit"], DefaultPageLimit),
		Scope:    scope,
		Search:   strings.TrimSpace(params["search"]),
		Status:   strings.TrimSpace(params["status"]),
		Category: strings.TrimSpace(params["category"]),
		MinPrice: parseBound(params["minPrice"]),
		MaxPrice: parseBound(params["maxPrice"]),
		MinArea:  parseBound(params["area"]),
		Sort:     strings.TrimSpace(params["sort"]),
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Category == "all" {
		q.Category = ""
	}
	if q.Status == "all" {
		q.Status = ""
	}
	return q
}

// normalise applies the same defaults to a ListQuery built in code.
func (q ListQuery) normalise() ListQuery {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Limit < 1 {
		q.Limit = DefaultPageLimit
	}
	if q.Limit > MaxPageLimit {
		q.Limit = MaxPageLimit
	}
	if q.Scope != ScopeAdmin {
		q.Scope = ScopePublic
	}
	return q
}

func (q ListQuery) cacheParams() map[string]string {
	p := map[string]string{
		"page":     strconv.Itoa(q.Page),
		"limit":    strconv.Itoa(q.Limit),
		"search":   strings.ToLower(q.Search),
		"status":   q.Status,
		"category": q.Category,
		"sort":     q.Sort,
	}
	for k, v := range map[string]*float64{"minPrice": q.MinPrice, "maxPrice": q.MaxPrice, "area": q.MinArea} {
		if v != nil {
			p[k] = strconv.FormatFloat(*v, 'f', -1, 64)
		}
	}
	return p
}

func parsePositive(s string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return def
	}
	return n
}

func parseBound(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	TotalItems   int64 `json:"totalItems"`
	TotalPages   int64 `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
	HasNextPage  bool  `json:"hasNextPage"`
	HasPrevPage  bool  `json:"hasPrevPage"`
}

// NewPagination computes the page metadata for total items split into pages of limit.
func NewPagination(total int64, page, limit int) Pagination {
	totalPages := int64(0)
	if limit > 0 {
		totalPages = (total + int64(limit) - 1) / int64(limit)
	}
	return Pagination{
		TotalItems:   total,
		TotalPages:   totalPages,
		CurrentPage:  page,
		ItemsPerPage: limit,
		HasNextPage:  int64(page) < totalPages,
		HasPrevPage:  page > 1,
	}
}

// Page is one window of the catalog.
type Page struct {
	Items      []models.Project `json:"items"`
	Pagination Pagination       `json:"pagination"`
}

// CatalogOptions tune query execution.
type CatalogOptions struct {
	// QueryTimeout becomes a MAX_EXECUTION_TIME optimizer hint on MySQL.
	QueryTimeout time.Duration
}

// Catalog answers read queries against the project store.
type Catalog struct {
	db    *gorm.DB
	cache *Cache
	log   *logger.Logger
	opts  CatalogOptions
}

// NewCatalog builds the query engine over the reader pool.
func NewCatalog(db *gorm.DB, cache *Cache, log *logger.Logger, opts CatalogOptions) *Catalog {
	return &Catalog{db: db, cache: cache, log: log.With("component", "catalog"), opts: opts}
}

func (c *Catalog) base(ctx context.Context) *gorm.DB {
	tx := c.db.WithContext(ctx).Model(&models.Project{})
	if c.opts.QueryTimeout > 0 && c.db.Dialector.Name() == "mysql" {
		tx = tx.Clauses(hints.New(fmt.Sprintf("MAX_EXECUTION_TIME(%d)", c.opts.QueryTimeout.Milliseconds())))
	}
	return tx
}

// escapeLike makes s match literally inside a LIKE pattern using '!' as the escape.
func escapeLike(s string) string {
	return strings.NewReplacer("!", "!!", "%", "!%", "_", "!_").Replace(s)
}

// categoryValues expands a "<base>_group" alias to the base and its layout variant.
func categoryValues(category string) []string {
	if base, ok := strings.CutSuffix(category, "_group"); ok && base != "" {
		return []string{base, base + "_layout"}
	}
	return []string{category}
}

func (c *Catalog) filtered(ctx context.Context, q ListQuery) *gorm.DB {
	tx := c.base(ctx)
	if q.Scope != ScopeAdmin {
		tx = tx.Where("live = ?", true)
	}
	if q.Search != "" {
		term := "%" + escapeLike(strings.ToLower(q.Search)) + "%"
		tx = tx.Where(
			"(LOWER(title) LIKE ? ESCAPE '!' OR LOWER(category) LIKE ? ESCAPE '!'"+
				" OR LOWER(location_title) LIKE ? ESCAPE '!' OR LOWER(description) LIKE ? ESCAPE '!')",
			term, term, term, term,
		)
	}
	if q.Status != "" {
		tx = tx.Where("status = ?", q.Status)
	}
	if q.Category != "" {
		tx = tx.Where("category IN ?", categoryValues(q.Category))
	}
	if q.MinPrice != nil {
		tx = tx.Where("price >= ?", *q.MinPrice)
	}
	if q.MaxPrice != nil {
		tx = tx.Where("price <= ?", *q.MaxPrice)
	}
	if q.MinArea != nil {
		tx = tx.Where("total_area >= ?", *q.MinArea)
	}
	return tx
}

// ordered applies the sort and the id tie-break that makes the order total.
func ordered(tx *gorm.DB, sort string) *gorm.DB {
	switch sort {
	case SortNewest:
		return tx.Order("created_at DESC").Order("id ASC")
	case SortPriceAsc:
		return tx.Order("price ASC").Order("created_at DESC").Order("id ASC")
	case SortPriceDesc:
		return tx.Order("price DESC").Order("created_at DESC").Order("id ASC")
	default:
		return tx.Order(statusPriority + " ASC").Order("created_at DESC").Order("id ASC")
	}
}

// List returns one page of projects matching q.
func (c *Catalog) List(ctx context.Context, q ListQuery) (*Page, error) {
	q = q.normalise()

	cacheable := q.Scope == ScopePublic
	if cacheable {
		var cached Page
		if c.cache.Get(ctx, "list", q.cacheParams(), &cached) {
			if cached.Items == nil {
				cached.Items = []models.Project{}
			}
			return &cached, nil
		}
	}

	var total int64
	if err := c.filtered(ctx, q).Count(&total).Error; err != nil {
		return nil, types.NewPersistenceError("failed to count projects", err)
	}

	items := []models.Project{}
	offset := (q.Page - 1) * q.Limit
	if int64(offset) < total {
		if err := ordered(c.filtered(ctx, q), q.Sort).Offset(offset).Limit(q.Limit).Find(&items).Error; err != nil {
			return nil, types.NewPersistenceError("failed to list projects", err)
		}
	}
	if items == nil {
		items = []models.Project{}
	}

	page := &Page{Items: items, Pagination: NewPagination(total, q.Page, q.Limit)}
	if cacheable {
		c.cache.Set(ctx, "list", q.cacheParams(), page)
	}
	return page, nil
}

// AlsoLike returns up to eight other live projects, optionally in the same category, newest first.
func (c *Catalog) AlsoLike(ctx context.Context, id, category string) ([]models.Project, error) {
	params := map[string]string{"id": id, "category": category}
	var items []models.Project
	if c.cache.Get(ctx, "also-like", params, &items) && items != nil {
		return items, nil
	}

	tx := c.base(ctx).Where("live = ?", true).Where("id <> ?", id)
	if category = strings.TrimSpace(category); category != "" {
		tx = tx.Where("category IN ?", categoryValues(category))
	}
	items = []models.Project{}
	if err := ordered(tx, SortNewest).Limit(AlsoLikeLimit).Find(&items).Error; err != nil {
		return nil, types.NewPersistenceError("failed to list similar projects", err)
	}
	if items == nil {
		items = []models.Project{}
	}

	c.cache.Set(ctx, "also-like", params, items)
	return items, nil
}

// Top returns live featured projects, newest first.
func (c *Catalog) Top(ctx context.Context, limit int) ([]models.Project, error) {
	if limit < 1 {
		limit = DefaultTopLimit
	}
	if limit > MaxPageLimit {
		limit = MaxPageLimit
	}
	params := map[string]string{"limit": strconv.Itoa(limit)}
	var items []models.Project
	if c.cache.Get(ctx, "top", params, &items) && items != nil {
		return items, nil
	}

	items = []models.Project{}
	tx := c.base(ctx).Where("live = ?", true).Where("top_project = ?", true)
	if err := ordered(tx, SortNewest).Limit(limit).Find(&items).Error; err != nil {
		return nil, types.NewPersistenceError("failed to list top projects", err)
	}
	if items == nil {
		items = []models.Project{}
	}

	c.cache.Set(ctx, "top", params, items)
	return items, nil
}

// Get loads one project by id regardless of its live flag.
func (c *Catalog) Get(ctx context.Context, id string) (*models.Project, error) {
	return findProject(c.db.WithContext(ctx), id)
}

func findProject(tx *gorm.DB, id string) (*models.Project, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, types.NewValidationError("invalid request", types.FieldError{Field: "_id", Message: "is required"})
	}
	var p models.Project
	if err := tx.Where("id = ?", id).First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, types.NewNotFoundError(fmt.Sprintf("project %s not found", id))
		}
		return nil, types.NewPersistenceError("failed to load project", err)
	}
	return &p, nil
}
