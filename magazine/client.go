package magazine

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/wrapsnp/go-directory/pkg/types"
)

var (
	// ErrMissingBaseURL occurs when the client is built without an API root.
	ErrMissingBaseURL = errors.New("go-directory: missing magazine base URL")
	// ErrContentNotFound occurs when a post, page, or author does not exist.
	ErrContentNotFound = errors.New("go-directory: magazine content not found")
)

// StatusError carries a non-2xx response from the CMS, including the error
// code and message the API reported in its body when it sent one.
type StatusError struct {
	Status  int
	Code    string
	Message string
}

// Error implements error.
func (e *StatusError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("go-directory: magazine api status %d (%s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("go-directory: magazine api status %d", e.Status)
}

// Is maps 404 responses onto ErrContentNotFound so callers can use errors.Is
// without inspecting status codes.
func (e *StatusError) Is(target error) bool {
	return target == ErrContentNotFound && e.Status == http.StatusNotFound
}

// Rendered wraps the CMS representation of rendered rich-text fields.
type Rendered struct {
	Rendered string `json:"rendered"`
}

// Post is one editorial article.
type Post struct {
	ID              int64     `json:"id"`
	Date            string    `json:"date"`
	Modified        string    `json:"modified"`
	Slug            string    `json:"slug"`
	Link            string    `json:"link"`
	Title           Rendered  `json:"title"`
	Excerpt         Rendered  `json:"excerpt"`
	Content         Rendered  `json:"content"`
	AuthorID        int64     `json:"author"`
	FeaturedMediaID int64     `json:"featured_media"`
	CategoryIDs     []int64   `json:"categories"`
	TagIDs          []int64   `json:"tags"`
	Embedded        *Embedded `json:"_embedded,omitempty"`
}

// Page is one static CMS page.
type Page struct {
	ID       int64     `json:"id"`
	Date     string    `json:"date"`
	Modified string    `json:"modified"`
	Slug     string    `json:"slug"`
	Link     string    `json:"link"`
	Title    Rendered  `json:"title"`
	Content  Rendered  `json:"content"`
	Embedded *Embedded `json:"_embedded,omitempty"`
}

// Embedded carries the expansions returned when a request asks for _embed.
type Embedded struct {
	Authors       []Author `json:"author"`
	FeaturedMedia []Media  `json:"wp:featuredmedia"`
	Terms         [][]Term `json:"wp:term"`
}

// Author is a CMS author profile.
type Author struct {
	ID         int64             `json:"id"`
	Name       string            `json:"name"`
	Slug       string            `json:"slug"`
	AvatarURLs map[string]string `json:"avatar_urls"`
}

// Media is an uploaded CMS asset, typically a featured image.
type Media struct {
	ID        int64  `json:"id"`
	SourceURL string `json:"source_url"`
	AltText   string `json:"alt_text"`
}

// Term is one taxonomy term attached to a post.
type Term struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	Taxonomy string `json:"taxonomy"`
}

// Category is a post category.
type Category struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Slug   string `json:"slug"`
	Count  int    `json:"count"`
	Parent int64  `json:"parent"`
}

// Tag is a post tag.
type Tag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Count int    `json:"count"`
}

// ListMeta carries the pagination totals the CMS reports in response headers.
type ListMeta struct {
	Total      int
	TotalPages int
}

// PostFilter selects posts for listing.
type PostFilter struct {
	Page        int
	PerPage     int
	Search      string
	CategoryIDs []int64
	TagIDs      []int64
	Embed       bool
}

// TermFilter selects categories or tags for listing.
type TermFilter struct {
	Page    int
	PerPage int
	Search  string
}

// Config wires the CMS client.
type Config struct {
	// BaseURL is the API root, e.g. "https://example.com/wp-json/wp/v2".
	BaseURL    string
	HTTPClient *http.Client
	Timeout    time.Duration
	Logger     types.Logger
}

// Client is a read-only CMS API client. It is safe for concurrent use.
type Client struct {
	baseURL string
	http    *http.Client
	logger  types.Logger
}

// NewClient constructs the client. A nil HTTPClient gets a default with a
// 15s timeout.
func NewClient(cfg Config) (*Client, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, ErrMissingBaseURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = types.NopLogger{}
	}
	return &Client{
		baseURL: base,
		http:    httpClient,
		logger:  logger,
	}, nil
}

// ListPosts returns one page of posts plus the pagination totals.
func (c *Client) ListPosts(ctx context.Context, filter PostFilter) ([]Post, ListMeta, error) {
	query := url.Values{}
	applyPagination(query, filter.Page, filter.PerPage)
	if keyword := strings.TrimSpace(filter.Search); keyword != "" {
		query.Set("search", keyword)
	}
	if len(filter.CategoryIDs) > 0 {
		query.Set("categories", joinIDs(filter.CategoryIDs))
	}
	if len(filter.TagIDs) > 0 {
		query.Set("tags", joinIDs(filter.TagIDs))
	}
	if filter.Embed {
		query.Set("_embed", "1")
	}

	var posts []Post
	header, err := c.get(ctx, "/posts", query, &posts)
	if err != nil {
		return nil, ListMeta{}, err
	}
	return posts, metaFromHeader(header), nil
}

// GetPostBySlug resolves one post by its slug.
func (c *Client) GetPostBySlug(ctx context.Context, slug string, embed bool) (*Post, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrContentNotFound
	}
	query := url.Values{"slug": {slug}}
	if embed {
		query.Set("_embed", "1")
	}
	var posts []Post
	if _, err := c.get(ctx, "/posts", query, &posts); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return nil, ErrContentNotFound
	}
	return &posts[0], nil
}

// GetPostByID resolves one post by its numeric id.
func (c *Client) GetPostByID(ctx context.Context, id int64, embed bool) (*Post, error) {
	query := url.Values{}
	if embed {
		query.Set("_embed", "1")
	}
	var post Post
	if _, err := c.get(ctx, "/posts/"+strconv.FormatInt(id, 10), query, &post); err != nil {
		return nil, err
	}
	return &post, nil
}

// GetPageBySlug resolves one static page by its slug.
func (c *Client) GetPageBySlug(ctx context.Context, slug string) (*Page, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return nil, ErrContentNotFound
	}
	var pages []Page
	if _, err := c.get(ctx, "/pages", url.Values{"slug": {slug}}, &pages); err != nil {
		return nil, err
	}
	if len(pages) == 0 {
		return nil, ErrContentNotFound
	}
	return &pages[0], nil
}

// ListCategories returns one page of post categories.
func (c *Client) ListCategories(ctx context.Context, filter TermFilter) ([]Category, ListMeta, error) {
	query := url.Values{}
	applyPagination(query, filter.Page, filter.PerPage)
	if keyword := strings.TrimSpace(filter.Search); keyword != "" {
		query.Set("search", keyword)
	}
	var categories []Category
	header, err := c.get(ctx, "/categories", query, &categories)
	if err != nil {
		return nil, ListMeta{}, err
	}
	return categories, metaFromHeader(header), nil
}

// ListTags returns one page of post tags.
func (c *Client) ListTags(ctx context.Context, filter TermFilter) ([]Tag, ListMeta, error) {
	query := url.Values{}
	applyPagination(query, filter.Page, filter.PerPage)
	if keyword := strings.TrimSpace(filter.Search); keyword != "" {
		query.Set("search", keyword)
	}
	var tags []Tag
	header, err := c.get(ctx, "/tags", query, &tags)
	if err != nil {
		return nil, ListMeta{}, err
	}
	return tags, metaFromHeader(header), nil
}

// GetAuthor resolves one author by id.
func (c *Client) GetAuthor(ctx context.Context, id int64) (*Author, error) {
	var author Author
	if _, err := c.get(ctx, "/users/"+strconv.FormatInt(id, 10), nil, &author); err != nil {
		return nil, err
	}
	return &author, nil
}

// apiError is the error body shape the CMS returns on failures.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) (http.Header, error) {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("go-directory: magazine request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("go-directory: magazine request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &StatusError{Status: resp.StatusCode}
		var body apiError
		if decodeErr := json.NewDecoder(resp.Body).Decode(&body); decodeErr == nil {
			statusErr.Code = body.Code
			statusErr.Message = body.Message
		}
		c.logger.Debug("magazine api error", "path", path, "status", resp.StatusCode, "code", statusErr.Code)
		return nil, statusErr
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return nil, fmt.Errorf("go-directory: magazine decode: %w", err)
	}
	return resp.Header, nil
}

func applyPagination(query url.Values, page, perPage int) {
	if page > 0 {
		query.Set("page", strconv.Itoa(page))
	}
	if perPage > 0 {
		query.Set("per_page", strconv.Itoa(perPage))
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}

func metaFromHeader(header http.Header) ListMeta {
	var meta ListMeta
	if total, err := strconv.Atoi(header.Get("X-WP-Total")); err == nil {
		meta.Total = total
	}
	if pages, err := strconv.Atoi(header.Get("X-WP-TotalPages")); err == nil {
		meta.TotalPages = pages
	}
	return meta
}
