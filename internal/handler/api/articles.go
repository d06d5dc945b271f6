// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/cnews-go/internal/middleware"
	"github.com/olegiv/cnews-go/internal/service"
	"github.com/olegiv/cnews-go/internal/store"
)

// ArticleResponse represents an article in API responses. Content is
// omitted in list views.
type ArticleResponse struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Subtitle        string     `json:"subtitle,omitempty"`
	Slug            string     `json:"slug"`
	Content         string     `json:"content,omitempty"`
	Excerpt         string     `json:"excerpt"`
	FeaturedImage   string     `json:"featuredImage,omitempty"`
	Category        string     `json:"category"`
	Tags            []string   `json:"tags"`
	AuthorID        int64      `json:"authorId"`
	Status          string     `json:"status"`
	PublishDate     time.Time  `json:"publishDate"`
	ScheduledDate   *time.Time `json:"scheduledDate,omitempty"`
	Views           int64      `json:"views"`
	Likes           int64      `json:"likes"`
	Dislikes        int64      `json:"dislikes"`
	ReadTime        int64      `json:"readTime"`
	IsFeatured      bool       `json:"isFeatured"`
	MetaDescription string     `json:"metaDescription,omitempty"`
	MetaKeywords    []string   `json:"metaKeywords,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// storeArticleToResponse converts a store.Article to ArticleResponse.
func storeArticleToResponse(a store.Article) ArticleResponse {
	resp := ArticleResponse{
		ID:              a.ID,
		Title:           a.Title,
		Subtitle:        a.Subtitle,
		Slug:            a.Slug,
		Content:         a.Content,
		Excerpt:         a.Excerpt,
		FeaturedImage:   a.FeaturedImage,
		Category:        a.Category,
		Tags:            a.Tags,
		AuthorID:        a.AuthorID,
		Status:          a.Status,
		PublishDate:     a.PublishDate,
		Views:           a.Views,
		Likes:           a.Likes,
		Dislikes:        a.Dislikes,
		ReadTime:        a.ReadTime,
		IsFeatured:      a.IsFeatured != 0,
		MetaDescription: a.MetaDescription,
		MetaKeywords:    a.MetaKeywords,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if resp.Tags == nil {
		resp.Tags = []string{}
	}
	if a.ScheduledDate.Valid {
		t := a.ScheduledDate.Time
		resp.ScheduledDate = &t
	}
	return resp
}

func storeArticlesToResponses(articles []store.Article) []ArticleResponse {
	out := make([]ArticleResponse, 0, len(articles))
	for _, a := range articles {
		out = append(out, storeArticleToResponse(a))
	}
	return out
}

// ArticleRequest represents the request body for creating or updating
// an article.
type ArticleRequest struct {
	Title           string   `json:"title"`
	Subtitle        string   `json:"subtitle"`
	Content         string   `json:"content"`
	Excerpt         string   `json:"excerpt"`
	FeaturedImage   string   `json:"featuredImage"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags"`
	Status          string   `json:"status"`
	ScheduledDate   *string  `json:"scheduledDate"`
	IsFeatured      bool     `json:"isFeatured"`
	MetaDescription string   `json:"metaDescription"`
	MetaKeywords    []string `json:"metaKeywords"`
}

// toInput converts the request body into a service input. A malformed
// scheduled date reports as a field error later in validation because
// the input simply carries no date.
func (req ArticleRequest) toInput(w http.ResponseWriter) (service.ArticleInput, bool) {
	in := service.ArticleInput{
		Title:           req.Title,
		Subtitle:        req.Subtitle,
		Content:         req.Content,
		Excerpt:         req.Excerpt,
		FeaturedImage:   req.FeaturedImage,
		Category:        req.Category,
		Tags:            req.Tags,
		Status:          req.Status,
		IsFeatured:      req.IsFeatured,
		MetaDescription: req.MetaDescription,
		MetaKeywords:    req.MetaKeywords,
	}
	if req.ScheduledDate != nil && *req.ScheduledDate != "" {
		t, err := time.Parse(time.RFC3339, *req.ScheduledDate)
		if err != nil {
			WriteValidationError(w, map[string]string{
				"scheduledDate": "must be an RFC 3339 timestamp",
			})
			return service.ArticleInput{}, false
		}
		in.ScheduledDate = &t
	}
	return in, true
}

// ListArticles handles GET /api/articles.
func (h *Handler) ListArticles(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	result, err := h.articles.List(r.Context(), middleware.GetUser(r), service.ListQuery{
		Category: q.Get("category"),
		Status:   q.Get("status"),
		Author:   q.Get("author"),
		Featured: q.Get("featured"),
		Search:   q.Get("search"),
		Sort:     q.Get("sort"),
		DateFrom: q.Get("dateFrom"),
		DateTo:   q.Get("dateTo"),
		Page:     q.Get("page"),
		Limit:    q.Get("limit"),
	})
	if err != nil {
		writeServiceError(w, err, "Articles not found")
		return
	}

	responses := storeArticlesToResponses(result.Articles)
	WriteList(w, responses, len(responses), result.Total, Pagination{
		Current: result.Page,
		Pages:   result.Pages,
		HasNext: result.Page < result.Pages,
		HasPrev: result.Page > 1,
	})
}

// GetArticle handles GET /api/articles/{key}, where key is a numeric
// ID or a slug.
func (h *Handler) GetArticle(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "key")

	article, err := h.articles.GetByKey(r.Context(), middleware.GetUser(r), key)
	if err != nil {
		writeServiceError(w, err, "Article not found")
		return
	}

	WriteSuccess(w, storeArticleToResponse(article))
}

// GetTrending handles GET /api/articles/trending.
func (h *Handler) GetTrending(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	articles, err := h.articles.Trending(r.Context(), q.Get("timeframe"), q.Get("limit"))
	if err != nil {
		writeServiceError(w, err, "Articles not found")
		return
	}

	responses := storeArticlesToResponses(articles)
	WriteJSON(w, http.StatusOK, Response{
		Success: true,
		Count:   intPtr(len(responses)),
		Data:    responses,
	})
}

// CreateArticle handles POST /api/articles.
func (h *Handler) CreateArticle(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	in, ok := req.toInput(w)
	if !ok {
		return
	}

	article, err := h.articles.Create(r.Context(), middleware.GetUser(r), in)
	if err != nil {
		writeServiceError(w, err, "Article not found")
		return
	}

	WriteCreated(w, storeArticleToResponse(article))
}

// UpdateArticle handles PUT /api/articles/{key}.
func (h *Handler) UpdateArticle(w http.ResponseWriter, r *http.Request) {
	var req ArticleRequest
	if !decodeJSONBody(w, r, &req) {
		return
	}
	in, ok := req.toInput(w)
	if !ok {
		return
	}

	article, err := h.articles.Update(r.Context(), middleware.GetUser(r), chi.URLParam(r, "key"), in)
	if err != nil {
		writeServiceError(w, err, "Article not found")
		return
	}

	WriteSuccess(w, storeArticleToResponse(article))
}

// DeleteArticle handles DELETE /api/articles/{key}.
func (h *Handler) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	if err := h.articles.Delete(r.Context(), middleware.GetUser(r), chi.URLParam(r, "key")); err != nil {
		writeServiceError(w, err, "Article not found")
		return
	}
	WriteMessage(w, "Article deleted")
}

// GetStats handles GET /api/articles/stats.
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.articles.Stats(r.Context())
	if err != nil {
		writeServiceError(w, err, "Stats not found")
		return
	}

	WriteSuccess(w, map[string]any{
		"total":      stats.Total,
		"published":  stats.Published,
		"drafts":     stats.Drafts,
		"scheduled":  stats.Scheduled,
		"totalViews": stats.TotalViews,
		"totalLikes": stats.TotalLikes,
	})
}

func intPtr(n int) *int {
	return &n
}
