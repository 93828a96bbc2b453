package server

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-portfolio-client/model"
)

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(title string) string {
	return strings.Trim(nonSlugChars.ReplaceAllString(strings.ToLower(title), "-"), "-")
}

func pageParams(r *http.Request) (page, size int) {
	page, _ = strconv.Atoi(r.URL.Query().Get("page"))
	size, _ = strconv.Atoi(r.URL.Query().Get("size"))
	return max(page, 0), size
}

func (s *Server) blogs() collection[model.BlogPost] {
	return collection[model.BlogPost]{
		repo: s.content.Blogs, singular: "Blog post", plural: "Blog posts", log: s.log,
		validate: func(b *model.BlogPost) error {
			return required("title", b.Title)
		},
		prepare: func(existing, incoming *model.BlogPost) {
			if incoming.Slug == "" {
				incoming.Slug = slugify(incoming.Title)
			}
			now := timestamp()
			incoming.UpdatedAt = now
			if existing == nil {
				incoming.CreatedAt = now
				incoming.ViewCount = 0
				return
			}
			incoming.CreatedAt = existing.CreatedAt
			incoming.ViewCount = existing.ViewCount
			if incoming.CoverImage == "" {
				incoming.CoverImage = existing.CoverImage
			}
		},
	}
}

// PublishedBlogsHandler pages through published posts, newest first.
func (s *Server) PublishedBlogsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var published []model.BlogPost
		for _, b := range s.content.Blogs.List() {
			if b.IsPublished {
				published = append(published, b)
			}
		}
		page, size := pageParams(r)
		writeSuccess(w, "Blog posts retrieved successfully", model.NewPage(published, page, size))
	}
}

func (s *Server) AdminBlogsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, size := pageParams(r)
		writeSuccess(w, "Blog posts retrieved successfully", model.NewPage(s.content.Blogs.List(), page, size))
	}
}

// BlogBySlugHandler returns a published post and counts the view. Unknown
// slugs get a bare 404.
func (s *Server) BlogBySlugHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := r.PathValue("slug")
		for _, b := range s.content.Blogs.List() {
			if b.Slug != slug || !b.IsPublished {
				continue
			}
			b.ViewCount++
			if updated, err := s.content.Blogs.Update(b.ID, b); err == nil {
				b = updated
			}
			writeSuccess(w, "Blog post retrieved successfully", b)
			return
		}
		w.WriteHeader(http.StatusNotFound)
	}
}
