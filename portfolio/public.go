package portfolio

import (
	"context"
	"mime"
	"net/http"
	"net/url"
	"strconv"

	"github.com/jrsteele09/go-portfolio-client/coordinator"
	"github.com/jrsteele09/go-portfolio-client/model"
)

func (c *Client) Profile(ctx context.Context) (*model.Profile, error) {
	return getData[*model.Profile](ctx, c, get("/profile"))
}

// ProjectFilter narrows Projects. Zero values don't filter.
type ProjectFilter struct {
	Featured bool
	Type     model.ProjectType
}

func (c *Client) Projects(ctx context.Context, filter ProjectFilter) ([]model.Project, error) {
	req := get("/projects").SetQuery("type", string(filter.Type))
	if filter.Featured {
		req.SetQuery("featured", "true")
	}
	return getData[[]model.Project](ctx, c, req)
}

func (c *Client) Project(ctx context.Context, id string) (*model.Project, error) {
	return getData[*model.Project](ctx, c, get("/projects/"+url.PathEscape(id)))
}

func (c *Client) Skills(ctx context.Context) ([]model.Skill, error) {
	return getData[[]model.Skill](ctx, c, get("/skills"))
}

func (c *Client) Experience(ctx context.Context) ([]model.Experience, error) {
	return getData[[]model.Experience](ctx, c, get("/experience"))
}

// PublicEducation lists the visible education records in display order.
func (c *Client) PublicEducation(ctx context.Context) ([]model.Education, error) {
	return getData[[]model.Education](ctx, c, get("/public/education"))
}

func pageQuery(path string, page model.PageRequest) *coordinator.Request {
	req := get(path)
	if page.Page > 0 {
		req.SetQuery("page", strconv.Itoa(page.Page))
	}
	if page.Size > 0 {
		req.SetQuery("size", strconv.Itoa(page.Size))
	}
	return req.SetQuery("sort", page.Sort)
}

// Blogs pages through published posts.
func (c *Client) Blogs(ctx context.Context, page model.PageRequest) (*model.Page[model.BlogPost], error) {
	return getData[*model.Page[model.BlogPost]](ctx, c, pageQuery("/blogs", page))
}

// BlogBySlug returns a published post. ok is false when there is none.
func (c *Client) BlogBySlug(ctx context.Context, slug string) (post *model.BlogPost, ok bool, err error) {
	post, err = getData[*model.BlogPost](ctx, c, get("/blogs/"+url.PathEscape(slug)))
	if IsNotFound(err) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return post, true, nil
}

// SendMessage submits the public contact form.
func (c *Client) SendMessage(ctx context.Context, msg model.ContactRequest) (*model.ContactMessage, error) {
	return sendData[*model.ContactMessage](ctx, c, http.MethodPost, "/contact", msg)
}

// ResumeDownloadURL is the public link to the active CV.
func (c *Client) ResumeDownloadURL() string {
	return c.URL("/public/cv/download")
}

// DownloadResume fetches the active CV. The file name comes from the
// Content-Disposition header when the server sends one.
func (c *Client) DownloadResume(ctx context.Context) (data []byte, fileName string, err error) {
	req := get("/public/cv/download")
	req.Header.Set("Accept", "application/pdf")
	resp, err := c.send(ctx, req)
	if err != nil {
		return nil, "", err
	}
	fileName = "cv.pdf"
	if _, params, err := mime.ParseMediaType(resp.Header.Get("Content-Disposition")); err == nil && params["filename"] != "" {
		fileName = params["filename"]
	}
	return resp.Body, fileName, nil
}
