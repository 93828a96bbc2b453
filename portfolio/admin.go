package portfolio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"

	"github.com/jrsteele09/go-portfolio-client/coordinator"
	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

func idPath(prefix, id string) string {
	return prefix + "/" + url.PathEscape(id)
}

// PROFILE

func (c *Client) UpdateProfile(ctx context.Context, p model.Profile) (*model.Profile, error) {
	return sendData[*model.Profile](ctx, c, http.MethodPost, "/profile", p)
}

// PROJECTS

func (c *Client) CreateProject(ctx context.Context, p model.Project) (*model.Project, error) {
	return sendData[*model.Project](ctx, c, http.MethodPost, "/projects", p)
}

func (c *Client) UpdateProject(ctx context.Context, id string, p model.Project) (*model.Project, error) {
	return sendData[*model.Project](ctx, c, http.MethodPut, idPath("/projects", id), p)
}

func (c *Client) DeleteProject(ctx context.Context, id string) error {
	return c.expectSuccess(ctx, del(idPath("/projects", id)))
}

// SKILLS

func (c *Client) CreateSkill(ctx context.Context, s model.Skill) (*model.Skill, error) {
	return sendData[*model.Skill](ctx, c, http.MethodPost, "/skills", s)
}

func (c *Client) UpdateSkill(ctx context.Context, id string, s model.Skill) (*model.Skill, error) {
	return sendData[*model.Skill](ctx, c, http.MethodPut, idPath("/skills", id), s)
}

func (c *Client) DeleteSkill(ctx context.Context, id string) error {
	return c.expectSuccess(ctx, del(idPath("/skills", id)))
}

// EXPERIENCE

func (c *Client) CreateExperience(ctx context.Context, e model.Experience) (*model.Experience, error) {
	return sendData[*model.Experience](ctx, c, http.MethodPost, "/experience", e)
}

func (c *Client) UpdateExperience(ctx context.Context, id string, e model.Experience) (*model.Experience, error) {
	return sendData[*model.Experience](ctx, c, http.MethodPut, idPath("/experience", id), e)
}

func (c *Client) DeleteExperience(ctx context.Context, id string) error {
	return c.expectSuccess(ctx, del(idPath("/experience", id)))
}

// EDUCATION

// AdminEducation lists every record, hidden ones included.
func (c *Client) AdminEducation(ctx context.Context) ([]model.Education, error) {
	return getData[[]model.Education](ctx, c, get("/admin/education"))
}

func (c *Client) CreateEducation(ctx context.Context, e model.Education) (*model.Education, error) {
	return sendData[*model.Education](ctx, c, http.MethodPost, "/admin/education", e)
}

func (c *Client) UpdateEducation(ctx context.Context, id string, e model.Education) (*model.Education, error) {
	return sendData[*model.Education](ctx, c, http.MethodPut, idPath("/admin/education", id), e)
}

func (c *Client) DeleteEducation(ctx context.Context, id string) error {
	return c.expectSuccess(ctx, del(idPath("/admin/education", id)))
}

// ReorderEducation sets the display order to ids.
func (c *Client) ReorderEducation(ctx context.Context, ids []string) ([]model.Education, error) {
	return sendData[[]model.Education](ctx, c, http.MethodPatch, "/admin/education/reorder", ids)
}

// BLOGS

// AdminBlogs pages through every post, drafts included.
func (c *Client) AdminBlogs(ctx context.Context, page model.PageRequest) (*model.Page[model.BlogPost], error) {
	return getData[*model.Page[model.BlogPost]](ctx, c, pageQuery("/blogs/admin", page))
}

func (c *Client) CreateBlog(ctx context.Context, b model.BlogPost) (*model.BlogPost, error) {
	return sendData[*model.BlogPost](ctx, c, http.MethodPost, "/blogs", b)
}

func (c *Client) UpdateBlog(ctx context.Context, id string, b model.BlogPost) (*model.BlogPost, error) {
	return sendData[*model.BlogPost](ctx, c, http.MethodPut, idPath("/blogs", id), b)
}

func (c *Client) DeleteBlog(ctx context.Context, id string) error {
	return c.expectSuccess(ctx, del(idPath("/blogs", id)))
}

// MESSAGES

func (c *Client) Messages(ctx context.Context) ([]model.ContactMessage, error) {
	return getData[[]model.ContactMessage](ctx, c, get("/contact"))
}

func (c *Client) MarkMessageRead(ctx context.Context, id string) (*model.ContactMessage, error) {
	return getData[*model.ContactMessage](ctx, c, coordinator.NewRequest(http.MethodPut, idPath("/contact", id)+"/read"))
}

func (c *Client) DeleteMessage(ctx context.Context, id string) error {
	return c.expectSuccess(ctx, del(idPath("/contact", id)))
}

// CV

// UploadResume replaces the active CV.
func (c *Client) UploadResume(ctx context.Context, fileName string, r io.Reader) (*model.ResumeUpload, error) {
	req, err := multipartRequest("/admin/cv/upload", fileName, r)
	if err != nil {
		return nil, err
	}
	return getData[*model.ResumeUpload](ctx, c, req)
}

// ResumeMetadata describes the active CV, or returns nil when there is none.
func (c *Client) ResumeMetadata(ctx context.Context) (*model.ResumeMetadata, error) {
	meta, err := getData[*model.ResumeMetadata](ctx, c, get("/admin/cv"))
	if IsNotFound(err) {
		return nil, nil
	}
	return meta, err
}

func (c *Client) DeleteResume(ctx context.Context) error {
	return c.expectSuccess(ctx, del("/admin/cv"))
}

// IMAGES

func (c *Client) UploadProfileImage(ctx context.Context, fileName string, r io.Reader) (string, error) {
	return c.uploadImage(ctx, "/admin/profile/image", fileName, r)
}

func (c *Client) UploadProjectImage(ctx context.Context, projectID, fileName string, r io.Reader) (string, error) {
	return c.uploadImage(ctx, idPath("/admin/projects", projectID)+"/image", fileName, r)
}

func (c *Client) UploadBlogThumbnail(ctx context.Context, blogID, fileName string, r io.Reader) (string, error) {
	return c.uploadImage(ctx, idPath("/admin/blogs", blogID)+"/thumbnail", fileName, r)
}

func (c *Client) UploadSkillIcon(ctx context.Context, skillID, fileName string, r io.Reader) (string, error) {
	return c.uploadImage(ctx, idPath("/admin/skills", skillID)+"/icon", fileName, r)
}

// uploadImage returns the URL of the stored image. These endpoints answer
// with a bare {"url": ...} rather than an envelope.
func (c *Client) uploadImage(ctx context.Context, path, fileName string, r io.Reader) (string, error) {
	req, err := multipartRequest(path, fileName, r)
	if err != nil {
		return "", err
	}
	resp, err := c.send(ctx, req)
	if err != nil {
		return "", err
	}
	var out model.ImageUpload
	if err := resp.DecodeJSON(&out); err != nil {
		return "", errors.Wrapf(err, "[Client.uploadImage] %s", path)
	}
	return out.URL, nil
}

// multipartRequest buffers the whole form so a replay resends the same bytes.
func multipartRequest(path, fileName string, r io.Reader) (*coordinator.Request, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	contentType := mime.TypeByExtension(filepath.Ext(fileName))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="file"; filename=%q`, filepath.Base(fileName)))
	header.Set("Content-Type", contentType)

	part, err := mw.CreatePart(header)
	if err != nil {
		return nil, errors.Wrap(err, "[portfolio] creating multipart part")
	}
	if _, err := io.Copy(part, r); err != nil {
		return nil, errors.Wrapf(err, "[portfolio] reading %s", fileName)
	}
	if err := mw.Close(); err != nil {
		return nil, errors.Wrap(err, "[portfolio] closing multipart body")
	}

	req := coordinator.NewRequest(http.MethodPost, path)
	req.Body = buf.Bytes()
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req, nil
}

// DASHBOARD

func (c *Client) DashboardStats(ctx context.Context) (*model.DashboardStats, error) {
	return getData[*model.DashboardStats](ctx, c, get("/admin/dashboard/stats"))
}

// Overview is what the admin dashboard shows on load.
type Overview struct {
	Stats    *model.DashboardStats
	Profile  *model.Profile
	Messages []model.ContactMessage
}

// Overview loads the dashboard's data concurrently. If the session has
// expired the three requests share a single refresh.
func (c *Client) Overview(ctx context.Context) (*Overview, error) {
	var out Overview
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		out.Stats, err = c.DashboardStats(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Profile, err = c.Profile(ctx)
		return err
	})
	g.Go(func() (err error) {
		out.Messages, err = c.Messages(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &out, nil
}
