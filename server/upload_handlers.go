package server

import (
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
	"github.com/jrsteele09/go-portfolio-client/model"
)

const (
	maxResumeSize = 10 << 20
	maxImageSize  = 5 << 20
	uploadField   = "file"
)

type upload struct {
	name        string
	contentType string
	data        []byte
}

// readUpload reads the multipart "file" part, rejecting anything over limit.
func readUpload(w http.ResponseWriter, r *http.Request, limit int64) (*upload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, limit+(1<<20))
	if err := r.ParseMultipartForm(limit); err != nil {
		return nil, perrors.Wrapf(perrors.ErrInvalidRequest, "invalid multipart form: %v", err)
	}
	file, header, err := r.FormFile(uploadField)
	if err != nil {
		return nil, perrors.Wrapf(perrors.ErrInvalidRequest, "missing %q part", uploadField)
	}
	defer file.Close()

	if header.Size > limit {
		return nil, perrors.Wrapf(perrors.ErrInvalidRequest, "file exceeds %d bytes", limit)
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return nil, perrors.Wrapf(perrors.ErrInvalidRequest, "reading upload: %v", err)
	}
	if len(data) == 0 {
		return nil, perrors.Wrapf(perrors.ErrInvalidRequest, "file is empty")
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}
	return &upload{name: filepath.Base(header.Filename), contentType: contentType, data: data}, nil
}

func (s *Server) UploadResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up, err := readUpload(w, r, maxResumeSize)
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		if up.contentType != "application/pdf" && !strings.EqualFold(filepath.Ext(up.name), ".pdf") {
			writeFailure(w, http.StatusBadRequest, "Only PDF files are allowed")
			return
		}
		uploadedBy := ""
		if claims, ok := ClaimsFromContext(r.Context()); ok {
			uploadedBy = claims.Email
		}
		s.resume.replace(&resumeFile{
			meta: model.ResumeMetadata{
				ID:          uuid.New().String(),
				FileName:    up.name,
				FileSize:    int64(len(up.data)),
				ContentType: "application/pdf",
				UploadedAt:  timestamp(),
				UploadedBy:  uploadedBy,
				IsActive:    true,
			},
			data: up.data,
		})
		downloadURL := s.publicURL(RouteResumeDownload)
		s.profile.update(func(p *model.Profile) { p.ResumeURL = downloadURL })
		writeSuccess(w, "CV uploaded successfully", model.ResumeUpload{
			FileName:    up.name,
			URL:         downloadURL,
			DownloadURL: downloadURL,
		})
	}
}

// ResumeMetadataHandler answers with null data when no CV is active.
func (s *Server) ResumeMetadataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.resume.get()
		if !ok {
			writeSuccess(w, "No active CV found", nil)
			return
		}
		writeSuccess(w, "CV metadata retrieved successfully", f.meta)
	}
}

func (s *Server) DeleteResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.resume.remove() {
			writeFailure(w, http.StatusNotFound, "No active CV found")
			return
		}
		s.profile.update(func(p *model.Profile) { p.ResumeURL = "" })
		writeSuccess(w, "CV deleted successfully", nil)
	}
}

func (s *Server) DownloadResumeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f, ok := s.resume.get()
		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		s.stats.downloads.Add(1)
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", f.meta.FileName))
		w.Header().Set("Content-Length", strconv.Itoa(len(f.data)))
		_, _ = w.Write(f.data)
	}
}

// imageUploadHandler stores an image and hands its URL to assign, which
// records it on the owning record. assign returns false when the owner is gone.
func (s *Server) imageUploadHandler(assign func(r *http.Request, url string) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		up, err := readUpload(w, r, maxImageSize)
		if err != nil {
			writeError(w, s.log, err)
			return
		}
		if !strings.HasPrefix(up.contentType, "image/") {
			writeFailure(w, http.StatusBadRequest, "Only image files are allowed")
			return
		}
		name := uuid.New().String() + strings.ToLower(filepath.Ext(up.name))
		url := s.publicURL(strings.Replace(RouteUploadedImages, "{name}", name, 1))
		if !assign(r, url) {
			writeFailure(w, http.StatusNotFound, "Record not found")
			return
		}
		s.images.put(name, storedImage{contentType: up.contentType, data: up.data})
		writeJSON(w, http.StatusOK, model.ImageUpload{URL: url})
	}
}

func (s *Server) ProfileImageHandler() http.HandlerFunc {
	return s.imageUploadHandler(func(_ *http.Request, url string) bool {
		s.profile.update(func(p *model.Profile) { p.ProfileImage = url })
		return true
	})
}

func (s *Server) ProjectImageHandler() http.HandlerFunc {
	return s.imageUploadHandler(func(r *http.Request, url string) bool {
		return assignField(s.content.Projects.Get, s.content.Projects.Update, r.PathValue("id"),
			func(p *model.Project) { p.ProjectImage = url })
	})
}

func (s *Server) BlogThumbnailHandler() http.HandlerFunc {
	return s.imageUploadHandler(func(r *http.Request, url string) bool {
		return assignField(s.content.Blogs.Get, s.content.Blogs.Update, r.PathValue("id"),
			func(b *model.BlogPost) { b.CoverImage = url })
	})
}

func (s *Server) SkillIconHandler() http.HandlerFunc {
	return s.imageUploadHandler(func(r *http.Request, url string) bool {
		return assignField(s.content.Skills.Get, s.content.Skills.Update, r.PathValue("id"),
			func(sk *model.Skill) { sk.IconURL = url })
	})
}

func assignField[T any](get func(string) (T, error), update func(string, T) (T, error), id string, set func(*T)) bool {
	item, err := get(id)
	if err != nil {
		return false
	}
	set(&item)
	_, err = update(id, item)
	return err == nil
}

// UploadedImageHandler serves images stored by the upload routes.
func (s *Server) UploadedImageHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		img, ok := s.images.get(r.PathValue("name"))
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", img.contentType)
		w.Header().Set("Cache-Control", "public, max-age=3600")
		_, _ = w.Write(img.data)
	}
}
