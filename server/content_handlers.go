package server

import (
	"net/http"
	"strings"

	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
	"github.com/jrsteele09/go-portfolio-client/content"
	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/rs/zerolog"
)

// collection adapts a content.Repo to the envelope-returning CRUD routes
// shared by projects, skills, experience and education.
type collection[T any] struct {
	repo     content.Repo[T]
	singular string // "Project"
	plural   string // "Projects"
	log      zerolog.Logger
	validate func(*T) error // Optional, run before create and update
	prepare  func(existing *T, incoming *T)
}

func (c collection[T]) list(filter func(T) bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items := c.repo.List()
		if filter != nil {
			kept := items[:0]
			for _, item := range items {
				if filter(item) {
					kept = append(kept, item)
				}
			}
			items = kept
		}
		writeSuccess(w, c.plural+" retrieved successfully", items)
	}
}

func (c collection[T]) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		item, err := c.repo.Get(r.PathValue("id"))
		if err != nil {
			writeFailure(w, http.StatusNotFound, c.singular+" not found")
			return
		}
		writeSuccess(w, c.singular+" retrieved successfully", item)
	}
}

func (c collection[T]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var item T
		if err := decodeJSON(r, &item); err != nil {
			writeError(w, c.log, err)
			return
		}
		if err := c.check(&item); err != nil {
			writeError(w, c.log, err)
			return
		}
		if c.prepare != nil {
			c.prepare(nil, &item)
		}
		created, err := c.repo.Create(item)
		if err != nil {
			writeError(w, c.log, err)
			return
		}
		writeSuccess(w, c.singular+" created successfully", created)
	}
}

func (c collection[T]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := r.PathValue("id")
		existing, err := c.repo.Get(id)
		if err != nil {
			writeFailure(w, http.StatusNotFound, c.singular+" not found")
			return
		}
		var item T
		if err := decodeJSON(r, &item); err != nil {
			writeError(w, c.log, err)
			return
		}
		if err := c.check(&item); err != nil {
			writeError(w, c.log, err)
			return
		}
		if c.prepare != nil {
			c.prepare(&existing, &item)
		}
		updated, err := c.repo.Update(id, item)
		if err != nil {
			writeError(w, c.log, err)
			return
		}
		writeSuccess(w, c.singular+" updated successfully", updated)
	}
}

func (c collection[T]) delete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := c.repo.Delete(r.PathValue("id")); err != nil {
			writeFailure(w, http.StatusNotFound, c.singular+" not found")
			return
		}
		writeSuccess(w, c.singular+" deleted successfully", nil)
	}
}

func (c collection[T]) check(item *T) error {
	if c.validate == nil {
		return nil
	}
	return c.validate(item)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return perrors.Wrapf(perrors.ErrInvalidRequest, "%s is required", field)
	}
	return nil
}

func (s *Server) projects() collection[model.Project] {
	return collection[model.Project]{
		repo: s.content.Projects, singular: "Project", plural: "Projects", log: s.log,
		validate: func(p *model.Project) error {
			if err := required("title", p.Title); err != nil {
				return err
			}
			switch p.ProjectType {
			case "", model.ProjectPersonal, model.ProjectClient, model.ProjectOpenSource:
				return nil
			}
			return perrors.Wrapf(perrors.ErrInvalidRequest, "unknown projectType %q", p.ProjectType)
		},
		prepare: func(existing, incoming *model.Project) {
			if existing != nil && incoming.ProjectImage == "" {
				incoming.ProjectImage = existing.ProjectImage
			}
		},
	}
}

// projectFilter honours the optional featured and type query parameters.
func projectFilter(r *http.Request) func(model.Project) bool {
	featured := r.URL.Query().Get("featured") == "true"
	projectType := model.ProjectType(strings.ToUpper(r.URL.Query().Get("type")))
	return func(p model.Project) bool {
		if featured && !p.IsFeatured {
			return false
		}
		return projectType == "" || p.ProjectType == projectType
	}
}

func (s *Server) ListProjectsHandler() http.HandlerFunc {
	projects := s.projects()
	return func(w http.ResponseWriter, r *http.Request) {
		projects.list(projectFilter(r))(w, r)
	}
}

func (s *Server) skills() collection[model.Skill] {
	return collection[model.Skill]{
		repo: s.content.Skills, singular: "Skill", plural: "Skills", log: s.log,
		validate: func(sk *model.Skill) error {
			if err := required("skillName", sk.SkillName); err != nil {
				return err
			}
			if sk.ProficiencyLevel < 0 || sk.ProficiencyLevel > 100 {
				return perrors.Wrapf(perrors.ErrInvalidRequest, "proficiencyLevel must be between 0 and 100")
			}
			return nil
		},
		prepare: func(existing, incoming *model.Skill) {
			if existing != nil && incoming.IconURL == "" {
				incoming.IconURL = existing.IconURL
			}
		},
	}
}

func (s *Server) experience() collection[model.Experience] {
	return collection[model.Experience]{
		repo: s.content.Experience, singular: "Experience", plural: "Experiences", log: s.log,
		validate: func(e *model.Experience) error {
			if err := required("company", e.Company); err != nil {
				return err
			}
			return required("position", e.Position)
		},
		prepare: func(_, incoming *model.Experience) {
			if incoming.IsCurrent {
				incoming.EndDate = ""
			}
		},
	}
}
