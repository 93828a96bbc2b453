package server

import (
	"net/http"
	"sort"

	perrors "github.com/jrsteele09/go-portfolio-client/internal/errors"
	"github.com/jrsteele09/go-portfolio-client/internal/utils"
	"github.com/jrsteele09/go-portfolio-client/model"
)

func (s *Server) education() collection[model.Education] {
	return collection[model.Education]{
		repo: s.content.Education, singular: "Education", plural: "Education", log: s.log,
		validate: func(e *model.Education) error {
			if err := required("institution", e.Institution); err != nil {
				return err
			}
			return required("degree", e.Degree)
		},
		prepare: func(existing, incoming *model.Education) {
			now := timestamp()
			incoming.UpdatedAt = now
			if existing == nil {
				incoming.CreatedAt = now
				if incoming.Visible == nil {
					incoming.Visible = utils.Ptr(true)
				}
				if incoming.OrderIndex == 0 {
					incoming.OrderIndex = s.content.Education.Count()
				}
				return
			}
			incoming.CreatedAt = existing.CreatedAt
			if incoming.Visible == nil {
				incoming.Visible = existing.Visible
			}
		},
	}
}

func sortedEducation(items []model.Education) []model.Education {
	sort.SliceStable(items, func(i, j int) bool { return items[i].OrderIndex < items[j].OrderIndex })
	return items
}

// PublicEducationHandler lists visible records by orderIndex.
func (s *Server) PublicEducationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var visible []model.Education
		for _, e := range s.content.Education.List() {
			if e.IsVisible() {
				visible = append(visible, e)
			}
		}
		writeSuccess(w, "Education retrieved successfully", sortedEducation(visible))
	}
}

func (s *Server) AdminEducationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeSuccess(w, "Education retrieved successfully", sortedEducation(s.content.Education.List()))
	}
}

// ReorderEducationHandler takes the full ID order and rewrites every record's
// orderIndex to match it.
func (s *Server) ReorderEducationHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var ids []string
		if err := decodeJSON(r, &ids); err != nil {
			writeError(w, s.log, err)
			return
		}
		if len(ids) == 0 {
			writeError(w, s.log, perrors.Wrapf(perrors.ErrInvalidRequest, "no ids given"))
			return
		}
		repo := s.content.Education
		if err := repo.Reorder(ids); err != nil {
			writeError(w, s.log, err)
			return
		}
		position := make(map[string]int, len(ids))
		for i, id := range ids {
			position[id] = i
		}
		// Records left out of the list keep their relative order after the listed ones
		next := len(ids)
		for _, e := range sortedEducation(repo.List()) {
			idx, ok := position[e.ID]
			if !ok {
				idx = next
				next++
			}
			e.OrderIndex = idx
			if _, err := repo.Update(e.ID, e); err != nil {
				writeError(w, s.log, err)
				return
			}
		}
		writeSuccess(w, "Education reordered successfully", sortedEducation(repo.List()))
	}
}
