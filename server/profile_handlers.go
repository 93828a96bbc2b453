package server

import (
	"net/http"

	"github.com/jrsteele09/go-portfolio-client/model"
)

// ProfileHandler returns the public profile and counts the visit.
func (s *Server) ProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, ok := s.profile.get()
		if !ok {
			writeFailure(w, http.StatusNotFound, "Profile not found")
			return
		}
		s.stats.views.Add(1)
		writeSuccess(w, "Profile retrieved successfully", profile)
	}
}

func (s *Server) UpdateProfileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var incoming model.Profile
		if err := decodeJSON(r, &incoming); err != nil {
			writeError(w, s.log, err)
			return
		}
		if err := required("headline", incoming.Headline); err != nil {
			writeError(w, s.log, err)
			return
		}
		updated := s.profile.update(func(p *model.Profile) {
			image, resume := p.ProfileImage, p.ResumeURL
			*p = incoming
			p.ID = "profile"
			if p.ProfileImage == "" {
				p.ProfileImage = image
			}
			if p.ResumeURL == "" {
				p.ResumeURL = resume
			}
		})
		writeSuccess(w, "Profile updated successfully", updated)
	}
}

func (s *Server) DashboardStatsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var unread int64
		for _, m := range s.content.Messages.List() {
			if !m.IsRead {
				unread++
			}
		}
		writeSuccess(w, "Dashboard stats retrieved successfully", model.DashboardStats{
			Projects:       int64(s.content.Projects.Count()),
			Blogs:          int64(s.content.Blogs.Count()),
			Education:      int64(s.content.Education.Count()),
			Views:          s.stats.views.Load(),
			Downloads:      s.stats.downloads.Load(),
			UnreadMessages: unread,
		})
	}
}
