package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	api := s.APIMiddleware
	admin := s.AdminMiddleware

	loginChain := api()
	if s.loginLimiter != nil {
		loginChain = api(s.loginLimiter.Middleware)
	}

	// AUTH
	s.RegisterRouteHandler("POST "+RouteAuthLogin, ChainMiddleware(s.LoginHandler(), loginChain...))
	s.RegisterRouteHandler("POST "+RouteAuthRegister, ChainMiddleware(s.RegisterHandler(), loginChain...))
	s.RegisterRouteHandler("POST "+RouteAuthRefresh, ChainMiddleware(s.RefreshHandler(), api()...))
	s.RegisterRouteHandler("POST "+RouteAuthLogout, ChainMiddleware(s.LogoutHandler(), api()...))
	s.RegisterRouteHandler("GET "+RouteAuthMe, ChainMiddleware(s.MeHandler(), api(s.RequireSession)...))

	// PROFILE
	s.RegisterRouteHandler("GET "+RouteProfile, ChainMiddleware(s.ProfileHandler(), api()...))
	s.RegisterRouteHandler("POST "+RouteProfile, ChainMiddleware(s.UpdateProfileHandler(), admin()...))
	s.RegisterRouteHandler("PUT "+RouteProfile, ChainMiddleware(s.UpdateProfileHandler(), admin()...))
	s.RegisterRouteHandler("POST "+RouteProfileImage, ChainMiddleware(s.ProfileImageHandler(), admin()...))

	// PROJECTS
	projects := s.projects()
	s.RegisterRouteHandler("GET "+RouteProjects, ChainMiddleware(s.ListProjectsHandler(), api()...))
	s.RegisterRouteHandler("GET "+RouteProject, ChainMiddleware(projects.get(), api()...))
	s.RegisterRouteHandler("POST "+RouteProjects, ChainMiddleware(projects.create(), admin()...))
	s.RegisterRouteHandler("PUT "+RouteProject, ChainMiddleware(projects.update(), admin()...))
	s.RegisterRouteHandler("DELETE "+RouteProject, ChainMiddleware(projects.delete(), admin()...))
	s.RegisterRouteHandler("POST "+RouteProjectImage, ChainMiddleware(s.ProjectImageHandler(), admin()...))

	// SKILLS
	skills := s.skills()
	s.RegisterRouteHandler("GET "+RouteSkills, ChainMiddleware(skills.list(nil), api()...))
	s.RegisterRouteHandler("POST "+RouteSkills, ChainMiddleware(skills.create(), admin()...))
	s.RegisterRouteHandler("PUT "+RouteSkill, ChainMiddleware(skills.update(), admin()...))
	s.RegisterRouteHandler("DELETE "+RouteSkill, ChainMiddleware(skills.delete(), admin()...))
	s.RegisterRouteHandler("POST "+RouteSkillIcon, ChainMiddleware(s.SkillIconHandler(), admin()...))

	// EXPERIENCE
	experience := s.experience()
	s.RegisterRouteHandler("GET "+RouteExperiences, ChainMiddleware(experience.list(nil), api()...))
	s.RegisterRouteHandler("POST "+RouteExperiences, ChainMiddleware(experience.create(), admin()...))
	s.RegisterRouteHandler("PUT "+RouteExperience, ChainMiddleware(experience.update(), admin()...))
	s.RegisterRouteHandler("DELETE "+RouteExperience, ChainMiddleware(experience.delete(), admin()...))

	// EDUCATION
	education := s.education()
	s.RegisterRouteHandler("GET "+RoutePublicEducation, ChainMiddleware(s.PublicEducationHandler(), api()...))
	s.RegisterRouteHandler("GET "+RouteAdminEducation, ChainMiddleware(s.AdminEducationHandler(), admin()...))
	s.RegisterRouteHandler("POST "+RouteAdminEducation, ChainMiddleware(education.create(), admin()...))
	s.RegisterRouteHandler("GET "+RouteAdminEducationID, ChainMiddleware(education.get(), admin()...))
	s.RegisterRouteHandler("PUT "+RouteAdminEducationID, ChainMiddleware(education.update(), admin()...))
	s.RegisterRouteHandler("DELETE "+RouteAdminEducationID, ChainMiddleware(education.delete(), admin()...))
	s.RegisterRouteHandler("PATCH "+RouteEducationReorder, ChainMiddleware(s.ReorderEducationHandler(), admin()...))

	// BLOGS
	blogs := s.blogs()
	s.RegisterRouteHandler("GET "+RouteBlogs, ChainMiddleware(s.PublishedBlogsHandler(), api()...))
	s.RegisterRouteHandler("GET "+RouteBlogsAdmin, ChainMiddleware(s.AdminBlogsHandler(), admin()...))
	s.RegisterRouteHandler("GET "+RouteBlogBySlug, ChainMiddleware(s.BlogBySlugHandler(), api()...))
	s.RegisterRouteHandler("POST "+RouteBlogs, ChainMiddleware(blogs.create(), admin()...))
	s.RegisterRouteHandler("PUT "+RouteBlog, ChainMiddleware(blogs.update(), admin()...))
	s.RegisterRouteHandler("DELETE "+RouteBlog, ChainMiddleware(blogs.delete(), admin()...))
	s.RegisterRouteHandler("POST "+RouteBlogThumbnail, ChainMiddleware(s.BlogThumbnailHandler(), admin()...))

	// CONTACT
	s.RegisterRouteHandler("POST "+RouteContact, ChainMiddleware(s.SendContactHandler(), api()...))
	s.RegisterRouteHandler("GET "+RouteContact, ChainMiddleware(s.ListMessagesHandler(), admin()...))
	s.RegisterRouteHandler("PUT "+RouteContactRead, ChainMiddleware(s.MarkMessageReadHandler(), admin()...))
	s.RegisterRouteHandler("DELETE "+RouteContactID, ChainMiddleware(s.DeleteMessageHandler(), admin()...))

	// CV
	s.RegisterRouteHandler("POST "+RouteResumeUpload, ChainMiddleware(s.UploadResumeHandler(), admin()...))
	s.RegisterRouteHandler("GET "+RouteResume, ChainMiddleware(s.ResumeMetadataHandler(), admin()...))
	s.RegisterRouteHandler("DELETE "+RouteResume, ChainMiddleware(s.DeleteResumeHandler(), admin()...))
	s.RegisterRouteHandler("GET "+RouteResumeDownload, ChainMiddleware(s.DownloadResumeHandler(), api()...))

	// DASHBOARD
	s.RegisterRouteHandler("GET "+RouteDashboardStats, ChainMiddleware(s.DashboardStatsHandler(), admin()...))

	s.RegisterRouteHandler("GET "+RouteUploadedImages, ChainMiddleware(s.UploadedImageHandler(), api()...))
	s.RegisterRouteHandler("OPTIONS "+APIPrefix+"/", ChainMiddleware(s.preflightHandler(), api()...))

	s.RegisterRouteFunc("GET "+RouteHealth, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}
