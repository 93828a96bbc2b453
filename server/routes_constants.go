package server

const (
	APIPrefix = "/api"

	// Auth
	RouteAuthLogin    = APIPrefix + "/auth/login"
	RouteAuthRegister = APIPrefix + "/auth/register"
	RouteAuthRefresh  = APIPrefix + "/auth/refresh"
	RouteAuthLogout   = APIPrefix + "/auth/logout"
	RouteAuthMe       = APIPrefix + "/auth/me"

	// Content, public reads and admin writes
	RouteProfile     = APIPrefix + "/profile"
	RouteProjects    = APIPrefix + "/projects"
	RouteProject     = APIPrefix + "/projects/{id}"
	RouteSkills      = APIPrefix + "/skills"
	RouteSkill       = APIPrefix + "/skills/{id}"
	RouteExperiences = APIPrefix + "/experience"
	RouteExperience  = APIPrefix + "/experience/{id}"
	RouteBlogs       = APIPrefix + "/blogs"
	RouteBlogsAdmin  = APIPrefix + "/blogs/admin"
	RouteBlogBySlug  = APIPrefix + "/blogs/{slug}"
	RouteBlog        = APIPrefix + "/blogs/{id}"

	// Education
	RoutePublicEducation  = APIPrefix + "/public/education"
	RouteAdminEducation   = APIPrefix + "/admin/education"
	RouteAdminEducationID = APIPrefix + "/admin/education/{id}"
	RouteEducationReorder = APIPrefix + "/admin/education/reorder"

	// Contact
	RouteContact     = APIPrefix + "/contact"
	RouteContactID   = APIPrefix + "/contact/{id}"
	RouteContactRead = APIPrefix + "/contact/{id}/read"

	// Resume
	RouteResumeUpload   = APIPrefix + "/admin/cv/upload"
	RouteResume         = APIPrefix + "/admin/cv"
	RouteResumeDownload = APIPrefix + "/public/cv/download"

	// Images
	RouteProfileImage   = APIPrefix + "/admin/profile/image"
	RouteProjectImage   = APIPrefix + "/admin/projects/{id}/image"
	RouteBlogThumbnail  = APIPrefix + "/admin/blogs/{id}/thumbnail"
	RouteSkillIcon      = APIPrefix + "/admin/skills/{id}/icon"
	RouteUploadedImages = "/uploads/{name}"

	// Admin
	RouteDashboardStats = APIPrefix + "/admin/dashboard/stats"

	// Operations
	RouteHealth  = "/healthz"
	RouteMetrics = "/metrics"
)
