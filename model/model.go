// Package model holds the portfolio API's wire types. The dev server and the
// typed client share them so both ends agree on field names.
package model

import "github.com/jrsteele09/go-portfolio-client/internal/utils"

// Dates travel as the backend formats them: "2006-01-02" for calendar dates
// and "2006-01-02T15:04:05" (no zone) for timestamps.

type ProjectType string

const (
	ProjectPersonal   ProjectType = "PERSONAL"
	ProjectClient     ProjectType = "CLIENT"
	ProjectOpenSource ProjectType = "OPEN_SOURCE"
)

type Project struct {
	ID            string      `json:"id,omitempty" yaml:"id"`
	Title         string      `json:"title" yaml:"title"`
	Description   string      `json:"description,omitempty" yaml:"description"`
	TechStack     []string    `json:"techStack,omitempty" yaml:"techStack"`
	GithubRepoURL string      `json:"githubRepoUrl,omitempty" yaml:"githubRepoUrl"`
	LiveDemoURL   string      `json:"liveDemoUrl,omitempty" yaml:"liveDemoUrl"`
	ProjectImage  string      `json:"projectImage,omitempty" yaml:"projectImage"`
	ProjectType   ProjectType `json:"projectType,omitempty" yaml:"projectType"`
	StartDate     string      `json:"startDate,omitempty" yaml:"startDate"`
	EndDate       string      `json:"endDate,omitempty" yaml:"endDate"`
	IsFeatured    bool        `json:"isFeatured" yaml:"isFeatured"`
}

type Skill struct {
	ID               string `json:"id,omitempty" yaml:"id"`
	SkillName        string `json:"skillName" yaml:"skillName"`
	Category         string `json:"category,omitempty" yaml:"category"`
	ProficiencyLevel int    `json:"proficiencyLevel,omitempty" yaml:"proficiencyLevel"` // 0-100
	ExperienceYears  int    `json:"experienceYears,omitempty" yaml:"experienceYears"`
	IconURL          string `json:"iconUrl,omitempty" yaml:"iconUrl"`
	DisplayOrder     int    `json:"displayOrder,omitempty" yaml:"displayOrder"`
}

type AvailabilityStatus string

const (
	AvailableForWork AvailabilityStatus = "AVAILABLE"
	OpenToOffers     AvailabilityStatus = "OPEN_TO_OFFERS"
	NotAvailable     AvailabilityStatus = "NOT_AVAILABLE"
)

// Profile is the portfolio owner's public profile. There is exactly one.
type Profile struct {
	ID                 string             `json:"id,omitempty" yaml:"id"`
	Headline           string             `json:"headline" yaml:"headline"`
	Bio                string             `json:"bio,omitempty" yaml:"bio"`
	YearsOfExperience  int                `json:"yearsOfExperience,omitempty" yaml:"yearsOfExperience"`
	ResumeURL          string             `json:"resumeUrl,omitempty" yaml:"resumeUrl"`
	GithubURL          string             `json:"githubUrl,omitempty" yaml:"githubUrl"`
	LinkedinURL        string             `json:"linkedinUrl,omitempty" yaml:"linkedinUrl"`
	PortfolioWebsite   string             `json:"portfolioWebsite,omitempty" yaml:"portfolioWebsite"`
	Location           string             `json:"location,omitempty" yaml:"location"`
	Phone              string             `json:"phone,omitempty" yaml:"phone"`
	Email              string             `json:"email,omitempty" yaml:"email"`
	ProfileImage       string             `json:"profileImage,omitempty" yaml:"profileImage"`
	AvailabilityStatus AvailabilityStatus `json:"availabilityStatus,omitempty" yaml:"availabilityStatus"`
}

type BlogPost struct {
	ID          string   `json:"id,omitempty" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Slug        string   `json:"slug" yaml:"slug"`
	Content     string   `json:"content,omitempty" yaml:"content"` // Markdown
	CoverImage  string   `json:"coverImage,omitempty" yaml:"coverImage"`
	Tags        []string `json:"tags,omitempty" yaml:"tags"`
	IsPublished bool     `json:"isPublished" yaml:"isPublished"`
	ViewCount   int64    `json:"viewCount,omitempty" yaml:"viewCount"`
	CreatedAt   string   `json:"createdAt,omitempty" yaml:"createdAt"`
	UpdatedAt   string   `json:"updatedAt,omitempty" yaml:"updatedAt"`
}

type Experience struct {
	ID          string `json:"id,omitempty" yaml:"id"`
	Company     string `json:"company" yaml:"company"`
	Position    string `json:"position" yaml:"position"`
	Description string `json:"description,omitempty" yaml:"description"`
	StartDate   string `json:"startDate,omitempty" yaml:"startDate"`
	EndDate     string `json:"endDate,omitempty" yaml:"endDate"`
	IsCurrent   bool   `json:"isCurrent" yaml:"isCurrent"`
	LogoURL     string `json:"logoUrl,omitempty" yaml:"logoUrl"`
	Order       int    `json:"order,omitempty" yaml:"order"`
}

type EducationStatus string

const (
	EducationCompleted  EducationStatus = "COMPLETED"
	EducationInProgress EducationStatus = "IN_PROGRESS"
)

type Education struct {
	ID             string          `json:"id,omitempty" yaml:"id"`
	Institution    string          `json:"institution" yaml:"institution"`
	Degree         string          `json:"degree" yaml:"degree"`
	Location       string          `json:"location,omitempty" yaml:"location"`
	StartDate      string          `json:"startDate,omitempty" yaml:"startDate"`
	EndDate        string          `json:"endDate,omitempty" yaml:"endDate"`
	Status         EducationStatus `json:"status,omitempty" yaml:"status"`
	Grade          string          `json:"grade,omitempty" yaml:"grade"`
	Description    string          `json:"description,omitempty" yaml:"description"`
	CertificateURL string          `json:"certificateUrl,omitempty" yaml:"certificateUrl"`
	OrderIndex     int             `json:"orderIndex" yaml:"orderIndex"`
	Visible        *bool           `json:"visible,omitempty" yaml:"visible"` // nil on create means visible
	CreatedAt      string          `json:"createdAt,omitempty" yaml:"createdAt"`
	UpdatedAt      string          `json:"updatedAt,omitempty" yaml:"updatedAt"`
}

// IsVisible reports whether the record is shown on the public site.
func (e Education) IsVisible() bool {
	return e.Visible == nil || utils.Value(e.Visible)
}

// ContactRequest is what a site visitor submits from the contact form.
type ContactRequest struct {
	SenderName  string `json:"senderName"`
	SenderEmail string `json:"senderEmail"`
	Subject     string `json:"subject,omitempty"`
	Message     string `json:"message"`
}

type ContactMessage struct {
	ID          string `json:"id"`
	SenderName  string `json:"senderName"`
	SenderEmail string `json:"senderEmail"`
	Subject     string `json:"subject,omitempty"`
	Message     string `json:"message"`
	IPAddress   string `json:"ipAddress,omitempty"`
	CreatedAt   string `json:"createdAt,omitempty"`
	IsRead      bool   `json:"isRead"`
}

// ResumeMetadata describes the active CV.
type ResumeMetadata struct {
	ID          string `json:"id,omitempty"`
	FileName    string `json:"fileName"`
	FileSize    int64  `json:"fileSize"`
	ContentType string `json:"contentType,omitempty"`
	UploadedAt  string `json:"uploadedAt,omitempty"`
	UploadedBy  string `json:"uploadedBy,omitempty"`
	IsActive    bool   `json:"isActive"`
}

// ResumeUpload is returned by a successful CV upload.
type ResumeUpload struct {
	FileName    string `json:"fileName"`
	URL         string `json:"url,omitempty"`
	DownloadURL string `json:"downloadUrl"`
}

// ImageUpload is returned by every admin image upload.
type ImageUpload struct {
	URL string `json:"url"`
}

type DashboardStats struct {
	Projects       int64 `json:"projects"`
	Blogs          int64 `json:"blogs"`
	Education      int64 `json:"education"`
	Views          int64 `json:"views"`
	Downloads      int64 `json:"downloads"`
	UnreadMessages int64 `json:"unreadMessages"`
}
