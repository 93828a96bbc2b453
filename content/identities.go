package content

import "github.com/jrsteele09/go-portfolio-client/model"

var (
	ProjectIdentity = Identity[model.Project]{
		ID:    func(p model.Project) string { return p.ID },
		SetID: func(p *model.Project, id string) { p.ID = id },
	}
	SkillIdentity = Identity[model.Skill]{
		ID:    func(s model.Skill) string { return s.ID },
		SetID: func(s *model.Skill, id string) { s.ID = id },
	}
	ExperienceIdentity = Identity[model.Experience]{
		ID:    func(e model.Experience) string { return e.ID },
		SetID: func(e *model.Experience, id string) { e.ID = id },
	}
	EducationIdentity = Identity[model.Education]{
		ID:    func(e model.Education) string { return e.ID },
		SetID: func(e *model.Education, id string) { e.ID = id },
	}
	BlogIdentity = Identity[model.BlogPost]{
		ID:    func(b model.BlogPost) string { return b.ID },
		SetID: func(b *model.BlogPost, id string) { b.ID = id },
	}
	MessageIdentity = Identity[model.ContactMessage]{
		ID:    func(m model.ContactMessage) string { return m.ID },
		SetID: func(m *model.ContactMessage, id string) { m.ID = id },
	}
)

// Store groups every collection the portfolio serves.
type Store struct {
	Projects   Repo[model.Project]
	Skills     Repo[model.Skill]
	Experience Repo[model.Experience]
	Education  Repo[model.Education]
	Blogs      Repo[model.BlogPost]
	Messages   Repo[model.ContactMessage]
}

// NewInMemoryStore returns a Store with every collection held in memory.
func NewInMemoryStore() *Store {
	return &Store{
		Projects: NewInMemoryRepo(ProjectIdentity),
		Skills: NewInMemoryRepo(SkillIdentity, WithOrder(func(a, b model.Skill) bool {
			return a.DisplayOrder < b.DisplayOrder
		})),
		Experience: NewInMemoryRepo(ExperienceIdentity, WithOrder(func(a, b model.Experience) bool {
			return a.Order < b.Order
		})),
		Education: NewInMemoryRepo(EducationIdentity),
		Blogs: NewInMemoryRepo(BlogIdentity, WithOrder(func(a, b model.BlogPost) bool {
			return a.CreatedAt > b.CreatedAt
		})),
		Messages: NewInMemoryRepo(MessageIdentity, WithOrder(func(a, b model.ContactMessage) bool {
			return a.CreatedAt > b.CreatedAt
		})),
	}
}
