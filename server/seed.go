package server

import (
	_ "embed"
	"os"

	"github.com/jrsteele09/go-portfolio-client/content"
	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed seeddata/default.yaml
var defaultSeed []byte

// Seed is the initial content loaded at startup.
type Seed struct {
	Profile    *model.Profile     `yaml:"profile"`
	Projects   []model.Project    `yaml:"projects"`
	Skills     []model.Skill      `yaml:"skills"`
	Experience []model.Experience `yaml:"experience"`
	Education  []model.Education  `yaml:"education"`
	Blogs      []model.BlogPost   `yaml:"blogs"`
}

// ParseSeed decodes a YAML seed document.
func ParseSeed(data []byte) (*Seed, error) {
	var seed Seed
	if err := yaml.Unmarshal(data, &seed); err != nil {
		return nil, errors.Wrap(err, "[ParseSeed] invalid seed document")
	}
	return &seed, nil
}

// LoadSeed reads the seed at path, or the built-in sample content when path is empty.
func LoadSeed(path string) (*Seed, error) {
	if path == "" {
		return ParseSeed(defaultSeed)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[LoadSeed] failed to read %s", path)
	}
	return ParseSeed(data)
}

func (s *Server) applySeed(seed *Seed) error {
	if seed.Profile != nil {
		s.profile.set(*seed.Profile)
	}
	if err := seedRepo(s.content.Projects, seed.Projects); err != nil {
		return errors.Wrap(err, "projects")
	}
	if err := seedRepo(s.content.Skills, seed.Skills); err != nil {
		return errors.Wrap(err, "skills")
	}
	if err := seedRepo(s.content.Experience, seed.Experience); err != nil {
		return errors.Wrap(err, "experience")
	}
	for i := range seed.Education {
		if seed.Education[i].OrderIndex == 0 {
			seed.Education[i].OrderIndex = i
		}
	}
	if err := seedRepo(s.content.Education, seed.Education); err != nil {
		return errors.Wrap(err, "education")
	}
	now := timestamp()
	for i := range seed.Blogs {
		if seed.Blogs[i].Slug == "" {
			seed.Blogs[i].Slug = slugify(seed.Blogs[i].Title)
		}
		if seed.Blogs[i].CreatedAt == "" {
			seed.Blogs[i].CreatedAt = now
		}
	}
	return errors.Wrap(seedRepo(s.content.Blogs, seed.Blogs), "blogs")
}

func seedRepo[T any](repo content.Repo[T], items []T) error {
	for _, item := range items {
		if _, err := repo.Create(item); err != nil {
			return err
		}
	}
	return nil
}
