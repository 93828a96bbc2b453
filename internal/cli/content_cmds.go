package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jrsteele09/go-portfolio-client/internal/output"
	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/jrsteele09/go-portfolio-client/portfolio"
	"github.com/spf13/cobra"
)

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile",
		Short: "Show the public profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			p, err := a.client.Profile(ctx)
			if err != nil {
				return err
			}
			a.printer.Header(p.Headline)
			a.printer.Field("Location", p.Location)
			a.printer.Field("Email", p.Email)
			a.printer.Field("Experience", fmt.Sprintf("%d years", p.YearsOfExperience))
			a.printer.Field("Availability", string(p.AvailabilityStatus))
			a.printer.Field("GitHub", p.GithubURL)
			a.printer.Field("LinkedIn", p.LinkedinURL)
			a.printer.Field("CV", p.ResumeURL)
			if p.Bio != "" {
				a.printer.Print("\n%s", p.Bio)
			}
			return nil
		},
	}
}

func newProjectsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "projects", Short: "Browse and manage projects"}

	var (
		featured bool
		kind     string
	)
	list := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			filter := portfolio.ProjectFilter{Featured: featured, Type: model.ProjectType(strings.ToUpper(kind))}
			projects, err := a.client.Projects(ctx, filter)
			if err != nil {
				return err
			}
			t := output.NewTable(a.out, "ID", "Title", "Type", "Featured", "Stack")
			for _, p := range projects {
				t.AddRow(p.ID, output.Truncate(p.Title, 40), string(p.ProjectType),
					a.printer.Badge(p.IsFeatured, "yes", "no"), output.Truncate(strings.Join(p.TechStack, ", "), 40))
			}
			return renderTable(a, t, "No projects found")
		},
	}
	list.Flags().BoolVar(&featured, "featured", false, "only featured projects")
	list.Flags().StringVar(&kind, "type", "", "project type: personal, client or open_source")

	get := &cobra.Command{
		Use:   "get <id>",
		Short: "Show a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			p, err := a.client.Project(ctx, args[0])
			if err != nil {
				return notFound(err, "project", args[0])
			}
			a.printer.Header(p.Title)
			a.printer.Field("Type", string(p.ProjectType))
			a.printer.Field("Featured", a.printer.Badge(p.IsFeatured, "yes", "no"))
			a.printer.Field("Stack", strings.Join(p.TechStack, ", "))
			a.printer.Field("Repository", p.GithubRepoURL)
			a.printer.Field("Demo", p.LiveDemoURL)
			a.printer.Field("Dates", dateRange(p.StartDate, p.EndDate))
			if p.Description != "" {
				a.printer.Print("\n%s", p.Description)
			}
			return nil
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.requireLogin(); err != nil {
				return err
			}
			ctx, cancel := a.context(cmd)
			defer cancel()
			if err := a.client.DeleteProject(ctx, args[0]); err != nil {
				return notFound(err, "project", args[0])
			}
			a.printer.Success("Deleted project %s", args[0])
			return nil
		},
	}

	cmd.AddCommand(list, get, del)
	return cmd
}

func newSkillsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "skills", Short: "Browse skills"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			skills, err := a.client.Skills(ctx)
			if err != nil {
				return err
			}
			t := output.NewTable(a.out, "ID", "Skill", "Category", "Level", "Years")
			for _, s := range skills {
				t.AddRow(s.ID, s.SkillName, s.Category, fmt.Sprintf("%d%%", s.ProficiencyLevel), strconv.Itoa(s.ExperienceYears))
			}
			return renderTable(a, t, "No skills found")
		},
	})
	return cmd
}

func newExperienceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "experience", Short: "Browse work experience"}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List work experience",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			entries, err := a.client.Experience(ctx)
			if err != nil {
				return err
			}
			t := output.NewTable(a.out, "ID", "Company", "Position", "Dates")
			for _, e := range entries {
				end := e.EndDate
				if e.IsCurrent {
					end = "present"
				}
				t.AddRow(e.ID, e.Company, e.Position, dateRange(e.StartDate, end))
			}
			return renderTable(a, t, "No experience found")
		},
	})
	return cmd
}

func newEducationCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{Use: "education", Short: "Browse education"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List education records",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			var (
				records []model.Education
				err     error
			)
			if all {
				if err := a.requireLogin(); err != nil {
					return err
				}
				records, err = a.client.AdminEducation(ctx)
			} else {
				records, err = a.client.PublicEducation(ctx)
			}
			if err != nil {
				return err
			}
			t := output.NewTable(a.out, "#", "ID", "Institution", "Degree", "Status", "Visible")
			for _, e := range records {
				t.AddRow(strconv.Itoa(e.OrderIndex), e.ID, e.Institution, e.Degree, string(e.Status),
					a.printer.Badge(e.IsVisible(), "yes", "no"))
			}
			return renderTable(a, t, "No education found")
		},
	}
	list.Flags().BoolVar(&all, "all", false, "include hidden records (admin)")
	cmd.AddCommand(list)
	return cmd
}

func newBlogsCmd(a *app) *cobra.Command {
	var (
		page   int
		size   int
		drafts bool
	)
	cmd := &cobra.Command{Use: "blogs", Short: "Browse blog posts"}
	list := &cobra.Command{
		Use:   "list",
		Short: "List blog posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := a.context(cmd)
			defer cancel()
			req := model.PageRequest{Page: page, Size: size, Sort: "createdAt,desc"}
			var (
				posts *model.Page[model.BlogPost]
				err   error
			)
			if drafts {
				if err := a.requireLogin(); err != nil {
					return err
				}
				posts, err = a.client.AdminBlogs(ctx, req)
			} else {
				posts, err = a.client.Blogs(ctx, req)
			}
			if err != nil {
				return err
			}
			t := output.NewTable(a.out, "Slug", "Title", "Published", "Views", "Created")
			for _, b := range posts.Content {
				t.AddRow(b.Slug, output.Truncate(b.Title, 40), a.printer.Badge(b.IsPublished, "yes", "draft"),
					strconv.FormatInt(b.ViewCount, 10), b.CreatedAt)
			}
			if err := renderTable(a, t, "No posts found"); err != nil {
				return err
			}
			if posts.TotalPages > 1 {
				a.printer.Info("Page %d of %d (%d posts)", posts.Number+1, posts.TotalPages, posts.TotalElements)
			}
			return nil
		},
	}
	list.Flags().IntVar(&page, "page", 0, "zero based page number")
	list.Flags().IntVar(&size, "size", 10, "posts per page")
	list.Flags().BoolVar(&drafts, "drafts", false, "include unpublished posts (admin)")
	cmd.AddCommand(list)
	return cmd
}

func renderTable(a *app, t *output.Table, empty string) error {
	if t.Len() == 0 {
		a.printer.Info("%s", empty)
		return nil
	}
	return t.Render()
}

func dateRange(start, end string) string {
	switch {
	case start == "" && end == "":
		return ""
	case end == "":
		return start
	}
	return start + " - " + end
}

func notFound(err error, kind, id string) error {
	if portfolio.IsNotFound(err) {
		return fmt.Errorf("%s %q not found", kind, id)
	}
	return err
}
