package server

import "github.com/pkg/errors"

// bootstrap creates the admin account and loads the seed content.
func (s *Server) bootstrap() error {
	email := s.config.GetAdminEmail()
	generated, err := s.auth.EnsureAdmin(email, s.config.GetAdminPassword())
	if err != nil {
		return errors.Wrap(err, "[Server.bootstrap] failed to ensure admin")
	}
	if generated != "" {
		s.log.Warn().
			Str("email", email).
			Str("password", generated).
			Msg("created admin account with a generated password; set ADMIN_PASSWORD to choose one")
	} else {
		s.log.Info().Str("email", email).Msg("admin account ready")
	}

	seed, err := LoadSeed(s.config.GetSeedFile())
	if err != nil {
		return err
	}
	if err := s.applySeed(seed); err != nil {
		return errors.Wrap(err, "[Server.bootstrap] failed to apply seed")
	}
	s.log.Info().
		Int("projects", s.content.Projects.Count()).
		Int("skills", s.content.Skills.Count()).
		Int("blogs", s.content.Blogs.Count()).
		Msg("seed content loaded")
	return nil
}
