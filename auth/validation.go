package auth

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/jrsteele09/go-portfolio-client/model"
	"github.com/jrsteele09/go-portfolio-client/users"
)

// Validator checks auth request bodies before they reach the service.
type Validator struct{}

// NewValidator creates a new Validator instance
func NewValidator() *Validator {
	return &Validator{}
}

// ValidateEmail accepts a bare address such as "admin@example.com".
func (v *Validator) ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return fmt.Errorf("%w: %q", InvalidEmailErr, email)
	}
	return nil
}

func (v *Validator) ValidateLogin(req model.LoginRequest) error {
	if err := v.ValidateEmail(req.Email); err != nil {
		return err
	}
	if req.Password == "" {
		return MissingPasswordErr
	}
	return nil
}

func (v *Validator) ValidateRegister(req model.RegisterRequest) error {
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return MissingNameFieldErr
	}
	if err := v.ValidateEmail(req.Email); err != nil {
		return err
	}
	return users.ValidatePasswordStrength(req.Password)
}
