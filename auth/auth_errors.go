package auth

import "errors"

var (
	UserBlockedErr      = errors.New("user blocked")
	UserNotAdminErr     = errors.New("user is not an admin")
	InvalidLoginErr     = errors.New("invalid email or password")
	RegistrationOffErr  = errors.New("registration disabled")
	InvalidEmailErr     = errors.New("invalid email address")
	MissingPasswordErr  = errors.New("password is required")
	MissingNameFieldErr = errors.New("first and last name are required")
)
