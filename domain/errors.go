package domain

import "errors"

var (
	ErrProjectNotFound      = errors.New("project not found")
	ErrExperimentNotFound   = errors.New("experiment not found")
	ErrUserNotFound         = errors.New("user not found")
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)
