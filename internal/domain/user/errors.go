package user

import (
	apperrors "github.com/xiebiao/storefront/pkg/errors"
)

var (
	ErrUserNotFound   = apperrors.New(apperrors.ErrCodeUserNotFound, "User not found")
	ErrEmailDuplicate = apperrors.New(apperrors.ErrCodeEmailDuplicate, "Email already registered")
	ErrInvalidEmail   = apperrors.New(apperrors.ErrCodeInvalidParams, "Invalid email address")
	ErrWeakPassword   = apperrors.New(apperrors.ErrCodeWeakPassword, "Password must be at least 6 characters")
	ErrNameRequired   = apperrors.New(apperrors.ErrCodeInvalidParams, "Name is required")

	// ErrInvalidCredentials 登录失败，不区分是邮箱还是密码错误
	ErrInvalidCredentials = apperrors.ErrInvalidCredentials
)
