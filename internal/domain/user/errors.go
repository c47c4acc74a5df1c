package user

import "errors"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrAdminPrivilegeRequired = errors.New("admin privilege required")
	ErrDeviceUserIDExists     = errors.New("device user id is already assigned to another user")
	ErrUserAlreadyActive      = errors.New("user is already active")
	ErrUserAlreadyInactive    = errors.New("user is already inactive")
)
