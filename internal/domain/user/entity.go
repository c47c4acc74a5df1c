package user

import "time"

type Status string

const (
	StatusActive   Status = "active"
	StatusInactive Status = "inactive"
)

// Role is the API access level carried in a bearer token.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleViewer Role = "viewer"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

func (r Role) IsValid() bool {
	return r == RoleAdmin || r == RoleViewer
}

// User is an employee enrolled on one or more time-clock devices.
type User struct {
	ID           string    `json:"id"`
	DeviceUserID *string   `json:"device_user_id"`
	DeviceName   *string   `json:"device_name,omitempty"`
	DisplayName  string    `json:"display_name"`
	DepartmentID *string   `json:"department_id"`
	EmployeeCode *string   `json:"employee_code"`
	Email        *string   `json:"email"`
	Phone        *string   `json:"phone"`
	Address      *string   `json:"address"`
	Notes        *string   `json:"notes"`
	Status       Status    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`

	// DTO / Join
	DepartmentName *string `json:"department_name,omitempty"`
}

// IsActive checks if user is still tracked for attendance
func (u *User) IsActive() bool {
	return u.Status == StatusActive
}
