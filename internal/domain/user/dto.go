package user

import (
	"fmt"
	"strings"

	"github.com/horus-attendance/horus-backend-go/internal/pkg/validator"
)

const (
	maxDisplayNameLength = 100
	maxShortFieldLength  = 64
	maxAddressLength     = 255
	maxNotesLength       = 2000
)

// DirectoryFilter selects users of any status for the admin directory.
type DirectoryFilter struct {
	Status       *Status
	DepartmentID *string
	Search       string
}

func (f *DirectoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Status != nil && !f.Status.IsValid() {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be active or inactive",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CreateUserRequest struct {
	DisplayName  string  `json:"display_name"`
	DeviceUserID *string `json:"device_user_id,omitempty"`
	DeviceName   *string `json:"device_name,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *CreateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	// DisplayName
	if validator.IsEmpty(r.DisplayName) {
		errs = append(errs, validator.ValidationError{
			Field:   "display_name",
			Message: "display_name is required",
		})
	} else if len(r.DisplayName) > maxDisplayNameLength {
		errs = append(errs, validator.ValidationError{
			Field:   "display_name",
			Message: fmt.Sprintf("display_name must not exceed %d characters", maxDisplayNameLength),
		})
	}

	errs = append(errs, validateProfile(profileFields{
		deviceUserID: r.DeviceUserID,
		deviceName:   r.DeviceName,
		employeeCode: r.EmployeeCode,
		email:        r.Email,
		phone:        r.Phone,
		address:      r.Address,
		notes:        r.Notes,
	})...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToUser builds an active user. Blank optional fields are stored as NULL.
func (r *CreateUserRequest) ToUser() User {
	return User{
		DisplayName:  strings.TrimSpace(r.DisplayName),
		DeviceUserID: NullableText(r.DeviceUserID),
		DeviceName:   NullableText(r.DeviceName),
		DepartmentID: NullableText(r.DepartmentID),
		EmployeeCode: NullableText(r.EmployeeCode),
		Email:        NullableText(r.Email),
		Phone:        NullableText(r.Phone),
		Address:      NullableText(r.Address),
		Notes:        NullableText(r.Notes),
		Status:       StatusActive,
	}
}

// UpdateUserRequest changes only the fields that are present. An empty string
// clears an optional field.
type UpdateUserRequest struct {
	ID           string  `json:"-"`
	DisplayName  *string `json:"display_name,omitempty"`
	DeviceUserID *string `json:"device_user_id,omitempty"`
	DeviceName   *string `json:"device_name,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Email        *string `json:"email,omitempty"`
	Phone        *string `json:"phone,omitempty"`
	Address      *string `json:"address,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *UpdateUserRequest) Validate() error {
	var errs validator.ValidationErrors

	// ID
	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	// DisplayName
	if r.DisplayName != nil {
		if validator.IsEmpty(*r.DisplayName) {
			errs = append(errs, validator.ValidationError{
				Field:   "display_name",
				Message: "display_name must not be empty",
			})
		} else if len(*r.DisplayName) > maxDisplayNameLength {
			errs = append(errs, validator.ValidationError{
				Field:   "display_name",
				Message: fmt.Sprintf("display_name must not exceed %d characters", maxDisplayNameLength),
			})
		}
	}

	errs = append(errs, validateProfile(profileFields{
		deviceUserID: r.DeviceUserID,
		deviceName:   r.DeviceName,
		employeeCode: r.EmployeeCode,
		email:        r.Email,
		phone:        r.Phone,
		address:      r.Address,
		notes:        r.Notes,
	})...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// IsEmpty reports whether the request changes nothing.
func (r *UpdateUserRequest) IsEmpty() bool {
	return r.DisplayName == nil && r.DeviceUserID == nil && r.DeviceName == nil &&
		r.DepartmentID == nil && r.EmployeeCode == nil && r.Email == nil &&
		r.Phone == nil && r.Address == nil && r.Notes == nil
}

type profileFields struct {
	deviceUserID, deviceName, employeeCode *string
	email, phone, address, notes           *string
}

// validateProfile checks the optional fields shared by create and update.
// Blank values always pass since they clear the field.
func validateProfile(p profileFields) validator.ValidationErrors {
	var errs validator.ValidationErrors

	short := []struct {
		field string
		value *string
	}{
		{"device_user_id", p.deviceUserID},
		{"device_name", p.deviceName},
		{"employee_code", p.employeeCode},
	}
	for _, f := range short {
		if v := NullableText(f.value); v != nil && len(*v) > maxShortFieldLength {
			errs = append(errs, validator.ValidationError{
				Field:   f.field,
				Message: fmt.Sprintf("%s must not exceed %d characters", f.field, maxShortFieldLength),
			})
		}
	}

	if v := NullableText(p.email); v != nil && !validator.IsValidEmail(*v) {
		errs = append(errs, validator.ValidationError{
			Field:   "email",
			Message: "email must be a valid email address",
		})
	}
	if v := NullableText(p.phone); v != nil && !validator.IsValidPhoneNumber(*v) {
		errs = append(errs, validator.ValidationError{
			Field:   "phone",
			Message: "phone must contain 7 to 15 digits",
		})
	}
	if v := NullableText(p.address); v != nil && len(*v) > maxAddressLength {
		errs = append(errs, validator.ValidationError{
			Field:   "address",
			Message: fmt.Sprintf("address must not exceed %d characters", maxAddressLength),
		})
	}
	if v := NullableText(p.notes); v != nil && len(*v) > maxNotesLength {
		errs = append(errs, validator.ValidationError{
			Field:   "notes",
			Message: fmt.Sprintf("notes must not exceed %d characters", maxNotesLength),
		})
	}

	return errs
}

// NullableText trims s and maps nil or blank to nil.
func NullableText(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
