package department

import (
	"fmt"

	"github.com/horus-attendance/horus-backend-go/internal/pkg/validator"
)

const maxNameLength = 100

type CreateDepartmentRequest struct {
	Name string `json:"name"`
}

func (r *CreateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if err := validateName(r.Name); err != nil {
		errs = append(errs, *err)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateDepartmentRequest struct {
	ID   string `json:"-"`
	Name string `json:"name"`
}

func (r *UpdateDepartmentRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if err := validateName(r.Name); err != nil {
		errs = append(errs, *err)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateName(name string) *validator.ValidationError {
	if validator.IsEmpty(name) {
		return &validator.ValidationError{Field: "name", Message: "name is required"}
	}
	if len(name) > maxNameLength {
		return &validator.ValidationError{
			Field:   "name",
			Message: fmt.Sprintf("name must not exceed %d characters", maxNameLength),
		}
	}
	return nil
}
