package employee

import (
	"errors"
	"strings"
	"time"

	employeeDatamodel "github.com/attendance-management/internal/core/datamodel/employee"
)

// Employee is the directory's domain entity, augmented with attendance
// counts on the read side.
type Employee struct {
	ID          string    `json:"id"`
	EmployeeID  string    `json:"employee_id"`
	FullName    string    `json:"full_name"`
	Email       string    `json:"email"`
	Department  string    `json:"department"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	PresentDays int64     `json:"present_days"`
	AbsentDays  int64     `json:"absent_days"`
}

// Repository sentinel errors, translated to AppErrors by the service.
var (
	ErrNotFound  = errors.New("employee not found")
	ErrDuplicate = errors.New("employee already exists")
)

// NormalizeCode upper-cases an employee code. Lookups by code must
// apply the same normalization as writes, otherwise the create
// pre-checks stop matching the unique constraint.
func NormalizeCode(code string) string {
	return strings.ToUpper(code)
}

// NormalizeEmail lower-cases an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(email)
}

// CreateEmployeeDTO is the request payload for creating an employee.
type CreateEmployeeDTO struct {
	EmployeeID string `json:"employee_id"`
	FullName   string `json:"full_name"`
	Email      string `json:"email"`
	Department string `json:"department"`
}

func (dto CreateEmployeeDTO) Validate() error {
	if dto.EmployeeID == "" {
		return errors.New("employee_id is required")
	}
	if len(dto.EmployeeID) > 50 {
		return errors.New("employee_id must be at most 50 characters")
	}
	if dto.FullName == "" {
		return errors.New("full_name is required")
	}
	if len(dto.FullName) > 100 {
		return errors.New("full_name must be at most 100 characters")
	}
	if dto.Email == "" {
		return errors.New("email is required")
	}
	if len(dto.Email) > 100 {
		return errors.New("email must be at most 100 characters")
	}
	if dto.Department == "" {
		return errors.New("department is required")
	}
	if len(dto.Department) > 100 {
		return errors.New("department must be at most 100 characters")
	}
	return nil
}

// ListResponse wraps the employee listing payload.
type ListResponse struct {
	Employees []*Employee `json:"employees"`
	Total     int         `json:"total"`
}

// MessageResponse confirms a mutation with no resource body.
type MessageResponse struct {
	Message string `json:"message"`
	Success bool   `json:"success"`
}

func FromDataModel(e *employeeDatamodel.Employee) *Employee {
	return &Employee{
		ID:         e.ID,
		EmployeeID: e.EmployeeID,
		FullName:   e.FullName,
		Email:      e.Email,
		Department: e.Department,
		CreatedAt:  e.CreatedAt,
		UpdatedAt:  e.UpdatedAt,
	}
}
