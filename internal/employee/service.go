package employee

import (
	"errors"
	"log/slog"
	"time"

	"github.com/attendance-management/internal"
	attendanceDatamodel "github.com/attendance-management/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/attendance-management/internal/core/datamodel/employee"
	"github.com/google/uuid"
)

// RepositoryAPI defines the data access methods for the employee
// directory. The attendance counts are read-side lookups against the
// ledger table, so they live here rather than on the ledger repository.
type RepositoryAPI interface {
	GetAll() ([]*employeeDatamodel.Employee, error)
	GetByID(id string) (*employeeDatamodel.Employee, error)
	GetByEmployeeID(code string) (*employeeDatamodel.Employee, error)
	GetByEmail(email string) (*employeeDatamodel.Employee, error)
	Create(emp *employeeDatamodel.Employee) error
	Delete(id string) error
	CountAll() (int64, error)
	CountAttendanceByStatus(employeeID, status string) (int64, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// GetAllEmployees returns every employee, newest first, each augmented
// with present/absent day counts.
func (s *Service) GetAllEmployees() ([]*Employee, error) {
	rows, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}

	employees := make([]*Employee, 0, len(rows))
	for _, row := range rows {
		emp, err := s.withStats(row)
		if err != nil {
			return nil, err
		}
		employees = append(employees, emp)
	}

	return employees, nil
}

// CreateEmployee normalizes the code and email, rejects duplicates and
// persists the new employee. The uniqueness pre-checks and the
// constraint-violation fallback report the same conflict outcome.
func (s *Service) CreateEmployee(dto CreateEmployeeDTO) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("employee validation failed", "error", err)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	code := NormalizeCode(dto.EmployeeID)
	email := NormalizeEmail(dto.Email)

	if _, err := s.repo.GetByEmployeeID(code); err == nil {
		s.logger.Warn("duplicate employee code", "employee_code", code)
		return nil, internal.ErrEmployeeIDExists
	} else if !errors.Is(err, ErrNotFound) {
		s.logger.Error("employee code lookup failed", "error", err, "employee_code", code)
		return nil, internal.NewInternalError("failed to check employee code", err)
	}

	if _, err := s.repo.GetByEmail(email); err == nil {
		s.logger.Warn("duplicate employee email", "email", email)
		return nil, internal.ErrEmailExists
	} else if !errors.Is(err, ErrNotFound) {
		s.logger.Error("employee email lookup failed", "error", err, "email", email)
		return nil, internal.NewInternalError("failed to check employee email", err)
	}

	now := time.Now()
	row := &employeeDatamodel.Employee{
		ID:         uuid.NewString(),
		EmployeeID: code,
		FullName:   dto.FullName,
		Email:      email,
		Department: dto.Department,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(row); err != nil {
		// Pre-check raced with a concurrent create; the constraint is
		// the source of truth, the outcome is the same conflict.
		if errors.Is(err, ErrDuplicate) {
			s.logger.Warn("employee create hit unique constraint", "employee_code", code)
			return nil, internal.ErrEmployeeIDExists
		}
		s.logger.Error("failed to create employee", "error", err, "employee_code", code)
		return nil, internal.NewInternalError("failed to create employee", err)
	}

	s.logger.Info("employee created",
		"id", row.ID,
		"employee_code", row.EmployeeID,
		"department", row.Department)

	return FromDataModel(row), nil
}

// GetEmployee returns one employee with counts, or a not-found error.
func (s *Service) GetEmployee(id string) (*Employee, error) {
	row, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("failed to get employee", "error", err, "id", id)
		return nil, internal.NewInternalError("failed to get employee", err)
	}

	return s.withStats(row)
}

// DeleteEmployee removes an employee; the store cascade removes all of
// its attendance records.
func (s *Service) DeleteEmployee(id string) error {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return internal.ErrEmployeeNotFound
		}
		s.logger.Error("failed to get employee for delete", "error", err, "id", id)
		return internal.NewInternalError("failed to get employee", err)
	}

	if err := s.repo.Delete(id); err != nil {
		s.logger.Error("failed to delete employee", "error", err, "id", id)
		return internal.NewInternalError("failed to delete employee", err)
	}

	s.logger.Info("employee deleted", "id", id)
	return nil
}

func (s *Service) withStats(row *employeeDatamodel.Employee) (*Employee, error) {
	present, err := s.repo.CountAttendanceByStatus(row.ID, attendanceDatamodel.StatusPresent)
	if err != nil {
		s.logger.Error("failed to count present days", "error", err, "id", row.ID)
		return nil, internal.NewInternalError("failed to count attendance", err)
	}

	absent, err := s.repo.CountAttendanceByStatus(row.ID, attendanceDatamodel.StatusAbsent)
	if err != nil {
		s.logger.Error("failed to count absent days", "error", err, "id", row.ID)
		return nil, internal.NewInternalError("failed to count attendance", err)
	}

	emp := FromDataModel(row)
	emp.PresentDays = present
	emp.AbsentDays = absent
	return emp, nil
}
