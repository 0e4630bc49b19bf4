package attendance

import (
	"errors"
	"log/slog"
	"math"
	"time"

	"github.com/attendance-management/internal"
	attendanceDatamodel "github.com/attendance-management/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/attendance-management/internal/core/datamodel/employee"
	"github.com/attendance-management/internal/employee"
	"github.com/google/uuid"
)

// RepositoryAPI defines the data access methods for the ledger.
type RepositoryAPI interface {
	GetAll(startDate, endDate *time.Time) ([]*attendanceDatamodel.RecordWithEmployee, error)
	GetByEmployee(employeeID string, startDate, endDate *time.Time) ([]*attendanceDatamodel.RecordWithEmployee, error)
	GetByEmployeeAndDate(employeeID string, date time.Time) (*attendanceDatamodel.Attendance, error)
	Upsert(rec *attendanceDatamodel.Attendance) error
	CountByEmployee(employeeID string) (int64, error)
	CountByEmployeeAndStatus(employeeID, status string) (int64, error)
	CountByDateAndStatus(date time.Time, status string) (int64, error)
}

// EmployeeDirectory is the slice of the employee repository the ledger
// needs: existence checks and the employee total for the dashboard.
type EmployeeDirectory interface {
	GetByID(id string) (*employeeDatamodel.Employee, error)
	CountAll() (int64, error)
}

type Service struct {
	repo      RepositoryAPI
	directory EmployeeDirectory
	logger    *slog.Logger
}

func NewService(repo RepositoryAPI, directory EmployeeDirectory, logger *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		directory: directory,
		logger:    logger,
	}
}

// GetAllAttendance lists ledger records across all employees, newest
// date first. Bounds are inclusive and independently optional.
func (s *Service) GetAllAttendance(startDate, endDate *time.Time) ([]*Record, error) {
	rows, err := s.repo.GetAll(startDate, endDate)
	if err != nil {
		s.logger.Error("failed to list attendance", "error", err)
		return nil, internal.NewInternalError("failed to list attendance", err)
	}
	return FromDataModelSlice(rows), nil
}

// GetEmployeeAttendance lists one employee's records. A non-existent
// employee is a not-found error, never a silent empty list.
func (s *Service) GetEmployeeAttendance(employeeID string, startDate, endDate *time.Time) ([]*Record, error) {
	if _, err := s.directory.GetByID(employeeID); err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("employee lookup failed", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to get employee", err)
	}

	rows, err := s.repo.GetByEmployee(employeeID, startDate, endDate)
	if err != nil {
		s.logger.Error("failed to list employee attendance", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to list attendance", err)
	}
	return FromDataModelSlice(rows), nil
}

// MarkAttendance upserts the status for (employee, date): an existing
// record is overwritten and its update timestamp refreshed, otherwise a
// new record is inserted. The store-level conditional upsert makes the
// write atomic; a unique violation that still escapes maps to Conflict.
func (s *Service) MarkAttendance(dto MarkAttendanceDTO) (*Record, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("mark attendance validation failed", "error", err)
		return nil, internal.NewValidationError(err.Error(), internal.ErrCodeValidationFailed)
	}

	emp, err := s.directory.GetByID(dto.EmployeeID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("employee lookup failed", "error", err, "employee_id", dto.EmployeeID)
		return nil, internal.NewInternalError("failed to get employee", err)
	}

	date, _ := ParseDate(dto.Date)
	now := time.Now()
	row := &attendanceDatamodel.Attendance{
		ID:         uuid.NewString(),
		EmployeeID: emp.ID,
		Date:       date,
		Status:     dto.Status,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Upsert(row); err != nil {
		if errors.Is(err, ErrDuplicateRecord) {
			s.logger.Warn("attendance upsert hit unique constraint",
				"employee_id", emp.ID, "date", dto.Date)
			return nil, internal.ErrAttendanceConflict
		}
		s.logger.Error("failed to mark attendance", "error", err, "employee_id", emp.ID, "date", dto.Date)
		return nil, internal.NewInternalError("failed to mark attendance", err)
	}

	// Re-read by the composite key: on the update path the surviving
	// row keeps its original id and created_at.
	stored, err := s.repo.GetByEmployeeAndDate(emp.ID, date)
	if err != nil {
		s.logger.Error("failed to read back attendance", "error", err, "employee_id", emp.ID, "date", dto.Date)
		return nil, internal.NewInternalError("failed to read attendance", err)
	}

	s.logger.Info("attendance marked",
		"employee_id", emp.ID,
		"employee_code", emp.EmployeeID,
		"date", dto.Date,
		"status", dto.Status)

	return &Record{
		ID:           stored.ID,
		EmployeeID:   stored.EmployeeID,
		EmployeeName: &emp.FullName,
		EmployeeCode: &emp.EmployeeID,
		Date:         stored.Date.Format(DateLayout),
		Status:       stored.Status,
		CreatedAt:    stored.CreatedAt,
		UpdatedAt:    stored.UpdatedAt,
	}, nil
}

// GetStats aggregates one employee's ledger. The percentage is 0.0 for
// an empty ledger by policy, not an error.
func (s *Service) GetStats(employeeID string) (*Stats, error) {
	emp, err := s.directory.GetByID(employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("employee lookup failed", "error", err, "employee_id", employeeID)
		return nil, internal.NewInternalError("failed to get employee", err)
	}

	total, err := s.repo.CountByEmployee(emp.ID)
	if err != nil {
		s.logger.Error("failed to count attendance", "error", err, "employee_id", emp.ID)
		return nil, internal.NewInternalError("failed to count attendance", err)
	}

	present, err := s.repo.CountByEmployeeAndStatus(emp.ID, StatusPresent)
	if err != nil {
		s.logger.Error("failed to count present days", "error", err, "employee_id", emp.ID)
		return nil, internal.NewInternalError("failed to count attendance", err)
	}

	absent, err := s.repo.CountByEmployeeAndStatus(emp.ID, StatusAbsent)
	if err != nil {
		s.logger.Error("failed to count absent days", "error", err, "employee_id", emp.ID)
		return nil, internal.NewInternalError("failed to count attendance", err)
	}

	var percentage float64
	if total > 0 {
		percentage = roundPercent(float64(present) / float64(total) * 100)
	}

	return &Stats{
		EmployeeID:           emp.ID,
		EmployeeName:         emp.FullName,
		TotalDays:            total,
		PresentDays:          present,
		AbsentDays:           absent,
		AttendancePercentage: percentage,
	}, nil
}

// TodaySummary aggregates today's ledger across all employees.
// unmarked_today is a plain subtraction: cascade delete keeps the
// ledger consistent with the directory, so it cannot go negative under
// normal operation.
func (s *Service) TodaySummary() (*DashboardStats, error) {
	today := Today()

	totalEmployees, err := s.directory.CountAll()
	if err != nil {
		s.logger.Error("failed to count employees", "error", err)
		return nil, internal.NewInternalError("failed to count employees", err)
	}

	presentToday, err := s.repo.CountByDateAndStatus(today, StatusPresent)
	if err != nil {
		s.logger.Error("failed to count present today", "error", err)
		return nil, internal.NewInternalError("failed to count attendance", err)
	}

	absentToday, err := s.repo.CountByDateAndStatus(today, StatusAbsent)
	if err != nil {
		s.logger.Error("failed to count absent today", "error", err)
		return nil, internal.NewInternalError("failed to count attendance", err)
	}

	markedToday := presentToday + absentToday

	var rate float64
	if totalEmployees > 0 {
		rate = roundPercent(float64(presentToday) / float64(totalEmployees) * 100)
	}

	return &DashboardStats{
		TotalEmployees: totalEmployees,
		MarkedToday:    markedToday,
		PresentToday:   presentToday,
		AbsentToday:    absentToday,
		UnmarkedToday:  totalEmployees - markedToday,
		AttendanceRate: rate,
	}, nil
}

func roundPercent(v float64) float64 {
	return math.Round(v*100) / 100
}
