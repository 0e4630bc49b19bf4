package postgres

import (
	"errors"

	attendanceDatamodel "github.com/attendance-management/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/attendance-management/internal/core/datamodel/employee"
	"github.com/attendance-management/internal/employee"
	"gorm.io/gorm"
)

// EmployeeRepository implements employee.RepositoryAPI using GORM.
type EmployeeRepository struct {
	db *gorm.DB
}

func NewEmployeeRepository(db *gorm.DB) employee.RepositoryAPI {
	return &EmployeeRepository{db: db}
}

func (r *EmployeeRepository) GetAll() ([]*employeeDatamodel.Employee, error) {
	var rows []*employeeDatamodel.Employee
	err := r.db.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *EmployeeRepository) GetByID(id string) (*employeeDatamodel.Employee, error) {
	return r.getOne("id = ?", id)
}

func (r *EmployeeRepository) GetByEmployeeID(code string) (*employeeDatamodel.Employee, error) {
	return r.getOne("employee_id = ?", code)
}

func (r *EmployeeRepository) GetByEmail(email string) (*employeeDatamodel.Employee, error) {
	return r.getOne("email = ?", email)
}

func (r *EmployeeRepository) getOne(query string, arg string) (*employeeDatamodel.Employee, error) {
	var row employeeDatamodel.Employee
	err := r.db.Where(query, arg).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, employee.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Create inserts a new employee row. A unique-constraint violation is
// reported as employee.ErrDuplicate; gorm's error translation covers
// both the postgres and sqlite drivers.
func (r *EmployeeRepository) Create(emp *employeeDatamodel.Employee) error {
	if err := r.db.Create(emp).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return employee.ErrDuplicate
		}
		return err
	}
	return nil
}

// Delete removes the employee row; the ON DELETE CASCADE constraint on
// the attendance table removes the owned ledger rows.
func (r *EmployeeRepository) Delete(id string) error {
	result := r.db.Where("id = ?", id).Delete(&employeeDatamodel.Employee{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return employee.ErrNotFound
	}
	return nil
}

func (r *EmployeeRepository) CountAll() (int64, error) {
	var count int64
	err := r.db.Model(&employeeDatamodel.Employee{}).Count(&count).Error
	return count, err
}

func (r *EmployeeRepository) CountAttendanceByStatus(employeeID, status string) (int64, error) {
	var count int64
	err := r.db.Model(&attendanceDatamodel.Attendance{}).
		Where("employee_id = ? AND status = ?", employeeID, status).
		Count(&count).Error
	return count, err
}
