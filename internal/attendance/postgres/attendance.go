package postgres

import (
	"errors"
	"time"

	"github.com/attendance-management/internal/attendance"
	attendanceDatamodel "github.com/attendance-management/internal/core/datamodel/attendance"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AttendanceRepository implements attendance.RepositoryAPI using GORM.
type AttendanceRepository struct {
	db *gorm.DB
}

func NewAttendanceRepository(db *gorm.DB) attendance.RepositoryAPI {
	return &AttendanceRepository{db: db}
}

const joinedColumns = "attendance.id, attendance.employee_id, " +
	"employees.full_name AS employee_name, employees.employee_id AS employee_code, " +
	"attendance.date, attendance.status, attendance.created_at, attendance.updated_at"

func (r *AttendanceRepository) GetAll(startDate, endDate *time.Time) ([]*attendanceDatamodel.RecordWithEmployee, error) {
	return r.list(r.joined(), startDate, endDate)
}

func (r *AttendanceRepository) GetByEmployee(employeeID string, startDate, endDate *time.Time) ([]*attendanceDatamodel.RecordWithEmployee, error) {
	return r.list(r.joined().Where("attendance.employee_id = ?", employeeID), startDate, endDate)
}

func (r *AttendanceRepository) joined() *gorm.DB {
	// LEFT JOIN: a record whose owner is gone still lists, with null
	// employee fields.
	return r.db.Model(&attendanceDatamodel.Attendance{}).
		Select(joinedColumns).
		Joins("LEFT JOIN employees ON employees.id = attendance.employee_id")
}

func (r *AttendanceRepository) list(query *gorm.DB, startDate, endDate *time.Time) ([]*attendanceDatamodel.RecordWithEmployee, error) {
	if startDate != nil {
		query = query.Where("attendance.date >= ?", *startDate)
	}
	if endDate != nil {
		query = query.Where("attendance.date <= ?", *endDate)
	}

	var rows []*attendanceDatamodel.RecordWithEmployee
	err := query.Order("attendance.date DESC").Scan(&rows).Error
	return rows, err
}

func (r *AttendanceRepository) GetByEmployeeAndDate(employeeID string, date time.Time) (*attendanceDatamodel.Attendance, error) {
	var row attendanceDatamodel.Attendance
	err := r.db.Where("employee_id = ? AND date = ?", employeeID, date).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendance.ErrRecordNotFound
		}
		return nil, err
	}
	return &row, nil
}

// Upsert inserts a ledger row, or overwrites status and updated_at when
// a row for the same (employee_id, date) exists. The write is a single
// atomic statement keyed on the composite unique constraint.
func (r *AttendanceRepository) Upsert(rec *attendanceDatamodel.Attendance) error {
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "employee_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":     rec.Status,
			"updated_at": rec.UpdatedAt,
		}),
	}).Create(rec).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return attendance.ErrDuplicateRecord
		}
		return err
	}
	return nil
}

func (r *AttendanceRepository) CountByEmployee(employeeID string) (int64, error) {
	var count int64
	err := r.db.Model(&attendanceDatamodel.Attendance{}).
		Where("employee_id = ?", employeeID).
		Count(&count).Error
	return count, err
}

func (r *AttendanceRepository) CountByEmployeeAndStatus(employeeID, status string) (int64, error) {
	var count int64
	err := r.db.Model(&attendanceDatamodel.Attendance{}).
		Where("employee_id = ? AND status = ?", employeeID, status).
		Count(&count).Error
	return count, err
}

func (r *AttendanceRepository) CountByDateAndStatus(date time.Time, status string) (int64, error) {
	var count int64
	err := r.db.Model(&attendanceDatamodel.Attendance{}).
		Where("date = ? AND status = ?", date, status).
		Count(&count).Error
	return count, err
}
