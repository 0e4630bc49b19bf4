package attendance

import (
	"time"

	employeeDatamodel "github.com/attendance-management/internal/core/datamodel/employee"
)

// Attendance status values as stored in the status column.
const (
	StatusPresent = "present"
	StatusAbsent  = "absent"
)

// Attendance is the persisted shape of a ledger row. Date is a DATE
// column; callers construct it as UTC midnight so range filters and
// equality behave the same on postgres and sqlite. The composite unique
// index enforces one row per (employee, date).
type Attendance struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	EmployeeID string    `gorm:"column:employee_id;type:varchar(36);not null;uniqueIndex:uq_attendance_employee_date"`
	Date       time.Time `gorm:"type:date;not null;uniqueIndex:uq_attendance_employee_date"`
	Status     string    `gorm:"type:varchar(20);not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`

	Employee *employeeDatamodel.Employee `gorm:"foreignKey:EmployeeID;references:ID;constraint:OnDelete:CASCADE"`
}

func (Attendance) TableName() string {
	return "attendance"
}

// RecordWithEmployee is the read-side row shape for listings: a ledger
// row joined with the owner's name and code. The employee columns are
// nullable; the LEFT JOIN may not find an owner.
type RecordWithEmployee struct {
	ID           string    `gorm:"column:id"`
	EmployeeID   string    `gorm:"column:employee_id"`
	EmployeeName *string   `gorm:"column:employee_name"`
	EmployeeCode *string   `gorm:"column:employee_code"`
	Date         time.Time `gorm:"column:date"`
	Status       string    `gorm:"column:status"`
	CreatedAt    time.Time `gorm:"column:created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at"`
}
