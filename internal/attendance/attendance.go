package attendance

import (
	"errors"
	"fmt"
	"time"

	attendanceDatamodel "github.com/attendance-management/internal/core/datamodel/attendance"
)

// Ledger status values.
const (
	StatusPresent = attendanceDatamodel.StatusPresent
	StatusAbsent  = attendanceDatamodel.StatusAbsent
)

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Repository sentinel errors, translated to AppErrors by the service.
var (
	ErrRecordNotFound  = errors.New("attendance record not found")
	ErrDuplicateRecord = errors.New("attendance record already exists")
)

// ParseDate parses a YYYY-MM-DD string into a UTC-midnight time. All
// ledger dates are constructed this way so range filters and equality
// compare consistently across stores.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Today returns the current calendar date as a UTC-midnight time.
func Today() time.Time {
	y, m, d := time.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// Record is a ledger entry joined with its owner's name and code. The
// employee fields are pointers because the join is display-only and
// deliberately tolerates a missing owner.
type Record struct {
	ID           string    `json:"id"`
	EmployeeID   string    `json:"employee_id"`
	EmployeeName *string   `json:"employee_name"`
	EmployeeCode *string   `json:"employee_code"`
	Date         string    `json:"date"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// MarkAttendanceDTO is the request payload for the mark operation.
type MarkAttendanceDTO struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

func (dto MarkAttendanceDTO) Validate() error {
	if dto.EmployeeID == "" {
		return errors.New("employee_id is required")
	}
	if dto.Date == "" {
		return errors.New("date is required")
	}
	if _, err := ParseDate(dto.Date); err != nil {
		return fmt.Errorf("date must be in %s format", DateLayout)
	}
	if dto.Status != StatusPresent && dto.Status != StatusAbsent {
		return fmt.Errorf("status must be either '%s' or '%s'", StatusPresent, StatusAbsent)
	}
	return nil
}

// ListResponse wraps a record listing.
type ListResponse struct {
	Records []*Record `json:"records"`
	Total   int       `json:"total"`
}

// Stats is the per-employee aggregate payload.
type Stats struct {
	EmployeeID           string  `json:"employee_id"`
	EmployeeName         string  `json:"employee_name"`
	TotalDays            int64   `json:"total_days"`
	PresentDays          int64   `json:"present_days"`
	AbsentDays           int64   `json:"absent_days"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}

// DashboardStats is the service-wide summary for today.
type DashboardStats struct {
	TotalEmployees int64   `json:"total_employees"`
	MarkedToday    int64   `json:"marked_today"`
	PresentToday   int64   `json:"present_today"`
	AbsentToday    int64   `json:"absent_today"`
	UnmarkedToday  int64   `json:"unmarked_today"`
	AttendanceRate float64 `json:"attendance_rate"`
}

func FromDataModel(row *attendanceDatamodel.RecordWithEmployee) *Record {
	return &Record{
		ID:           row.ID,
		EmployeeID:   row.EmployeeID,
		EmployeeName: row.EmployeeName,
		EmployeeCode: row.EmployeeCode,
		Date:         row.Date.Format(DateLayout),
		Status:       row.Status,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}
}

func FromDataModelSlice(rows []*attendanceDatamodel.RecordWithEmployee) []*Record {
	records := make([]*Record, len(rows))
	for i, row := range rows {
		records[i] = FromDataModel(row)
	}
	return records
}
