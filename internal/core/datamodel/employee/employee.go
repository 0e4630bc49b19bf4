package employee

import "time"

// Employee is the persisted shape of an employee row. The employee_id
// column holds the external, human-assigned code (stored upper-case);
// the primary key is a generated UUID.
type Employee struct {
	ID         string    `gorm:"primaryKey;type:varchar(36)"`
	EmployeeID string    `gorm:"column:employee_id;type:varchar(50);not null;uniqueIndex:uq_employees_employee_id"`
	FullName   string    `gorm:"column:full_name;type:varchar(100);not null"`
	Email      string    `gorm:"type:varchar(100);not null;uniqueIndex:uq_employees_email"`
	Department string    `gorm:"type:varchar(100);not null"`
	CreatedAt  time.Time `gorm:"column:created_at"`
	UpdatedAt  time.Time `gorm:"column:updated_at"`
}

func (Employee) TableName() string {
	return "employees"
}
