package cmd

import (
	"errors"
	"fmt"
	"log"

	"github.com/attendance-management/internal/employee"
	employeePostgres "github.com/attendance-management/internal/employee/postgres"
	"github.com/attendance-management/pkg/logger"
	"github.com/spf13/cobra"
	gormPostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var clearData bool

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample employees for development and testing purposes.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := loadConfig(".")
		if err != nil {
			log.Fatalf("failed to load config: %v", err)
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			log.Fatalf("failed to init db: %v", err)
		}
		defer db.Close()

		gormDB, err := gorm.Open(gormPostgres.New(gormPostgres.Config{Conn: db.DB}), &gorm.Config{
			TranslateError: true,
		})
		if err != nil {
			log.Fatalf("failed to open gorm over db connection: %v", err)
		}

		if clearData {
			// attendance rows go with their owners via cascade
			if err := gormDB.Exec("DELETE FROM employees").Error; err != nil {
				log.Fatalf("failed to clear employees: %v", err)
			}
			fmt.Println("Cleared existing data")
		}

		repo := employeePostgres.NewEmployeeRepository(gormDB)
		service := employee.NewService(repo, logger.L())

		samples := []employee.CreateEmployeeDTO{
			{EmployeeID: "E001", FullName: "Siti Rahma", Email: "siti.rahma@example.com", Department: "Engineering"},
			{EmployeeID: "E002", FullName: "Budi Santoso", Email: "budi.santoso@example.com", Department: "Engineering"},
			{EmployeeID: "E003", FullName: "Ayu Lestari", Email: "ayu.lestari@example.com", Department: "Finance"},
			{EmployeeID: "E004", FullName: "Rizky Pratama", Email: "rizky.pratama@example.com", Department: "Operations"},
		}

		for _, dto := range samples {
			if _, err := repo.GetByEmployeeID(dto.EmployeeID); err == nil {
				fmt.Printf("employee %s already exists; skipping\n", dto.EmployeeID)
				continue
			} else if !errors.Is(err, employee.ErrNotFound) {
				log.Fatalf("failed to check employee %s: %v", dto.EmployeeID, err)
			}

			if _, err := service.CreateEmployee(dto); err != nil {
				log.Fatalf("failed to seed employee %s: %v", dto.EmployeeID, err)
			}
			fmt.Printf("Seeded employee: %s (%s)\n", dto.FullName, dto.EmployeeID)
		}

		fmt.Println("Sample employees seeded successfully")
	},
}
