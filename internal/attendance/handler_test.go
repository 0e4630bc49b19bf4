package attendance_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/go-chi/chi"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/attendance-management/internal/attendance"
	attendancePostgres "github.com/attendance-management/internal/attendance/postgres"
	attendanceDatamodel "github.com/attendance-management/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/attendance-management/internal/core/datamodel/employee"
	"github.com/attendance-management/internal/employee"
	employeePostgres "github.com/attendance-management/internal/employee/postgres"
	"github.com/attendance-management/internal/transport"
)

var _ = Describe("AttendanceHandler", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:?_foreign_keys=on"), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&employeeDatamodel.Employee{}, &attendanceDatamodel.Attendance{})
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		baseHandler := transport.NewBaseHandler(slogger)

		employeeRepo := employeePostgres.NewEmployeeRepository(db)
		employeeService := employee.NewService(employeeRepo, slogger)
		employeeHandler := employee.NewHandler(baseHandler, employeeService)

		attendanceRepo := attendancePostgres.NewAttendanceRepository(db)
		attendanceService := attendance.NewService(attendanceRepo, employeeRepo, slogger)
		attendanceHandler := attendance.NewHandler(baseHandler, attendanceService)

		router = chi.NewRouter()
		router.Post("/employees", employeeHandler.CreateEmployee)
		router.Delete("/employees/{id}", employeeHandler.DeleteEmployee)
		router.Get("/attendance", attendanceHandler.GetAllAttendance)
		router.Post("/attendance", attendanceHandler.MarkAttendance)
		router.Get("/attendance/today", attendanceHandler.GetTodayAttendance)
		router.Get("/attendance/employee/{id}", attendanceHandler.GetEmployeeAttendance)
		router.Get("/attendance/stats/{id}", attendanceHandler.GetStats)
		router.Get("/dashboard", attendanceHandler.GetDashboard)
	})

	AfterEach(func() {
		sqlDB, err := db.DB()
		Expect(err).NotTo(HaveOccurred())
		Expect(sqlDB.Close()).To(Succeed())
	})

	doJSON := func(method, path string, payload interface{}) *httptest.ResponseRecorder {
		var body *bytes.Buffer
		if payload != nil {
			raw, err := json.Marshal(payload)
			Expect(err).NotTo(HaveOccurred())
			body = bytes.NewBuffer(raw)
		} else {
			body = bytes.NewBuffer(nil)
		}

		req := httptest.NewRequest(method, path, body)
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		return rec
	}

	createEmployee := func(code, name, email, department string) *employee.Employee {
		rec := doJSON(http.MethodPost, "/employees", employee.CreateEmployeeDTO{
			EmployeeID: code,
			FullName:   name,
			Email:      email,
			Department: department,
		})
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var created employee.Employee
		Expect(json.Unmarshal(rec.Body.Bytes(), &created)).To(Succeed())
		return &created
	}

	markAttendance := func(employeeID, date, status string) *attendance.Record {
		rec := doJSON(http.MethodPost, "/attendance", attendance.MarkAttendanceDTO{
			EmployeeID: employeeID,
			Date:       date,
			Status:     status,
		})
		Expect(rec.Code).To(Equal(http.StatusCreated))

		var record attendance.Record
		Expect(json.Unmarshal(rec.Body.Bytes(), &record)).To(Succeed())
		return &record
	}

	Describe("POST /attendance", func() {
		It("should mark and then overwrite a day's attendance", func() {
			created := createEmployee("e001", "Siti Rahma", "A@X.com", "Engineering")
			Expect(created.EmployeeID).To(Equal("E001"))
			Expect(created.Email).To(Equal("a@x.com"))

			first := markAttendance(created.ID, "2024-01-01", attendance.StatusPresent)
			Expect(first.Status).To(Equal(attendance.StatusPresent))
			Expect(first.Date).To(Equal("2024-01-01"))
			Expect(first.EmployeeName).To(HaveValue(Equal("Siti Rahma")))
			Expect(first.EmployeeCode).To(HaveValue(Equal("E001")))

			second := markAttendance(created.ID, "2024-01-01", attendance.StatusAbsent)
			Expect(second.ID).To(Equal(first.ID))
			Expect(second.Status).To(Equal(attendance.StatusAbsent))

			statsRec := doJSON(http.MethodGet, "/attendance/stats/"+created.ID, nil)
			Expect(statsRec.Code).To(Equal(http.StatusOK))

			var stats attendance.Stats
			Expect(json.Unmarshal(statsRec.Body.Bytes(), &stats)).To(Succeed())
			Expect(stats.TotalDays).To(Equal(int64(1)))
			Expect(stats.PresentDays).To(BeZero())
			Expect(stats.AbsentDays).To(Equal(int64(1)))
			Expect(stats.AttendancePercentage).To(Equal(0.0))
		})

		It("should return 404 for an unknown employee", func() {
			rec := doJSON(http.MethodPost, "/attendance", attendance.MarkAttendanceDTO{
				EmployeeID: "does-not-exist",
				Date:       "2024-01-01",
				Status:     attendance.StatusPresent,
			})
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(ContainSubstring("EMPLOYEE_NOT_FOUND"))
		})

		It("should return 400 for an invalid status", func() {
			created := createEmployee("E001", "Siti Rahma", "a@x.com", "Engineering")

			rec := doJSON(http.MethodPost, "/attendance", attendance.MarkAttendanceDTO{
				EmployeeID: created.ID,
				Date:       "2024-01-01",
				Status:     "late",
			})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /attendance", func() {
		It("should filter by date range and order newest first", func() {
			created := createEmployee("E001", "Siti Rahma", "a@x.com", "Engineering")

			markAttendance(created.ID, "2024-01-01", attendance.StatusPresent)
			markAttendance(created.ID, "2024-01-15", attendance.StatusAbsent)
			markAttendance(created.ID, "2024-02-01", attendance.StatusPresent)

			rec := doJSON(http.MethodGet, "/attendance?start_date=2024-01-01&end_date=2024-01-31", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp attendance.ListResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(2))
			Expect(resp.Records[0].Date).To(Equal("2024-01-15"))
			Expect(resp.Records[1].Date).To(Equal("2024-01-01"))
		})

		It("should return 400 for a malformed date filter", func() {
			rec := doJSON(http.MethodGet, "/attendance?start_date=01/01/2024", nil)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Body.String()).To(ContainSubstring("INVALID_DATE"))
		})
	})

	Describe("GET /attendance/today", func() {
		It("should list only today's records", func() {
			created := createEmployee("E001", "Siti Rahma", "a@x.com", "Engineering")

			today := attendance.Today().Format(attendance.DateLayout)
			markAttendance(created.ID, today, attendance.StatusPresent)
			markAttendance(created.ID, "2024-01-01", attendance.StatusAbsent)

			rec := doJSON(http.MethodGet, "/attendance/today", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp struct {
				Attendance []*attendance.Record `json:"attendance"`
				Total      int                  `json:"total"`
			}
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(1))
			Expect(resp.Attendance[0].Date).To(Equal(today))
		})
	})

	Describe("GET /attendance/employee/{id}", func() {
		It("should return 404 for an unknown employee", func() {
			rec := doJSON(http.MethodGet, "/attendance/employee/does-not-exist", nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should list the employee's records", func() {
			first := createEmployee("E001", "Siti Rahma", "a@x.com", "Engineering")
			second := createEmployee("E002", "Budi Santoso", "b@x.com", "Finance")

			markAttendance(first.ID, "2024-01-01", attendance.StatusPresent)
			markAttendance(second.ID, "2024-01-01", attendance.StatusAbsent)

			rec := doJSON(http.MethodGet, "/attendance/employee/"+first.ID, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp attendance.ListResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(1))
			Expect(resp.Records[0].EmployeeID).To(Equal(first.ID))
		})
	})

	Describe("GET /dashboard", func() {
		It("should summarize today's attendance", func() {
			first := createEmployee("E001", "Siti Rahma", "a@x.com", "Engineering")
			createEmployee("E002", "Budi Santoso", "b@x.com", "Finance")

			today := attendance.Today().Format(attendance.DateLayout)
			markAttendance(first.ID, today, attendance.StatusPresent)

			rec := doJSON(http.MethodGet, "/dashboard", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var summary attendance.DashboardStats
			Expect(json.Unmarshal(rec.Body.Bytes(), &summary)).To(Succeed())
			Expect(summary.TotalEmployees).To(Equal(int64(2)))
			Expect(summary.MarkedToday).To(Equal(int64(1)))
			Expect(summary.PresentToday).To(Equal(int64(1)))
			Expect(summary.AbsentToday).To(BeZero())
			Expect(summary.UnmarkedToday).To(Equal(int64(1)))
			Expect(summary.AttendanceRate).To(Equal(50.0))
		})
	})

	Describe("deleting an employee", func() {
		It("should remove its ledger and report 404 afterwards", func() {
			created := createEmployee("E001", "Siti Rahma", "a@x.com", "Engineering")
			markAttendance(created.ID, "2024-01-01", attendance.StatusPresent)

			rec := doJSON(http.MethodDelete, "/employees/"+created.ID, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			listRec := doJSON(http.MethodGet, "/attendance", nil)
			Expect(listRec.Code).To(Equal(http.StatusOK))

			var resp attendance.ListResponse
			Expect(json.Unmarshal(listRec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(BeZero())

			statsRec := doJSON(http.MethodGet, "/attendance/stats/"+created.ID, nil)
			Expect(statsRec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
