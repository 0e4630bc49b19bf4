package employee_test

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

	attendanceDatamodel "github.com/attendance-management/internal/core/datamodel/attendance"
	employeeDatamodel "github.com/attendance-management/internal/core/datamodel/employee"
	"github.com/attendance-management/internal/employee"
	employeePostgres "github.com/attendance-management/internal/employee/postgres"
	"github.com/attendance-management/internal/transport"
)

var _ = Describe("EmployeeHandler", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	BeforeEach(func() {
		var err error

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
			TranslateError: true,
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&employeeDatamodel.Employee{}, &attendanceDatamodel.Attendance{})
		Expect(err).NotTo(HaveOccurred())

		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		repo := employeePostgres.NewEmployeeRepository(db)
		service := employee.NewService(repo, slogger)
		handler := employee.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Get("/employees", handler.GetEmployees)
		router.Post("/employees", handler.CreateEmployee)
		router.Get("/employees/{id}", handler.GetEmployee)
		router.Delete("/employees/{id}", handler.DeleteEmployee)
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

	Describe("POST /employees", func() {
		It("should create an employee with normalized code and email", func() {
			created := createEmployee("e001", "Jane Doe", "Jane@Example.COM", "Engineering")

			Expect(created.EmployeeID).To(Equal("E001"))
			Expect(created.Email).To(Equal("jane@example.com"))
			Expect(created.ID).NotTo(BeEmpty())
		})

		It("should return 409 for a duplicate employee code", func() {
			createEmployee("E001", "Jane Doe", "jane@example.com", "Engineering")

			rec := doJSON(http.MethodPost, "/employees", employee.CreateEmployeeDTO{
				EmployeeID: "e001",
				FullName:   "John Doe",
				Email:      "john@example.com",
				Department: "Engineering",
			})
			Expect(rec.Code).To(Equal(http.StatusConflict))
			Expect(rec.Body.String()).To(ContainSubstring("EMPLOYEE_ID_EXISTS"))
		})

		It("should return 409 for a duplicate email", func() {
			createEmployee("E001", "Jane Doe", "jane@example.com", "Engineering")

			rec := doJSON(http.MethodPost, "/employees", employee.CreateEmployeeDTO{
				EmployeeID: "E002",
				FullName:   "John Doe",
				Email:      "JANE@example.com",
				Department: "Engineering",
			})
			Expect(rec.Code).To(Equal(http.StatusConflict))
			Expect(rec.Body.String()).To(ContainSubstring("EMAIL_EXISTS"))
		})

		It("should return 400 for a payload with missing fields", func() {
			rec := doJSON(http.MethodPost, "/employees", employee.CreateEmployeeDTO{
				EmployeeID: "E001",
			})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 400 for malformed JSON", func() {
			req := httptest.NewRequest(http.MethodPost, "/employees", bytes.NewBufferString("{not json"))
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("GET /employees", func() {
		It("should list all employees with totals", func() {
			createEmployee("E001", "Jane Doe", "jane@example.com", "Engineering")
			createEmployee("E002", "John Doe", "john@example.com", "Finance")

			rec := doJSON(http.MethodGet, "/employees", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp employee.ListResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(Equal(2))
			Expect(resp.Employees).To(HaveLen(2))
		})

		It("should return an empty list when there are no employees", func() {
			rec := doJSON(http.MethodGet, "/employees", nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp employee.ListResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Total).To(BeZero())
		})
	})

	Describe("GET /employees/{id}", func() {
		It("should return a single employee", func() {
			created := createEmployee("E001", "Jane Doe", "jane@example.com", "Engineering")

			rec := doJSON(http.MethodGet, "/employees/"+created.ID, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var fetched employee.Employee
			Expect(json.Unmarshal(rec.Body.Bytes(), &fetched)).To(Succeed())
			Expect(fetched.ID).To(Equal(created.ID))
			Expect(fetched.FullName).To(Equal("Jane Doe"))
		})

		It("should return 404 for an unknown id", func() {
			rec := doJSON(http.MethodGet, "/employees/does-not-exist", nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
			Expect(rec.Body.String()).To(ContainSubstring("EMPLOYEE_NOT_FOUND"))
		})
	})

	Describe("DELETE /employees/{id}", func() {
		It("should delete an employee and then report 404 for it", func() {
			created := createEmployee("E001", "Jane Doe", "jane@example.com", "Engineering")

			rec := doJSON(http.MethodDelete, "/employees/"+created.ID, nil)
			Expect(rec.Code).To(Equal(http.StatusOK))

			var resp employee.MessageResponse
			Expect(json.Unmarshal(rec.Body.Bytes(), &resp)).To(Succeed())
			Expect(resp.Success).To(BeTrue())

			rec = doJSON(http.MethodGet, "/employees/"+created.ID, nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 404 for an unknown id", func() {
			rec := doJSON(http.MethodDelete, "/employees/does-not-exist", nil)
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})
	})
})
