package attendance

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/attendance-management/internal"
	"github.com/attendance-management/internal/transport"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	GetAllAttendance(startDate, endDate *time.Time) ([]*Record, error)
	GetEmployeeAttendance(employeeID string, startDate, endDate *time.Time) ([]*Record, error)
	MarkAttendance(dto MarkAttendanceDTO) (*Record, error)
	GetStats(employeeID string) (*Stats, error)
	TodaySummary() (*DashboardStats, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(baseHandler *transport.BaseHandler, service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: baseHandler,
		Service:     service,
	}
}

func (h *Handler) GetAllAttendance(w http.ResponseWriter, r *http.Request) {
	startDate, endDate, err := dateRangeFromQuery(r)
	if err != nil {
		h.Logger.Error("GetAllAttendance: invalid date filter", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	records, err := h.Service.GetAllAttendance(startDate, endDate)
	if err != nil {
		h.Logger.Error("GetAllAttendance: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{
		Records: records,
		Total:   len(records),
	})
}

// GetTodayAttendance lists today's records across all employees.
func (h *Handler) GetTodayAttendance(w http.ResponseWriter, r *http.Request) {
	today := Today()

	records, err := h.Service.GetAllAttendance(&today, &today)
	if err != nil {
		h.Logger.Error("GetTodayAttendance: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"attendance": records,
		"total":      len(records),
	})
}

func (h *Handler) MarkAttendance(w http.ResponseWriter, r *http.Request) {
	var dto MarkAttendanceDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("MarkAttendance: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	record, err := h.Service.MarkAttendance(dto)
	if err != nil {
		h.Logger.Error("MarkAttendance: service error", "error", err, "employee_id", dto.EmployeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("MarkAttendance: attendance marked",
		"record_id", record.ID,
		"employee_id", record.EmployeeID,
		"date", record.Date,
		"status", record.Status)

	h.WriteJSON(w, http.StatusCreated, record)
}

func (h *Handler) GetEmployeeAttendance(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	startDate, endDate, err := dateRangeFromQuery(r)
	if err != nil {
		h.Logger.Error("GetEmployeeAttendance: invalid date filter", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	records, err := h.Service.GetEmployeeAttendance(employeeID, startDate, endDate)
	if err != nil {
		h.Logger.Error("GetEmployeeAttendance: service error", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, ListResponse{
		Records: records,
		Total:   len(records),
	})
}

func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	employeeID := chi.URLParam(r, "id")

	stats, err := h.Service.GetStats(employeeID)
	if err != nil {
		h.Logger.Error("GetStats: service error", "error", err, "employee_id", employeeID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, stats)
}

func (h *Handler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.Service.TodaySummary()
	if err != nil {
		h.Logger.Error("GetDashboard: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, summary)
}

// dateRangeFromQuery parses the optional start_date/end_date query
// params, returning nil for an absent bound.
func dateRangeFromQuery(r *http.Request) (*time.Time, *time.Time, error) {
	var startDate, endDate *time.Time

	if raw := r.URL.Query().Get("start_date"); raw != "" {
		parsed, err := ParseDate(raw)
		if err != nil {
			return nil, nil, internal.NewValidationError("start_date must be in "+DateLayout+" format", internal.ErrCodeInvalidDate)
		}
		startDate = &parsed
	}

	if raw := r.URL.Query().Get("end_date"); raw != "" {
		parsed, err := ParseDate(raw)
		if err != nil {
			return nil, nil, internal.NewValidationError("end_date must be in "+DateLayout+" format", internal.ErrCodeInvalidDate)
		}
		endDate = &parsed
	}

	return startDate, endDate, nil
}
