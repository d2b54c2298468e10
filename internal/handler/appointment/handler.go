package appointment

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/scheduling-api/internal/middleware"
	"github.com/clinicore/scheduling-api/internal/model"
	"github.com/clinicore/scheduling-api/internal/repository"
	bookingService "github.com/clinicore/scheduling-api/internal/service/booking"
	lifecycleService "github.com/clinicore/scheduling-api/internal/service/lifecycle"
	"github.com/clinicore/scheduling-api/pkg/httputil"
)

type Handler struct {
	booking   *bookingService.Service
	lifecycle *lifecycleService.Service
	repo      repository.AppointmentRepository
}

func NewHandler(booking *bookingService.Service, lifecycle *lifecycleService.Service, repo repository.AppointmentRepository) *Handler {
	return &Handler{
		booking:   booking,
		lifecycle: lifecycle,
		repo:      repo,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	appointments := r.Group("/appointments")
	appointments.POST("", h.BookAppointment)
	appointments.GET("", h.ListAppointments)
	appointments.GET("/:id", h.GetAppointment)
	appointments.PATCH("/:id/status", h.TransitionStatus)
}

func (h *Handler) BookAppointment(c *gin.Context) {
	var req model.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	appt, err := h.booking.Book(c.Request.Context(), &req)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, appt)
}

func (h *Handler) GetAppointment(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid appointment ID"})
		return
	}

	appt, err := h.repo.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appt)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	filters := &model.AppointmentFilters{}

	if id := c.Query("doctor_id"); id != "" {
		doctorID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid doctor ID"})
			return
		}
		filters.DoctorID = doctorID
	}

	if id := c.Query("patient_id"); id != "" {
		patientID, err := uuid.Parse(id)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid patient ID"})
			return
		}
		filters.PatientID = patientID
	}

	if filters.DoctorID == uuid.Nil && filters.PatientID == uuid.Nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "doctor_id or patient_id is required"})
		return
	}

	if status := c.Query("status"); status != "" {
		s := model.AppointmentStatus(status)
		if !s.Valid() {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid status"})
			return
		}
		filters.Status = s
	}

	if date := c.Query("start_date"); date != "" {
		parsed, err := model.ParseDate(date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid start_date"})
			return
		}
		filters.StartDate = parsed
	}

	if date := c.Query("end_date"); date != "" {
		parsed, err := model.ParseDate(date)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid end_date"})
			return
		}
		filters.EndDate = parsed
	}

	appointments, err := h.repo.List(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appointments)
}

func (h *Handler) TransitionStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid appointment ID"})
		return
	}

	var req model.TransitionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	actor := c.GetString(middleware.ContextActorID)
	appt, err := h.lifecycle.Transition(c.Request.Context(), id, req.Status, actor)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, appt)
}
