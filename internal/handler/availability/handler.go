package availability

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/clinicore/scheduling-api/internal/model"
	availabilityService "github.com/clinicore/scheduling-api/internal/service/availability"
	"github.com/clinicore/scheduling-api/pkg/httputil"
	"github.com/clinicore/scheduling-api/pkg/metrics"
)

type Handler struct {
	service *availabilityService.Service
	metrics *metrics.Metrics
}

func NewHandler(service *availabilityService.Service, m *metrics.Metrics) *Handler {
	return &Handler{service: service, metrics: m}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/availability", h.GetAvailability)
}

type availabilityResponse struct {
	DoctorID  uuid.UUID    `json:"doctor_id"`
	Date      string       `json:"date"`
	Available bool         `json:"available"`
	Reason    string       `json:"reason,omitempty"`
	Slots     []model.Slot `json:"slots"`
}

func (h *Handler) GetAvailability(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Query("doctor_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid doctor ID"})
		return
	}

	date, err := model.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid date, expected YYYY-MM-DD"})
		return
	}

	if h.metrics != nil {
		h.metrics.AvailabilityQueries.Inc()
		timer := prometheus.NewTimer(h.metrics.AvailabilityLatency)
		defer timer.ObserveDuration()
	}

	avail, err := h.service.DayAvailability(c.Request.Context(), doctorID, date)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, availabilityResponse{
		DoctorID:  avail.DoctorID,
		Date:      model.FormatDate(avail.Date),
		Available: avail.Available,
		Reason:    avail.Reason,
		Slots:     avail.Slots,
	})
}
