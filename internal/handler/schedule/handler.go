package schedule

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/clinicore/scheduling-api/internal/model"
	scheduleService "github.com/clinicore/scheduling-api/internal/service/schedule"
	"github.com/clinicore/scheduling-api/pkg/httputil"
)

type Handler struct {
	service *scheduleService.Service
}

func NewHandler(service *scheduleService.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	doctors := r.Group("/doctors/:doctorID")
	doctors.GET("/schedule", h.GetSchedule)
	doctors.PUT("/schedule", h.UpsertSchedule)
	doctors.PUT("/breaks", h.ReplaceBreaks)
	doctors.PUT("/vacations", h.ReplaceVacations)
}

type scheduleResponse struct {
	Schedule  *model.WeeklySchedule `json:"schedule"`
	Breaks    []*model.Break        `json:"breaks"`
	Vacations []*model.Vacation     `json:"vacations"`
}

func (h *Handler) GetSchedule(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("doctorID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid doctor ID"})
		return
	}

	sched, err := h.service.GetSchedule(c.Request.Context(), doctorID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, scheduleResponse{
		Schedule:  sched.Template,
		Breaks:    sched.Breaks,
		Vacations: sched.Vacations,
	})
}

type upsertScheduleRequest struct {
	Days                [7]model.DaySchedule `json:"days" binding:"required"`
	SlotDurationMinutes int                  `json:"slot_duration_minutes" binding:"required"`
}

func (h *Handler) UpsertSchedule(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("doctorID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid doctor ID"})
		return
	}

	var req upsertScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	schedule := &model.WeeklySchedule{
		DoctorID:            doctorID,
		Days:                req.Days,
		SlotDurationMinutes: req.SlotDurationMinutes,
	}
	if err := h.service.UpsertSchedule(c.Request.Context(), schedule); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, schedule)
}

type replaceBreaksRequest struct {
	Breaks []*model.Break `json:"breaks" binding:"required"`
}

func (h *Handler) ReplaceBreaks(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("doctorID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid doctor ID"})
		return
	}

	var req replaceBreaksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if err := h.service.ReplaceBreaks(c.Request.Context(), doctorID, req.Breaks); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, req.Breaks)
}

type replaceVacationsRequest struct {
	Vacations []*model.Vacation `json:"vacations" binding:"required"`
}

func (h *Handler) ReplaceVacations(c *gin.Context) {
	doctorID, err := uuid.Parse(c.Param("doctorID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": "invalid doctor ID"})
		return
	}

	var req replaceVacationsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return
	}

	if err := h.service.ReplaceVacations(c.Request.Context(), doctorID, req.Vacations); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, req.Vacations)
}
