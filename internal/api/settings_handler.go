package api

import (
	"net/http"

	"LunchVoter/internal/interfaces"
	"LunchVoter/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// SettingsHandler 投票参数
type SettingsHandler struct {
	settings *service.SettingsService
	logger   *logrus.Logger
}

func NewSettingsHandler(settings *service.SettingsService, logger *logrus.Logger) *SettingsHandler {
	return &SettingsHandler{settings: settings, logger: logger}
}

// UpdateSettingsRequest 整体替换；cutoff_hour 为 0 表示不截止，因此用指针区分未传
type UpdateSettingsRequest struct {
	Weights     []float64 `json:"weights"`
	DailyBudget int       `json:"daily_budget" binding:"required"`
	CutoffHour  *int      `json:"cutoff_hour" binding:"required"`
}

// Get GET /api/v1/settings
func (h *SettingsHandler) Get(c *gin.Context) {
	st, err := h.settings.Current(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err, "read settings failed")
		return
	}
	c.JSON(http.StatusOK, st)
}

// Update PUT /api/v1/settings（管理员）
func (h *SettingsHandler) Update(c *gin.Context) {
	var req UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	st, err := h.settings.Update(c.Request.Context(), interfaces.VotingSettings{
		Weights:     req.Weights,
		DailyBudget: req.DailyBudget,
		CutoffHour:  *req.CutoffHour,
	})
	if err != nil {
		respondError(c, h.logger, err, "update settings failed")
		return
	}
	c.JSON(http.StatusOK, st)
}
