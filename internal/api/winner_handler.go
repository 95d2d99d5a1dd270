package api

import (
	"net/http"
	"strings"

	"LunchVoter/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// WinnerHandler 获胜餐厅查询与手动评选
type WinnerHandler struct {
	svc    *Services
	logger *logrus.Logger
}

func NewWinnerHandler(svc *Services, logger *logrus.Logger) *WinnerHandler {
	return &WinnerHandler{svc: svc, logger: logger}
}

// List GET /api/v1/winners?date=YYYY-MM-DD
// 未传 date 时返回最近一个已截止投票日的结果
func (h *WinnerHandler) List(c *gin.Context) {
	day, ok := h.dayParam(c)
	if !ok {
		return
	}
	list, err := h.svc.Winners.ListWinners(c.Request.Context(), day)
	if err != nil {
		respondError(c, h.logger, err, "list winners failed")
		return
	}
	c.JSON(http.StatusOK, list)
}

// Determine POST /api/v1/winners/determine?date=YYYY-MM-DD（管理员）
// 同一天重复触发会再写入一组记录
func (h *WinnerHandler) Determine(c *gin.Context) {
	day, ok := h.dayParam(c)
	if !ok {
		return
	}
	records, err := h.svc.Winners.DetermineWinner(c.Request.Context(), day)
	if err != nil {
		respondError(c, h.logger, err, "determine winner failed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": day, "winners": records})
}

func (h *WinnerHandler) dayParam(c *gin.Context) (string, bool) {
	raw := strings.TrimSpace(c.Query("date"))
	if raw == "" {
		st, err := h.svc.Settings.Current(c.Request.Context())
		if err != nil {
			respondError(c, h.logger, err, "read settings failed")
			return "", false
		}
		return service.ClosedDay(h.svc.Now(), h.svc.Location, st.CutoffHour), true
	}
	day, err := service.ParseDay(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date format"})
		return "", false
	}
	return day, true
}
