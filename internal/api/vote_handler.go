package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// VoteHandler 投票接口
type VoteHandler struct {
	svc    *Services
	logger *logrus.Logger
}

func NewVoteHandler(svc *Services, logger *logrus.Logger) *VoteHandler {
	return &VoteHandler{svc: svc, logger: logger}
}

// CastVote POST /api/v1/restaurants/:id/votes
// 201 成功；404 餐厅不存在；422 已过截止时间；400 超出当日票数
func (h *VoteHandler) CastVote(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	rid, ok := restaurantID(c)
	if !ok {
		return
	}
	rec, err := h.svc.Ledger.CastVote(c.Request.Context(), uid, rid, h.svc.Now())
	if err != nil {
		respondError(c, h.logger, err, "cast vote failed")
		return
	}
	c.JSON(http.StatusCreated, gin.H{
		"restaurant_id": rec.RestaurantID,
		"day":           rec.Day,
		"amount":        rec.Amount,
		"score":         rec.Score,
	})
}

// Today GET /api/v1/votes/today
func (h *VoteHandler) Today(c *gin.Context) {
	uid, ok := currentUserID(c)
	if !ok {
		return
	}
	usage, err := h.svc.Ledger.TodayUsage(c.Request.Context(), uid, h.svc.Now())
	if err != nil {
		respondError(c, h.logger, err, "today usage failed")
		return
	}
	c.JSON(http.StatusOK, usage)
}
