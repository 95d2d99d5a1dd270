package api

import (
	"net/http"
	"strconv"

	"LunchVoter/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// RestaurantHandler 餐厅接口
type RestaurantHandler struct {
	restaurants *service.RestaurantService
	logger      *logrus.Logger
}

func NewRestaurantHandler(restaurants *service.RestaurantService, logger *logrus.Logger) *RestaurantHandler {
	return &RestaurantHandler{restaurants: restaurants, logger: logger}
}

// List GET /api/v1/restaurants?page=1&page_size=20
func (h *RestaurantHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	res, err := h.restaurants.List(c.Request.Context(), page, pageSize)
	if err != nil {
		respondError(c, h.logger, err, "list restaurants failed")
		return
	}
	c.JSON(http.StatusOK, res)
}

// Get GET /api/v1/restaurants/:id
func (h *RestaurantHandler) Get(c *gin.Context) {
	id, ok := restaurantID(c)
	if !ok {
		return
	}
	r, err := h.restaurants.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err, "get restaurant failed")
		return
	}
	c.JSON(http.StatusOK, r)
}

// Create POST /api/v1/restaurants
func (h *RestaurantHandler) Create(c *gin.Context) {
	var req service.CreateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.restaurants.Create(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err, "create restaurant failed")
		return
	}
	c.JSON(http.StatusCreated, r)
}

// Update PATCH /api/v1/restaurants/:id
func (h *RestaurantHandler) Update(c *gin.Context) {
	id, ok := restaurantID(c)
	if !ok {
		return
	}
	var req service.UpdateRestaurantRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r, err := h.restaurants.Update(c.Request.Context(), id, &req)
	if err != nil {
		respondError(c, h.logger, err, "update restaurant failed")
		return
	}
	c.JSON(http.StatusOK, r)
}

// Delete DELETE /api/v1/restaurants/:id
func (h *RestaurantHandler) Delete(c *gin.Context) {
	id, ok := restaurantID(c)
	if !ok {
		return
	}
	if err := h.restaurants.Delete(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err, "delete restaurant failed")
		return
	}
	c.Status(http.StatusNoContent)
}

// restaurantID 解析路径参数 :id；非法时写入 404（与不存在的餐厅一致）
func restaurantID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": service.ErrRestaurantNotFound.Error()})
		return 0, false
	}
	return id, true
}
