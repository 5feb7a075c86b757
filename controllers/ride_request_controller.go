package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"schoolride-api/middleware"
	"schoolride-api/models"
	"schoolride-api/services"
	"schoolride-api/utils"
)

type RideRequestController struct {
	service *services.RideRequestService
}

func NewRideRequestController(service *services.RideRequestService) *RideRequestController {
	return &RideRequestController{service: service}
}

// Create handles POST /ride-requests (mobile channel).
func (rc *RideRequestController) Create(c *gin.Context) {
	var payload models.RideRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := rc.service.Create(&payload, middleware.CurrentActor(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// CreateFromWeb handles POST /ride-requests/web (admin console channel).
func (rc *RideRequestController) CreateFromWeb(c *gin.Context) {
	var payload models.RideRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := rc.service.CreateFromWeb(&payload, middleware.CurrentActor(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusCreated, detail)
}

// Update handles PUT /ride-requests.
func (rc *RideRequestController) Update(c *gin.Context) {
	var payload models.RideRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := rc.service.Update(&payload, middleware.CurrentActor(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateFromWeb handles PUT /ride-requests/web.
func (rc *RideRequestController) UpdateFromWeb(c *gin.Context) {
	var payload models.RideRequestPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := rc.service.UpdateFromWeb(&payload, middleware.CurrentActor(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// UpdateStatus handles PUT /ride-requests/status (approve/reject).
func (rc *RideRequestController) UpdateStatus(c *gin.Context) {
	var payload models.StatusUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	detail, err := rc.service.UpdateStatus(&payload, middleware.CurrentActor(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetOne handles GET /ride-requests/:id.
func (rc *RideRequestController) GetOne(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ride request id"})
		return
	}

	detail, err := rc.service.FindOne(uint(id))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, detail)
}

// GetAll handles GET /ride-requests with pagination.
func (rc *RideRequestController) GetAll(c *gin.Context) {
	page, limit := pagination(c)

	details, total, err := rc.service.FindAll(middleware.CurrentActor(c), page, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendPaginated(c, details, page, limit, total)
}

// GetByStatus handles GET /ride-requests/status/:status (admin dashboard).
func (rc *RideRequestController) GetByStatus(c *gin.Context) {
	status := models.RequestStatus(c.Param("status"))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown request status"})
		return
	}
	page, limit := pagination(c)

	details, total, err := rc.service.FindByStatus(status, middleware.CurrentActor(c), page, limit)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendPaginated(c, details, page, limit, total)
}

// GetByUserAndStatus handles GET /ride-requests/user/status/:status.
func (rc *RideRequestController) GetByUserAndStatus(c *gin.Context) {
	status := models.RequestStatus(c.Param("status"))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown request status"})
		return
	}

	details, err := rc.service.FindByUserAndStatus(middleware.CurrentActor(c), status)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetByUserAndDate handles GET /ride-requests/user/date/:date.
func (rc *RideRequestController) GetByUserAndDate(c *gin.Context) {
	date, err := utils.ParseDateParam(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	details, err := rc.service.FindByUserAndDate(middleware.CurrentActor(c), date)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetByUserAndDateAndStatus handles GET /ride-requests/user/:date/:status.
func (rc *RideRequestController) GetByUserAndDateAndStatus(c *gin.Context) {
	date, err := utils.ParseDateParam(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}
	status := models.RequestStatus(c.Param("status"))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown request status"})
		return
	}

	details, err := rc.service.FindByUserAndDateAndStatus(middleware.CurrentActor(c), date, status)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetByUserAndDateAndChildNameAndStatus handles
// GET /ride-requests/user/:date/:childName/:status.
func (rc *RideRequestController) GetByUserAndDateAndChildNameAndStatus(c *gin.Context) {
	date, err := utils.ParseDateParam(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}
	status := models.RequestStatus(c.Param("status"))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown request status"})
		return
	}

	details, err := rc.service.FindByUserAndChildNameAndDateAndStatus(
		middleware.CurrentActor(c), c.Param("childName"), date, status)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetByUserAndDateAndChildNameAndStatusV2 additionally carries the latest
// journey event per request.
func (rc *RideRequestController) GetByUserAndDateAndChildNameAndStatusV2(c *gin.Context) {
	date, err := utils.ParseDateParam(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}
	status := models.RequestStatus(c.Param("status"))
	if !status.Valid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown request status"})
		return
	}

	details, err := rc.service.FindByUserAndChildNameAndDateAndStatusV2(
		middleware.CurrentActor(c), c.Param("childName"), date, status)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// Delete handles DELETE /ride-requests/:id.
func (rc *RideRequestController) Delete(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ride request id"})
		return
	}

	if err := rc.service.Delete(uint(id)); err != nil {
		utils.SendAppError(c, err)
		return
	}
	utils.SendSuccess(c, "Ride request deleted", nil)
}

func pagination(c *gin.Context) (int, int) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	limit, err := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if err != nil || limit < 1 || limit > 50 {
		limit = 10
	}
	return page, limit
}
