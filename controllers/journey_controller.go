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

// JourneyController exposes the journey board and driver trip views built on
// top of the ride request query surface.
type JourneyController struct {
	service *services.RideRequestService
}

func NewJourneyController(service *services.RideRequestService) *JourneyController {
	return &JourneyController{service: service}
}

// GetJourneysForDate handles GET /ride-requests/journey/:date, the admin
// board of all requests running on a given day.
func (jc *JourneyController) GetJourneysForDate(c *gin.Context) {
	date, err := utils.ParseDateParam(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	details, err := jc.service.FindJourneysForDate(date, middleware.CurrentActor(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetTripsByUserAndDate handles GET /ride-requests/journeysByUserId, the
// driver trip list resolved through that day's journey plans.
func (jc *JourneyController) GetTripsByUserAndDate(c *gin.Context) {
	userID, err := strconv.ParseUint(c.Query("userId"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid userId"})
		return
	}
	date, err := utils.ParseDateParam(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}

	details, err := jc.service.FindTripsByUserAndDate(uint(userID), date)
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetTripsOrderedForSession handles GET /v2/ride-requests/journey/:date/:session,
// the trip list ordered for the morning or afternoon run.
func (jc *JourneyController) GetTripsOrderedForSession(c *gin.Context) {
	date, err := utils.ParseDateParam(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
		return
	}
	session := models.Session(c.Param("session"))

	details, err := jc.service.FindTripsOrderedForSession(date, session, middleware.CurrentActor(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, details)
}

// GetDriverJourneys handles GET /ride-requests/drivers-journeys, partitioning
// the calling driver's plans into past and upcoming.
func (jc *JourneyController) GetDriverJourneys(c *gin.Context) {
	journeys, err := jc.service.DriverJourneys(middleware.CurrentActor(c))
	if err != nil {
		utils.SendAppError(c, err)
		return
	}
	c.JSON(http.StatusOK, journeys)
}
