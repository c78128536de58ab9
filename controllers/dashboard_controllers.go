package controllers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-dashboard/analytics"
	"github.com/yeremiapane/restaurant-dashboard/models"
	"github.com/yeremiapane/restaurant-dashboard/utils"
)

type DashboardController struct {
	Client    *analytics.Client
	Refresher *analytics.Refresher
}

func NewDashboardController(client *analytics.Client, refresher *analytics.Refresher) *DashboardController {
	return &DashboardController{Client: client, Refresher: refresher}
}

func validPeriod(period string) bool {
	switch period {
	case models.PeriodToday, models.PeriodWeek, models.PeriodMonth:
		return true
	}
	return false
}

// respondFetchErr maps upstream fetch failures to 502 so the UI can show
// its retry affordance; anything else is a local 500.
func respondFetchErr(c *gin.Context, err error) {
	var fe *analytics.FetchError
	if errors.As(err, &fe) {
		utils.RespondError(c, http.StatusBadGateway, fe)
		return
	}
	utils.RespondError(c, http.StatusInternalServerError, err)
}

// GetDashboardAnalytics serves the latest snapshot for the requested
// period, preferring the refresher's published one and falling back to an
// on-demand fetch.
func (dc *DashboardController) GetDashboardAnalytics(c *gin.Context) {
	period := c.DefaultQuery("period", models.PeriodToday)
	if !validPeriod(period) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown period %q", period))
		return
	}

	if dc.Refresher != nil && dc.Refresher.Period == period {
		if snap := dc.Refresher.Snapshot(); snap != nil {
			utils.RespondJSON(c, http.StatusOK, "Dashboard analytics", snap)
			return
		}
	}

	snap, err := dc.Client.FetchDashboardAnalytics(c.Request.Context(), period)
	if err != nil {
		respondFetchErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Dashboard analytics", snap)
}

func (dc *DashboardController) GetOrdersOverTime(c *gin.Context) {
	period := c.DefaultQuery("period", models.PeriodWeek)
	if !validPeriod(period) {
		utils.RespondError(c, http.StatusBadRequest, fmt.Errorf("unknown period %q", period))
		return
	}

	series, err := dc.Client.FetchOrdersOverTime(c.Request.Context(), period)
	if err != nil {
		respondFetchErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Orders over time", series)
}

func (dc *DashboardController) GetPopularHours(c *gin.Context) {
	slots, err := dc.Client.FetchPopularHours(c.Request.Context())
	if err != nil {
		respondFetchErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Popular hours", slots)
}

func (dc *DashboardController) GetRecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	rows, err := dc.Client.FetchRecentActivity(c.Request.Context(), limit)
	if err != nil {
		respondFetchErr(c, err)
		return
	}
	utils.RespondJSON(c, http.StatusOK, "Recent activity", rows)
}

// ExportRecentActivity streams the activity table as the CSV download the
// analytics page offers.
func (dc *DashboardController) ExportRecentActivity(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	rows, err := dc.Client.FetchRecentActivity(c.Request.Context(), limit)
	if err != nil {
		respondFetchErr(c, err)
		return
	}

	filename := fmt.Sprintf("analytics-%s.csv", time.Now().UTC().Format("2006-01-02"))
	c.Header("Content-Disposition", "attachment; filename="+filename)
	c.Data(http.StatusOK, "text/csv", []byte(analytics.ExportCSV(rows)))
}
