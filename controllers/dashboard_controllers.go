package controllers

import (
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/appointit/appointit-app/models"
	"github.com/appointit/appointit-app/utils"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

// EarningsPoint is one row of the per-day earnings history.
type EarningsPoint struct {
	Date  time.Time `json:"date"`
	Total float64   `json:"total"`
}

// GetHomeData computes the dashboard aggregates. The seven reads are
// independent and run concurrently; the response is assembled once all of
// them finish.
func (dc *DashboardController) GetHomeData(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	now := time.Now()
	startOfDay := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	endOfDay := startOfDay.Add(24 * time.Hour)

	var (
		collected         float64
		pending           float64
		appointments      int64
		today             int64
		customers         int64
		todayAppointments []models.Appointment
		earningsData      []EarningsPoint
	)

	var wg sync.WaitGroup
	errs := make([]error, 7)

	wg.Add(7)
	go func() {
		defer wg.Done()
		errs[0] = dc.DB.Model(&models.Appointment{}).
			Where("user_id = ? AND status = ?", userID, models.StatusPaid).
			Select("COALESCE(SUM(cost), 0)").
			Scan(&collected).Error
	}()
	go func() {
		defer wg.Done()
		errs[1] = dc.DB.Model(&models.Appointment{}).
			Where("user_id = ? AND status = ?", userID, models.StatusPending).
			Select("COALESCE(SUM(cost), 0)").
			Scan(&pending).Error
	}()
	go func() {
		defer wg.Done()
		errs[2] = dc.DB.Model(&models.Appointment{}).
			Where("user_id = ?", userID).
			Count(&appointments).Error
	}()
	go func() {
		defer wg.Done()
		errs[3] = dc.DB.Model(&models.Appointment{}).
			Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, startOfDay, endOfDay).
			Count(&today).Error
	}()
	go func() {
		defer wg.Done()
		errs[4] = dc.DB.Model(&models.Customer{}).
			Where("user_id = ?", userID).
			Count(&customers).Error
	}()
	go func() {
		defer wg.Done()
		errs[5] = dc.DB.Preload("Customer").
			Where("user_id = ? AND start_time >= ? AND start_time < ?", userID, startOfDay, endOfDay).
			Order("start_time").
			Find(&todayAppointments).Error
	}()
	go func() {
		defer wg.Done()
		errs[6] = dc.DB.Model(&models.Appointment{}).
			Select("date, COALESCE(SUM(cost), 0) AS total").
			Where("user_id = ?", userID).
			Group("date").
			Order("date DESC").
			Scan(&earningsData).Error
	}()
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			utils.ErrorLogger.Printf("dashboard aggregation failed: %v", err)
			utils.RespondError(c, http.StatusInternalServerError, errors.New("something went wrong"))
			return
		}
	}

	utils.RespondJSON(c, http.StatusOK, "Dashboard data retrieved successfully", gin.H{
		"collected":         collected,
		"pending":           pending,
		"appointments":      appointments,
		"today":             today,
		"customers":         customers,
		"todayAppointments": todayAppointments,
		"earningsData":      earningsData,
	})
}
