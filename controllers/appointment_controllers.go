package controllers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/appointit/appointit-app/hub"
	"github.com/appointit/appointit-app/models"
	"github.com/appointit/appointit-app/utils"
)

type AppointmentController struct {
	DB *gorm.DB
}

func NewAppointmentController(db *gorm.DB) *AppointmentController {
	return &AppointmentController{DB: db}
}

type appointmentRequest struct {
	CustomerID uint      `json:"customerId" binding:"required"`
	Type       string    `json:"type" binding:"required"`
	StartTime  time.Time `json:"startTime" binding:"required"`
	EndTime    time.Time `json:"endTime" binding:"required"`
	Cost       *float64  `json:"cost" binding:"omitempty,gte=0"`
	Status     string    `json:"status" binding:"required,oneof=PENDING PAID"`
	Notes      *string   `json:"notes"`
}

// deriveDate truncates a start time to its UTC calendar day.
func deriveDate(start time.Time) time.Time {
	y, m, d := start.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// GetAllAppointments lists the user's appointments, customer included,
// optionally restricted to a [from, to] range for the calendar view.
func (ac *AppointmentController) GetAllAppointments(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	query := ac.DB.Where("user_id = ?", userID)
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid 'from' timestamp"))
			return
		}
		query = query.Where("start_time >= ?", t)
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			utils.RespondError(c, http.StatusBadRequest, errors.New("invalid 'to' timestamp"))
			return
		}
		query = query.Where("start_time < ?", t)
	}

	var appointments []models.Appointment
	if err := query.Preload("Customer").
		Order("start_time").
		Find(&appointments).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of appointments", gin.H{
		"appointments": appointments,
	})
}

// CreateAppointment inserts a new appointment owned by the authenticated user.
func (ac *AppointmentController) CreateAppointment(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !req.EndTime.After(req.StartTime) {
		utils.RespondError(c, http.StatusBadRequest, ErrEndBeforeStart)
		return
	}

	appointment := models.Appointment{
		UserID:     userID,
		CustomerID: req.CustomerID,
		Date:       deriveDate(req.StartTime),
		StartTime:  req.StartTime,
		EndTime:    req.EndTime,
		Type:       req.Type,
		Cost:       req.Cost,
		Status:     req.Status,
		Notes:      req.Notes,
	}
	if err := ac.DB.Create(&appointment).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New appointment created (ID=%d) for user %d", appointment.ID, userID)

	hub.BroadcastAppointmentUpdate(userID, appointment)
	hub.BroadcastDashboardRefresh(userID)

	utils.RespondJSON(c, http.StatusOK, "Appointment created", gin.H{
		"appointment": appointment,
	})
}

// UpdateAppointment fully replaces the editable fields and re-derives the
// calendar day.
func (ac *AppointmentController) UpdateAppointment(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))

	var req appointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}
	if !req.EndTime.After(req.StartTime) {
		utils.RespondError(c, http.StatusBadRequest, ErrEndBeforeStart)
		return
	}

	var appointment models.Appointment
	if err := ac.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&appointment).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrRecordNotFound)
		return
	}

	appointment.CustomerID = req.CustomerID
	appointment.Date = deriveDate(req.StartTime)
	appointment.StartTime = req.StartTime
	appointment.EndTime = req.EndTime
	appointment.Type = req.Type
	appointment.Cost = req.Cost
	appointment.Status = req.Status
	appointment.Notes = req.Notes
	if err := ac.DB.Save(&appointment).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastAppointmentUpdate(userID, appointment)
	hub.BroadcastDashboardRefresh(userID)

	utils.RespondJSON(c, http.StatusOK, "Appointment updated", gin.H{
		"appointment": appointment,
	})
}

// DeleteAppointment removes an appointment.
func (ac *AppointmentController) DeleteAppointment(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))

	res := ac.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Appointment{})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, ErrRecordNotFound)
		return
	}

	utils.InfoLogger.Printf("Appointment deleted (ID=%d) by user %d", id, userID)

	hub.BroadcastDashboardRefresh(userID)

	utils.RespondJSON(c, http.StatusOK, "Appointment deleted", nil)
}
