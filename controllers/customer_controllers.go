package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/appointit/appointit-app/hub"
	"github.com/appointit/appointit-app/models"
	"github.com/appointit/appointit-app/utils"
)

type CustomerController struct {
	DB *gorm.DB
}

func NewCustomerController(db *gorm.DB) *CustomerController {
	return &CustomerController{DB: db}
}

type customerRequest struct {
	Name        string `json:"name" binding:"required"`
	Surname     string `json:"surname" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	PhoneNumber string `json:"phoneNumber" binding:"omitempty,phone"`
}

// GetAllCustomers lists the authenticated user's customers.
func (cc *CustomerController) GetAllCustomers(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var customers []models.Customer
	if err := cc.DB.Where("user_id = ?", userID).
		Order("surname, name").
		Find(&customers).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "List of customers", gin.H{
		"customers": customers,
	})
}

// GetCustomerByID returns one customer, used by the edit form.
func (cc *CustomerController) GetCustomerByID(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))

	var customer models.Customer
	if err := cc.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrRecordNotFound)
		return
	}

	utils.RespondJSON(c, http.StatusOK, "Customer detail", gin.H{
		"customer": customer,
	})
}

// CreateCustomer inserts a new customer owned by the authenticated user.
func (cc *CustomerController) CreateCustomer(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.RespondError(c, http.StatusUnauthorized, errors.New("user id not found in context"))
		return
	}

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	customer := models.Customer{
		UserID:      userID,
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		PhoneNumber: req.PhoneNumber,
	}
	if err := cc.DB.Create(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	utils.InfoLogger.Printf("New customer created (ID=%d) for user %d", customer.ID, userID)

	hub.BroadcastCustomerUpdate(userID, customer)
	hub.BroadcastDashboardRefresh(userID)

	utils.RespondJSON(c, http.StatusOK, "Customer created", gin.H{
		"customer": customer,
	})
}

// UpdateCustomer fully replaces the four editable fields.
func (cc *CustomerController) UpdateCustomer(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))

	var req customerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, err)
		return
	}

	var customer models.Customer
	if err := cc.DB.Where("id = ? AND user_id = ?", id, userID).
		First(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusNotFound, ErrRecordNotFound)
		return
	}

	customer.Name = req.Name
	customer.Surname = req.Surname
	customer.Email = req.Email
	customer.PhoneNumber = req.PhoneNumber
	if err := cc.DB.Save(&customer).Error; err != nil {
		utils.RespondError(c, http.StatusInternalServerError, err)
		return
	}

	hub.BroadcastCustomerUpdate(userID, customer)

	utils.RespondJSON(c, http.StatusOK, "Customer updated", gin.H{
		"customer": customer,
	})
}

// DeleteCustomer removes a customer. Appointments referencing it are left
// untouched, their customerId dangles.
func (cc *CustomerController) DeleteCustomer(c *gin.Context) {
	userID, _ := currentUserID(c)
	id, _ := strconv.Atoi(c.Param("id"))

	res := cc.DB.Where("id = ? AND user_id = ?", id, userID).
		Delete(&models.Customer{})
	if res.Error != nil {
		utils.RespondError(c, http.StatusInternalServerError, res.Error)
		return
	}
	if res.RowsAffected == 0 {
		utils.RespondError(c, http.StatusNotFound, ErrRecordNotFound)
		return
	}

	utils.InfoLogger.Printf("Customer deleted (ID=%d) by user %d", id, userID)

	hub.BroadcastDashboardRefresh(userID)

	utils.RespondJSON(c, http.StatusOK, "Customer deleted", nil)
}
