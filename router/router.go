package router

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/appointit/appointit-app/controllers"
	"github.com/appointit/appointit-app/middlewares"
)

func SetupRouter(db *gorm.DB) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.Use(middlewares.SecurityHeaders())
	r.Use(middlewares.CORSMiddlewares())
	r.Use(middlewares.LoggerMiddleware())

	userCtrl := controllers.NewUserController(db)
	customerCtrl := controllers.NewCustomerController(db)
	appointmentCtrl := controllers.NewAppointmentController(db)
	dashboardCtrl := controllers.NewDashboardController(db)

	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})

	// ----------------------------------------------------------------
	//                      PUBLIC ROUTES
	// ----------------------------------------------------------------
	public := r.Group("/")
	public.Use(middlewares.NewStrictRateLimiter())
	{
		public.POST("/register", userCtrl.Register)
		public.POST("/login", userCtrl.Login)
	}

	// ----------------------------------------------------------------
	//                      AUTHENTICATED ROUTES
	// ----------------------------------------------------------------
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware())

	api.GET("/profile", userCtrl.GetProfile)
	api.POST("/logout", userCtrl.Logout)

	// CUSTOMERS
	api.GET("/customers", customerCtrl.GetAllCustomers)
	api.GET("/customers/:id", customerCtrl.GetCustomerByID)
	api.POST("/customers", customerCtrl.CreateCustomer)
	api.PUT("/customers/:id", customerCtrl.UpdateCustomer)
	api.DELETE("/customers/:id", customerCtrl.DeleteCustomer)

	// APPOINTMENTS
	api.GET("/appointments", appointmentCtrl.GetAllAppointments)
	api.POST("/appointments", appointmentCtrl.CreateAppointment)
	api.PUT("/appointments/:id", appointmentCtrl.UpdateAppointment)
	api.DELETE("/appointments/:id", appointmentCtrl.DeleteAppointment)

	// DASHBOARD
	api.GET("/dashboard", dashboardCtrl.GetHomeData)

	// Live data-change events for open dashboards. Browser WebSocket
	// clients cannot send an Authorization header, so this route takes
	// its token from the query string.
	r.GET("/api/events/ws", middlewares.WebSocketAuthMiddleware(), controllers.EventsHandler)

	return r
}
