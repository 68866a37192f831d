package main

import (
	"bytes"
	"encoding/json"
	"log"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/appointit/appointit-app/models"
	"github.com/appointit/appointit-app/router"
	"github.com/appointit/appointit-app/utils"
)

func TestMain(m *testing.M) {
	utils.InitLogger()
	utils.RegisterValidators()
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

// TestEndToEndIntegration walks the main flow:
// 1. Register a user and log in for a token
// 2. Create a customer
// 3. Create an appointment for that customer
// 4. Check the dashboard aggregates
// 5. Log out and verify the token is rejected
func TestEndToEndIntegration(t *testing.T) {
	db := setupIntegrationDB()
	r := router.SetupRouter(db)

	token := registerAndLogin(t, r)

	customerID := createCustomerTest(t, r, token)
	createAppointmentTest(t, r, token, customerID)
	checkDashboardTest(t, r, token)
	logoutTest(t, r, token)
}

func setupIntegrationDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		DisableForeignKeyConstraintWhenMigrating: true,
	})
	if err != nil {
		log.Fatalf("failed to open in-memory sqlite: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Customer{},
		&models.Appointment{},
	); err != nil {
		log.Fatalf("failed to migrate: %v", err)
	}
	return db
}

func request(t *testing.T, r *gin.Engine, method, path, token string, payload interface{}) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		b, err := json.Marshal(payload)
		assert.NoError(t, err)
		body = bytes.NewBuffer(b)
	} else {
		body = bytes.NewBuffer(nil)
	}

	req, err := http.NewRequest(method, path, body)
	assert.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func dataOf(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	var resp map[string]interface{}
	assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	data, _ := resp["data"].(map[string]interface{})
	return data
}

func registerAndLogin(t *testing.T, r *gin.Engine) string {
	w := request(t, r, "POST", "/register", "", map[string]string{
		"username": "integration",
		"email":    "integration@example.com",
		"password": "secret12345",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = request(t, r, "POST", "/login", "", map[string]string{
		"email":    "integration@example.com",
		"password": "secret12345",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	token, _ := dataOf(t, w)["token"].(string)
	assert.NotEmpty(t, token)
	return token
}

func createCustomerTest(t *testing.T, r *gin.Engine, token string) uint {
	// unauthenticated write is refused
	w := request(t, r, "POST", "/api/customers", "", map[string]string{
		"name": "Mario", "surname": "Rossi", "email": "mario@example.com",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = request(t, r, "POST", "/api/customers", token, map[string]string{
		"name":        "Mario",
		"surname":     "Rossi",
		"email":       "mario@example.com",
		"phoneNumber": "+393331234567",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	customer := dataOf(t, w)["customer"].(map[string]interface{})
	return uint(customer["id"].(float64))
}

func createAppointmentTest(t *testing.T, r *gin.Engine, token string, customerID uint) {
	w := request(t, r, "POST", "/api/appointments", token, map[string]interface{}{
		"customerId": customerID,
		"type":       "Haircut",
		"startTime":  "2024-03-01T10:00:00Z",
		"endTime":    "2024-03-01T11:00:00Z",
		"cost":       35.0,
		"status":     "PAID",
		"notes":      "first visit",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	appointment := dataOf(t, w)["appointment"].(map[string]interface{})
	assert.Equal(t, "PAID", appointment["status"])

	w = request(t, r, "GET", "/api/appointments", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	appointments := dataOf(t, w)["appointments"].([]interface{})
	assert.Len(t, appointments, 1)

	joined := appointments[0].(map[string]interface{})["customer"].(map[string]interface{})
	assert.Equal(t, "Rossi", joined["surname"])
}

func checkDashboardTest(t *testing.T, r *gin.Engine, token string) {
	w := request(t, r, "GET", "/api/dashboard", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	data := dataOf(t, w)
	assert.Equal(t, 35.0, data["collected"])
	assert.Equal(t, 0.0, data["pending"])
	assert.Equal(t, float64(1), data["appointments"])
	assert.Equal(t, float64(1), data["customers"])

	earnings := data["earningsData"].([]interface{})
	assert.Len(t, earnings, 1)
	assert.Equal(t, 35.0, earnings[0].(map[string]interface{})["total"])
}

// TestWebSocketEvents verifies the live events endpoint: the token travels
// in the query string (browser WebSocket clients cannot set headers), and a
// customer mutation is pushed to the owner's open connection.
func TestWebSocketEvents(t *testing.T) {
	db := setupIntegrationDB()
	r := router.SetupRouter(db)
	token := registerAndLogin(t, r)

	srv := httptest.NewServer(r)
	defer srv.Close()
	wsBase := "ws" + strings.TrimPrefix(srv.URL, "http") + "/api/events/ws"

	// no token -> handshake refused
	_, resp, err := websocket.DefaultDialer.Dial(wsBase, nil)
	assert.Error(t, err)
	if resp != nil {
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsBase+"?token="+token, nil)
	assert.NoError(t, err)
	defer conn.Close()

	// give the handler a moment to register the connection with the hub
	time.Sleep(100 * time.Millisecond)

	w := request(t, r, "POST", "/api/customers", token, map[string]string{
		"name":    "Mario",
		"surname": "Rossi",
		"email":   "mario@example.com",
	})
	assert.Equal(t, http.StatusOK, w.Code)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg struct {
		Event string                 `json:"event"`
		Data  map[string]interface{} `json:"data"`
	}
	assert.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "customer_update", msg.Event)
	assert.Equal(t, "Mario", msg.Data["name"])
}

func logoutTest(t *testing.T, r *gin.Engine, token string) {
	w := request(t, r, "POST", "/api/logout", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	// the revoked token no longer opens the door
	w = request(t, r, "GET", "/api/customers", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
