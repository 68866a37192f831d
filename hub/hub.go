package hub

import (
	"sync"

	"github.com/gorilla/websocket"

	"github.com/appointit/appointit-app/models"
	"github.com/appointit/appointit-app/utils"
)

// Event types pushed to connected dashboards.
const (
	EventCustomerUpdate    = "customer_update"
	EventAppointmentUpdate = "appointment_update"
	EventDashboardUpdate   = "dashboard_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub tracks open dashboard connections per owning user. Events for one
// user's data are never delivered to another user's connections.
type Hub struct {
	clients map[*websocket.Conn]uint // conn -> user id
	mutex   sync.Mutex
}

var eventHub = Hub{
	clients: make(map[*websocket.Conn]uint),
}

// RegisterClient adds a connection for the given user.
func RegisterClient(conn *websocket.Conn, userID uint) {
	eventHub.mutex.Lock()
	defer eventHub.mutex.Unlock()
	eventHub.clients[conn] = userID
}

// UnregisterClient removes and closes a connection.
func UnregisterClient(conn *websocket.Conn) {
	eventHub.mutex.Lock()
	defer eventHub.mutex.Unlock()
	delete(eventHub.clients, conn)
	conn.Close()
}

// BroadcastCustomerUpdate notifies a user's dashboards of a customer change.
func BroadcastCustomerUpdate(userID uint, customer models.Customer) {
	broadcastToUser(userID, Message{
		Event: EventCustomerUpdate,
		Data:  customer,
	})
}

// BroadcastAppointmentUpdate notifies a user's dashboards of an appointment change.
func BroadcastAppointmentUpdate(userID uint, appointment models.Appointment) {
	broadcastToUser(userID, Message{
		Event: EventAppointmentUpdate,
		Data:  appointment,
	})
}

// BroadcastDashboardRefresh tells a user's dashboards to re-fetch aggregates.
func BroadcastDashboardRefresh(userID uint) {
	broadcastToUser(userID, Message{
		Event: EventDashboardUpdate,
		Data:  nil,
	})
}

func broadcastToUser(userID uint, msg Message) {
	eventHub.mutex.Lock()
	defer eventHub.mutex.Unlock()

	for conn, uid := range eventHub.clients {
		if uid != userID {
			continue
		}
		if err := conn.WriteJSON(msg); err != nil {
			if utils.ErrorLogger != nil {
				utils.ErrorLogger.Printf("hub write failed, dropping client: %v", err)
			}
			delete(eventHub.clients, conn)
			conn.Close()
		}
	}
}
