package events

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/dvircohen/repair-track/models"
)

// Event types pushed to connected admin UIs.
const (
	EventRepairCreate  = "repair_create"
	EventRepairUpdate  = "repair_update"
	EventRepairDelete  = "repair_delete"
	EventHistoryAppend = "history_append"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub holds every connected client (admin, technician, clerk screens) for
// broadcast.
type Hub struct {
	clients map[*websocket.Conn]string // conn -> role
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[*websocket.Conn]string),
}

// RegisterClient adds a connection with its role.
func RegisterClient(conn *websocket.Conn, role string) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[conn] = role
}

// UnregisterClient drops a connection and closes it.
func UnregisterClient(conn *websocket.Conn) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	delete(hub.clients, conn)
	conn.Close()
}

// BroadcastRepairCreate announces a new repair record.
func BroadcastRepairCreate(repair models.Repair) {
	broadcast(Message{Event: EventRepairCreate, Data: repair})
}

// BroadcastRepairUpdate announces the updated record.
func BroadcastRepairUpdate(repair models.Repair) {
	broadcast(Message{Event: EventRepairUpdate, Data: repair})
}

// BroadcastRepairDelete announces a soft-deleted record.
func BroadcastRepairDelete(repair models.Repair) {
	broadcast(Message{Event: EventRepairDelete, Data: repair})
}

// BroadcastHistoryAppend pushes the changeset of a successful update so
// open history views refresh without polling.
func BroadcastHistoryAppend(repairID uint, changes []models.ChangeEntry) {
	broadcast(Message{
		Event: EventHistoryAppend,
		Data: map[string]interface{}{
			"repairId": repairID,
			"changes":  changes,
		},
	})
}

func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling event: %v", err)
		return
	}

	for conn, role := range hub.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			log.Printf("Error sending event to %s client: %v", role, err)
			continue
		}
	}
}
