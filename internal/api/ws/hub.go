package ws

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	snapshotv1 "github.com/muhammadchandra19/market-sim/internal/domain/snapshot/v1"
	"github.com/muhammadchandra19/market-sim/internal/infra/metrics"
	"github.com/muhammadchandra19/market-sim/pkg/logger"
)

// CommandSink receives observer commands and connection events from the hub.
// The simulation controller implements this.
type CommandSink interface {
	HandleCommand(text string)
	SubscriberConnected(subscriber snapshotv1.Receiver)
}

// Hub upgrades inbound connections and maintains the set of connected
// observers. Broadcasts never block: each client has a bounded send buffer
// and a client that cannot keep up is dropped, not retried.
type Hub struct {
	sink     CommandSink
	logger   *logger.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*Client]struct{}
}

// NewHub creates a hub forwarding commands and connection events to sink.
func NewHub(sink CommandSink, logger *logger.Logger) *Hub {
	return &Hub{
		sink:   sink,
		logger: logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		clients: make(map[*Client]struct{}),
	}
}

// ServeHTTP upgrades the connection, registers the observer and hands it to
// the sink so the current snapshot is delivered to this observer only.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", logger.Field{
			Key:   "error",
			Value: err.Error(),
		})
		return
	}

	client := newClient(h, conn)
	h.add(client)

	go client.writePump()
	go client.readPump()

	h.sink.SubscriberConnected(client)

	h.logger.Info("observer connected", logger.Field{
		Key:   "remoteAddr",
		Value: conn.RemoteAddr().String(),
	})
}

// Broadcast marshals the snapshot once and fans it out to every connected
// observer. Observers whose send buffer is full are dropped.
func (h *Hub) Broadcast(snap snapshotv1.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		h.logger.Error(err, logger.Field{Key: "action", Value: "marshal_snapshot"})
		return
	}

	var stale []*Client
	h.mu.Lock()
	for client := range h.clients {
		if !client.enqueue(payload) {
			stale = append(stale, client)
		}
	}
	h.mu.Unlock()

	for _, client := range stale {
		metrics.DroppedClientsTotal.Inc()
		h.drop(client, "send buffer full")
	}
}

// ClientCount returns the number of currently connected observers.
func (h *Hub) ClientCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Close disconnects every observer. Used on shutdown.
func (h *Hub) Close() {
	h.mu.Lock()
	clients := make([]*Client, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.mu.Unlock()

	for _, client := range clients {
		h.drop(client, "hub closing")
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	h.clients[client] = struct{}{}
	metrics.ConnectedClients.Set(float64(len(h.clients)))
	h.mu.Unlock()
}

// drop removes the observer from the registry and closes it. Safe to call
// more than once per client.
func (h *Hub) drop(client *Client, reason string) {
	h.mu.Lock()
	_, present := h.clients[client]
	delete(h.clients, client)
	metrics.ConnectedClients.Set(float64(len(h.clients)))
	h.mu.Unlock()

	client.close()

	if present {
		h.logger.Info("observer disconnected", logger.Field{
			Key:   "reason",
			Value: reason,
		})
	}
}
