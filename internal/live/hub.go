package live

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"
	"time"

	"github.com/inkthread/inkthread/backend-go/internal/placement"
)

// ConfigLoader fetches a design's persisted configuration when a room opens.
type ConfigLoader func(ctx context.Context, designID string) (placement.DesignConfig, error)

// ConfigSaver persists a room's configuration when it winds down.
type ConfigSaver func(ctx context.Context, designID string, cfg placement.DesignConfig) error

// AreaLoader fetches the print areas of the product a design customizes.
// Sides without a configured area fall back to the engine defaults.
type AreaLoader func(ctx context.Context, designID string) (map[placement.Side]placement.PrintArea, error)

const persistTimeout = 5 * time.Second

type Hub struct {
	mu         sync.RWMutex
	rooms      map[string]*Room // designID -> room
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	stopped    chan struct{}

	loader ConfigLoader
	saver  ConfigSaver
	areas  AreaLoader
}

func NewHub(loader ConfigLoader, saver ConfigSaver, areas AreaLoader) *Hub {
	return &Hub{
		rooms:      make(map[string]*Room),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		stopped:    make(chan struct{}),
		loader:     loader,
		saver:      saver,
		areas:      areas,
	}
}

func (h *Hub) Run() {
	defer close(h.stopped)
	for {
		select {
		case client := <-h.register:
			h.addClient(client)
		case client := <-h.unregister:
			h.removeClient(client)
		case <-h.done:
			h.persistAll()
			return
		}
	}
}

// Stop persists every open room and shuts the hub loop down. Called during
// server shutdown, before in-flight websocket contexts are cancelled.
func (h *Hub) Stop() {
	close(h.done)
	<-h.stopped
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DesignID]
	if !ok {
		room = h.openRoom(client.DesignID)
		h.rooms[client.DesignID] = room
	}
	room.clients[client.ClientID] = client
	h.mu.Unlock()

	welcome, _ := json.Marshal(WelcomePayload{ClientID: client.ClientID})
	client.Send(&Message{Type: TypeWelcome, DesignID: client.DesignID, Payload: welcome})
	client.Send(room.StateMessage())

	joinPayload, _ := json.Marshal(PresenceJoinPayload{
		UserID:      client.UserID,
		DisplayName: client.DisplayName,
	})
	joinMsg := &Message{
		Type:    TypePresenceJoin,
		UserID:  client.UserID,
		Payload: joinPayload,
	}
	h.broadcastToRoom(client.DesignID, joinMsg, client.ClientID)

	slog.Info("client joined", "user", client.UserID, "design", client.DesignID)
}

func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	room, ok := h.rooms[client.DesignID]
	if !ok {
		h.mu.Unlock()
		return
	}

	delete(room.clients, client.ClientID)
	close(client.send)

	lastOut := len(room.clients) == 0
	if lastOut {
		delete(h.rooms, client.DesignID)
	}
	h.mu.Unlock()

	if lastOut {
		h.persistRoom(room)
		room.engine.Close()
	} else {
		leavePayload, _ := json.Marshal(PresenceLeavePayload{UserID: client.UserID})
		leaveMsg := &Message{
			Type:    TypePresenceLeave,
			UserID:  client.UserID,
			Payload: leavePayload,
		}
		h.broadcastToRoom(client.DesignID, leaveMsg, "")
	}

	slog.Info("client left", "user", client.UserID, "design", client.DesignID)
}

func (h *Hub) handleMessage(sender *Client, msg *Message) {
	switch msg.Type {
	case TypeCommand:
		h.handleCommand(sender, msg)
	default:
		slog.Warn("unknown message type", "type", msg.Type, "user", sender.UserID)
	}
}

func (h *Hub) handleCommand(sender *Client, msg *Message) {
	var cmd Command
	if err := json.Unmarshal(msg.Payload, &cmd); err != nil {
		slog.Warn("invalid command payload", "error", err, "user", sender.UserID)
		return
	}

	h.mu.RLock()
	room, ok := h.rooms[sender.DesignID]
	h.mu.RUnlock()
	if !ok {
		return
	}

	if err := room.Apply(cmd); err != nil {
		reason, _ := json.Marshal(ErrorPayload{Reason: err.Error()})
		sender.Send(&Message{Type: TypeError, Payload: reason})
		return
	}

	// Everyone, sender included, renders from the authoritative snapshot.
	h.broadcastToRoom(sender.DesignID, room.StateMessage(), "")
}

func (h *Hub) broadcastToRoom(designID string, msg *Message, excludeClientID string) {
	h.mu.RLock()
	room, ok := h.rooms[designID]
	if !ok {
		h.mu.RUnlock()
		return
	}

	clients := make([]*Client, 0, len(room.clients))
	for _, c := range room.clients {
		if c.ClientID != excludeClientID {
			clients = append(clients, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range clients {
		c.Send(msg)
	}
}

// openRoom builds a room around a fresh engine: the product's print areas
// (when configured) and the design's persisted configuration. Load failures
// leave the room on engine defaults rather than refusing the connection.
func (h *Hub) openRoom(designID string) *Room {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()

	var opts []placement.Option
	if h.areas != nil {
		areas, err := h.areas(ctx, designID)
		if err != nil {
			slog.Error("load print areas", "error", err, "design", designID)
		} else if len(areas) > 0 {
			opts = append(opts, placement.WithRegistry(placement.NewRegistryWithAreas(areas)))
		}
	}

	room := NewRoom(designID, opts...)

	if h.loader != nil {
		cfg, err := h.loader(ctx, designID)
		if err != nil {
			slog.Error("load design config", "error", err, "design", designID)
		} else if err := room.engine.RestoreConfig(cfg); err != nil {
			slog.Error("restore design config", "error", err, "design", designID)
		}
	}
	return room
}

func (h *Hub) persistRoom(room *Room) {
	if h.saver == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := h.saver(ctx, room.designID, room.Config()); err != nil {
		slog.Error("persist design config", "error", err, "design", room.designID)
	}
}

func (h *Hub) persistAll() {
	h.mu.Lock()
	rooms := make([]*Room, 0, len(h.rooms))
	for id, room := range h.rooms {
		rooms = append(rooms, room)
		delete(h.rooms, id)
	}
	h.mu.Unlock()

	for _, room := range rooms {
		h.persistRoom(room)
		room.engine.Close()
	}
}
