package stream

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/SonBao99/gps-map-app/internal/track"

	"github.com/redis/go-redis/v9"
)

// Hub fans live track snapshots out to WebSocket subscribers, with redis
// pub/sub bridging instances.
type Hub struct {
	redis   *redis.Client
	clients map[string]map[*Client]struct{}
	mu      sync.RWMutex
}

type Client struct {
	TrackID string
	Send    chan []byte
}

func NewHub(redisClient *redis.Client) *Hub {
	h := &Hub{
		redis:   redisClient,
		clients: map[string]map[*Client]struct{}{},
	}

	if redisClient != nil {
		go h.subscribeRedis()
	}
	return h
}

func (h *Hub) Register(trackID string) *Client {
	client := &Client{
		TrackID: trackID,
		Send:    make(chan []byte, 64),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[trackID] == nil {
		h.clients[trackID] = map[*Client]struct{}{}
	}
	h.clients[trackID][client] = struct{}{}
	return client
}

func (h *Hub) Unregister(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if trackClients, ok := h.clients[client.TrackID]; ok {
		delete(trackClients, client)
		if len(trackClients) == 0 {
			delete(h.clients, client.TrackID)
		}
	}
	close(client.Send)
}

// BroadcastSnapshot publishes a stats snapshot to every subscriber of the
// track, locally and through redis.
func (h *Hub) BroadcastSnapshot(trackID string, snap track.Snapshot) {
	payload, err := json.Marshal(snap)
	if err != nil {
		log.Printf("snapshot marshal error: %v", err)
		return
	}
	h.Broadcast(trackID, payload)
}

func (h *Hub) Broadcast(trackID string, payload []byte) {
	h.deliver(trackID, payload)

	if h.redis != nil {
		err := h.redis.Publish(context.Background(), redisChannel(trackID), payload).Err()
		if err != nil {
			log.Printf("redis publish error: %v", err)
		}
	}
}

func (h *Hub) deliver(trackID string, payload []byte) {
	h.mu.RLock()
	clients := h.clients[trackID]
	h.mu.RUnlock()

	for client := range clients {
		select {
		case client.Send <- payload:
		default:
		}
	}
}

func (h *Hub) subscribeRedis() {
	ctx := context.Background()
	pubsub := h.redis.PSubscribe(ctx, "track:*:updates")
	defer pubsub.Close()

	for msg := range pubsub.Channel() {
		h.deliver(trackIDFromChannel(msg.Channel), []byte(msg.Payload))
	}
}

func redisChannel(trackID string) string {
	return "track:" + trackID + ":updates"
}

func trackIDFromChannel(ch string) string {
	// track:{id}:updates
	const prefix = "track:"
	const suffix = ":updates"
	if len(ch) <= len(prefix)+len(suffix) {
		return ""
	}
	return ch[len(prefix) : len(ch)-len(suffix)]
}
