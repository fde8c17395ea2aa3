package mq

import (
	"context"
	"encoding/json"
	"log"

	"shophub/rdx"
)

// Index represents a catalog-indexing message emitted after item mutations.
type Index struct {
	EntityType string `json:"entity_type"`
	Method     string `json:"method"`
	EntityId   string `json:"entity_id"`
}

const indexChannel = "indexing-events"

// Emit publishes an indexing event to Redis. Failures are logged, never
// surfaced; indexing is best effort and must not block the write path.
func Emit(ctx context.Context, eventName string, content Index) {
	data, err := json.Marshal(content)
	if err != nil {
		log.Printf("[Emit] Failed to marshal event content: %v", err)
		return
	}

	if err := rdx.Conn.Publish(ctx, indexChannel, data).Err(); err != nil {
		log.Printf("[Emit] Failed to publish %s event: %v", eventName, err)
	}
}

// StartIndexingWorker consumes indexing events. The current worker only logs
// them; a search backend can hook in here.
func StartIndexingWorker() {
	ctx := context.Background()
	sub := rdx.Conn.Subscribe(ctx, indexChannel)
	ch := sub.Channel()

	log.Println("[IndexingWorker] Listening for indexing events...")

	for msg := range ch {
		var event Index
		if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
			log.Printf("[IndexingWorker] Failed to parse event: %v", err)
			continue
		}
		log.Printf("[IndexingWorker] %s %s %s", event.Method, event.EntityType, event.EntityId)
	}
}
