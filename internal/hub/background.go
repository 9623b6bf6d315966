package hub

import (
	"context"
	"encoding/json"
	"log/slog"
	"neonttt/Tic-Tac-Toe/internal/events"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// runEventSubscriber decodes global events and hands them to the Run loop.
func (h *Hub) runEventSubscriber(ctx context.Context) {
	slog.InfoContext(ctx, "Event subscriber started", "channel", events.EventsChannel)
	pubsub := h.rdb.Subscribe(ctx, events.EventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			event, err := decodeEvent(ctx, msg.Payload)
			if err != nil {
				continue
			}
			select {
			case h.events <- event:
			case <-ctx.Done():
				return
			}
		}
	}
}

func decodeEvent(ctx context.Context, payload string) (events.Event, error) {
	_, span := tracer.Start(ctx, "hub.decodeEvent", trace.WithAttributes(
		attribute.String("event.channel", events.EventsChannel),
	))
	defer span.End()

	var event events.Event
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		slog.ErrorContext(ctx, "Could not unmarshal global event", "error", err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "Could not unmarshal global event")
		return event, err
	}
	span.SetAttributes(attribute.String("event.type", event.Type))
	return event, nil
}
