package trip

import (
	"context"
	"encoding/json"

	"backend-travelplanner/internal/logging"

	"go.uber.org/zap"
)

// Topic is the stream topic trip events are broadcast on.
const Topic = "trips"

type Publisher interface {
	Broadcast(topic string, payload []byte)
}

type Service struct {
	store  Store
	events Publisher
	log    *zap.Logger
}

func NewService(store Store, events Publisher, log *zap.Logger) *Service {
	return &Service{store: store, events: events, log: logging.OrNop(log)}
}

func (s *Service) Save(ctx context.Context, doc Doc) (int64, error) {
	id, err := s.store.Create(ctx, doc)
	if err != nil {
		return 0, err
	}
	s.publish(Event{Type: EventCreated, ID: id, Trip: doc.WithID(id)})
	return id, nil
}

func (s *Service) List(ctx context.Context) ([]Doc, error) {
	trips, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if trips == nil {
		trips = []Doc{}
	}
	return trips, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.publish(Event{Type: EventDeleted, ID: id})
	return nil
}

func (s *Service) publish(ev Event) {
	if s.events == nil {
		return
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		s.log.Error("encode trip event", zap.Error(err))
		return
	}
	s.events.Broadcast(Topic, payload)
}
