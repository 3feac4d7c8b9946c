package goposthog

import (
	"context"
	"errors"
	"sync"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"

	"github.com/sadewadee/linkedin-jobs-scraper/tlmt"
)

type service struct {
	client     posthog.Client
	distinctID string
	closeOnce  sync.Once
}

// New returns a PostHog-backed telemetry sink. The distinct ID is random per
// process, events are never tied to a user.
func New(apiKey, endpoint string) (tlmt.Telemetry, error) {
	if apiKey == "" {
		return nil, errors.New("posthog api key is empty")
	}

	client, err := posthog.NewWithConfig(apiKey, posthog.Config{
		Endpoint: endpoint,
	})
	if err != nil {
		return nil, err
	}

	return &service{
		client:     client,
		distinctID: uuid.New().String(),
	}, nil
}

func (s *service) Send(_ context.Context, event tlmt.Event) error {
	props := posthog.NewProperties()
	for k, v := range event.Properties {
		props.Set(k, v)
	}

	return s.client.Enqueue(posthog.Capture{
		DistinctId: s.distinctID,
		Event:      event.Name,
		Properties: props,
	})
}

func (s *service) Close() error {
	var err error

	s.closeOnce.Do(func() {
		err = s.client.Close()
	})

	return err
}
