// Package store defines the document-store read surface the service
// depends on, plus an in-memory implementation used for local runs and
// tests. The production store lives outside this process; the pipeline
// only ever sees this interface.
package store

import (
	"context"

	"github.com/youruser/speakerpack/internal/event"
)

// DocumentStore is the read-only view over the conference documents.
// Lookups report presence with the bool result; the error is reserved
// for transport or backend failures.
type DocumentStore interface {
	EventByID(ctx context.Context, id string) (event.Event, bool, error)
	AcceptedTalks(ctx context.Context, eventID string) ([]event.Talk, error)
	SpeakerByID(ctx context.Context, id string) (event.Speaker, bool, error)

	AllTalks(ctx context.Context) ([]event.Talk, error)
	AllSpeakers(ctx context.Context) ([]event.Speaker, error)
	AllFeedback(ctx context.Context) ([]event.Feedback, error)
}
