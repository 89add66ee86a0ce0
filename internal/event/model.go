// Package event holds the conference domain documents: events, talks,
// speakers and talk feedback. These mirror the shapes stored in the
// document store and carry no behavior beyond formatting helpers.
package event

import "time"

// TalkStatus is the review state of a submitted talk.
type TalkStatus string

const (
	StatusSubmitted TalkStatus = "submitted"
	StatusAccepted  TalkStatus = "accepted"
	StatusRejected  TalkStatus = "rejected"
)

type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"`
	Venue     string    `json:"venue"`
}

// FormattedDate renders the start date the way the promo cards print it,
// e.g. "January 1, 2025".
func (e Event) FormattedDate() string {
	return e.StartDate.Format("January 2, 2006")
}

type Talk struct {
	ID        string     `json:"id"`
	EventID   string     `json:"event_id"`
	Title     string     `json:"title"`
	SpeakerID string     `json:"speaker_id"`
	Tags      []string   `json:"tags,omitempty"`
	Status    TalkStatus `json:"status"`
	// SubmittedAt feeds the insights submission trend; talks without
	// one are left out of that series.
	SubmittedAt time.Time `json:"submitted_at,omitempty"`
}

type Speaker struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title,omitempty"`
}

// Feedback is an attendee rating for a talk, used by the insights report.
type Feedback struct {
	ID     string `json:"id"`
	TalkID string `json:"talk_id"`
	Rating int    `json:"rating"`
}
