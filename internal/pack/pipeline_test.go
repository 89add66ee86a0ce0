package pack

import (
	"archive/zip"
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youruser/speakerpack/internal/apperr"
	"github.com/youruser/speakerpack/internal/event"
	"github.com/youruser/speakerpack/internal/render"
	"github.com/youruser/speakerpack/internal/store"
)

// capturePublisher keeps a copy of every published archive so tests can
// inspect contents after the pipeline deletes its staging files.
type capturePublisher struct {
	dir         string
	objectPath  string
	contentType string
	archiveCopy string
	fail        bool
	calls       int
}

func (p *capturePublisher) Publish(_ context.Context, localPath, objectPath, contentType string) (string, error) {
	p.calls++
	if p.fail {
		return "", errors.New("bucket unavailable")
	}
	p.objectPath = objectPath
	p.contentType = contentType
	p.archiveCopy = filepath.Join(p.dir, "captured.zip")

	in, err := os.Open(localPath)
	if err != nil {
		return "", err
	}
	defer in.Close()
	out, err := os.Create(p.archiveCopy)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return "", err
	}
	if err := out.Close(); err != nil {
		return "", err
	}
	return "https://storage.example.test/" + objectPath + "?alt=media&token=test", nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func seedStore(eventID string) *store.MemoryStore {
	st := store.NewMemoryStore()
	st.AddEvent(event.Event{
		ID:        eventID,
		Title:     "DevCon",
		StartDate: time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC),
		Venue:     "Main Hall",
	})
	return st
}

func newTestPipeline(t *testing.T, st *store.MemoryStore, pub *capturePublisher) *Pipeline {
	t.Helper()
	p, err := New(st, pub, Options{
		BaseURL:     "https://example.test",
		Brand:       "Example Conf",
		Concurrency: 2,
	}, discardLogger())
	require.NoError(t, err)
	return p
}

// assertNoStagingLeftovers fails if any staging directory or archive
// for the given event survived the run.
func assertNoStagingLeftovers(t *testing.T, eventID string) {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(os.TempDir(), "speaker_pack_"+render.Sanitize(eventID)+"_*"))
	require.NoError(t, err)
	assert.Empty(t, matches, "staging resources must be removed after the run")
}

func TestGeneratePartialFailureStillPublishes(t *testing.T) {
	const eventID = "evt-partial"
	st := seedStore(eventID)
	st.AddSpeaker(event.Speaker{ID: "s1", Name: "Grace Hopper", Title: "Rear Admiral"})
	st.AddTalk(event.Talk{ID: "t1", EventID: eventID, Title: "Reliable Batch Pipelines", SpeakerID: "s1", Status: event.StatusAccepted})
	st.AddTalk(event.Talk{ID: "t2", EventID: eventID, Title: "Ghost Talk", SpeakerID: "nobody", Status: event.StatusAccepted})
	st.AddTalk(event.Talk{ID: "t3", EventID: eventID, Title: "Rejected Talk", SpeakerID: "s1", Status: event.StatusRejected})

	pub := &capturePublisher{dir: t.TempDir()}
	url, err := newTestPipeline(t, st, pub).Generate(context.Background(), eventID)
	require.NoError(t, err)
	assert.NotEmpty(t, url)
	assert.Equal(t, "application/zip", pub.contentType)
	assert.Regexp(t, `^speaker_packs/evt-partial/speaker_pack_\d+\.zip$`, pub.objectPath)

	r, err := zip.OpenReader(pub.archiveCopy)
	require.NoError(t, err)
	defer r.Close()
	require.Len(t, r.File, 1, "archive must contain exactly the one successful render")
	assert.Equal(t, "grace_hopper_t1.png", r.File[0].Name)

	assertNoStagingLeftovers(t, eventID)
}

func TestGenerateEmptyEventID(t *testing.T) {
	pub := &capturePublisher{dir: t.TempDir()}
	_, err := newTestPipeline(t, seedStore("evt-x"), pub).Generate(context.Background(), "  ")
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidArgument, apperr.KindOf(err))
	assert.Zero(t, pub.calls)
}

func TestGenerateUnknownEvent(t *testing.T) {
	pub := &capturePublisher{dir: t.TempDir()}
	_, err := newTestPipeline(t, seedStore("evt-known"), pub).Generate(context.Background(), "evt-unknown")
	require.Error(t, err)
	assert.Equal(t, apperr.KindNotFound, apperr.KindOf(err))
	assert.Zero(t, pub.calls)
}

func TestGenerateNoAcceptedTalks(t *testing.T) {
	const eventID = "evt-empty"
	st := seedStore(eventID)
	st.AddSpeaker(event.Speaker{ID: "s1", Name: "Grace Hopper"})
	st.AddTalk(event.Talk{ID: "t1", EventID: eventID, Title: "Still in Review", SpeakerID: "s1", Status: event.StatusSubmitted})

	pub := &capturePublisher{dir: t.TempDir()}
	_, err := newTestPipeline(t, st, pub).Generate(context.Background(), eventID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindFailedPrecondition, apperr.KindOf(err))
	assert.Zero(t, pub.calls, "pipeline must fail before any render or publish step")
	assertNoStagingLeftovers(t, eventID)
}

func TestGenerateAllFailedBatchIsTerminal(t *testing.T) {
	const eventID = "evt-allfail"
	st := seedStore(eventID)
	st.AddTalk(event.Talk{ID: "t1", EventID: eventID, Title: "Orphan One", SpeakerID: "ghost1", Status: event.StatusAccepted})
	st.AddTalk(event.Talk{ID: "t2", EventID: eventID, Title: "Orphan Two", SpeakerID: "ghost2", Status: event.StatusAccepted})

	pub := &capturePublisher{dir: t.TempDir()}
	_, err := newTestPipeline(t, st, pub).Generate(context.Background(), eventID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindRender, apperr.KindOf(err))
	assert.Zero(t, pub.calls, "an all-failed batch must not publish an empty archive")
	assertNoStagingLeftovers(t, eventID)
}

func TestGeneratePublishFailureStillCleansUp(t *testing.T) {
	const eventID = "evt-pubfail"
	st := seedStore(eventID)
	st.AddSpeaker(event.Speaker{ID: "s1", Name: "Grace Hopper"})
	st.AddTalk(event.Talk{ID: "t1", EventID: eventID, Title: "Doomed Upload", SpeakerID: "s1", Status: event.StatusAccepted})

	pub := &capturePublisher{dir: t.TempDir(), fail: true}
	_, err := newTestPipeline(t, st, pub).Generate(context.Background(), eventID)
	require.Error(t, err)
	assert.Equal(t, apperr.KindPublish, apperr.KindOf(err))
	assert.Equal(t, 1, pub.calls)
	assertNoStagingLeftovers(t, eventID)
}

func TestGenerateDevConScenario(t *testing.T) {
	// End-to-end check: 2 accepted talks, one resolvable speaker and
	// one missing, must yield an archive with exactly one image.
	const eventID = "evt-devcon"
	st := seedStore(eventID)
	st.AddSpeaker(event.Speaker{ID: "s1", Name: "Ada Lovelace", Title: "Engineer"})
	st.AddTalk(event.Talk{ID: "t1", EventID: eventID, Title: "First Programs", SpeakerID: "s1", Status: event.StatusAccepted})
	st.AddTalk(event.Talk{ID: "t2", EventID: eventID, Title: "Missing Person", SpeakerID: "s404", Status: event.StatusAccepted})

	pub := &capturePublisher{dir: t.TempDir()}
	url, err := newTestPipeline(t, st, pub).Generate(context.Background(), eventID)
	require.NoError(t, err)
	assert.Contains(t, url, "speaker_packs/"+eventID)

	r, err := zip.OpenReader(pub.archiveCopy)
	require.NoError(t, err)
	defer r.Close()
	require.Len(t, r.File, 1)
	assert.Equal(t, "ada_lovelace_t1.png", r.File[0].Name)

	assertNoStagingLeftovers(t, eventID)
}
