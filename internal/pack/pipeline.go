// Package pack coordinates the speaker-pack pipeline: fetch the event
// and its accepted talks, render one card per talk into a staging
// directory, zip the results, publish the archive, and clean up.
package pack

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/youruser/speakerpack/internal/apperr"
	"github.com/youruser/speakerpack/internal/archive"
	"github.com/youruser/speakerpack/internal/blob"
	"github.com/youruser/speakerpack/internal/render"
	"github.com/youruser/speakerpack/internal/store"
)

// Options configure a Pipeline.
type Options struct {
	// BaseURL is the public app host the card QR codes link under.
	BaseURL string
	// Brand is the footer line drawn on every card.
	Brand string
	// Concurrency bounds simultaneous card renders; zero means one
	// worker per CPU.
	Concurrency int
}

// Pipeline generates speaker packs. Both backends are injected; the
// pipeline holds no ambient state and is safe for concurrent runs, each
// of which stages into its own fresh temporary directory.
type Pipeline struct {
	store     store.DocumentStore
	publisher blob.Publisher
	orch      *render.Orchestrator
	logger    *slog.Logger
}

func New(st store.DocumentStore, pub blob.Publisher, opts Options, logger *slog.Logger) (*Pipeline, error) {
	composer, err := render.NewCardComposer(opts.BaseURL, opts.Brand)
	if err != nil {
		return nil, err
	}
	return &Pipeline{
		store:     st,
		publisher: pub,
		orch: &render.Orchestrator{
			Composer:    composer,
			Concurrency: opts.Concurrency,
			Logger:      logger,
		},
		logger: logger,
	}, nil
}

// Generate runs the pipeline for one event and returns the archive's
// download URL. Staging resources are removed on every exit path.
func (p *Pipeline) Generate(ctx context.Context, eventID string) (string, error) {
	if strings.TrimSpace(eventID) == "" {
		return "", apperr.E(apperr.KindInvalidArgument, "event ID is required", nil)
	}

	ev, ok, err := p.store.EventByID(ctx, eventID)
	if err != nil {
		return "", apperr.E(apperr.KindInternal, "fetching event", err)
	}
	if !ok {
		return "", apperr.E(apperr.KindNotFound, "event not found", nil)
	}

	talks, err := p.store.AcceptedTalks(ctx, eventID)
	if err != nil {
		return "", apperr.E(apperr.KindInternal, "querying talks", err)
	}
	if len(talks) == 0 {
		return "", apperr.E(apperr.KindFailedPrecondition, "no accepted talks found for this event", nil)
	}

	started := time.Now()
	stagingDir, err := os.MkdirTemp("", fmt.Sprintf("speaker_pack_%s_%d_", render.Sanitize(eventID), started.UnixMilli()))
	if err != nil {
		return "", apperr.E(apperr.KindIO, "creating staging directory", err)
	}
	archivePath := stagingDir + ".zip"
	defer p.cleanup(stagingDir, archivePath)

	evCtx := render.EventContext{
		Title:         ev.Title,
		FormattedDate: ev.FormattedDate(),
		Venue:         ev.Venue,
	}
	result, err := p.orch.RenderAll(ctx, talks, evCtx, p.store.SpeakerByID, stagingDir)
	if err != nil {
		return "", err
	}
	if len(result.Succeeded) == 0 {
		return "", apperr.E(apperr.KindRender, "every talk in the batch failed to render", nil)
	}
	p.logger.Info("batch rendered",
		"event_id", eventID,
		"succeeded", len(result.Succeeded),
		"failed", len(result.Failed))

	totalBytes, err := archive.Build(stagingDir, archivePath)
	if err != nil {
		return "", err
	}

	objectPath := fmt.Sprintf("speaker_packs/%s/speaker_pack_%d.zip", eventID, started.UnixMilli())
	url, err := p.publisher.Publish(ctx, archivePath, objectPath, "application/zip")
	if err != nil {
		return "", apperr.E(apperr.KindPublish, "publishing speaker pack", err)
	}

	p.logger.Info("speaker pack published",
		"event_id", eventID,
		"object", objectPath,
		"archive_bytes", totalBytes)
	return url, nil
}

// cleanup removes the run's staging resources. Failures are logged,
// never surfaced, so a cleanup hiccup cannot mask the pipeline outcome.
func (p *Pipeline) cleanup(stagingDir, archivePath string) {
	if err := os.RemoveAll(stagingDir); err != nil {
		p.logger.Error("removing staging directory", "path", stagingDir, "error", err)
	}
	if err := os.Remove(archivePath); err != nil && !os.IsNotExist(err) {
		p.logger.Error("removing archive file", "path", archivePath, "error", err)
	}
}
