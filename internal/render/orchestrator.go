package render

import (
	"context"
	"errors"
	"fmt"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/youruser/speakerpack/internal/apperr"
	"github.com/youruser/speakerpack/internal/event"
)

// SpeakerLookup resolves a speaker id; ok is false when no such speaker
// exists.
type SpeakerLookup func(ctx context.Context, id string) (event.Speaker, bool, error)

// RenderedImage is one card written to the staging directory.
type RenderedImage struct {
	TalkID string
	Path   string
	Bytes  int64
}

// Failure records a talk whose render did not complete.
type Failure struct {
	TalkID string
	Reason string
}

// BatchResult partitions a batch render. Both sequences are ordered by
// the input talk order regardless of completion order.
type BatchResult struct {
	Succeeded []RenderedImage
	Failed    []Failure
}

// Orchestrator fans out card renders across a bounded worker pool.
type Orchestrator struct {
	Composer *CardComposer

	// Concurrency bounds the number of simultaneous renders. Zero or
	// negative means one worker per CPU.
	Concurrency int

	Logger *slog.Logger
}

var errSpeakerNotFound = errors.New("speaker not found")

// RenderAll renders one card per talk into stagingDir. A talk whose
// speaker is missing or whose code fails to encode becomes a Failure
// entry and never aborts the rest of the batch; staging filesystem
// errors are fatal and abort the run. Results land in a slot per input
// index, so the returned sequences follow input order even though
// renders complete out of order.
func (o *Orchestrator) RenderAll(ctx context.Context, talks []event.Talk, ev EventContext, lookup SpeakerLookup, stagingDir string) (BatchResult, error) {
	workers := o.Concurrency
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type slot struct {
		img   *RenderedImage
		fail  *Failure
		fatal error
	}
	slots := make([]slot, len(talks))

	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup
	for i, talk := range talks {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, talk event.Talk) {
			defer wg.Done()
			defer func() { <-sem }()

			img, err := o.renderOne(ctx, talk, ev, lookup, stagingDir)
			switch {
			case err == nil:
				slots[i].img = img
			case apperr.KindOf(err) == apperr.KindIO:
				slots[i].fatal = err
			default:
				o.Logger.Warn("talk render failed",
					"talk_id", talk.ID, "error", err)
				slots[i].fail = &Failure{TalkID: talk.ID, Reason: failureReason(err)}
			}
		}(i, talk)
	}
	wg.Wait()

	var result BatchResult
	for _, s := range slots {
		if s.fatal != nil {
			return BatchResult{}, s.fatal
		}
	}
	for _, s := range slots {
		switch {
		case s.img != nil:
			result.Succeeded = append(result.Succeeded, *s.img)
		case s.fail != nil:
			result.Failed = append(result.Failed, *s.fail)
		}
	}
	return result, nil
}

func (o *Orchestrator) renderOne(ctx context.Context, talk event.Talk, ev EventContext, lookup SpeakerLookup, stagingDir string) (*RenderedImage, error) {
	speaker, ok, err := lookup(ctx, talk.SpeakerID)
	if err != nil {
		return nil, fmt.Errorf("speaker lookup: %w", err)
	}
	if !ok {
		return nil, errSpeakerNotFound
	}

	img, err := o.Composer.Compose(talk, speaker, ev)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(stagingDir, FileName(speaker.Name, talk.ID))
	f, err := os.Create(path)
	if err != nil {
		return nil, apperr.E(apperr.KindIO, "creating staging file", err)
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return nil, apperr.E(apperr.KindIO, "writing staging file", err)
	}
	if err := f.Close(); err != nil {
		return nil, apperr.E(apperr.KindIO, "closing staging file", err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, apperr.E(apperr.KindIO, "sizing staging file", err)
	}
	return &RenderedImage{TalkID: talk.ID, Path: path, Bytes: info.Size()}, nil
}

// failureReason keeps batch failure entries terse and stable for
// callers that match on them.
func failureReason(err error) string {
	if errors.Is(err, errSpeakerNotFound) {
		return "speaker not found"
	}
	return apperr.Message(err)
}

// FileName derives the staging file name for a card. Both parts are
// sanitized to lower-case letters, digits and underscores; the talk id
// suffix keeps names unique even when two speakers share a name.
func FileName(speakerName, talkID string) string {
	return Sanitize(speakerName) + "_" + Sanitize(talkID) + ".png"
}

// Sanitize lower-cases s and replaces every character outside [a-z0-9]
// with an underscore.
func Sanitize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToLower(s) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}
