package uploader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"clearlogo/internal/artwork"
	"clearlogo/internal/locations"
	"clearlogo/internal/logging"
	"clearlogo/internal/plex"
)

// Options carries the run-mode flags.
type Options struct {
	// Verbose emits a per-item diagnostic line instead of the progress
	// indicator.
	Verbose bool
	// UploadAll ignores the existing-artwork skip.
	UploadAll bool
	// DryRun performs all discovery but never calls the upload action.
	DryRun bool
	// Delay is the pause after each successful upload.
	Delay time.Duration
}

// Statistics holds the per-run counters, reported once at the end.
type Statistics struct {
	Scanned  int
	Matched  int
	Uploaded int
}

// Recorder persists successful uploads. A nil Recorder disables recording;
// a failing one is logged and ignored.
type Recorder interface {
	RecordUpload(ctx context.Context, ratingKey, title, logoPath string) error
}

// Orchestrator iterates sections and items and owns the run statistics.
type Orchestrator struct {
	client   plex.Client
	lmap     *locations.Map
	opts     Options
	logger   *slog.Logger
	out      io.Writer
	recorder Recorder
	sleep    func(time.Duration)
}

// New constructs an orchestrator writing human-facing output to stdout.
func New(client plex.Client, lmap *locations.Map, opts Options, logger *slog.Logger) *Orchestrator {
	return &Orchestrator{
		client: client,
		lmap:   lmap,
		opts:   opts,
		logger: logging.NewComponentLogger(logger, "uploader"),
		out:    os.Stdout,
		sleep:  time.Sleep,
	}
}

// SetOutput redirects progress and section banners.
func (o *Orchestrator) SetOutput(w io.Writer) {
	o.out = w
}

// SetRecorder attaches an upload recorder.
func (o *Orchestrator) SetRecorder(r Recorder) {
	o.recorder = r
}

type outcome int

const (
	outcomeSkippedHasArtwork outcome = iota
	outcomeSkippedNoPath
	outcomeSkippedUnresolved
	outcomeSkippedNoArtworkFile
	outcomeDryRun
	outcomeUploaded
	outcomeUploadFailed
	outcomeItemError
)

// Run processes all supported sections and returns the final statistics.
// The only errors it returns are context cancellation; everything else is
// isolated per item or per section.
func (o *Orchestrator) Run(ctx context.Context, sections []plex.Section) (Statistics, error) {
	var stats Statistics

	for _, section := range sections {
		if !section.Type.Supported() {
			continue
		}

		items, err := o.client.SectionItems(ctx, section)
		if err != nil {
			if ctx.Err() != nil {
				return stats, ctx.Err()
			}
			o.logger.Warn("skipping section",
				logging.String("section", section.Title),
				logging.Error(err))
			continue
		}

		fmt.Fprintf(o.out, "Processing library: %s (%s)\n", section.Title, sectionLabel(section.Type))
		progress := newProgressPrinter(o.out, !o.opts.Verbose)

		for index, item := range items {
			if ctx.Err() != nil {
				progress.finish()
				return stats, ctx.Err()
			}
			progress.update(index+1, len(items))
			stats.Scanned++

			result, logoPath := o.processItem(ctx, section, item)
			switch result {
			case outcomeDryRun, outcomeUploadFailed:
				stats.Matched++
			case outcomeUploaded:
				stats.Matched++
				stats.Uploaded++
				o.recordUpload(ctx, item, logoPath)
				o.sleep(o.opts.Delay)
			}
		}
		progress.finish()
	}

	return stats, nil
}

// processItem runs one item through the skip/resolve/locate/upload state
// machine. A panic from a malformed item record is caught here so one bad
// item never aborts the batch.
func (o *Orchestrator) processItem(ctx context.Context, section plex.Section, item plex.Item) (result outcome, logoPath string) {
	defer func() {
		if r := recover(); r != nil {
			o.verbose("unexpected item failure",
				logging.String("title", item.Title),
				logging.Any("panic", r))
			result = outcomeItemError
		}
	}()

	if item.HasClearLogo && !o.opts.UploadAll {
		o.verbose("logo already exists", logging.String("title", item.Title))
		return outcomeSkippedHasArtwork, ""
	}

	remotePath, remoteIsDir, ok := remotePathFor(section, item)
	if !ok {
		o.verbose("no usable remote path", logging.String("title", item.Title))
		return outcomeSkippedNoPath, ""
	}

	match := o.lmap.Resolve(remotePath, remoteIsDir)
	switch match.Outcome {
	case locations.UnresolvedNoPrefix:
		o.verbose("no mapped location matches item",
			logging.String("title", item.Title),
			logging.String("remote_path", remotePath))
		return outcomeSkippedUnresolved, ""
	case locations.UnresolvedNoRelativePath:
		o.verbose("could not derive relative path",
			logging.String("title", item.Title),
			logging.String("remote_path", remotePath),
			logging.String("prefix", match.Prefix))
		return outcomeSkippedUnresolved, ""
	}

	logoPath, found := artwork.Locate(match.LocalDir)
	if !found {
		o.verbose("no supported logo file found",
			logging.String("title", item.Title),
			logging.String("dir", match.LocalDir))
		return outcomeSkippedNoArtworkFile, ""
	}

	if o.opts.DryRun {
		o.verbose("dry run: would upload logo",
			logging.String("title", item.Title),
			logging.String("logo", logoPath))
		return outcomeDryRun, logoPath
	}

	if err := o.client.UploadLogo(ctx, item.RatingKey, logoPath); err != nil {
		o.logUploadFailure(item, err)
		return outcomeUploadFailed, logoPath
	}

	o.verbose("uploaded logo",
		logging.String("title", item.Title),
		logging.String("logo", logoPath))
	return outcomeUploaded, logoPath
}

func (o *Orchestrator) logUploadFailure(item plex.Item, err error) {
	var uploadErr *plex.UploadError
	if errors.As(err, &uploadErr) {
		o.verbose("upload failed",
			logging.String("title", item.Title),
			logging.String("classification", uploadErr.Kind.String()),
			logging.Error(err))
		return
	}
	o.verbose("upload failed",
		logging.String("title", item.Title),
		logging.String("classification", "unknown"),
		logging.Error(err))
}

func (o *Orchestrator) recordUpload(ctx context.Context, item plex.Item, logoPath string) {
	if o.recorder == nil {
		return
	}
	if err := o.recorder.RecordUpload(ctx, item.RatingKey, item.Title, logoPath); err != nil {
		// History is informational; never let it disturb the batch.
		o.logger.Warn("failed to record upload",
			logging.String("title", item.Title),
			logging.Error(err))
	}
}

func (o *Orchestrator) verbose(msg string, attrs ...logging.Attr) {
	if !o.opts.Verbose {
		return
	}
	args := make([]any, 0, len(attrs))
	for _, attr := range attrs {
		args = append(args, attr)
	}
	o.logger.Info(msg, args...)
}

// remotePathFor derives the remote path for an item: a movie's first media
// part, or a show's first root location. Shows with several locations
// resolve against the first only.
func remotePathFor(section plex.Section, item plex.Item) (string, bool, bool) {
	itemType := item.Type
	if itemType == "" {
		itemType = section.Type
	}
	switch itemType {
	case plex.SectionMovie:
		if len(item.MediaFiles) == 0 {
			return "", false, false
		}
		return item.MediaFiles[0], false, true
	case plex.SectionShow:
		if len(item.Locations) == 0 {
			return "", false, false
		}
		return item.Locations[0], true, true
	default:
		return "", false, false
	}
}

var titleCaser = cases.Title(language.Und)

func sectionLabel(sectionType plex.SectionType) string {
	return titleCaser.String(string(sectionType))
}
