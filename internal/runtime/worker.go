package runtime

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/nhsdigital/cpm-registry/internal/domain/spine"
	"github.com/nhsdigital/cpm-registry/internal/usecases/commands"
	"github.com/nhsdigital/cpm-registry/pkg/idempotency"
	"github.com/nhsdigital/cpm-registry/pkg/logger"
)

// maxRecordBytes bounds one NDJSON line; the largest upstream records are
// accredited systems carrying thousands of client ODS codes.
const maxRecordBytes = 16 * 1024 * 1024

// WorkerCtx drives one run of the update worker: read the change record
// feed, apply each record and persist the outcome.
type WorkerCtx struct {
	deps           *dependencies
	workerCtx      context.Context
	workerStopFunc context.CancelFunc
}

func New() *WorkerCtx {
	return &WorkerCtx{}
}

func (c *WorkerCtx) Run() {
	if err := c.build(); err != nil {
		log.Fatalf("failed to build worker: %v", err)
	}
	err := c.processFeed()
	if err != nil {
		c.deps.infra.logger.Error().Err(err).Msg("feed processing aborted")
	}
	c.shutdown()

	if err != nil {
		os.Exit(1)
	}
}

func (c *WorkerCtx) build() error {
	c.workerCtx, c.workerStopFunc = signal.NotifyContext(
		context.Background(), syscall.SIGINT, syscall.SIGTERM)

	var err error

	c.deps, err = initializeDependencies(c.workerCtx)
	if err != nil {
		return fmt.Errorf("initializing dependencies: %w", err)
	}

	return nil
}

func (c *WorkerCtx) processFeed() error {
	feed, closeFeed, err := c.openFeed()
	if err != nil {
		return err
	}
	defer closeFeed()

	c.deps.infra.logger.Info().
		Str("feed", c.deps.config.Feed.Path).
		Str("storage", c.deps.config.Feed.StorageBackend).
		Msg("processing change record feed")

	var processed, failed, skipped uint

	var dedupe *idempotency.Tracker
	if c.deps.config.Feed.SkipDuplicates {
		dedupe = idempotency.NewTracker()
	}

	scanner := bufio.NewScanner(feed)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordBytes)
	for scanner.Scan() {
		if c.workerCtx.Err() != nil {
			c.deps.infra.logger.Warn().Msg("interrupted, stopping feed processing")

			break
		}

		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}

		if dedupe != nil && dedupe.Seen(idempotency.Fingerprint(line)) {
			skipped++
			c.deps.infra.logger.Debug().Msg("skipping replayed change record")

			continue
		}

		var record spine.ChangeRecord
		if err := json.Unmarshal(line, &record); err != nil {
			failed++
			c.deps.infra.logger.Error().Err(err).Msg("skipping malformed change record")
			if c.deps.config.Feed.StopOnError {
				return fmt.Errorf("decoding change record: %w", err)
			}

			continue
		}

		ctx := context.WithValue(c.workerCtx, logger.ContextKeyChangeID, record.UniqueIdentifier)
		ctx = context.WithValue(ctx, logger.ContextKeyObjectClass, record.ObjectClass)

		aggregates, err := c.deps.app.Commands.ProcessChangeRequest.Handle(
			ctx, commands.ProcessChangeRequestCommand{Record: record})
		if err != nil {
			failed++
			log := c.deps.infra.logger.WithContext(ctx)
			log.Error().Err(err).Msg("change record failed")
			if c.deps.config.Feed.StopOnError {
				return fmt.Errorf("processing change record '%s': %w", record.UniqueIdentifier, err)
			}

			continue
		}

		if len(aggregates) == 0 {
			skipped++

			continue
		}
		processed++
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading feed: %w", err)
	}

	c.deps.infra.logger.Info().
		Uint("processed", processed).
		Uint("failed", failed).
		Uint("skipped", skipped).
		Msg("feed processing complete")

	return nil
}

func (c *WorkerCtx) openFeed() (io.Reader, func(), error) {
	if c.deps.config.Feed.Path == "" || c.deps.config.Feed.Path == "-" {
		return os.Stdin, func() {}, nil
	}

	file, err := os.Open(c.deps.config.Feed.Path)
	if err != nil {
		return nil, nil, fmt.Errorf("opening feed: %w", err)
	}

	return file, func() { file.Close() }, nil
}

func (c *WorkerCtx) shutdown() {
	c.workerStopFunc()

	shutdownCtx := context.Background()
	for resource, cleanupFn := range c.deps.cleanupFuncs {
		if err := cleanupFn(shutdownCtx); err != nil {
			c.deps.infra.logger.Error().
				Err(err).
				Str("resource", resource).
				Msg("failed to shutdown the resource gracefully")
		}
	}
}
