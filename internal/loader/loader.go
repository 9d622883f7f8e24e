// Package loader seeds the log store from a plain-text log file.
package loader

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/narvanalabs/logsight/internal/parser"
	"github.com/narvanalabs/logsight/internal/store"
)

// maxLineSize bounds a single log line. Longer lines are skipped.
const maxLineSize = 1 << 20

// errLineTooLong marks a line that exceeded maxLineSize.
var errLineTooLong = fmt.Errorf("line exceeds %d bytes", maxLineSize)

// Result summarizes one load run.
type Result struct {
	LoadID   string        `json:"load_id"`
	Path     string        `json:"path"`
	Lines    int           `json:"lines"`
	Inserted int           `json:"inserted"`
	Skipped  int           `json:"skipped"` // lines that failed to parse
	Failed   int           `json:"failed"`  // parsed lines the store rejected
	Duration time.Duration `json:"duration"`
}

// Loader parses log files and persists their entries.
type Loader struct {
	store  store.Store
	logger *slog.Logger
}

// New creates a Loader writing to st.
func New(st store.Store, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		store:  st,
		logger: logger.With("component", "loader"),
	}
}

// SeedIfEmpty loads path only when the log table has no rows. It returns a
// nil Result when the store already holds entries.
func (l *Loader) SeedIfEmpty(ctx context.Context, path string) (*Result, error) {
	count, err := l.store.Logs().Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("checking existing logs: %w", err)
	}
	if count > 0 {
		l.logger.Info("logs already present, skipping seed", "count", count)
		return nil, nil
	}

	l.logger.Info("no logs found in database, loading from file", "path", path)
	return l.LoadFile(ctx, path)
}

// LoadFile parses every line of path and persists the valid ones in a single
// transaction. A file that cannot be opened aborts the load.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		l.logger.Error("log file could not be opened", "path", path, "error", err)
		return nil, fmt.Errorf("opening log file: %w", err)
	}
	defer f.Close()

	res, err := l.Load(ctx, f)
	if res != nil {
		res.Path = path
	}
	return res, err
}

// Load reads lines from r. Lines that fail to parse are logged and skipped;
// lines the store rejects are rolled back individually, logged and skipped.
// Everything else is committed once at the end.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*Result, error) {
	start := time.Now()
	res := &Result{LoadID: uuid.New().String()}
	log := l.logger.With("load_id", res.LoadID)

	err := l.store.WithTx(ctx, func(tx store.Store) error {
		br := bufio.NewReaderSize(r, 64*1024)
		var buf []byte

		for {
			if err := ctx.Err(); err != nil {
				return err
			}

			raw, err := readLine(br, buf[:0])
			if errors.Is(err, io.EOF) {
				return nil
			}
			buf = raw
			res.Lines++
			if errors.Is(err, errLineTooLong) {
				res.Skipped++
				log.Warn("skipped invalid log line", "line_no", res.Lines, "error", err)
				continue
			}
			if err != nil {
				return fmt.Errorf("reading log file: %w", err)
			}

			parsed, err := parser.Parse(strings.TrimSpace(string(raw)))
			if err != nil {
				res.Skipped++
				log.Warn("skipped invalid log line", "line_no", res.Lines, "error", err)
				continue
			}

			err = tx.WithSavepoint(ctx, func(sp store.Store) error {
				var sourceID *int64
				if parsed.HasSource() {
					id, err := sp.Sources().Resolve(ctx, parsed.SourceIP, parsed.Endpoint)
					if err != nil {
						return fmt.Errorf("resolving source: %w", err)
					}
					sourceID = &id
				}
				return sp.Logs().Create(ctx, parsed.Entry(sourceID))
			})
			if err != nil {
				if ctxErr := ctx.Err(); ctxErr != nil {
					return ctxErr
				}
				res.Failed++
				log.Error("failed to store log line",
					"line_no", res.Lines,
					"error", err,
					"integrity", errors.Is(err, store.ErrIntegrity),
					"rejected_by_schema", errors.Is(err, store.ErrRejected),
				)
				continue
			}
			res.Inserted++
		}
	})

	res.Duration = time.Since(start)
	if err != nil {
		log.Error("log load aborted", "error", err, "lines", res.Lines)
		res.Inserted = 0 // rolled back
		return res, err
	}

	log.Info("log file processed",
		"lines", res.Lines,
		"inserted", res.Inserted,
		"skipped", res.Skipped,
		"failed", res.Failed,
		"duration", res.Duration.String(),
	)
	return res, nil
}

// readLine appends the next line of br to buf, without its terminator. A line
// longer than maxLineSize is consumed in full and reported as errLineTooLong.
// io.EOF is returned only when no bytes remain.
func readLine(br *bufio.Reader, buf []byte) ([]byte, error) {
	tooLong := false
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return buf, err
		}
		if !tooLong && len(buf)+len(chunk) > maxLineSize {
			tooLong = true
			buf = buf[:0]
		}
		if !tooLong {
			buf = append(buf, chunk...)
		}
		if !isPrefix {
			break
		}
	}
	if tooLong {
		return buf, errLineTooLong
	}
	return buf, nil
}
