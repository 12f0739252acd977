package pipeline

import (
	"context"
	"runtime"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/theirongolddev/stmtburn/internal/logger"
	"github.com/theirongolddev/stmtburn/internal/source"
)

// LoadResult holds the output of processing a set of statement files.
type LoadResult struct {
	Reports        []Report // in input file order
	TotalFiles     int
	ParsedFiles    int
	FileErrors     int
	SkippedRecords int
	Transactions   int
}

// ProgressFunc is called during loading to report progress.
// current is the number of files processed so far, total is the total count.
type ProgressFunc func(current, total int)

// Options configures Load.
type Options struct {
	Workers  int // <= 0 means GOMAXPROCS
	Parser   *source.Parser
	Analyzer *Analyzer
	Progress ProgressFunc
	Log      *zerolog.Logger // nil means the logger carried by ctx
}

type fileOutcome struct {
	report Report
	err    error
}

// Load parses and analyzes every file with a bounded worker pool. Each
// worker owns its statement's transactions; nothing is shared between them.
//
// If ctx is cancelled before all files are done, Load returns ctx's error
// and no partial result.
func Load(ctx context.Context, files []source.DiscoveredFile, opts Options) (*LoadResult, error) {
	result := &LoadResult{TotalFiles: len(files)}
	if len(files) == 0 {
		return result, nil
	}

	log := logger.FromContext(ctx)
	if opts.Log != nil {
		log = *opts.Log
	}
	parser := opts.Parser
	if parser == nil {
		parser = source.NewParser(log)
	}
	analyzer := opts.Analyzer
	if analyzer == nil {
		analyzer = NewAnalyzer(nil, log)
	}

	numWorkers := opts.Workers
	if numWorkers <= 0 {
		numWorkers = runtime.GOMAXPROCS(0)
	}
	if numWorkers > len(files) {
		numWorkers = len(files)
	}

	outcomes := make([]fileOutcome, len(files))
	var processed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(numWorkers)

	for i := range files {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			pr := parser.ParseFile(files[i])
			if pr.Err != nil {
				outcomes[i] = fileOutcome{err: pr.Err}
			} else {
				outcomes[i] = fileOutcome{report: analyzer.Report(pr.File, pr.Statement)}
			}
			n := processed.Add(1)
			if opts.Progress != nil {
				opts.Progress(int(n), len(files))
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for i, o := range outcomes {
		if o.err != nil {
			result.FileErrors++
			log.Warn().Err(o.err).Str("file", files[i].Path).Msg("statement unreadable")
			continue
		}
		result.ParsedFiles++
		result.SkippedRecords += len(o.report.Statement.Skipped)
		result.Transactions += len(o.report.Transactions)
		result.Reports = append(result.Reports, o.report)
	}

	return result, nil
}
