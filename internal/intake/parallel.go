package intake

import (
	"context"
	"runtime"
	"strconv"

	"golang.org/x/sync/errgroup"

	"lintreport/internal/issue"
	"lintreport/internal/trace"
)

// Options control LoadFiles.
type Options struct {
	Jobs int    // parallel readers; <= 0 means GOMAXPROCS
	Root string // base for relative issue paths
}

// LoadFiles reads all issue files in parallel and returns their issues
// concatenated in argument order. The first failure cancels the rest.
func LoadFiles(ctx context.Context, paths []string, opts Options) ([]issue.Issue, error) {
	if len(paths) == 0 {
		return nil, nil
	}

	tr := trace.FromContext(ctx)
	parent := trace.CurrentSpan(ctx).SpanID

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	// индексы уникальны для каждой горутины, мьютекс не нужен
	results := make([][]issue.Issue, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(min(jobs, len(paths)))

	for i, path := range paths {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			span := trace.Begin(tr, trace.ScopeFile, "load "+path, parent)
			issues, err := Load(path, opts.Root)
			if err != nil {
				span.End(err.Error())
				return err
			}
			span.WithExtra("issues", strconv.Itoa(len(issues))).End("")
			results[i] = issues
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	total := 0
	for _, r := range results {
		total += len(r)
	}
	out := make([]issue.Issue, 0, total)
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}
