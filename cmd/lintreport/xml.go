package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"lintreport/internal/intake"
	"lintreport/internal/issue"
	"lintreport/internal/observ"
	"lintreport/internal/rules"
	"lintreport/internal/trace"
	"lintreport/internal/xmlreport"
)

const (
	defaultReportFile = "sonarlint-report.xml"
	cacheAppName      = "lintreport"
)

var xmlCmd = &cobra.Command{
	Use:   "xml [flags] <issues.json|issues.ndjson>...",
	Short: "Write a SonarLint XML report from analyzer issue files",
	Long: `Read analyzer findings from one or more issue files, group them by source file
relative to the project base path and write them as a SonarLint XML report.
Settings not given as flags are taken from the nearest lintreport.toml.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runXML,
}

// init registers CLI flags for the xml command used by runXML.
func init() {
	xmlCmd.Flags().String("base", "", "base path issue paths are made relative to (default: manifest base or .)")
	xmlCmd.Flags().StringP("output", "o", "", "report file (default: "+defaultReportFile+")")
	xmlCmd.Flags().String("encoding", "", "report encoding, any IANA charset name or alias (default: UTF-8)")
	xmlCmd.Flags().String("project", "", "project name (default: manifest name or base directory name)")
	xmlCmd.Flags().String("date", "", "analysis date in RFC 3339 (default: now)")
	xmlCmd.Flags().Int("files-analyzed", 0, "number of files the analyzer looked at")
	xmlCmd.Flags().String("rules", "", "rule catalog (.toml, .yaml or .yml)")
	xmlCmd.Flags().Bool("rule-cache", true, "keep resolved rule details in the user cache directory")
	xmlCmd.Flags().Int("jobs", 0, "max parallel issue file readers (0=auto)")
	xmlCmd.Flags().BoolP("quiet", "q", false, "suppress the console summary")
	xmlCmd.Flags().Bool("timings", false, "print phase timings to stderr")
}

// xmlOptions is the merged view of manifest and flags.
type xmlOptions struct {
	project       string
	base          string
	output        string
	encoding      string
	date          time.Time
	filesAnalyzed int
	rulesPath     string
	ruleCache     bool
	jobs          int
	quiet         bool
	timings       bool
}

// runXML executes the "xml" command: it merges manifest and flag settings,
// loads the issue files, resolves rule names, writes the report and prints a
// summary.
func runXML(cmd *cobra.Command, args []string) error {
	cleanup, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	ctx := cmd.Context()
	tr := trace.FromContext(ctx)
	span := trace.Begin(tr, trace.ScopeCommand, "xml", 0)
	defer span.End("")
	ctx = trace.WithSpan(ctx, span)

	opts, err := readXMLOptions(cmd)
	if err != nil {
		return err
	}
	colored, err := useColor(cmd)
	if err != nil {
		return err
	}

	// раньше загрузки: неизвестная кодировка должна падать сразу
	gen, err := xmlreport.NewGenerator(opts.base, opts.output, opts.encoding)
	if err != nil {
		return err
	}

	timer := observ.NewTimer()

	var issues []issue.Issue
	err = timer.Measure("load", func() error {
		var loadErr error
		issues, loadErr = intake.LoadFiles(ctx, args, intake.Options{Jobs: opts.jobs, Root: opts.base})
		return loadErr
	})
	if err != nil {
		return err
	}
	trace.Pointf(tr, trace.LevelDebug, trace.ScopeReport, "issues loaded", "%d issues from %d files", len(issues), len(args))

	var resolver rules.Resolver
	err = timer.Measure("resolve", func() error {
		var resolveErr error
		resolver, resolveErr = buildResolver(ctx, opts)
		return resolveErr
	})
	if err != nil {
		return err
	}

	var res xmlreport.Result
	err = timer.Measure("render+write", func() error {
		var execErr error
		res, execErr = gen.Execute(ctx, xmlreport.Input{
			ProjectName:   opts.project,
			Date:          opts.date,
			Issues:        issues,
			FilesAnalyzed: opts.filesAnalyzed,
			Resolver:      resolver,
		})
		return execErr
	})
	if err != nil {
		return err
	}

	if !opts.quiet {
		printSummary(cmd.OutOrStdout(), res, gen.Encoding(), colored)
	}
	if opts.timings {
		fmt.Fprint(cmd.ErrOrStderr(), timer.Summary())
	}
	return nil
}

func readXMLOptions(cmd *cobra.Command) (xmlOptions, error) {
	var opts xmlOptions

	manifest, found, err := loadProjectManifest(".")
	if err != nil {
		return opts, err
	}
	if found {
		cfg := manifest.Config
		opts.project = cfg.Project.Name
		opts.base = manifest.resolve(cfg.Project.Base)
		if opts.base == "" {
			opts.base = manifest.Root
		}
		opts.output = manifest.resolve(cfg.Report.Output)
		opts.encoding = cfg.Report.Encoding
		opts.rulesPath = manifest.resolve(cfg.Rules.Catalog)
		opts.ruleCache = cfg.Rules.Cache == nil || *cfg.Rules.Cache
	} else {
		opts.ruleCache = true
	}

	flags := cmd.Flags()

	if flags.Changed("base") {
		if opts.base, err = flags.GetString("base"); err != nil {
			return opts, fmt.Errorf("failed to get base flag: %w", err)
		}
	}
	if flags.Changed("output") {
		if opts.output, err = flags.GetString("output"); err != nil {
			return opts, fmt.Errorf("failed to get output flag: %w", err)
		}
	}
	if flags.Changed("encoding") {
		if opts.encoding, err = flags.GetString("encoding"); err != nil {
			return opts, fmt.Errorf("failed to get encoding flag: %w", err)
		}
	}
	if flags.Changed("project") {
		if opts.project, err = flags.GetString("project"); err != nil {
			return opts, fmt.Errorf("failed to get project flag: %w", err)
		}
	}
	if flags.Changed("rules") {
		if opts.rulesPath, err = flags.GetString("rules"); err != nil {
			return opts, fmt.Errorf("failed to get rules flag: %w", err)
		}
	}
	if flags.Changed("rule-cache") {
		if opts.ruleCache, err = flags.GetBool("rule-cache"); err != nil {
			return opts, fmt.Errorf("failed to get rule-cache flag: %w", err)
		}
	}

	dateStr, err := flags.GetString("date")
	if err != nil {
		return opts, fmt.Errorf("failed to get date flag: %w", err)
	}
	opts.date = time.Now()
	if dateStr != "" {
		if opts.date, err = time.Parse(time.RFC3339, dateStr); err != nil {
			return opts, fmt.Errorf("invalid --date %q: %w", dateStr, err)
		}
	}

	if opts.filesAnalyzed, err = flags.GetInt("files-analyzed"); err != nil {
		return opts, fmt.Errorf("failed to get files-analyzed flag: %w", err)
	}
	if opts.filesAnalyzed < 0 {
		return opts, fmt.Errorf("--files-analyzed must not be negative")
	}
	if opts.jobs, err = flags.GetInt("jobs"); err != nil {
		return opts, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if opts.quiet, err = flags.GetBool("quiet"); err != nil {
		return opts, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	if opts.timings, err = flags.GetBool("timings"); err != nil {
		return opts, fmt.Errorf("failed to get timings flag: %w", err)
	}

	if opts.base == "" {
		opts.base = "."
	}
	if opts.base, err = filepath.Abs(opts.base); err != nil {
		return opts, fmt.Errorf("failed to resolve base path: %w", err)
	}
	if st, statErr := os.Stat(opts.base); statErr != nil || !st.IsDir() {
		return opts, fmt.Errorf("base path %q is not a directory", opts.base)
	}
	if opts.output == "" {
		opts.output = defaultReportFile
	}
	if strings.TrimSpace(opts.project) == "" {
		opts.project = filepath.Base(opts.base)
	}
	return opts, nil
}

// buildResolver assembles catalog and disk cache. Catalog entries are written
// through to the cache so later runs without --rules still find rule names.
func buildResolver(ctx context.Context, opts xmlOptions) (rules.Resolver, error) {
	tr := trace.FromContext(ctx)

	var catalog *rules.Catalog
	if opts.rulesPath != "" {
		var err error
		if catalog, err = rules.LoadCatalog(opts.rulesPath); err != nil {
			return nil, err
		}
		trace.Pointf(tr, trace.LevelDebug, trace.ScopeReport, "rule catalog loaded", "%d rules from %s", catalog.Len(), opts.rulesPath)
	}

	if !opts.ruleCache {
		return rules.NewMemo(catalog), nil
	}

	cache, err := rules.OpenDiskCache(cacheAppName)
	if err != nil {
		// кэш не обязателен
		trace.Point(tr, trace.LevelInfo, trace.ScopeReport, "rule cache unavailable", err.Error())
		return rules.NewMemo(catalog), nil
	}
	for _, key := range catalog.Keys() {
		d, _ := catalog.Lookup(key)
		if err := cache.Put(d); err != nil {
			trace.Point(tr, trace.LevelInfo, trace.ScopeReport, "rule cache write failed", err.Error())
			break
		}
	}
	// the catalog wins; the cache still answers for rules from earlier runs
	return rules.NewMemo(rules.Chain(catalog, rules.Cached(rules.None, cache))), nil
}
