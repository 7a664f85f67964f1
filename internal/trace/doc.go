// Package trace is the logging layer of lintreport.
//
// Events are either spans (a begin/end pair around a phase such as loading
// issue files or rendering the report) or points (single log lines carrying
// their own level).
//
// # Usage
//
// Enable tracing via command-line flags:
//
//	lintreport xml --trace=- --trace-level=debug issues.json
//
// # Levels
//
//   - LevelOff: No tracing
//   - LevelError: Failures only
//   - LevelInfo: Command and report milestones
//   - LevelDebug: Everything including per-file events
//
// # Context Propagation
//
// Tracers travel through the pipeline via context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeReport, "render", parentID)
//	defer span.End("")
//
//	trace.Point(t, trace.LevelInfo, trace.ScopeReport, "XML report generated", path)
package trace
