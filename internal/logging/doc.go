// Package logging provides structured logging with OpenTelemetry integration.
//
// # Overview
//
// Logging package wraps Zap with:
//   - Custom Trace level (-2, below Debug)
//   - Dual output (stderr + OpenTelemetry)
//   - Automatic context field injection (trace_id, run, patient)
//   - Redaction of note text and other protected health information
//   - Level-aware sampling (errors never sampled)
//
// # Usage
//
// Create logger from config:
//
//	cfg := logging.NewDefaultConfig()
//	logger, err := logging.NewLogger(cfg, otelProvider)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
// Log with context:
//
//	ctx := logging.WithRunID(ctx, runID)
//	ctx = logging.WithPatientID(ctx, "MRN0042")
//	logger.Warn(ctx, "candidate scores do not sum to 1", zap.Float64("sum", sum))
//
// Output includes automatic correlation:
//
//	{
//	  "ts": "2025-11-24T10:15:30Z",
//	  "level": "warn",
//	  "msg": "candidate scores do not sum to 1",
//	  "run.id": "1b4e28ba-2fa1-11d2-883f-0016d3cca427",
//	  "patient.id": "MRN0042",
//	  "sum": 1.2
//	}
//
// # Redaction
//
// Fields named like note content ("snippet", "text", "note_text") are
// replaced by the encoder. Use RedactedString to keep only the length.
//
// # Testing
//
// Use TestLogger for test assertions:
//
//	tl := logging.NewTestLogger()
//	extractor := extraction.NewExtractor(keywords, parser, extraction.WithLogger(tl.Logger))
//	tl.AssertLogged(t, zapcore.WarnLevel, "invalid keyword position")
//
// # Concurrency Safety
//
// Logger is safe for concurrent use. Child loggers (With, Named) are
// independent and do not affect parent or siblings.
package logging
