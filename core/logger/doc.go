// Package logger builds the collector's zap logger.
//
// Level debug selects zap's development preset (human timestamps, stack
// traces); info, warn and error use the production preset at that level.
// Format is json or console.
//
// Collection code logs with structured fields rather than formatted text.
// Record-level failures carry item_id and stage (snapshot, fetch, parse,
// item, metadata, location, item_location, remove) so that every problem
// with one vehicle can be filtered out of a cycle's output. Pagination logs
// carry offset and page.
//
// HTTP handlers attach the request's ray id with WithRayID:
//
//	log, err := logger.New(&logger.Config{Level: "info", Format: "json"})
//	if err != nil {
//		return err
//	}
//	log.Info("Collector started")
//
//	l := logger.WithRayID(log, c)
//	l.Error("Handler failed", zap.Error(err))
package logger
