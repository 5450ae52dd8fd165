// Package inspect provides the developer inspection surface for the
// locator: HTTP endpoints over the registry plus a WebSocket stream of
// locator events.
//
// The resolution core never imports this package. It emits events through
// events.Sink; inspect consumes them for Prometheus metrics and the live
// stream. Attach the server's sink when constructing the registry and
// scope:
//
//	reg := registry.New()
//	srv := inspect.NewServer(cfg.Inspect, reg, log)
//	reg.SetSink(srv.Sink())
//
// Routes:
//   - GET /registry — JSON dump of current registrations
//   - GET /stats    — operation counters
//   - GET /metrics  — Prometheus exposition
//   - GET /stream   — WebSocket event stream
package inspect
