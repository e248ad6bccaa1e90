// Package preview serves a live view of scenario runs.
//
// The server pushes the root markup of every flush to connected browsers
// over a WebSocket and optionally persists each frame to a snapshot store.
//
// Routes:
//   - GET /            viewer page
//   - GET /ws          frame stream (JSON messages)
//   - GET /snapshot    markup of the latest frame
//   - GET /snapshots   stored snapshot keys (with a store)
//   - GET /snapshots/* one stored snapshot (with a store)
//   - GET /metrics     Prometheus metrics (with a gatherer)
//   - GET /healthz
package preview
