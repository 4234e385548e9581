package events

import "github.com/atomicstack/simple-todo/internal/logging"

type TrackerTracer struct{}

var Tracker = TrackerTracer{}

func (TrackerTracer) Request(method, path string, attempt int) {
	logging.Trace("tracker.request", map[string]interface{}{"method": method, "path": path, "attempt": attempt})
}

func (TrackerTracer) Response(path string, status int) {
	logging.Trace("tracker.response", map[string]interface{}{"path": path, "status": status})
}

func (TrackerTracer) Load(view string, seq uint64) {
	logging.Trace("tracker.load", map[string]interface{}{"view": view, "seq": seq})
}

func (TrackerTracer) Stale(view string, seq, current uint64) {
	logging.Trace("tracker.stale", map[string]interface{}{"view": view, "seq": seq, "current": current})
}

func (TrackerTracer) Sync(linked, updated int) {
	logging.Trace("tracker.sync", map[string]interface{}{"linked": linked, "updated": updated})
}
