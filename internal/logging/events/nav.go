package events

import "github.com/atomicstack/simple-todo/internal/logging"

type NavTracer struct{}

type navReason string

const (
	NavReasonBlur     navReason = "blur"
	NavReasonEscape   navReason = "escape"
	NavReasonDangling navReason = "dangling"
)

var Nav = NavTracer{}

func (NavTracer) Register(id, owner string, replaced bool) {
	logging.Trace("nav.register", map[string]interface{}{"id": id, "owner": owner, "replaced": replaced})
}

func (NavTracer) Duplicate(id, owner, existing string) {
	logging.Trace("nav.register.duplicate", map[string]interface{}{"id": id, "owner": owner, "existing": existing})
}

func (NavTracer) Push(from, to string, withPayload bool) {
	logging.Trace("nav.push", map[string]interface{}{"from": from, "to": to, "payload": withPayload})
}

func (NavTracer) PopTo(from, to string) {
	logging.Trace("nav.pop", map[string]interface{}{"from": from, "to": to})
}

func (NavTracer) Reset(from string, reason navReason) {
	logging.Trace("nav.reset", map[string]interface{}{"from": from, "reason": string(reason)})
}

func (NavTracer) Fallback(id string, reason navReason) {
	logging.Trace("nav.fallback", map[string]interface{}{"id": id, "reason": string(reason)})
}

func (NavTracer) Transition(from, to string, generation uint64) {
	logging.Trace("nav.transition", map[string]interface{}{"from": from, "to": to, "generation": generation})
}

func (NavTracer) Stale(target string, requested, current uint64) {
	logging.Trace("nav.stale", map[string]interface{}{"target": target, "requested": requested, "current": current})
}
