package events

import "github.com/atomicstack/simple-todo/internal/logging"

type UITracer struct{}

type FilterTracer struct{}

type ActionTracer struct{}

type CommandTracer struct{}

var (
	UI      = UITracer{}
	Filter  = FilterTracer{}
	Action  = ActionTracer{}
	Command = CommandTracer{}
)

func (UITracer) LinkActivate(viewID, linkID string, autoNavigate bool) {
	logging.Trace("link.activate", map[string]interface{}{
		"view":         viewID,
		"link":         linkID,
		"autoNavigate": autoNavigate,
	})
}

func (UITracer) Cursor(viewID string, cursor int) {
	logging.Trace("list.cursor", map[string]interface{}{"view": viewID, "cursor": cursor})
}

func (UITracer) Focus(focused bool) {
	logging.Trace("ui.focus", map[string]interface{}{"focused": focused})
}

func (UITracer) Toast(message string) {
	logging.Trace("ui.toast", map[string]interface{}{"message": message})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}

func (ActionTracer) Success(info string) {
	logging.Trace("action.success", map[string]interface{}{"info": info})
}

// Edit records a change to a list filter. op is insert, backspace,
// delete-word or clear.
func (FilterTracer) Edit(viewID, op, filter string) {
	logging.Trace("filter."+op, map[string]interface{}{"view": viewID, "filter": filter})
}

func (CommandTracer) Queue(id, label string, seq uint64) {
	logging.Trace("command.queue", map[string]interface{}{"id": id, "label": label, "seq": seq})
}

func (CommandTracer) Skip(id, label string) {
	logging.Trace("command.skip", map[string]interface{}{"id": id, "label": label})
}

func (CommandTracer) Result(id, label, msgType string) {
	logging.Trace("command.result", map[string]interface{}{"id": id, "label": label, "msg": msgType})
}
