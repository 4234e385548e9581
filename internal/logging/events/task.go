package events

import "github.com/atomicstack/simple-todo/internal/logging"

type TaskTracer struct{}

var Task = TaskTracer{}

func (TaskTracer) Save(id, title string, created bool) {
	logging.Trace("task.save", map[string]interface{}{"id": id, "title": title, "created": created})
}

func (TaskTracer) Toggle(id string, completed bool) {
	logging.Trace("task.toggle", map[string]interface{}{"id": id, "completed": completed})
}

func (TaskTracer) Delete(id string) {
	logging.Trace("task.delete", map[string]interface{}{"id": id})
}

func (TaskTracer) Link(id, key string) {
	logging.Trace("task.link", map[string]interface{}{"id": id, "key": key})
}
