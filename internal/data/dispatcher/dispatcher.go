package dispatcher

import (
	"github.com/atomicstack/simple-todo/internal/backend"
	"github.com/atomicstack/simple-todo/internal/state"
)

type Result struct {
	TasksUpdated  bool
	IssuesUpdated bool
}

type Dispatcher struct {
	tasks  state.TaskStore
	issues state.IssueStore
}

func New(t state.TaskStore, i state.IssueStore) *Dispatcher {
	return &Dispatcher{tasks: t, issues: i}
}

func (d *Dispatcher) Handle(evt backend.Event) Result {
	var res Result
	switch evt.Kind {
	case backend.KindTasks:
		if evt.Err != nil {
			return res
		}
		if snapshot, ok := evt.Data.(backend.TaskSnapshot); ok {
			d.tasks.SetEntries(snapshot.Tasks)
			res.TasksUpdated = true
		}
	case backend.KindIssues:
		if evt.Err != nil {
			d.issues.SetErr(evt.Err)
			res.IssuesUpdated = true
			return res
		}
		if snapshot, ok := evt.Data.(backend.IssueSnapshot); ok {
			d.issues.SetEntries(snapshot.Issues)
			res.IssuesUpdated = true
		}
	}
	return res
}
