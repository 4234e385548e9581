package command

import (
	"context"
	"fmt"
	"time"

	"github.com/atomicstack/simple-todo/internal/logging/events"
	tea "github.com/charmbracelet/bubbletea"
)

// DefaultTimeout bounds each request.
const DefaultTimeout = 30 * time.Second

// Handler performs the work of a request and reports the outcome as a message.
type Handler func(ctx context.Context) tea.Msg

// Request encapsulates an action invocation.
type Request struct {
	ID      string
	Label   string
	Handler Handler
}

// Result carries a handler's message back to the update loop, tagged with the
// sequence number of the request that produced it.
type Result struct {
	ID  string
	Seq uint64
	Msg tea.Msg
}

// Bus coordinates the execution of asynchronous actions. Each request ID has
// a latest sequence; results from older requests with the same ID are stale.
type Bus struct {
	ctx     context.Context
	timeout time.Duration
	seq     uint64
	latest  map[string]uint64
}

// New initialises a command bus instance.
func New(ctx context.Context) *Bus {
	if ctx == nil {
		ctx = context.Background()
	}
	return &Bus{ctx: ctx, timeout: DefaultTimeout, latest: make(map[string]uint64)}
}

// Execute wraps a handler into a Bubble Tea command while emitting trace logs.
// It must be called from the update loop.
func (b *Bus) Execute(req Request) tea.Cmd {
	b.seq++
	seq := b.seq
	b.latest[req.ID] = seq
	events.Command.Queue(req.ID, req.Label, seq)
	ctx := b.ctx
	timeout := b.timeout
	return func() tea.Msg {
		if req.Handler == nil {
			events.Command.Skip(req.ID, req.Label)
			return nil
		}
		runCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()
		msg := req.Handler(runCtx)
		events.Command.Result(req.ID, req.Label, fmt.Sprintf("%T", msg))
		return Result{ID: req.ID, Seq: seq, Msg: msg}
	}
}

// Current reports whether res belongs to the most recent request for its ID.
func (b *Bus) Current(res Result) bool {
	return b.latest[res.ID] == res.Seq
}

// Latest returns the sequence of the newest request queued under id, or 0.
func (b *Bus) Latest(id string) uint64 {
	return b.latest[id]
}
