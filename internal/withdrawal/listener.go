package withdrawal

import "github.com/naucourse/chooser/internal/logging"

// Listener receives batch progress. Callbacks for one batch arrive in dispatch
// order from a single goroutine, OnSubmitFinish always last.
type Listener interface {
	OnSubmitSuccess(result *Result)
	OnFailed(kind ErrorKind)
	OnSubmitFinish()
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
type ListenerFuncs struct {
	Success func(result *Result)
	Failed  func(kind ErrorKind)
	Finish  func()
}

func (l ListenerFuncs) OnSubmitSuccess(result *Result) {
	if l.Success != nil {
		l.Success(result)
	}
}

func (l ListenerFuncs) OnFailed(kind ErrorKind) {
	if l.Failed != nil {
		l.Failed(kind)
	}
}

func (l ListenerFuncs) OnSubmitFinish() {
	if l.Finish != nil {
		l.Finish()
	}
}

type teeListener []Listener

// Tee returns a Listener that forwards every callback to each of ls in order.
// Nil entries are ignored.
func Tee(ls ...Listener) Listener {
	out := make(teeListener, 0, len(ls))
	for _, l := range ls {
		if l != nil {
			out = append(out, l)
		}
	}
	return out
}

func (t teeListener) OnSubmitSuccess(result *Result) {
	for _, l := range t {
		l.OnSubmitSuccess(result)
	}
}

func (t teeListener) OnFailed(kind ErrorKind) {
	for _, l := range t {
		l.OnFailed(kind)
	}
}

func (t teeListener) OnSubmitFinish() {
	for _, l := range t {
		l.OnSubmitFinish()
	}
}

// guardedListener keeps a panicking callback from taking the batch down.
type guardedListener struct {
	batchID string
	l       Listener
}

func (g guardedListener) call(name string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			logging.Error("Batch %s: listener %s panicked: %v", logging.FormatBatchID(g.batchID), name, r)
		}
	}()
	fn()
}

func (g guardedListener) deliver(o Outcome) {
	if g.l == nil {
		return
	}
	if o.Succeeded() {
		g.call("OnSubmitSuccess", func() { g.l.OnSubmitSuccess(o.Result) })
		return
	}
	g.call("OnFailed", func() { g.l.OnFailed(o.Kind) })
}

func (g guardedListener) finish() {
	if g.l == nil {
		return
	}
	g.call("OnSubmitFinish", g.l.OnSubmitFinish)
}
