package dialogs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"
)

// TurnResult is the return type at the turn boundary.
type TurnResult struct {
	Done        bool
	ReturnValue any
	Messages    []any
}

// Recorder observes turn outcomes for metrics. dialogmetrics.New
// returns a Prometheus-backed implementation; the zero value of this
// package's internal noopRecorder is used when none is configured.
type Recorder interface {
	ObserveTurn(dialogName string, done bool, dur time.Duration)
	ObserveFallback(dialogName string)
}

type noopRecorder struct{}

func (noopRecorder) ObserveTurn(string, bool, time.Duration) {}
func (noopRecorder) ObserveFallback(string)                  {}

// EventKind identifies a turn-boundary event emitted through an
// EventSink, for host applications observing engine activity.
type EventKind string

const (
	EventTurnStarted     EventKind = "turn_started"
	EventTurnSuspended   EventKind = "turn_suspended"
	EventTurnCompleted   EventKind = "turn_completed"
	EventFallbackEntered EventKind = "fallback_entered"
	EventFallbackExited  EventKind = "fallback_exited"
)

// Event is a turn-boundary notification. dialogevents.Bus fans these out
// to local subscribers.
type Event struct {
	Kind          EventKind
	DialogName    string
	DialogVersion string
}

// EventSink receives Events as the engine processes turns.
type EventSink interface {
	Emit(Event)
}

type noopEventSink struct{}

func (noopEventSink) Emit(Event) {}

type engineSettings struct {
	logger       *slog.Logger
	recorder     Recorder
	events       EventSink
	maxQueueSize int
}

// Option configures RunTurn/RunTurnSync.
type Option func(*engineSettings)

// WithLogger attaches a structured logger; the engine logs one line per
// turn at Debug and at Warn on version mismatch.
func WithLogger(l *slog.Logger) Option {
	return func(s *engineSettings) { s.logger = l }
}

// WithRecorder attaches a metrics Recorder.
func WithRecorder(r Recorder) Option {
	return func(s *engineSettings) { s.recorder = r }
}

// WithEventSink attaches an EventSink for turn-boundary notifications.
func WithEventSink(sink EventSink) Option {
	return func(s *engineSettings) { s.events = sink }
}

// WithMaxMessageQueueSize caps the number of messages a single turn may
// enqueue, guarding against an author bug that emits unboundedly within
// one turn. Zero (the default) means unbounded.
func WithMaxMessageQueueSize(n int) Option {
	return func(s *engineSettings) { s.maxQueueSize = n }
}

func newEngineSettings(opts []Option) *engineSettings {
	s := &engineSettings{
		logger:   slog.Default(),
		recorder: noopRecorder{},
		events:   noopEventSink{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// dialogContext is the Go replacement for the source's thread-local
// DialogContext: rather than an ambient, swapped global, it is passed
// explicitly through every recursive call, so concurrent RunTurn calls on
// distinct persistence sessions never entangle each other's state.
type dialogContext struct {
	send           func(any)
	state          *DialogState
	counter        *int
	clientResponse any
	ctx            context.Context
}

func (dc *dialogContext) nextIndex() int {
	i := *dc.counter
	*dc.counter++
	return i
}

func childContext(state *DialogState, outer *dialogContext) *dialogContext {
	counter := 0
	return &dialogContext{
		send:           outer.send,
		state:          state,
		counter:        &counter,
		clientResponse: outer.clientResponse,
		ctx:            outer.ctx,
	}
}

// runStep is the recursive step executor. It owns the replay invariant:
// obtain-or-create the child node, check its version, take the replay
// shortcut if already done, else dispatch.
func runStep(dc *dialogContext, step Step) (any, error) {
	index := dc.nextIndex()
	childState := dc.state.GetSubdialogState(index, step)

	if step.Version() != childState.Version {
		return nil, errVersionMismatch
	}
	if childState.IsDone() {
		return childState.ReturnValue(), nil
	}
	return dispatchBody(dc, childState, step)
}

// runRoot dispatches the root dialog of a turn. It is not a special case:
// the loaded state is a container whose child at index 0 is the root
// dialog's own node, exactly like any other nested step. Routing the
// root through the same path matters for fallback correctness: it keeps
// a fallback dialog's version check from being compared against the
// container's own version field, which a fallback transition may have
// just reset out from under it.
func runRoot(dc *dialogContext, dialog Step) (any, error) {
	return runStep(dc, dialog)
}

// dispatchBody implements the kind switch shared by every step, sync or
// async, plain or generator, in a single recursive dispatcher rather
// than one variant per flavor. outer supplies send/clientResponse/ctx
// for the two primitives; targetState is the node this step's own
// result is recorded into, and the node any sub-steps it issues nest
// under.
func dispatchBody(outer *dialogContext, targetState *DialogState, step Step) (any, error) {
	var value any
	var err error

	switch step.Kind() {
	case KindGetClientResponse:
		if !targetState.SentToClient {
			targetState.SentToClient = true
			return nil, errSendToClient
		}
		value = outer.clientResponse
		if schema := step.ResponseSchema(); schema != nil {
			raw, marshalErr := json.Marshal(value)
			if marshalErr != nil {
				return nil, marshalErr
			}
			if verr := schema.Validate(raw); verr != nil {
				return nil, &ResponseValidationError{Err: verr}
			}
		}

	case KindSendMessage:
		outer.send(step.Message())
		value = nil

	case KindPlain:
		child := childContext(targetState, outer)
		runner := Runner(func(s Step) (any, error) { return runStep(child, s) })
		value, err = step.plain(runner)

	case KindGen:
		child := childContext(targetState, outer)
		yield := func(s Step) (any, error) { return runStep(child, s) }
		value, err = step.gen(yield)

	case KindAsync:
		child := childContext(targetState, outer)
		runnerCtx := RunnerCtx(func(ctx context.Context, s Step) (any, error) {
			child.ctx = ctx
			return runStep(child, s)
		})
		value, err = step.async(outer.ctx, runnerCtx)

	case KindAsyncGen:
		child := childContext(targetState, outer)
		yield := func(ctx context.Context, s Step) (any, error) {
			child.ctx = ctx
			if s.Kind() == KindDialogResult {
				v := s.ResultValue()
				targetState.SetReturnValue(v)
				return v, nil
			}
			return runStep(child, s)
		}
		value, err = step.asyncGen(outer.ctx, yield)

	case KindDialogResult:
		return nil, &UnsupportedKindError{Kind: step.Kind(), DialogName: step.Name(), EntryPoint: "dispatchBody"}

	default:
		return nil, &UnsupportedKindError{Kind: step.Kind(), DialogName: step.Name(), EntryPoint: "dispatchBody"}
	}

	if err != nil {
		return nil, err
	}
	if step.Kind() == KindAsyncGen && targetState.IsDone() {
		// An async_gen body may have already completed via a yielded
		// DialogResult; don't double-set.
		return targetState.ReturnValue(), nil
	}
	targetState.SetReturnValue(value)
	return value, nil
}

// RunTurn is the asynchronous-capable entry point: it handles all seven
// step kinds, using ctx for cancellation of Async/AsyncGen work.
func RunTurn(ctx context.Context, dialog Step, persistence Persistence, clientResponse any, fallback *Step, opts ...Option) (TurnResult, error) {
	return runTurn(ctx, dialog, persistence, clientResponse, fallback, true, opts, false)
}

// RunTurnSync is the synchronous entry point: it rejects a root dialog of
// kind Async or AsyncGen with UnsupportedKindError. Only the root dialog's
// kind is checked; Async and AsyncGen steps issued from inside the dialog
// are dispatched like any other step. It shares the same dispatcher as
// RunTurn to avoid drift between the two entry points.
func RunTurnSync(dialog Step, persistence Persistence, clientResponse any, fallback *Step, opts ...Option) (TurnResult, error) {
	return runTurn(context.Background(), dialog, persistence, clientResponse, fallback, false, opts, false)
}

// runTurn is the shared implementation behind RunTurn/RunTurnSync.
// isFallbackDialog marks an internal re-entrant call running the
// fallback dialog itself (see the isFallbackDialog branch below) — it
// is never set by the public entry points.
func runTurn(ctx context.Context, dialog Step, persistence Persistence, clientResponse any, fallback *Step, allowAsync bool, opts []Option, isFallbackDialog bool) (res TurnResult, err error) {
	settings := newEngineSettings(opts)

	defer func() {
		if r := recover(); r != nil {
			if dse, ok := r.(*DialogStateError); ok {
				err = dse
				res = TurnResult{}
				return
			}
			// Uncaught author exceptions propagate unchanged; state is
			// not saved for this turn.
			panic(r)
		}
	}()

	if !allowAsync {
		if k := dialog.Kind(); k == KindAsync || k == KindAsyncGen {
			return TurnResult{}, &UnsupportedKindError{Kind: k, DialogName: dialog.Name(), EntryPoint: "RunTurnSync"}
		}
	}

	state, err := persistence.Load(ctx, dialog)
	if err != nil {
		return TurnResult{}, err
	}

	if state.HandlingFallback && fallback != nil {
		return runFallbackTurn(ctx, dialog, persistence, clientResponse, fallback, state, allowAsync, settings, opts, isFallbackDialog)
	}

	settings.events.Emit(Event{Kind: EventTurnStarted, DialogName: dialog.Name(), DialogVersion: dialog.Version()})
	start := time.Now()

	queue := NewMessageQueue()
	enqueue := queue.Enqueue
	if settings.maxQueueSize > 0 {
		enqueue = func(msg any) {
			if queue.Len() >= settings.maxQueueSize {
				panic(newDialogStateError("Enqueue", "message queue exceeded configured maximum"))
			}
			queue.Enqueue(msg)
		}
	}

	dc := &dialogContext{send: enqueue, state: state, counter: new(int), clientResponse: clientResponse, ctx: ctx}

	returnValue, runErr := runRoot(dc, dialog)

	var done bool
	switch {
	case runErr == nil:
		done = true
	case errors.Is(runErr, errVersionMismatch):
		if isFallbackDialog {
			// A fallback dialog's own mismatch, with no fallback of its
			// own, is unrecoverable rather than silently
			// reset-and-restarted.
			return TurnResult{}, &FallbackVersionMismatchError{DialogName: dialog.Name()}
		}
		settings.logger.Warn("dialog version mismatch, entering fallback",
			"dialog", dialog.Name(), "recorded_version", state.Version, "current_version", dialog.Version())
		state.Reset(dialog, true)
		settings.recorder.ObserveFallback(dialog.Name())
		settings.events.Emit(Event{Kind: EventFallbackEntered, DialogName: dialog.Name(), DialogVersion: dialog.Version()})
		return runFallbackTurn(ctx, dialog, persistence, clientResponse, fallback, state, allowAsync, settings, opts, isFallbackDialog)
	case errors.Is(runErr, errSendToClient):
		done = false
	default:
		return TurnResult{}, runErr
	}

	messages := queue.DequeueAll()
	if saveErr := persistence.Save(ctx, state); saveErr != nil {
		return TurnResult{}, saveErr
	}

	settings.recorder.ObserveTurn(dialog.Name(), done, time.Since(start))
	if done {
		settings.events.Emit(Event{Kind: EventTurnCompleted, DialogName: dialog.Name(), DialogVersion: dialog.Version()})
		settings.logger.Debug("turn completed", "dialog", dialog.Name(), "version", dialog.Version(), "messages", len(messages))
		return TurnResult{Done: true, ReturnValue: returnValue, Messages: messages}, nil
	}
	settings.events.Emit(Event{Kind: EventTurnSuspended, DialogName: dialog.Name(), DialogVersion: dialog.Version()})
	settings.logger.Debug("turn suspended", "dialog", dialog.Name(), "version", dialog.Version(), "messages", len(messages))
	return TurnResult{Done: false, Messages: messages}, nil
}

// runFallbackTurn runs the fallback dialog (itself possibly spanning
// turns); once it completes, resets the root to the current dialog and
// re-enters, splicing the fallback's final messages ahead of the
// resumed turn's messages.
func runFallbackTurn(ctx context.Context, dialog Step, persistence Persistence, clientResponse any, fallback *Step, state *DialogState, allowAsync bool, settings *engineSettings, opts []Option, isFallbackDialog bool) (TurnResult, error) {
	var messages []any

	if fallback != nil {
		// The fallback dialog runs with no fallback of its own, marked
		// isFallbackDialog so its own version mismatch surfaces as an
		// error instead of silently resetting.
		inner, err := runTurn(ctx, *fallback, persistence, clientResponse, nil, allowAsync, opts, true)
		if err != nil {
			return TurnResult{}, err
		}
		if !inner.Done {
			return inner, nil
		}
		messages = inner.Messages

		state.Reset(dialog, false)
		settings.events.Emit(Event{Kind: EventFallbackExited, DialogName: dialog.Name(), DialogVersion: dialog.Version()})
		if err := persistence.Save(ctx, state); err != nil {
			return TurnResult{}, err
		}
	}

	next, err := runTurn(ctx, dialog, persistence, clientResponse, fallback, allowAsync, opts, isFallbackDialog)
	if err != nil {
		return TurnResult{}, err
	}
	next.Messages = append(append(make([]any, 0, len(messages)+len(next.Messages)), messages...), next.Messages...)
	return next, nil
}
