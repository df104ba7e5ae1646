package platform

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/go-rod/rod/lib/proto"

	"github.com/coursehand/coursehand/browser"
	"github.com/coursehand/coursehand/clip"
	"github.com/coursehand/coursehand/handoff"
	"github.com/coursehand/coursehand/notify"
	"github.com/coursehand/coursehand/pagewatch"
	"github.com/coursehand/coursehand/prompt"
	"github.com/coursehand/coursehand/store"
)

// State names the steps of the activation sequence. Transitions are
// strictly sequential; any failure surfaces a toast and returns to
// StateIdle — no state is silently dropped.
type State string

const (
	StateIdle               State = "idle"
	StatePausing            State = "pausing"
	StateAwaitingTranscript State = "awaiting_transcript"
	StateBuildingPrompt     State = "building_prompt"
	StateCopying            State = "copying_to_clipboard"
	StateDecidingHandoff    State = "deciding_handoff"
	StateOpeningAI          State = "opening_ai"
)

const (
	// initialInsertDelay compensates for the host page's own
	// asynchronous rendering before the first insertion attempt.
	initialInsertDelay = 1500 * time.Millisecond

	// insertBackoff spaces repeated insertion attempts within one
	// trigger (initial load, navigation, button removal).
	insertBackoff = 2 * time.Second

	// insertAttemptsPerTrigger bounds one trigger's retry loop; new
	// navigation events start a fresh loop, so the overall behaviour is
	// unbounded for platforms whose adapter does not self-cap.
	insertAttemptsPerTrigger = 5
)

// Lifecycle runs the fixed capture sequence for one adapter on one tab.
type Lifecycle struct {
	adapter Adapter
	tab     *browser.Tab
	st      *store.Store
	opener  handoff.TabOpener
	logger  *slog.Logger

	mu      sync.Mutex
	state   State
	theme   string
	insertC context.CancelFunc
	// insertDone closes when the current insertion loop exits; the next
	// trigger waits on it so at most one loop talks to the adapter.
	insertDone chan struct{}
}

// NewLifecycle wires a lifecycle for the adapter driving the tab.
func NewLifecycle(a Adapter, tab *browser.Tab, st *store.Store, opener handoff.TabOpener, logger *slog.Logger) *Lifecycle {
	if logger == nil {
		logger = slog.Default()
	}
	return &Lifecycle{
		adapter: a,
		tab:     tab,
		st:      st,
		opener:  opener,
		logger:  logger,
		state:   StateIdle,
	}
}

// State returns the current activation state.
func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Initialize loads settings, schedules the first insertion attempt and
// starts the navigation/removal watch. It returns immediately when the
// show-button flag is off.
func (l *Lifecycle) Initialize(ctx context.Context) error {
	cfg, err := l.st.Settings()
	if err != nil {
		return fmt.Errorf("lifecycle: load settings: %w", err)
	}
	l.setTheme(cfg.Theme)
	if !cfg.ShowButton {
		l.logger.Info("lifecycle: button disabled in settings", "platform", l.adapter.ID())
		return nil
	}

	if err := l.bindActivation(ctx); err != nil {
		return err
	}

	watch, err := pagewatch.Start(ctx, l.tab, ButtonID, l.logger)
	if err != nil {
		return fmt.Errorf("lifecycle: start watch: %w", err)
	}

	go l.watchLoop(ctx, watch)

	// Delayed first attempt: the host page is still rendering.
	go func() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(initialInsertDelay):
		}
		l.triggerInsert(ctx)
	}()

	return nil
}

func (l *Lifecycle) bindActivation(ctx context.Context) error {
	err := proto.RuntimeAddBinding{Name: activateBinding}.Call(l.tab.Page)
	if err != nil {
		l.logger.Warn("lifecycle: add binding failed (may already exist)", "error", err)
	}

	go l.tab.Page.Context(ctx).EachEvent(func(e *proto.RuntimeBindingCalled) {
		if e.Name != activateBinding {
			return
		}
		go l.OnActivate(ctx)
	})()

	return nil
}

func (l *Lifecycle) watchLoop(ctx context.Context, watch *pagewatch.Watch) {
	defer watch.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case ev := <-watch.Events():
			switch ev.Kind {
			case pagewatch.EventNavigated:
				l.logger.Debug("lifecycle: navigation", "platform", l.adapter.ID(), "url", ev.URL)
				if err := watch.Reinject(ButtonID); err != nil {
					l.logger.Debug("lifecycle: watch reinject failed", "error", err)
				}
				l.triggerInsert(ctx)
			case pagewatch.EventMarkerRemoved:
				l.logger.Debug("lifecycle: button removed by host", "platform", l.adapter.ID())
				l.triggerInsert(ctx)
			}
		}
	}
}

// triggerInsert starts a fresh bounded insertion loop, cancelling any
// loop a previous trigger left running. The new loop waits for the old
// one to return before touching the adapter: cancellation cannot
// interrupt an in-flight browser call, and adapters keep unguarded
// per-trigger state.
func (l *Lifecycle) triggerInsert(ctx context.Context) {
	l.mu.Lock()
	if l.insertC != nil {
		l.insertC()
	}
	prev := l.insertDone
	insertCtx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	l.insertC = cancel
	l.insertDone = done
	l.mu.Unlock()

	go func() {
		defer close(done)
		if prev != nil {
			select {
			case <-prev:
			case <-insertCtx.Done():
				return
			}
		}
		policy := pagewatch.RetryPolicy{
			MaxAttempts: insertAttemptsPerTrigger,
			Backoff:     insertBackoff,
		}
		policy.Do(insertCtx, func(int) bool {
			if !l.adapter.IsVideoPage(insertCtx) {
				return true // nothing to insert here; stop quietly
			}
			return l.adapter.InsertButton(insertCtx)
		})
	}()
}

// OnActivate is the button-click state machine. Unexpected panics are
// caught at this level, reported via toast, and always restore the
// button to a clickable state.
func (l *Lifecycle) OnActivate(ctx context.Context) {
	l.mu.Lock()
	if l.state != StateIdle {
		l.mu.Unlock()
		return
	}
	l.state = StatePausing
	l.mu.Unlock()

	b, _ := l.adapter.(interface {
		setBusy(context.Context, bool)
	})
	if b != nil {
		b.setBusy(ctx, true)
	}

	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("lifecycle: activation panic",
				"platform", l.adapter.ID(), "panic", r)
			l.toast(ctx, notify.Error, "Something went wrong — please try again")
		}
		if b != nil {
			b.setBusy(ctx, false)
		}
		l.setState(StateIdle)
	}()

	// Settings are re-read on every activation.
	cfg, err := l.st.Settings()
	if err != nil {
		l.logger.Error("lifecycle: load settings", "error", err)
		l.toast(ctx, notify.Error, "Could not load settings")
		return
	}
	l.setTheme(cfg.Theme)

	// Pausing. A failed pause is logged but never aborts the flow.
	if err := l.adapter.PauseVideo(ctx); err != nil {
		l.logger.Warn("lifecycle: pause failed", "platform", l.adapter.ID(), "error", err)
	}

	// AwaitingTranscript. Empty is terminal and reported; no retry
	// beyond what the adapter already encodes.
	l.setState(StateAwaitingTranscript)
	text, err := l.adapter.GetTranscript(ctx, cfg)
	if err != nil {
		l.logger.Error("lifecycle: transcript extraction", "platform", l.adapter.ID(), "error", err)
		l.toast(ctx, notify.Error, "Transcript extraction failed")
		return
	}
	if text == "" {
		l.toast(ctx, notify.Error, "No transcript found for this video")
		return
	}

	// BuildingPrompt.
	l.setState(StateBuildingPrompt)
	tpl := prompt.Find(cfg.Prompts, cfg.ActivePromptID(l.adapter.ID()))
	body := prompt.Fill(tpl.Content, prompt.Vars{
		Title:      l.adapter.GetVideoTitle(ctx),
		URL:        l.adapter.GetVideoURL(ctx),
		Transcript: text,
	})

	// CopyingToClipboard. Copy failure degrades, it does not abort.
	l.setState(StateCopying)
	if err := clip.Copy(ctx, l.tab, body); err != nil {
		l.logger.Warn("lifecycle: clipboard copy failed", "error", err)
		l.toast(ctx, notify.Info, "Clipboard unavailable — prompt will be auto-filled")
	}

	// DecidingHandoff.
	l.setState(StateDecidingHandoff)
	opened, err := handoff.Execute(handoff.Request{
		Prompt:   body,
		Platform: l.adapter.ID(),
	}, cfg, l.st, l.opener)
	if err != nil {
		l.logger.Error("lifecycle: handoff", "platform", l.adapter.ID(), "error", err)
		l.toast(ctx, notify.Error, "Could not open the AI page — prompt is on your clipboard")
		return
	}

	if opened {
		l.setState(StateOpeningAI)
		l.toast(ctx, notify.Success, "Prompt sent to your AI chat")
	} else {
		l.toast(ctx, notify.Success, "Prompt copied to clipboard")
	}
}

func (l *Lifecycle) setState(s State) {
	l.mu.Lock()
	l.state = s
	l.mu.Unlock()
}

func (l *Lifecycle) setTheme(theme string) {
	l.mu.Lock()
	l.theme = theme
	l.mu.Unlock()
}

// themedOptions applies the stored theme preference unless the adapter
// pinned one. "system" follows the page, which is the toast's own
// default, so it stays unset.
func themedOptions(opts notify.Options, theme string) notify.Options {
	if opts.Theme == "" && theme != "" && theme != "system" {
		opts.Theme = theme
	}
	return opts
}

func (l *Lifecycle) toast(ctx context.Context, kind notify.Kind, msg string) {
	opts := notify.Options{}
	if n, ok := l.adapter.(Notifier); ok {
		opts = n.NotificationOptions()
	}
	l.mu.Lock()
	theme := l.theme
	l.mu.Unlock()
	notify.Show(ctx, l.tab, kind, msg, themedOptions(opts, theme))
}
