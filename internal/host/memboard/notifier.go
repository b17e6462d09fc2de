package memboard

import "sync"

// Notifier records UI feedback instead of displaying it, and answers
// confirmation dialogs from a configurable queue (default yes). It doubles
// as the test observer for toast and log assertions.
type Notifier struct {
	mu       sync.Mutex
	Toasts   []string
	Logs     []string
	Loading  []string
	answers  []bool
	loadRefs int
}

// NewNotifier creates a recording notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Toast records a toast message.
func (n *Notifier) Toast(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Toasts = append(n.Toasts, msg)
}

// Confirm answers from the queued answers, defaulting to yes when empty.
func (n *Notifier) Confirm(question string) bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Logs = append(n.Logs, "confirm: "+question)
	if len(n.answers) == 0 {
		return true
	}
	a := n.answers[0]
	n.answers = n.answers[1:]
	return a
}

// QueueAnswer enqueues the answer for the next Confirm call.
func (n *Notifier) QueueAnswer(yes bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.answers = append(n.answers, yes)
}

// ShowLoading records a progress indicator being shown.
func (n *Notifier) ShowLoading(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Loading = append(n.Loading, msg)
	n.loadRefs++
}

// HideLoading records the progress indicator being cleared.
func (n *Notifier) HideLoading() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.loadRefs--
}

// LoadingOpen reports whether a progress indicator is still showing.
// Commands are expected to always clear what they show.
func (n *Notifier) LoadingOpen() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.loadRefs > 0
}

// Log records a log line.
func (n *Notifier) Log(msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Logs = append(n.Logs, msg)
}
