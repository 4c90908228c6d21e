package provisioning

import (
	"fmt"
	"log"
	"strings"
	"time"
)

// Observer is the structured observability surface of a run. Phases and
// the command handlers report through it; implementations decide how
// the events reach the operator.
type Observer interface {
	// Printf emits a free-form progress line.
	Printf(format string, v ...interface{})

	// Event emits a structured event.
	Event(event Event)

	// Progress reports progress for a phase.
	Progress(phase string, current, total int)

	// WithFields returns a new Observer carrying additional context
	// fields on every event.
	WithFields(fields map[string]string) Observer
}

// Event represents a structured lifecycle event.
type Event struct {
	Type      EventType
	Phase     string
	Message   string
	Resource  string
	Timestamp time.Time
	Fields    map[string]string
}

// EventType classifies lifecycle events.
type EventType string

const (
	// EventPhaseStarted indicates a lifecycle phase has started.
	EventPhaseStarted EventType = "phase.started"
	// EventPhaseCompleted indicates a lifecycle phase completed.
	EventPhaseCompleted EventType = "phase.completed"
	// EventPhaseFailed indicates a lifecycle phase failed.
	EventPhaseFailed EventType = "phase.failed"

	// EventSubnetEnsured indicates a vSwitch subnet exists on the
	// cluster network.
	EventSubnetEnsured EventType = "subnet.ensured"
	// EventSubnetRemoved indicates a vSwitch subnet was removed.
	EventSubnetRemoved EventType = "subnet.removed"

	// EventArtifactWritten indicates a generated artifact was written.
	EventArtifactWritten EventType = "artifact.written"

	// EventTokenIssued indicates a bootstrap token was issued.
	EventTokenIssued EventType = "token.issued"
	// EventTokenRotated indicates a bootstrap token was rotated.
	EventTokenRotated EventType = "token.rotated"

	// EventNodeInstalling indicates a rescue-mode install started.
	EventNodeInstalling EventType = "node.installing"
	// EventNodeInstalled indicates a rescue-mode install finished.
	EventNodeInstalled EventType = "node.installed"
	// EventNodeInstallFailed indicates a rescue-mode install failed.
	// Installs are best effort, so this never aborts the run.
	EventNodeInstallFailed EventType = "node.install_failed"
	// EventNodeSkipped indicates a node needed no work this run.
	EventNodeSkipped EventType = "node.skipped"

	// EventNodeDraining indicates a node is being drained.
	EventNodeDraining EventType = "node.draining"
	// EventNodeRemoved indicates a node was removed from the cluster.
	EventNodeRemoved EventType = "node.removed"
)

// ConsoleObserver implements Observer on the standard log package.
type ConsoleObserver struct {
	contextFields map[string]string
}

// NewConsoleObserver creates a console-based observer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{
		contextFields: make(map[string]string),
	}
}

// Printf implements Observer.
func (o *ConsoleObserver) Printf(format string, v ...interface{}) {
	log.Printf(format, v...)
}

// Event implements Observer.
func (o *ConsoleObserver) Event(event Event) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	if event.Fields == nil {
		event.Fields = make(map[string]string)
	}
	for k, v := range o.contextFields {
		if _, exists := event.Fields[k]; !exists {
			event.Fields[k] = v
		}
	}

	log.Print(o.formatEvent(event))
}

// Progress implements Observer.
func (o *ConsoleObserver) Progress(phase string, current, total int) {
	if total == 0 {
		log.Printf("[%s] progress: %d/%d", phase, current, total)
		return
	}
	percentage := (current * 100) / total
	log.Printf("[%s] progress: %d/%d (%d%%)", phase, current, total, percentage)
}

// WithFields implements Observer.
func (o *ConsoleObserver) WithFields(fields map[string]string) Observer {
	newFields := make(map[string]string, len(o.contextFields)+len(fields))
	for k, v := range o.contextFields {
		newFields[k] = v
	}
	for k, v := range fields {
		newFields[k] = v
	}
	return &ConsoleObserver{contextFields: newFields}
}

func (o *ConsoleObserver) formatEvent(event Event) string {
	var parts []string

	parts = append(parts, string(event.Type))
	if event.Phase != "" {
		parts = append(parts, fmt.Sprintf("[%s]", event.Phase))
	}
	if event.Resource != "" {
		parts = append(parts, fmt.Sprintf("resource=%s", event.Resource))
	}
	parts = append(parts, event.Message)

	if len(event.Fields) > 0 {
		var fieldParts []string
		for k, v := range event.Fields {
			fieldParts = append(fieldParts, fmt.Sprintf("%s=%s", k, v))
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(fieldParts, ", ")))
	}

	return strings.Join(parts, " ")
}
