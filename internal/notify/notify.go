// Package notify schedules local "go categorize this" notifications.
// Delivery is fire-and-forget: a lost notification only delays triage.
package notify

import (
	"context"
	"log"
	"os/exec"
	"strings"

	"github.com/google/uuid"
)

// Notification category and copy for completed screenshot imports.
const (
	CategoryScreenshot = "SCREENSHOT_CATEGORY"

	screenshotTitle = "Screenshot captured"
	screenshotBody  = "Open Inbox to categorize it now."
)

// Notifier delivers local notifications.
type Notifier interface {
	// ScheduleCategorize posts the categorize prompt for a completed
	// screenshot import. Errors are delivery failures only; callers
	// log and move on.
	ScheduleCategorize(ctx context.Context) error
}

// CommandNotifier shells out to a desktop notification command
// (notify-send by default). Extra arguments may be baked into the
// command string.
type CommandNotifier struct {
	Command string
}

// NewCommandNotifier builds a notifier around the given command line.
func NewCommandNotifier(command string) *CommandNotifier {
	return &CommandNotifier{Command: command}
}

// ScheduleCategorize runs the notification command with the fixed
// screenshot copy. Each request carries a fresh id for log correlation.
func (n *CommandNotifier) ScheduleCategorize(ctx context.Context) error {
	if strings.TrimSpace(n.Command) == "" {
		return nil
	}

	requestID := uuid.NewString()
	parts := strings.Fields(n.Command)
	args := append(parts[1:], "--category", CategoryScreenshot, screenshotTitle, screenshotBody)

	cmd := exec.CommandContext(ctx, parts[0], args...)
	if err := cmd.Start(); err != nil {
		return err
	}

	// Reap in the background; the import loop never waits on delivery.
	go func() {
		if err := cmd.Wait(); err != nil {
			log.Printf("notification %s: %v", requestID, err)
		}
	}()

	return nil
}

// NopNotifier drops every notification. Used in tests and when
// notifications are disabled by config.
type NopNotifier struct{}

// ScheduleCategorize does nothing.
func (NopNotifier) ScheduleCategorize(context.Context) error { return nil }
