package ui

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// NotificationSender delivers a desktop notification
type NotificationSender interface {
	Send(title, message string) error
}

// commandSender runs a platform tool built by the command func
type commandSender struct {
	command func(title, message string) *exec.Cmd
}

func (c commandSender) Send(title, message string) error {
	return c.command(title, message).Run()
}

func notifySendCommand(title, message string) *exec.Cmd {
	return exec.Command("notify-send", "--app-name=igprofiler", title, message)
}

func osascriptCommand(title, message string) *exec.Cmd {
	script := fmt.Sprintf(`display notification %s with title %s`,
		appleScriptString(message), appleScriptString(title))
	return exec.Command("osascript", "-e", script)
}

func powershellCommand(title, message string) *exec.Cmd {
	script := fmt.Sprintf(`[Windows.UI.Notifications.ToastNotificationManager, Windows.UI.Notifications, ContentType = WindowsRuntime] | Out-Null
$template = [Windows.UI.Notifications.ToastNotificationManager]::GetTemplateContent([Windows.UI.Notifications.ToastTemplateType]::ToastText02)
$text = $template.GetElementsByTagName("text")
$text.Item(0).AppendChild($template.CreateTextNode(%s)) | Out-Null
$text.Item(1).AppendChild($template.CreateTextNode(%s)) | Out-Null
[Windows.UI.Notifications.ToastNotificationManager]::CreateToastNotifier("igprofiler").Show([Windows.UI.Notifications.ToastNotification]::new($template))`,
		powershellString(title), powershellString(message))
	return exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
}

// appleScriptString quotes s as an AppleScript string literal
func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return `"` + strings.ReplaceAll(s, `"`, `\"`) + `"`
}

// powershellString quotes s as a single-quoted PowerShell literal
func powershellString(s string) string {
	return `'` + strings.ReplaceAll(s, `'`, `''`) + `'`
}

// Notifier prints run notifications and mirrors them to the desktop
type Notifier struct {
	sender NotificationSender
}

// NewNotifier picks the desktop sender for the current platform.
// On unsupported platforms notifications are only printed.
func NewNotifier() *Notifier {
	var command func(title, message string) *exec.Cmd
	switch runtime.GOOS {
	case "linux":
		command = notifySendCommand
	case "darwin":
		command = osascriptCommand
	case "windows":
		command = powershellCommand
	default:
		return &Notifier{}
	}
	return &Notifier{sender: commandSender{command: command}}
}

// SendError sends an error notification
func (n *Notifier) SendError(title, message string) {
	printf("\n%s: %s\n", Red(title), Red(message))
	n.send(title, message)
}

// SendSuccess sends a success notification
func (n *Notifier) SendSuccess(title, message string) {
	printf("\n%s: %s\n", Green(title), Green(message))
	n.send(title, message)
}

// NotifyRunComplete reports the outcome of a scrape run
func (n *Notifier) NotifyRunComplete(tracker *StatusTracker) {
	scraped, partial, failed := tracker.Counts()
	message := fmt.Sprintf("%d scraped, %d partial, %d failed", scraped, partial, failed)

	if scraped+partial == 0 {
		n.SendError("Scrape failed", message)
		return
	}
	n.SendSuccess("Scrape complete", message)
}

// send delivers to the desktop; a missing notifier tool is not an error
func (n *Notifier) send(title, message string) {
	if n == nil || n.sender == nil {
		return
	}
	_ = n.sender.Send(title, message)
}
