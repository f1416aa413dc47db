// Package msg holds messages shared between the app and its plugins.
package msg

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// ToastMsg displays a temporary message in the footer.
type ToastMsg struct {
	Message  string
	Duration time.Duration
	IsError  bool
}

// ShowToast returns a command that shows a success toast.
func ShowToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: message, Duration: duration}
	}
}

// ShowErrorToast returns a command that shows an error toast.
func ShowErrorToast(message string, duration time.Duration) tea.Cmd {
	return func() tea.Msg {
		return ToastMsg{Message: message, Duration: duration, IsError: true}
	}
}
