package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/marcus/notehub/internal/modal"
	"github.com/marcus/notehub/internal/styles"
)

// ConfirmDialog describes a yes/no modal. ToModal returns "confirm" or
// "cancel" actions.
type ConfirmDialog struct {
	Title        string
	Message      string
	ConfirmLabel string
	CancelLabel  string
	BorderColor  lipgloss.Color
	Width        int
}

// NewConfirmDialog creates a dialog with default labels and width.
func NewConfirmDialog(title, message string) *ConfirmDialog {
	return &ConfirmDialog{
		Title:        title,
		Message:      message,
		ConfirmLabel: " Confirm ",
		CancelLabel:  " Cancel ",
		BorderColor:  styles.Primary,
		Width:        ModalWidthMedium,
	}
}

// ToModal builds the modal. A red border color selects the danger variant.
func (d *ConfirmDialog) ToModal() *modal.Modal {
	variant := modal.VariantDefault
	switch d.BorderColor {
	case styles.Error:
		variant = modal.VariantDanger
	case styles.Warning:
		variant = modal.VariantWarning
	case styles.Info:
		variant = modal.VariantInfo
	}

	var confirmOpts []modal.ButtonOption
	if variant == modal.VariantDanger {
		confirmOpts = append(confirmOpts, modal.BtnDanger())
	}

	return modal.New(d.Title,
		modal.WithWidth(d.Width),
		modal.WithVariant(variant),
		modal.WithPrimaryAction("confirm"),
		modal.WithHints(false),
	).
		AddSection(modal.Text(d.Message)).
		AddSection(modal.Spacer()).
		AddSection(modal.Buttons(
			modal.Btn(d.ConfirmLabel, "confirm", confirmOpts...),
			modal.Btn(d.CancelLabel, modal.ActionCancel),
		))
}
