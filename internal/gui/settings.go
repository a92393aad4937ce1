package gui

import (
	"fmt"
	"strconv"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"jordanella.com/cursor-tracker/internal/tracker"
)

// SettingsTab edits the runtime scan settings
type SettingsTab struct {
	controller *Controller

	stepEntry      *widget.Entry
	rangeEntry     *widget.Entry
	thresholdEntry *widget.Entry
	smoothCheck    *widget.Check
}

// NewSettingsTab creates a new settings tab
func NewSettingsTab(ctrl *Controller) *SettingsTab {
	return &SettingsTab{controller: ctrl}
}

// Build constructs the settings form
func (s *SettingsTab) Build() fyne.CanvasObject {
	s.stepEntry = widget.NewEntry()
	s.rangeEntry = widget.NewEntry()
	s.thresholdEntry = widget.NewEntry()
	s.smoothCheck = widget.NewCheck("Smooth movement", nil)
	s.load(s.controller.app.Tracker.Settings())

	form := widget.NewForm(
		widget.NewFormItem("Scan step (px)", s.stepEntry),
		widget.NewFormItem("Scan range (px)", s.rangeEntry),
		widget.NewFormItem("Match threshold", s.thresholdEntry),
		widget.NewFormItem("", s.smoothCheck),
	)

	applyBtn := widget.NewButton("Apply", s.apply)
	resetBtn := widget.NewButton("Revert", func() {
		s.load(s.controller.app.Tracker.Settings())
	})

	return container.NewVBox(
		widget.NewLabelWithStyle("Scan Settings", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		form,
		container.NewHBox(applyBtn, resetBtn),
		widget.NewLabel("Changes apply to the next scan pass and are not saved."),
	)
}

func (s *SettingsTab) load(settings tracker.Settings) {
	s.stepEntry.SetText(strconv.Itoa(settings.ScanStep))
	s.rangeEntry.SetText(strconv.Itoa(settings.ScanRange))
	s.thresholdEntry.SetText(strconv.FormatFloat(settings.MatchThreshold, 'f', -1, 64))
	s.smoothCheck.SetChecked(settings.SmoothMovement)
}

func (s *SettingsTab) apply() {
	update, err := s.parse()
	if err != nil {
		dialog.ShowError(err, s.controller.window)
		return
	}

	settings, err := s.controller.app.Tracker.UpdateSettings(update)
	if err != nil {
		dialog.ShowError(err, s.controller.window)
		return
	}
	s.load(settings)
}

// parse reads every field into an update
func (s *SettingsTab) parse() (tracker.SettingsUpdate, error) {
	step, err := strconv.Atoi(s.stepEntry.Text)
	if err != nil {
		return tracker.SettingsUpdate{}, fmt.Errorf("scan step: %w", err)
	}
	rng, err := strconv.Atoi(s.rangeEntry.Text)
	if err != nil {
		return tracker.SettingsUpdate{}, fmt.Errorf("scan range: %w", err)
	}
	threshold, err := strconv.ParseFloat(s.thresholdEntry.Text, 64)
	if err != nil {
		return tracker.SettingsUpdate{}, fmt.Errorf("match threshold: %w", err)
	}
	smooth := s.smoothCheck.Checked

	return tracker.SettingsUpdate{
		ScanStep:       &step,
		ScanRange:      &rng,
		MatchThreshold: &threshold,
		SmoothMovement: &smooth,
	}, nil
}
