package gui

import (
	"context"
	"fmt"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/widget"

	"jordanella.com/cursor-tracker/internal/tracker"
)

const refreshInterval = 250 * time.Millisecond

// ControlTab shows live tracker status and the scan controls
type ControlTab struct {
	controller *Controller

	statusLabel   *widget.Label
	positionLabel *widget.Label
	targetLabel   *widget.Label
	startBtn      *widget.Button
	stopBtn       *widget.Button
	resultsList   *widget.List

	results     []tracker.Candidate
	stopRefresh chan struct{}
}

// NewControlTab creates a new control tab
func NewControlTab(ctrl *Controller) *ControlTab {
	return &ControlTab{
		controller:  ctrl,
		stopRefresh: make(chan struct{}),
	}
}

// Build constructs the control UI
func (c *ControlTab) Build() fyne.CanvasObject {
	header := widget.NewLabelWithStyle("Tracker", fyne.TextAlignLeading, fyne.TextStyle{Bold: true})

	c.statusLabel = widget.NewLabel("Idle")
	c.positionLabel = widget.NewLabel("")
	c.targetLabel = widget.NewLabel("")

	c.startBtn = widget.NewButton("Start Scanning", func() {
		if !c.controller.app.Tracker.StartScanning() {
			dialog.ShowInformation("Scanning", "Already scanning", c.controller.window)
		}
		c.refresh()
	})
	c.stopBtn = widget.NewButton("Stop Scanning", func() {
		c.controller.app.Tracker.StopScanning()
		c.refresh()
	})
	centerBtn := widget.NewButton("Center Cursor", func() {
		if _, err := c.controller.app.Tracker.CenterCursor(); err != nil {
			dialog.ShowError(err, c.controller.window)
		}
		c.refresh()
	})
	quickBtn := widget.NewButton("Quick Scan", c.runQuickScan)

	status := widget.NewForm(
		widget.NewFormItem("Status", c.statusLabel),
		widget.NewFormItem("Cursor", c.positionLabel),
		widget.NewFormItem("Target", c.targetLabel),
	)

	c.resultsList = widget.NewList(
		func() int { return len(c.results) },
		func() fyne.CanvasObject { return widget.NewLabel("result") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			r := c.results[id]
			item.(*widget.Label).SetText(fmt.Sprintf("(%d, %d)  ratio %.3f  offset (%d, %d)",
				r.X, r.Y, r.Ratio, r.OffsetX, r.OffsetY))
		},
	)

	c.refresh()
	go c.autoRefresh()

	return container.NewBorder(
		container.NewVBox(
			header,
			status,
			container.NewHBox(c.startBtn, c.stopBtn, centerBtn, quickBtn),
			widget.NewSeparator(),
			widget.NewLabelWithStyle("Best cells", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
		),
		nil, nil, nil,
		c.resultsList,
	)
}

// runQuickScan scans off the UI goroutine and shows the results
func (c *ControlTab) runQuickScan() {
	go func() {
		results, err := c.controller.app.Tracker.QuickScan(context.Background())
		fyne.Do(func() {
			if err != nil {
				dialog.ShowError(err, c.controller.window)
				return
			}
			c.results = results
			c.resultsList.Refresh()
		})
	}()
}

func (c *ControlTab) autoRefresh() {
	ticker := time.NewTicker(refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopRefresh:
			return
		case <-ticker.C:
			fyne.Do(c.refresh)
		}
	}
}

// refresh copies the tracker status into the labels; UI goroutine only
func (c *ControlTab) refresh() {
	st := c.controller.app.Tracker.Status()

	if st.IsScanning {
		c.statusLabel.SetText(fmt.Sprintf("Scanning (%d passes)", st.Passes))
		c.startBtn.Disable()
		c.stopBtn.Enable()
	} else {
		c.statusLabel.SetText("Idle")
		c.startBtn.Enable()
		c.stopBtn.Disable()
	}

	c.positionLabel.SetText(fmt.Sprintf("(%d, %d) on %dx%d", st.Position.X, st.Position.Y, st.ScreenWidth, st.ScreenHeight))
	if st.TargetFound {
		c.targetLabel.SetText("Locked")
	} else {
		c.targetLabel.SetText("Searching")
	}
}

// Stop ends the refresh loop
func (c *ControlTab) Stop() {
	select {
	case <-c.stopRefresh:
	default:
		close(c.stopRefresh)
	}
}
