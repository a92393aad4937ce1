package gui

import (
	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"

	"jordanella.com/cursor-tracker/internal/app"
)

// Controller binds the control panel to a running tracker app
type Controller struct {
	app    *app.App
	window fyne.Window

	controlTab  *ControlTab
	settingsTab *SettingsTab
	logTab      *LogTab
}

// NewController creates the panel controller for a
func NewController(a *app.App, window fyne.Window) *Controller {
	ctrl := &Controller{
		app:    a,
		window: window,
	}

	ctrl.controlTab = NewControlTab(ctrl)
	ctrl.settingsTab = NewSettingsTab(ctrl)
	ctrl.logTab = NewLogTab(ctrl)

	return ctrl
}

// BuildUI constructs the tabbed panel
func (c *Controller) BuildUI() fyne.CanvasObject {
	return container.NewAppTabs(
		container.NewTabItem("Tracking", c.controlTab.Build()),
		container.NewTabItem("Settings", c.settingsTab.Build()),
		container.NewTabItem("Event Log", c.logTab.Build()),
	)
}

// Shutdown stops the refresh loops and detaches from the event bus
func (c *Controller) Shutdown() {
	c.controlTab.Stop()
	c.logTab.Stop()
}
