package gui

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"jordanella.com/cursor-tracker/internal/events"
)

// LogTab lists tracker events as they are published
type LogTab struct {
	controller *Controller

	lines   []string
	linesMu sync.RWMutex
	maxLogs int

	logList         *widget.List
	autoScrollCheck *widget.Check
	subscriptions   []events.SubscriptionID
}

// NewLogTab creates a log tab subscribed to every tracker event
func NewLogTab(ctrl *Controller) *LogTab {
	tab := &LogTab{
		controller: ctrl,
		lines:      make([]string, 0, 500),
		maxLogs:    500,
	}

	tab.subscriptions = append(tab.subscriptions, ctrl.app.Bus.SubscribeAll(tab.onEvent))
	return tab
}

// Build constructs the log viewer UI
func (l *LogTab) Build() fyne.CanvasObject {
	l.autoScrollCheck = widget.NewCheck("Auto-scroll", nil)
	l.autoScrollCheck.SetChecked(true)

	clearBtn := widget.NewButton("Clear", func() {
		l.linesMu.Lock()
		l.lines = l.lines[:0]
		l.linesMu.Unlock()
		l.logList.Refresh()
	})

	l.logList = widget.NewList(
		func() int {
			l.linesMu.RLock()
			defer l.linesMu.RUnlock()
			return len(l.lines)
		},
		func() fyne.CanvasObject { return widget.NewLabel("event") },
		func(id widget.ListItemID, item fyne.CanvasObject) {
			l.linesMu.RLock()
			defer l.linesMu.RUnlock()
			if id < len(l.lines) {
				item.(*widget.Label).SetText(l.lines[id])
			}
		},
	)

	return container.NewBorder(
		container.NewHBox(
			widget.NewLabelWithStyle("Event Log", fyne.TextAlignLeading, fyne.TextStyle{Bold: true}),
			l.autoScrollCheck,
			clearBtn,
		),
		nil, nil, nil,
		l.logList,
	)
}

// onEvent runs on the bus goroutine
func (l *LogTab) onEvent(e events.Event) {
	line := formatEvent(e)

	l.linesMu.Lock()
	l.lines = append(l.lines, line)
	if len(l.lines) > l.maxLogs {
		l.lines = l.lines[len(l.lines)-l.maxLogs:]
	}
	l.linesMu.Unlock()

	fyne.Do(func() {
		if l.logList == nil {
			return
		}
		l.logList.Refresh()
		if l.autoScrollCheck.Checked {
			l.logList.ScrollToBottom()
		}
	})
}

// Stop detaches the tab from the event bus
func (l *LogTab) Stop() {
	for _, id := range l.subscriptions {
		l.controller.app.Bus.Unsubscribe(id)
	}
	l.subscriptions = nil
}

func formatEvent(e events.Event) string {
	keys := make([]string, 0, len(e.Data))
	for k := range e.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s", e.Timestamp.Format("15:04:05"), e.Type)
	for _, k := range keys {
		fmt.Fprintf(&b, "  %s=%v", k, e.Data[k])
	}
	return b.String()
}
