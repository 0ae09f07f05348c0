package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"github.com/netwarden/netwarden/internal/domain"
)

// newBlocksPanel renders the firewall block list with unblock and
// manual block controls.
func newBlocksPanel(ctx context.Context, dep Dependencies, banner *statusBanner) fyne.CanvasObject {
	entries := dep.Data.BlockStore.SnapshotSorted()
	var selected *domain.BlockEntry

	list := widget.NewList(
		func() int { return len(entries) },
		func() fyne.CanvasObject {
			return widget.NewLabel("ip reason")
		},
		func(id widget.ListItemID, obj fyne.CanvasObject) {
			if id >= len(entries) {
				return
			}
			entry := entries[id]
			label := obj.(*widget.Label)
			text := entry.IP
			if entry.Trusted {
				text += " (trusted)"
			}
			if entry.Reason != "" {
				text += " - " + entry.Reason
			}
			if !entry.CreatedAt.IsZero() {
				text += " - " + entry.CreatedAt.Format(time.DateOnly)
			}
			label.SetText(text)
		},
	)
	list.OnSelected = func(id widget.ListItemID) {
		if id < len(entries) {
			entry := entries[id]
			selected = &entry
		}
	}
	list.OnUnselected = func(widget.ListItemID) {
		selected = nil
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-dep.Data.BlockStore.Changes():
				fyne.Do(func() {
					entries = dep.Data.BlockStore.SnapshotSorted()
					list.Refresh()
				})
			}
		}
	}()

	unblockButton := widget.NewButton("Unblock", func() {
		if selected == nil {
			banner.ShowError("Select a block entry first")

			return
		}
		entry := *selected
		go func() {
			err := dep.Actions.OnUnblock(ctx, entry.IP)
			fyne.Do(func() {
				if err != nil {
					banner.ShowError("Unblock failed: " + err.Error())

					return
				}
				banner.ShowSuccess("Unblocked " + entry.IP)
			})
		}()
	})

	ipEntry := widget.NewEntry()
	ipEntry.SetPlaceHolder("192.0.2.1")
	reasonEntry := widget.NewEntry()
	reasonEntry.SetPlaceHolder("Reason (optional)")
	addButton := widget.NewButton("Block", func() {
		ip := strings.TrimSpace(ipEntry.Text)
		if ip == "" {
			banner.ShowError("Enter an IP address to block")

			return
		}
		reason := strings.TrimSpace(reasonEntry.Text)
		go func() {
			err := dep.Actions.OnBlock(ctx, ip, reason)
			fyne.Do(func() {
				if err != nil {
					banner.ShowError("Block failed: " + err.Error())

					return
				}
				ipEntry.SetText("")
				reasonEntry.SetText("")
				banner.ShowSuccess(fmt.Sprintf("Blocked %s", ip))
			})
		}()
	})

	addRow := container.NewBorder(nil, nil, nil, addButton, container.NewGridWithColumns(2, ipEntry, reasonEntry))
	listBox := container.NewBorder(nil, container.NewHBox(unblockButton), nil, nil, list)
	listBox = container.NewBorder(nil, addRow, nil, nil, listBox)

	return widget.NewCard("Blocked addresses", "", listBox)
}
