package main

import (
	"fmt"

	"github.com/gdamore/tcell/v3"

	"github.com/xqrs/recyclerview"
	"github.com/xqrs/recyclerview/termlist"
)

// demoRenderer draws fixture rows: headers with a collapse marker and
// record count, notes on one row, tasks with a dimmed body row.
type demoRenderer struct {
	list   *recyclerview.List
	types  *demoTypes
	styles termlist.Styles
	body   tcell.Style
}

func newDemoRenderer(list *recyclerview.List, types *demoTypes) *demoRenderer {
	styles := termlist.DefaultStyles()
	return &demoRenderer{
		list:   list,
		types:  types,
		styles: styles,
		body:   styles.Row.Dim(true),
	}
}

func (r *demoRenderer) Height(entry recyclerview.FlatEntry, width int) int {
	if entry.Type == r.types.task {
		return 2
	}
	return 1
}

func (r *demoRenderer) Draw(screen tcell.Screen, entry recyclerview.FlatEntry, cell *recyclerview.Cell, x, y, width, height int, selected bool) {
	switch entry.Kind {
	case recyclerview.KindHeader:
		title := fmt.Sprintf("▾ %v", entry.Payload)
		if r.list.IsCollapsed(entry.GroupKey) {
			title = fmt.Sprintf("▸ %v", entry.Payload)
		} else if b, ok := r.list.BoundaryFor(entry.GroupKey); ok {
			title = fmt.Sprintf("%s (%d)", title, b.RecordCount)
		}
		style := r.styles.Header
		if selected {
			style = r.styles.SelectedRow
		}
		screen.PutStrStyled(x, y, title, style)
	case recyclerview.KindFooter:
		screen.PutStrStyled(x+2, y, fmt.Sprintf("%v", entry.Payload), r.styles.Footer)
	default:
		data, _ := entry.Payload.(rowData)
		style := r.styles.Row
		if selected {
			style = r.styles.SelectedRow
		}
		screen.PutStrStyled(x+2, y, data.Title, style)
		if data.Body != "" && height > 1 {
			screen.PutStrStyled(x+4, y+1, data.Body, r.body)
		}
	}
}

var _ termlist.Renderer = &demoRenderer{}
