// Package termlist renders a recyclerview.List as a terminal widget on a
// tcell screen. One layout unit is one terminal row: the widget measures
// entries through its Renderer, feeds the heights back into the engine,
// and paints only the visible window, recycling draw slots through the
// engine's cell pool. Collapse toggling, a pinned sticky header, and a
// fractional scroll bar are built in; everything entry-specific goes
// through the Renderer.
//
// The widget is standalone: it draws onto any tcell.Screen and exposes
// plain handler methods for key and mouse events, so hosts own the event
// loop and call Draw whenever they repaint.
package termlist
