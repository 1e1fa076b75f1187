// Package recyclerview implements the windowing core for very large,
// sectioned lists: it flattens grouped data into a single addressable
// sequence, lazily positions every entry along the scroll axis, answers
// visible-range queries, recycles rendering cells by record type, and tracks
// which records count as viewable for analytics.
//
// The package is renderer-agnostic. A host supplies data as [Group] values,
// feeds scroll and measurement callbacks into a [List], and draws whatever
// [List.VisibleRange] reports, using cells from the list's [Pool]. The
// termlist subpackage contains a ready-made terminal host built on tcell.
//
// All types are single-consumer: none of them lock, and every instance is
// independent, so any number of lists can coexist. The only deferred work is
// the viewability pass, which runs on an explicit [Scheduler] that the host
// pumps once per frame or turn.
package recyclerview
