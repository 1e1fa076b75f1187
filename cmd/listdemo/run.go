package main

import (
	"fmt"
	"time"

	"github.com/gdamore/tcell/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xqrs/recyclerview"
	"github.com/xqrs/recyclerview/termlist"
)

type demoOptions struct {
	dataPath    string
	groups      int
	rows        int
	footers     bool
	logPath     string
	minViewTime time.Duration
	overscan    int
}

// newLogger builds a file logger. The terminal belongs to the widget, so
// without a path the logs are discarded.
func newLogger(path string) (*zap.Logger, error) {
	if path == "" {
		return zap.NewNop(), nil
	}
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.OutputPaths = []string{path}
	config.ErrorOutputPaths = []string{path}
	logger, err := config.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

func runDemo(opts demoOptions) error {
	logger, err := newLogger(opts.logPath)
	if err != nil {
		return err
	}
	defer logger.Sync()

	types := newDemoTypes()

	var feed fixture
	if opts.dataPath != "" {
		if feed, err = loadFixture(opts.dataPath); err != nil {
			return err
		}
	} else {
		feed = synthesizeFixture(opts.groups, opts.rows)
	}
	groups, collapsed := types.toGroups(feed)

	list := recyclerview.NewList().SetLogger(logger)
	list.SetFooters(opts.footers)
	if err := list.SetGroups(groups); err != nil {
		return fmt.Errorf("failed to load groups: %w", err)
	}
	for _, key := range collapsed {
		list.SetCollapsed(key, true)
	}

	// The synthetic feed grows when scrolling approaches the end. Growth
	// is deferred to the frame loop so it never runs inside a draw.
	appendPending := false
	nextBatch := len(groups)
	if opts.dataPath == "" {
		list.SetEndReachedFunc(func() { appendPending = true }).
			SetEndReachedThreshold(float64(opts.rows))
	}
	grow := func() {
		groups = append(groups, types.toGroup(synthesizeGroup(nextBatch, opts.rows)))
		if err := list.SetGroups(groups); err != nil {
			logger.Warn("failed to grow feed", zap.Error(err))
			return
		}
		nextBatch++
		logger.Info("feed grew",
			zap.Int("groups", len(groups)),
			zap.Int("entries", list.Len()),
		)
	}

	tracker := list.Viewability(recyclerview.ViewabilityConfig{MinViewTime: opts.minViewTime})
	defer tracker.Dispose()
	tracker.Subscribe(func(entered, exited []int) {
		logger.Info("viewable entries changed",
			zap.Ints("entered", entered),
			zap.Ints("exited", exited),
		)
	})

	widget := termlist.NewWidget(list, newDemoRenderer(list, types)).
		SetOverscan(opts.overscan)
	defer widget.Dispose()

	screen, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("failed to open screen: %w", err)
	}
	if err := screen.Init(); err != nil {
		return fmt.Errorf("failed to init screen: %w", err)
	}
	defer screen.Fini()

	resize := func() {
		width, height := screen.Size()
		widget.SetRect(0, 0, width, height)
	}
	redraw := func() {
		widget.Draw(screen)
		screen.Show()
		// Viewability passes run against the state this frame showed.
		list.Flush()
	}

	resize()
	redraw()

	for event := range screen.EventQ() {
		if event == nil {
			break
		}
		switch event := event.(type) {
		case *tcell.EventKey:
			if isQuitKey(event) {
				return nil
			}
			widget.HandleKey(event)
		case *tcell.EventMouse:
			widget.HandleMouse(event)
		case *tcell.EventResize:
			resize()
			screen.Sync()
		case *tcell.EventError:
			return fmt.Errorf("screen error: %w", event)
		}
		redraw()
		if appendPending {
			appendPending = false
			grow()
			redraw()
		}
	}
	return nil
}

func isQuitKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return event.Str() == "q"
	}
	return false
}
