package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/xqrs/recyclerview"
)

// fixture is the on-disk shape of a demo feed.
type fixture struct {
	Groups []fixtureGroup `yaml:"groups"`
}

type fixtureGroup struct {
	Key       string          `yaml:"key"`
	Title     string          `yaml:"title"`
	Footer    string          `yaml:"footer,omitempty"`
	Collapsed bool            `yaml:"collapsed,omitempty"`
	Records   []fixtureRecord `yaml:"records"`
}

type fixtureRecord struct {
	Key   string `yaml:"key,omitempty"`
	Kind  string `yaml:"kind,omitempty"`
	Title string `yaml:"title"`
	Body  string `yaml:"body,omitempty"`
}

func loadFixture(path string) (fixture, error) {
	var f fixture
	data, err := os.ReadFile(path)
	if err != nil {
		return f, fmt.Errorf("failed to read fixture: %w", err)
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("failed to parse fixture: %w", err)
	}
	return f, nil
}

var sampleTitles = [...]string{
	"Deploy window confirmed",
	"Sensor calibration drift",
	"Nightly sweep finished",
	"Review requested",
	"Threshold crossed",
	"Rollout paused",
	"Backfill scheduled",
}

var sampleBodies = [...]string{
	"Follow up before the next maintenance window closes.",
	"Raw readings attached, compare against last week's baseline.",
	"No anomalies, archived to cold storage.",
	"Two approvals outstanding.",
}

// synthesizeGroup builds one group of generated records. Record keys come
// from uuid so groups appended later never collide with loaded ones.
func synthesizeGroup(index, rows int) fixtureGroup {
	g := fixtureGroup{
		Key:    uuid.NewString(),
		Title:  fmt.Sprintf("Batch %d", index+1),
		Footer: fmt.Sprintf("%d rows", rows),
	}
	for r := range rows {
		rec := fixtureRecord{
			Key:   uuid.NewString(),
			Title: fmt.Sprintf("%s #%d", sampleTitles[r%len(sampleTitles)], r+1),
		}
		if r%3 == 0 {
			rec.Kind = "task"
			rec.Body = sampleBodies[r%len(sampleBodies)]
		}
		g.Records = append(g.Records, rec)
	}
	return g
}

func synthesizeFixture(groups, rows int) fixture {
	f := fixture{Groups: make([]fixtureGroup, 0, groups)}
	for g := range groups {
		f.Groups = append(f.Groups, synthesizeGroup(g, rows))
	}
	return f
}

// demoTypes is the demo's fixed row type table.
type demoTypes struct {
	registry *recyclerview.TypeRegistry
	header   recyclerview.RecordType
	footer   recyclerview.RecordType
	note     recyclerview.RecordType
	task     recyclerview.RecordType
}

func newDemoTypes() *demoTypes {
	registry := recyclerview.NewTypeRegistry()
	return &demoTypes{
		registry: registry,
		header:   registry.Register("header"),
		footer:   registry.Register("footer"),
		note:     registry.Register("note"),
		task:     registry.Register("task"),
	}
}

// rowData is a record's payload as the renderer consumes it.
type rowData struct {
	Title string
	Body  string
}

func (ts *demoTypes) toGroup(fg fixtureGroup) recyclerview.Group {
	group := recyclerview.Group{
		Key:           fg.Key,
		HeaderType:    ts.header,
		HeaderPayload: fg.Title,
	}
	if fg.Footer != "" {
		group.FooterType = ts.footer
		group.FooterPayload = fg.Footer
	}
	for _, fr := range fg.Records {
		kind := ts.note
		if t, ok := ts.registry.Lookup(fr.Kind); ok {
			kind = t
		}
		group.Records = append(group.Records, recyclerview.Record{
			Key:     fr.Key,
			Type:    kind,
			Payload: rowData{Title: fr.Title, Body: fr.Body},
		})
	}
	return group
}

// toGroups converts a fixture into engine groups plus the keys of groups
// that start collapsed.
func (ts *demoTypes) toGroups(f fixture) (groups []recyclerview.Group, collapsed []string) {
	groups = make([]recyclerview.Group, 0, len(f.Groups))
	for _, fg := range f.Groups {
		groups = append(groups, ts.toGroup(fg))
		if fg.Collapsed {
			collapsed = append(collapsed, fg.Key)
		}
	}
	return groups, collapsed
}
