package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/stackgen/pkg/graph"
	"github.com/matzehuels/stackgen/pkg/pipeline"
)

func exploreFixture() *pipeline.Result {
	core := graph.NodeID{Project: "/w/Core", Target: "Core"}
	app := graph.NodeID{Project: "/w/App", Target: "App"}
	return &pipeline.Result{
		Root: "/w",
		Document: graph.Document{
			Nodes: []graph.DocumentNode{{ID: app, Product: "app"}, {ID: core, Product: "framework"}},
			Edges: []graph.DocumentEdge{{From: app, To: core}},
			Order: []graph.NodeID{core, app},
		},
	}
}

func key(s string) tea.KeyMsg {
	if s == "tab" {
		return tea.KeyMsg{Type: tea.KeyTab}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestExploreNavigation(t *testing.T) {
	var m tea.Model = newExploreModel(exploreFixture())

	title, ids := m.(exploreModel).related()
	if title != "Dependencies" || len(ids) != 0 {
		t.Errorf("Core dependencies = %v", ids)
	}

	m, _ = m.Update(key("j"))
	m, _ = m.Update(key("j")) // clamped at the last row
	em := m.(exploreModel)
	if em.cursor != 1 {
		t.Fatalf("cursor = %d", em.cursor)
	}
	if _, ids := em.related(); len(ids) != 1 || ids[0].Target != "Core" {
		t.Errorf("App dependencies = %v", ids)
	}

	m, _ = m.Update(key("k"))
	m, _ = m.Update(key("tab"))
	title, ids = m.(exploreModel).related()
	if title != "Dependents" || len(ids) != 1 || ids[0].Target != "App" {
		t.Errorf("Core dependents = %s %v", title, ids)
	}

	view := m.View()
	if !strings.Contains(view, "App:App") || !strings.Contains(view, "[1/2]") {
		t.Errorf("view:\n%s", view)
	}

	if _, cmd := m.Update(key("q")); cmd == nil {
		t.Error("q should quit")
	}
}

func TestExploreEmpty(t *testing.T) {
	m := newExploreModel(&pipeline.Result{})
	if _, ids := m.related(); ids != nil {
		t.Errorf("related = %v", ids)
	}
	_ = m.View()
}
