package layout

import (
	"testing"

	"github.com/lineascope/lineascope/pkg/lineage"
)

func TestSelection_NeutralWhenInactive(t *testing.T) {
	var s Selection

	if got := s.ClassifyEdge(edge("a", "b")); got != EmphasisNeutral {
		t.Errorf("ClassifyEdge() = %s, want %s", got, EmphasisNeutral)
	}
	if got := s.ClassifyColumn("a", "c"); got != EmphasisNeutral {
		t.Errorf("ClassifyColumn() = %s, want %s", got, EmphasisNeutral)
	}
	if _, ok := s.Active(); ok {
		t.Error("Active() = true, want false")
	}
}

func TestSelection_SelectedEdgeIsRelated(t *testing.T) {
	var s Selection
	e := edge("a", "b")
	s.Select(e)

	if got := s.ClassifyEdge(e); got != EmphasisRelated {
		t.Errorf("ClassifyEdge(selected) = %s, want %s", got, EmphasisRelated)
	}
}

func TestSelection_SharedEndpointsAreRelated(t *testing.T) {
	var s Selection
	s.Select(lineage.Edge{SourceNodeID: "s", SourceColumn: "colX", TargetNodeID: "t", TargetColumn: "colY"})

	tests := []struct {
		name string
		e    lineage.Edge
		want Emphasis
	}{
		{
			name: "same source pair",
			e:    lineage.Edge{SourceNodeID: "s", SourceColumn: "colX", TargetNodeID: "other", TargetColumn: "z"},
			want: EmphasisRelated,
		},
		{
			name: "same target pair",
			e:    lineage.Edge{SourceNodeID: "other", SourceColumn: "z", TargetNodeID: "t", TargetColumn: "colY"},
			want: EmphasisRelated,
		},
		{
			name: "same source node different column",
			e:    lineage.Edge{SourceNodeID: "s", SourceColumn: "colZ", TargetNodeID: "other", TargetColumn: "z"},
			want: EmphasisUnrelated,
		},
		{
			name: "unconnected",
			e:    lineage.Edge{SourceNodeID: "p", SourceColumn: "a", TargetNodeID: "q", TargetColumn: "b"},
			want: EmphasisUnrelated,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := s.ClassifyEdge(tt.e); got != tt.want {
				t.Errorf("ClassifyEdge() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestSelection_ClassifyColumn(t *testing.T) {
	var s Selection
	s.Select(lineage.Edge{SourceNodeID: "s", SourceColumn: "colX", TargetNodeID: "t", TargetColumn: "colY"})

	if got := s.ClassifyColumn("s", "colX"); got != EmphasisRelated {
		t.Errorf("ClassifyColumn(source endpoint) = %s, want %s", got, EmphasisRelated)
	}
	if got := s.ClassifyColumn("t", "colY"); got != EmphasisRelated {
		t.Errorf("ClassifyColumn(target endpoint) = %s, want %s", got, EmphasisRelated)
	}
	if got := s.ClassifyColumn("s", "colY"); got != EmphasisUnrelated {
		t.Errorf("ClassifyColumn(other column) = %s, want %s", got, EmphasisUnrelated)
	}
}

func TestSelection_ClearResetsToNeutral(t *testing.T) {
	var s Selection
	s.Select(edge("a", "b"))
	s.Clear()

	if got := s.ClassifyEdge(edge("a", "b")); got != EmphasisNeutral {
		t.Errorf("ClassifyEdge() after Clear = %s, want %s", got, EmphasisNeutral)
	}
}

func TestSelection_ReplacesPrevious(t *testing.T) {
	var s Selection
	first := edge("a", "b")
	second := edge("x", "y")
	s.Select(first)
	s.Select(second)

	active, ok := s.Active()
	if !ok || active != second {
		t.Errorf("Active() = %+v, %v, want %+v, true", active, ok, second)
	}
	if got := s.ClassifyEdge(first); got != EmphasisUnrelated {
		t.Errorf("ClassifyEdge(first) = %s, want %s", got, EmphasisUnrelated)
	}
}
