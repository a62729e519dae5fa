package appstate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"grafanapdf/pkg/sdk"
)

func panel(title string) sdk.PlacedPanel {
	return sdk.PlacedPanel{Panel: sdk.Panel{Title: title}, W: 1, H: 1}
}

func titles(panels []sdk.PlacedPanel) []string {
	out := make([]string, 0, len(panels))
	for _, p := range panels {
		out = append(out, p.Title)
	}
	return out
}

func TestRemovePanelFromLayout(t *testing.T) {
	s := New(nil, nil)
	for _, name := range []string{"A", "B", "C"} {
		s.AddPanelToLayout(panel(name))
	}

	require.NoError(t, s.RemovePanelFromLayout(1))
	assert.Equal(t, []string{"A", "C"}, titles(s.Snapshot().ReportLayout.Panels))

	assert.ErrorIs(t, s.RemovePanelFromLayout(2), ErrPanelIndex)
	assert.ErrorIs(t, s.RemovePanelFromLayout(-1), ErrPanelIndex)
	assert.Equal(t, []string{"A", "C"}, titles(s.Snapshot().ReportLayout.Panels))
}

func TestRemovePanelKeepsSnapshotsIntact(t *testing.T) {
	s := New(nil, nil)
	for _, name := range []string{"A", "B", "C"} {
		s.AddPanelToLayout(panel(name))
	}
	before := s.Snapshot()

	require.NoError(t, s.RemovePanelFromLayout(0))
	assert.Equal(t, []string{"A", "B", "C"}, titles(before.ReportLayout.Panels))
	assert.Equal(t, []string{"B", "C"}, titles(s.Snapshot().ReportLayout.Panels))
}

func TestUpdatePanelPosition(t *testing.T) {
	s := New(nil, nil)
	s.AddPanelToLayout(panel("A"))

	require.NoError(t, s.UpdatePanelPosition(0, 1, 2, 3, 4))
	p := s.Snapshot().ReportLayout.Panels[0]
	assert.Equal(t, [4]int{1, 2, 3, 4}, [4]int{p.X, p.Y, p.W, p.H})
	assert.Equal(t, "A", p.Title)

	assert.ErrorIs(t, s.UpdatePanelPosition(1, 0, 0, 1, 1), ErrPanelIndex)
}

func TestUpdateReportGrid(t *testing.T) {
	s := New(nil, nil)

	require.NoError(t, s.UpdateReportGrid(3, 4))
	d := s.Snapshot().ReportLayout
	assert.Equal(t, 3, d.Rows)
	assert.Equal(t, 4, d.Columns)

	assert.Error(t, s.UpdateReportGrid(0, 2))
	assert.Error(t, s.UpdateReportGrid(2, -1))
	assert.Equal(t, 3, s.Snapshot().ReportLayout.Rows)
}

func TestSetReportLayoutValidates(t *testing.T) {
	s := New(nil, nil)
	assert.Error(t, s.SetReportLayout(Draft{Rows: 0, Columns: 1}))

	require.NoError(t, s.SetReportLayout(Draft{Rows: 1, Columns: 3}))
	d := s.Snapshot().ReportLayout
	assert.Equal(t, 3, d.Columns)
	assert.NotNil(t, d.Panels)
}

func TestLoadLayoutAndToLayout(t *testing.T) {
	s := New(nil, nil)
	require.NoError(t, s.LoadLayout(sdk.Layout{Rows: 3, Columns: 1, Panels: []sdk.PlacedPanel{panel("A")}}))

	l := s.ToLayout("copy")
	assert.Equal(t, "copy", l.Name)
	assert.Equal(t, 3, l.Rows)
	assert.Equal(t, 1, l.Columns)
	assert.Equal(t, []string{"A"}, titles(l.Panels))
	assert.Empty(t, l.ID)
}
