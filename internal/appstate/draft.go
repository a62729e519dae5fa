package appstate

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"

	"grafanapdf/pkg/sdk"
)

// ErrPanelIndex is returned for a draft panel index outside the panel list.
var ErrPanelIndex = errors.New("panel index out of range")

var validate = validator.New(validator.WithRequiredStructEnabled())

// SetReportLayout replaces the whole draft.
func (s *Store) SetReportLayout(d Draft) error {
	d = d.clone()
	if err := validate.Struct(d); err != nil {
		return fmt.Errorf("invalid report layout: %w", err)
	}
	s.update(func(st *State) { st.ReportLayout = d })
	return nil
}

// UpdateReportGrid changes the grid dimensions; both must be positive.
func (s *Store) UpdateReportGrid(rows, columns int) error {
	if err := validate.Var(rows, "gt=0"); err != nil {
		return fmt.Errorf("invalid rows %d: %w", rows, err)
	}
	if err := validate.Var(columns, "gt=0"); err != nil {
		return fmt.Errorf("invalid columns %d: %w", columns, err)
	}
	s.update(func(st *State) {
		st.ReportLayout.Rows = rows
		st.ReportLayout.Columns = columns
	})
	return nil
}

func (s *Store) AddPanelToLayout(p sdk.PlacedPanel) {
	s.update(func(st *State) {
		st.ReportLayout.Panels = append(st.ReportLayout.Panels, p)
	})
}

// RemovePanelFromLayout removes exactly the panel at index, keeping the order of the rest.
func (s *Store) RemovePanelFromLayout(index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	panels := s.st.ReportLayout.Panels
	if index < 0 || index >= len(panels) {
		return fmt.Errorf("%w: %d of %d", ErrPanelIndex, index, len(panels))
	}
	out := make([]sdk.PlacedPanel, 0, len(panels)-1)
	out = append(out, panels[:index]...)
	s.st.ReportLayout.Panels = append(out, panels[index+1:]...)
	return nil
}

// UpdatePanelPosition moves and resizes the panel at index.
func (s *Store) UpdatePanelPosition(index, x, y, w, h int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	panels := s.st.ReportLayout.Panels
	if index < 0 || index >= len(panels) {
		return fmt.Errorf("%w: %d of %d", ErrPanelIndex, index, len(panels))
	}
	p := &panels[index]
	p.X, p.Y, p.W, p.H = x, y, w, h
	return nil
}

func (s *Store) SetSelectedTemplate(id string) {
	s.update(func(st *State) { st.SelectedTemplate = id })
}

func (s *Store) SetTimeRange(tr sdk.TimeRange) {
	s.update(func(st *State) { st.TimeRange = tr })
}

// LoadLayout replaces the draft with the grid of a saved layout.
func (s *Store) LoadLayout(l sdk.Layout) error {
	d := NewDraft()
	if l.Rows > 0 {
		d.Rows = l.Rows
	}
	if l.Columns > 0 {
		d.Columns = l.Columns
	}
	d.Panels = append(d.Panels, l.Panels...)
	return s.SetReportLayout(d)
}

// ToLayout converts the draft into a layout entity ready to be saved.
func (s *Store) ToLayout(name string) sdk.Layout {
	s.mu.Lock()
	defer s.mu.Unlock()

	d := s.st.ReportLayout.clone()
	return sdk.Layout{
		Name:     name,
		Rows:     d.Rows,
		Columns:  d.Columns,
		Panels:   d.Panels,
		ServerID: s.st.SelectedServerID,
	}
}
