package dashboard

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jclabaut/GarminDashboard/internal/models"
)

const dateLayout = "2006-01-02"

type formField int

const (
	fieldStart formField = iota
	fieldEnd
	fieldCount
)

var errEndBeforeStart = errors.New("end date is before start date")

// rangeForm edits the custom range as two inclusive calendar dates.
type rangeForm struct {
	start textinput.Model
	end   textinput.Model
	focus formField
	err   string
}

func newDateInput(placeholder string) textinput.Model {
	in := textinput.New()
	in.Placeholder = placeholder
	in.CharLimit = len(dateLayout)
	in.Width = len(dateLayout) + 1
	return in
}

func newRangeForm() rangeForm {
	return rangeForm{
		start: newDateInput("YYYY-MM-DD"),
		end:   newDateInput("YYYY-MM-DD"),
	}
}

// open prefills the form from w. w.End is exclusive, so the last day shown
// is the one containing the instant before it.
func (f *rangeForm) open(w models.TimeWindow, loc *time.Location) tea.Cmd {
	f.err = ""
	f.start.SetValue("")
	f.end.SetValue("")
	if !w.Start.IsZero() {
		f.start.SetValue(w.Start.In(loc).Format(dateLayout))
	}
	if w.End.After(w.Start) {
		f.end.SetValue(w.End.Add(-time.Nanosecond).In(loc).Format(dateLayout))
	}
	f.focus = fieldStart
	f.updateFocus()
	return textinput.Blink
}

func (f *rangeForm) close() {
	f.start.Blur()
	f.end.Blur()
}

func (f *rangeForm) next() {
	f.focus = (f.focus + 1) % fieldCount
	f.updateFocus()
}

func (f *rangeForm) prev() {
	f.focus = (f.focus - 1 + fieldCount) % fieldCount
	f.updateFocus()
}

func (f *rangeForm) updateFocus() {
	f.start.Blur()
	f.end.Blur()
	switch f.focus {
	case fieldStart:
		f.start.Focus()
	case fieldEnd:
		f.end.Focus()
	}
}

func (f *rangeForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch f.focus {
	case fieldStart:
		f.start, cmd = f.start.Update(msg)
	case fieldEnd:
		f.end, cmd = f.end.Update(msg)
	}
	return cmd
}

// window parses the form into a half-open window covering both dates.
func (f *rangeForm) window(loc *time.Location) (models.TimeWindow, error) {
	return parseRange(f.start.Value(), f.end.Value(), loc)
}

// parseRange turns two inclusive dates into [start 00:00, day after end 00:00).
func parseRange(startText, endText string, loc *time.Location) (models.TimeWindow, error) {
	start, err := time.ParseInLocation(dateLayout, strings.TrimSpace(startText), loc)
	if err != nil {
		return models.TimeWindow{}, fmt.Errorf("invalid start date %q: use YYYY-MM-DD", startText)
	}
	end, err := time.ParseInLocation(dateLayout, strings.TrimSpace(endText), loc)
	if err != nil {
		return models.TimeWindow{}, fmt.Errorf("invalid end date %q: use YYYY-MM-DD", endText)
	}
	if end.Before(start) {
		return models.TimeWindow{}, errEndBeforeStart
	}
	return models.TimeWindow{Start: start, End: end.AddDate(0, 0, 1)}, nil
}
