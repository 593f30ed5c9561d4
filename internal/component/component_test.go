package component

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"neviraller/internal/action"
	"neviraller/internal/bus"
	"neviraller/internal/config"
	"neviraller/internal/event"
	"neviraller/internal/frame"
	"neviraller/internal/keymap"
	"neviraller/internal/layout"
)

// recorder is a bus.Sink that keeps everything sent to it.
type recorder struct {
	sent []action.Action
}

func (r *recorder) Send(a action.Action) error {
	r.sent = append(r.sent, a)
	return nil
}

func keyEvent(k string) event.Event {
	return event.Event{Kind: event.Key, Key: keymap.Key(k)}
}

func TestBaseInitZeroArea(t *testing.T) {
	b := NewBase("x")
	assert.True(t, errors.Is(b.Init(layout.Rect{Width: 0, Height: 3}), ErrZeroArea))
	assert.NoError(t, b.Init(layout.Rect{Width: 1, Height: 1}))
	assert.True(t, errors.Is(b.RegisterActionSink(nil), ErrNoSink))
	assert.NoError(t, b.Send(action.New(action.Quit)), "no sink drops silently")
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	menu, prog := NewMenu(DefaultMenuItems()), NewProgress()
	require.NoError(t, r.Add(NewHeader(), layout.Header))
	require.NoError(t, r.Add(menu, layout.Nav))
	require.NoError(t, r.Add(prog, layout.Aux))
	assert.Error(t, r.Add(NewMenu(nil), layout.Primary), "duplicate id")
	assert.Equal(t, 3, r.Len())

	got, ok := r.Get(MenuID)
	require.True(t, ok)
	assert.Same(t, menu, got)
	_, ok = r.Get("nope")
	assert.False(t, ok)

	ids := make([]ID, 0, r.Len())
	for _, p := range r.Placements() {
		ids = append(ids, p.Component.ID())
	}
	assert.Equal(t, []ID{HeaderID, MenuID, ProgressID}, ids)

	areas := r.Areas(layout.Compute(80, 24, false))
	assert.Equal(t, layout.Rect{X: 1, Y: 2, Width: 23, Height: 20}, areas[MenuID])

	assert.False(t, r.AuxVisible())
	_, _ = prog.Update(action.ProgressRatio(0.5))
	assert.True(t, r.AuxVisible())
}

func TestMenuNavigation(t *testing.T) {
	m := NewMenu(DefaultMenuItems())
	step := func(k action.Kind) {
		t.Helper()
		out, err := m.Update(action.New(k))
		require.NoError(t, err)
		assert.True(t, out.IsNone())
	}

	step(action.Prev)
	assert.Equal(t, 0, m.Selected(), "stays at the top")
	step(action.Next)
	step(action.Next)
	assert.Equal(t, 2, m.Selected())
	step(action.Bottom)
	assert.Equal(t, 3, m.Selected())
	step(action.Next)
	assert.Equal(t, 3, m.Selected(), "stays at the bottom")
	step(action.Top)
	assert.Equal(t, 0, m.Selected())

	_, err := m.Update(action.StatusMessage("ignored"))
	require.NoError(t, err)
	assert.Equal(t, 0, m.Selected())
}

func TestMenuSelectSendsItemAction(t *testing.T) {
	m := NewMenu(DefaultMenuItems())
	rec := &recorder{}
	require.NoError(t, m.RegisterActionSink(rec))

	_, _ = m.Update(action.New(action.Next))
	_, err := m.Update(action.New(action.Select))
	require.NoError(t, err)
	assert.Equal(t, []action.Action{action.New(action.InstallNeviraide)}, rec.sent)
}

func TestMenuSelectSinkError(t *testing.T) {
	m := NewMenu(DefaultMenuItems())
	require.NoError(t, m.RegisterActionSink(bus.SinkFunc(func(action.Action) error { return bus.ErrClosed })))
	_, err := m.Update(action.New(action.Select))
	assert.True(t, errors.Is(err, bus.ErrClosed))
}

func TestMenuEmpty(t *testing.T) {
	m := NewMenu(nil)
	rec := &recorder{}
	require.NoError(t, m.RegisterActionSink(rec))
	for _, k := range []action.Kind{action.Next, action.Prev, action.Bottom, action.Select} {
		_, err := m.Update(action.New(k))
		require.NoError(t, err)
	}
	assert.Equal(t, 0, m.Selected())
	assert.Empty(t, rec.sent)
}

func TestMenuHandleEvent(t *testing.T) {
	m := NewMenu(DefaultMenuItems())
	cases := map[string]action.Kind{
		"up": action.Prev, "k": action.Prev,
		"down": action.Next, "j": action.Next,
		"home": action.Top, "end": action.Bottom,
		"enter": action.Select,
	}
	for k, want := range cases {
		assert.Equal(t, action.New(want), m.HandleEvent(keyEvent(k)), k)
	}
	assert.True(t, m.HandleEvent(keyEvent("x")).IsNone())
	assert.True(t, m.HandleEvent(event.Event{Kind: event.Paste, Text: "j"}).IsNone())

	_, _ = m.Update(action.ModeChange(keymap.ModeBusy))
	assert.True(t, m.HandleEvent(keyEvent("down")).IsNone(), "busy menu ignores keys")
	_, _ = m.Update(action.ModeChange(keymap.ModeConfirm))
	assert.True(t, m.HandleEvent(keyEvent("enter")).IsNone(), "menu is inert behind the dialog")
	_, _ = m.Update(action.ModeChange(keymap.ModeHome))
	assert.Equal(t, action.New(action.Next), m.HandleEvent(keyEvent("down")))
}

func TestMenuDraw(t *testing.T) {
	m := NewMenu(DefaultMenuItems())
	f := frame.New(30, 10)
	require.NoError(t, m.Draw(f, layout.Rect{Width: 30, Height: 10}))
	out := f.String()
	assert.Contains(t, out, "Menu")
	assert.Contains(t, out, "Install Neovim")
	assert.Contains(t, out, "Quit")
}

func TestProgressVisibility(t *testing.T) {
	p := NewProgress()
	assert.False(t, p.Visible())

	out, err := p.Update(action.ProgressRatio(0.25))
	require.NoError(t, err)
	assert.Equal(t, action.New(action.Render), out)
	assert.True(t, p.Visible())

	out, _ = p.Update(action.ProgressRatio(0.25))
	assert.True(t, out.IsNone(), "unchanged ratio")

	out, _ = p.Update(action.ProgressRatio(1))
	assert.Equal(t, action.New(action.Render), out)
	assert.False(t, p.Visible())

	_, _ = p.Update(action.ProgressRatio(0.5))
	_, _ = p.Update(action.ProgressRatio(0))
	assert.False(t, p.Visible())

	out, _ = p.Update(action.New(action.Tick))
	assert.True(t, out.IsNone())
}

func TestProgressDraw(t *testing.T) {
	p := NewProgress()
	_, _ = p.Update(action.ProgressRatio(0.5))
	f := frame.New(40, 3)
	require.NoError(t, p.Draw(f, layout.Rect{Width: 40, Height: 3}))
	assert.Contains(t, f.String(), "50%")
}

func TestHeaderSpinner(t *testing.T) {
	h := NewHeader()
	require.NoError(t, h.RegisterConfig(config.Config{UI: config.UIConfig{Title: "TITLE"}}))

	draw := func() string {
		f := frame.New(30, 1)
		require.NoError(t, h.Draw(f, layout.Rect{Width: 30, Height: 1}))
		return f.String()
	}
	idle := draw()
	assert.Contains(t, idle, "TITLE")

	_, _ = h.Update(action.New(action.Tick))
	assert.Equal(t, idle, draw(), "no spinner while idle")

	_, _ = h.Update(action.ProgressRatio(0.3))
	assert.True(t, h.Busy())
	first := draw()
	_, _ = h.Update(action.New(action.Tick))
	assert.NotEqual(t, first, draw(), "spinner advances on tick")

	_, _ = h.Update(action.ProgressRatio(1))
	assert.False(t, h.Busy())
	assert.Equal(t, idle, draw())
}

func TestInfoAppendsAndFollows(t *testing.T) {
	i := NewInfo()
	require.NoError(t, i.Init(layout.Rect{Width: 40, Height: 5}))

	_, _ = i.Update(action.StatusMessage("one"))
	_, _ = i.Update(action.Log("WARN two"))
	_, _ = i.Update(action.Errorf("three"))
	_, _ = i.Update(action.New(action.Tick))
	assert.Equal(t, []string{"one", "WARN two", "three"}, i.Lines())

	for n := 0; n < 7; n++ {
		_, _ = i.Update(action.StatusMessage("more"))
	}
	assert.True(t, i.Following())
	assert.Equal(t, 7, i.YOffset(), "10 lines in a 3 line pane")

	_, _ = i.Update(action.New(action.PageUp))
	assert.False(t, i.Following())
	assert.Equal(t, 2, i.YOffset())

	_, _ = i.Update(action.New(action.PageDown))
	assert.True(t, i.Following())
	assert.Equal(t, 7, i.YOffset())

	_, _ = i.Update(action.New(action.PageUp))
	_, _ = i.Update(action.StatusMessage("new"))
	assert.True(t, i.Following(), "new output scrolls back down")
	assert.Equal(t, 8, i.YOffset())
}

func TestInfoSplitsMultilineMessages(t *testing.T) {
	i := NewInfo()
	_, _ = i.Update(action.StatusMessage("a\nb\n"))
	assert.Equal(t, []string{"a", "b"}, i.Lines())
}

func TestInfoDraw(t *testing.T) {
	i := NewInfo()
	_, _ = i.Update(action.StatusMessage("hello"))
	f := frame.New(30, 6)
	require.NoError(t, i.Draw(f, layout.Rect{Width: 30, Height: 6}))
	assert.Contains(t, f.String(), "hello")
}

func TestFooterHints(t *testing.T) {
	f := NewFooter()
	require.NoError(t, f.RegisterConfig(config.Default()))
	assert.Equal(t, keymap.ModeHome, f.Mode())
	home := len(f.Hints())
	require.NotZero(t, home)

	_, err := f.Update(action.ModeChange(keymap.ModeBusy))
	require.NoError(t, err)
	assert.Equal(t, keymap.ModeBusy, f.Mode())
	var descs []string
	for _, h := range f.Hints() {
		descs = append(descs, h.Help().Desc)
	}
	assert.Contains(t, descs, "cancel")
	assert.NotEqual(t, home, len(f.Hints()))

	_, err = f.Update(action.ModeChange(keymap.ModeConfirm))
	require.NoError(t, err)
	descs = descs[:0]
	for _, h := range f.Hints() {
		descs = append(descs, h.Help().Desc)
	}
	assert.Contains(t, descs, "yes")
	assert.Contains(t, descs, "no")

	_, err = f.Update(action.Action{Kind: action.ModeChanged, Message: "Nowhere"})
	assert.Error(t, err)
	assert.Equal(t, keymap.ModeConfirm, f.Mode())
}

func TestFooterHelpToggle(t *testing.T) {
	f := NewFooter()
	require.NoError(t, f.RegisterConfig(config.Default()))

	draw := func() string {
		fr := frame.New(120, 1)
		require.NoError(t, f.Draw(fr, layout.Rect{Width: 120, Height: 1}))
		return fr.String()
	}
	short := draw()
	assert.Contains(t, short, "quit")
	assert.Contains(t, short, "RAprogramm")

	out, err := f.Update(action.New(action.Help))
	require.NoError(t, err)
	assert.Equal(t, action.New(action.Render), out)
	assert.True(t, f.ShowAll())
	full := draw()
	assert.NotContains(t, full, "RAprogramm")
	assert.True(t, strings.Contains(full, "quit"))

	_, _ = f.Update(action.New(action.Help))
	assert.False(t, f.ShowAll())
}

func TestConfirmShowsQuestion(t *testing.T) {
	c := NewConfirm()
	assert.False(t, c.Visible())
	assert.Empty(t, c.Question())

	out, err := c.Update(action.Question("Install 2 missing tools?"))
	require.NoError(t, err)
	assert.Equal(t, action.New(action.Render), out)
	assert.True(t, c.Visible())
	assert.Equal(t, "Install 2 missing tools?", c.Question())

	_, _ = c.Update(action.ModeChange(keymap.ModeConfirm))
	assert.True(t, c.Visible(), "entering confirm mode keeps the dialog")

	_, _ = c.Update(action.New(action.Decline))
	assert.False(t, c.Visible())

	_, _ = c.Update(action.Question("again?"))
	_, _ = c.Update(action.New(action.Confirm))
	assert.False(t, c.Visible())

	_, _ = c.Update(action.Question("again?"))
	_, _ = c.Update(action.ModeChange(keymap.ModeHome))
	assert.False(t, c.Visible(), "leaving confirm mode hides it")
}

func TestConfirmDrawsOverContent(t *testing.T) {
	area := layout.Rect{Width: 60, Height: 12}
	f := frame.New(60, 12)
	i := NewInfo()
	_, _ = i.Update(action.StatusMessage("underneath"))
	require.NoError(t, i.Draw(f, area))

	c := NewConfirm()
	_, _ = c.Update(action.Question("Install Neovim nightly?"))
	require.NoError(t, c.Draw(f, area))

	out := f.String()
	assert.Contains(t, out, "Confirm")
	assert.Contains(t, out, "Install Neovim nightly?")
	assert.Contains(t, out, "y/Enter: yes")
	assert.Contains(t, out, "underneath", "the dialog covers only its box")
}

func TestConfirmTinyArea(t *testing.T) {
	c := NewConfirm()
	_, _ = c.Update(action.Question("?"))
	f := frame.New(3, 2)
	assert.NoError(t, c.Draw(f, layout.Rect{Width: 3, Height: 2}))
	assert.Equal(t, "   \n   ", f.String())
}
