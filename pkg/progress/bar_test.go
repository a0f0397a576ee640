package progress

import (
	"bufio"
	"bytes"
	"errors"
	"math"
	"strings"
	"testing"
	"time"
)

// bar_test.go exercises drawing, throttling and the final redraw on Close.

// recordingSink keeps every write separately so draws can be counted.
type recordingSink struct {
	writes []string
}

func (s *recordingSink) Write(p []byte) (int, error) {
	s.writes = append(s.writes, string(p))
	return len(p), nil
}

func (s *recordingSink) last() string {
	if len(s.writes) == 0 {
		return ""
	}
	return s.writes[len(s.writes)-1]
}

type failingSink struct{}

func (failingSink) Write(p []byte) (int, error) {
	return 0, errors.New("sink closed")
}

// fakeClock advances only when told to.
type fakeClock struct {
	t time.Time
}

func (c *fakeClock) Now() time.Time { return c.t }

func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func fixedWidth(cols int) func() int {
	return func() int { return cols }
}

func TestBar_EveryAdvanceDrawsWithZeroTimeout(t *testing.T) {
	sink := &recordingSink{}
	b := New(
		WithTotal(10),
		WithTimeout(0),
		WithSink(sink),
		WithWidthFunc(fixedWidth(80)),
	)

	for i := 0; i < 10; i++ {
		b.Increment()
	}
	if len(sink.writes) != 10 {
		t.Fatalf("expected 10 draws before close, got %d", len(sink.writes))
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if len(sink.writes) != 11 {
		t.Fatalf("expected 11 draws after close, got %d", len(sink.writes))
	}

	want := "\r [" + strings.Repeat("=", 67) + "] 100.0% "
	if sink.last() != want {
		t.Fatalf("unexpected final line:\n got %q\nwant %q", sink.last(), want)
	}
}

func TestBar_CloseDrawsSuppressedFinalState(t *testing.T) {
	sink := &recordingSink{}
	clock := &fakeClock{t: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	b := New(
		WithDescription("copy"),
		WithTotal(4),
		WithTimeout(time.Hour),
		WithSink(sink),
		WithWidthFunc(fixedWidth(40)),
		WithClock(clock.Now),
	)

	for i := 0; i < 4; i++ {
		clock.Advance(time.Second)
		b.Increment()
	}
	if len(sink.writes) != 1 {
		t.Fatalf("expected only the first advance to draw, got %d draws", len(sink.writes))
	}
	if !strings.HasSuffix(sink.last(), " 25.0% ") {
		t.Fatalf("expected first draw at 25%%, got %q", sink.last())
	}

	b.Close()
	if len(sink.writes) != 2 {
		t.Fatalf("expected close to draw, got %d draws", len(sink.writes))
	}
	// 40 - 5 - 2 - 10 = 23 cells
	want := "\rcopy [" + strings.Repeat("=", 23) + "] 100.0% "
	if sink.last() != want {
		t.Fatalf("unexpected final line:\n got %q\nwant %q", sink.last(), want)
	}
}

func TestBar_CloseDrawsOnce(t *testing.T) {
	sink := &recordingSink{}
	b := New(WithSink(sink), WithWidthFunc(fixedWidth(80)))

	b.Close()
	b.Close()
	if len(sink.writes) != 1 {
		t.Fatalf("expected a single final draw, got %d", len(sink.writes))
	}
}

func TestBar_ThrottleResumesAfterTimeout(t *testing.T) {
	sink := &recordingSink{}
	clock := &fakeClock{t: time.Now()}
	b := New(
		WithTotal(100),
		WithTimeout(100*time.Millisecond),
		WithSink(sink),
		WithWidthFunc(fixedWidth(80)),
		WithClock(clock.Now),
	)

	b.Increment() // first draw
	clock.Advance(40 * time.Millisecond)
	b.Increment()
	clock.Advance(40 * time.Millisecond)
	b.Increment()
	if len(sink.writes) != 1 {
		t.Fatalf("expected 1 draw inside the window, got %d", len(sink.writes))
	}

	clock.Advance(20 * time.Millisecond)
	b.Add(7)
	if len(sink.writes) != 2 {
		t.Fatalf("expected a draw once the timeout elapsed, got %d", len(sink.writes))
	}
	if !strings.HasSuffix(sink.last(), " 10.0% ") {
		t.Fatalf("expected 10%%, got %q", sink.last())
	}
}

func TestBar_UnknownTotal(t *testing.T) {
	b := New(WithSink(nil), WithWidthFunc(fixedWidth(20)))
	b.Add(500)

	want := "\r [       ]   0.0% "
	if got := b.Line(); got != want {
		t.Fatalf("Line() = %q, want %q", got, want)
	}
}

func TestBar_NarrowTerminalDropsBody(t *testing.T) {
	b := New(
		WithDescription("a long description that does not fit"),
		WithTotal(2),
		WithProgress(1),
		WithWidthFunc(fixedWidth(5)),
	)

	want := "\ra long description that does not fit []  50.0% "
	if got := b.Line(); got != want {
		t.Fatalf("Line() = %q, want %q", got, want)
	}
}

func TestBar_WidthFuncFallback(t *testing.T) {
	b := New(WithWidthFunc(fixedWidth(0)), WithTotal(1), WithProgress(1))

	want := "\r [" + strings.Repeat("=", 67) + "] 100.0% "
	if got := b.Line(); got != want {
		t.Fatalf("Line() = %q, want %q", got, want)
	}
}

func TestBar_CustomStyle(t *testing.T) {
	style := DefaultStyle
	style.Empty = "-"
	style.Full = "█"

	b := New(WithWidthFunc(fixedWidth(17)), WithStyle(style), WithTotal(4))
	style.Full = "#" // the bar keeps its own copy
	b.SetProgress(1)

	want := "\r [" + "█" + "---" + "]  25.0% "
	if got := b.Line(); got != want {
		t.Fatalf("Line() = %q, want %q", got, want)
	}
	if b.Style().Full != "█" {
		t.Fatalf("expected style to be copied, got %+v", b.Style())
	}
}

func TestBar_NilSinkIsNoop(t *testing.T) {
	b := New(WithSink(nil), WithTimeout(0), WithTotal(3))
	b.Increment().Increment().Increment()
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if b.Progress() != 3 {
		t.Fatalf("expected progress 3, got %d", b.Progress())
	}
}

func TestBar_SinkErrorsAreSwallowed(t *testing.T) {
	b := New(WithSink(failingSink{}), WithTimeout(0), WithWidthFunc(fixedWidth(80)))
	b.Increment()
	if err := b.Close(); err != nil {
		t.Fatalf("expected Close to absorb sink errors, got %v", err)
	}
}

func TestBar_FlushesBufferedSink(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriterSize(&buf, 4096)
	b := New(WithSink(w), WithTotal(2), WithWidthFunc(fixedWidth(80)))

	b.Increment()
	if buf.Len() == 0 {
		t.Fatalf("expected draw to flush the buffered sink")
	}
	if !strings.HasSuffix(buf.String(), " 50.0% ") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestBar_FluentSetters(t *testing.T) {
	var buf bytes.Buffer
	b := New()
	same := b.SetDescription("sync").
		SetTotal(20).
		SetProgress(5).
		SetTimeout(50 * time.Millisecond).
		SetSink(&buf).
		SetStyle(BoxesUTF8)

	if same != b {
		t.Fatalf("expected setters to return the same bar")
	}
	if b.Description() != "sync" || b.Total() != 20 || b.Progress() != 5 {
		t.Fatalf("unexpected state: %q %d/%d", b.Description(), b.Progress(), b.Total())
	}
	if b.Timeout() != 50*time.Millisecond {
		t.Fatalf("expected 50ms timeout, got %v", b.Timeout())
	}
	if b.Style() != BoxesUTF8 {
		t.Fatalf("expected BoxesUTF8, got %+v", b.Style())
	}
	if b.Ratio() != 0.25 {
		t.Fatalf("expected ratio 0.25, got %v", b.Ratio())
	}
}

func TestBar_Defaults(t *testing.T) {
	b := New()
	if b.Timeout() != DefaultTimeout {
		t.Fatalf("expected default timeout %v, got %v", DefaultTimeout, b.Timeout())
	}
	if b.Style() != DefaultStyle {
		t.Fatalf("expected default style, got %+v", b.Style())
	}
	if b.Total() != 0 || b.Progress() != 0 {
		t.Fatalf("expected zero counters, got %d/%d", b.Progress(), b.Total())
	}
}

func TestRun_DrawsOnError(t *testing.T) {
	sink := &recordingSink{}
	b := New(WithSink(sink), WithTimeout(time.Hour), WithTotal(10), WithWidthFunc(fixedWidth(80)))
	errStop := errors.New("stop")

	err := Run(b, func(b *Bar) error {
		for i := 0; i < 3; i++ {
			b.Increment()
		}
		return errStop
	})
	if !errors.Is(err, errStop) {
		t.Fatalf("expected errStop, got %v", err)
	}
	if len(sink.writes) != 2 {
		t.Fatalf("expected first draw plus final draw, got %d", len(sink.writes))
	}
	if !strings.HasSuffix(sink.last(), " 30.0% ") {
		t.Fatalf("expected final draw at 30%%, got %q", sink.last())
	}
}

func TestRun_DrawsOnPanic(t *testing.T) {
	sink := &recordingSink{}
	b := New(WithSink(sink), WithTimeout(time.Hour), WithTotal(4), WithWidthFunc(fixedWidth(80)))

	func() {
		defer func() {
			if recover() == nil {
				t.Fatalf("expected panic to propagate")
			}
		}()
		Run(b, func(b *Bar) error {
			b.Add(2)
			b.Add(1)
			panic("boom")
		})
	}()

	if len(sink.writes) != 2 {
		t.Fatalf("expected first draw plus final draw, got %d", len(sink.writes))
	}
	if !strings.HasSuffix(sink.last(), " 75.0% ") {
		t.Fatalf("expected final draw at 75%%, got %q", sink.last())
	}
}

func TestBar_AddSaturates(t *testing.T) {
	b := New(WithSink(nil), WithTotal(3), WithProgress(math.MaxUint64))
	b.Add(2)
	if b.Progress() != math.MaxUint64 {
		t.Fatalf("expected progress to stay at MaxUint64, got %d", b.Progress())
	}
	if !strings.HasSuffix(b.Line(), " 100.0% ") {
		t.Fatalf("expected 100%%, got %q", b.Line())
	}

	b.SetProgress(math.MaxUint64 - 1).Add(1)
	if b.Progress() != math.MaxUint64 {
		t.Fatalf("expected exact add up to MaxUint64, got %d", b.Progress())
	}
}
