package progress

import (
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/robofuse/termbar/internal/console"
	"github.com/rs/zerolog"
)

// bar.go renders a single-line progress bar that redraws in place.

// DefaultTimeout is the minimum interval between throttled redraws.
const DefaultTimeout = 100 * time.Millisecond

// flusher is implemented by buffered sinks such as *bufio.Writer.
type flusher interface {
	Flush() error
}

// noCopy lets go vet's copylocks check flag accidental copies of a Bar.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Bar is a progress bar owned by a single goroutine. Each advance may
// redraw the line, subject to the redraw timeout; Close always performs
// one last redraw so the final state is never hidden by throttling.
//
// A Bar is not safe for concurrent use. Callers that drive one bar from
// several goroutines must serialize the calls themselves.
type Bar struct {
	noCopy noCopy

	description string
	progress    uint64
	total       uint64
	style       Style
	sink        io.Writer
	gate        *Gate

	width  func() int
	now    func() time.Time
	logger zerolog.Logger
	closed bool
}

// Option configures a Bar
type Option func(*Bar)

// WithDescription sets the label printed before the bar
func WithDescription(description string) Option {
	return func(b *Bar) {
		b.description = description
	}
}

// WithTotal sets the total; 0 means unknown
func WithTotal(total uint64) Option {
	return func(b *Bar) {
		b.total = total
	}
}

// WithProgress sets the starting progress
func WithProgress(progress uint64) Option {
	return func(b *Bar) {
		b.progress = progress
	}
}

// WithTimeout sets the minimum interval between redraws
func WithTimeout(timeout time.Duration) Option {
	return func(b *Bar) {
		b.gate.SetTimeout(timeout)
	}
}

// WithSink sets the destination for rendered output
func WithSink(w io.Writer) Option {
	return func(b *Bar) {
		b.sink = w
	}
}

// WithStyle sets the glyphs used to draw the bar
func WithStyle(style Style) Option {
	return func(b *Bar) {
		b.style = style
	}
}

// WithWidthFunc overrides the terminal column query
func WithWidthFunc(fn func() int) Option {
	return func(b *Bar) {
		b.width = fn
	}
}

// WithClock overrides the time source used for throttling
func WithClock(now func() time.Time) Option {
	return func(b *Bar) {
		b.now = now
	}
}

// WithLogger sets the logger used for swallowed sink errors
func WithLogger(l zerolog.Logger) Option {
	return func(b *Bar) {
		b.logger = l
	}
}

// New creates a bar writing to os.Stderr with DefaultStyle and DefaultTimeout.
func New(opts ...Option) *Bar {
	b := &Bar{
		style:  DefaultStyle,
		sink:   os.Stderr,
		gate:   NewGate(DefaultTimeout),
		now:    time.Now,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// SetDescription sets the label printed before the bar.
func (b *Bar) SetDescription(description string) *Bar {
	b.description = description
	return b
}

// SetProgress overrides the current progress.
func (b *Bar) SetProgress(progress uint64) *Bar {
	b.progress = progress
	return b
}

// SetTotal sets the total. Zero means the total is not known yet.
func (b *Bar) SetTotal(total uint64) *Bar {
	b.total = total
	return b
}

// SetTimeout sets the minimum interval between throttled redraws.
// Zero redraws on every advance.
func (b *Bar) SetTimeout(timeout time.Duration) *Bar {
	b.gate.SetTimeout(timeout)
	return b
}

// SetSink sets the output destination. A nil sink disables drawing.
func (b *Bar) SetSink(w io.Writer) *Bar {
	b.sink = w
	return b
}

// SetStyle sets the glyphs used to draw the bar.
func (b *Bar) SetStyle(style Style) *Bar {
	b.style = style
	return b
}

// Description returns the label printed before the bar.
func (b *Bar) Description() string { return b.description }

// Progress returns the current progress.
func (b *Bar) Progress() uint64 { return b.progress }

// Total returns the total, 0 if unknown.
func (b *Bar) Total() uint64 { return b.total }

// Timeout returns the minimum interval between throttled redraws.
func (b *Bar) Timeout() time.Duration { return b.gate.Timeout() }

// Style returns a copy of the bar's glyphs.
func (b *Bar) Style() Style { return b.style }

// Ratio returns the current completion in [0, 1].
func (b *Bar) Ratio() float64 {
	return Ratio(b.progress, b.total)
}

// Increment advances the bar by one.
func (b *Bar) Increment() *Bar {
	return b.Add(1)
}

// Add advances the bar by delta and redraws if the timeout allows it.
// Progress saturates at math.MaxUint64 instead of wrapping.
func (b *Bar) Add(delta uint64) *Bar {
	if delta > math.MaxUint64-b.progress {
		b.progress = math.MaxUint64
	} else {
		b.progress += delta
	}
	b.Show()
	return b
}

// Show redraws the bar unless the last redraw was less than the timeout ago.
func (b *Bar) Show() {
	if b.gate.ShouldDraw(b.now()) {
		b.Draw()
	}
}

// Draw writes the current line to the sink regardless of throttling.
func (b *Bar) Draw() {
	if b.sink == nil {
		return
	}
	if _, err := io.WriteString(b.sink, b.Line()); err != nil {
		b.logger.Debug().Err(err).Str("description", b.description).Msg("Progress write failed")
		return
	}
	if f, ok := b.sink.(flusher); ok {
		if err := f.Flush(); err != nil {
			b.logger.Debug().Err(err).Str("description", b.description).Msg("Progress flush failed")
		}
	}
}

// Line composes the text Draw writes: a carriage return followed by the
// description, the bar and the percentage, with no trailing newline.
func (b *Bar) Line() string {
	ratio := b.Ratio()
	full, empty := Segments(BarWidth(b.columns(), b.description, b.style), ratio)

	var sb strings.Builder
	sb.WriteString("\r")
	sb.WriteString(b.description)
	sb.WriteString(" ")
	sb.WriteString(b.style.Begin)
	sb.WriteString(strings.Repeat(b.style.Full, full))
	sb.WriteString(strings.Repeat(b.style.Empty, empty))
	sb.WriteString(b.style.End)
	sb.WriteString(" ")
	sb.WriteString(FormatPercent(ratio))
	sb.WriteString("% ")
	return sb.String()
}

// Close performs the final redraw. Only the first call draws.
func (b *Bar) Close() error {
	if b.closed {
		return nil
	}
	b.closed = true
	b.Draw()
	return nil
}

func (b *Bar) columns() int {
	if b.width != nil {
		if cols := b.width(); cols > 0 {
			return cols
		}
		return console.FallbackWidth
	}
	return console.Width(b.sink)
}

// Run calls fn with b and closes b afterwards, including when fn returns
// early with an error or panics, so the final state is always drawn.
func Run(b *Bar, fn func(*Bar) error) error {
	defer b.Close()
	return fn(b)
}
