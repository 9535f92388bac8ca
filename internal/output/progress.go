package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

// writerIsTTY reports whether w is a terminal. Writers without an Fd
// method, such as *bytes.Buffer, are never terminals.
func writerIsTTY(w io.Writer) bool {
	type fder interface {
		Fd() uintptr
	}
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

const defaultBarWidth = 30

// ProgressBar tracks a counted operation such as inserting review batches.
//
//	[==========>         ]  52% 1,040/2,000 reviews
//
// On a TTY the bar redraws in place; elsewhere it prints a single line
// when the count reaches the total.
type ProgressBar struct {
	mu      sync.Mutex
	w       io.Writer
	total   int
	current int
	unit    string
	width   int
	done    bool
}

// NewProgress creates a progress bar over total items of the given unit
// ("reviews", "rows"). Output goes to stderr.
func NewProgress(total int, unit string) *ProgressBar {
	return &ProgressBar{
		w:     os.Stderr,
		total: total,
		unit:  unit,
		width: defaultBarWidth,
	}
}

// SetWriter redirects output, mainly for tests.
func (p *ProgressBar) SetWriter(w io.Writer) {
	p.mu.Lock()
	p.w = w
	p.mu.Unlock()
}

// Add advances the bar by n items.
func (p *ProgressBar) Add(n int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = min(p.current+n, p.total)
	p.draw()
}

// Finish fills the bar and ends the line. Calling it twice is a no-op.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return
	}
	if p.current != p.total || writerIsTTY(p.w) {
		p.current = p.total
		p.draw()
	}
	if writerIsTTY(p.w) {
		fmt.Fprintln(p.w)
	}
	p.done = true
}

// String returns the bar without any terminal control characters.
func (p *ProgressBar) String() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.line()
}

func (p *ProgressBar) line() string {
	pct, filled := 100, p.width
	if p.total > 0 {
		pct = p.current * 100 / p.total
		filled = p.current * p.width / p.total
	}

	bar := strings.Repeat("=", filled)
	if filled > 0 && filled < p.width {
		bar = bar[:filled-1] + ">"
	}
	return fmt.Sprintf("[%-*s] %3d%% %s/%s %s",
		p.width, bar, pct,
		humanize.Comma(int64(p.current)), humanize.Comma(int64(p.total)), p.unit)
}

// draw must be called with p.mu held.
func (p *ProgressBar) draw() {
	if p.done {
		return
	}
	if writerIsTTY(p.w) {
		fmt.Fprintf(p.w, "\r%s", p.line())
		return
	}
	if p.current == p.total {
		fmt.Fprintln(p.w, p.line())
		p.done = true
	}
}

// Spinner shows an animated indicator with elapsed time while an
// operation of unknown length runs. On a non-TTY writer it prints the
// message once instead of animating.
type Spinner struct {
	mu      sync.Mutex
	w       io.Writer
	message string
	frames  []string
	started time.Time
	stop    chan struct{}
	wg      sync.WaitGroup
	running bool
}

// NewSpinner creates a stopped spinner writing to stderr.
func NewSpinner(message string) *Spinner {
	return &Spinner{
		w:       os.Stderr,
		message: message,
		frames:  []string{"|", "/", "-", "\\"},
	}
}

// SetWriter redirects output, mainly for tests.
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	s.w = w
	s.mu.Unlock()
}

// Start begins the animation. Starting a running spinner does nothing.
func (s *Spinner) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.started = time.Now()

	if !writerIsTTY(s.w) {
		fmt.Fprintf(s.w, "%s...\n", s.message)
		return
	}

	s.stop = make(chan struct{})
	s.wg.Add(1)
	go s.spin()
}

func (s *Spinner) spin() {
	defer s.wg.Done()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.w, "\r%s  %s (%s)", s.frames[i%len(s.frames)], s.message,
				time.Since(s.started).Round(time.Second))
			s.mu.Unlock()
		}
	}
}

// SetMessage replaces the message shown next to the spinner.
func (s *Spinner) SetMessage(message string) {
	s.mu.Lock()
	s.message = message
	s.mu.Unlock()
}

// Stop halts the animation and clears the line.
func (s *Spinner) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	stop := s.stop
	s.stop = nil
	s.mu.Unlock()

	if stop == nil {
		return
	}
	close(stop)
	s.wg.Wait()

	s.mu.Lock()
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", len(s.message)+16))
	s.mu.Unlock()
}

// StopWithMessage stops the spinner and prints a final line.
func (s *Spinner) StopWithMessage(message string) {
	s.Stop()
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, message)
}
