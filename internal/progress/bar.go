// Package progress draws a terminal progress bar for solver runs.
package progress

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/logrusorgru/aurora"
	"github.com/schollz/progressbar/v3"

	"github.com/piwi3910/SquareFill/internal/engine"
)

// Steps is the bar resolution for a single solve.
const Steps = 1000

type Bar progressbar.ProgressBar

// NewBar creates a bar of length steps on stderr.
func NewBar(steps int, description string) *Bar {
	return NewBarTo(os.Stderr, steps, description)
}

// NewBarTo creates a bar that renders to w.
func NewBarTo(w io.Writer, steps int, description string) *Bar {
	return (*Bar)(progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionThrottle(65*time.Millisecond),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        aurora.Yellow("█").String(),
			SaucerHead:    aurora.Yellow("█").String(),
			SaucerPadding: " ",
			BarStart:      "|",
			BarEnd:        "|",
		}),
	))
}

func (b *Bar) Add(i int) {
	(*progressbar.ProgressBar)(b).Add(i)
}

func (b *Bar) Goto(i int) {
	(*progressbar.ProgressBar)(b).Set(i)
}

func (b *Bar) Describe(description string) {
	(*progressbar.ProgressBar)(b).Describe(description)
}

func (b *Bar) Close() {
	(*progressbar.ProgressBar)(b).Finish()
	(*progressbar.ProgressBar)(b).Close()
}

// Tracker returns an annealer progress callback that moves the bar and shows
// the current and best base score.
func (b *Bar) Tracker(name string) func(engine.Progress) {
	return func(p engine.Progress) {
		b.Describe(Describe(name, p))
		b.Goto(int(p.Fraction * Steps))
	}
}

// Describe formats the bar description for one progress report.
func Describe(name string, p engine.Progress) string {
	return fmt.Sprintf("%s %s %d %s %d %s %.1f",
		name,
		aurora.Cyan("score"), p.Score.Base,
		aurora.Green("best"), p.BestBase,
		aurora.Magenta("T"), p.Temperature)
}
