package narrative

import (
	"time"

	"github.com/oshokin/brie-blaster/internal/timer"
)

// DefaultPace is the delay between two typed characters.
const DefaultPace = 50 * time.Millisecond

// Mode tells what happens to a committed line.
type Mode int

const (
	// Replace keeps only the last committed line on screen.
	Replace Mode = iota
	// Accumulate keeps every committed line on screen.
	Accumulate
)

// Line is one typed line and how long it stays after being typed.
type Line struct {
	Text string
	Hold time.Duration
}

// Script is a sequence of lines played by a Typewriter.
type Script struct {
	Lines []Line
	// Pace is the delay per character; zero means DefaultPace.
	Pace time.Duration
	Mode Mode
}

// Frame is what the screen shows at one moment.
type Frame struct {
	// Lines are the committed lines.
	Lines []string
	// Current is the part of the line being typed.
	Current string
	// Done is set once the last line was committed.
	Done bool
}

// SystemDestroyed is played after an overheat or an overpressure.
func SystemDestroyed() Script {
	return Script{
		Lines: []Line{
			{Text: "ERROR 120 - PRESSURE SENSOR FAILURE", Hold: 5 * time.Second},
			{Text: "ERROR 729 - CORE OVERHEATED", Hold: 3 * time.Second},
			{Text: "ERROR 988 - STRUCTURAL INTEGRITY OF CORE COMPROMISED", Hold: 6 * time.Second},
			{Text: "ERROR 475 - NETWORK TIMEOUT", Hold: 4 * time.Second},
			{Text: "ERROR 527 - CONNECTION LOST", Hold: 10 * time.Second},
		},
		Pace: DefaultPace,
		Mode: Replace,
	}
}

// EarthDestroyed is played after the hidden target was struck.
func EarthDestroyed() Script {
	const hold = 500 * time.Millisecond

	return Script{
		Lines: []Line{
			{Text: "Die Erde wurde so eben von euch mit Käse überbacken.", Hold: hold},
			{Text: "Ihr habt die Menschheit vernichtet, noch bevor Jukvubiryudu die Chance dazu hatte.", Hold: hold},
			{Text: "Ihr habt das Spiel verloren.", Hold: hold},
		},
		Pace: DefaultPace,
		Mode: Accumulate,
	}
}

// Typewriter plays one Script at a time.
// All methods must be called from the owner's goroutine.
type Typewriter struct {
	delay   *timer.Delay
	script  Script
	onFrame func(Frame)

	// committed are the lines already typed and held.
	committed []string
	// line is the index of the line being typed.
	line int
	// text is the line being typed.
	text []rune
	// typed counts the typed runes of text.
	typed int
	// done is set when the script finished.
	done bool
}

// NewTypewriter creates an idle typewriter.
func NewTypewriter(dispatch timer.Dispatch) *Typewriter {
	return &Typewriter{delay: timer.NewDelay(dispatch)}
}

// Play starts script from the beginning, dropping any script in progress.
// onFrame receives a frame after every typed character and every commit.
func (w *Typewriter) Play(script Script, onFrame func(Frame)) {
	w.delay.Cancel()

	if script.Pace <= 0 {
		script.Pace = DefaultPace
	}

	w.script = script
	w.onFrame = onFrame
	w.committed = nil
	w.line = 0
	w.typed = 0
	w.done = false

	w.startLine()
}

// Cancel stops the script; no frame is emitted afterwards.
func (w *Typewriter) Cancel() {
	w.delay.Cancel()
}

// Active reports whether a script is still playing.
func (w *Typewriter) Active() bool {
	return w.delay.Active()
}

// Frame returns the current frame.
func (w *Typewriter) Frame() Frame {
	return Frame{
		Lines:   append([]string(nil), w.committed...),
		Current: string(w.text[:w.typed]),
		Done:    w.done,
	}
}

// startLine loads the next line or finishes the script.
func (w *Typewriter) startLine() {
	if w.line >= len(w.script.Lines) {
		w.text = nil
		w.typed = 0
		w.done = true
		w.emit()

		return
	}

	w.text = []rune(w.script.Lines[w.line].Text)
	w.typed = 0
	w.schedule()
}

// schedule arms the delay for the next character or for the hold.
func (w *Typewriter) schedule() {
	if w.typed < len(w.text) {
		w.delay.Start(w.script.Pace, w.typeRune)

		return
	}

	w.delay.Start(w.script.Lines[w.line].Hold, w.commit)
}

// typeRune reveals one more character.
func (w *Typewriter) typeRune() {
	w.typed++
	w.emit()
	w.schedule()
}

// commit moves the held line into the committed lines.
func (w *Typewriter) commit() {
	text := string(w.text)

	switch w.script.Mode {
	case Replace:
		w.committed = []string{text}
	case Accumulate:
		w.committed = append(w.committed, text)
	}

	w.line++
	w.text = nil
	w.typed = 0

	if w.line < len(w.script.Lines) {
		w.emit()
	}

	w.startLine()
}

// emit hands the current frame to the listener.
func (w *Typewriter) emit() {
	if w.onFrame != nil {
		w.onFrame(w.Frame())
	}
}
