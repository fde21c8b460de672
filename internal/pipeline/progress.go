// Package pipeline plans and executes document runs: static levels for
// full generation, computed levels for edits, with per-level fan-out
// and serialized state merge.
package pipeline

import (
	"fmt"

	"github.com/fatih/color"
)

// Observer receives progress updates during a run.
type Observer interface {
	Progress(stage, message string)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(stage, message string)

// Progress calls the wrapped function.
func (f ObserverFunc) Progress(stage, message string) {
	f(stage, message)
}

// NopObserver discards all progress updates.
var NopObserver Observer = ObserverFunc(func(string, string) {})

// ConsoleObserver prints progress to stdout with colored stage labels.
type ConsoleObserver struct {
	stageColor *color.Color
	failColor  *color.Color
}

// NewConsoleObserver creates a console progress printer.
func NewConsoleObserver() *ConsoleObserver {
	return &ConsoleObserver{
		stageColor: color.New(color.FgCyan, color.Bold),
		failColor:  color.New(color.FgRed, color.Bold),
	}
}

// Progress prints one progress line.
func (o *ConsoleObserver) Progress(stage, message string) {
	label := o.stageColor
	if stage == StageFailed {
		label = o.failColor
	}
	fmt.Printf("%s %s\n", label.Sprintf("[%s]", stage), message)
}

// Progress stage labels reported to observers.
const (
	StageStart     = "start"
	StageLevel     = "level"
	StageTask      = "task"
	StageCompleted = "completed"
	StageFailed    = "failed"
)
