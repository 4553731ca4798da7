package realtime

import (
	"sort"
)

// Command changes the animation between ticks.
type Command int

const (
	Pause Command = iota
	Resume
	// StepForward and StepBack move one depth and emit a frame even while
	// paused.
	StepForward
	StepBack
	// Restart jumps back to Config.From.
	Restart
)

func (c Command) String() string {
	switch c {
	case Pause:
		return "pause"
	case Resume:
		return "resume"
	case StepForward:
		return "stepForward"
	case StepBack:
		return "stepBack"
	case Restart:
		return "restart"
	}
	return "unknown"
}

// commandWithMeta adds sequencing metadata for deterministic ordering.
type commandWithMeta struct {
	Command     Command
	SequenceNum uint64
	Priority    int
}

// sortCommands orders higher priority first, then FIFO.
func sortCommands(cmds []commandWithMeta) {
	sort.SliceStable(cmds, func(i, j int) bool {
		if cmds[i].Priority != cmds[j].Priority {
			return cmds[i].Priority > cmds[j].Priority
		}
		return cmds[i].SequenceNum < cmds[j].SequenceNum
	})
}
