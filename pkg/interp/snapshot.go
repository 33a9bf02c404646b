package interp

import "quarter/pkg/ir"

// FrameState is a point-in-time copy of one frame's bindings.
type FrameState struct {
	Function string           `json:"function"`
	Vars     map[string]int64 `json:"vars"`
}

// Snapshot captures the machine just before an instruction executes: the
// instruction's position and text plus the full frame stack, outermost
// first. The debugger and the remote inspector both consume it.
type Snapshot struct {
	Function    string       `json:"function"`
	Block       string       `json:"block"`
	Index       int          `json:"index"`
	Instruction string       `json:"instruction"`
	Frames      []FrameState `json:"frames"`
}

// Current returns the innermost frame's state.
func (s *Snapshot) Current() FrameState {
	return s.Frames[len(s.Frames)-1]
}

func (m *Machine) capture(fn *ir.Function, block *ir.Block, index int) *Snapshot {
	snap := &Snapshot{
		Function:    fn.Name,
		Block:       block.Label,
		Index:       index,
		Instruction: block.Instructions[index].String(),
	}
	for _, frame := range m.frames {
		vars := make(map[string]int64, len(frame.Vars))
		for k, v := range frame.Vars {
			vars[k] = v
		}
		snap.Frames = append(snap.Frames, FrameState{Function: frame.Function, Vars: vars})
	}
	return snap
}
