package ardent

import (
	"encoding/json"
	"errors"
	"fmt"
)

// scriptAction is the kind of a test script step.
type scriptAction uint8

const (
	actionClick scriptAction = iota + 1
	actionHover
	actionDrag
	actionWait
	actionScreenshot
)

var scriptActions = map[string]scriptAction{
	"click":      actionClick,
	"hover":      actionHover,
	"drag":       actionDrag,
	"wait":       actionWait,
	"screenshot": actionScreenshot,
}

func (a *scriptAction) UnmarshalText(b []byte) error {
	v, ok := scriptActions[string(b)]
	if !ok {
		return fmt.Errorf("unknown action %q", b)
	}
	*a = v
	return nil
}

// testStep is one action of a test script. Click and hover take either a
// point or the name of a target node.
type testStep struct {
	Action scriptAction `json:"action"`
	Label  string       `json:"label,omitempty"`
	Target string       `json:"target,omitempty"`
	X      float64      `json:"x,omitempty"`
	Y      float64      `json:"y,omitempty"`
	FromX  float64      `json:"fromX,omitempty"`
	FromY  float64      `json:"fromY,omitempty"`
	ToX    float64      `json:"toX,omitempty"`
	ToY    float64      `json:"toY,omitempty"`
	Frames int          `json:"frames,omitempty"`
}

// TestRunner plays a scripted sequence of injected input and screenshots,
// one step per frame. Attach it with SetTestRunner.
type TestRunner struct {
	steps  []testStep
	cursor int
	wait   int
	done   bool
	err    error
}

// LoadTestScript parses a JSON test script:
//
//	{"steps": [
//	  {"action": "click", "target": "ok"},
//	  {"action": "drag", "fromX": 0, "fromY": 0, "toX": 50, "toY": 0, "frames": 6},
//	  {"action": "wait", "frames": 3},
//	  {"action": "screenshot", "label": "after-drag"}
//	]}
func LoadTestScript(jsonData []byte) (*TestRunner, error) {
	var script struct {
		Steps []json.RawMessage `json:"steps"`
	}
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse test script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, errors.New("parse test script: no steps")
	}
	steps := make([]testStep, len(script.Steps))
	for i, raw := range script.Steps {
		if err := json.Unmarshal(raw, &steps[i]); err != nil {
			return nil, fmt.Errorf("parse test script: step %d: %w", i, err)
		}
		if steps[i].Action == 0 {
			return nil, fmt.Errorf("parse test script: step %d: missing action", i)
		}
	}
	return &TestRunner{steps: steps}, nil
}

// SetTestRunner attaches a runner. Scene.Update steps it once per frame.
func (s *Scene) SetTestRunner(runner *TestRunner) {
	s.testRunner = runner
}

// Done reports whether every step has run.
func (r *TestRunner) Done() bool {
	return r.done
}

// Err returns the first step failure, such as a target name that resolves
// to no node. The runner stops at a failing step.
func (r *TestRunner) Err() error {
	return r.err
}

func (r *TestRunner) step(s *Scene) {
	if r.done || len(s.injectQueue) > 0 {
		return
	}
	if r.wait > 0 {
		r.wait--
		return
	}
	if r.cursor == len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++
	if err := r.run(s, st); err != nil {
		r.err = fmt.Errorf("test script step %d: %w", r.cursor-1, err)
		r.done = true
		Logger().Warn("ardent: test script failed", "err", r.err)
		return
	}
	r.done = r.cursor == len(r.steps) && r.wait == 0 && len(s.injectQueue) == 0
}

func (r *TestRunner) run(s *Scene, st testStep) error {
	switch st.Action {
	case actionClick, actionHover:
		x, y := st.X, st.Y
		if st.Target != "" {
			id, ok := s.Lookup(st.Target)
			if !ok {
				return fmt.Errorf("target %q: %w", st.Target, ErrUnknownNode)
			}
			var err error
			if x, y, err = s.screenCenter(id); err != nil {
				return fmt.Errorf("target %q: %w", st.Target, err)
			}
		}
		if st.Action == actionClick {
			s.InjectClick(x, y)
		} else {
			s.InjectHover(x, y)
		}
	case actionDrag:
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case actionWait:
		// The step's own frame counts towards the wait.
		r.wait = max(st.Frames-1, 0)
	case actionScreenshot:
		s.Screenshot(st.Label)
	}
	return nil
}
