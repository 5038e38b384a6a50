package scripting

import (
	"fmt"
	"math"

	lua "github.com/yuin/gopher-lua"
)

// entryPoint is the global function a formula script must define.
const entryPoint = "damage"

// Formula is a compiled damage formula. The script must define a global
// function
//
//	function damage(atk, armor, atk_count, min_damage) ... end
//
// returning a number. Evaluation is pure: same inputs, same output.
type Formula struct {
	name      string
	source    string
	instLimit int
}

// CompileFormula validates source by loading it into a sandboxed state and
// checking that it defines the damage entry point.
//
// Precondition: name and source must be non-empty.
// Postcondition: Returns a Formula whose Eval will not fail on well-typed
// inputs, or a descriptive error.
func CompileFormula(name, source string) (*Formula, error) {
	if source == "" {
		return nil, fmt.Errorf("scripting: formula %q has empty source", name)
	}
	f := &Formula{name: name, source: source, instLimit: DefaultInstructionLimit}

	L := NewSandboxedState(f.instLimit)
	defer L.Close()
	if err := L.DoString(source); err != nil {
		return nil, fmt.Errorf("scripting: loading formula %q: %w", name, err)
	}
	if _, ok := L.GetGlobal(entryPoint).(*lua.LFunction); !ok {
		return nil, fmt.Errorf("scripting: formula %q does not define function %s", name, entryPoint)
	}
	return f, nil
}

// Name returns the formula's configured name.
func (f *Formula) Name() string { return f.name }

// Eval runs the formula with the given damage inputs. Each evaluation uses a
// fresh sandboxed state so the instruction budget applies per call.
//
// Postcondition: Returns the script result rounded half-up, or an error if
// the script faults or returns a non-number.
func (f *Formula) Eval(atk, armor, atkCount, minDamage int) (int, error) {
	L := NewSandboxedState(f.instLimit)
	defer L.Close()

	if err := L.DoString(f.source); err != nil {
		return 0, fmt.Errorf("scripting: loading formula %q: %w", f.name, err)
	}
	fn, ok := L.GetGlobal(entryPoint).(*lua.LFunction)
	if !ok {
		return 0, fmt.Errorf("scripting: formula %q does not define function %s", f.name, entryPoint)
	}

	err := L.CallByParam(lua.P{Fn: fn, NRet: 1, Protect: true},
		lua.LNumber(atk), lua.LNumber(armor), lua.LNumber(atkCount), lua.LNumber(minDamage))
	if err != nil {
		return 0, fmt.Errorf("scripting: evaluating formula %q: %w", f.name, err)
	}
	ret := L.Get(-1)
	L.Pop(1)

	num, ok := ret.(lua.LNumber)
	if !ok {
		return 0, fmt.Errorf("scripting: formula %q returned %s, want number", f.name, ret.Type())
	}
	return int(math.Floor(float64(num) + 0.5)), nil
}
