// Package script loads user-defined warp functions written in Lua.
//
// A warp script defines a global two-argument function returning the new
// coordinates:
//
//	function warp(x, y)
//	    return x + math.sin(y), y
//	end
//
// The build stage calls warp once per point, so scripts should stay cheap.
// Each [Warp] owns its own Lua state and is not safe for concurrent use;
// load one per pipeline run and Close it afterwards.
package script

import (
	lua "github.com/yuin/gopher-lua"

	"github.com/plotfield/plotfield/pkg/errors"
	"github.com/plotfield/plotfield/pkg/scene"
)

// fnName is the global the script must define.
const fnName = "warp"

// Warp is a loaded warp script bound to its Lua state.
type Warp struct {
	path     string
	luaState *lua.LState
	fn       lua.LValue
}

// Load reads and compiles a warp script. The script runs once at load time,
// which lets it precompute tables or seed locals; the warp function itself
// is only looked up afterwards.
func Load(path string) (*Warp, error) {
	if err := errors.ValidateScriptPath(path); err != nil {
		return nil, err
	}

	L := lua.NewState()
	if err := L.DoFile(path); err != nil {
		L.Close()
		return nil, errors.Wrap(errors.ErrCodeScript, err, "loading warp script %s", path)
	}

	fn := L.GetGlobal(fnName)
	if fn.Type() != lua.LTFunction {
		L.Close()
		return nil, errors.New(errors.ErrCodeScript, "script %s does not define a %s(x, y) function", path, fnName)
	}

	return &Warp{path: path, luaState: L, fn: fn}, nil
}

// Path returns the script location the warp was loaded from.
func (w *Warp) Path() string { return w.path }

// Transform runs the script's warp function for one point.
func (w *Warp) Transform(v scene.Vec2) (scene.Vec2, error) {
	L := w.luaState
	err := L.CallByParam(lua.P{Fn: w.fn, NRet: 2, Protect: true},
		lua.LNumber(v.X), lua.LNumber(v.Y))
	if err != nil {
		return scene.Vec2{}, errors.Wrap(errors.ErrCodeScript, err, "calling %s(%g, %g)", fnName, v.X, v.Y)
	}

	// Two results, second on top of the stack.
	ly := L.Get(-1)
	lx := L.Get(-2)
	L.Pop(2)

	x, okX := lx.(lua.LNumber)
	y, okY := ly.(lua.LNumber)
	if !okX || !okY {
		return scene.Vec2{}, errors.New(errors.ErrCodeScript,
			"%s must return two numbers, got %s and %s", fnName, lx.Type(), ly.Type())
	}
	return scene.Vec2{X: float64(x), Y: float64(y)}, nil
}

// Apply transforms pts in place, stopping at the first script error.
func (w *Warp) Apply(pts []scene.Vec2) error {
	for i, v := range pts {
		out, err := w.Transform(v)
		if err != nil {
			return err
		}
		pts[i] = out
	}
	return nil
}

// Close releases the Lua state.
func (w *Warp) Close() {
	if w.luaState != nil {
		w.luaState.Close()
		w.luaState = nil
	}
}
