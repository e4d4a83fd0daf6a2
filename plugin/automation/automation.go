// Package automation drives a parameter surface from a Lua script, standing
// in for host automation during offline renders.
//
// A script defines a global function
//
//	function automate(t, block)
//	  return { input = 6 * math.sin(t), algo = "Sine Fold" }
//	end
//
// which is called once per block with the block start time in seconds and
// the block index. Every returned pair is applied to the surface as a plain
// value; strings select a choice by name. The getter param(key) returns a
// current plain value. Only the base, table, string and math libraries are
// loaded.
package automation

import (
	"errors"
	"fmt"
	"os"
	"strings"

	lua "github.com/yuin/gopher-lua"

	"github.com/cwbudde/algo-prism/plugin/param"
)

// EntryPoint is the name of the global function a script must define.
const EntryPoint = "automate"

// ErrNoEntryPoint indicates a script without an automate function.
var ErrNoEntryPoint = errors.New("automation: script does not define automate(t, block)")

// Script is a loaded automation script. It is not safe for concurrent use.
type Script struct {
	state   *lua.LState
	fn      *lua.LFunction
	surface *param.Surface
}

// LoadFile reads and compiles a script from disk.
func LoadFile(path string, surface *param.Surface) (*Script, error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("automation: %w", err)
	}

	return Load(string(src), surface)
}

// Load compiles src and binds it to surface.
func Load(src string, surface *param.Surface) (*Script, error) {
	L := lua.NewState(lua.Options{SkipOpenLibs: true})

	if err := openLibs(L); err != nil {
		L.Close()
		return nil, err
	}

	s := &Script{state: L, surface: surface}
	L.SetGlobal("param", L.NewFunction(s.luaParam))

	if err := L.DoString(src); err != nil {
		L.Close()
		return nil, fmt.Errorf("automation: %w", err)
	}

	fn, ok := L.GetGlobal(EntryPoint).(*lua.LFunction)
	if !ok {
		L.Close()
		return nil, ErrNoEntryPoint
	}

	s.fn = fn

	return s, nil
}

func openLibs(L *lua.LState) error {
	libs := []struct {
		name string
		open lua.LGFunction
	}{
		{lua.BaseLibName, lua.OpenBase},
		{lua.TabLibName, lua.OpenTable},
		{lua.StringLibName, lua.OpenString},
		{lua.MathLibName, lua.OpenMath},
	}

	for _, lib := range libs {
		err := L.CallByParam(lua.P{Fn: L.NewFunction(lib.open), NRet: 0, Protect: true}, lua.LString(lib.name))
		if err != nil {
			return fmt.Errorf("automation: open %s: %w", lib.name, err)
		}
	}

	return nil
}

// Apply calls automate(t, block) and writes the returned values to the
// surface. A nil return leaves the surface unchanged.
func (s *Script) Apply(t float64, block int) error {
	L := s.state

	err := L.CallByParam(lua.P{Fn: s.fn, NRet: 1, Protect: true}, lua.LNumber(t), lua.LNumber(block))
	if err != nil {
		return fmt.Errorf("automation: block %d: %w", block, err)
	}

	ret := L.Get(-1)
	L.Pop(1)

	switch v := ret.(type) {
	case *lua.LNilType:
		return nil
	case *lua.LTable:
		return s.applyTable(v, block)
	default:
		return fmt.Errorf("automation: block %d: automate returned %s, want table", block, ret.Type())
	}
}

func (s *Script) applyTable(tbl *lua.LTable, block int) error {
	var firstErr error

	tbl.ForEach(func(k, v lua.LValue) {
		if firstErr != nil {
			return
		}

		key, ok := k.(lua.LString)
		if !ok {
			firstErr = fmt.Errorf("automation: block %d: key %s is not a string", block, k.String())
			return
		}

		if err := s.set(string(key), v); err != nil {
			firstErr = fmt.Errorf("automation: block %d: %w", block, err)
		}
	})

	return firstErr
}

func (s *Script) set(key string, v lua.LValue) error {
	switch val := v.(type) {
	case lua.LNumber:
		return s.surface.Set(key, float64(val))
	case lua.LString:
		c := s.surface.Choice(key)
		if c == nil {
			if _, ok := s.surface.Param(key); !ok {
				return fmt.Errorf("%w: %q", param.ErrUnknownParameter, key)
			}

			return fmt.Errorf("%q takes a number, got %q", key, string(val))
		}

		for i, name := range c.Choices() {
			if strings.EqualFold(name, string(val)) {
				c.SetIndex(i)
				return nil
			}
		}

		return fmt.Errorf("%q has no option %q", key, string(val))
	case lua.LBool:
		if val {
			return s.surface.Set(key, 1)
		}

		return s.surface.Set(key, 0)
	default:
		return fmt.Errorf("%q: unsupported value type %s", key, v.Type())
	}
}

func (s *Script) luaParam(L *lua.LState) int {
	key := L.CheckString(1)

	v, err := s.surface.Get(key)
	if err != nil {
		L.RaiseError("%s", err.Error())
		return 0
	}

	L.Push(lua.LNumber(v))

	return 1
}

// Close releases the Lua state.
func (s *Script) Close() {
	s.state.Close()
}
