// Package script implements session.Resolver on top of Lua scripts.
//
// A script defines two globals:
//
//	function Search(query) return "locator" or nil end
//	function Popular() return "locator" or nil end
//
// The mangal-lua-libs modules (http, json, html, strings...) are preloaded and a token()
// global returns the API token stored in the system keyring, or nil.
package script

import (
	"context"
	"fmt"
	"sync"

	"github.com/cinelane/cinelane/auth"
	"github.com/cinelane/cinelane/constant"
	"github.com/cinelane/cinelane/log"
	"github.com/cinelane/cinelane/util"
	libs "github.com/metafates/mangal-lua-libs"
	"github.com/samber/mo"
	lua "github.com/yuin/gopher-lua"
)

// Resolver runs one Lua script. The Lua state is not goroutine safe, so calls are serialized.
type Resolver struct {
	name string
	path string

	mu    sync.Mutex
	state *lua.LState
}

// Load executes the script at path and checks that it defines the required functions.
func Load(path string) (*Resolver, error) {
	state := lua.NewState()
	libs.Preload(state)
	state.SetGlobal("token", state.NewFunction(luaToken))

	if err := run(state, path); err != nil {
		state.Close()
		return nil, fmt.Errorf("load resolver %s: %w", path, err)
	}

	name := util.FileStem(path)
	for _, fn := range []string{constant.SearchFn, constant.PopularFn} {
		if state.GetGlobal(fn).Type() != lua.LTFunction {
			state.Close()
			return nil, fmt.Errorf("function %s is required but not defined in %s", fn, name)
		}
	}

	return &Resolver{name: name, path: path, state: state}, nil
}

// Reload discards the compiled script and loads it again from disk.
func Reload(path string) (*Resolver, error) {
	forget(path)
	return Load(path)
}

// Name is the script file name without its extension.
func (r *Resolver) Name() string {
	return r.name
}

// Search calls the script's Search(query).
func (r *Resolver) Search(ctx context.Context, query string) (mo.Option[string], error) {
	return r.call(ctx, constant.SearchFn, lua.LString(query))
}

// Popular calls the script's Popular().
func (r *Resolver) Popular(ctx context.Context) (mo.Option[string], error) {
	return r.call(ctx, constant.PopularFn)
}

// Close releases the Lua state.
func (r *Resolver) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state.Close()
}

func (r *Resolver) call(ctx context.Context, fn string, args ...lua.LValue) (mo.Option[string], error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.state.SetContext(ctx)
	defer r.state.RemoveContext()

	err := r.state.CallByParam(lua.P{
		Fn:      r.state.GetGlobal(fn),
		NRet:    1,
		Protect: true,
	}, args...)
	if err != nil {
		return mo.None[string](), fmt.Errorf("%s: %s: %w", r.name, fn, err)
	}

	ret := r.state.Get(-1)
	r.state.Pop(1)

	switch ret.Type() {
	case lua.LTNil:
		return mo.None[string](), nil
	case lua.LTString:
		if s := ret.String(); s != "" {
			return mo.Some(s), nil
		}
		return mo.None[string](), nil
	default:
		return mo.None[string](), fmt.Errorf("%s: %s returned %s, expected string or nil", r.name, fn, ret.Type())
	}
}

func luaToken(L *lua.LState) int {
	token, err := auth.GetToken()
	if err != nil {
		log.Warnf("reading resolver token: %s", err)
	}

	if t, ok := token.Get(); ok && err == nil {
		L.Push(lua.LString(t))
	} else {
		L.Push(lua.LNil)
	}
	return 1
}
