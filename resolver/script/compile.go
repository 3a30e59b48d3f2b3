package script

import (
	"bytes"
	"sync"

	"github.com/cinelane/cinelane/filesystem"
	lua "github.com/yuin/gopher-lua"
	"github.com/yuin/gopher-lua/parse"
)

var protoCache sync.Map

// run executes the script at path inside L, compiling it only the first time the path is seen.
func run(L *lua.LState, path string) error {
	proto, err := compile(path)
	if err != nil {
		return err
	}

	L.Push(L.NewFunctionFromProto(proto))
	return L.PCall(0, lua.MultRet, nil)
}

func compile(path string) (*lua.FunctionProto, error) {
	if cached, ok := protoCache.Load(path); ok {
		return cached.(*lua.FunctionProto), nil
	}

	contents, err := filesystem.API().ReadFile(path)
	if err != nil {
		return nil, err
	}

	chunk, err := parse.Parse(bytes.NewReader(contents), path)
	if err != nil {
		return nil, err
	}

	proto, err := lua.Compile(chunk, path)
	if err != nil {
		return nil, err
	}

	protoCache.Store(path, proto)
	return proto, nil
}

// forget drops the compiled prototype of path, so the next Load recompiles it.
func forget(path string) {
	protoCache.Delete(path)
}
