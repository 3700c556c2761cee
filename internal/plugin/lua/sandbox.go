package lua

import (
	"strings"

	"github.com/tliron/commonlog"
	lua "github.com/yuin/gopher-lua"
)

var log = commonlog.GetLogger("caret.lua")

// installSandbox removes functions that load code and routes print to the
// log.
func installSandbox(L *lua.LState) {
	for _, name := range []string{
		"dofile",
		"loadfile",
		"load",
		"loadstring",
		"require",
		"module",
	} {
		L.SetGlobal(name, lua.LNil)
	}

	L.SetGlobal("print", L.NewFunction(func(L *lua.LState) int {
		parts := make([]string, 0, L.GetTop())
		for i := 1; i <= L.GetTop(); i++ {
			parts = append(parts, L.ToStringMeta(L.Get(i)).String())
		}
		log.Info(strings.Join(parts, "\t"))
		return 0
	}))
}
