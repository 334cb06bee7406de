package sympad

import (
	"sort"
	"sync"

	"github.com/njchilds90/gosympad/ast"
	"github.com/njchilds90/gosympad/engine"
)

// userFuncs is the process-wide set of function names defined by the user.
// The plain renderer prints them without the unrecognized marker and the
// exporter turns calls to them into undefined engine functions.
var userFuncs = struct {
	sync.RWMutex
	names map[string]bool
}{names: map[string]bool{}}

// SetUserFuncs replaces the registered user function names.
func SetUserFuncs(names ...string) {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	userFuncs.Lock()
	defer userFuncs.Unlock()
	userFuncs.names = m
}

// IsUserFunc reports whether name is a registered user function.
func IsUserFunc(name string) bool {
	userFuncs.RLock()
	defer userFuncs.RUnlock()
	return userFuncs.names[name]
}

// UserFuncs lists the registered user function names, sorted.
func UserFuncs() []string {
	userFuncs.RLock()
	defer userFuncs.RUnlock()
	out := make([]string, 0, len(userFuncs.names))
	for n := range userFuncs.names {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// isKnownFunc reports whether a call to name resolves without the
// unrecognized marker.
func isKnownFunc(name string) bool {
	if ast.FuncSpecial[name] || IsUserFunc(name) {
		return true
	}
	if _, ok := engine.Lookup(name); ok {
		return true
	}
	_, ok := engine.Builtin(name)
	return ok
}
