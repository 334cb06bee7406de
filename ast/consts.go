package ast

import (
	"sync"
)

// Relation symbols accepted by equality nodes.
var Rels = map[string]bool{
	"=": true, "==": true, "!=": true, "<": true, "<=": true, ">": true, ">=": true,
}

// RelTeX holds the markup spelling of relations that differ from the plain one.
var RelTeX = map[string]string{"!=": `\ne`, "<=": `\le`, ">=": `\ge`}

// Greek letter names spelled as markup commands.
var Greek = []string{
	"alpha", "beta", "gamma", "delta", "epsilon", "zeta", "eta", "theta", "iota",
	"kappa", "lambda", "mu", "nu", "xi", "pi", "rho", "sigma", "tau", "upsilon",
	"phi", "chi", "psi", "omega", "Gamma", "Delta", "Theta", "Lambda", "Xi", "Pi",
	"Sigma", "Upsilon", "Phi", "Psi", "Omega",
}

// VarTeX maps variable names with a dedicated markup glyph.
var VarTeX = func() map[string]string {
	m := map[string]string{
		"partial": `\partial`,
		"oo":      `\infty`,
		"zoo":     `\widetilde\infty`,
	}
	for _, g := range Greek {
		m[g] = `\` + g
	}
	return m
}()

// Function name tables.
const (
	FuncEscape  = "$" // unrecognized function marker in plain text
	FuncNoRemap = "@" // call the argument as is
	FuncNoEval  = "%" // freeze the argument against engine evaluation
)

var (
	FuncAdmin   = set("vars", "funcs", "del", "delvars", "delall", "sympyEI", "quick")
	FuncSpecial = union(FuncAdmin, set(FuncNoRemap, FuncNoEval))
	FuncBuiltin = set("max", "min", "abs", "pow", "str", "sum", "print")
	FuncTrigh   = set("sin", "cos", "tan", "cot", "sec", "csc", "sinh", "cosh", "tanh", "coth", "sech", "csch")

	// FuncTrighInv are the script spellings of the inverse functions (asin).
	FuncTrighInv = prefixed("a", FuncTrigh)

	// FuncTeX are names markup spells as operators (\sin, \arcsin, \max).
	FuncTeX = union(
		set("max", "min", "arg", "deg", "exp", "gcd"),
		prefixed("arc", FuncTrigh),
		minus(FuncTrigh, "sech", "csch"),
	)
)

func set(names ...string) map[string]bool {
	m := make(map[string]bool, len(names))
	for _, n := range names {
		m[n] = true
	}
	return m
}

func union(sets ...map[string]bool) map[string]bool {
	m := map[string]bool{}
	for _, s := range sets {
		for k := range s {
			m[k] = true
		}
	}
	return m
}

func minus(s map[string]bool, names ...string) map[string]bool {
	m := union(s)
	for _, n := range names {
		delete(m, n)
	}
	return m
}

func prefixed(p string, s map[string]bool) map[string]bool {
	m := make(map[string]bool, len(s))
	for k := range s {
		m[p+k] = true
	}
	return m
}

// ============================================================
// Singletons
// ============================================================

var (
	Zero     = Num("0")
	One      = Num("1")
	NegOne   = Num("-1")
	VarNull  = Var("")
	MatEmpty = Func("Matrix", Brack())

	Pi        = Var("pi")
	Infty     = Var("oo")
	CInfty    = Var("zoo")
	None      = Var("None")
	True      = Var("True")
	False     = Var("False")
	NaN       = Var("nan")
	Naturals  = Var("Naturals")
	Naturals0 = Var("Naturals0")
	Integers  = Var("Integers")
	Reals     = Var("Reals")
	Complexes = Var("Complexes")
)

// ============================================================
// Constant registry
// ============================================================

// registry is the process-wide set of reserved constant names. Euler's
// number and the imaginary unit switch spelling with SetEngineEI.
var registry = struct {
	sync.RWMutex
	names    map[string]bool
	e, i     *Node
	engineEI bool
	version  uint64
}{
	names: set("e", "i", "pi", "oo", "zoo", "None", "True", "False", "nan",
		"Naturals", "Naturals0", "Integers", "Reals", "Complexes"),
	e: Var("e"),
	i: Var("i"),
}

// IsConst reports whether name is currently reserved.
func IsConst(name string) bool {
	registry.RLock()
	defer registry.RUnlock()
	return registry.names[name]
}

// SetEngineEI switches Euler's number and the imaginary unit to the engine
// spellings E and I (true) or to e and i (false).
func SetEngineEI(yes bool) {
	registry.Lock()
	defer registry.Unlock()
	if registry.engineEI == yes {
		return
	}
	delete(registry.names, registry.e.str)
	delete(registry.names, registry.i.str)
	if yes {
		registry.e, registry.i = Var("E"), Var("I")
	} else {
		registry.e, registry.i = Var("e"), Var("i")
	}
	registry.names[registry.e.str] = true
	registry.names[registry.i.str] = true
	registry.engineEI = yes
	registry.version++
}

// EngineEI reports the current spelling mode.
func EngineEI() bool {
	registry.RLock()
	defer registry.RUnlock()
	return registry.engineEI
}

// E returns the current Euler's number constant node.
func E() *Node {
	registry.RLock()
	defer registry.RUnlock()
	return registry.e
}

// I returns the current imaginary unit constant node.
func I() *Node {
	registry.RLock()
	defer registry.RUnlock()
	return registry.i
}

// Version increments on every effective toggle.
func Version() uint64 {
	registry.RLock()
	defer registry.RUnlock()
	return registry.version
}

// Consts returns the reserved names currently registered.
func Consts() []string {
	registry.RLock()
	defer registry.RUnlock()
	out := make([]string, 0, len(registry.names))
	for n := range registry.names {
		out = append(out, n)
	}
	return out
}
