package scripting

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	lua "github.com/yuin/gopher-lua"
	"go.uber.org/zap"

	"github.com/cory-johannsen/shinobi/internal/game/dice"
)

// globalKey is the reserved key for shared scripts loaded via LoadGlobal.
// Call falls back to this VM when no VM is registered under the requested key.
const globalKey = "__global__"

// CombatantInfo is a snapshot of a combatant's state passed to Lua callbacks.
type CombatantInfo struct {
	ID        string
	Name      string
	Kind      string
	HP        int
	MaxHP     int
	Chakra    int
	MaxChakra int
	Buffs     []string
	Cooldowns map[string]int
}

// vm is one loaded script set. An LState is single-threaded, so every use
// holds mu.
type vm struct {
	mu    sync.Mutex
	L     *lua.LState
	limit int
}

// Manager owns one sandboxed LState per script set and dispatches hooks.
//
// Manager is safe for concurrent use. Calls into the same script set are
// serialized; different sets run concurrently.
type Manager struct {
	mu     sync.RWMutex
	vms    map[string]*vm
	roller *dice.Roller
	logger *zap.Logger

	// Injected after construction. nil = engine.combat.query_combatant returns nil.
	GetCombatant func(id string) *CombatantInfo
}

// NewManager creates a Manager.
//
// Precondition: roller and logger must be non-nil.
// Postcondition: Returns a non-nil Manager with no script sets.
func NewManager(roller *dice.Roller, logger *zap.Logger) *Manager {
	if roller == nil || logger == nil {
		panic("scripting: NewManager requires non-nil roller and logger")
	}
	return &Manager{
		vms:    make(map[string]*vm),
		roller: roller,
		logger: logger,
	}
}

// LoadSet creates a sandboxed VM for key, registers the engine.* modules,
// then executes every *.lua file in scriptDir in lexicographic order.
// Loading a key again replaces its VM.
//
// Precondition: key must be non-empty; scriptDir must be a readable directory.
// Postcondition: the VM is registered; returns error on Lua load failure.
func (m *Manager) LoadSet(key, scriptDir string, instLimit int) error {
	entries, err := os.ReadDir(scriptDir)
	if err != nil {
		return fmt.Errorf("scripting: reading script dir %q for %q: %w", scriptDir, key, err)
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".lua" {
			files = append(files, filepath.Join(scriptDir, e.Name()))
		}
	}
	sort.Strings(files)
	return m.load(key, instLimit, func(L *lua.LState) error {
		for _, path := range files {
			if err := L.DoFile(path); err != nil {
				return fmt.Errorf("scripting: loading %q for %q: %w", path, key, err)
			}
		}
		return nil
	})
}

// LoadString registers a VM for key built from a single Lua chunk.
func (m *Manager) LoadString(key, src string, instLimit int) error {
	return m.load(key, instLimit, func(L *lua.LState) error {
		if err := L.DoString(src); err != nil {
			return fmt.Errorf("scripting: loading chunk for %q: %w", key, err)
		}
		return nil
	})
}

// LoadGlobal creates the fallback VM consulted by Call for keys with no VM
// of their own.
func (m *Manager) LoadGlobal(scriptDir string, instLimit int) error {
	return m.LoadSet(globalKey, scriptDir, instLimit)
}

func (m *Manager) load(key string, instLimit int, run func(L *lua.LState) error) error {
	if key == "" {
		panic("scripting: script set key must not be empty")
	}
	L, release := NewSandboxedState(instLimit)
	m.RegisterModules(L)
	err := run(L)
	release()
	if err != nil {
		L.Close()
		return err
	}

	m.mu.Lock()
	old := m.vms[key]
	m.vms[key] = &vm{L: L, limit: instLimit}
	m.mu.Unlock()
	if old != nil {
		old.mu.Lock()
		old.L.Close()
		old.mu.Unlock()
	}
	m.logger.Debug("scripting: loaded script set", zap.String("key", key))
	return nil
}

// Has reports whether a VM is registered under key.
func (m *Manager) Has(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.vms[key]
	return ok
}

// CallHook calls the named Lua global function in key's VM with args.
func (m *Manager) CallHook(key, hook string, args ...lua.LValue) (lua.LValue, error) {
	return m.Call(key, hook, func(*lua.LState) []lua.LValue { return args })
}

// Call calls the named Lua global function in key's VM, or the global VM if
// key has none, with the arguments returned by build. build runs while the
// VM is held so it may allocate tables on L. Each call gets a fresh
// instruction budget. Returns (LNil, nil) if the hook is not defined or no
// VM exists. Lua runtime errors are logged at Warn level and never propagated.
//
// Postcondition: Returns the first return value of the hook, or LNil.
func (m *Manager) Call(key, hook string, build func(L *lua.LState) []lua.LValue) (lua.LValue, error) {
	m.mu.RLock()
	v, ok := m.vms[key]
	if !ok {
		v = m.vms[globalKey]
	}
	m.mu.RUnlock()

	if v == nil {
		m.logger.Info("scripting: no VM for key",
			zap.String("key", key),
			zap.String("hook", hook),
		)
		return lua.LNil, nil
	}

	v.mu.Lock()
	defer v.mu.Unlock()
	if v.L.IsClosed() {
		return lua.LNil, nil
	}
	fn := v.L.GetGlobal(hook)
	if fn == lua.LNil {
		return lua.LNil, nil
	}

	release := budget(v.L, v.limit)
	defer release()
	if err := v.L.CallByParam(lua.P{
		Fn:      fn,
		NRet:    1,
		Protect: true,
	}, build(v.L)...); err != nil {
		m.logger.Warn("scripting: Lua runtime error",
			zap.String("key", key),
			zap.String("hook", hook),
			zap.Error(err),
		)
		return lua.LNil, nil
	}

	ret := v.L.Get(-1)
	v.L.Pop(1)
	return ret, nil
}

// Close releases every VM.
func (m *Manager) Close() {
	m.mu.Lock()
	vms := m.vms
	m.vms = make(map[string]*vm)
	m.mu.Unlock()
	for _, v := range vms {
		v.mu.Lock()
		v.L.Close()
		v.mu.Unlock()
	}
}
