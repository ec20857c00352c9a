// Package hooking provides the observer infrastructure used across the
// simulation kernel. Hooks are invoked synchronously at well-known positions
// so that tracers and statistics collectors see every transition at the
// simulated time it happens.
package hooking

// A HookPos identifies a place in the kernel where hooks fire. Positions are
// compared by pointer identity, so each one is declared exactly once.
type HookPos struct {
	Name string
}

// HookCtx carries the information about the site that triggered a hook: the
// hookable object, the position, and the position-specific payload.
type HookCtx struct {
	Domain Hookable
	Pos    *HookPos
	Item   interface{}
	Detail interface{}
}

// Hookable is an object that hooks can observe.
type Hookable interface {
	// AcceptHook registers a hook. Registering the same hook twice panics.
	AcceptHook(hook Hook)

	// RemoveHook unregisters a hook. Removing a hook that is not registered
	// panics.
	RemoveHook(hook Hook)

	// NumHooks returns the number of hooks registered.
	NumHooks() int

	// Hooks returns all the hooks registered.
	Hooks() []Hook
}

// A Hook is a piece of observer logic invoked by a hookable object.
type Hook interface {
	// Func runs when the hook is invoked.
	Func(ctx HookCtx)
}

// HookableBase implements the Hookable interface for embedding.
type HookableBase struct {
	hookList []Hook
}

// NumHooks returns the number of hooks registered.
func (h *HookableBase) NumHooks() int {
	return len(h.hookList)
}

// Hooks returns all the hooks registered.
func (h *HookableBase) Hooks() []Hook {
	return h.hookList
}

// AcceptHook registers a hook.
func (h *HookableBase) AcceptHook(hook Hook) {
	h.mustNotHaveDuplicatedHook(hook)
	h.hookList = append(h.hookList, hook)
}

// RemoveHook unregisters a hook, so that later invocations skip it.
func (h *HookableBase) RemoveHook(hook Hook) {
	for i, registered := range h.hookList {
		if registered == hook {
			h.hookList = append(h.hookList[:i], h.hookList[i+1:]...)
			return
		}
	}

	panic("removing a hook that is not registered")
}

func (h *HookableBase) mustNotHaveDuplicatedHook(hook Hook) {
	for _, registered := range h.hookList {
		if registered == hook {
			panic("duplicated hook")
		}
	}
}

// InvokeHook triggers the registered hooks in registration order.
func (h *HookableBase) InvokeHook(ctx HookCtx) {
	for _, hook := range h.hookList {
		hook.Func(ctx)
	}
}
