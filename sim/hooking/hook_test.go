package hooking

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type namedHook struct {
	tag string
	log *[]string
}

func (h *namedHook) Func(ctx HookCtx) {
	*h.log = append(*h.log, h.tag+"@"+ctx.Pos.Name)
}

var _ = Describe("HookableBase", func() {
	var (
		hookable *HookableBase
		log      []string
		pos      *HookPos
	)

	BeforeEach(func() {
		hookable = &HookableBase{}
		log = nil
		pos = &HookPos{Name: "pos"}
	})

	It("should invoke hooks in registration order", func() {
		hookable.AcceptHook(&namedHook{tag: "a", log: &log})
		hookable.AcceptHook(&namedHook{tag: "b", log: &log})

		hookable.InvokeHook(HookCtx{Pos: pos})

		Expect(hookable.NumHooks()).To(Equal(2))
		Expect(log).To(Equal([]string{"a@pos", "b@pos"}))
	})

	It("should panic when registering the same hook twice", func() {
		hook := &namedHook{tag: "a", log: &log}
		hookable.AcceptHook(hook)

		Expect(func() { hookable.AcceptHook(hook) }).To(Panic())
	})

	It("should skip a removed hook on later invocations", func() {
		removed := &namedHook{tag: "a", log: &log}
		kept := &namedHook{tag: "b", log: &log}

		hookable.AcceptHook(removed)
		hookable.AcceptHook(kept)
		hookable.RemoveHook(removed)

		hookable.InvokeHook(HookCtx{Pos: pos})

		Expect(hookable.NumHooks()).To(Equal(1))
		Expect(log).To(Equal([]string{"b@pos"}))
	})

	It("should allow re-registering a removed hook", func() {
		hook := &namedHook{tag: "a", log: &log}

		hookable.AcceptHook(hook)
		hookable.RemoveHook(hook)
		hookable.AcceptHook(hook)

		hookable.InvokeHook(HookCtx{Pos: pos})

		Expect(log).To(Equal([]string{"a@pos"}))
	})

	It("should panic when removing a hook that is not registered", func() {
		Expect(func() {
			hookable.RemoveHook(&namedHook{tag: "a", log: &log})
		}).To(Panic())
	})
})
