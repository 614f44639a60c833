//go:build js && wasm

package page

import (
	"fmt"
	"syscall/js"
)

// Container is a DOM element whose contents are replaced on every render.
type Container struct {
	el js.Value
}

// ContainerByID looks up the element with the given id.
func ContainerByID(id string) (*Container, error) {
	el := js.Global().Get("document").Call("getElementById", id)
	if el.IsNull() || el.IsUndefined() {
		return nil, fmt.Errorf("element #%s not found", id)
	}
	return &Container{el: el}, nil
}

func (c *Container) SetHTML(html string) {
	c.el.Set("innerHTML", html)
}

// Checkboxes drives every input matching selector as one menu toggle.
type Checkboxes struct {
	selector string
}

func NewCheckboxes(selector string) *Checkboxes {
	return &Checkboxes{selector: selector}
}

// SetChecked updates the checked state and fires change so CSS-driven menus
// and listeners react.
func (c *Checkboxes) SetChecked(checked bool) {
	event := js.Global().Get("Event")
	forEach(c.selector, func(el js.Value) {
		if !checked {
			el.Call("removeAttribute", "checked")
		}
		el.Set("checked", checked)
		el.Call("dispatchEvent", event.New("change"))
	})
}

// OnReady runs fn once the document has been parsed.
func OnReady(fn func()) {
	doc := js.Global().Get("document")
	if doc.Get("readyState").String() != "loading" {
		fn()
		return
	}
	var cb js.Func
	cb = js.FuncOf(func(this js.Value, args []js.Value) any {
		cb.Release()
		fn()
		return nil
	})
	doc.Call("addEventListener", "DOMContentLoaded", cb)
}

// OnClick registers fn for clicks on every element matching selector at the
// time of the call. fn receives the element's text content. The returned
// function removes the listeners.
func OnClick(selector string, fn func(text string)) (release func()) {
	type binding struct {
		el js.Value
		cb js.Func
	}
	var bound []binding

	forEach(selector, func(el js.Value) {
		cb := js.FuncOf(func(this js.Value, args []js.Value) any {
			target := el
			if len(args) > 0 {
				target = args[0].Get("currentTarget")
			}
			fn(target.Get("textContent").String())
			return nil
		})
		el.Call("addEventListener", "click", cb)
		bound = append(bound, binding{el: el, cb: cb})
	})

	return func() {
		for _, b := range bound {
			b.el.Call("removeEventListener", "click", b.cb)
			b.cb.Release()
		}
	}
}

// Global reads window[name][key] as a string, or "" when absent.
func Global(name, key string) string {
	obj := js.Global().Get(name)
	if obj.IsUndefined() || obj.IsNull() {
		return ""
	}
	v := obj.Get(key)
	if v.Type() != js.TypeString {
		return ""
	}
	return v.String()
}

// Origin is the document's location.origin.
func Origin() string {
	return js.Global().Get("location").Get("origin").String()
}

func forEach(selector string, fn func(js.Value)) {
	nodes := js.Global().Get("document").Call("querySelectorAll", selector)
	for i := 0; i < nodes.Length(); i++ {
		fn(nodes.Index(i))
	}
}
