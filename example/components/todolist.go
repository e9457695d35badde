package components

import (
	"github.com/pthm/flight"
	"github.com/pthm/flight/lib/dom"
	"golang.org/x/net/html"
)

// withTodoList handles the toggle and delete buttons of every item in the
// list and announces the change as "todoChanged".
func withTodoList(store TodoStore) *flight.Mixin {
	return flight.NewMixin("withTodoList", func(p *flight.Proto) {
		p.DefaultAttrs(map[string]any{
			"toggleSelector": "button.toggle",
			"deleteSelector": "button.delete",
			"itemSelector":   "li.todo",
		})

		p.Method("changed", func(c *flight.Component, args ...any) error {
			action, _ := args[0].(string)
			id, _ := args[1].(string)
			_, err := c.Trigger(flight.Emit{
				Type: "todoChanged",
				Data: map[string]any{"action": action, "id": id},
			})
			return err
		})

		p.After("initialize", func(c *flight.Component, args ...any) error {
			_, err := c.On(flight.Listen{Type: "click", Rules: flight.DelegateRules{
				"toggleSelector": flight.Func(func(c *flight.Component, ev *dom.Event, data any) {
					if id := itemID(c, data); id != "" && store.Toggle(id) {
						c.Call("changed", "toggled", id)
					}
				}),
				"deleteSelector": flight.Func(func(c *flight.Component, ev *dom.Event, data any) {
					if id := itemID(c, data); id != "" && store.Delete(id) {
						c.Call("changed", "deleted", id)
					}
				}),
			}})
			return err
		})
	})
}

// itemID reads data-id from the list item around the clicked button.
func itemID(c *flight.Component, data any) string {
	m, _ := data.(map[string]any)
	el, _ := m["el"].(*html.Node)
	if el == nil {
		return ""
	}
	item, err := c.Registry().Document().Closest(el, c.Attr().String("itemSelector"))
	if err != nil || item == nil {
		return ""
	}
	id, _ := c.Registry().Document().Wrap(item).Attr("data-id")
	return id
}
