package components

import (
	"strings"

	"github.com/pthm/flight"
	"github.com/pthm/flight/lib/dom"
)

// withAddTodo adds a todo on "submit" and tells the list about it. The
// submitted title arrives as data["title"].
func withAddTodo(store TodoStore) *flight.Mixin {
	return flight.NewMixin("withAddTodo", func(p *flight.Proto) {
		p.DefaultAttrs(map[string]any{
			"listSelector": nil,
		})

		p.After("initialize", func(c *flight.Component, args ...any) error {
			_, err := c.On(flight.Listen{Type: "submit", Callback: flight.Func(func(c *flight.Component, ev *dom.Event, data any) {
				ev.PreventDefault()
				m, _ := data.(map[string]any)
				title, _ := m["title"].(string)
				if title = strings.TrimSpace(title); title == "" {
					return
				}
				id := store.Add(title)

				list, err := c.Registry().Document().Select(c.Attr().String("listSelector"))
				if err != nil {
					return
				}
				c.Trigger(flight.Emit{
					Target: list,
					Type:   "todoChanged",
					Data:   map[string]any{"action": "added", "id": id},
				})
			})})
			return err
		})
	})
}
