package components

import (
	"github.com/pthm/flight"
	"github.com/pthm/flight/lib/dom"
	"go.uber.org/zap"
)

// withStats listens for "todoChanged" anywhere on the page and keeps the
// last known totals in its "stats" attribute.
func withStats(store TodoStore) *flight.Mixin {
	return flight.NewMixin("withStats", func(p *flight.Proto) {
		p.DefaultAttrs(map[string]any{
			"pageSelector": nil,
		})

		p.Method("refresh", func(c *flight.Component, args ...any) error {
			stats := store.Stats()
			c.Attr().Set("stats", stats)
			c.Registry().Logger().Info("stats refreshed",
				zap.Int("total", stats.Total),
				zap.Int("completed", stats.Completed),
				zap.Int("pending", stats.Pending))
			return nil
		})

		p.After("initialize", func(c *flight.Component, args ...any) error {
			page, err := c.Registry().Document().Select(c.Attr().String("pageSelector"))
			if err != nil {
				return err
			}
			if _, err := c.On(flight.Listen{Target: page, Type: "todoChanged", Callback: flight.Func(
				func(c *flight.Component, ev *dom.Event, data any) {
					c.Call("refresh")
				})}); err != nil {
				return err
			}
			return c.Call("refresh")
		})
	})
}
