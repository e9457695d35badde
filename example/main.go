package main

import (
	"context"
	"fmt"
	"html"
	"io"
	"log"

	"github.com/a-h/templ"
	"github.com/pthm/flight"
	"github.com/pthm/flight/example/components"
	"github.com/pthm/flight/lib/dom"
	"go.uber.org/zap"
)

// Page renders the todo page from the store.
func Page(store *Store) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		if _, err := io.WriteString(w, `<html><body><ul id="todos">`); err != nil {
			return err
		}
		for _, todo := range store.List() {
			_, err := fmt.Fprintf(w,
				`<li class="todo" data-id="%s"><span>%s</span><button class="toggle">done</button><button class="delete">x</button></li>`,
				todo.ID, html.EscapeString(todo.Title))
			if err != nil {
				return err
			}
		}
		_, err := io.WriteString(w, `</ul><form class="add-todo"><input name="title"></form><div class="stats"></div></body></html>`)
		return err
	})
}

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	store := NewStore()

	doc, err := dom.Render(context.Background(), Page(store))
	if err != nil {
		logger.Fatal("render failed", zap.Error(err))
	}

	reg := flight.NewRegistry(doc,
		flight.WithLogger(logger),
		flight.WithConfig(flight.Config{Debug: true, LogEvents: true}))

	if err := components.Init(store, reg); err != nil {
		logger.Fatal("init failed", zap.Error(err))
	}

	// Simulate a session: complete the first todo, delete the second and
	// add a new one.
	click := func(selector string) {
		sel, err := doc.Select(selector)
		if err != nil || sel.Len() == 0 {
			logger.Warn("nothing to click", zap.String("selector", selector))
			return
		}
		sel.Trigger(dom.NewEvent("click"), nil)
	}
	click(`li[data-id="todo-1"] button.toggle`)
	click(`li[data-id="todo-2"] button.delete`)

	form, err := doc.Select("form.add-todo")
	if err != nil {
		logger.Fatal("select failed", zap.Error(err))
	}
	form.Trigger(dom.NewEvent("submit"), map[string]any{"title": "Ship the release"})

	stats := store.Stats()
	fmt.Printf("total=%d completed=%d pending=%d\n", stats.Total, stats.Completed, stats.Pending)

	if err := reg.TeardownAll(); err != nil {
		logger.Fatal("teardown failed", zap.Error(err))
	}
	if n := doc.TotalListeners(); n != 0 {
		logger.Fatal("listeners leaked", zap.Int("count", n))
	}
}
