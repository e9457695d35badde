package components

import "github.com/pthm/flight"

// C holds the page's component types.
var C struct {
	TodoList *flight.Type
	AddTodo  *flight.Type
	Stats    *flight.Type
}

// Init defines every component type on reg and attaches them to the page.
// Call it once the document is parsed.
func Init(store TodoStore, reg *flight.Registry) error {
	C.TodoList = reg.Define(withTodoList(store))
	C.AddTodo = reg.Define(withAddTodo(store))
	C.Stats = reg.Define(withStats(store))

	if err := C.TodoList.AttachTo("#todos"); err != nil {
		return err
	}
	if err := C.AddTodo.AttachTo("form.add-todo", map[string]any{"listSelector": "#todos"}); err != nil {
		return err
	}
	return C.Stats.AttachTo(".stats", map[string]any{"pageSelector": "body"})
}
