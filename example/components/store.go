package components

// Todo is a single task.
type Todo struct {
	ID        string
	Title     string
	Completed bool
}

// TodoStats summarizes the store.
type TodoStats struct {
	Total     int
	Completed int
	Pending   int
}

// TodoStore is what the components need from storage.
type TodoStore interface {
	Add(title string) string
	Toggle(id string) bool
	Delete(id string) bool
	List() []*Todo
	Stats() TodoStats
}
