package main

import (
	"fmt"
	"sort"
	"sync"

	"github.com/pthm/flight/example/components"
)

// Store is an in-memory todo store that implements components.TodoStore.
type Store struct {
	mu     sync.RWMutex
	todos  map[string]*components.Todo
	nextID int
}

// NewStore creates a new store with sample data.
func NewStore() *Store {
	s := &Store{
		todos:  make(map[string]*components.Todo),
		nextID: 1,
	}

	s.Add("Buy groceries")
	s.Add("Review PR #123")
	s.Add("Write documentation")

	return s
}

// Add creates a new todo and returns its ID.
func (s *Store) Add(title string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := fmt.Sprintf("todo-%d", s.nextID)
	s.nextID++
	s.todos[id] = &components.Todo{ID: id, Title: title}
	return id
}

// Toggle toggles the completed status of a todo.
func (s *Store) Toggle(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	todo, ok := s.todos[id]
	if !ok {
		return false
	}
	todo.Completed = !todo.Completed
	return true
}

// Delete removes a todo by ID.
func (s *Store) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return false
	}
	delete(s.todos, id)
	return true
}

// List returns all todos ordered by ID.
func (s *Store) List() []*components.Todo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*components.Todo, 0, len(s.todos))
	for _, todo := range s.todos {
		result = append(result, todo)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Stats returns statistics about the todos.
func (s *Store) Stats() components.TodoStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var stats components.TodoStats
	for _, todo := range s.todos {
		stats.Total++
		if todo.Completed {
			stats.Completed++
		} else {
			stats.Pending++
		}
	}
	return stats
}
