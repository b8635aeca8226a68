package demo

import (
	"slices"
	"strings"

	"github.com/tailored-agentic-units/statetree/container"
	"github.com/tailored-agentic-units/statetree/optic"
)

type Todo struct {
	ID   int    `json:"id"`
	Text string `json:"text"`
	Done bool   `json:"done"`
}

type TodosState struct {
	List   []Todo `json:"list"`
	NextID int    `json:"next_id"`
}

var todoList = optic.MustProp[TodosState, []Todo]("List")

func isOpen(t Todo) bool { return !t.Done }

// openTodos focuses the unfinished entries of the list in place.
var openTodos = optic.Compose(todoList, optic.Filter(isOpen))

func todoByID(id int) optic.Lens[TodosState, Todo] {
	return optic.Compose(todoList, optic.Find(func(t Todo) bool { return t.ID == id }))
}

type Todos struct {
	*container.Container[TodosState]
}

func NewTodos(initial TodosState, opts ...container.Option) *Todos {
	return &Todos{container.New(initial, opts...)}
}

// Add appends a todo. Blank text is ignored.
func (t *Todos) Add(text string) bool {
	text = strings.TrimSpace(text)
	if text == "" {
		return false
	}

	s := t.State()
	id := s.NextID + 1
	return t.Commit("add", TodosState{
		List:   append(slices.Clip(s.List), Todo{ID: id, Text: text}),
		NextID: id,
	})
}

// Toggle flips the done flag of the todo with id.
func (t *Todos) Toggle(id int) bool {
	s := t.State()
	item := todoByID(id)

	todo := optic.View(item, s)
	if todo.ID != id {
		return false
	}
	todo.Done = !todo.Done
	return t.Commit("toggle", optic.Set(item, todo, s))
}

func (t *Todos) Remove(id int) bool {
	s := t.State()
	i := slices.IndexFunc(s.List, func(todo Todo) bool { return todo.ID == id })
	if i < 0 {
		return false
	}
	s.List = slices.Delete(slices.Clone(s.List), i, i+1)
	return t.Commit("remove", s)
}

// CompleteAll marks every open todo done without reordering the list.
func (t *Todos) CompleteAll() bool {
	s := t.State()
	open := optic.View(openTodos, s)
	if len(open) == 0 {
		return false
	}

	done := make([]Todo, len(open))
	for i, todo := range open {
		todo.Done = true
		done[i] = todo
	}
	return t.Commit("complete all", optic.Set(openTodos, done, s))
}

// ClearDone drops finished todos.
func (t *Todos) ClearDone() bool {
	s := t.State()
	open := optic.View(openTodos, s)
	if len(open) == len(s.List) {
		return false
	}
	s.List = open
	return t.Commit("clear done", s)
}

// Open returns the unfinished todos in list order.
func (t *Todos) Open() []Todo {
	return optic.View(openTodos, t.State())
}
