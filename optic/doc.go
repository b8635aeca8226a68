// Package optic provides composable get/set lenses over immutable values.
//
// A Lens is a plain pair of pure functions. Lenses compose with Compose,
// which is all the state tree needs to address any depth of a root value:
//
//	type App struct {
//	    Todos TodosState `statetree:"todos"`
//	}
//
//	todos := optic.MustProp[App, TodosState]("todos")
//	list := optic.MustProp[TodosState, []Todo]("List")
//	first := optic.Compose(optic.Compose(todos, list), optic.Index[Todo](0))
//
//	app = optic.Set(first, Todo{Text: "write tests"}, app)
//
// # Collection lenses
//
// Find, Filter, Sort and SortFunc focus queried views of a slice. Writing
// through them never reorders the underlying slice:
//
//	adults := optic.Filter(func(u User) bool { return u.Age >= 18 })
//	byAge := optic.SortFunc(func(a, b User) int { return cmp.Compare(a.Age, b.Age) })
//
// Filter and Sort setters require a replacement with exactly as many
// elements as the focus. A mismatch is a programmer error and panics with
// *LengthError; use TrySet when the replacement comes from user input.
package optic
