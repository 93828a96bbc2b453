// Package content stores the portfolio's editable collections.
package content

// Repo is a collection of records of type T addressed by string ID.
type Repo[T any] interface {
	List() []T
	Get(id string) (T, error)
	Create(item T) (T, error) // Assigns an ID when the item has none
	Update(id string, item T) (T, error)
	Delete(id string) error
	Count() int
	// Reorder moves the given IDs to the front in the order given.
	Reorder(ids []string) error
}

// Identity reads and writes the ID field of T.
type Identity[T any] struct {
	ID    func(T) string
	SetID func(*T, string)
}
