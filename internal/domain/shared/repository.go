package shared

import "context"

// Reader is the read side of a remote collection
type Reader[T any] interface {
	Search(ctx context.Context, req PageRequest) (*Page[T], error)
	FindByID(ctx context.Context, id string) (*T, error)
}

// Creator creates records from an input and returns the new id
type Creator[In any] interface {
	Create(ctx context.Context, input In) (string, error)
}

// Updater updates a record by id
type Updater[In any] interface {
	Update(ctx context.Context, id string, input In) error
}

// Deleter deletes a record by id
type Deleter interface {
	Delete(ctx context.Context, id string) error
}

// Repository is a remote collection supporting every write
type Repository[T, In any] interface {
	Reader[T]
	Creator[In]
	Updater[In]
	Deleter
}
