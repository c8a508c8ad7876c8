package cache

// entry is a cached value. An entry that is not valid has been claimed and is being created.
type entry[T any] struct {
	data  T
	valid bool
}

type hitResult[T any] struct {
	entry[T]
	claimed bool
}

// Cache is a get-or-claim store used through GetOrCreate.
//
// A claimed key is owned by the caller until it is set or deleted. Other callers
// see an invalid entry and wait.
type Cache[T any] interface {
	getOrClaim(key string) hitResult[T]
	set(key string, data T)
	delete(key string)
	wait()
}
