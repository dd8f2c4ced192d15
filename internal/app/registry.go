package app

// Observer receives the full current collection after every mutation.
type Observer[V any] func(all []V)

// Registry is an insertion-ordered key-value store that applies a mapper to
// every value before storing it and synchronously notifies a single observer
// on every Set and Delete. It carries no lock of its own: the SessionStore
// mutex covers whole coordinator operations around it, and the observer must
// not mutate the registry it was notified from.
type Registry[K comparable, V any] struct {
	values   map[K]V
	order    []K
	mapper   func(V) V
	onChange Observer[V]
}

func NewRegistry[K comparable, V any](mapper func(V) V) *Registry[K, V] {
	return &Registry[K, V]{
		values: make(map[K]V),
		mapper: mapper,
	}
}

// OnChange registers the single observer. Later calls replace it.
func (r *Registry[K, V]) OnChange(fn Observer[V]) {
	r.onChange = fn
}

func (r *Registry[K, V]) Get(k K) (V, bool) {
	v, ok := r.values[k]
	return v, ok
}

func (r *Registry[K, V]) Has(k K) bool {
	_, ok := r.values[k]
	return ok
}

func (r *Registry[K, V]) Len() int { return len(r.values) }

// Set stores mapper(v) under k and notifies the observer.
func (r *Registry[K, V]) Set(k K, v V) {
	if r.mapper != nil {
		v = r.mapper(v)
	}
	if _, ok := r.values[k]; !ok {
		r.order = append(r.order, k)
	}
	r.values[k] = v
	r.notify()
}

// Delete removes k, if present, and notifies the observer.
func (r *Registry[K, V]) Delete(k K) {
	if _, ok := r.values[k]; !ok {
		return
	}
	delete(r.values, k)
	for i, key := range r.order {
		if key == k {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	r.notify()
}

// Values returns the stored values in insertion order.
func (r *Registry[K, V]) Values() []V {
	out := make([]V, 0, len(r.order))
	for _, k := range r.order {
		out = append(out, r.values[k])
	}
	return out
}

func (r *Registry[K, V]) notify() {
	if r.onChange != nil {
		r.onChange(r.Values())
	}
}
