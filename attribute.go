package bitwise

import "sync/atomic"

type AttributeOption func(a *Attribute)

// WithExtensions registers the mutation hooks of the given extensions
func WithExtensions(extensions ...Extension) AttributeOption {
	return func(a *Attribute) {
		for _, ext := range extensions {
			if ext, ok := ext.(MutationHookExtension); ok {
				a.mutationHooks = append(a.mutationHooks, ext)
			}
		}
	}
}

// Attribute binds a flag group mapping to the raw value store of a host.
// Add and Remove are read-modify-write on the store, callers mutating the same host concurrently must serialize.
type Attribute struct {
	codec         *Codec
	store         RawStore
	mutationHooks []MutationHookExtension
	mutations     uint64
}

func NewAttribute(mapping *Mapping, store RawStore, options ...AttributeOption) *Attribute {
	a := &Attribute{
		codec: NewCodec(mapping),
		store: store,
	}
	for _, option := range options {
		option(a)
	}
	return a
}

func (a *Attribute) Mapping() *Mapping { return a.codec.mapping }

func (a *Attribute) Codec() *Codec { return a.codec }

// Raw returns the stored raw value
func (a *Attribute) Raw() (Raw, error) {
	return a.store.GetRaw()
}

// Flags decodes the stored raw value
func (a *Attribute) Flags() (FlagSet, error) {
	raw, err := a.store.GetRaw()
	if err != nil {
		return nil, err
	}
	return a.codec.Decode(raw), nil
}

// Assign replaces the stored value with the given symbols or values
func (a *Attribute) Assign(inputs ...any) error {
	before, err := a.store.GetRaw()
	if err != nil {
		return err
	}
	after, err := a.codec.Encode(inputs...)
	if err == nil {
		err = a.store.SetRaw(after)
	}
	a.notify(OpAssign, before, after, err)
	return err
}

// Has checks if the flag is set in the stored value
func (a *Attribute) Has(input any) (bool, error) {
	raw, err := a.store.GetRaw()
	if err != nil {
		return false, err
	}
	return a.codec.Has(raw, input)
}

// Add sets the flag and returns the new raw value
func (a *Attribute) Add(input any) (Raw, error) {
	return a.mutate(OpAdd, input, a.codec.Add)
}

// Remove clears the flag and returns the new raw value
func (a *Attribute) Remove(input any) (Raw, error) {
	return a.mutate(OpRemove, input, a.codec.Remove)
}

func (a *Attribute) Union(inputs ...any) ([]Raw, error) {
	return a.codec.Union(inputs...)
}

func (a *Attribute) Intersection(inputs ...any) ([]Raw, error) {
	return a.codec.Intersection(inputs...)
}

// Mutations returns the number of successful mutations made through this attribute
func (a *Attribute) Mutations() uint64 {
	return atomic.LoadUint64(&a.mutations)
}

func (a *Attribute) mutate(op string, input any, fn func(raw Raw, input any) (Raw, error)) (Raw, error) {
	before, err := a.store.GetRaw()
	if err != nil {
		return 0, err
	}
	after, err := fn(before, input)
	if err == nil {
		err = a.store.SetRaw(after)
	}
	a.notify(op, before, after, err)
	if err != nil {
		return before, err
	}
	return after, nil
}

func (a *Attribute) notify(op string, before Raw, after Raw, err error) {
	if err == nil {
		atomic.AddUint64(&a.mutations, 1)
	}
	mutation := Mutation{
		Group:  a.codec.mapping.Name(),
		Op:     op,
		Before: before,
		After:  after,
		Err:    err,
	}
	for _, hook := range a.mutationHooks {
		hook.MutationHook(mutation)
	}
}
