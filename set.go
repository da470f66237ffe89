package bitwise

import "sync"

// Set the raw value of a record on all of the layers, returns the first layer error
func (r *Repository[TKey]) Set(key TKey, value Raw, flags ...SetFlag) error {
	for _, layerErrors := range r.SetAll([]TKey{key}, []Raw{value}, flags...) {
		if len(layerErrors) > 0 && layerErrors[0] != nil {
			return layerErrors[0]
		}
	}
	return nil
}

// Set a set of raw values to all of the layers
// Returns an array of array of errors with the first dimension as the layer and second dimension as the key
func (r *Repository[TKey]) SetAll(keys []TKey, values []Raw, flags ...SetFlag) [][]error {
	var traceID uint64 = r.getTraceID()
	var errors = make([][]error, len(r.layers))

	for _, hook := range r.preSetHooks {
		hook.PreSetHook(traceID, keys, values)
	}

	if hasSetFlag(r.defaultSetFlags, flags, SetSequential) {
		for _, layerIndex := range r.sequentialOrder(hasSetFlag(r.defaultSetFlags, flags, SetAscending)) {
			errors[layerIndex] = r.layerSet(traceID, layerIndex, keys, values)
		}
	} else {
		wg := sync.WaitGroup{}
		wg.Add(len(r.layers))
		for layerIndex := range r.layers {
			capturedLayerIndex := layerIndex
			go func() {
				defer wg.Done()
				errors[capturedLayerIndex] = r.layerSet(traceID, capturedLayerIndex, keys, values)
			}()
		}
		wg.Wait()
	}

	for _, hook := range r.postSetHooks {
		hook.PostSetHook(traceID, keys, values, errors)
	}

	return errors
}

// layer indexes for a sequential set, from the last layer to the first unless ascending
func (r *Repository[TKey]) sequentialOrder(ascending bool) []int {
	order := generateSequence(len(r.layers))
	if !ascending {
		for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
			order[i], order[j] = order[j], order[i]
		}
	}
	return order
}

func (r *Repository[TKey]) layerSet(traceID uint64, layerIndex int, keys []TKey, values []Raw) []error {
	layer := r.layers[layerIndex]

	for _, hook := range r.layerPreSetHooks {
		hook.LayerPreSetHook(traceID, layerIndex, keys, values)
	}

	errors := layer.Set(keys, values)

	for _, hook := range r.layerPostSetHooks {
		hook.LayerPostSetHook(traceID, layerIndex, keys, values, errors)
	}

	return errors
}
