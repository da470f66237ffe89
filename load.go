package bitwise

// Load the raw value of a record
func (r *Repository[TKey]) Load(key TKey, flags ...LoadFlag) (Raw, error) {
	values, errors := r.LoadAll([]TKey{key}, flags...)
	return values[0], errors[0]
}

// Load the raw values of a set of records and prime the layers with the values resolved by the next layer.
// The errors returned are the ones of the last layer that was asked for the key
func (r *Repository[TKey]) LoadAll(keys []TKey, flags ...LoadFlag) ([]Raw, []error) {
	var keysCount = len(keys)
	var result = make([]Raw, keysCount)  // array containing the final result of values
	var errors = make([]error, keysCount) // array containing errors for each keys

	var resultIndexes = generateSequence(keysCount) // an array of indexes from the current layer's array to the original result array
	var layerKeys = keys                            // set of keys to be resolved by the current layer

	var traceID uint64 = r.getTraceID()
	var prime = !hasLoadFlag(r.defaultLoadFlags, flags, LoadNoPrime)
	var layers = r.layers
	if hasLoadFlag(r.defaultLoadFlags, flags, LoadFirstOnly) {
		layers = layers[:1]
	}

	for _, hook := range r.preLoadHooks {
		hook.PreLoadHook(traceID, keys)
	}

	// iterate over all layers from the beginning to the end
	// if any of the keys are unresolved, try resolving them from the next layer
	for layerIndex, layer := range layers {
		if len(layerKeys) == 0 {
			break
		}

		for _, hook := range r.layerPreLoadHooks {
			hook.LayerPreLoadHook(traceID, layerIndex, layerKeys)
		}

		layerResult, layerErrors := layer.Get(layerKeys)

		for _, hook := range r.layerPostLoadHooks {
			hook.LayerPostLoadHook(traceID, layerIndex, layerKeys, layerResult, layerErrors)
		}

		resolvedIndexes, resolvedKeys, resolvedValues, unresolvedIndexes, unresolvedKeys, unresolvedErrors := group(layerKeys, layerResult, layerErrors)

		if len(resolvedKeys) > 0 {
			resolvedResultIndexes := extract(resultIndexes, resolvedIndexes)

			// merge the resolved values to the result
			mergeWithIndexes(result, resolvedValues, resolvedResultIndexes)

			// clear all errors from previous layers
			setZero(errors, resolvedResultIndexes)

			// prime the values on the previous layers
			if prime && layerIndex > 0 {
				for i := layerIndex - 1; i >= 0; i-- {
					r.layerSet(traceID, i, resolvedKeys, resolvedValues)
				}
			}
		}

		unresolvedResultIndexes := extract(resultIndexes, unresolvedIndexes)
		mergeWithIndexes(errors, unresolvedErrors, unresolvedResultIndexes)

		// load the unresolved keys from the next layer
		layerKeys = unresolvedKeys
		resultIndexes = unresolvedResultIndexes
	}

	for _, hook := range r.postLoadHooks {
		hook.PostLoadHook(traceID, keys, result, errors)
	}

	return result, errors
}

// split a layer result into resolved and unresolved keys
func group[TKey comparable](keys []TKey, values []Raw, errors []error) (
	[]int,
	[]TKey,
	[]Raw,
	[]int,
	[]TKey,
	[]error,
) {
	resolvedIndexes := make([]int, 0, len(keys))
	resolvedKeys := make([]TKey, 0, len(keys))
	resolvedValues := make([]Raw, 0, len(keys))
	unresolvedIndexes := make([]int, 0)
	unresolvedKeys := make([]TKey, 0)
	unresolvedErrors := make([]error, 0)
	for i := range keys {
		if len(errors) == 0 || errors[i] == nil {
			resolvedIndexes = append(resolvedIndexes, i)
			resolvedKeys = append(resolvedKeys, keys[i])
			resolvedValues = append(resolvedValues, values[i])
		} else {
			unresolvedIndexes = append(unresolvedIndexes, i)
			unresolvedKeys = append(unresolvedKeys, keys[i])
			unresolvedErrors = append(unresolvedErrors, errors[i])
		}
	}
	return resolvedIndexes, resolvedKeys, resolvedValues, unresolvedIndexes, unresolvedKeys, unresolvedErrors
}
