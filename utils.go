package bitwise

// write the values from the source array into the destination array based on the given indexes
func mergeWithIndexes[T any](destination []T, source []T, indexes []int) {
	for i, dstIndex := range indexes {
		destination[dstIndex] = source[i]
	}
}

// set the elements in the destination array to zero
func setZero[T any](destination []T, indexes []int) {
	var zero T
	for _, dstIndex := range indexes {
		destination[dstIndex] = zero
	}
}

// extract an array from the original array using the given indexes
func extract[T any](source []T, indexes []int) []T {
	result := make([]T, len(indexes))
	for i, v := range indexes {
		result[i] = source[v]
	}
	return result
}

// generate a sequence of integers starting from 0
func generateSequence(count int) []int {
	arr := make([]int, count)
	for i := 0; i < count; i++ {
		arr[i] = i
	}
	return arr
}
