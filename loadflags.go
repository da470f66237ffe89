package bitwise

type LoadFlag int

const (
	LoadNoPrime LoadFlag = 1 << iota // Don't prime the earlier layers with values resolved by a later layer
	LoadFirstOnly                     // Only ask the first layer
)

// check if the given flags is enabled
func hasLoadFlag(def LoadFlag, flags []LoadFlag, flag LoadFlag) bool {
	sum := def
	for _, f := range flags {
		sum = sum | f
	}
	return (sum & flag) == flag
}
