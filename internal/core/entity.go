package core

import "strconv"

// EntityID is a stable handle for every simulated record: structures, modules,
// projectiles and agents share one id space so the physics adapter and the
// collision feed can refer to any of them with a single integer.
// The zero value means "no entity".
type EntityID uint64

// NoEntity is the zero handle.
const NoEntity EntityID = 0

// Valid reports whether the id refers to an entity.
func (id EntityID) Valid() bool {
	return id != NoEntity
}

// String returns the id as a decimal string prefixed with '#'.
func (id EntityID) String() string {
	return "#" + strconv.FormatUint(uint64(id), 10)
}
