package heap

import "unsafe"

// uintptrOf gives a stable integer proxy for a header's identity, used by
// DefaultHash's address-hashing fallback. husk never moves or compacts
// heap objects, so a header's address is stable for its lifetime.
func uintptrOf(h *Header) uintptr {
	return uintptr(unsafe.Pointer(h))
}
