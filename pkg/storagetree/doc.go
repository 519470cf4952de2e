// Package storagetree projects a volume's dataset hierarchy and its zvols
// into the ordered tree of presentation nodes rendered by the storage UI.
//
// A projection is a pure function of its inputs: it performs no I/O, does
// not log, and never mutates the datasets it walks. Node identifiers are
// synthetic, allocated in pre-order from a counter seeded at
// volume.ID*stride, and are valid only for the response that carries them.
package storagetree
