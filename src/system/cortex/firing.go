package cortex

import (
	"github.com/voodooEntity/synapse/src/system/codec"
)

// Firing is the per-firing context the dispatcher assembles before it
// drives extraction. It replaces a thread scoped ambient slot with an
// explicit argument: every value the dispatcher produced for this one
// firing travels inside it, gets read by the matching words in
// declaration order and is thrown away afterwards. A Firing is owned by
// exactly one goroutine and must never be shared across firings.
type Firing struct {
	payload    []byte
	hasPayload bool
	source     *NetworkSource
	values     map[uint64]interface{}
	cache      *Cortex
	codec      *codec.Codec
}

func NewFiring(c *Cortex, cdc *codec.Codec) *Firing {
	return &Firing{
		cache: c,
		codec: cdc,
	}
}

// SetNetworkPayload deposits the raw received bytes for this firing.
func (f *Firing) SetNetworkPayload(raw []byte) {
	f.payload = raw
	f.hasPayload = true
}

func (f *Firing) NetworkPayload() ([]byte, bool) {
	return f.payload, f.hasPayload
}

// SetNetworkSource deposits the sender descriptor for this firing.
func (f *Firing) SetNetworkSource(source *NetworkSource) {
	f.source = source
}

func (f *Firing) NetworkSource() (*NetworkSource, bool) {
	if nil == f.source {
		return nil, false
	}
	return f.source, true
}

// SetValue deposits a locally emitted value under its type identity.
func (f *Firing) SetValue(id uint64, value interface{}) {
	if nil == f.values {
		f.values = make(map[uint64]interface{})
	}
	f.values[id] = value
}

func (f *Firing) Value(id uint64) (interface{}, bool) {
	if nil == f.values {
		return nil, false
	}
	v, ok := f.values[id]
	return v, ok
}

// Cached reads the most recent locally emitted value for an identity
// from the cortex cache. Used by auxiliary data words, which do not
// trigger but still want the latest known value at firing time.
func (f *Firing) Cached(id uint64) (interface{}, bool) {
	if nil == f.cache {
		return nil, false
	}
	return f.cache.CachedValue(id)
}

func (f *Firing) Codec() *codec.Codec {
	return f.codec
}
