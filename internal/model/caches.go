package model

// EncoderCaches bundles the five per-session cache tensors the streaming
// encoder carries across chunks. Spec design notes (§9) call these out as
// "semantically a single named record": grouping them here means a session
// can only ever replace all five at once, by assigning a freshly
// constructed EncoderCaches value — there is no field-by-field mutation API,
// so a partial swap is impossible by construction.
type EncoderCaches struct {
	PreCache       Tensor    // [1, 128, pre_cache_frames]
	LastChannel    Tensor    // [17, 1, 70, 512]
	LastTime       Tensor    // [17, 1, 512, 8]
	LastChannelLen IntTensor // [1]
}

// NewEncoderCaches builds zero-initialized caches shaped for the profile.
func NewEncoderCaches(profile ChunkProfile) EncoderCaches {
	return EncoderCaches{
		PreCache:       NewTensor(1, 128, profile.PreCacheFrames),
		LastChannel:    NewTensor(17, 1, 70, 512),
		LastTime:       NewTensor(17, 1, 512, 8),
		LastChannelLen: NewIntTensor(1),
	}
}

// Clone deep-copies every tensor, used to build the "new" side of a swap
// before the old caches are discarded.
func (c EncoderCaches) Clone() EncoderCaches {
	return EncoderCaches{
		PreCache:       c.PreCache.Clone(),
		LastChannel:    c.LastChannel.Clone(),
		LastTime:       c.LastTime.Clone(),
		LastChannelLen: c.LastChannelLen.Clone(),
	}
}

// ShapesMatch reports whether every tensor in c has the shape the profile
// mandates — used to assert the §8 invariant that cache shapes never change
// across a session's lifetime.
func (c EncoderCaches) ShapesMatch(profile ChunkProfile) bool {
	want := NewEncoderCaches(profile)
	return c.PreCache.SameShape(want.PreCache) &&
		c.LastChannel.SameShape(want.LastChannel) &&
		c.LastTime.SameShape(want.LastTime) &&
		Tensor{Shape: c.LastChannelLen.Shape}.SameShape(Tensor{Shape: want.LastChannelLen.Shape})
}
