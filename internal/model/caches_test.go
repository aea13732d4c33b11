package model

import "testing"

func TestNewEncoderCaches_ShapesMatchProfile(t *testing.T) {
	for _, p := range []ChunkProfile{ShortProfile, MediumProfile, LongProfile} {
		c := NewEncoderCaches(p)
		if !c.ShapesMatch(p) {
			t.Errorf("%s: freshly constructed caches do not match their own profile shapes", p.Name)
		}
	}
}

func TestEncoderCaches_Clone_IsIndependent(t *testing.T) {
	c := NewEncoderCaches(ShortProfile)
	c.PreCache.Data[0] = 1
	clone := c.Clone()
	clone.PreCache.Data[0] = 2
	if c.PreCache.Data[0] != 1 {
		t.Fatalf("mutating clone affected original")
	}
}

func TestEncoderCaches_ShapesMatch_DetectsMismatch(t *testing.T) {
	c := NewEncoderCaches(ShortProfile)
	if c.ShapesMatch(MediumProfile) {
		t.Fatal("expected short-profile caches to mismatch medium profile shapes")
	}
}
