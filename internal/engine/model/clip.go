package model

import (
	mathx "github.com/lumina3d/avatarcore/pkg/math"
)

// LoopMode describes how a clip behaves when it reaches its end.
type LoopMode uint8

const (
	LoopOnce LoopMode = iota
	LoopRepeat
	LoopPingPong
)

// VecKey is a position or scale keyframe.
type VecKey struct {
	Time  float32
	Value mathx.Vec3
}

// QuatKey is a rotation keyframe.
type QuatKey struct {
	Time  float32
	Value mathx.Quat
}

// BoneTrack holds the keyframes of one clip for one named bone.
type BoneTrack struct {
	Bone      string
	PosKeys   []VecKey
	RotKeys   []QuatKey
	ScaleKeys []VecKey
}

// BonePose is a sampled local transform for one bone. The Has* flags mark
// which channels the track actually keys; unkeyed channels keep whatever
// value the bone already has.
type BonePose struct {
	Position mathx.Vec3
	Rotation mathx.Quat
	Scale    mathx.Vec3
	HasPos   bool
	HasRot   bool
	HasScale bool
}

// Clip is one named animation with per-bone keyframe tracks. Clips are
// immutable after loading and safe to share between model clones.
type Clip struct {
	Name     string
	Duration float32 // seconds
	Loop     LoopMode
	Tracks   []BoneTrack
}

// Sample evaluates every track at time t (seconds, already loop-mapped)
// and calls fn with each bone's pose.
func (c *Clip) Sample(t float32, fn func(bone string, pose BonePose)) {
	for i := range c.Tracks {
		tr := &c.Tracks[i]
		var pose BonePose
		if len(tr.PosKeys) > 0 {
			pose.Position = sampleVec(tr.PosKeys, t)
			pose.HasPos = true
		}
		if len(tr.RotKeys) > 0 {
			pose.Rotation = sampleQuat(tr.RotKeys, t)
			pose.HasRot = true
		}
		if len(tr.ScaleKeys) > 0 {
			pose.Scale = sampleVec(tr.ScaleKeys, t)
			pose.HasScale = true
		}
		fn(tr.Bone, pose)
	}
}

// LoopTime maps an elapsed time to a clip-local sample time according to the
// loop mode. For LoopOnce, times past the duration clamp to the end.
func (c *Clip) LoopTime(elapsed float32) float32 {
	d := c.Duration
	if d <= 0 {
		return 0
	}
	switch c.Loop {
	case LoopRepeat:
		t := elapsed
		for t >= d {
			t -= d
		}
		for t < 0 {
			t += d
		}
		return t
	case LoopPingPong:
		period := 2 * d
		t := elapsed
		for t >= period {
			t -= period
		}
		for t < 0 {
			t += period
		}
		if t > d {
			return period - t
		}
		return t
	default: // LoopOnce
		return mathx.Clamp(elapsed, 0, d)
	}
}

// Finished reports whether a one-shot clip has reached its end.
func (c *Clip) Finished(elapsed float32) bool {
	return c.Loop == LoopOnce && elapsed >= c.Duration
}

// sampleVec interpolates position/scale keyframes at time t.
// Keys are assumed sorted by time.
func sampleVec(keys []VecKey, t float32) mathx.Vec3 {
	if len(keys) == 1 {
		return keys[0].Value
	}

	prev, next := surrounding(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if prev == next {
		return keys[prev].Value
	}

	k0, k1 := keys[prev], keys[next]
	f := float32(0)
	if k1.Time != k0.Time {
		f = (t - k0.Time) / (k1.Time - k0.Time)
	}
	return k0.Value.Lerp(k1.Value, f)
}

// sampleQuat interpolates rotation keyframes at time t using slerp.
func sampleQuat(keys []QuatKey, t float32) mathx.Quat {
	if len(keys) == 1 {
		return keys[0].Value
	}

	prev, next := surrounding(len(keys), func(i int) float32 { return keys[i].Time }, t)
	if prev == next {
		return keys[prev].Value
	}

	k0, k1 := keys[prev], keys[next]
	f := float32(0)
	if k1.Time != k0.Time {
		f = (t - k0.Time) / (k1.Time - k0.Time)
	}
	return k0.Value.Slerp(k1.Value, f)
}

// surrounding finds the indices of the keyframes bracketing time t.
// Returns equal indices when t is at or past the last key.
func surrounding(n int, timeAt func(int) float32, t float32) (prev, next int) {
	for i := 0; i < n; i++ {
		if timeAt(i) > t {
			next = i
			return prev, next
		}
		prev = i
		next = i
	}
	return prev, next
}
