package anim

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// TranslationKey is a timed translation keyframe. Time is in seconds.
type TranslationKey struct {
	Time  float32
	Value mgl32.Vec3
}

// RotationKey is a timed rotation keyframe.
type RotationKey struct {
	Time  float32
	Value mgl32.Quat
}

// ScaleKey is a timed scale keyframe.
type ScaleKey struct {
	Time  float32
	Value mgl32.Vec3
}

// Track holds the independently-timed keyframe sequences of one joint.
// A channel with no keys evaluates to that channel's identity value
// (zero translation, identity rotation, unit scale); the other channels
// of the same track are unaffected.
type Track struct {
	Translations []TranslationKey
	Rotations    []RotationKey
	Scales       []ScaleKey
}

// Animation is an immutable packed clip: one track per skeleton joint,
// matched by index. Built once, then sampled by ratio without the
// original scene data.
type Animation struct {
	name     string
	duration float32
	tracks   []Track
}

// NewAnimation validates per-joint tracks against a skeleton and packs
// them into an Animation. Duration must be positive, the track count must
// equal the skeleton's joint count, and every channel's keys must be
// sorted by time within [0, duration]. All-or-nothing: a failed build
// returns nil.
func NewAnimation(skeleton *Skeleton, name string, duration float32, tracks []Track) (*Animation, error) {
	if skeleton == nil {
		return nil, fmt.Errorf("%w: animation %q: nil skeleton", ErrValidation, name)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: animation %q: duration %v not positive", ErrValidation, name, duration)
	}
	if len(tracks) != skeleton.NumJoints() {
		return nil, fmt.Errorf("%w: animation %q: %d tracks for %d joints", ErrValidation, name, len(tracks), skeleton.NumJoints())
	}

	packed := make([]Track, len(tracks))
	for i, t := range tracks {
		for k := 1; k < len(t.Translations); k++ {
			if t.Translations[k].Time < t.Translations[k-1].Time {
				return nil, fmt.Errorf("%w: animation %q: track %d translation keys unsorted", ErrValidation, name, i)
			}
		}
		for k := 1; k < len(t.Rotations); k++ {
			if t.Rotations[k].Time < t.Rotations[k-1].Time {
				return nil, fmt.Errorf("%w: animation %q: track %d rotation keys unsorted", ErrValidation, name, i)
			}
		}
		for k := 1; k < len(t.Scales); k++ {
			if t.Scales[k].Time < t.Scales[k-1].Time {
				return nil, fmt.Errorf("%w: animation %q: track %d scale keys unsorted", ErrValidation, name, i)
			}
		}
		if err := checkKeyRange(name, i, t, duration); err != nil {
			return nil, err
		}

		packed[i] = Track{
			Translations: append([]TranslationKey(nil), t.Translations...),
			Rotations:    append([]RotationKey(nil), t.Rotations...),
			Scales:       append([]ScaleKey(nil), t.Scales...),
		}
	}

	return &Animation{name: name, duration: duration, tracks: packed}, nil
}

func checkKeyRange(name string, track int, t Track, duration float32) error {
	outOfRange := func(time float32) bool { return time < 0 || time > duration }

	for _, k := range t.Translations {
		if outOfRange(k.Time) {
			return fmt.Errorf("%w: animation %q: track %d translation key at %v outside [0, %v]", ErrValidation, name, track, k.Time, duration)
		}
	}
	for _, k := range t.Rotations {
		if outOfRange(k.Time) {
			return fmt.Errorf("%w: animation %q: track %d rotation key at %v outside [0, %v]", ErrValidation, name, track, k.Time, duration)
		}
	}
	for _, k := range t.Scales {
		if outOfRange(k.Time) {
			return fmt.Errorf("%w: animation %q: track %d scale key at %v outside [0, %v]", ErrValidation, name, track, k.Time, duration)
		}
	}
	return nil
}

// Name returns the clip name.
func (a *Animation) Name() string {
	return a.name
}

// Duration returns the clip length in seconds.
func (a *Animation) Duration() float32 {
	return a.duration
}

// NumTracks returns the number of per-joint tracks.
func (a *Animation) NumTracks() int {
	return len(a.tracks)
}
