package anim

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func twoJointSkeleton(t *testing.T) *Skeleton {
	t.Helper()
	s, err := NewSkeleton([]Joint{
		{Name: "root", Parent: -1, Rest: IdentityTransform()},
		{Name: "child", Parent: 0, Rest: IdentityTransform()},
	})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	return s
}

func TestNewAnimation(t *testing.T) {
	sk := twoJointSkeleton(t)

	tracks := []Track{
		{
			Translations: []TranslationKey{
				{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
				{Time: 1, Value: mgl32.Vec3{0, 1, 0}},
			},
		},
		{}, // unanimated joint
	}

	a, err := NewAnimation(sk, "walk", 1.0, tracks)
	if err != nil {
		t.Fatalf("NewAnimation: %v", err)
	}
	if a.Name() != "walk" {
		t.Errorf("Name: got %q, want %q", a.Name(), "walk")
	}
	if a.Duration() != 1.0 {
		t.Errorf("Duration: got %v, want 1.0", a.Duration())
	}
	if a.NumTracks() != 2 {
		t.Errorf("NumTracks: got %d, want 2", a.NumTracks())
	}
}

func TestNewAnimationRejectsInvalid(t *testing.T) {
	sk := twoJointSkeleton(t)
	emptyTracks := make([]Track, sk.NumJoints())

	tests := []struct {
		name     string
		duration float32
		tracks   []Track
	}{
		{"zero duration", 0, emptyTracks},
		{"negative duration", -1, emptyTracks},
		{"too few tracks", 1, make([]Track, 1)},
		{"too many tracks", 1, make([]Track, 3)},
		{"unsorted keys", 1, []Track{
			{Translations: []TranslationKey{{Time: 0.5}, {Time: 0.2}}},
			{},
		}},
		{"key past duration", 1, []Track{
			{Scales: []ScaleKey{{Time: 2.0, Value: mgl32.Vec3{1, 1, 1}}}},
			{},
		}},
		{"negative key time", 1, []Track{
			{Rotations: []RotationKey{{Time: -0.1, Value: mgl32.QuatIdent()}}},
			{},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, err := NewAnimation(sk, tt.name, tt.duration, tt.tracks)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("got err %v, want ErrValidation", err)
			}
			if a != nil {
				t.Error("failed build must not return an animation")
			}
		})
	}
}

func TestNewAnimationCopiesTracks(t *testing.T) {
	sk := twoJointSkeleton(t)

	tracks := []Track{
		{Translations: []TranslationKey{
			{Time: 0, Value: mgl32.Vec3{1, 0, 0}},
			{Time: 1, Value: mgl32.Vec3{1, 0, 0}},
		}},
		{},
	}
	a, err := NewAnimation(sk, "clip", 1.0, tracks)
	if err != nil {
		t.Fatalf("NewAnimation: %v", err)
	}

	// Mutating the caller's keys must not affect the packed animation.
	tracks[0].Translations[0].Value = mgl32.Vec3{99, 99, 99}

	locals := make([]Transform, sk.NumJoints())
	out := make([]mgl32.Mat4, sk.NumJoints())
	job := SamplingJob{
		Animation: a,
		Skeleton:  sk,
		Context:   NewContext(a.NumTracks()),
		Ratio:     0,
		Locals:    locals,
		Output:    out,
	}
	if err := job.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if got := locals[0].Translation; got != (mgl32.Vec3{1, 0, 0}) {
		t.Errorf("packed animation mutated through input slice: got %v", got)
	}
}
