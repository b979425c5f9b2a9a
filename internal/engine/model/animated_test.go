package model

import (
	"errors"
	"testing"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/Faultbox/skelview/internal/anim"
)

const epsilon = 1e-5

func near(a, b float32) bool {
	d := a - b
	if d < 0 {
		d = -d
	}
	return d < epsilon
}

// twoJointModel builds a root+child skeleton with identity bind pose
// and no clips.
func twoJointModel(t *testing.T) *AnimatedModel {
	t.Helper()

	sk, err := anim.NewSkeleton([]anim.Joint{
		{Name: "root", Parent: -1, Rest: anim.IdentityTransform()},
		{Name: "child", Parent: 0, Rest: anim.IdentityTransform()},
	})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}

	inv := []mgl32.Mat4{mgl32.Ident4(), mgl32.Ident4()}
	m, err := NewAnimatedModel(sk, inv)
	if err != nil {
		t.Fatalf("NewAnimatedModel: %v", err)
	}
	return m
}

// liftClip returns a clip named name of the given duration that moves
// the root from y=0 to y=1 over its length.
func liftClip(t *testing.T, m *AnimatedModel, name string, duration float32) *anim.Animation {
	t.Helper()

	sk, err := anim.NewSkeleton([]anim.Joint{
		{Name: "root", Parent: -1, Rest: anim.IdentityTransform()},
		{Name: "child", Parent: 0, Rest: anim.IdentityTransform()},
	})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}

	tracks := make([]anim.Track, 2)
	tracks[0].Translations = []anim.TranslationKey{
		{Time: 0, Value: mgl32.Vec3{0, 0, 0}},
		{Time: duration, Value: mgl32.Vec3{0, 1, 0}},
	}

	a, err := anim.NewAnimation(sk, name, duration, tracks)
	if err != nil {
		t.Fatalf("NewAnimation: %v", err)
	}
	return a
}

func TestBoneMatricesIdentityBeforeSelection(t *testing.T) {
	m := twoJointModel(t)

	for i, mat := range m.BoneMatrices() {
		if mat != mgl32.Ident4() {
			t.Errorf("palette[%d] = %v, want identity", i, mat)
		}
	}
	if _, ok := m.CurrentAnimation(); ok {
		t.Error("fresh model reports a selected animation")
	}
}

func TestAdvanceWithoutSelectionIsNoop(t *testing.T) {
	m := twoJointModel(t)
	if err := m.AddAnimation(liftClip(t, m, "lift", 2)); err != nil {
		t.Fatalf("AddAnimation: %v", err)
	}

	if err := m.Advance(0.5); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if m.Clock() != 0 {
		t.Errorf("clock = %v, want 0", m.Clock())
	}
	if m.BoneMatrices()[0] != mgl32.Ident4() {
		t.Error("palette changed without a selected animation")
	}
}

func TestAdvanceWraps(t *testing.T) {
	m := twoJointModel(t)
	if err := m.AddAnimation(liftClip(t, m, "lift", 2)); err != nil {
		t.Fatalf("AddAnimation: %v", err)
	}
	if err := m.SelectAnimation("lift"); err != nil {
		t.Fatalf("SelectAnimation: %v", err)
	}

	// 1.2 + 1.2 = 2.4 wraps to 0.4 within a 2s clip.
	if err := m.Advance(1.2); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if err := m.Advance(1.2); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !near(m.Clock(), 0.4) {
		t.Errorf("clock = %v, want 0.4", m.Clock())
	}

	// Root palette should carry the interpolated translation
	// (identity bind pose, so palette == model-space).
	y := m.BoneMatrices()[0][13]
	if !near(y, 0.2) {
		t.Errorf("root palette y = %v, want 0.2", y)
	}
}

func TestAdvanceNegativeDeltaWraps(t *testing.T) {
	m := twoJointModel(t)
	if err := m.AddAnimation(liftClip(t, m, "lift", 2)); err != nil {
		t.Fatalf("AddAnimation: %v", err)
	}
	if err := m.SelectAnimation("lift"); err != nil {
		t.Fatalf("SelectAnimation: %v", err)
	}

	if err := m.Advance(-0.5); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !near(m.Clock(), 1.5) {
		t.Errorf("clock = %v, want 1.5", m.Clock())
	}
}

func TestSelectResetsClock(t *testing.T) {
	m := twoJointModel(t)
	if err := m.AddAnimation(liftClip(t, m, "a", 2)); err != nil {
		t.Fatalf("AddAnimation: %v", err)
	}
	if err := m.AddAnimation(liftClip(t, m, "b", 3)); err != nil {
		t.Fatalf("AddAnimation: %v", err)
	}

	if err := m.SelectAnimation("a"); err != nil {
		t.Fatalf("SelectAnimation: %v", err)
	}
	if err := m.Advance(1.5); err != nil {
		t.Fatalf("Advance: %v", err)
	}
	if !near(m.Clock(), 1.5) {
		t.Fatalf("clock = %v, want 1.5", m.Clock())
	}

	// Re-selecting, even the same clip, is a hard cut back to zero.
	if err := m.SelectAnimation("b"); err != nil {
		t.Fatalf("SelectAnimation: %v", err)
	}
	if m.Clock() != 0 {
		t.Errorf("clock = %v after switch, want 0", m.Clock())
	}
	if name, _ := m.CurrentAnimation(); name != "b" {
		t.Errorf("current = %q, want b", name)
	}
}

func TestSelectUnknownLeavesStateUntouched(t *testing.T) {
	m := twoJointModel(t)
	if err := m.AddAnimation(liftClip(t, m, "a", 2)); err != nil {
		t.Fatalf("AddAnimation: %v", err)
	}
	if err := m.SelectAnimation("a"); err != nil {
		t.Fatalf("SelectAnimation: %v", err)
	}
	if err := m.Advance(0.7); err != nil {
		t.Fatalf("Advance: %v", err)
	}

	err := m.SelectAnimation("missing")
	if !errors.Is(err, anim.ErrLookup) {
		t.Fatalf("err = %v, want ErrLookup", err)
	}
	if name, _ := m.CurrentAnimation(); name != "a" {
		t.Errorf("current = %q, want a", name)
	}
	if !near(m.Clock(), 0.7) {
		t.Errorf("clock = %v, want 0.7", m.Clock())
	}

	err = m.SelectAnimationIndex(5)
	if !errors.Is(err, anim.ErrLookup) {
		t.Fatalf("index err = %v, want ErrLookup", err)
	}
	if !near(m.Clock(), 0.7) {
		t.Errorf("clock = %v after bad index, want 0.7", m.Clock())
	}
}

func TestAddAnimationRejectsMismatchedSkeleton(t *testing.T) {
	m := twoJointModel(t)

	single, err := anim.NewSkeleton([]anim.Joint{
		{Name: "root", Parent: -1, Rest: anim.IdentityTransform()},
	})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}
	a, err := anim.NewAnimation(single, "solo", 1, make([]anim.Track, 1))
	if err != nil {
		t.Fatalf("NewAnimation: %v", err)
	}

	if err := m.AddAnimation(a); !errors.Is(err, anim.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestAddAnimationRejectsDuplicateName(t *testing.T) {
	m := twoJointModel(t)
	if err := m.AddAnimation(liftClip(t, m, "walk", 2)); err != nil {
		t.Fatalf("AddAnimation: %v", err)
	}
	if err := m.AddAnimation(liftClip(t, m, "walk", 3)); !errors.Is(err, anim.ErrValidation) {
		t.Fatalf("err = %v, want ErrValidation", err)
	}
}

func TestNewAnimatedModelValidation(t *testing.T) {
	sk, err := anim.NewSkeleton([]anim.Joint{
		{Name: "root", Parent: -1, Rest: anim.IdentityTransform()},
	})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}

	if _, err := NewAnimatedModel(nil, nil); !errors.Is(err, anim.ErrValidation) {
		t.Errorf("nil skeleton: err = %v, want ErrValidation", err)
	}
	if _, err := NewAnimatedModel(sk, []mgl32.Mat4{}); !errors.Is(err, anim.ErrValidation) {
		t.Errorf("missing bind matrices: err = %v, want ErrValidation", err)
	}
}
