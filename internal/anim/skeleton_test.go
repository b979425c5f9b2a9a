package anim

import (
	"errors"
	"testing"
)

func TestNewSkeleton(t *testing.T) {
	joints := []Joint{
		{Name: "root", Parent: -1, Rest: IdentityTransform()},
		{Name: "spine", Parent: 0, Rest: IdentityTransform()},
		{Name: "head", Parent: 1, Rest: IdentityTransform()},
		{Name: "arm", Parent: 1, Rest: IdentityTransform()},
	}

	s, err := NewSkeleton(joints)
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}

	if s.NumJoints() != 4 {
		t.Errorf("NumJoints: got %d, want 4", s.NumJoints())
	}
	if s.Parent(0) != -1 {
		t.Errorf("root parent: got %d, want -1", s.Parent(0))
	}
	if s.Name(2) != "head" {
		t.Errorf("Name(2): got %q, want %q", s.Name(2), "head")
	}
	if i, ok := s.JointByName("arm"); !ok || i != 3 {
		t.Errorf("JointByName(arm): got (%d, %v), want (3, true)", i, ok)
	}
	if _, ok := s.JointByName("tail"); ok {
		t.Error("JointByName(tail) should not resolve")
	}
}

func TestNewSkeletonTopologicalInvariant(t *testing.T) {
	s, err := NewSkeleton([]Joint{
		{Name: "a", Parent: -1},
		{Name: "b", Parent: 0},
		{Name: "c", Parent: -1},
		{Name: "d", Parent: 2},
	})
	if err != nil {
		t.Fatalf("NewSkeleton: %v", err)
	}

	for i := 0; i < s.NumJoints(); i++ {
		if p := s.Parent(i); p != -1 && p >= i {
			t.Errorf("joint %d: parent %d violates parent-before-child order", i, p)
		}
	}
}

func TestNewSkeletonRejectsMalformed(t *testing.T) {
	tests := []struct {
		name   string
		joints []Joint
	}{
		{"empty", nil},
		{"self parent", []Joint{{Name: "a", Parent: 0}}},
		{"forward parent", []Joint{{Name: "a", Parent: -1}, {Name: "b", Parent: 2}, {Name: "c", Parent: -1}}},
		{"parent after child", []Joint{{Name: "a", Parent: 1}, {Name: "b", Parent: -1}}},
		{"parent below -1", []Joint{{Name: "a", Parent: -2}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSkeleton(tt.joints)
			if !errors.Is(err, ErrValidation) {
				t.Errorf("got err %v, want ErrValidation", err)
			}
			if s != nil {
				t.Error("failed build must not return a skeleton")
			}
		})
	}
}
