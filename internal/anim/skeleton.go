package anim

import "fmt"

// Joint describes one node of a hierarchy before packing. Parent is the
// index of the parent joint, or -1 for a root.
type Joint struct {
	Name   string
	Parent int
	Rest   Transform
}

// Skeleton is an immutable packed joint hierarchy. Joints are stored in
// topological order: every joint's parent has a strictly smaller index.
type Skeleton struct {
	names   []string
	parents []int
	rest    []Transform
	byName  map[string]int
}

// NewSkeleton validates a joint hierarchy and packs it into a Skeleton.
// The hierarchy must be non-empty and already ordered parent-before-child;
// a parent index out of range or not strictly less than its child's index
// fails validation. Nothing is retained from the input slice.
func NewSkeleton(joints []Joint) (*Skeleton, error) {
	if len(joints) == 0 {
		return nil, fmt.Errorf("%w: empty joint hierarchy", ErrValidation)
	}

	s := &Skeleton{
		names:   make([]string, len(joints)),
		parents: make([]int, len(joints)),
		rest:    make([]Transform, len(joints)),
		byName:  make(map[string]int, len(joints)),
	}

	for i, j := range joints {
		if j.Parent >= i {
			return nil, fmt.Errorf("%w: joint %d %q: parent index %d not before child", ErrValidation, i, j.Name, j.Parent)
		}
		if j.Parent < -1 {
			return nil, fmt.Errorf("%w: joint %d %q: parent index %d out of range", ErrValidation, i, j.Name, j.Parent)
		}
		s.names[i] = j.Name
		s.parents[i] = j.Parent
		s.rest[i] = j.Rest
		s.byName[j.Name] = i
	}

	return s, nil
}

// NumJoints returns the number of joints in the skeleton.
func (s *Skeleton) NumJoints() int {
	return len(s.parents)
}

// Parent returns the parent index of joint i, or -1 for a root.
func (s *Skeleton) Parent(i int) int {
	return s.parents[i]
}

// Name returns the name of joint i.
func (s *Skeleton) Name(i int) string {
	return s.names[i]
}

// RestPose returns the bind-local transform of joint i.
func (s *Skeleton) RestPose(i int) Transform {
	return s.rest[i]
}

// JointByName returns the index of the named joint.
func (s *Skeleton) JointByName(name string) (int, bool) {
	i, ok := s.byName[name]
	return i, ok
}
