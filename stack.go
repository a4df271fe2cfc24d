package ldexpand

// RemoteContextLimit is the maximum number of remote contexts that can be
// dereferenced while processing a single chain of nested contexts.
const RemoteContextLimit = 10

// processingStack records the remote contexts that are being dereferenced on
// the current path through context processing.
//
// It is immutable: push returns a new stack sharing its tail with the
// receiver. The nil value is the empty stack.
type processingStack struct {
	parent *processingStack
	iri    string
	depth  int
}

// push adds iri to the stack. It returns false, and the unchanged receiver, if
// iri is already on the stack.
func (s *processingStack) push(iri string) (*processingStack, bool) {
	if s.contains(iri) {
		return s, false
	}

	return &processingStack{
		parent: s,
		iri:    iri,
		depth:  s.len() + 1,
	}, true
}

func (s *processingStack) contains(iri string) bool {
	for n := s; n != nil; n = n.parent {
		if n.iri == iri {
			return true
		}
	}
	return false
}

func (s *processingStack) isEmpty() bool {
	return s == nil
}

func (s *processingStack) len() int {
	if s == nil {
		return 0
	}
	return s.depth
}

// iris returns the stack contents, the most recently pushed entry first.
func (s *processingStack) iris() []string {
	res := make([]string, 0, s.len())
	for n := s; n != nil; n = n.parent {
		res = append(res, n.iri)
	}
	return res
}
