package nfa

import "github.com/coregx/lexer/internal/conv"

// Builder assembles an NFA's state arena incrementally using Thompson
// construction: each combinator (concatenation, alternation, `?`, `*`,
// `+`) appends states for its operand(s) and leaves some of those
// states' transitions dangling — pointing at the InvalidState
// placeholder — to be resolved later with Patch once the next
// fragment's start is known.
//
// This mirrors the teacher's low-level Builder (AddByteRange / AddSplit
// / Patch) with the byte machinery replaced by rune ranges, since this
// package has no UTF-8-splitting states to construct.
type Builder struct {
	states []State
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{states: make([]State, 0, 16)}
}

// AddRange appends a labeled-transition state that consumes one code
// point covered by ranges and advances to target.
func (b *Builder) AddRange(ranges []Range, target StateID) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	rs := make([]Range, len(ranges))
	copy(rs, ranges)
	b.states = append(b.states, State{Ranges: rs, Target: target})
	return id
}

// AddSplit appends a branch state with the given ordered ε-transitions
// (alternation between two or more alternatives, or a quantifier's
// take-the-loop/skip-the-loop choice).
func (b *Builder) AddSplit(targets ...StateID) StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	eps := make([]StateID, len(targets))
	copy(eps, targets)
	b.states = append(b.states, State{Epsilon: eps})
	return id
}

// AddAccept appends a terminal accepting state with no outgoing
// transitions.
func (b *Builder) AddAccept() StateID {
	id := StateID(conv.IntToUint32(len(b.states)))
	b.states = append(b.states, State{Accept: true})
	return id
}

// Patch rewrites every transition of state id that currently points at
// from so that it points at to instead. Thompson construction leaves
// exactly this kind of forward reference dangling — a fragment doesn't
// know where its successor will land in the arena until that successor
// is actually appended.
func (b *Builder) Patch(id StateID, from, to StateID) {
	s := &b.states[id]
	if len(s.Ranges) > 0 && s.Target == from {
		s.Target = to
	}
	for i, eps := range s.Epsilon {
		if eps == from {
			s.Epsilon[i] = to
		}
	}
}

// PatchAll patches every state id in dangling, redirecting their
// InvalidState placeholder transition to to. Thompson construction
// tracks a fragment's unresolved exits as a list of these ids rather
// than a single one, since alternation and the `?`/`*` quantifiers can
// all leave more than one transition pointing nowhere yet.
func (b *Builder) PatchAll(dangling []StateID, to StateID) {
	for _, id := range dangling {
		b.Patch(id, InvalidState, to)
	}
}

// Build finalizes construction, validating that every transition target
// is in range and at least one state accepts. A failure here is always
// a bug in this package's compiler, not caller input.
func (b *Builder) Build(start StateID) (*NFA, error) {
	n := len(b.states)
	if int(start) >= n {
		return nil, &BuildError{Message: "start state out of range", StateID: start}
	}
	acceptFound := false
	for i := range b.states {
		s := &b.states[i]
		if s.Accept {
			acceptFound = true
		}
		if len(s.Ranges) > 0 && (s.Target == InvalidState || int(s.Target) >= n) {
			return nil, &BuildError{Message: "dangling labeled transition", StateID: StateID(i)}
		}
		for _, eps := range s.Epsilon {
			if eps == InvalidState || int(eps) >= n {
				return nil, &BuildError{Message: "dangling epsilon transition", StateID: StateID(i)}
			}
		}
	}
	if !acceptFound {
		return nil, &BuildError{Message: "no accepting state", StateID: InvalidState}
	}
	return New(b.states, start), nil
}
