package nfa

import "github.com/coregx/lexer/internal/bitset"

// StateID identifies a state within an NFA's arena. The start state is
// the id recorded alongside the arena (see New); it is not necessarily
// state 0.
type StateID uint32

// InvalidState marks an unset or not-yet-patched transition target.
const InvalidState StateID = 0xFFFFFFFF

// Range is a closed interval [Lo, Hi] of Unicode code points, inclusive
// on both ends.
type Range struct {
	Lo, Hi rune
}

// Contains reports whether c falls within the range.
func (r Range) Contains(c rune) bool {
	return c >= r.Lo && c <= r.Hi
}

// State is one node of the NFA: either a labeled transition (a
// range-list consumed on one code point, advancing to a single target)
// or a branch node (one or more ε-transitions, taken without consuming
// input), and independently may be marked accepting.
//
// A state never mixes a labeled transition with ε-targets: Thompson
// construction only ever needs "consume and go to one place" or
// "branch to one or more places for free" (an alternation's split has
// one ε-target per alternative).
type State struct {
	Accept  bool
	Ranges  []Range   // non-nil only for a labeled-transition state
	Target  StateID   // target of the labeled transition
	Epsilon []StateID // ε-transition targets, in order
}

// transitionFor returns the target state reached by consuming c from
// this state's labeled transition, or (InvalidState, false) if c isn't
// covered by any of its ranges.
func (s *State) transitionFor(c rune) (StateID, bool) {
	for _, r := range s.Ranges {
		if r.Contains(c) {
			return s.Target, true
		}
	}
	return InvalidState, false
}

// NFA is an immutable, arena-indexed nondeterministic finite automaton.
// It is safe to share by reference across many Lexers: simulation never
// mutates the state vector, only the caller-owned ExecutionState.
type NFA struct {
	states []State
	start  StateID
}

// New wraps a finished state vector produced by a Builder together with
// its start state. Thompson construction builds fragments bottom-up, so
// the overall start state is rarely state 0 — alternation and
// concatenation both append their sub-fragments' states before the
// combinator's own state — so the start id must travel alongside the
// arena rather than being assumed.
func New(states []State, start StateID) *NFA {
	return &NFA{states: states, start: start}
}

// NumStates returns the number of states in the arena, i.e. the
// capacity an ExecutionState's bit sets need.
func (n *NFA) NumStates() int {
	return len(n.states)
}

// HasAccept reports whether any member of set is an accepting state.
func (n *NFA) HasAccept(set *bitset.StateSet) bool {
	for _, id := range set.Members() {
		if n.states[id].Accept {
			return true
		}
	}
	return false
}

// IsDead reports whether set has no members — simulation can never
// produce a match by continuing from here.
func (n *NFA) IsDead(set *bitset.StateSet) bool {
	return set.IsEmpty()
}

// ExecutionState is the per-rule scratch state the simulator steps
// through. It is allocated once per rule per Lexer and reused across
// every token and every reset.
type ExecutionState struct {
	Current *bitset.StateSet
	Next    *bitset.StateSet
	visited *bitset.StateSet // ε-closure recursion guard, reused across calls
}

// NewExecutionState allocates scratch state sized for this NFA.
func (n *NFA) NewExecutionState() *ExecutionState {
	size := len(n.states)
	return &ExecutionState{
		Current: bitset.New(size),
		Next:    bitset.New(size),
		visited: bitset.New(size),
	}
}

// Initialize resets set to the ε-closure of the start state.
func (n *NFA) Initialize(set *bitset.StateSet, visited *bitset.StateSet) {
	set.Clear()
	visited.Clear()
	n.addState(set, visited, n.start)
}

// Step advances from the active set current by consuming code point c,
// writing the resulting ε-closed active set into next. next is cleared
// first; current and next must not alias the same set.
func (n *NFA) Step(current *bitset.StateSet, c rune, next *bitset.StateSet, visited *bitset.StateSet) {
	next.Clear()
	visited.Clear()

	for _, id := range current.Members() {
		if target, ok := n.states[id].transitionFor(c); ok {
			n.addState(next, visited, target)
		}
	}
}

// addState computes the ε-closure of state idx into set: idx itself is
// inserted only if it is accepting or has a labeled transition (pure
// branch states are never members — they produce no observable
// behavior on the next step, so admitting them would only bloat
// enumeration). visited guards the recursion against ε-cycles among
// branch-only states; well-formed Thompson construction never produces
// one, but the guard is cheap insurance regardless of how the NFA was
// assembled.
func (n *NFA) addState(set *bitset.StateSet, visited *bitset.StateSet, idx StateID) {
	if visited.Contains(uint32(idx)) {
		return
	}
	visited.Insert(uint32(idx))

	s := &n.states[idx]
	if s.Accept || len(s.Ranges) > 0 {
		set.Insert(uint32(idx))
	}

	for _, eps := range s.Epsilon {
		n.addState(set, visited, eps)
	}
}

// LongestMatch returns the length, in code points, of the longest
// prefix of input this NFA accepts starting at its current position,
// or (0, false) if no prefix (including the empty one) is accepted.
// state is reinitialized at the start of every call, so it may be
// reused freely across unrelated positions.
func (n *NFA) LongestMatch(input string, state *ExecutionState) (int, bool) {
	n.Initialize(state.Current, state.visited)

	var (
		bestLen   int
		bestFound bool
	)
	if n.HasAccept(state.Current) {
		bestLen, bestFound = 0, true
	}

	length := 0
	for _, c := range input {
		n.Step(state.Current, c, state.Next, state.visited)
		length++

		if n.HasAccept(state.Next) {
			bestLen, bestFound = length, true
		} else if n.IsDead(state.Next) {
			break
		}

		state.Current, state.Next = state.Next, state.Current
	}

	return bestLen, bestFound
}
