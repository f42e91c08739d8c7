package domain

import "fmt"

// PairState is the explicit friend-request state for an unordered user pair.
// Exactly one state holds at any time; it is derived from the pair's friends
// and pendingRequests sets in one place (PairStateOf) and changed only by the
// transition functions below, so the four membership checks never drift apart
// across operations.
type PairState int

const (
	// Unrelated: no friendship and no pending request in either direction.
	Unrelated PairState = iota
	// PendingAtoB: A has requested B; B holds A in pendingRequests.
	PendingAtoB
	// PendingBtoA: B has requested A; A holds B in pendingRequests.
	PendingBtoA
	// Friends: both hold each other in friends.
	Friends
)

func (s PairState) String() string {
	switch s {
	case Unrelated:
		return "unrelated"
	case PendingAtoB:
		return "pending_a_to_b"
	case PendingBtoA:
		return "pending_b_to_a"
	case Friends:
		return "friends"
	default:
		return fmt.Sprintf("PairState(%d)", int(s))
	}
}

// PairStateOf derives the current state for the pair {a, b}.
// Friendship wins over pending entries: a stray pending entry alongside an
// established friendship is a document defect the transitions below clean up.
func PairStateOf(a, b *User) PairState {
	switch {
	case containsID(a.Friends, b.ID) || containsID(b.Friends, a.ID):
		return Friends
	case containsID(b.PendingRequests, a.ID):
		return PendingAtoB
	case containsID(a.PendingRequests, b.ID):
		return PendingBtoA
	default:
		return Unrelated
	}
}

// RequestFriendship applies the "send friend request" transition for
// sender -> receiver and returns the resulting state.
//
//   - Friends        -> ErrAlreadyFriends
//   - already sent   -> ErrRequestAlreadySent
//   - reverse pending-> auto-accept: whoever sends second completes the
//     handshake instead of creating a conflicting second pending entry
//   - Unrelated      -> record sender on the receiver's pendingRequests
func RequestFriendship(sender, receiver *User) (PairState, error) {
	switch PairStateOf(sender, receiver) {
	case Friends:
		return Friends, ErrAlreadyFriends
	case PendingAtoB:
		return PendingAtoB, ErrRequestAlreadySent
	case PendingBtoA:
		return AcceptFriendship(receiver, sender)
	default:
		receiver.PendingRequests = appendID(receiver.PendingRequests, sender.ID)
		return PendingAtoB, nil
	}
}

// AcceptFriendship applies the "accept friend request" transition for the
// request sender -> receiver. Requires the pair to be in PendingAtoB.
// Both pendingRequests entries are cleared: the reciprocal one should not
// exist, but if a past document revision left one behind, it is removed here.
func AcceptFriendship(sender, receiver *User) (PairState, error) {
	if !containsID(receiver.PendingRequests, sender.ID) {
		return PairStateOf(sender, receiver), ErrNoPendingRequest
	}
	receiver.PendingRequests = removeID(receiver.PendingRequests, sender.ID)
	sender.PendingRequests = removeID(sender.PendingRequests, receiver.ID)
	sender.Friends = appendID(sender.Friends, receiver.ID)
	receiver.Friends = appendID(receiver.Friends, sender.ID)
	return Friends, nil
}

// DenyFriendship applies the "deny friend request" transition for the
// request sender -> receiver. Requires the pair to be in PendingAtoB.
func DenyFriendship(sender, receiver *User) (PairState, error) {
	if !containsID(receiver.PendingRequests, sender.ID) {
		return PairStateOf(sender, receiver), ErrNoPendingRequest
	}
	receiver.PendingRequests = removeID(receiver.PendingRequests, sender.ID)
	sender.PendingRequests = removeID(sender.PendingRequests, receiver.ID)
	return Unrelated, nil
}

// EndFriendship removes each user from the other's friends set. Removing a
// non-member is a no-op, which makes the operation idempotent; there is no
// precondition that the pair were friends.
func EndFriendship(a, b *User) PairState {
	a.Friends = removeID(a.Friends, b.ID)
	b.Friends = removeID(b.Friends, a.ID)
	return PairStateOf(a, b)
}

func containsID(set []UserID, id UserID) bool {
	for _, v := range set {
		if v == id {
			return true
		}
	}
	return false
}

// appendID adds id to the set unless already present.
func appendID(set []UserID, id UserID) []UserID {
	if containsID(set, id) {
		return set
	}
	return append(set, id)
}

// removeID removes one occurrence of id; absent id leaves the set unchanged.
func removeID(set []UserID, id UserID) []UserID {
	for i, v := range set {
		if v == id {
			return append(set[:i], set[i+1:]...)
		}
	}
	return set
}
