package vote

import (
	"errors"
	"fmt"
)

type Type string

const (
	Upvote   Type = "upvote"
	Downvote Type = "downvote"
	// None is reported for a user who has not voted.
	None Type = ""
)

var (
	ErrInvalidType   = errors.New("vote type must be upvote or downvote")
	ErrMissingVoter  = errors.New("vote user id is required")
	ErrDuplicateVote = errors.New("user has more than one vote")
)

func (t Type) Valid() bool {
	return t == Upvote || t == Downvote
}

type Vote struct {
	UserID   string `json:"user_id"`
	VoteType Type   `json:"vote_type"`
}

// Ledger holds at most one vote per user. Order carries no meaning.
type Ledger []Vote

type Tally struct {
	Upvotes   int `json:"upvotes"`
	Downvotes int `json:"downvotes"`
}

// Cast drops any previous vote of userID and records t. Voting the other way
// flips the vote; voting the same way again leaves a single entry.
func (l Ledger) Cast(userID string, t Type) Ledger {
	out := make(Ledger, 0, len(l)+1)
	for _, v := range l {
		if v.UserID != userID {
			out = append(out, v)
		}
	}
	return append(out, Vote{UserID: userID, VoteType: t})
}

// Validate checks the one-vote-per-user invariant that Cast maintains, for
// ledgers that arrive from outside (restores, raw saves).
func (l Ledger) Validate() error {
	seen := make(map[string]struct{}, len(l))
	for i, v := range l {
		if v.UserID == "" {
			return fmt.Errorf("vote %d: %w", i, ErrMissingVoter)
		}
		if !v.VoteType.Valid() {
			return fmt.Errorf("vote %d: %w: %q", i, ErrInvalidType, v.VoteType)
		}
		if _, dup := seen[v.UserID]; dup {
			return fmt.Errorf("vote %d: %w: %s", i, ErrDuplicateVote, v.UserID)
		}
		seen[v.UserID] = struct{}{}
	}
	return nil
}

func (l Ledger) Tally() Tally {
	var t Tally
	for _, v := range l {
		switch v.VoteType {
		case Upvote:
			t.Upvotes++
		case Downvote:
			t.Downvotes++
		}
	}
	return t
}

func (l Ledger) CurrentUserVote(userID string) Type {
	if userID == "" {
		return None
	}
	for _, v := range l {
		if v.UserID == userID {
			return v.VoteType
		}
	}
	return None
}
