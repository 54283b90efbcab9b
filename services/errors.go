// services/errors.go - Error taxonomy shared by the service layer
package services

import "errors"

var (
	// Validation
	ErrEmptyAnswer       = errors.New("answer is required")
	ErrChallengeLocked   = errors.New("challenge requires a higher level")
	ErrInsufficientFunds = errors.New("not enough points")

	// Idempotence guards (no-op success paths, not failures)
	ErrAlreadyCompleted = errors.New("already completed")

	// Authorization
	ErrNotTeamOwner = errors.New("only the team owner can do this")
	ErrNoTeam       = errors.New("user is not in a team")

	// Configuration
	ErrNoLevelConfigured   = errors.New("no level tier qualifies; a zero-point tier must exist")
	ErrNotEnoughChallenges = errors.New("not enough challenges to start a battle")

	// Battle rules
	ErrSelfBattle   = errors.New("a team cannot battle itself")
	ErrBattleExists = errors.New("an active battle already exists between these teams")

	// Lookup
	ErrNotFound = errors.New("not found")
)
