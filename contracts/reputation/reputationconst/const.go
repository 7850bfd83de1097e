package reputationconst

const (
	// StakeUnit is the amount of stake (in the smallest currency units) which
	// adds one point to the reputation score. 100_000_000 units make one whole
	// coin, so every 0.1 of a coin staked counts.
	StakeUnit = 10_000_000

	// NotFoundError is returned if no outcome has ever been recorded for the user.
	NotFoundError = "reputation record does not exist"

	// InvalidUserError is returned if the user is not a 20-byte account.
	InvalidUserError = "invalid user account"

	// NegativeStakeError is returned on attempt to record an outcome with
	// negative stake.
	NegativeStakeError = "stake must be non-negative"
)
