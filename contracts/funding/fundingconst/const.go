package fundingconst

const (
	// NotFoundError is returned if project is missing.
	NotFoundError = "project does not exist"

	// ExpiredError is returned on attempt to fund a project at or after its
	// expiration height.
	ExpiredError = "project funding period has expired"

	// UnauthorizedError is returned on withdrawal attempt by anyone except the
	// witnessed project creator as well as on withdrawal before the funding
	// goal is reached. Exact reason is logged.
	UnauthorizedError = "unauthorized"

	// InvalidCreatorError is returned if project creator is not a 20-byte account.
	InvalidCreatorError = "invalid creator account"

	// InvalidFunderError is returned if funder is not a 20-byte account.
	InvalidFunderError = "invalid funder account"

	// NonPositiveAmountError is returned on attempt to fund a project with
	// zero or negative amount.
	NonPositiveAmountError = "amount must be positive"
)
