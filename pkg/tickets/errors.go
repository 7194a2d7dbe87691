package tickets

import "errors"

// Sentinel errors for the expected ticket outcomes. These are surfaced to the
// user verbatim by the transport layer; anything else is treated as an
// unexpected failure and reported generically.
var (
	// ErrNoConfig is returned when a guild has no ticketing configuration.
	ErrNoConfig = errors.New("ticketing is not configured for this guild")

	// ErrTicketingDisabled is returned when a guild has ticketing switched off.
	ErrTicketingDisabled = errors.New("ticketing is disabled for this guild")

	// ErrInvalidType is returned when a ticket type key is not in the catalog.
	ErrInvalidType = errors.New("unknown ticket type")

	// ErrAlreadyTaken is returned when a claim loses to an earlier claim.
	ErrAlreadyTaken = errors.New("ticket is already taken")

	// ErrPermissionDenied is returned when a close request comes from a user
	// that is neither staff nor the ticket's creator.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotATicket is returned when an operation targets a channel that has
	// no ticket state.
	ErrNotATicket = errors.New("channel is not a ticket")
)
