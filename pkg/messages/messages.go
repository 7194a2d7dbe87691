package messages

const (
	// ErrUserErrorProcessing is the generic message shown to a user when a
	// request fails for an unexpected reason.
	ErrUserErrorProcessing = "Something went wrong while processing your request. Please try again later."

	// TicketingNotConfigured is shown when a guild has no ticketing configuration.
	TicketingNotConfigured = "Ticketing has not been set up for this server yet. Ask an administrator to run the setup command."

	// TicketingDisabled is shown when a guild has ticketing switched off.
	TicketingDisabled = "Ticketing is currently disabled for this server."

	// UnknownTicketType is shown when a ticket type key is not in the catalog.
	UnknownTicketType = "That ticket type does not exist."

	// ClosePermissionDenied is shown when a close request fails the guard.
	ClosePermissionDenied = "Only staff or the creator of this ticket can close it."

	// NotATicketChannel is shown when a ticket command runs outside a ticket channel.
	NotATicketChannel = "This channel is not a ticket."

	// CreationRateLimited is shown when a guild exceeds the ticket creation rate.
	CreationRateLimited = "Tickets are being opened too quickly in this server. Please wait a moment and try again."
)
