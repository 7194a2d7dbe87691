package logging

const (
	// KeyError is the slog attribute key used for error strings.
	KeyError = "err"

	// KeyAppName is the slog attribute key for the application name.
	KeyAppName = "app"

	// KeyDal is the slog attribute key for the data access layer name.
	KeyDal = "dal"

	// KeyCommand is the slog attribute key for a discord command name.
	KeyCommand = "command"

	// KeyGuild is the slog attribute key for a guild ID.
	KeyGuild = "guild"

	// KeyChannel is the slog attribute key for a channel ID.
	KeyChannel = "channel"
)
