package main

// Exit codes reported by kgx commands.
const (
	ExitSuccess        = 0 // Success
	ExitError          = 1 // General error (invalid arguments, runtime failure)
	ExitWorkspaceError = 2 // Workspace/config error (no .kgx directory, invalid paths)
	ExitDataError      = 3 // Data error (malformed input, validation failure)
	ExitServiceError   = 4 // Generation service or stream error
	ExitTokenExpired   = 5 // Verification token expired; retry with a fresh token
)
