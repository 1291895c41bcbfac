// Package cli provides the interactive portfolio risk terminal client.
//
// The client keeps a session token in memory and talks to the REST API.
// Holdings are managed with add, update and delete; a factor regression is
// started with run and earlier results are browsed with history and show.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
