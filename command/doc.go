// Package command implements the write-side workflows of the directory:
// profile saves, media and service management, reference list administration,
// and relation synchronization. Each command is a gocommand.Commander with a
// typed input, enforcing authorization through the scope guard before any
// side effect runs.
package command
