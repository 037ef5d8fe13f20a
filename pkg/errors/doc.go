// Package errors provides unified error types and display for fleetview.
//
// This package consolidates all error handling into a single location:
//   - ExitError: Command exit with specific exit code
//   - ValidationError: Precondition, configuration or snapshot validation failures
//
// The transformation packages (errcode, status, versions, timeline) are total
// functions over their inputs. They only ever return a *ValidationError, and
// only for precondition violations such as a negative significance threshold.
//
// Error Display:
//
//	errors.PrintError(os.Stderr, err, verbose)
//
// Exit Codes:
//
// Standard exit codes are defined for scripting integration:
//   - ExitSuccess (0): Command completed successfully
//   - ExitFailure (2): Command failed
//   - ExitConfigError (3): Configuration, snapshot or argument validation error
package errors
