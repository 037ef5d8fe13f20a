// Package main is the entry point for the fleetview CLI application.
//
// fleetview inspects update telemetry of a fleet: it decodes packed update
// error codes, classifies instance statuses, and reports version breakdowns
// and time axis ticks of a telemetry snapshot.
package main

import "github.com/flatcar/nebraska-sub000/cmd"

// main runs the fleetview CLI application.
//
// It delegates all command parsing and execution to the cmd package.
func main() {
	cmd.Execute()
}
