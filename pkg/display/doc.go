// Package display renders fleetview results as colored terminal tables.
//
// Colors:
//
// Every cell that carries meaning has a color role. Roles map to adaptive
// lipgloss colors that the config palette can override:
//
//	display.ApplyPalette(cfg)
//	display.SetNoColor(!display.ShouldUseColor(cfg.Output.NoColor))
//
// Rendering:
//
// Each result type from pkg/output has a table renderer:
//
//	display.RenderBreakdown(os.Stdout, output.NewBreakdownResult(rep))
//	display.RenderReport(os.Stdout, rep)
//
// Structured formats (json, csv, xml) bypass this package and use the
// pkg/output writers directly.
package display
