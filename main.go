// Command motorunit-report analyzes HD-sEMG motor-unit decomposition results:
// it computes per-unit CoVISI statistics, filters non-physiological units,
// reconciles pre/post manual-cleaning reports and keeps a run history in a
// local sqlite database.
package main

import (
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "analyze":
		runAnalyze(args)
	case "filter":
		runFilter(args)
	case "compare":
		runCompare(args)
	case "chart":
		runChart(args)
	case "runs":
		runRuns(args)
	case "migrate":
		runMigrate(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(2)
	}
}

func printUsage() {
	fmt.Println("CoVISI motor-unit analysis")
	fmt.Println()
	fmt.Println("Usage: motorunit-report <command> [flags] [files]")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  analyze   Compute per-unit CoVISI for decomposition containers")
	fmt.Println("  filter    Remove motor units exceeding the CoVISI threshold")
	fmt.Println("  compare   Reconcile pre/post manual-cleaning CoVISI reports")
	fmt.Println("  chart     Render charts from saved reports")
	fmt.Println("  runs      List recorded analysis runs")
	fmt.Println("  migrate   Manage the run-database schema")
	fmt.Println("  help      Show this help message")
	fmt.Println()
	fmt.Println("Run 'motorunit-report <command> -h' for command flags.")
}
