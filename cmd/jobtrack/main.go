// Jobtrack CLI: track job applications from the command line
//
// Usage:
//
//	jobtrack login --server http://localhost:8080 --email user@example.com
//	jobtrack apps list
//	jobtrack apps add --company Acme --position Engineer --date 2024-03-01
//	jobtrack stats
//	jobtrack timeseries --days 14
package main

import (
	"fmt"
	"os"

	"github.com/jobtrack/jobtrack/cmd/jobtrack/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
