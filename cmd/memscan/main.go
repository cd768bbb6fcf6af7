package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"memprobe/ops"
)

func main() {
	pidFlag := flag.Int("pid", 0, "Process ID to scan")
	patternFlag := flag.String("pattern", "", "Pattern to scan for (e.g. '48 8B ?? 05' for hex)")
	kindFlag := flag.String("kind", "hex", "Pattern kind: hex, int32, int64, float, double, string")
	filterFlag := flag.String("filter", "", "Comma-separated prior candidate addresses to narrow against")
	flag.Parse()

	if *pidFlag == 0 {
		fmt.Println("Error: --pid is required")
		flag.Usage()
		os.Exit(1)
	}
	if *patternFlag == "" {
		fmt.Println("Error: --pattern is required")
		flag.Usage()
		os.Exit(1)
	}

	tk := ops.New()
	defer tk.Close()

	var res ops.ScanResult
	if *filterFlag != "" {
		candidates := strings.Split(*filterFlag, ",")
		res = tk.FilteredScan(*pidFlag, *patternFlag, *kindFlag, candidates)
	} else {
		res = tk.Scan(*pidFlag, *patternFlag, *kindFlag)
	}

	if !res.Success {
		fmt.Printf("Scan failed: %s\n", res.Error)
		os.Exit(1)
	}

	fmt.Printf("Found %d matches:\n", len(res.Addresses))
	for _, addr := range res.Addresses {
		fmt.Println(" ", addr)
	}
	if res.Stats != nil {
		fmt.Printf("Pattern length %d, %d regions visited\n", res.Stats.PatternLength, res.Stats.RegionsVisited)
	}
}
