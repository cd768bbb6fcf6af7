package main

import (
	"flag"
	"fmt"
	"os"

	"memprobe/ops"
)

func main() {
	nameFlag := flag.String("name", "", "Filter processes by name substring")
	flag.Parse()

	tk := ops.New()
	defer tk.Close()

	avail := tk.Availability()
	if !avail.Available {
		fmt.Printf("Warning: %s\n", avail.Reason)
	}

	res := tk.ListProcesses(*nameFlag)
	if !res.Success {
		fmt.Printf("Process listing failed: %s\n", res.Error)
		os.Exit(1)
	}

	fmt.Printf("%-8s %-30s %s\n", "PID", "NAME", "EXE")
	for _, p := range res.Processes {
		fmt.Printf("%-8d %-30s %s\n", p.PID, p.Name, p.Exe)
	}
}
