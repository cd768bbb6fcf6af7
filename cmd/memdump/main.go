package main

import (
	"flag"
	"fmt"
	"os"

	"memprobe/ops"
)

func main() {
	pidFlag := flag.Int("pid", 0, "Process ID to inspect")
	addrFlag := flag.String("addr", "", "Address to dump (hex, e.g. 0x7FFE1000)")
	sizeFlag := flag.Uint64("size", 256, "Number of bytes to dump")
	regionsFlag := flag.Bool("regions", false, "List memory regions instead of dumping")
	modulesFlag := flag.Bool("modules", false, "List loaded modules instead of dumping")
	flag.Parse()

	if *pidFlag == 0 {
		fmt.Println("Error: --pid is required")
		flag.Usage()
		os.Exit(1)
	}

	tk := ops.New()
	defer tk.Close()

	if *regionsFlag {
		listRegions(tk, *pidFlag)
		return
	}
	if *modulesFlag {
		listModules(tk, *pidFlag)
		return
	}

	if *addrFlag == "" {
		fmt.Println("Error: --addr is required (or use --regions / --modules)")
		flag.Usage()
		os.Exit(1)
	}

	res := tk.DumpRegion(*pidFlag, *addrFlag, *sizeFlag)
	if !res.Success {
		fmt.Printf("Dump failed: %s\n", res.Error)
		os.Exit(1)
	}
	fmt.Printf("%d bytes at %s:\n", res.BytesRead, res.Address)
	fmt.Print(res.Dump)
}

func listRegions(tk *ops.Toolkit, pid int) {
	res := tk.ListRegions(pid)
	if !res.Success {
		fmt.Printf("Region enumeration failed: %s\n", res.Error)
		os.Exit(1)
	}
	fmt.Printf("%d regions:\n", len(res.Regions))
	for _, r := range res.Regions {
		fmt.Printf("%-18s %10d  %-9s %-5s %s\n", r.Base, r.Size, r.State, r.Protection, r.Kind)
	}
}

func listModules(tk *ops.Toolkit, pid int) {
	res := tk.Modules(pid)
	if !res.Success {
		fmt.Printf("Module enumeration failed: %s\n", res.Error)
		os.Exit(1)
	}
	fmt.Printf("%d modules:\n", len(res.Modules))
	for _, m := range res.Modules {
		fmt.Printf("%-18s %10d  %s\n", m.Base, m.Size, m.Name)
	}
}
