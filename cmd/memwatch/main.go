package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"memprobe/ops"
)

func main() {
	pidFlag := flag.Int("pid", 0, "Process ID to watch")
	addrFlag := flag.String("addr", "", "Address to watch (hex)")
	sizeFlag := flag.Uint64("size", 8, "Number of bytes to watch")
	intervalFlag := flag.Int("interval", 500, "Polling interval in milliseconds")
	flag.Parse()

	if *pidFlag == 0 || *addrFlag == "" {
		fmt.Println("Error: --pid and --addr are required")
		flag.Usage()
		os.Exit(1)
	}

	tk := ops.New()
	defer tk.Close()

	res := tk.StartMonitor(*pidFlag, *addrFlag, *sizeFlag, *intervalFlag, func(old, new []byte) {
		fmt.Printf("[%s] %s: %s -> %s\n",
			time.Now().Format("15:04:05.000"), *addrFlag,
			hex.EncodeToString(old), hex.EncodeToString(new))
	})
	if !res.Success {
		fmt.Printf("Monitor failed: %s\n", res.Error)
		os.Exit(1)
	}

	fmt.Printf("Watching %d bytes at %s every %dms (monitor %s), Ctrl-C to stop\n",
		*sizeFlag, *addrFlag, *intervalFlag, res.MonitorID)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig

	tk.StopMonitor(res.MonitorID)
}
