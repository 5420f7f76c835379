package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/kevmo314/camview/internal/config"
	"github.com/kevmo314/camview/pkg/capture"
)

func main() {
	source := flag.String("source", config.Default().Source, "capture source: v4l2 or pattern")
	formats := flag.Bool("formats", true, "open each device and list its formats")
	flag.Parse()

	src, err := capture.NewSource(*source)
	if err != nil {
		log.Fatalf("Failed to create capture source: %v", err)
	}

	ctx := context.Background()
	devices, err := src.Devices(ctx)
	if err != nil {
		log.Fatalf("Failed to list devices: %v", err)
	}
	if len(devices) == 0 {
		fmt.Println("No capture devices found")
		return
	}

	fmt.Printf("Found %d device(s):\n\n", len(devices))

	for i, dev := range devices {
		fmt.Printf("Device %d:\n", i+1)
		fmt.Printf("  Name: %s\n", dev.Name)
		fmt.Printf("  ID: %s\n", dev.ID)

		if !*formats {
			fmt.Println()
			continue
		}
		sess, err := src.Open(ctx, dev)
		if err != nil {
			fmt.Printf("  (Could not open: %v)\n\n", err)
			continue
		}
		fmt.Printf("  Current: %s\n", sess.Format().Name())
		for _, f := range sess.Formats() {
			fmt.Printf("    %s\n", f.Name())
		}
		sess.Close()

		fmt.Println()
	}
}
