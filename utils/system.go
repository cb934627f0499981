package utils

import (
	"log"

	"github.com/shirou/gopsutil/v3/cpu"
)

// LogicalCores reports the host's logical CPU count for the status
// endpoint. Falls back to a safe constant when detection fails (containers
// with restricted /proc, exotic platforms).
func LogicalCores() int {
	cores, err := cpu.Counts(true)
	if err != nil {
		log.Printf("WARN: Could not detect CPU cores: %v", err)
		return 2
	}
	return cores
}
