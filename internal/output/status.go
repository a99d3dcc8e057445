package output

import (
	"context"
	"fmt"
	"time"
)

func StatusBar(ctx context.Context, refreshRate time.Duration, printF func()) {
	ticker := time.NewTicker(refreshRate)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			printF()
		case <-ctx.Done():
			return
		}
	}
}

func PrettySampleStatus(sent uint64, elapsed time.Duration) string {
	return fmt.Sprintf("\r%-30s %-20s",
		fmt.Sprintf("Interrupts sent: %6d", sent),
		fmt.Sprintf("Elapsed: %s", elapsed.Round(time.Second)),
	)
}
