package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/futurework-1/NestEgg-Journal/cmd"
	"github.com/futurework-1/NestEgg-Journal/internal/app"
)

func main() {
	os.Exit(mainWithExitCode())
}

func mainWithExitCode() int {
	ctx := app.NewContext()
	rootCmd := cmd.RootCommand(ctx)

	err := rootCmd.ExecuteContext(context.Background())
	sentry.Flush(2 * time.Second)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
