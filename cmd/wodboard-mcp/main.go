package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/claude/wodboard/internal/generator"
	"github.com/claude/wodboard/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// Version is set at build time via -ldflags.
var Version = "dev"

func main() {
	baseURL := flag.String("url", "", "wodboard server URL, e.g. http://wodboard.tailnet.ts.net (required)")
	flag.Parse()

	// stdout carries the MCP protocol; logs go to stderr.
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	if *baseURL == "" {
		fmt.Fprintf(os.Stderr, "Usage: wodboard-mcp -url http://wodboard.tailnet.ts.net\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	s := mcp.New(mcp.NewHTTPClient(*baseURL), generator.New(nil), Version, log)
	log.Info("serving MCP over stdio", "url", *baseURL)
	if err := server.ServeStdio(s); err != nil {
		log.Error("mcp stdio server failed", "error", err)
		os.Exit(1)
	}
}
