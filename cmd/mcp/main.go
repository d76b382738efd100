package main

import (
	"flag"
	"log"
	"os"

	"github.com/mark3labs/mcp-go/server"

	"voxelstore.ai/internal/transport/mcp"
)

func main() {
	var (
		base = flag.String("url", "http://127.0.0.1:8080", "voxelstore server base url")
	)
	flag.Parse()

	// stdout carries the MCP stream.
	logger := log.New(os.Stderr, "[mcp] ", log.LstdFlags|log.Lmicroseconds)
	c := mcp.NewClient(*base)
	logger.Printf("serving stdio against %s", *base)
	if err := server.ServeStdio(c.MCPServer()); err != nil {
		logger.Fatalf("stdio: %v", err)
	}
}
