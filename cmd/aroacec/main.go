package main

import (
	"fmt"
	"os"
)

const (
	exitOK = iota
	exitCompileError
	exitUsage
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(exitUsage)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var code int
	switch command {
	case "build":
		code = handleBuildCommand(args, true)
	case "check":
		code = handleBuildCommand(args, false)
	case "tokens":
		code = handleTokensCommand(args)
	case "ast":
		code = handleASTCommand(args)
	case "diagnostics":
		code = handleDiagnosticsCommand(args)
	case "read-ir":
		code = handleReadIRCommand(args)
	case "init":
		code = handleInitCommand(args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", command)
		printUsage()
		code = exitUsage
	}
	os.Exit(code)
}

func printUsage() {
	fmt.Println("AroAce Language Compiler")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  aroacec build [paths...] [options]   - Compile .ace files or directories")
	fmt.Println("  aroacec check [paths...]             - Analyze without writing output")
	fmt.Println("  aroacec tokens <file.ace>            - Print the token stream")
	fmt.Println("  aroacec ast <file.ace>               - Print the checked AST as JSON")
	fmt.Println("  aroacec diagnostics <file.ace>       - Print diagnostics as LSP publish params")
	fmt.Println("  aroacec read-ir <file.ll> [options]  - Read textual LLVM IR")
	fmt.Println("  aroacec init [dir] [options]         - Write a default aroace.toml")
	fmt.Println("  aroacec help                         - Show this help message")
	fmt.Println()
	fmt.Println("Build options:")
	fmt.Println("  -emit string      Output kind: ir (default), ast, tokens")
	fmt.Println("  -o string         Output directory, '-' for stdout")
	fmt.Println("  -target string    Target triple")
	fmt.Println("  -Werror           Treat warnings as errors")
	fmt.Println("  -v                Verbose logging")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  aroacec build examples/hello.ace -o -")
	fmt.Println("  aroacec build . -target=aarch64-unknown-linux-gnu")
	fmt.Println("  aroacec read-ir out/hello.ll -verify -json")
}
