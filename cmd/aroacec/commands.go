package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/Popaulol/AroAceLang/internal/infrastructure/di"
	frontendcommands "github.com/Popaulol/AroAceLang/internal/modules/frontend/application/commands"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/domain/analysis"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/infrastructure/adapters/dump"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/infrastructure/adapters/lsp"
	"github.com/Popaulol/AroAceLang/internal/modules/frontend/infrastructure/config"
	ircommands "github.com/Popaulol/AroAceLang/internal/modules/middleend/domain/commands"
	"github.com/Popaulol/AroAceLang/internal/modules/project/application/pipeline"

	"github.com/google/uuid"
)

// compilerFlags 影响配置的通用选项
type compilerFlags struct {
	emit    *string
	target  *string
	werror  *bool
	verbose *bool
}

func registerCompilerFlags(fs *flag.FlagSet) compilerFlags {
	return compilerFlags{
		emit:    fs.String("emit", "", "output kind: ir, ast, tokens"),
		target:  fs.String("target", "", "target triple"),
		werror:  fs.Bool("Werror", false, "treat warnings as errors"),
		verbose: fs.Bool("v", false, "verbose logging"),
	}
}

// parseArgs 解析选项，允许选项出现在位置参数之后
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return positional, nil
		}
		positional = append(positional, args[0])
		args = args[1:]
	}
}

// loadConfig 从当前目录向上查找 aroace.toml，再应用命令行覆盖
func loadConfig(flags compilerFlags) (*config.AroAceConfig, string, error) {
	cfg, root, err := config.Discover(".")
	if err != nil {
		return nil, "", err
	}
	if flags.emit != nil && *flags.emit != "" {
		cfg.Output.Emit = *flags.emit
	}
	if flags.target != nil && *flags.target != "" {
		cfg.Compiler.TargetTriple = *flags.target
	}
	if flags.werror != nil && *flags.werror {
		cfg.Compiler.WarningsAsErrors = true
	}
	if flags.verbose != nil && *flags.verbose {
		cfg.Compiler.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, root, nil
}

func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

func handleBuildCommand(args []string, write bool) int {
	fs := flag.NewFlagSet("build", flag.ContinueOnError)
	flags := registerCompilerFlags(fs)
	output := fs.String("o", "", "output directory, '-' for stdout")
	paths, err := parseArgs(fs, args)
	if err != nil {
		return exitUsage
	}

	cfg, root, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	if len(paths) == 0 {
		paths = []string{"."}
		if root != "" {
			paths[0] = root
		}
	}

	container := di.NewContainer(cfg, os.Stderr)
	defer container.Shutdown()
	project, err := container.Project()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}

	ctx, cancel := interruptContext()
	defer cancel()
	results, err := project.Build(ctx, paths)
	if err != nil {
		if errors.Is(err, pipeline.ErrCanceled) {
			fmt.Fprintln(os.Stderr, "compilation interrupted")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return exitUsage
	}

	failed := 0
	for _, result := range results {
		if result == nil {
			continue
		}
		printDiagnostics(os.Stderr, result.Source, result.Diagnostics)
		if result.Truncated > 0 {
			fmt.Fprintf(os.Stderr, "%s: %d more diagnostics not shown\n", result.File, result.Truncated)
		}
		if !result.Success() {
			failed++
			continue
		}
		if !write {
			continue
		}
		if err := emit(container, cfg.Output.Emit, result, *output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			failed++
		}
	}

	if failed > 0 {
		fmt.Fprintf(os.Stderr, "%d of %d files failed\n", failed, len(results))
		return exitCompileError
	}
	if !write {
		fmt.Fprintf(os.Stderr, "checked %d files\n", len(results))
	}
	return exitOK
}

// emit 按输出种类写出一个编译单元
func emit(container *di.Container, kind string, result *pipeline.UnitResult, output string) error {
	var (
		data []byte
		ext  string
		err  error
	)
	switch kind {
	case config.EmitIR:
		data, ext = []byte(result.Module.String()), ".ll"
	case config.EmitAST:
		data, err = json.MarshalIndent(dump.Program(result.Program), "", "  ")
		ext = ".ast.json"
	case config.EmitTokens:
		frontend, ferr := container.Frontend()
		if ferr != nil {
			return ferr
		}
		tokens, _ := frontend.Tokenizer().Tokenize(result.Source)
		var b strings.Builder
		writeTokens(&b, tokens)
		data, ext = []byte(b.String()), ".tokens"
	default:
		return fmt.Errorf("unknown output kind %q", kind)
	}
	if err != nil {
		return err
	}

	if output == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	dir := output
	if dir == "" {
		dir = filepath.Dir(result.File)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	name := strings.TrimSuffix(filepath.Base(result.File), filepath.Ext(result.File)) + ext
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	fmt.Fprintf(os.Stderr, "wrote %s\n", path)
	return nil
}

func printDiagnostics(w io.Writer, source analysis.SourceCode, diagnostics []analysis.Diagnostic) {
	for _, d := range diagnostics {
		fmt.Fprintf(w, "%s: %s[%s]: %s\n", d.Position(), strings.ToLower(d.Type().String()), d.Code(), d.Message())
		if d.Expected() != "" || d.Actual() != "" {
			fmt.Fprintf(w, "  expected %s, found %s\n", d.Expected(), d.Actual())
		}
		if snippet := source.Snippet(d.Span()); snippet != "" {
			for _, line := range strings.Split(snippet, "\n") {
				fmt.Fprintf(w, "    %s\n", line)
			}
		}
	}
}

func writeTokens(w io.Writer, tokens []analysis.Token) {
	for _, tok := range tokens {
		fmt.Fprintf(w, "%s\t%s\n", tok.Span().Start, tok)
	}
}

// readSingleSource 读取单文件命令的输入
func readSingleSource(name string, args []string) (analysis.SourceCode, compilerFlags, bool) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	flags := registerCompilerFlags(fs)
	files, err := parseArgs(fs, args)
	if err != nil {
		return analysis.SourceCode{}, flags, false
	}
	if len(files) != 1 {
		fmt.Fprintf(os.Stderr, "Error: %s expects exactly one file\n", name)
		return analysis.SourceCode{}, flags, false
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return analysis.SourceCode{}, flags, false
	}
	return analysis.NewSourceCode(string(data), files[0]), flags, true
}

func handleTokensCommand(args []string) int {
	source, flags, ok := readSingleSource("tokens", args)
	if !ok {
		return exitUsage
	}
	cfg, _, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	container := di.NewContainer(cfg, os.Stderr)
	defer container.Shutdown()
	frontend, err := container.Frontend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}

	cmd := frontendcommands.NewPerformLexicalAnalysisCommand(uuid.NewString(), source)
	result, err := frontend.FrontendService().PerformLexicalAnalysis(context.Background(), cmd)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	writeTokens(os.Stdout, result.Tokens)
	printDiagnostics(os.Stderr, source, result.Diagnostics)
	if analysis.HasErrors(result.Diagnostics) {
		return exitCompileError
	}
	return exitOK
}

// analyzeSingle 对单个文件执行前端分析
func analyzeSingle(name string, args []string) (analysis.SourceCode, *frontendcommands.AnalysisResult, int) {
	source, flags, ok := readSingleSource(name, args)
	if !ok {
		return source, nil, exitUsage
	}
	cfg, _, err := loadConfig(flags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return source, nil, exitUsage
	}
	container := di.NewContainer(cfg, os.Stderr)
	defer container.Shutdown()
	frontend, err := container.Frontend()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return source, nil, exitUsage
	}

	ctx, cancel := interruptContext()
	defer cancel()
	result, err := frontend.FrontendService().PerformAnalysis(ctx, frontendcommands.NewPerformAnalysisCommand(uuid.NewString(), source))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return source, nil, exitUsage
	}
	return source, result, exitOK
}

func handleASTCommand(args []string) int {
	_, result, code := analyzeSingle("ast", args)
	if result == nil {
		return code
	}
	if err := writeJSON(os.Stdout, dump.Program(result.Program)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, d)
	}
	if result.HasErrors() {
		return exitCompileError
	}
	return exitOK
}

func handleDiagnosticsCommand(args []string) int {
	source, result, code := analyzeSingle("diagnostics", args)
	if result == nil {
		return code
	}
	if err := writeJSON(os.Stdout, lsp.ToPublishParams(source, result.Diagnostics)); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	if result.HasErrors() {
		return exitCompileError
	}
	return exitOK
}

func handleReadIRCommand(args []string) int {
	fs := flag.NewFlagSet("read-ir", flag.ContinueOnError)
	verify := fs.Bool("verify", false, "check dominance of every use")
	asJSON := fs.Bool("json", false, "print a structural snapshot as JSON")
	files, err := parseArgs(fs, args)
	if err != nil {
		return exitUsage
	}
	if len(files) != 1 {
		fmt.Fprintln(os.Stderr, "Error: read-ir expects exactly one file")
		return exitUsage
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}

	container := di.NewContainer(nil, os.Stderr)
	defer container.Shutdown()
	middleEnd, err := container.MiddleEnd()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}

	ctx := context.Background()
	result, err := middleEnd.IRService().ReadIR(ctx, ircommands.ReadIRCommand{
		Path:   files[0],
		Text:   string(data),
		Verify: *verify,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCompileError
	}

	if !*asJSON {
		fmt.Print(result.Module.String())
		return exitOK
	}
	snapshot, err := middleEnd.IRService().Snapshot(ctx, ircommands.VerifyModuleCommand{Module: result.Module})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitCompileError
	}
	if err := writeJSON(os.Stdout, snapshot); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	return exitOK
}

func handleInitCommand(args []string) int {
	fs := flag.NewFlagSet("init", flag.ContinueOnError)
	target := fs.String("target", "", "target triple")
	emitKind := fs.String("emit", "", "output kind: ir, ast, tokens")
	dirs, err := parseArgs(fs, args)
	if err != nil {
		return exitUsage
	}
	dir := "."
	if len(dirs) > 0 {
		dir = dirs[0]
	}

	updater, err := config.NewConfigUpdater(dir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	if *target != "" {
		updater.SetTargetTriple(*target)
	}
	if *emitKind != "" {
		if err := updater.SetEmit(*emitKind); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return exitUsage
		}
	}
	if err := updater.Save(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return exitUsage
	}
	fmt.Printf("wrote %s\n", filepath.Join(dir, config.ConfigFileName))
	return exitOK
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
