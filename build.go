//go:build ignore

// build.go - deptreport build script
// Usage: go run build.go [-target=TARGET] [-v]
// Targets: build, test, clean, release

package main

import (
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

const module = "salescli"

var (
	distDir = "dist"

	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
)

func main() {
	target := flag.String("target", "build", "build target: build, test, clean, release")
	verbose := flag.Bool("v", false, "verbose output")
	flag.Parse()

	if runtime.GOOS == "windows" {
		colorReset, colorRed, colorGreen, colorCyan = "", "", "", ""
	}

	var err error
	switch *target {
	case "build":
		err = buildExecutable(runtime.GOOS, runtime.GOARCH, *verbose)
	case "test":
		err = runGo(*verbose, "test", "./...")
	case "clean":
		err = os.RemoveAll(distDir)
	case "release":
		for _, p := range [][2]string{{"linux", "amd64"}, {"darwin", "arm64"}, {"windows", "amd64"}} {
			if err = buildExecutable(p[0], p[1], *verbose); err != nil {
				break
			}
		}
	default:
		err = fmt.Errorf("unknown target %q", *target)
	}

	if err != nil {
		printError(err.Error())
		os.Exit(1)
	}
	printSuccess(fmt.Sprintf("%s done", *target))
}

// buildExecutable builds cmd/deptreport with version information stamped in
func buildExecutable(goos, goarch string, verbose bool) error {
	exeName := "deptreport"
	if goos == "windows" {
		exeName += ".exe"
	}
	outputPath := filepath.Join(distDir, goos+"_"+goarch, exeName)

	ldflags := fmt.Sprintf("-s -w -X %[1]s/pkg/contracts.BuildTime=%[2]s -X %[1]s/pkg/contracts.GitCommit=%[3]s",
		module, time.Now().UTC().Format(time.RFC3339), gitCommit())

	printInfo(fmt.Sprintf("Building %s for %s/%s...", exeName, goos, goarch))

	cmd := exec.Command("go", "build", "-ldflags", ldflags, "-o", outputPath, "./cmd/deptreport")
	cmd.Env = append(os.Environ(), "GOOS="+goos, "GOARCH="+goarch, "CGO_ENABLED=0")
	if verbose {
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
	}
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to build %s: %w", exeName, err)
	}

	if info, err := os.Stat(outputPath); err == nil {
		printSuccess(fmt.Sprintf("Built %s (%.1f MB)", outputPath, float64(info.Size())/1024/1024))
	}
	return nil
}

func runGo(verbose bool, args ...string) error {
	if verbose {
		args = append(args[:1], append([]string{"-v"}, args[1:]...)...)
		fmt.Printf("go %s\n", strings.Join(args, " "))
	}
	cmd := exec.Command("go", args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func gitCommit() string {
	out, err := exec.Command("git", "rev-parse", "--short", "HEAD").Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(out))
}

func printInfo(msg string) {
	fmt.Println(colorCyan + "> " + msg + colorReset)
}

func printSuccess(msg string) {
	fmt.Println(colorGreen + "✓ " + msg + colorReset)
}

func printError(msg string) {
	fmt.Fprintln(os.Stderr, colorRed+"✗ "+msg+colorReset)
}
