//go:build unix

package template

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"syscall"
	"testing"
	"time"

	"projman/internal/library"
	"projman/internal/process"
)

const interruptChildEnv = "PROJMAN_TEMPLATE_INTERRUPT_ROOT"

// runInterruptedApply is the child half of TestEngine_Apply_CtrlCRollsBack.
// It exits 0 once Apply has returned a command failure.
func runInterruptedApply(root string) {
	lib, err := library.New(root, false)
	if err != nil {
		os.Exit(2)
	}
	project, err := lib.Create("app")
	if err != nil {
		os.Exit(2)
	}

	e := &Engine{
		Runner:  process.NewExecRunnerWithStreams(nil, strings.NewReader(""), os.Stderr, os.Stderr),
		Remover: lib,
	}
	tmpl := Template{Name: "slow", Commands: []string{
		"touch " + filepath.Join(root, "started") + " && sleep 10",
		"touch never",
	}}
	err = e.Apply(context.Background(), tmpl, ApplyOptions{
		ProjectPath: project.Path,
		Shell:       "sh",
		ShellArgs:   []string{"-c"},
	})
	if errors.Is(err, ErrTemplateCommandFailed) {
		os.Exit(0)
	}
	os.Exit(1)
}

func TestEngine_Apply_CtrlCRollsBack(t *testing.T) {
	if root := os.Getenv(interruptChildEnv); root != "" {
		runInterruptedApply(root)
		return
	}

	root := t.TempDir()
	cmd := exec.Command(os.Args[0], "-test.run=^TestEngine_Apply_CtrlCRollsBack$")
	cmd.Env = append(os.Environ(), interruptChildEnv+"="+root)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	if err := cmd.Start(); err != nil {
		t.Fatal(err)
	}

	started := filepath.Join(root, "started")
	deadline := time.Now().Add(10 * time.Second)
	for {
		if _, err := os.Stat(started); err == nil {
			break
		}
		if time.Now().After(deadline) {
			_ = syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
			_ = cmd.Wait()
			t.Fatal("template command never started")
		}
		time.Sleep(20 * time.Millisecond)
	}

	// The terminal delivers Ctrl+C to the whole foreground process group.
	if err := syscall.Kill(-cmd.Process.Pid, syscall.SIGINT); err != nil {
		t.Fatal(err)
	}

	if err := cmd.Wait(); err != nil {
		t.Fatalf("child did not survive Ctrl+C to report the failure: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "app")); !os.IsNotExist(err) {
		t.Error("project directory survived an interrupted template")
	}
}
