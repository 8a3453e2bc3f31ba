// Package clipboard copies exported conversations to the system clipboard.
package clipboard

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"runtime"

	sysclip "github.com/atotto/clipboard"

	"github.com/BASIC-BIT/meeting-notes-discord-bot-sub002/internal/export"
)

var ErrToolNotFound = errors.New("clipboard tool not found")

type Command struct {
	Path string
	Args []string
}

func SelectCommand(goos string, lookPath func(string) (string, error)) (Command, error) {
	switch goos {
	case "darwin":
		path, err := lookPath("pbcopy")
		if err != nil {
			return Command{}, ErrToolNotFound
		}
		return Command{Path: path}, nil
	case "linux":
		if path, err := lookPath("wl-copy"); err == nil {
			return Command{Path: path}, nil
		}
		if path, err := lookPath("xclip"); err == nil {
			return Command{Path: path, Args: []string{"-selection", "clipboard"}}, nil
		}
		if path, err := lookPath("xsel"); err == nil {
			return Command{Path: path, Args: []string{"--clipboard", "--input"}}, nil
		}
		return Command{}, ErrToolNotFound
	default:
		return Command{}, ErrToolNotFound
	}
}

// Writer copies text with a platform tool, falling back to the portable
// clipboard library when no tool is installed.
type Writer struct {
	GOOS     string
	LookPath func(string) (string, error)
	Run      func(ctx context.Context, cmd Command, text string) error
	Fallback func(text string) error
}

func NewWriter() Writer {
	return Writer{
		GOOS:     runtime.GOOS,
		LookPath: exec.LookPath,
		Run:      runCommand,
		Fallback: sysclip.WriteAll,
	}
}

func (w Writer) Copy(ctx context.Context, text string) error {
	cmd, err := SelectCommand(w.GOOS, w.LookPath)
	if err == nil {
		return w.Run(ctx, cmd, text)
	}
	if w.Fallback == nil || sysclip.Unsupported {
		return err
	}
	if ferr := w.Fallback(text); ferr != nil {
		return fmt.Errorf("%w: %v", ErrToolNotFound, ferr)
	}
	return nil
}

// Deliver copies an export payload and returns a status line.
func (w Writer) Deliver(ctx context.Context, p export.Payload) (string, error) {
	if err := w.Copy(ctx, string(p.Content)); err != nil {
		return "", err
	}
	return fmt.Sprintf("Copied %s to clipboard.", p.FileName), nil
}

func Copy(ctx context.Context, text string) error {
	return NewWriter().Copy(ctx, text)
}

func runCommand(ctx context.Context, cmdDef Command, text string) error {
	cmd := exec.CommandContext(ctx, cmdDef.Path, cmdDef.Args...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("clipboard stdin: %w", err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return fmt.Errorf("start clipboard command: %w", err)
	}

	if _, err := stdin.Write([]byte(text)); err != nil {
		_ = stdin.Close()
		_ = cmd.Wait()
		return fmt.Errorf("write clipboard data: %w", err)
	}
	_ = stdin.Close()

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("clipboard command failed: %w", err)
	}
	return nil
}
