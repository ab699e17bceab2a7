package core

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/exec"
	"strings"
)

// JournalWriter is the part of the journal the runner needs to mirror tool
// output into the custody record.
type JournalWriter interface {
	WriteLine(s string)
}

// Runner executes external collaborator tools. Commands are always invoked
// as argument lists, never through a shell interpreter, so investigator-
// supplied path fragments containing shell metacharacters cannot inject.
type Runner struct {
	out    io.Writer
	logger *log.Logger
}

// NewRunner returns a runner that streams tool output to out.
func NewRunner(out io.Writer, logger *log.Logger) *Runner {
	if out == nil {
		out = os.Stdout
	}
	if logger == nil {
		logger = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &Runner{out: out, logger: logger}
}

// Run executes name with args, streaming combined stdout/stderr line-by-line
// to the console as it arrives and, when journal is non-nil, mirroring each
// line into it. The full captured output is returned so callers can inspect
// tool responses (device connection states, listings). A non-zero exit or a
// missing binary is returned as an error together with whatever output was
// captured; the caller decides whether that is fatal to the operation.
func (r *Runner) Run(ctx context.Context, journal JournalWriter, name string, args ...string) (string, error) {
	header := fmt.Sprintf("[CMD] %s %s", name, strings.Join(args, " "))
	fmt.Fprintln(r.out, header)
	if journal != nil {
		journal.WriteLine(header)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	pr, pw := io.Pipe()
	cmd.Stdout = pw
	cmd.Stderr = pw

	if err := cmd.Start(); err != nil {
		pw.Close()
		pr.Close()
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", name, ErrToolMissing)
		}
		return "", fmt.Errorf("start %s: %w", name, err)
	}

	done := make(chan error, 1)
	go func() {
		done <- cmd.Wait()
		pw.Close()
	}()

	var captured strings.Builder
	sc := bufio.NewScanner(pr)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		line := sc.Text()
		fmt.Fprintln(r.out, line)
		captured.WriteString(line)
		captured.WriteByte('\n')
		if journal != nil {
			journal.WriteLine(line)
		}
	}

	if scanErr := sc.Err(); scanErr != nil {
		// A line over the scanner limit stops the loop while the writer is
		// still blocked on the pipe; closing the read end unblocks it so
		// the child can exit and Wait can return.
		pr.CloseWithError(scanErr)
		<-done
		return captured.String(), fmt.Errorf("%s: read output: %w", name, scanErr)
	}

	if err := <-done; err != nil {
		return captured.String(), fmt.Errorf("%s: %w", name, err)
	}
	return captured.String(), nil
}

// RunToFile executes name with args with stdout written directly to dest,
// replacing shell output redirection. Stderr is streamed to the console.
func (r *Runner) RunToFile(ctx context.Context, dest, name string, args ...string) error {
	fmt.Fprintf(r.out, "[CMD] %s %s > %s\n", name, strings.Join(args, " "), dest)

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create %s: %w", dest, err)
	}
	defer f.Close()

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = f
	cmd.Stderr = r.out
	if err := cmd.Run(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return fmt.Errorf("%s: %w", name, ErrToolMissing)
		}
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Pipeline connects two argument-list processes stdout-to-stdin, replacing
// shell string concatenation for the header-skip decode path. The first
// process's stderr is discarded (dd transfer chatter); the second's combined
// output is captured and returned for diagnostics.
func (r *Runner) Pipeline(ctx context.Context, first, second []string) (string, error) {
	if len(first) == 0 || len(second) == 0 {
		return "", errors.New("pipeline: empty command")
	}
	fmt.Fprintf(r.out, "[CMD] %s | %s\n", strings.Join(first, " "), strings.Join(second, " "))

	a := exec.CommandContext(ctx, first[0], first[1:]...)
	b := exec.CommandContext(ctx, second[0], second[1:]...)

	pipe, err := a.StdoutPipe()
	if err != nil {
		return "", fmt.Errorf("pipe: %w", err)
	}
	b.Stdin = pipe

	var diag strings.Builder
	b.Stdout = &diag
	b.Stderr = &diag

	if err := a.Start(); err != nil {
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", first[0], ErrToolMissing)
		}
		return "", fmt.Errorf("start %s: %w", first[0], err)
	}
	if err := b.Start(); err != nil {
		_ = a.Process.Kill()
		_ = a.Wait()
		if errors.Is(err, exec.ErrNotFound) {
			return "", fmt.Errorf("%s: %w", second[0], ErrToolMissing)
		}
		return "", fmt.Errorf("start %s: %w", second[0], err)
	}

	// The second process can exit without draining its stdin (tar bails
	// early on a corrupt stream). Wait on it first and close the read end
	// so the first process takes EPIPE instead of blocking on a full pipe
	// buffer the parent still holds open.
	errB := b.Wait()
	pipe.Close()
	errA := a.Wait()
	if errB != nil {
		return diag.String(), fmt.Errorf("%s: %w", second[0], errB)
	}
	if errA != nil {
		return diag.String(), fmt.Errorf("%s: %w", first[0], errA)
	}
	return diag.String(), nil
}

// CheckTools looks up each named binary on PATH (or as a direct path) and
// returns the ones that are missing. Callers decide fatality: missing
// required clients are fatal at startup, reported per-operation afterwards.
func (r *Runner) CheckTools(names ...string) []string {
	var missing []string
	for _, n := range names {
		if n == "" {
			continue
		}
		if _, err := exec.LookPath(n); err != nil {
			missing = append(missing, n)
		}
	}
	return missing
}
