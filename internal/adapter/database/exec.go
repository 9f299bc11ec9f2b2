package database

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// runDump runs a dump utility and streams its standard output into w.
// Standard error is kept for the error message.
func runDump(ctx context.Context, binary string, args, env []string, w io.Writer) error {
	cmd := exec.CommandContext(ctx, binary, args...)
	cmd.Stdout = w

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if len(env) > 0 {
		cmd.Env = append(os.Environ(), env...)
	}

	if err := cmd.Run(); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = ctxErr
		}
		return fmt.Errorf("%s failed: %w, output: %s",
			filepath.Base(binary), err, strings.TrimSpace(stderr.String()))
	}

	return nil
}

func lookupBinary(binary string) error {
	if _, err := exec.LookPath(binary); err != nil {
		return fmt.Errorf("dump utility %s not found: %w", binary, err)
	}
	return nil
}
