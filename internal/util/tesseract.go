package util

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"time"
)

// RunTesseract feeds image bytes to the tesseract binary on stdin and
// returns the recognized text. The binary must be on PATH (or command
// must be an absolute path).
func RunTesseract(ctx context.Context, command, languages string, psm int, image []byte) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	args := []string{"stdin", "stdout", "-l", languages, "--psm", strconv.Itoa(psm)}
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdin = bytes.NewReader(image)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("tesseract failed: %w: %s", err, stderr.String())
	}

	return stdout.String(), nil
}
