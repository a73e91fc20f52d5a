package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

var (
	// ErrInputRequired is returned when no input file was named.
	ErrInputRequired = errors.New("input file path is required: pass INPUT or -i")

	// ErrInputConflict is returned when both INPUT and -i were given.
	ErrInputConflict = errors.New("specify the input file either positionally or with -i, not both")
)

// inputPath picks the input from the positional argument or -i.
func inputPath(args []string, flag string) (string, error) {
	switch {
	case len(args) > 0 && flag != "":
		return "", ErrInputConflict
	case len(args) > 0:
		return args[0], nil
	case flag != "":
		return flag, nil
	default:
		return "", ErrInputRequired
	}
}

// resolveInput absolutizes path and checks that it names a regular file.
func resolveInput(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("failed to make input path absolute: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("input file not found at '%s'", abs)
		}
		return "", fmt.Errorf("failed to stat input file: %w", err)
	}
	if !info.Mode().IsRegular() {
		return "", fmt.Errorf("input path is not a file: '%s'", abs)
	}
	return abs, nil
}

// resolveOutput absolutizes output. An empty output becomes
// <input stem>_distilled.json in the working directory.
func resolveOutput(output, input string) (string, error) {
	if output == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get current directory: %w", err)
		}
		output = filepath.Join(wd, stem(input)+"_distilled.json")
	}
	abs, err := filepath.Abs(output)
	if err != nil {
		return "", fmt.Errorf("failed to make output path absolute: %w", err)
	}
	return abs, nil
}

// stem returns the file name without its final extension. Dotfiles keep
// their whole name.
func stem(path string) string {
	base := filepath.Base(path)
	if s := strings.TrimSuffix(base, filepath.Ext(base)); s != "" {
		return s
	}
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "output"
	}
	return base
}

// writeOutput creates the parent directories and writes data with mode 0644.
func writeOutput(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", path, err)
	}
	return nil
}
