// Package input reads the list of usernames to scrape.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"igprofiler/pkg/instagram"
	"igprofiler/pkg/logger"
)

// ErrNoUsernames is returned when a list yields no usable username
var ErrNoUsernames = errors.New("no usernames to scrape")

// LoadUsernames reads usernames from the file at path, one per line
func LoadUsernames(path string, log logger.Logger) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open usernames file: %w", err)
	}
	defer f.Close()

	usernames, err := ReadUsernames(f, log)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return usernames, nil
}

// ReadUsernames parses a username list. Blank lines and lines starting with
// '#' are ignored, a leading '@' and trailing '/' are stripped, invalid names
// are skipped with a warning and duplicates keep their first position.
func ReadUsernames(r io.Reader, log logger.Logger) ([]string, error) {
	log = logger.OrNop(log)

	var usernames []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		username := instagram.SanitizeUsername(line)
		if !instagram.IsValidUsername(username) {
			log.WarnWithFields("Skipping invalid username", map[string]interface{}{
				"line":  lineNo,
				"value": line,
			})
			continue
		}
		if seen[username] {
			continue
		}
		seen[username] = true
		usernames = append(usernames, username)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read usernames: %w", err)
	}

	return Validate(usernames)
}

// Validate returns ErrNoUsernames for an empty list
func Validate(usernames []string) ([]string, error) {
	if len(usernames) == 0 {
		return nil, ErrNoUsernames
	}
	return usernames, nil
}

// FromArgs normalizes usernames given on the command line with the same
// rules as ReadUsernames
func FromArgs(args []string, log logger.Logger) ([]string, error) {
	return ReadUsernames(strings.NewReader(strings.Join(args, "\n")), log)
}
