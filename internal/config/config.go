package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// ConfigEnvVar overrides the location of the configuration file
const ConfigEnvVar = "LAMBDA_CLI_CONFIG"

// ErrNoConfig is returned by Load when the configuration file does not exist
var ErrNoConfig = fmt.Errorf("configuration file does not exist: %w", fs.ErrNotExist)

// Entry holds the AWS settings saved for one directory. Empty fields are
// absent and never written.
type Entry struct {
	ProfileName        string `json:"profile_name,omitempty" yaml:"profile_name,omitempty"`
	RegionName         string `json:"region_name,omitempty" yaml:"region_name,omitempty"`
	AWSAccessKeyID     string `json:"aws_access_key_id,omitempty" yaml:"aws_access_key_id,omitempty"`
	AWSSecretAccessKey string `json:"aws_secret_access_key,omitempty" yaml:"aws_secret_access_key,omitempty"`
	AWSSessionToken    string `json:"aws_session_token,omitempty" yaml:"aws_session_token,omitempty"`
}

// Fields returns the set fields as name/value pairs in file order.
func (e Entry) Fields() [][2]string {
	all := [][2]string{
		{"profile_name", e.ProfileName},
		{"region_name", e.RegionName},
		{"aws_access_key_id", e.AWSAccessKeyID},
		{"aws_secret_access_key", e.AWSSecretAccessKey},
		{"aws_session_token", e.AWSSessionToken},
	}
	fields := all[:0]
	for _, f := range all {
		if f[1] != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// ParseError reports a malformed configuration file or entry
type ParseError struct {
	Path string
	Key  string // empty when the whole document is invalid
	Err  error
}

func (e *ParseError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("failed to read the configuration file as valid JSON, please check the file %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("failed to read configuration entry for '%s' in %s: %v", e.Key, e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// IOError reports a filesystem failure while reading or writing the file
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("failed to %s the configuration file %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }

// GetConfigDir returns the config directory path (~/.aws)
func GetConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".aws"
	}
	return filepath.Join(home, ".aws")
}

// GetConfigPath returns the config file path (~/.aws/lambda-cli.json)
func GetConfigPath() string {
	if p := os.Getenv(ConfigEnvVar); p != "" {
		return p
	}
	return filepath.Join(GetConfigDir(), "lambda-cli.json")
}

// Load reads the store at path. A missing file yields ErrNoConfig.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNoConfig
		}
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	entries, err := decode(path, data)
	if err != nil {
		return nil, err
	}
	return &Store{path: path, entries: entries}, nil
}

// LoadOrCreate reads the store at path, creating an empty file (and its
// directory) when it does not exist yet.
func LoadOrCreate(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, &IOError{Op: "create the directory for", Path: path, Err: err}
	}

	s, err := Load(path)
	if !errors.Is(err, ErrNoConfig) {
		return s, err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, &IOError{Op: "create", Path: path, Err: err}
	}
	if err := f.Close(); err != nil {
		return nil, &IOError{Op: "create", Path: path, Err: err}
	}

	return New(path), nil
}

func decode(path string, data []byte) (map[string]Entry, error) {
	entries := make(map[string]Entry)
	if len(bytes.TrimSpace(data)) == 0 {
		return entries, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}
	if raw == nil {
		return nil, &ParseError{Path: path, Err: errors.New("top-level value must be an object")}
	}

	origin := make(map[string]string, len(raw))
	for _, key := range slices.Sorted(maps.Keys(raw)) {
		value := raw[key]
		var entry Entry
		dec := json.NewDecoder(bytes.NewReader(value))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&entry); err != nil {
			return nil, &ParseError{Path: path, Key: key, Err: err}
		}
		if bytes.Equal(bytes.TrimSpace(value), []byte("null")) {
			return nil, &ParseError{Path: path, Key: key, Err: errors.New("entry must be an object")}
		}

		norm, err := Normalize(key)
		if err != nil {
			return nil, &ParseError{Path: path, Key: key, Err: err}
		}
		if prev, dup := origin[norm]; dup {
			return nil, &ParseError{Path: path, Key: key, Err: fmt.Errorf("same directory as %q", prev)}
		}
		origin[norm] = key
		entries[norm] = entry
	}
	return entries, nil
}

func encode(entries map[string]Entry) ([]byte, error) {
	out := make(map[string]Entry, len(entries))
	for path, entry := range entries {
		out[filepath.ToSlash(path)] = entry
	}

	// encoding/json writes map keys sorted, which keeps the file diffable
	data, err := json.MarshalIndent(out, "", "    ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Normalize returns the absolute, cleaned, symlink-resolved form of path.
// A leading "~" expands to the home directory. For a path that does not
// exist yet, symlinks are resolved on its nearest existing ancestor.
func Normalize(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, strings.TrimPrefix(path, "~"))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}

	if resolved, err := filepath.EvalSymlinks(abs); err == nil {
		return resolved, nil
	}

	dir, rest := abs, ""
	for {
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		rest = filepath.Join(filepath.Base(dir), rest)
		dir = parent
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return filepath.Join(resolved, rest), nil
		}
	}
}
