package aws

import (
	"bufio"
	"io"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"

	pkgtypes "github.com/vietdv277/lambda-cli/pkg/types"
)

var (
	sectionRe = regexp.MustCompile(`^\[\s*([^\]]+?)\s*\]$`)
	keyRe     = regexp.MustCompile(`^\s*([A-Za-z0-9_]+)\s*=\s*(.*)$`)
)

// ListProfiles reads AWS profiles from the shared credentials and config
// files, honouring AWS_SHARED_CREDENTIALS_FILE and AWS_CONFIG_FILE.
func ListProfiles() ([]pkgtypes.AWSProfile, error) {
	merged := make(map[string]*pkgtypes.AWSProfile)

	for _, src := range []struct {
		path     string
		source   string
		isConfig bool
	}{
		{credentialsFile(), "credentials", false},
		{configFile(), "config", true},
	} {
		f, err := os.Open(src.path)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		found, err := parseProfiles(f, src.source, src.isConfig)
		f.Close()
		if err != nil {
			return nil, err
		}

		for _, p := range found {
			existing, ok := merged[p.Name]
			if !ok {
				p := p
				merged[p.Name] = &p
				continue
			}
			existing.Source = "credentials+config"
			if existing.Region == "" {
				existing.Region = p.Region
			}
			existing.SSO = existing.SSO || p.SSO
		}
	}

	profiles := make([]pkgtypes.AWSProfile, 0, len(merged))
	for _, p := range merged {
		profiles = append(profiles, *p)
	}

	// "default" first, then alphabetical
	sort.Slice(profiles, func(i, j int) bool {
		if profiles[i].Name == "default" || profiles[j].Name == "default" {
			return profiles[i].Name == "default"
		}
		return profiles[i].Name < profiles[j].Name
	})

	return profiles, nil
}

// ValidateProfile checks if a profile exists
func ValidateProfile(name string) bool {
	profiles, err := ListProfiles()
	if err != nil {
		return false
	}

	for _, p := range profiles {
		if p.Name == name {
			return true
		}
	}
	return false
}

func credentialsFile() string {
	if p := os.Getenv("AWS_SHARED_CREDENTIALS_FILE"); p != "" {
		return p
	}
	return config.DefaultSharedCredentialsFilename()
}

func configFile() string {
	if p := os.Getenv("AWS_CONFIG_FILE"); p != "" {
		return p
	}
	return config.DefaultSharedConfigFilename()
}

// parseProfiles reads INI sections from an AWS shared file. In the config
// file profiles are written "[profile name]", except for "[default]";
// other sections such as "[sso-session x]" are skipped.
func parseProfiles(r io.Reader, source string, isConfig bool) ([]pkgtypes.AWSProfile, error) {
	var profiles []pkgtypes.AWSProfile
	var current *pkgtypes.AWSProfile

	flush := func() {
		if current != nil {
			profiles = append(profiles, *current)
			current = nil
		}
	}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, ";") {
			continue
		}

		if m := sectionRe.FindStringSubmatch(line); m != nil {
			flush()
			name := m[1]
			if isConfig && name != "default" {
				rest, ok := strings.CutPrefix(name, "profile ")
				if !ok {
					continue
				}
				name = strings.TrimSpace(rest)
			}
			current = &pkgtypes.AWSProfile{Name: name, Source: source}
			continue
		}

		if current == nil {
			continue
		}
		if m := keyRe.FindStringSubmatch(line); m != nil {
			switch strings.ToLower(m[1]) {
			case "region":
				current.Region = strings.TrimSpace(m[2])
			case "sso_start_url", "sso_session":
				current.SSO = true
			}
		}
	}
	flush()

	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return profiles, nil
}
