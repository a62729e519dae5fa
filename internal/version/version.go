package version

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"grafanapdf/pkg/sdk"
)

// Current is the client version, set at build time with
// -ldflags "-X grafanapdf/internal/version.Current=v1.2.3".
var Current = "v0.1.0"

type HealthChecker interface {
	Health(ctx context.Context) (*sdk.Health, error)
}

type Info struct {
	ClientVersion  string `json:"client_version"`
	BackendVersion string `json:"backend_version"`
	BackendStatus  string `json:"backend_status"`
	BackendNewer   bool   `json:"backend_newer"`
	ClientNewer    bool   `json:"client_newer"`
}

// Check asks the backend for its health and compares its version with the client's.
func Check(ctx context.Context, hc HealthChecker) (*Info, error) {
	health, err := hc.Health(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to reach backend: %w", err)
	}

	info := &Info{
		ClientVersion:  Current,
		BackendVersion: health.Version,
		BackendStatus:  health.Status,
	}
	if health.Version == "" {
		return info, nil
	}

	switch compareVersions(health.Version, Current) {
	case 1:
		info.BackendNewer = true
	case -1:
		info.ClientNewer = true
	}
	return info, nil
}

// compareVersions compares dotted versions with an optional "v" prefix. Pre-release and
// build suffixes of a part are ignored.
func compareVersions(v1, v2 string) int {
	parts1 := strings.Split(strings.TrimPrefix(v1, "v"), ".")
	parts2 := strings.Split(strings.TrimPrefix(v2, "v"), ".")

	for i := 0; i < len(parts1) && i < len(parts2); i++ {
		n1 := leadingNumber(parts1[i])
		n2 := leadingNumber(parts2[i])
		if n1 > n2 {
			return 1
		}
		if n1 < n2 {
			return -1
		}
	}

	if len(parts1) > len(parts2) {
		return 1
	}
	if len(parts1) < len(parts2) {
		return -1
	}

	return 0
}

func leadingNumber(part string) int {
	end := strings.IndexFunc(part, func(r rune) bool { return r < '0' || r > '9' })
	if end >= 0 {
		part = part[:end]
	}
	n, _ := strconv.Atoi(part)
	return n
}
