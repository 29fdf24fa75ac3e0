package config

import (
	"os"
	"strconv"
	"time"
)

const (
	apiBaseURLVar       = "AUTOPASS_API_BASE_URL"
	apiTimeoutVar       = "AUTOPASS_API_TIMEOUT"
	verboseHTTPVar      = "AUTOPASS_VERBOSE_HTTP"
	failSoftLoadersVar  = "AUTOPASS_FAIL_SOFT_LOADERS"
	coalescedRefreshVar = "AUTOPASS_COALESCED_REFRESH"
)

type API struct{}

var _ APIConfig = API{}

func (API) GetAPIBaseURL() string {
	return GetEnv(apiBaseURLVar, "http://localhost:8081")
}

func (API) GetRequestTimeout() time.Duration {
	return getDuration(apiTimeoutVar, 10*time.Second)
}

// GetVerboseHTTP controls per-request/response logging on the API client.
// Defaults to on in DEV only.
func (a API) GetVerboseHTTP() bool {
	return getBool(verboseHTTPVar, EnvVars{}.GetEnv() == "DEV")
}

// GetFailSoftLoaders controls whether route loaders swallow list-endpoint
// failures and resolve an empty page instead of propagating the error.
func (API) GetFailSoftLoaders() bool {
	return getBool(failSoftLoadersVar, true)
}

// GetCoalescedRefresh lets a request that 401ed while another request was
// already refreshing reuse the rotated token instead of issuing its own
// refresh call.
func (API) GetCoalescedRefresh() bool {
	return getBool(coalescedRefreshVar, false)
}

func getDuration(envVar string, defaultValue time.Duration) time.Duration {
	if v := os.Getenv(envVar); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBool(envVar string, defaultValue bool) bool {
	if v := os.Getenv(envVar); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultValue
}
