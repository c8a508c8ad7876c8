package ports

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const (
	corsAllowedMethods = "POST"
	corsAllowedHeaders = "Content-Type, X-User-Id"
	corsMaxAgeSeconds  = "3600"
)

// DomainSuffixes is the set of sites allowed to call the API from a browser.
// A suffix allows https origins on the domain itself and on every subdomain of it.
type DomainSuffixes struct {
	suffixes []string
}

func NewDomainSuffixes(suffixes ...string) (*DomainSuffixes, error) {
	normalized := make([]string, 0, len(suffixes))
	for _, suffix := range suffixes {
		switch {
		case suffix == "":
			return nil, fmt.Errorf("domain suffix must not be empty")
		case strings.HasPrefix(suffix, "."):
			return nil, fmt.Errorf("domain suffix %s should not start with a dot", suffix)
		case strings.Contains(suffix, "://"):
			return nil, fmt.Errorf("domain suffix %s should not contain a scheme", suffix)
		case strings.ContainsAny(suffix, "/:@"):
			return nil, fmt.Errorf("domain suffix %s should be a bare domain", suffix)
		}
		normalized = append(normalized, strings.ToLower(suffix))
	}
	return &DomainSuffixes{suffixes: normalized}, nil
}

// originHost returns the lowercased host of a https origin with no port, path or credentials
func originHost(origin string) (string, bool) {
	parsed, err := url.Parse(origin)
	if err != nil {
		return "", false
	}
	if parsed.Scheme != "https" || parsed.User != nil || parsed.Port() != "" {
		return "", false
	}
	if parsed.Path != "" || parsed.RawQuery != "" || parsed.Fragment != "" || parsed.Opaque != "" {
		return "", false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return "", false
	}
	return host, true
}

func (suffixes *DomainSuffixes) AnyMatch(origin string) bool {
	host, ok := originHost(origin)
	if !ok {
		return false
	}

	for _, suffix := range suffixes.suffixes {
		if host == suffix || strings.HasSuffix(host, "."+suffix) {
			return true
		}
	}
	return false
}

// BuildCORSMiddleware echoes allowed origins back to the browser and answers their preflight
// requests directly. Requests from other origins pass through without CORS headers.
func BuildCORSMiddleware(allowedSuffixes *DomainSuffixes) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if !allowedSuffixes.AnyMatch(origin) {
				next(w, r)
				return
			}

			header := w.Header()
			header.Set("Access-Control-Allow-Origin", origin)
			header.Add("Vary", "Origin")

			if r.Method != http.MethodOptions {
				next(w, r)
				return
			}

			header.Set("Access-Control-Allow-Methods", corsAllowedMethods)
			header.Set("Access-Control-Allow-Headers", corsAllowedHeaders)
			header.Set("Access-Control-Max-Age", corsMaxAgeSeconds)
			w.WriteHeader(http.StatusNoContent)
		}
	}
}

func BuildCORSHandler(allowedSuffixes *DomainSuffixes) http.HandlerFunc {
	return BuildCORSMiddleware(allowedSuffixes)(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
}
