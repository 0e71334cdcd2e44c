package httputil

import "net/url"

var secretParams = []string{"token", "apikey", "apiKey", "api_key", "x_cg_demo_api_key"}

// redactURL hides credential query parameters before a URL reaches logs
func redactURL(u *url.URL) string {
	if u == nil {
		return ""
	}
	q := u.Query()
	changed := false
	for _, p := range secretParams {
		if q.Has(p) {
			q.Set(p, "REDACTED")
			changed = true
		}
	}
	if !changed {
		return u.String()
	}
	clone := *u
	clone.RawQuery = q.Encode()
	return clone.String()
}
