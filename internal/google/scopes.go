package google

// Search Console OAuth scopes.
const (
	ScopeWebmasters         = "https://www.googleapis.com/auth/webmasters"
	ScopeWebmastersReadOnly = "https://www.googleapis.com/auth/webmasters.readonly"
)

// Scopes returns the scopes the server requests. Read-only servers never
// register write tools, so they only ask for webmasters.readonly.
func Scopes(readOnly bool) []string {
	if readOnly {
		return []string{ScopeWebmastersReadOnly}
	}
	return []string{ScopeWebmasters}
}
