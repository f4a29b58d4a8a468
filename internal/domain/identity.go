package domain

// UnknownAuthor is the sentinel identity used when no author information is available.
const UnknownAuthor = "Unknown"

// ResolveAuthor normalizes a commit author to a single identity string.
// The resolution order is significant: the platform account handle wins,
// then the free-text committer name, then the Unknown sentinel.
func ResolveAuthor(login, name string) string {
	if login != "" {
		return login
	}
	if name != "" {
		return name
	}
	return UnknownAuthor
}

// ResolvePRAuthor normalizes a pull request author. PRs only carry the
// platform handle, so there is no free-text fallback step.
func ResolvePRAuthor(login string) string {
	if login != "" {
		return login
	}
	return UnknownAuthor
}
