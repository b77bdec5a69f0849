package services

// GuardDecision tells the view layer what to do with a protected surface.
type GuardDecision int

const (
	// GuardAllow renders the protected content.
	GuardAllow GuardDecision = iota
	// GuardRedirectLogin sends the user to the login entry point.
	GuardRedirectLogin
	// GuardLoading shows a placeholder while identity confirmation is
	// pending.
	GuardLoading
)

// Guard decides access to protected surfaces. Credential absence redirects
// immediately, before any identity check resolves, so protected content
// never flashes. Loading applies only while a credential exists but
// confirmation is pending.
func Guard(credentialPresent bool, view SessionView) GuardDecision {
	if !credentialPresent {
		return GuardRedirectLogin
	}
	if view.Loading {
		return GuardLoading
	}
	if !view.Authenticated {
		return GuardRedirectLogin
	}
	return GuardAllow
}
