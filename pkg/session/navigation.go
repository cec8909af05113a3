package session

// Destination is where the presentation layer should route the user.
type Destination int

const (
	DestLoading Destination = iota
	DestSignIn
	DestOnboarding
	DestHome
)

func (d Destination) String() string {
	switch d {
	case DestSignIn:
		return "sign-in"
	case DestOnboarding:
		return "onboarding"
	case DestHome:
		return "home"
	default:
		return "loading"
	}
}

// Decide maps client state to a routing destination. Pure and side-effect
// free, so the presentation layer can call it on every state change.
//
// A failed preference load still routes forward (onboarding or home on
// defaults): leaving the user on a spinner is worse than guessing.
func Decide(status SessionStatus, load LoadStatus, onboardingCompleted bool) Destination {
	switch status.State {
	case StateUnknown:
		return DestLoading
	case StateAnonymous:
		return DestSignIn
	}

	if load != LoadSucceeded && load != LoadFailed {
		return DestLoading
	}
	if !onboardingCompleted {
		return DestOnboarding
	}
	return DestHome
}
