package session

import (
	"testing"
)

func TestDecide(t *testing.T) {
	authed := SessionStatus{State: StateAuthenticated, Identity: &Identity{ID: "u1"}}

	tests := []struct {
		name       string
		status     SessionStatus
		load       LoadStatus
		onboarding bool
		want       Destination
	}{
		{
			name:   "unknown session always loads",
			status: SessionStatus{State: StateUnknown},
			load:   LoadSucceeded,
			want:   DestLoading,
		},
		{
			name:   "anonymous routes to sign-in",
			status: SessionStatus{State: StateAnonymous},
			want:   DestSignIn,
		},
		{
			name:   "authenticated waits for preferences",
			status: authed,
			load:   LoadInProgress,
			want:   DestLoading,
		},
		{
			name:   "authenticated idle load still waits",
			status: authed,
			load:   LoadIdle,
			want:   DestLoading,
		},
		{
			name:       "first sign-in goes to onboarding",
			status:     authed,
			load:       LoadSucceeded,
			onboarding: false,
			want:       DestOnboarding,
		},
		{
			name:       "returning user goes home",
			status:     authed,
			load:       LoadSucceeded,
			onboarding: true,
			want:       DestHome,
		},
		{
			name:       "failed load routes forward on defaults",
			status:     authed,
			load:       LoadFailed,
			onboarding: false,
			want:       DestOnboarding,
		},
		{
			name:       "failed load with completed onboarding goes home",
			status:     authed,
			load:       LoadFailed,
			onboarding: true,
			want:       DestHome,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Decide(tt.status, tt.load, tt.onboarding)
			if got != tt.want {
				t.Errorf("Decide() = %v, want %v", got, tt.want)
			}
		})
	}
}
