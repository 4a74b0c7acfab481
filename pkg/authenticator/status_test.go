package authenticator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type flags struct {
	enabled, nonExpired, nonLocked, credsNonExpired bool
}

func (f flags) IsEnabled() bool               { return f.enabled }
func (f flags) IsAccountNonExpired() bool     { return f.nonExpired }
func (f flags) IsAccountNonLocked() bool      { return f.nonLocked }
func (f flags) IsCredentialsNonExpired() bool { return f.credsNonExpired }

func TestDefaultAccountStatusPolicy(t *testing.T) {
	tests := []struct {
		name    string
		subject flags
		wantErr error
	}{
		{
			name:    "all flags set",
			subject: flags{true, true, true, true},
		},
		{
			name:    "disabled",
			subject: flags{false, true, true, true},
			wantErr: ErrAccountDisabled,
		},
		{
			name:    "expired",
			subject: flags{true, false, true, true},
			wantErr: ErrAccountExpired,
		},
		{
			name:    "locked",
			subject: flags{true, true, false, true},
			wantErr: ErrAccountLocked,
		},
		{
			name:    "credentials expired",
			subject: flags{true, true, true, false},
			wantErr: ErrCredentialsExpired,
		},
		{
			name:    "disabled wins over everything",
			subject: flags{false, false, false, false},
			wantErr: ErrAccountDisabled,
		},
		{
			name:    "expired wins over locked",
			subject: flags{true, false, false, false},
			wantErr: ErrAccountExpired,
		},
		{
			name:    "locked wins over credentials expired",
			subject: flags{true, true, false, false},
			wantErr: ErrAccountLocked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := DefaultAccountStatusPolicy.Check(tt.subject)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAccountStatusPolicyFunc(t *testing.T) {
	denied := errors.New("denied")
	policy := AccountStatusPolicyFunc(func(AccountStatus) error { return denied })

	assert.ErrorIs(t, policy.Check(flags{true, true, true, true}), denied)
}
