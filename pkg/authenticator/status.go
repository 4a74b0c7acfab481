package authenticator

// AccountStatus exposes the four account status flags checked after identity
// verification.
type AccountStatus interface {
	IsEnabled() bool
	IsAccountNonExpired() bool
	IsAccountNonLocked() bool
	IsCredentialsNonExpired() bool
}

// AccountStatusPolicy decides whether an account in the given state may be
// granted access.
type AccountStatusPolicy interface {
	Check(subject AccountStatus) error
}

// AccountStatusPolicyFunc adapts a plain function to AccountStatusPolicy.
type AccountStatusPolicyFunc func(subject AccountStatus) error

// Check implements AccountStatusPolicy.
func (f AccountStatusPolicyFunc) Check(subject AccountStatus) error {
	return f(subject)
}

// DefaultAccountStatusPolicy rejects disabled, expired, locked and
// credentials-expired accounts, in that order. The first violation wins.
var DefaultAccountStatusPolicy AccountStatusPolicy = AccountStatusPolicyFunc(checkAccountStatus)

func checkAccountStatus(subject AccountStatus) error {
	if !subject.IsEnabled() {
		return ErrAccountDisabled
	}
	if !subject.IsAccountNonExpired() {
		return ErrAccountExpired
	}
	if !subject.IsAccountNonLocked() {
		return ErrAccountLocked
	}
	if !subject.IsCredentialsNonExpired() {
		return ErrCredentialsExpired
	}
	return nil
}
