package model

import "time"

// User is a stored account looked up on the password path.
type User struct {
	UserID             string          `gorm:"column:user_id;primaryKey"`
	Username           string          `gorm:"column:username;uniqueIndex"`
	PasswordHash       string          `gorm:"column:password_hash"`
	Enabled            bool            `gorm:"column:enabled"`
	Expired            bool            `gorm:"column:expired"`
	Locked             bool            `gorm:"column:locked"`
	CredentialsExpired bool            `gorm:"column:credentials_expired"`
	CreatedAt          time.Time       `gorm:"column:created_at;autoCreateTime"`
	Authorities        []UserAuthority `gorm:"foreignKey:UserID;references:UserID"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) IsEnabled() bool               { return u.Enabled }
func (u *User) IsAccountNonExpired() bool     { return !u.Expired }
func (u *User) IsAccountNonLocked() bool      { return !u.Locked }
func (u *User) IsCredentialsNonExpired() bool { return !u.CredentialsExpired }

// AuthorityNames returns the granted authority strings in storage order.
func (u *User) AuthorityNames() []string {
	names := make([]string, 0, len(u.Authorities))
	for _, a := range u.Authorities {
		names = append(names, a.Authority)
	}
	return names
}

// UserAuthority is a single authority granted to a user.
type UserAuthority struct {
	UserID    string `gorm:"column:user_id;primaryKey"`
	Authority string `gorm:"column:authority;primaryKey"`
}

func (UserAuthority) TableName() string {
	return "user_authorities"
}
