package accounts

import "time"

const (
	SubscriptionFree      = "free"
	SubscriptionPremium   = "premium"
	SubscriptionCancelled = "cancelled"
	SubscriptionExpired   = "expired"
)

type User struct {
	ID                    int64      `json:"id"`
	Email                 string     `json:"email"`
	FirstName             string     `json:"first_name"`
	LastName              string     `json:"last_name"`
	PasswordHash          string     `json:"-"`
	ProfilePicture        *string    `json:"profile_picture"`
	DateOfBirth           *time.Time `json:"date_of_birth"`
	SubscriptionStatus    string     `json:"subscription_status"`
	SubscriptionStartDate *time.Time `json:"subscription_start_date"`
	SubscriptionEndDate   *time.Time `json:"subscription_end_date"`
	PreferredLanguage     string     `json:"preferred_language"`
	IsStaff               bool       `json:"is_staff"`
	LastLogin             *time.Time `json:"last_login"`
	DateJoined            time.Time  `json:"date_joined"`
	PreferredGenreIDs     []int64    `json:"preferred_genre_ids"`
}

// HasActivePremium reports whether the subscription is premium and has not
// run out yet. A premium status with no end date does not count as active.
func (u *User) HasActivePremium() bool {
	return u.SubscriptionStatus == SubscriptionPremium &&
		u.SubscriptionEndDate != nil &&
		u.SubscriptionEndDate.After(time.Now())
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
