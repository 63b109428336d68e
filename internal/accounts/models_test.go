package accounts

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func timep(v time.Time) *time.Time { return &v }

func TestHasActivePremium(t *testing.T) {
	future := timep(time.Now().Add(24 * time.Hour))
	past := timep(time.Now().Add(-24 * time.Hour))

	tests := []struct {
		name string
		user User
		want bool
	}{
		{"premium with future end date", User{SubscriptionStatus: SubscriptionPremium, SubscriptionEndDate: future}, true},
		{"premium already ended", User{SubscriptionStatus: SubscriptionPremium, SubscriptionEndDate: past}, false},
		{"premium without end date", User{SubscriptionStatus: SubscriptionPremium}, false},
		{"free with future end date", User{SubscriptionStatus: SubscriptionFree, SubscriptionEndDate: future}, false},
		{"cancelled", User{SubscriptionStatus: SubscriptionCancelled, SubscriptionEndDate: future}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.user.HasActivePremium())
		})
	}
}
