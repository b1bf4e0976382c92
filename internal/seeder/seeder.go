// Package seeder generates plausible demo data for development backends.
package seeder

import (
	"context"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"github.com/raddesk-health/raddesk-cli/internal/client"
)

var roleNames = []string{
	"ADMIN",
	"RADIOLOGIST",
	"TECHNICIAN",
	"FRONT_DESK",
	"VIEWER",
}

var actions = []string{
	"user.login",
	"user.logout",
	"user.created",
	"user.updated",
	"user.disabled",
	"report.viewed",
	"report.exported",
	"study.assigned",
}

// RandomUser builds a creation payload with a generated password and one or
// two random roles.
func RandomUser() client.CreateUserParams {
	roles := []string{randomRole()}
	if gofakeit.Bool() {
		roles = append(roles, randomRole())
	}
	return client.CreateUserParams{
		Username:  gofakeit.Username(),
		Email:     gofakeit.Email(),
		Password:  gofakeit.Password(true, true, true, true, false, 16),
		FirstName: gofakeit.FirstName(),
		LastName:  gofakeit.LastName(),
		Roles:     roles,
	}
}

func randomRole() string {
	return roleNames[gofakeit.Number(0, len(roleNames)-1)]
}

// RandomActivity builds one activity event spread over the past spread
// duration.
func RandomActivity(spread time.Duration) *client.ActivityEvent {
	offset := time.Duration(gofakeit.Number(0, int(spread)))
	return &client.ActivityEvent{
		Actor:     gofakeit.Email(),
		Action:    actions[gofakeit.Number(0, len(actions)-1)],
		Target:    fmt.Sprintf("user:%d", gofakeit.Number(1, 500)),
		IPAddress: gofakeit.IPv4Address(),
		Timestamp: time.Now().Add(-offset),
	}
}

// Result counts one seeding run.
type Result struct {
	Created int
	Failed  int
	LastErr error
}

// SeedUsers creates count random users, continuing past individual
// failures (duplicate usernames are expected on repeat runs).
func SeedUsers(ctx context.Context, c *client.Client, token string, count int) Result {
	var res Result
	for i := 0; i < count; i++ {
		if _, err := c.CreateUser(ctx, token, RandomUser()); err != nil {
			res.Failed++
			res.LastErr = err
			continue
		}
		res.Created++
	}
	return res
}

// SeedActivity records count random activity events spread over the past
// 24 hours.
func SeedActivity(ctx context.Context, c *client.Client, token string, count int) Result {
	var res Result
	for i := 0; i < count; i++ {
		if err := c.RecordActivity(ctx, token, RandomActivity(24*time.Hour)); err != nil {
			res.Failed++
			res.LastErr = err
			continue
		}
		res.Created++
	}
	return res
}
