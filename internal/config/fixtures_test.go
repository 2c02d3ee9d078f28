package config

import "github.com/orci-tz/mafunzo/internal/services"

func userFixture(name, role string) services.User {
	return services.User{ID: name, Username: name, PasswordHash: "hash", Role: role}
}
