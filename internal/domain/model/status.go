package model

import "fmt"

type (
	Status string

	Environment string
)

const (
	StatusActive    Status = "active"
	StatusInactive  Status = "inactive"
	StatusSuspended Status = "suspended"

	EnvironmentProd Environment = "prod"
	EnvironmentDev  Environment = "dev"
	EnvironmentRef  Environment = "ref"
)

func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusInactive, StatusSuspended:
		return true
	}

	return false
}

func ParseStatus(s string) (Status, error) {
	status := Status(s)
	if !status.IsValid() {
		return "", fmt.Errorf("invalid status %q", s)
	}

	return status, nil
}

func (e Environment) IsValid() bool {
	switch e {
	case EnvironmentProd, EnvironmentDev, EnvironmentRef:
		return true
	}

	return false
}

func ParseEnvironment(s string) (Environment, error) {
	env := Environment(s)
	if !env.IsValid() {
		return "", fmt.Errorf("invalid environment %q", s)
	}

	return env, nil
}
