package domain

import "time"

// Advisor models a team member eligible to appear in the public directory
// and to receive leads. Leaders are a featured subset of the pool, not a
// distinct entity type.
type Advisor struct {
	ID           string
	Slug         string
	Name         string
	Role         string
	Email        string
	PhotoURL     *string
	IsLeader     bool
	Description  *string
	Phone        *string
	LinkedIn     *string
	Facebook     *string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Leaders filters the featured subset of a pool, preserving order.
func Leaders(pool []Advisor) []Advisor {
	var result []Advisor
	for _, member := range pool {
		if member.IsLeader {
			result = append(result, member)
		}
	}
	return result
}

// NonLeaders filters the regular advisors of a pool, preserving order.
func NonLeaders(pool []Advisor) []Advisor {
	var result []Advisor
	for _, member := range pool {
		if !member.IsLeader {
			result = append(result, member)
		}
	}
	return result
}
