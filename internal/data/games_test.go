package data

import (
	"testing"

	"BeerBaseballApi/internal/assert"
	"BeerBaseballApi/internal/rules"
	"BeerBaseballApi/internal/validator"
)

func TestValidateRoles(t *testing.T) {
	tests := []struct {
		name      string
		roles     rules.Roles
		wantValid bool
	}{
		{
			name: "Full Assignment",
			roles: rules.Roles{
				1: {Side: rules.SideAway, Order: 1, Fielding: "shooter"},
				2: {Side: rules.SideAway, Order: 2, Fielding: "drinker"},
				3: {Side: rules.SideHome, Order: 1, Fielding: "catcher"},
				4: {Side: rules.SideHome, Order: 2, Fielding: "drinker"},
			},
			wantValid: true,
		},
		{
			name:      "No Players",
			roles:     rules.Roles{},
			wantValid: false,
		},
		{
			name: "One Empty Side",
			roles: rules.Roles{
				1: {Side: rules.SideAway, Order: 1},
				2: {Side: rules.SideAway, Order: 2},
			},
			wantValid: false,
		},
		{
			name: "Duplicate Batting Order",
			roles: rules.Roles{
				1: {Side: rules.SideAway, Order: 1},
				2: {Side: rules.SideAway, Order: 1},
				3: {Side: rules.SideHome, Order: 1},
			},
			wantValid: false,
		},
		{
			name: "Batting Order Below One",
			roles: rules.Roles{
				1: {Side: rules.SideAway, Order: 0},
				2: {Side: rules.SideHome, Order: 1},
			},
			wantValid: false,
		},
		{
			name: "Unknown Side",
			roles: rules.Roles{
				1: {Side: 5, Order: 1},
				2: {Side: rules.SideHome, Order: 1},
			},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mErr := ModelValidationErr{Errors: make(map[string]string)}
			validateRoles(&mErr, tt.roles)
			assert.Equal(t, mErr.Valid(), tt.wantValid)
		})
	}
}

func TestValidateGame(t *testing.T) {
	tests := []struct {
		name      string
		game      Game
		wantValid bool
	}{
		{
			name:      "Valid Game",
			game:      Game{HomeName: "Basement Brewers", AwayName: "Garage Gang"},
			wantValid: true,
		},
		{
			name:      "Missing Home Name",
			game:      Game{AwayName: "Garage Gang"},
			wantValid: false,
		},
		{
			name:      "Matching Names",
			game:      Game{HomeName: "Garage Gang", AwayName: "Garage Gang"},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidateGame(v, &tt.game)
			assert.Equal(t, v.Valid(), tt.wantValid)
		})
	}
}

func TestValidatePlayer(t *testing.T) {
	tests := []struct {
		name      string
		player    Player
		wantValid bool
	}{
		{
			name:      "Valid Player",
			player:    Player{Name: "Sam", Email: "sam@example.com"},
			wantValid: true,
		},
		{
			name:      "No Email Is Fine",
			player:    Player{Name: "Sam"},
			wantValid: true,
		},
		{
			name:      "Missing Name",
			player:    Player{Email: "sam@example.com"},
			wantValid: false,
		},
		{
			name:      "Bad Email",
			player:    Player{Name: "Sam", Email: "not-an-address"},
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := validator.New()
			ValidatePlayer(v, &tt.player)
			assert.Equal(t, v.Valid(), tt.wantValid)
		})
	}
}
