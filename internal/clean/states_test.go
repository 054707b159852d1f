package clean

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStateNamesCoverFiftyStates(t *testing.T) {
	assert.Len(t, stateNames, 50)
	for abbr, name := range stateNames {
		assert.Len(t, abbr, 2, abbr)
		assert.Equal(t, strings.ToUpper(abbr), abbr)
		assert.Equal(t, strings.ToUpper(name), name, abbr)
	}
}

func TestStateName(t *testing.T) {
	tests := []struct {
		abbr string
		want string
		ok   bool
	}{
		{"AL", "ALABAMA", true},
		{"AK", "ALASKA", true},
		{"CA", "CALIFORNIA", true},
		{"HI", "HAWAII", true},
		{"NC", "NORTH CAROLINA", true},
		{"ND", "NORTH DAKOTA", true},
		{"NH", "NEW HAMPSHIRE", true},
		{"RI", "RHODE ISLAND", true},
		{"WV", "WEST VIRGINIA", true},
		{"WY", "WYOMING", true},
		{"DC", "", false},
		{"PR", "", false},
		{"ca", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.abbr, func(t *testing.T) {
			got, ok := StateName(tt.abbr)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
