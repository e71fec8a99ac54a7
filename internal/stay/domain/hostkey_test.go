package domain

import (
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestHostKeyResolution(t *testing.T) {
	stay := Stay{
		ID:    snowflake.ID(9),
		OrgID: snowflake.ID(3),
		HostAssignments: []HostAssignment{
			{Email: "  Ann@Example.COM "},
			{Email: "bob@example.com"},
		},
		OwnerUserID: "u-1",
	}
	assert.Equal(t, HostKey("email:ann@example.com"), stay.HostKey())

	stay.HostAssignments = nil
	assert.Equal(t, HostKey("user:u-1"), stay.HostKey())

	stay.OwnerUserID = " "
	key := stay.HostKey()
	assert.Equal(t, HostKey("account:3:stay:9"), key)
	assert.True(t, key.Isolated())
}

func TestStayRange(t *testing.T) {
	stay := Stay{}
	assert.False(t, stay.ValidRange())
}
