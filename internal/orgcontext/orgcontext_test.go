package orgcontext

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
)

func TestOrgIDRoundTrip(t *testing.T) {
	ctx := WithOrgID(context.Background(), snowflake.ID(42))
	orgID, ok := OrgIDFromContext(ctx)
	assert.True(t, ok)
	assert.Equal(t, snowflake.ID(42), orgID)

	_, ok = OrgIDFromContext(context.Background())
	assert.False(t, ok)
}

func TestParse(t *testing.T) {
	id, ok := Parse(" 1234 ")
	assert.True(t, ok)
	assert.Equal(t, snowflake.ID(1234), id)

	_, ok = Parse("abc")
	assert.False(t, ok)
	_, ok = Parse("-5")
	assert.False(t, ok)
}
