package entity

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndCheckPassword(t *testing.T) {
	u := NewUser("user@example.com", "User")
	require.NoError(t, u.SetPassword("s3cret-pass"))

	assert.NotEmpty(t, u.PasswordHash)
	assert.NotEqual(t, "s3cret-pass", u.PasswordHash)
	assert.True(t, u.CheckPassword("s3cret-pass"))
	assert.False(t, u.CheckPassword("wrong"))
}

func TestCheckPasswordWithoutHash(t *testing.T) {
	u := NewUser("user@example.com", "User")
	assert.False(t, u.CheckPassword("anything"))
}

func TestPasswordHashHiddenFromJSON(t *testing.T) {
	u := NewUser("user@example.com", "User")
	require.NoError(t, u.SetPassword("s3cret-pass"))

	data, err := json.Marshal(u)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(data), u.PasswordHash))
}
