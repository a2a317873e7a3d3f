package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type testObject struct {
	ID   string `json:"id" mapstructure:"id"`
	Name string `json:"name" mapstructure:"name"`
}

func Test_jwtEngine_GenerateAndVerify(t *testing.T) {
	engine := NewEngine("secret")

	token, err := engine.Generate(time.Minute, testObject{ID: "user1", Name: "foo"})
	require.NoError(t, err)

	var obj testObject
	require.NoError(t, engine.Verify(token, &obj))
	require.Equal(t, testObject{ID: "user1", Name: "foo"}, obj)
}

func Test_jwtEngine_WrongSecret(t *testing.T) {
	engine := NewEngine("secret")
	token, err := engine.Generate(time.Minute, testObject{ID: "user1"})
	require.NoError(t, err)

	var obj testObject
	require.Error(t, NewEngine("another-secret").Verify(token, &obj))
}

func Test_jwtEngine_Expired(t *testing.T) {
	engine := NewEngine("secret")
	token, err := engine.Generate(-time.Minute, testObject{ID: "user1"})
	require.NoError(t, err)

	var obj testObject
	require.Error(t, engine.Verify(token, &obj))
}
