package request

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogin(t *testing.T) {
	expectedMap := map[string]string{"email": "email", "password": "***"}
	expected, _ := json.Marshal(expectedMap)
	loginReq := Login{Email: "email", Password: "password"}

	actual, _ := json.Marshal(loginReq)

	assert.EqualValues(t, expected, actual)
	assert.EqualValues(t, "password", loginReq.Password)
}

func TestRegister(t *testing.T) {
	registerReq := Register{Name: "Kim", Email: "kim@dailycoffee.test", Password: "password123"}

	actual, err := json.Marshal(registerReq)
	assert.NoError(t, err)

	actualMap := map[string]string{}
	assert.NoError(t, json.Unmarshal(actual, &actualMap))
	assert.Equal(t, "***", actualMap["password"])
	assert.Equal(t, "kim@dailycoffee.test", actualMap["email"])
	assert.Equal(t, "password123", registerReq.Password)
}

func TestRefresh(t *testing.T) {
	actual, err := json.Marshal(Refresh{RefreshToken: "token"})
	assert.NoError(t, err)
	assert.JSONEq(t, `{"refreshToken":"***"}`, string(actual))
}
