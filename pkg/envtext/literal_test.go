package envtext

import (
	"testing"

	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLiteral(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"no dollars", "A=plain\n", "A=plain\n"},
		{"unquoted braces", "export A=${HOME}/data\n", "export A=\\${HOME}/data\n"},
		{"double quoted", `A="$(whoami)"`, `A="\$(whoami)"`},
		{"single quoted untouched", "A='${HOME}'\n", "A='${HOME}'\n"},
		{"already escaped", `A="a\$b"`, `A="a\$b"`},
		{"comment untouched", "# see $HOME\n", "# see $HOME\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, string(Literal([]byte(tt.in))))
		})
	}
}

func TestLiteral_GodotenvKeepsValues(t *testing.T) {
	t.Setenv("SENZUP_TEST_HOST_VAR", "/expanded")

	doc := "export SENZING_X=${SENZUP_TEST_HOST_VAR}/data\n" +
		"SENZING_Y=\"$SENZING_X-$(id)\"\n" +
		"SENZING_Z='${SENZUP_TEST_HOST_VAR}'\n"

	env, err := godotenv.UnmarshalBytes(Literal([]byte(doc)))
	require.NoError(t, err)
	assert.Equal(t, "${SENZUP_TEST_HOST_VAR}/data", env["SENZING_X"])
	assert.Equal(t, "$SENZING_X-$(id)", env["SENZING_Y"])
	assert.Equal(t, "${SENZUP_TEST_HOST_VAR}", env["SENZING_Z"])
}
