package main

import (
	"bytes"
	"testing"

	"github.com/spboyer/testgrade/schemas"
	"github.com/stretchr/testify/require"
)

func TestSchemaCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"result", []string{}, schemas.ResultSchemaJSON},
		{"config", []string{"--config"}, schemas.ConfigSchemaJSON},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newSchemaCommand()
			var out bytes.Buffer
			cmd.SetArgs(tt.args)
			cmd.SetOut(&out)
			require.NoError(t, cmd.Execute())
			require.Equal(t, tt.want, out.String())
		})
	}
}
