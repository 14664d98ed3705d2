package internal

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"
)

func TestRegisterCommandFlags(t *testing.T) {
	t.Setenv("NETDEMO_TEST_PORT", "7100")
	t.Setenv("NETDEMO_TEST_PATROL", "false")

	port, name, patrol := 6700, "demo", true
	cmd := &cobra.Command{Use: "test"}
	require.NoError(t, RegisterCommandFlags(cmd, []*Flag{
		{Name: "port", Env: "NETDEMO_TEST_PORT", Value: &port},
		{Name: "name", Env: "NETDEMO_TEST_NAME", Value: &name},
		{Name: "patrol", Env: "NETDEMO_TEST_PATROL", Value: &patrol},
	}))
	require.NoError(t, cmd.PersistentFlags().Parse([]string{"--name", "cli"}))

	require.Equal(t, 7100, port)
	require.Equal(t, "cli", name)
	require.False(t, patrol)
}

func TestRegisterCommandFlagsErrors(t *testing.T) {
	t.Setenv("NETDEMO_TEST_PORT", "seven")
	port := 1
	err := RegisterCommandFlags(&cobra.Command{}, []*Flag{{Name: "port", Env: "NETDEMO_TEST_PORT", Value: &port}})
	require.Error(t, err)

	f := 1.5
	err = RegisterCommandFlags(&cobra.Command{}, []*Flag{{Name: "f", Value: &f}})
	require.ErrorIs(t, err, ErrUnsupportedFlagType)
}

func TestValidateEnv(t *testing.T) {
	require.NoError(t, ValidateEnv())

	prev := Transport
	t.Cleanup(func() { Transport = prev })
	Transport = "udp"
	require.Error(t, ValidateEnv())
}
