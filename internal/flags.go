package internal

import (
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

// Flag describes a command line flag that falls back to an environment variable.
//
// Value must be a pointer to a string, int or bool. The value it points to is the
// default; if the environment variable is set it overrides the default, and an
// explicit command line flag overrides both.
type Flag struct {
	Name  string
	Env   string
	Usage string
	Value interface{}
}

// ErrUnsupportedFlagType is returned when a Flag value is not a supported pointer type.
var ErrUnsupportedFlagType = errors.New("unsupported flag type")

// RegisterCommandFlags registers the given flags on the command's persistent flag set.
func RegisterCommandFlags(cmd *cobra.Command, flags []*Flag) error {
	for _, f := range flags {
		if err := register(cmd, f); err != nil {
			return errors.Wrapf(err, "register flag %s failed", f.Name)
		}
	}
	return nil
}

func register(cmd *cobra.Command, f *Flag) error {
	env, hasEnv := os.LookupEnv(f.Env)
	env = strings.TrimSpace(env)
	usage := f.Usage
	if f.Env != "" {
		usage += " [$" + f.Env + "]"
	}
	switch v := f.Value.(type) {
	case *string:
		def := *v
		if hasEnv {
			def = env
		}
		cmd.PersistentFlags().StringVar(v, f.Name, def, usage)
	case *int:
		def := *v
		if hasEnv {
			i, err := strconv.Atoi(env)
			if err != nil {
				return errors.Wrapf(err, "parse %s failed", f.Env)
			}
			def = i
		}
		cmd.PersistentFlags().IntVar(v, f.Name, def, usage)
	case *bool:
		def := *v
		if hasEnv {
			b, err := strconv.ParseBool(env)
			if err != nil {
				return errors.Wrapf(err, "parse %s failed", f.Env)
			}
			def = b
		}
		cmd.PersistentFlags().BoolVar(v, f.Name, def, usage)
	default:
		return ErrUnsupportedFlagType
	}
	return nil
}
