// Package internal holds the process wide configuration of the netdemo binary.
//
// Every setting is a Flag that can also be supplied through the environment
// (optionally via a .env file).
package internal

import (
	"netdemo/internal/pkg/validate"

	"github.com/pkg/errors"
)

// AppID namespaces the wire service and tags log output.
const AppID = "NetworkedDemo"

// Configuration values, populated by the registered flags.
var (
	Env      = "dev"
	LogLevel = "info"

	Port      = 6700
	Addr      = "localhost"
	Transport = "grpc"
	Secret    = "NetworkedDemoHail"

	ServerTickRate = 10
	ClientTickRate = 50
	HostLoopMS     = 1

	Prediction     = true
	Reconciliation = true
	Interpolation  = true

	MaxInputSeconds = 0

	RosterFile = ""
	RecordDir  = ""
	Patrol     = true
)

// Flags binding the configuration values above.
var (
	EnvFlag = Flag{
		Name:  "env",
		Env:   "NETDEMO_ENV",
		Usage: "deployment environment (dev, prod)",
		Value: &Env,
	}
	LogLevelFlag = Flag{
		Name:  "log-level",
		Env:   "LOG_LEVEL",
		Usage: "log level (trace, debug, info, warn, error)",
		Value: &LogLevel,
	}
	PortFlag = Flag{
		Name:  "port",
		Env:   "PORT",
		Usage: "server port",
		Value: &Port,
	}
	AddrFlag = Flag{
		Name:  "addr",
		Env:   "SERVER_ADDR",
		Usage: "server host to connect to",
		Value: &Addr,
	}
	TransportFlag = Flag{
		Name:  "transport",
		Env:   "TRANSPORT",
		Usage: "network transport (grpc, ws)",
		Value: &Transport,
	}
	SecretFlag = Flag{
		Name:  "secret",
		Env:   "HAIL_SECRET",
		Usage: "shared secret presented during the connection handshake",
		Value: &Secret,
	}
	ServerTickRateFlag = Flag{
		Name:  "server-tick-rate",
		Env:   "SERVER_TICK_RATE",
		Usage: "server updates per second",
		Value: &ServerTickRate,
	}
	ClientTickRateFlag = Flag{
		Name:  "client-tick-rate",
		Env:   "CLIENT_TICK_RATE",
		Usage: "client updates per second",
		Value: &ClientTickRate,
	}
	HostLoopMSFlag = Flag{
		Name:  "host-loop-ms",
		Env:   "HOST_LOOP_MS",
		Usage: "interval in milliseconds at which the host loop polls the roles",
		Value: &HostLoopMS,
	}
	PredictionFlag = Flag{
		Name:  "prediction",
		Env:   "PREDICTION",
		Usage: "enable client-side prediction",
		Value: &Prediction,
	}
	ReconciliationFlag = Flag{
		Name:  "reconciliation",
		Env:   "RECONCILIATION",
		Usage: "enable server reconciliation (forces prediction on)",
		Value: &Reconciliation,
	}
	InterpolationFlag = Flag{
		Name:  "interpolation",
		Env:   "INTERPOLATION",
		Usage: "enable entity interpolation",
		Value: &Interpolation,
	}
	MaxInputSecondsFlag = Flag{
		Name:  "max-input-seconds",
		Env:   "MAX_INPUT_SECONDS",
		Usage: "reject inputs claiming more seconds of movement than this (0 accepts all)",
		Value: &MaxInputSeconds,
	}
	RosterFileFlag = Flag{
		Name:  "roster",
		Env:   "ROSTER_FILE",
		Usage: "path to a roster YAML file (max players, speed, spawn points)",
		Value: &RosterFile,
	}
	RecordDirFlag = Flag{
		Name:  "record-dir",
		Env:   "RECORD_DIR",
		Usage: "directory for the compressed snapshot journal (empty to disable)",
		Value: &RecordDir,
	}
	PatrolFlag = Flag{
		Name:  "patrol",
		Env:   "PATROL",
		Usage: "drive the local player with a scripted patrol instead of idling",
		Value: &Patrol,
	}
)

type env struct {
	Env            string `validate:"oneof=dev prod"`
	LogLevel       string `validate:"oneof=trace debug info warn error"`
	Port           int    `validate:"min=1,max=65535"`
	Transport      string `validate:"oneof=grpc ws"`
	Secret         string `validate:"required"`
	ServerTickRate int    `validate:"min=1,max=1000"`
	ClientTickRate int    `validate:"min=1,max=1000"`
	HostLoopMS     int    `validate:"min=1"`
	MaxInputSecs   int    `validate:"min=0"`
}

// ValidateEnv checks the configuration values are usable.
func ValidateEnv() error {
	e := env{
		Env:            Env,
		LogLevel:       LogLevel,
		Port:           Port,
		Transport:      Transport,
		Secret:         Secret,
		ServerTickRate: ServerTickRate,
		ClientTickRate: ClientTickRate,
		HostLoopMS:     HostLoopMS,
		MaxInputSecs:   MaxInputSeconds,
	}
	if err := validate.Validate().Struct(e); err != nil {
		return errors.Wrap(err, "invalid configuration")
	}
	return nil
}
