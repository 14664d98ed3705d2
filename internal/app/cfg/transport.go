package cfg

import (
	"netdemo/internal"
	"netdemo/internal/app/apps"
)

// AddrCfg is the address a client dials or a server binds.
type AddrCfg struct {
	addr string
}

// NewAddrCfg creates a new AddrCfg.
func NewAddrCfg(addr string) *AddrCfg {
	return &AddrCfg{addr: addr}
}

// AddrFromEnv creates a new AddrCfg from the current environment.
func AddrFromEnv() *AddrCfg {
	return &AddrCfg{addr: internal.Addr}
}

// ApplyClientApp applies the AddrCfg to a ClientApp.
func (cfg AddrCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Addr = cfg.addr
	return nil
}

// ApplyServerApp applies the AddrCfg to a ServerApp.
func (cfg AddrCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Addr = cfg.addr
	return nil
}

// ApplyHostApp applies the AddrCfg to a HostApp.
func (cfg AddrCfg) ApplyHostApp(app *apps.HostApp) error {
	return cfg.ApplyServerApp(&app.ServerApp)
}

// TransportCfg selects the network transport.
type TransportCfg struct {
	transport string
}

// NewTransportCfg creates a new TransportCfg.
func NewTransportCfg(transport string) *TransportCfg {
	return &TransportCfg{transport: transport}
}

// TransportFromEnv creates a new TransportCfg from the current environment.
func TransportFromEnv() *TransportCfg {
	return &TransportCfg{transport: internal.Transport}
}

// ApplyClientApp applies the TransportCfg to a ClientApp.
func (cfg TransportCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Transport = cfg.transport
	return nil
}

// ApplyServerApp applies the TransportCfg to a ServerApp.
func (cfg TransportCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Transport = cfg.transport
	return nil
}

// ApplyHostApp applies the TransportCfg to a HostApp.
func (cfg TransportCfg) ApplyHostApp(app *apps.HostApp) error {
	return cfg.ApplyServerApp(&app.ServerApp)
}

// SecretCfg is the handshake secret shared by clients and server.
type SecretCfg struct {
	secret string
}

// NewSecretCfg creates a new SecretCfg.
func NewSecretCfg(secret string) *SecretCfg {
	return &SecretCfg{secret: secret}
}

// SecretFromEnv creates a new SecretCfg from the current environment.
func SecretFromEnv() *SecretCfg {
	return &SecretCfg{secret: internal.Secret}
}

// ApplyClientApp applies the SecretCfg to a ClientApp.
func (cfg SecretCfg) ApplyClientApp(app *apps.ClientApp) error {
	app.Secret = cfg.secret
	return nil
}

// ApplyServerApp applies the SecretCfg to a ServerApp.
func (cfg SecretCfg) ApplyServerApp(app *apps.ServerApp) error {
	app.Secret = cfg.secret
	return nil
}

// ApplyHostApp applies the SecretCfg to a HostApp.
func (cfg SecretCfg) ApplyHostApp(app *apps.HostApp) error {
	return cfg.ApplyServerApp(&app.ServerApp)
}
