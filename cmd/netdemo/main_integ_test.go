package main_test

import (
	"context"
	"net"
	"sync"
	"testing"
	"time"

	"netdemo/internal/app/apps"
	"netdemo/internal/app/cfg"

	"github.com/stretchr/testify/require"
)

func TestServerAndClients(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip()
	}
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	port := cfg.NewPortCfg(uint16(lis.Addr().(*net.TCPAddr).Port))
	require.NoError(t, lis.Close())
	addr := cfg.NewAddrCfg("127.0.0.1")

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	var wg sync.WaitGroup
	wg.Add(3)
	go func() {
		defer wg.Done()
		s, err := apps.NewServerApp(addr, port, cfg.NewTransportCfg(apps.TransportWebSocket))
		require.NoError(t, err)
		require.NoError(t, s.Run(ctx, nil))
	}()
	// give the listener a moment before the clients dial
	time.Sleep(200 * time.Millisecond)
	clientCtx, clientCancel := context.WithTimeout(ctx, time.Second)
	defer clientCancel()
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			c, err := apps.NewClientApp(addr, port, cfg.NewTransportCfg(apps.TransportWebSocket), cfg.NewFeatureCfg(true, true, true))
			require.NoError(t, err)
			require.NoError(t, c.Run(clientCtx, nil))
		}()
	}
	wg.Wait()
}
