package grpc

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
	"liyu1981.xyz/plant-monitor-service/pkg/db"
	"liyu1981.xyz/plant-monitor-service/pkg/models"
	"liyu1981.xyz/plant-monitor-service/pkg/plant"
	"liyu1981.xyz/plant-monitor-service/pkg/sheets"
	_ "liyu1981.xyz/plant-monitor-service/pkg/testing"
)

const bufSize = 1024 * 1024

func startTestServer(t *testing.T, limiter *plant.RateLimiterStore) (*DevicePollClient, *plant.Plant) {
	listener := bufconn.Listen(bufSize)

	dbInstance, err := db.NewInstance(db.UseIsolatedMemorySqliteDialector())
	require.NoError(t, err)
	wb, err := sheets.NewWorkbook(t.TempDir())
	require.NoError(t, err)

	plantCore := &plant.Plant{
		Db:       *dbInstance,
		Store:    wb,
		SourceID: "plants",
	}
	plantCore.WithDefaultServices()

	plantServer := PlantServer{Plant: plantCore, RateLimiterStore: limiter}
	interceptor := grpc.UnaryInterceptor(plantServer.CreateRateLimitInterceptor([]string{
		MethodRegister,
		MethodGetCommand,
		MethodAckCommand,
		MethodPollReset,
	}))
	server := grpc.NewServer(interceptor)
	RegisterDevicePollServer(server, &plantServer)

	go func() {
		_ = server.Serve(listener)
	}()
	t.Cleanup(server.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, s string) (net.Conn, error) {
			return listener.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	return NewDevicePollClient(conn), plantCore
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestRegister(t *testing.T) {
	common.SetTestLoggerNop()
	client, _ := startTestServer(t, nil)
	ctx := testContext(t)

	resp, err := client.Register(ctx, "aa:bb:cc:dd:ee:ff")
	require.NoError(t, err)
	assert.Equal(t, string(models.PairingCreatedNew), resp.GetFields()["outcome"].GetStringValue())
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", resp.GetFields()["identifier"].GetStringValue())
	assert.Equal(t, "Plant-EEFF", resp.GetFields()["name"].GetStringValue())

	resp, err = client.Register(ctx, "AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	assert.Equal(t, string(models.PairingAlreadyPaired), resp.GetFields()["outcome"].GetStringValue())
}

func TestRegisterEdgeCases(t *testing.T) {
	common.SetTestLoggerNop()
	client, _ := startTestServer(t, nil)
	ctx := testContext(t)

	_, err := client.Register(ctx, "")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.Register(ctx, "not-a-mac")
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestCommandPolling(t *testing.T) {
	common.SetTestLoggerNop()
	client, plantCore := startTestServer(t, nil)
	ctx := testContext(t)

	mac := "AA:BB:CC:DD:EE:01"

	resp, err := client.GetCommand(ctx, mac)
	require.NoError(t, err)
	assert.False(t, resp.GetFields()["pending"].GetBoolValue())

	require.NoError(t, plantCore.Mailbox.SetCommand(mac, models.CommandSetMoistureThreshold, 10))
	require.NoError(t, plantCore.Mailbox.SetCommand(mac, models.CommandSetAutoWatering, 1))

	resp, err = client.GetCommand(ctx, mac)
	require.NoError(t, err)
	assert.True(t, resp.GetFields()["pending"].GetBoolValue())
	assert.Equal(t, 4.0, resp.GetFields()["kind"].GetNumberValue())
	assert.Equal(t, 1.0, resp.GetFields()["value"].GetNumberValue())

	acked, err := client.AckCommand(ctx, mac)
	require.NoError(t, err)
	assert.True(t, acked)

	acked, err = client.AckCommand(ctx, mac)
	require.NoError(t, err)
	assert.False(t, acked)
}

func TestPollReset(t *testing.T) {
	common.SetTestLoggerNop()
	client, plantCore := startTestServer(t, nil)
	ctx := testContext(t)

	mac := "AA:BB:CC:DD:EE:02"
	_, err := client.Register(ctx, mac)
	require.NoError(t, err)
	require.NoError(t, plantCore.Reset.RequestReset(mac))

	pending, err := client.PollReset(ctx, mac)
	require.NoError(t, err)
	assert.True(t, pending)

	pending, err = client.PollReset(ctx, mac)
	require.NoError(t, err)
	assert.False(t, pending)

	pending, err = client.PollReset(ctx, "FF:FF:FF:FF:FF:FF")
	require.NoError(t, err)
	assert.False(t, pending)
}

func TestLowercaseMACPolling(t *testing.T) {
	common.SetTestLoggerNop()
	client, plantCore := startTestServer(t, nil)
	ctx := testContext(t)

	mac := "aa:bb:cc:dd:ee:03"
	resp, err := client.Register(ctx, mac)
	require.NoError(t, err)
	identifier := resp.GetFields()["identifier"].GetStringValue()
	assert.Equal(t, "AA:BB:CC:DD:EE:03", identifier)

	resp, err = client.Register(ctx, "AA-BB-CC-DD-EE-03")
	require.NoError(t, err)
	assert.Equal(t, string(models.PairingAlreadyPaired), resp.GetFields()["outcome"].GetStringValue())

	require.NoError(t, plantCore.Mailbox.SetCommand(identifier, models.CommandTriggerWatering, 1))
	require.NoError(t, plantCore.Reset.RequestReset(identifier))

	cmd, err := client.GetCommand(ctx, mac)
	require.NoError(t, err)
	assert.True(t, cmd.GetFields()["pending"].GetBoolValue())
	assert.Equal(t, 3.0, cmd.GetFields()["kind"].GetNumberValue())

	acked, err := client.AckCommand(ctx, mac)
	require.NoError(t, err)
	assert.True(t, acked)

	pending, err := client.PollReset(ctx, mac)
	require.NoError(t, err)
	assert.True(t, pending)
}

func TestRateLimitInterceptor(t *testing.T) {
	common.SetTestLoggerNop()
	client, _ := startTestServer(t, plant.NewRateLimiterStore(0, 1))
	ctx := testContext(t)

	_, err := client.GetCommand(ctx, "AA:BB")
	require.NoError(t, err)

	_, err = client.GetCommand(ctx, "AA:BB")
	assert.Equal(t, codes.ResourceExhausted, status.Code(err))

	_, err = client.PollReset(ctx, "CC:DD")
	assert.NoError(t, err)
}

func TestToStatus(t *testing.T) {
	common.SetTestLoggerNop()

	cases := []struct {
		err  error
		code codes.Code
	}{
		{common.NotFoundf("device 1"), codes.NotFound},
		{common.Conflictf("mac taken"), codes.AlreadyExists},
		{common.Validationf("bad mac"), codes.InvalidArgument},
		{common.ExternalError("read rows", errors.New("timeout")), codes.Unavailable},
		{errors.New("boom"), codes.Internal},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.code, status.Code(toStatus("/test", tc.err)), tc.err.Error())
	}
}
