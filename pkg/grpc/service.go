package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
)

// The poll service is declared by hand over well-known types: every request is
// the device identifier (or MAC for Register) as a StringValue.
const (
	ServiceName = "plant.DevicePoll"

	MethodRegister   = "/" + ServiceName + "/Register"
	MethodGetCommand = "/" + ServiceName + "/GetCommand"
	MethodAckCommand = "/" + ServiceName + "/AckCommand"
	MethodPollReset  = "/" + ServiceName + "/PollReset"
)

type DevicePollServer interface {
	Register(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	GetCommand(context.Context, *wrapperspb.StringValue) (*structpb.Struct, error)
	AckCommand(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
	PollReset(context.Context, *wrapperspb.StringValue) (*wrapperspb.BoolValue, error)
}

func methodHandler[R proto.Message](
	fullMethod string,
	call func(DevicePollServer, context.Context, *wrapperspb.StringValue) (R, error),
) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(wrapperspb.StringValue)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(DevicePollServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(DevicePollServer), ctx, req.(*wrapperspb.StringValue))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var DevicePollServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*DevicePollServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Register", Handler: methodHandler(MethodRegister, DevicePollServer.Register)},
		{MethodName: "GetCommand", Handler: methodHandler(MethodGetCommand, DevicePollServer.GetCommand)},
		{MethodName: "AckCommand", Handler: methodHandler(MethodAckCommand, DevicePollServer.AckCommand)},
		{MethodName: "PollReset", Handler: methodHandler(MethodPollReset, DevicePollServer.PollReset)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "plant/device_poll.proto",
}

func RegisterDevicePollServer(s grpc.ServiceRegistrar, srv DevicePollServer) {
	s.RegisterService(&DevicePollServiceDesc, srv)
}

type DevicePollClient struct {
	cc grpc.ClientConnInterface
}

func NewDevicePollClient(cc grpc.ClientConnInterface) *DevicePollClient {
	return &DevicePollClient{cc: cc}
}

func (c *DevicePollClient) Register(ctx context.Context, mac string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodRegister, wrapperspb.String(mac), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DevicePollClient) GetCommand(ctx context.Context, identifier string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MethodGetCommand, wrapperspb.String(identifier), out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *DevicePollClient) AckCommand(ctx context.Context, identifier string, opts ...grpc.CallOption) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, MethodAckCommand, wrapperspb.String(identifier), out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}

func (c *DevicePollClient) PollReset(ctx context.Context, identifier string, opts ...grpc.CallOption) (bool, error) {
	out := new(wrapperspb.BoolValue)
	if err := c.cc.Invoke(ctx, MethodPollReset, wrapperspb.String(identifier), out, opts...); err != nil {
		return false, err
	}
	return out.GetValue(), nil
}
