package grpc

import (
	"context"
	"fmt"

	z "github.com/Oudwins/zog"
	"go.uber.org/zap"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"
	"liyu1981.xyz/plant-monitor-service/pkg/common"
)

func validateIdentifier(identifier *string) z.ZogIssueList {
	var identifierValidator = z.String().Min(1).Required()
	return identifierValidator.Validate(identifier)
}

// toStatus maps core error kinds onto gRPC codes.
func toStatus(method string, err error) error {
	code := codes.Internal
	switch common.ErrorKind(err) {
	case "not_found":
		code = codes.NotFound
	case "conflict":
		code = codes.AlreadyExists
	case "validation":
		code = codes.InvalidArgument
	case "external":
		code = codes.Unavailable
	}
	if code == codes.Internal || code == codes.Unavailable {
		common.GetLoggerWith(common.LoggerNameGrpcServer).Error("Call failed",
			zap.String("method", method),
			zap.String("code", code.String()),
			zap.Error(err))
	}
	return status.Error(code, err.Error())
}

func (s *PlantServer) Register(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	mac := req.GetValue()
	if err := validateIdentifier(&mac); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}

	device, outcome, err := s.Plant.Registry.RegisterAuto(mac)
	if err != nil {
		return nil, toStatus(MethodRegister, err)
	}

	return structpb.NewStruct(map[string]any{
		"outcome":    string(outcome),
		"id":         device.ID,
		"identifier": device.Identifier(),
		"name":       device.DisplayName,
	})
}

func (s *PlantServer) GetCommand(ctx context.Context, req *wrapperspb.StringValue) (*structpb.Struct, error) {
	identifier := req.GetValue()
	if err := validateIdentifier(&identifier); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}

	cmd, ok := s.Plant.Mailbox.GetCommand(identifier)
	if !ok {
		return structpb.NewStruct(map[string]any{"pending": false})
	}
	return structpb.NewStruct(map[string]any{
		"pending": true,
		"kind":    int(cmd.Kind),
		"value":   cmd.Value,
	})
}

func (s *PlantServer) AckCommand(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	identifier := req.GetValue()
	if err := validateIdentifier(&identifier); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}

	return wrapperspb.Bool(s.Plant.Mailbox.Acknowledge(identifier)), nil
}

func (s *PlantServer) PollReset(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	identifier := req.GetValue()
	if err := validateIdentifier(&identifier); err != nil {
		return nil, status.Errorf(codes.InvalidArgument, "validation error: %v", err)
	}

	pending, err := s.Plant.Reset.PollAndClear(identifier)
	if err != nil {
		return nil, toStatus(MethodPollReset, fmt.Errorf("poll reset %s: %w", identifier, err))
	}
	return wrapperspb.Bool(pending), nil
}
