package server

import (
	"context"
	"errors"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/nainya/ffversion/internal/metrics"
	"github.com/nainya/ffversion/pkg/firefox"
)

// Releases service method names
const (
	ReleasesServiceName  = "ffversion.v1.Releases"
	ReleasesGetVersion   = "/ffversion.v1.Releases/GetVersion"
	ReleasesGetSourceURL = "/ffversion.v1.Releases/GetSourceURL"
	ReleasesGetVersions  = "/ffversion.v1.Releases/GetVersions"
)

// ReleasesServer is the server API for the Releases service. Requests and
// responses use protobuf well-known types so no generated stubs are needed.
type ReleasesServer interface {
	// GetVersion resolves a channel key to its current version
	GetVersion(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	// GetSourceURL resolves a channel key to its source tarball URL
	GetSourceURL(context.Context, *wrapperspb.StringValue) (*wrapperspb.StringValue, error)
	// GetVersions returns every channel's version from a single fetch
	GetVersions(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

// RegisterReleasesServer registers srv on s
func RegisterReleasesServer(s grpc.ServiceRegistrar, srv ReleasesServer) {
	s.RegisterService(&releasesServiceDesc, srv)
}

var releasesServiceDesc = grpc.ServiceDesc{
	ServiceName: ReleasesServiceName,
	HandlerType: (*ReleasesServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "GetVersion", Handler: releasesGetVersionHandler},
		{MethodName: "GetSourceURL", Handler: releasesGetSourceURLHandler},
		{MethodName: "GetVersions", Handler: releasesGetVersionsHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ffversion/v1/releases.proto",
}

func releasesGetVersionHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReleasesServer).GetVersion(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReleasesGetVersion}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReleasesServer).GetVersion(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func releasesGetSourceURLHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(wrapperspb.StringValue)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReleasesServer).GetSourceURL(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReleasesGetSourceURL}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReleasesServer).GetSourceURL(ctx, req.(*wrapperspb.StringValue))
	}
	return interceptor(ctx, in, info, handler)
}

func releasesGetVersionsHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(ReleasesServer).GetVersions(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: ReleasesGetVersions}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(ReleasesServer).GetVersions(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// ReleasesClient is the client API for the Releases service
type ReleasesClient struct {
	cc grpc.ClientConnInterface
}

// NewReleasesClient creates a client over cc
func NewReleasesClient(cc grpc.ClientConnInterface) *ReleasesClient {
	return &ReleasesClient{cc: cc}
}

func (c *ReleasesClient) GetVersion(ctx context.Context, target string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, ReleasesGetVersion, wrapperspb.String(target), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

func (c *ReleasesClient) GetSourceURL(ctx context.Context, target string, opts ...grpc.CallOption) (string, error) {
	out := new(wrapperspb.StringValue)
	if err := c.cc.Invoke(ctx, ReleasesGetSourceURL, wrapperspb.String(target), out, opts...); err != nil {
		return "", err
	}
	return out.GetValue(), nil
}

func (c *ReleasesClient) GetVersions(ctx context.Context, opts ...grpc.CallOption) (map[string]string, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, ReleasesGetVersions, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	versions := make(map[string]string, len(out.GetFields()))
	for k, v := range out.GetFields() {
		versions[k] = v.GetStringValue()
	}
	return versions, nil
}

// ReleaseService implements ReleasesServer on top of a resolver
type ReleaseService struct {
	resolver *firefox.Resolver
	metrics  *metrics.Metrics
}

// NewReleaseService creates the gRPC Releases implementation
func NewReleaseService(resolver *firefox.Resolver, m *metrics.Metrics) *ReleaseService {
	return &ReleaseService{resolver: resolver, metrics: m}
}

func (s *ReleaseService) GetVersion(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	res, err := s.resolve(ctx, req.GetValue())
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(res.Version), nil
}

func (s *ReleaseService) GetSourceURL(ctx context.Context, req *wrapperspb.StringValue) (*wrapperspb.StringValue, error) {
	res, err := s.resolve(ctx, req.GetValue())
	if err != nil {
		return nil, err
	}
	return wrapperspb.String(res.SourceURL()), nil
}

func (s *ReleaseService) GetVersions(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	versions, err := s.resolver.ResolveAll(ctx)
	if err != nil {
		return nil, statusFromError(err)
	}

	fields := make(map[string]*structpb.Value, len(versions))
	for c, v := range versions {
		fields[c.Key()] = structpb.NewStringValue(v)
	}
	return &structpb.Struct{Fields: fields}, nil
}

func (s *ReleaseService) resolve(ctx context.Context, target string) (firefox.Resolution, error) {
	if target == "" {
		return firefox.Resolution{}, status.Error(codes.InvalidArgument, "target is required")
	}

	res, err := s.resolver.Resolve(ctx, target)
	if err != nil {
		return res, statusFromError(err)
	}

	s.metrics.RecordChannelLookup(res.Channel.String())
	return res, nil
}

// statusFromError maps resolver failures onto gRPC codes
func statusFromError(err error) error {
	switch {
	case errors.Is(err, firefox.ErrInvalidChannel):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	case errors.Is(err, firefox.ErrUpstream):
		return status.Errorf(codes.Unavailable, "failed to fetch versions: %v", err)
	default:
		return status.Errorf(codes.Internal, "failed to resolve version: %v", err)
	}
}
