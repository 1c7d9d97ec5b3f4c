package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"

	"hotelbook/internal/auth"
	"hotelbook/internal/models"
	"hotelbook/internal/service"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	availabilityServiceName = "hotelbook.availability.v1.AvailabilityService"

	methodSearchRooms    = "/" + availabilityServiceName + "/SearchRooms"
	methodGetRoom        = "/" + availabilityServiceName + "/GetRoom"
	methodListCategories = "/" + availabilityServiceName + "/ListCategories"
)

// AvailabilityServer is the read-only partner API. Requests and responses are
// google.protobuf.Struct values shaped like the HTTP JSON bodies.
type AvailabilityServer interface {
	SearchRooms(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetRoom(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListCategories(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// AvailabilityServiceDesc is registered by hand; no generated stubs are needed.
var AvailabilityServiceDesc = grpc.ServiceDesc{
	ServiceName: availabilityServiceName,
	HandlerType: (*AvailabilityServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "SearchRooms", Handler: structHandler(methodSearchRooms, AvailabilityServer.SearchRooms)},
		{MethodName: "GetRoom", Handler: structHandler(methodGetRoom, AvailabilityServer.GetRoom)},
		{MethodName: "ListCategories", Handler: structHandler(methodListCategories, AvailabilityServer.ListCategories)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "hotelbook/availability/v1/availability.proto",
}

type structMethod func(AvailabilityServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func structHandler(fullMethod string, call structMethod) func(any, context.Context, func(any) error, grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AvailabilityServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AvailabilityServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

type availabilityService struct {
	availability *service.AvailabilityService
	catalog      *service.CatalogService
}

func NewAvailabilityServer(availability *service.AvailabilityService, catalog *service.CatalogService) AvailabilityServer {
	return &availabilityService{availability: availability, catalog: catalog}
}

func (s *availabilityService) SearchRooms(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	filter, err := roomFilterFromStruct(req)
	if err != nil {
		return nil, grpcError(err)
	}

	rooms, err := s.availability.Search(ctx, auth.CallerFromContext(ctx), filter)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(map[string]any{"rooms": nonNil(rooms)})
}

func (s *availabilityService) GetRoom(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	id, err := int64Field(req, "id")
	if err != nil {
		return nil, grpcError(err)
	}
	if id <= 0 {
		return nil, grpcError(fmt.Errorf("%w: id is required", models.ErrValidation))
	}

	room, err := s.catalog.GetRoom(ctx, auth.CallerFromContext(ctx), id)
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(map[string]any{"room": room})
}

func (s *availabilityService) ListCategories(ctx context.Context, _ *structpb.Struct) (*structpb.Struct, error) {
	categories, err := s.catalog.ListCategories(ctx, auth.CallerFromContext(ctx))
	if err != nil {
		return nil, grpcError(err)
	}
	return toStruct(map[string]any{"categories": nonNil(categories)})
}

func roomFilterFromStruct(req *structpb.Struct) (models.RoomFilter, error) {
	var filter models.RoomFilter

	r, err := models.ParseDateRange(stringField(req, "start_date"), stringField(req, "end_date"))
	if err != nil {
		return filter, err
	}
	filter.DateRange = r

	for key, dst := range map[string]**models.Money{"min_price": &filter.MinPrice, "max_price": &filter.MaxPrice} {
		raw := stringField(req, key)
		if raw == "" {
			continue
		}
		m, err := models.ParseMoney(raw)
		if err != nil {
			return filter, fmt.Errorf("%s: %w", key, err)
		}
		*dst = &m
	}

	if _, ok := req.GetFields()["guests"]; ok {
		g, err := int64Field(req, "guests")
		if err != nil {
			return filter, err
		}
		guests := int(g)
		filter.MinGuests = &guests
	}
	return filter, nil
}

// stringField renders a string or number field as text; absent fields are "".
func stringField(s *structpb.Struct, key string) string {
	v, ok := s.GetFields()[key]
	if !ok {
		return ""
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_StringValue:
		return kind.StringValue
	case *structpb.Value_NumberValue:
		return strconv.FormatFloat(kind.NumberValue, 'f', -1, 64)
	default:
		return ""
	}
}

func int64Field(s *structpb.Struct, key string) (int64, error) {
	v, ok := s.GetFields()[key]
	if !ok {
		return 0, nil
	}
	switch kind := v.GetKind().(type) {
	case *structpb.Value_NumberValue:
		n := kind.NumberValue
		if n != math.Trunc(n) {
			return 0, fmt.Errorf("%w: %s must be an integer", models.ErrValidation, key)
		}
		return int64(n), nil
	case *structpb.Value_StringValue:
		n, err := strconv.ParseInt(kind.StringValue, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be an integer", models.ErrValidation, key)
		}
		return n, nil
	default:
		return 0, fmt.Errorf("%w: %s must be an integer", models.ErrValidation, key)
	}
}

// toStruct converts any JSON-serialisable value via its JSON form.
func toStruct(v any) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, grpcError(fmt.Errorf("encode response: %w", err))
	}
	out := new(structpb.Struct)
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, grpcError(fmt.Errorf("encode response: %w", err))
	}
	return out, nil
}
