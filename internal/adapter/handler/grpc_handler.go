package handler

import (
	"context"

	log "github.com/sirupsen/logrus"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/rl1809/canteen-orders/internal/adapter/handler/pb"
	"github.com/rl1809/canteen-orders/internal/core/domain"
	"github.com/rl1809/canteen-orders/internal/core/service"
	"github.com/rl1809/canteen-orders/internal/port"
)

const authorizationMDKey = "authorization"

// GRPCHandler serves status changes and live order streams to kitchen
// terminals and other internal clients.
type GRPCHandler struct {
	pb.UnimplementedOrderServiceServer

	orders  *service.Coordinator
	catalog *service.CatalogService
	status  statusAuthorizer
}

func NewGRPCHandler(orders *service.Coordinator, catalog *service.CatalogService) *GRPCHandler {
	return &GRPCHandler{
		orders:  orders,
		catalog: catalog,
		status:  statusAuthorizer{orders: orders, catalog: catalog},
	}
}

func (h *GRPCHandler) UpdateStatus(ctx context.Context, req *pb.UpdateStatusRequest) (*pb.UpdateStatusResponse, error) {
	caller, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	order, err := h.status.updateStatus(ctx, caller, req.GetOrderId(), domain.OrderStatus(req.GetStatus()))
	if err != nil {
		return nil, grpcError(err)
	}
	return &pb.UpdateStatusResponse{Order: toPBOrder(order)}, nil
}

func (h *GRPCHandler) CompleteOrder(ctx context.Context, req *pb.CompleteOrderRequest) (*pb.CompleteOrderResponse, error) {
	caller, err := grpcCaller(ctx)
	if err != nil {
		return nil, err
	}
	archived, err := h.status.completeOrder(ctx, caller, req.GetOrderId())
	if err != nil {
		return nil, grpcError(err)
	}
	return &pb.CompleteOrderResponse{Order: toPBArchivedOrder(archived)}, nil
}

func (h *GRPCHandler) WatchOrders(req *pb.WatchOrdersRequest, stream grpc.ServerStreamingServer[pb.OrdersSnapshot]) error {
	ctx := stream.Context()
	caller, err := grpcCaller(ctx)
	if err != nil {
		return err
	}

	var sub *service.Subscription
	if canteenID := req.GetCanteenId(); canteenID == "" {
		sub, err = h.orders.SubscribeToOrdersByUser(ctx, caller.UID)
	} else {
		if _, err = h.catalog.OwnedCanteen(ctx, caller.UID, canteenID); err == nil {
			sub, err = h.orders.SubscribeToOrdersByCanteen(ctx, canteenID)
		}
	}
	if err != nil {
		return grpcError(err)
	}
	defer sub.Close()

	for {
		select {
		case snap, ok := <-sub.C:
			if !ok {
				return status.Error(codes.Unavailable, "order feed closed")
			}
			if err := stream.Send(toPBSnapshot(snap)); err != nil {
				return err
			}
		case <-ctx.Done():
			return nil
		}
	}
}

func grpcCaller(ctx context.Context) (domain.Identity, error) {
	id, ok := identityFrom(ctx)
	if !ok {
		return domain.Identity{}, status.Error(codes.Unauthenticated, "missing identity")
	}
	return *id, nil
}

// UnaryAuthInterceptor verifies the bearer token carried in the
// authorization metadata.
func UnaryAuthInterceptor(identity port.IdentityProvider) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		ctx, err := authenticate(ctx, identity)
		if err != nil {
			return nil, err
		}
		return handler(ctx, req)
	}
}

func StreamAuthInterceptor(identity port.IdentityProvider) grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		ctx, err := authenticate(ss.Context(), identity)
		if err != nil {
			return err
		}
		return handler(srv, &authedStream{ServerStream: ss, ctx: ctx})
	}
}

func authenticate(ctx context.Context, identity port.IdentityProvider) (context.Context, error) {
	md, _ := metadata.FromIncomingContext(ctx)
	var token string
	if values := md.Get(authorizationMDKey); len(values) > 0 {
		token = bearerToken(values[0])
	}
	if token == "" {
		return nil, status.Error(codes.Unauthenticated, "authorization metadata is missing")
	}

	id, err := identity.Verify(ctx, token)
	if err != nil {
		log.WithError(err).Debug("grpc token rejected")
		return nil, grpcError(err)
	}
	return withIdentity(ctx, id), nil
}

type authedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (s *authedStream) Context() context.Context { return s.ctx }

func toPBSnapshot(snap service.Snapshot) *pb.OrdersSnapshot {
	orders := sortedOrders(snap)
	out := &pb.OrdersSnapshot{Orders: make([]*pb.Order, 0, len(orders))}
	for _, order := range orders {
		out.Orders = append(out.Orders, toPBOrder(order))
	}
	return out
}

func toPBOrder(order domain.Order) *pb.Order {
	out := &pb.Order{
		OrderId:        order.ID,
		UserId:         order.UserID,
		CanteenId:      order.CanteenID,
		CanteenName:    order.CanteenName,
		Cart:           make([]*pb.CartItem, 0, len(order.Cart)),
		PaymentMethod:  order.PaymentMethod,
		PaymentOrderId: order.PaymentOrderID,
		OrderStatus:    string(order.Status),
		Version:        order.Version,
		CreatedAt:      timestamppb.New(order.CreatedAt),
		UpdatedAt:      timestamppb.New(order.UpdatedAt),
	}
	if order.ScheduledTime != nil {
		out.ScheduledTime = timestamppb.New(*order.ScheduledTime)
	}
	for _, item := range order.Cart {
		out.Cart = append(out.Cart, &pb.CartItem{
			Id:       item.ID,
			Name:     item.Name,
			Price:    item.Price,
			Quantity: int32(item.Quantity),
		})
	}
	return out
}

func toPBArchivedOrder(archived domain.ArchivedOrder) *pb.ArchivedOrder {
	return &pb.ArchivedOrder{
		ArchiveId:  archived.ArchiveID,
		Order:      toPBOrder(archived.Order),
		ArchivedAt: timestamppb.New(archived.ArchivedAt),
	}
}
