// Package pb holds the generated canteen.v1 OrderService stubs.
package pb

//go:generate protoc -I ../../../../proto --go_out=. --go_opt=paths=source_relative,Mcanteen/v1/order_service.proto=github.com/rl1809/canteen-orders/internal/adapter/handler/pb --go-grpc_out=. --go-grpc_opt=paths=source_relative,Mcanteen/v1/order_service.proto=github.com/rl1809/canteen-orders/internal/adapter/handler/pb canteen/v1/order_service.proto
