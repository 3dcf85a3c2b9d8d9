// Package tasksapi describes the tasks.TasksService gRPC service. Messages
// are plain Go structs carried by the JSON codec, so the service descriptor
// below is maintained by hand in the shape protoc-gen-go-grpc would emit.
package tasksapi

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const ServiceName = "tasks.TasksService"

// NotificationsHealthService is the health-check name reporting whether a
// notification provider is configured.
const NotificationsHealthService = "tasks.Notifications"

const (
	TasksService_Login_FullMethodName                = "/tasks.TasksService/Login"
	TasksService_Me_FullMethodName                   = "/tasks.TasksService/Me"
	TasksService_ListTasks_FullMethodName            = "/tasks.TasksService/ListTasks"
	TasksService_GetTask_FullMethodName              = "/tasks.TasksService/GetTask"
	TasksService_UpdateTaskStatus_FullMethodName     = "/tasks.TasksService/UpdateTaskStatus"
	TasksService_ListPrincipals_FullMethodName       = "/tasks.TasksService/ListPrincipals"
	TasksService_SyncSubscriber_FullMethodName       = "/tasks.TasksService/SyncSubscriber"
	TasksService_ListNotifications_FullMethodName    = "/tasks.TasksService/ListNotifications"
	TasksService_MarkNotificationRead_FullMethodName = "/tasks.TasksService/MarkNotificationRead"
)

type TasksServiceServer interface {
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Me(context.Context, *MeRequest) (*MeResponse, error)
	ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error)
	GetTask(context.Context, *GetTaskRequest) (*GetTaskResponse, error)
	UpdateTaskStatus(context.Context, *UpdateTaskStatusRequest) (*UpdateTaskStatusResponse, error)
	ListPrincipals(context.Context, *ListPrincipalsRequest) (*ListPrincipalsResponse, error)
	SyncSubscriber(context.Context, *SyncSubscriberRequest) (*SyncSubscriberResponse, error)
	ListNotifications(context.Context, *ListNotificationsRequest) (*ListNotificationsResponse, error)
	MarkNotificationRead(context.Context, *MarkNotificationReadRequest) (*MarkNotificationReadResponse, error)
}

// UnimplementedTasksServiceServer can be embedded to have forward compatible implementations.
type UnimplementedTasksServiceServer struct{}

func (UnimplementedTasksServiceServer) Login(context.Context, *LoginRequest) (*LoginResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedTasksServiceServer) Me(context.Context, *MeRequest) (*MeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Me not implemented")
}
func (UnimplementedTasksServiceServer) ListTasks(context.Context, *ListTasksRequest) (*ListTasksResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTasks not implemented")
}
func (UnimplementedTasksServiceServer) GetTask(context.Context, *GetTaskRequest) (*GetTaskResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTask not implemented")
}
func (UnimplementedTasksServiceServer) UpdateTaskStatus(context.Context, *UpdateTaskStatusRequest) (*UpdateTaskStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method UpdateTaskStatus not implemented")
}
func (UnimplementedTasksServiceServer) ListPrincipals(context.Context, *ListPrincipalsRequest) (*ListPrincipalsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListPrincipals not implemented")
}
func (UnimplementedTasksServiceServer) SyncSubscriber(context.Context, *SyncSubscriberRequest) (*SyncSubscriberResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SyncSubscriber not implemented")
}
func (UnimplementedTasksServiceServer) ListNotifications(context.Context, *ListNotificationsRequest) (*ListNotificationsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListNotifications not implemented")
}
func (UnimplementedTasksServiceServer) MarkNotificationRead(context.Context, *MarkNotificationReadRequest) (*MarkNotificationReadResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method MarkNotificationRead not implemented")
}

func RegisterTasksServiceServer(s grpc.ServiceRegistrar, srv TasksServiceServer) {
	s.RegisterService(&TasksService_ServiceDesc, srv)
}

func unaryHandler[Req, Resp any](fullMethod string, call func(TasksServiceServer, context.Context, *Req) (*Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TasksServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TasksServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var TasksService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TasksServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Login", Handler: unaryHandler(TasksService_Login_FullMethodName, TasksServiceServer.Login)},
		{MethodName: "Me", Handler: unaryHandler(TasksService_Me_FullMethodName, TasksServiceServer.Me)},
		{MethodName: "ListTasks", Handler: unaryHandler(TasksService_ListTasks_FullMethodName, TasksServiceServer.ListTasks)},
		{MethodName: "GetTask", Handler: unaryHandler(TasksService_GetTask_FullMethodName, TasksServiceServer.GetTask)},
		{MethodName: "UpdateTaskStatus", Handler: unaryHandler(TasksService_UpdateTaskStatus_FullMethodName, TasksServiceServer.UpdateTaskStatus)},
		{MethodName: "ListPrincipals", Handler: unaryHandler(TasksService_ListPrincipals_FullMethodName, TasksServiceServer.ListPrincipals)},
		{MethodName: "SyncSubscriber", Handler: unaryHandler(TasksService_SyncSubscriber_FullMethodName, TasksServiceServer.SyncSubscriber)},
		{MethodName: "ListNotifications", Handler: unaryHandler(TasksService_ListNotifications_FullMethodName, TasksServiceServer.ListNotifications)},
		{MethodName: "MarkNotificationRead", Handler: unaryHandler(TasksService_MarkNotificationRead_FullMethodName, TasksServiceServer.MarkNotificationRead)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "tasks.json",
}
