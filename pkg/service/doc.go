// Package service exposes a health device manager to client processes.
//
// Service accepts IPC connections, gives each one a client id and routes
// its requests to the manager with that client as the owner. Events the
// manager raises for a client are encoded by the NotificationDispatcher
// and written back on the client's connection. When a connection closes
// the manager releases everything the client owned.
//
// Example usage:
//
//	dispatcher := service.NewNotificationDispatcher(protocolLog)
//	mgr := manager.New(manager.Config{}, st, dm, dispatcher)
//	mgr.Start(ctx)
//
//	svc, err := service.New(service.Config{SocketPath: "/run/hdpm.sock"}, mgr, dispatcher)
//	svc.Start(ctx)
//	defer svc.Stop()
package service
