// Package inspect exposes the latest state of a tree to other processes.
//
// A Store holds the most recent snapshot. Attach feeds it from a container's
// change notifications, on the goroutine that commits; the store's mutex is
// what makes the snapshot safe to read from an HTTP handler.
//
//	store := inspect.NewStore()
//	detach := inspect.Attach(store, app)
//	defer detach()
//
//	mux := http.NewServeMux()
//	mux.Handle(inspect.NewHandler(store, observer))
//
// The service is a single connect unary procedure taking
// google.protobuf.Empty and returning the snapshot as a
// google.protobuf.Struct, so it is callable from any connect, gRPC or
// gRPC-Web client without generated code.
package inspect
