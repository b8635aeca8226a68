package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"connectrpc.com/connect"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/tailored-agentic-units/statetree/observability"
)

const (
	// ServiceName is the fully qualified name of the inspection service.
	ServiceName = "statetree.inspect.v1.InspectService"

	// SnapshotProcedure is the path the Snapshot method is served on.
	SnapshotProcedure = "/" + ServiceName + "/Snapshot"
)

const EventSnapshot observability.EventType = "inspect.snapshot"

// ErrNoSnapshot is returned while nothing has been attached to the store.
var ErrNoSnapshot = errors.New("no snapshot recorded")

// NewHandler returns the path and handler serving store.
func NewHandler(store *Store, observer observability.Observer, opts ...connect.HandlerOption) (string, http.Handler) {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}

	h := connect.NewUnaryHandler(
		SnapshotProcedure,
		func(ctx context.Context, req *connect.Request[emptypb.Empty]) (*connect.Response[structpb.Struct], error) {
			snap, ok := store.Snapshot()
			if !ok {
				return nil, connect.NewError(connect.CodeUnavailable, ErrNoSnapshot)
			}

			msg, err := Encode(snap)
			if err != nil {
				return nil, connect.NewError(connect.CodeInternal, err)
			}

			observer.OnEvent(ctx, observability.Event{
				Type:      EventSnapshot,
				Level:     observability.LevelVerbose,
				Timestamp: time.Now(),
				Source:    "inspect",
				Data: map[string]any{
					"version":  snap.Version,
					"protocol": req.Peer().Protocol,
				},
			})

			return connect.NewResponse(msg), nil
		},
		opts...,
	)
	return SnapshotProcedure, h
}

// Encode converts snap to its wire form. State goes through encoding/json,
// so json tags on the state type control the field names.
func Encode(snap Snapshot) (*structpb.Struct, error) {
	state, err := json.Marshal(snap.State)
	if err != nil {
		return nil, fmt.Errorf("encode state: %w", err)
	}

	body, err := json.Marshal(struct {
		State     json.RawMessage `json:"state"`
		Version   uint64          `json:"version"`
		Action    string          `json:"action"`
		UpdatedAt time.Time       `json:"updated_at"`
	}{state, snap.Version, snap.Action, snap.UpdatedAt})
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}

	msg := &structpb.Struct{}
	if err := protojson.Unmarshal(body, msg); err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return msg, nil
}

// Decode is the inverse of Encode. State comes back as the generic JSON
// form of the original value.
func Decode(msg *structpb.Struct) (Snapshot, error) {
	fields := msg.GetFields()

	snap := Snapshot{
		Version: uint64(fields["version"].GetNumberValue()),
		Action:  fields["action"].GetStringValue(),
	}
	if v, ok := fields["state"]; ok {
		snap.State = v.AsInterface()
	}
	if ts := fields["updated_at"].GetStringValue(); ts != "" {
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return Snapshot{}, fmt.Errorf("decode updated_at: %w", err)
		}
		snap.UpdatedAt = t
	}
	return snap, nil
}

// Client calls a remote inspection service.
type Client struct {
	snapshot *connect.Client[emptypb.Empty, structpb.Struct]
}

// NewClient returns a client for the service at baseURL, for example
// "http://127.0.0.1:7790".
func NewClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{
		snapshot: connect.NewClient[emptypb.Empty, structpb.Struct](
			httpClient,
			strings.TrimRight(baseURL, "/")+SnapshotProcedure,
			opts...,
		),
	}
}

// Raw returns the snapshot message as served.
func (c *Client) Raw(ctx context.Context) (*structpb.Struct, error) {
	resp, err := c.snapshot.CallUnary(ctx, connect.NewRequest(&emptypb.Empty{}))
	if err != nil {
		return nil, err
	}
	return resp.Msg, nil
}

// Snapshot fetches and decodes the remote snapshot.
func (c *Client) Snapshot(ctx context.Context) (Snapshot, error) {
	msg, err := c.Raw(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return Decode(msg)
}
