package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.client.Call("Lendwire.Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestList returns requests optionally filtered by status.
func (c *Client) RequestList(status string) (*RequestListResponse, error) {
	var resp RequestListResponse
	if err := c.client.Call("Lendwire.RequestList", RequestListRequest{Status: status}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestDescribe returns details for a single request.
func (c *Client) RequestDescribe(id string) (*RequestDescribeResponse, error) {
	var resp RequestDescribeResponse
	if err := c.client.Call("Lendwire.RequestDescribe", RequestDescribeRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestCreate submits a new disbursement request.
func (c *Client) RequestCreate(borrowerName string, loanAmount float64) (*RequestCreateResponse, error) {
	var resp RequestCreateResponse
	req := RequestCreateRequest{BorrowerName: borrowerName, LoanAmount: loanAmount}
	if err := c.client.Call("Lendwire.RequestCreate", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RequestUpdateStatus moves a request to a new status.
func (c *Client) RequestUpdateStatus(id, status string) (*RequestUpdateStatusResponse, error) {
	var resp RequestUpdateStatusResponse
	req := RequestUpdateStatusRequest{ID: id, Status: status}
	if err := c.client.Call("Lendwire.RequestUpdateStatus", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stats retrieves aggregate statistics.
func (c *Client) Stats() (*StatsResponse, error) {
	var resp StatsResponse
	if err := c.client.Call("Lendwire.Stats", StatsRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotify probes every configured webhook via the daemon.
func (c *Client) TestNotify() (*TestNotifyResponse, error) {
	var resp TestNotifyResponse
	if err := c.client.Call("Lendwire.TestNotify", TestNotifyRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// NotifyLog retrieves recent delivery attempts.
func (c *Client) NotifyLog(limit int) (*NotifyLogResponse, error) {
	var resp NotifyLogResponse
	if err := c.client.Call("Lendwire.NotifyLog", NotifyLogRequest{Limit: limit}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
