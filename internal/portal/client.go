// Package portal is the client-side core of the photo portal: phone lookup,
// simulated photo upload, staff approval and activation, dashboards and the
// application state that drives the views. Everything talks to the REST API
// through Client.
package portal

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/fotosexpress/portal/internal/api/dto"
	"github.com/fotosexpress/portal/internal/domain"
	apperrors "github.com/fotosexpress/portal/pkg/util/errorutil"
)

// DefaultTimeout bounds every call so a lookup never stays searching forever.
const DefaultTimeout = 10 * time.Second

// Client talks to the REST API. It is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu    sync.RWMutex
	token string
}

// ClientOption customizes a Client.
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient builds a client for the API rooted at baseURL, e.g. http://localhost:8001/api.
func NewClient(baseURL string, opts ...ClientOption) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetToken sets the bearer token sent with every request. Empty clears it.
func (c *Client) SetToken(token string) {
	c.mu.Lock()
	c.token = token
	c.mu.Unlock()
}

// Token returns the current bearer token.
func (c *Client) Token() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.token
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() {
	c.httpClient.CloseIdleConnections()
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

// do sends one request. Transport failures, timeouts, gateway errors and 404s
// that did not come from an API route become connection errors; any other
// non-2xx response is decoded from the error envelope.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return apperrors.NewInternalError(err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token := c.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return apperrors.NewConnectionError(err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperrors.NewConnectionError(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	var env dataEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("decode response: %w", err))
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return apperrors.NewInternalError(fmt.Errorf("decode data: %w", err))
	}
	return nil
}

func decodeError(status int, raw []byte) error {
	var env dto.ErrorEnvelope
	if err := json.Unmarshal(raw, &env); err != nil || env.Error.Code == "" {
		switch status {
		case http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
			return apperrors.NewConnectionError(fmt.Errorf("status %d", status))
		case http.StatusNotFound:
			// Something other than the API answered: a wrong base URL or a proxy.
			return apperrors.NewConnectionError(fmt.Errorf("status %d without error body", status))
		}
		return apperrors.NewInternalError(fmt.Errorf("unexpected status %d", status))
	}
	if env.Error.Code == apperrors.CodeRouteNotFound {
		return apperrors.NewConnectionError(errors.New(env.Error.Message))
	}
	return &apperrors.DomainError{
		Code:       env.Error.Code,
		Message:    env.Error.Message,
		HTTPStatus: status,
		Details:    env.Error.Details,
	}
}

// IsConnectionError reports whether err means the API was unreachable.
func IsConnectionError(err error) bool {
	return apperrors.Is(err, apperrors.CodeConnection) || errors.Is(err, context.DeadlineExceeded)
}

func clientsPath(kind domain.ClientKind) (string, error) {
	switch kind {
	case domain.ClientKindAmbulant:
		return "/ambulant-clients", nil
	case domain.ClientKindActivity:
		return "/activity-clients", nil
	}
	return "", apperrors.NewValidationError("unknown client kind", map[string]any{"kind": kind})
}

// ListZones returns every zone.
func (c *Client) ListZones(ctx context.Context) ([]dto.ZoneResponse, error) {
	var out []dto.ZoneResponse
	err := c.do(ctx, http.MethodGet, "/zones", nil, nil, &out)
	return out, err
}

// ListBusinesses returns every business.
func (c *Client) ListBusinesses(ctx context.Context) ([]dto.BusinessResponse, error) {
	var out []dto.BusinessResponse
	err := c.do(ctx, http.MethodGet, "/businesses", nil, nil, &out)
	return out, err
}

// ListActivities returns every activity.
func (c *Client) ListActivities(ctx context.Context) ([]dto.ActivityResponse, error) {
	var out []dto.ActivityResponse
	err := c.do(ctx, http.MethodGet, "/activities", nil, nil, &out)
	return out, err
}

// ListClients returns every client record of kind.
func (c *Client) ListClients(ctx context.Context, kind domain.ClientKind) ([]domain.ClientRecord, error) {
	path, err := clientsPath(kind)
	if err != nil {
		return nil, err
	}
	return c.listClients(ctx, path)
}

// ListClientsForStaff returns the records in the zones or activities assigned to staffID.
func (c *Client) ListClientsForStaff(ctx context.Context, kind domain.ClientKind, staffID string) ([]domain.ClientRecord, error) {
	path, err := clientsPath(kind)
	if err != nil {
		return nil, err
	}
	return c.listClients(ctx, path+"/staff/"+url.PathEscape(staffID))
}

func (c *Client) listClients(ctx context.Context, path string) ([]domain.ClientRecord, error) {
	var out []dto.ClientResponse
	if err := c.do(ctx, http.MethodGet, path, nil, nil, &out); err != nil {
		return nil, err
	}
	records := make([]domain.ClientRecord, 0, len(out))
	for _, r := range out {
		records = append(records, r.ToDomain())
	}
	return records, nil
}

// ListServices returns every service request.
func (c *Client) ListServices(ctx context.Context) ([]dto.ServiceRequestResponse, error) {
	var out []dto.ServiceRequestResponse
	err := c.do(ctx, http.MethodGet, "/services", nil, nil, &out)
	return out, err
}

// ListApplications returns every staff application.
func (c *Client) ListApplications(ctx context.Context) ([]domain.StaffApplication, error) {
	var out []dto.StaffApplicationResponse
	if err := c.do(ctx, http.MethodGet, "/staff", nil, nil, &out); err != nil {
		return nil, err
	}
	apps := make([]domain.StaffApplication, 0, len(out))
	for _, a := range out {
		apps = append(apps, a.ToDomain())
	}
	return apps, nil
}

// ListStaffUsers returns every staff account.
func (c *Client) ListStaffUsers(ctx context.Context) ([]domain.StaffUser, error) {
	var out []dto.StaffUserResponse
	if err := c.do(ctx, http.MethodGet, "/staff/users", nil, nil, &out); err != nil {
		return nil, err
	}
	users := make([]domain.StaffUser, 0, len(out))
	for _, u := range out {
		users = append(users, u.ToDomain())
	}
	return users, nil
}

// FindClientByPhone is the lookup call. A missing record is a NOT_FOUND error
// whose details name the client resource.
func (c *Client) FindClientByPhone(ctx context.Context, scope Scope, phone string) (*domain.ClientRecord, error) {
	path, err := clientsPath(scope.Kind)
	if err != nil {
		return nil, err
	}
	var query url.Values
	if scope.Kind == domain.ClientKindActivity {
		query = url.Values{}
		query.Set("negocioId", scope.BusinessID)
		query.Set("actividadId", scope.ActivityID)
	}
	var out dto.ClientResponse
	if err := c.do(ctx, http.MethodGet, path+"/phone/"+url.PathEscape(phone), query, nil, &out); err != nil {
		return nil, err
	}
	rec := out.ToDomain()
	return &rec, nil
}

// DeliverPhotos effects the delivery transition on the server.
func (c *Client) DeliverPhotos(ctx context.Context, kind domain.ClientKind, id string, photos []string, staffRef string) (*domain.ClientRecord, error) {
	path, err := clientsPath(kind)
	if err != nil {
		return nil, err
	}
	var out dto.ClientResponse
	body := dto.DeliverPhotosRequest{Photos: photos, StaffID: staffRef}
	if err := c.do(ctx, http.MethodPut, path+"/"+url.PathEscape(id)+"/photos", nil, body, &out); err != nil {
		return nil, err
	}
	rec := out.ToDomain()
	return &rec, nil
}

// AssignZoneStaff replaces the staff assigned to a zone.
func (c *Client) AssignZoneStaff(ctx context.Context, zoneID string, staffIDs []string) (*dto.ZoneResponse, error) {
	var out dto.ZoneResponse
	err := c.do(ctx, http.MethodPut, "/zones/"+url.PathEscape(zoneID)+"/staff", nil, dto.AssignStaffRequest{StaffIDs: staffIDs}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// AssignActivityStaff replaces the staff assigned to an activity.
func (c *Client) AssignActivityStaff(ctx context.Context, activityID string, staffIDs []string) (*dto.ActivityResponse, error) {
	var out dto.ActivityResponse
	err := c.do(ctx, http.MethodPut, "/activities/"+url.PathEscape(activityID)+"/staff", nil, dto.AssignStaffRequest{StaffIDs: staffIDs}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete removes a resource, e.g. Delete(ctx, "zones", "Z01").
func (c *Client) Delete(ctx context.Context, resource, id string) error {
	return c.do(ctx, http.MethodDelete, "/"+strings.Trim(resource, "/")+"/"+url.PathEscape(id), nil, nil, nil)
}

// Approve approves a pending application.
func (c *Client) Approve(ctx context.Context, applicationID string) (*dto.ApprovalResponse, error) {
	var out dto.ApprovalResponse
	if err := c.do(ctx, http.MethodPost, "/staff/approve/"+url.PathEscape(applicationID), nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Reject rejects a pending application.
func (c *Client) Reject(ctx context.Context, applicationID string) (*domain.StaffApplication, error) {
	var out dto.StaffApplicationResponse
	if err := c.do(ctx, http.MethodPost, "/staff/reject/"+url.PathEscape(applicationID), nil, nil, &out); err != nil {
		return nil, err
	}
	app := out.ToDomain()
	return &app, nil
}

// ValidateToken returns the identity bound to an activation token.
func (c *Client) ValidateToken(ctx context.Context, token string) (*dto.TokenIdentityResponse, error) {
	var out dto.TokenIdentityResponse
	if err := c.do(ctx, http.MethodGet, "/staff/validate-token", url.Values{"token": {token}}, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Activate sets the first password of an approved staff member.
func (c *Client) Activate(ctx context.Context, token, password string) (*domain.StaffUser, error) {
	var out dto.StaffUserResponse
	if err := c.do(ctx, http.MethodPost, "/staff/activate", nil, dto.ActivateRequest{Token: token, Password: password}, &out); err != nil {
		return nil, err
	}
	user := out.ToDomain()
	return &user, nil
}

// ChangePassword replaces a staff member's password.
func (c *Client) ChangePassword(ctx context.Context, email, currentPassword, newPassword string) error {
	body := dto.PasswordChangeRequest{Email: email, CurrentPassword: currentPassword, NewPassword: newPassword}
	return c.do(ctx, http.MethodPost, "/staff/change-password", nil, body, nil)
}

// Login opens a staff session. The caller decides whether to keep the token.
func (c *Client) Login(ctx context.Context, email, password string) (*dto.LoginResponse, error) {
	var out dto.LoginResponse
	if err := c.do(ctx, http.MethodPost, "/staff/login", nil, dto.StaffLoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Logout revokes the current session.
func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/staff/logout", nil, nil, nil)
}
