package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/schoolgate/webclient/internal/models"
)

// Gateway action names. Every data operation in the application funnels
// through one of these.
const (
	ActionLogin             = "login"
	ActionGetPermissions    = "getPermissions"
	ActionSubmitPermission  = "submitPermission"
	ActionUpdatePermission  = "updatePermission"
	ActionGetPoints         = "getPoints"
	ActionGetUsers          = "getUsers"
	ActionCreateStudent     = "createStudent"
	ActionUpdateStudent     = "updateStudent"
	ActionDeleteStudent     = "deleteStudent"
	ActionGetLateRecords    = "getLateRecords"
	ActionGetLateRecordByID = "getLateRecordById"
	ActionSaveLateRecord    = "saveLateRecord"
	ActionUpdateLateRecord  = "updateLateRecord"
	ActionDeleteLateRecord  = "deleteLateRecord"
	ActionGetLateStatistics = "getLateStatistics"
)

// Params is the flat string mapping sent alongside an action.
type Params map[string]string

// Result is the gateway's response envelope. Exactly one payload field is
// populated per action; Success and Message are always meaningful.
type Result struct {
	Success     bool                       `json:"success"`
	Message     string                     `json:"message,omitempty"`
	User        *models.User               `json:"user,omitempty"`
	Users       []models.User              `json:"users,omitempty"`
	Permissions []models.PermissionRequest `json:"permissions,omitempty"`
	Points      []models.DisciplinePoint   `json:"points,omitempty"`
	TotalPoints int                        `json:"totalPoints,omitempty"`
	LateRecords []models.LateRecord        `json:"lateRecords,omitempty"`
	LateRecord  *models.LateRecord         `json:"lateRecord,omitempty"`
	Statistics  *models.LateStatistics     `json:"statistics,omitempty"`
}

// Caller dispatches one action to the gateway. Implementations never
// surface transport errors: a failed call yields a synthetic Result with
// Success false, so callers branch on Success rather than on exceptions.
type Caller interface {
	Call(ctx context.Context, action string, params Params) *Result
	// Degraded reports whether this caller serves demo data instead of
	// the real backend.
	Degraded() bool
}

// GenericFailureMessage is surfaced when the gateway is unreachable or
// returns something that is not JSON.
const GenericFailureMessage = "Terjadi kesalahan saat menghubungi server. Coba lagi nanti."

// HTTPClient posts form-encoded actions to the remote gateway endpoint.
// One attempt per call: no retries, no backoff, and no client timeout,
// matching the gateway's single-shot contract.
type HTTPClient struct {
	endpoint string
	client   *http.Client
	logger   *zap.Logger
	observe  func(action string, success bool, duration time.Duration)
}

// NewHTTPClient constructs the gateway client. observe may be nil.
func NewHTTPClient(endpoint string, logger *zap.Logger, observe func(action string, success bool, duration time.Duration)) *HTTPClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &HTTPClient{
		endpoint: endpoint,
		client:   &http.Client{},
		logger:   logger,
		observe:  observe,
	}
}

// Degraded always reports false for the real client.
func (c *HTTPClient) Degraded() bool { return false }

// Call serialises the action into an application/x-www-form-urlencoded
// POST body and decodes the JSON response verbatim.
func (c *HTTPClient) Call(ctx context.Context, action string, params Params) *Result {
	start := time.Now()
	result := c.call(ctx, action, params)
	if c.observe != nil {
		c.observe(action, result.Success, time.Since(start))
	}
	return result
}

func (c *HTTPClient) call(ctx context.Context, action string, params Params) *Result {
	form := url.Values{}
	form.Set("action", action)
	for key, value := range params {
		form.Set(key, value)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		c.logger.Error("gateway request build failed", zap.String("action", action), zap.Error(err))
		return &Result{Success: false, Message: GenericFailureMessage}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Warn("gateway unreachable", zap.String("action", action), zap.Error(err))
		return &Result{Success: false, Message: GenericFailureMessage}
	}
	defer resp.Body.Close()

	result := &Result{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		c.logger.Warn("gateway returned non-JSON response",
			zap.String("action", action),
			zap.Int("status", resp.StatusCode),
			zap.Error(err))
		return &Result{Success: false, Message: GenericFailureMessage}
	}

	if !result.Success && result.Message == "" {
		result.Message = GenericFailureMessage
	}

	return result
}
