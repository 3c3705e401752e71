// Package client talks to the company employee directory.
package client

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chemstock/chemstock-backend/internal/inventory/domain"
	"github.com/chemstock/chemstock-backend/pkg/config"
	"github.com/chemstock/chemstock-backend/pkg/errors"
	"github.com/chemstock/chemstock-backend/pkg/logger"
	"github.com/go-resty/resty/v2"
)

const (
	serviceID    = "VJ"
	languageCode = "ENG"
)

type lookupRequest struct {
	ServiceID string `json:"serviceId"`
	LangCd    string `json:"langCd"`
	EmpID     string `json:"empId"`
}

type lookupResponse struct {
	Success bool `json:"success"`
	Data    *struct {
		OutCursor []domain.User `json:"OUT_CURSOR"`
	} `json:"data"`
}

// EmployeeClient looks employees up by id
type EmployeeClient struct {
	client *resty.Client
	url    string
	logger *logger.Logger
}

// NewEmployeeClient creates a directory client for cfg.EmployeeLookupURL
func NewEmployeeClient(cfg config.ServicesConfig, log *logger.Logger) *EmployeeClient {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &EmployeeClient{
		client: resty.New().SetTimeout(timeout),
		url:    cfg.EmployeeLookupURL,
		logger: log,
	}
}

// Lookup returns the first profile the directory reports for empID.
// Transport failures and non-2xx answers come back as LookupUnavailable,
// an empty or unsuccessful answer as EmployeeNotFound.
func (c *EmployeeClient) Lookup(ctx context.Context, empID string) (*domain.User, error) {
	var out lookupResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(lookupRequest{ServiceID: serviceID, LangCd: languageCode, EmpID: strings.TrimSpace(empID)}).
		SetResult(&out).
		Post(c.url)
	if err != nil {
		c.logger.Warn().Err(err).Str("emp_id", empID).Msg("employee lookup failed")
		return nil, errors.LookupUnavailable(err)
	}
	if resp.IsError() {
		c.logger.Warn().Int("status", resp.StatusCode()).Str("emp_id", empID).Msg("employee lookup rejected")
		return nil, errors.LookupUnavailable(fmt.Errorf("status %d", resp.StatusCode()))
	}

	if !out.Success || out.Data == nil || len(out.Data.OutCursor) == 0 {
		return nil, errors.EmployeeNotFound()
	}

	u := out.Data.OutCursor[0]
	return &u, nil
}
