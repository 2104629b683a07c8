package backend

import (
	"context"
	"net/http"
	"net/url"

	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/javajoker/energy-eservice/internal/models"
)

const adminRequestsPath = "/api/v1/admin-portal/services/requests"

type RequestFilter struct {
	LicenseType models.LicenseType
	Status      string
	Query       url.Values
}

func (f RequestFilter) values() url.Values {
	v := url.Values{}
	for key, vals := range f.Query {
		for _, val := range vals {
			v.Add(key, val)
		}
	}
	if f.LicenseType != "" {
		v.Set("type", string(f.LicenseType))
	}
	if f.Status != "" {
		v.Set("status", f.Status)
	}
	return v
}

func typeQuery(licenseType models.LicenseType) url.Values {
	v := url.Values{}
	v.Set("type", string(licenseType))
	return v
}

func requestPath(id string, suffix string) string {
	return adminRequestsPath + "/" + url.PathEscape(id) + suffix
}

func (c *Client) ListRequests(ctx context.Context, token string, filter RequestFilter) (*models.RequestList, error) {
	payload, err := c.do(ctx, call{
		operation: "requests.list",
		method:    http.MethodGet,
		path:      adminRequestsPath,
		query:     filter.values(),
		token:     token,
	})
	if err != nil {
		return nil, err
	}
	return decodeRequestList("requests.list", payload)
}

func (c *Client) GetRequest(ctx context.Context, token, id string, licenseType models.LicenseType) (*models.LicenseRequest, error) {
	payload, err := c.do(ctx, call{
		operation: "requests.detail",
		method:    http.MethodGet,
		path:      requestPath(id, ""),
		query:     typeQuery(licenseType),
		token:     token,
	})
	if err != nil {
		return nil, err
	}
	return decodeRequest("requests.detail", payload)
}

// UpdateStatus carries accept, approve and reject.
func (c *Client) UpdateStatus(ctx context.Context, token, id string, licenseType models.LicenseType, update models.StatusUpdate) (*models.LicenseRequest, error) {
	return c.transition(ctx, call{
		operation: "requests.status",
		method:    http.MethodPut,
		path:      requestPath(id, "/status"),
		query:     typeQuery(licenseType),
		token:     token,
		body:      update,
	})
}

func (c *Client) Assign(ctx context.Context, token, id string, licenseType models.LicenseType, input models.AssignInput) (*models.LicenseRequest, error) {
	return c.transition(ctx, call{
		operation: "requests.assign",
		method:    http.MethodPost,
		path:      requestPath(id, "/assign"),
		query:     typeQuery(licenseType),
		token:     token,
		body:      input,
	})
}

func (c *Client) Return(ctx context.Context, token, id string, licenseType models.LicenseType, input models.ReturnInput) (*models.LicenseRequest, error) {
	return c.transition(ctx, call{
		operation: "requests.return",
		method:    http.MethodPost,
		path:      requestPath(id, "/return"),
		query:     typeQuery(licenseType),
		token:     token,
		body:      input,
	})
}

func (c *Client) Forward(ctx context.Context, token, id string, licenseType models.LicenseType, input models.ForwardInput) (*models.LicenseRequest, error) {
	return c.transition(ctx, call{
		operation: "requests.forward",
		method:    http.MethodPost,
		path:      requestPath(id, "/forward"),
		query:     typeQuery(licenseType),
		token:     token,
		body:      input,
	})
}

// transition returns the updated request when the backend echoes one, nil
// when it only acknowledges. Any 2xx means the change was applied, so an
// echo that does not decode as a full request counts as an acknowledgement.
func (c *Client) transition(ctx context.Context, req call) (*models.LicenseRequest, error) {
	payload, err := c.do(ctx, req)
	if err != nil {
		return nil, err
	}
	if wrapped := payload.Get("request"); wrapped.IsObject() {
		payload = wrapped
	}
	if !payload.IsObject() || !payload.Get("id").Exists() {
		return nil, nil
	}

	updated, err := decodeRequest(req.operation, payload)
	if err != nil {
		logrus.WithError(err).WithField("operation", req.operation).Warn("Partial transition echo, treating as acknowledgement")
		return nil, nil
	}
	return updated, nil
}

func decodeRequest(operation string, payload gjson.Result) (*models.LicenseRequest, error) {
	if req := payload.Get("request"); req.IsObject() {
		payload = req
	}
	var out models.LicenseRequest
	if err := decode(operation, payload, &out); err != nil {
		return nil, err
	}
	if err := checkRequest(out); err != nil {
		return nil, malformed("%s: %v", operation, err)
	}
	return &out, nil
}

func decodeRequestList(operation string, payload gjson.Result) (*models.RequestList, error) {
	var list models.RequestList
	switch {
	case payload.IsArray():
		if err := decode(operation, payload, &list.Items); err != nil {
			return nil, err
		}
		list.Total = int64(len(list.Items))
	case payload.IsObject():
		if err := decode(operation, payload, &list); err != nil {
			return nil, err
		}
		if !payload.Get("items").IsArray() {
			return nil, malformed("%s: missing items array", operation)
		}
	default:
		return nil, malformed("%s: expected an object or array", operation)
	}

	for i, item := range list.Items {
		if err := checkRequest(item); err != nil {
			return nil, malformed("%s: item %d: %v", operation, i, err)
		}
	}
	if list.Items == nil {
		list.Items = []models.LicenseRequest{}
	}
	return &list, nil
}

type fieldError string

func (e fieldError) Error() string { return "missing field " + string(e) }

func checkRequest(r models.LicenseRequest) error {
	switch {
	case r.ID == "":
		return fieldError("id")
	case r.Status == "":
		return fieldError("status")
	case r.LicenseType == "":
		return fieldError("licenseType")
	}
	return nil
}
